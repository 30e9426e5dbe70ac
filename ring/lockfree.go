// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/lockbench/arch"
)

// DequeueLF performs a lock-free speculative dequeue: up to n elements
// are read directly from the producer's published head before any
// consumer-side index moves, then a single CAS commits the read by
// advancing the consumer's reservation tail. On CAS failure — another
// consumer raced ahead — the read is retried against the new state.
// Reads are non-destructive, so a lost race costs nothing but the
// retry. This is the LFDEQ mode, usable only with [ConsMCLockFree].
//
// Because there is no separate publish step, producers gate their own
// reservations on the consumer's tail directly in this mode (see
// opposingPublished), treating a read still in flight as occupying its
// slot even before the owning CAS lands.
func (r *Ring) DequeueLF(n uint32, dst []byte) (actual uint32, ok bool) {
	if r.consFlag != ConsMCLockFree {
		panic("ring: DequeueLF requires ConsMCLockFree")
	}

	var bo arch.Backoff
	for {
		head, _ := r.prod.head.loadAcquire()
		tail := r.cons.tail.LoadAcquire()
		avail := head - tail
		if avail == 0 {
			return 0, false
		}
		take := n
		if take > avail {
			take = avail
		}

		for i := uint32(0); i < take; i++ {
			off := r.slotOffset(tail + i)
			copy(dst[i*r.elemSize:(i+1)*r.elemSize], r.buf[off:off+r.elemSize])
		}

		if r.cons.tail.CompareAndSwapAcqRel(tail, tail+take) {
			return take, true
		}
		bo.Once()
	}
}
