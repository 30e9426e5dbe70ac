// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"code.hybscloud.com/lockbench/arch"
)

// Reservation is a contiguous run of slots an acquire call has carved
// out of the ring: [index, index+N()). The caller copies into or reads
// out of that range, then calls [Ring.Commit] to publish it.
type Reservation struct {
	index uint32
	n     uint32
	prod  bool
}

// N reports how many slots the reservation actually covers, which may
// be less than requested when the ring is nearly full or empty.
func (r Reservation) N() uint32 { return r.n }

// opposingPublished returns the index the given side's reservation is
// bounded by: a producer is bounded by how far the consumer has
// confirmed freeing slots, and vice versa. The lock-free consumer mode
// has no separate consumer-published head — commit is the reservation,
// so producers must gate on the consumer's reservation tail instead,
// treating in-flight speculative reads as still occupying their slots.
func (r *Ring) opposingPublished(forProd bool) uint32 {
	if forProd {
		if r.consFlag == ConsMCLockFree {
			return r.cons.tail.LoadAcquire()
		}
		cur, _ := r.cons.head.loadAcquire()
		return cur
	}
	cur, _ := r.prod.head.loadAcquire()
	return cur
}

// ReserveEnqueue reserves up to n slots for writing. It returns
// ok=false only when the ring has zero free slots right now; any
// nonzero capacity reserves a partial batch rather than blocking, on
// the expectation that the caller re-requests the remainder on a
// subsequent call.
func (r *Ring) ReserveEnqueue(n uint32) (Reservation, bool) {
	if r.prodFlag == ProdSP {
		tail := r.prod.tail.LoadRelaxed()
		head := r.opposingPublished(true)
		avail := r.capacity - (tail - head)
		if avail == 0 {
			return Reservation{}, false
		}
		if n > avail {
			n = avail
		}
		r.prod.tail.StoreRelaxed(tail + n)
		return Reservation{index: tail, n: n, prod: true}, true
	}

	var bo arch.Backoff
	for {
		tail := r.prod.tail.LoadRelaxed()
		head := r.opposingPublished(true)
		avail := r.capacity - (tail - head)
		if avail == 0 {
			return Reservation{}, false
		}
		actual := n
		if actual > avail {
			actual = avail
		}
		if r.prod.tail.CompareAndSwapAcqRel(tail, tail+actual) {
			return Reservation{index: tail, n: actual, prod: true}, true
		}
		bo.Once()
	}
}

// ReserveDequeue reserves up to n slots for reading. Callers using the
// lock-free consumer mode must use [Ring.DequeueLF] instead: that mode
// collapses reservation, read and commit into one speculative step.
func (r *Ring) ReserveDequeue(n uint32) (Reservation, bool) {
	if r.consFlag == ConsSC {
		tail := r.cons.tail.LoadRelaxed()
		head := r.opposingPublished(false)
		avail := head - tail
		if avail == 0 {
			return Reservation{}, false
		}
		if n > avail {
			n = avail
		}
		r.cons.tail.StoreRelaxed(tail + n)
		return Reservation{index: tail, n: n, prod: false}, true
	}

	var bo arch.Backoff
	for {
		tail := r.cons.tail.LoadRelaxed()
		head := r.opposingPublished(false)
		avail := head - tail
		if avail == 0 {
			return Reservation{}, false
		}
		actual := n
		if actual > avail {
			actual = avail
		}
		if r.cons.tail.CompareAndSwapAcqRel(tail, tail+actual) {
			return Reservation{index: tail, n: actual, prod: false}, true
		}
		bo.Once()
	}
}

// Write copies src into the slots a producer reservation covers. src
// must hold exactly resv.N() elements' worth of bytes.
func (r *Ring) Write(resv Reservation, src []byte) {
	for i := uint32(0); i < resv.n; i++ {
		off := r.slotOffset(resv.index + i)
		copy(r.buf[off:off+r.elemSize], src[i*r.elemSize:(i+1)*r.elemSize])
	}
	// Plain byte copies carry no atomic ordering of their own. A full
	// fence here establishes a happens-before relationship ahead of
	// the reservation's eventual publish, at the cost of one fence per
	// batch instead of one release store per element.
	arch.Fence()
}

// Read copies the slots a consumer reservation covers into dst. dst
// must have room for exactly resv.N() elements' worth of bytes.
func (r *Ring) Read(resv Reservation, dst []byte) {
	for i := uint32(0); i < resv.n; i++ {
		off := r.slotOffset(resv.index + i)
		copy(dst[i*r.elemSize:(i+1)*r.elemSize], r.buf[off:off+r.elemSize])
	}
}
