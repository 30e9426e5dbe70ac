// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arch is the thin layer every lock kind and the ring buffer
// spin on: a full fence and the three optional microarchitectural
// hints a spin loop wants — pause, wait-for-event and send-event.
// Atomic load/store/RMW with explicit memory ordering is not wrapped
// here; callers use [code.hybscloud.com/atomix] types directly.
//
// Platforms without a monitor/mwait-style wait-for-event instruction
// fall back to [spin.Wait]'s backoff loop transparently; SendEvent is
// then a no-op, since nothing is parked on an address to wake.
package arch

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// Backoff is a spin-wait courtesy loop: call Once between failed CAS
// attempts or predicate re-checks. It wraps [spin.Wait] so every lock
// in package lock shares one adaptive backoff policy.
type Backoff struct {
	sw spin.Wait
}

// Once issues a single PAUSE-equivalent hint and grows the backoff.
func (b *Backoff) Once() { b.sw.Once() }

// Reset clears accumulated backoff, used after a lock is acquired so
// the next contended wait starts fresh.
func (b *Backoff) Reset() { b.sw = spin.Wait{} }

// Fence issues a full (sequentially consistent) memory fence. It is
// used by the reader-writer lock's read-release path: a reader that
// performed only loads inside the critical section has no store to
// attach release semantics to, so it fences explicitly before the
// relaxed fetch-sub that drops its occupancy.
func Fence() {
	// sync/atomic has no free-standing fence primitive; a
	// sequentially consistent CAS on a throwaway word that always succeeds has the same
	// acquire+release effect the runtime guarantees around atomic
	// RMW instructions on every platform Go supports.
	var sink atomic.Uint32
	sink.CompareAndSwap(0, 0)
}

// WaitForEvent spins until the monitored word's value changes from
// old, calling b.Once between re-checks; it returns only once the
// value differs. It is the WAIT_FOR_EVENT microarchitectural hint:
// suspend until a monitored address changes.
//
// There is no portable Go monitor/mwait; this degrades to an
// unbounded spin using Backoff. An implementation without a real wait-for-event
// instruction must still honor the same contract using a yield or
// backoff loop, which is what this does.
func WaitForEvent(addr *uint32, old uint32, b *Backoff) {
	for atomic.LoadUint32(addr) == old {
		b.Once()
	}
}

// SendEvent wakes threads parked in WaitForEvent on addr. Since this
// build has no real event queue, the store that changes addr's value
// is itself the wake signal — SendEvent exists so call sites document
// intent at the point where a lock becomes available, even though it
// has no extra work to do here.
func SendEvent(addr *uint32) {
	_ = addr
}
