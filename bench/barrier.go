// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// MaxThreads bounds a run's thread count to what fits in the start
// barrier's single-word bitmask.
const MaxThreads = 64

// startBarrier holds every worker at the starting line until all N
// have confirmed they are spawned and ready, then releases them
// together: each worker's bit in a shared bitmask word is cleared
// once it arrives.
type startBarrier struct {
	pending atomix.Uint64 // bit i set: worker i has not yet arrived
	release atomix.Bool
}

func newStartBarrier(n int) *startBarrier {
	b := &startBarrier{}
	b.pending.StoreRelaxed((uint64(1) << uint(n)) - 1)
	return b
}

// arrive clears this worker's bit, then spins until every worker has
// arrived and the harness opens the gate.
func (b *startBarrier) arrive(tid int) {
	bit := uint64(1) << uint(tid)
	for {
		cur := b.pending.LoadAcquire()
		if cur&bit == 0 {
			break
		}
		if b.pending.CompareAndSwapAcqRel(cur, cur&^bit) {
			break
		}
	}
	var bo arch.Backoff
	for !b.release.LoadAcquire() {
		bo.Once()
	}
}

// open blocks until every worker has arrived, then releases them all.
func (b *startBarrier) open() {
	var bo arch.Backoff
	for b.pending.LoadAcquire() != 0 {
		bo.Once()
	}
	b.release.StoreRelease(true)
}

// stopLatch tracks how many workers remain; the worker that observes
// the count reach zero is the one that records the finish time and
// signals completion.
type stopLatch struct {
	remaining atomix.Uint32
	done      chan struct{}
}

func newStopLatch(n int) *stopLatch {
	l := &stopLatch{done: make(chan struct{})}
	l.remaining.StoreRelaxed(uint32(n))
	return l
}

// depart reports true to exactly one caller: the last to depart.
func (l *stopLatch) depart() bool {
	last := l.remaining.AddAcqRel(^uint32(0)) == 0
	if last {
		close(l.done)
	}
	return last
}
