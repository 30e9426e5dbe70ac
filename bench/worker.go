// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"code.hybscloud.com/lockbench/lock"
	"code.hybscloud.com/spin"
)

// WorkerResult is one worker's final counters, reported as one
// per-thread output line.
type WorkerResult struct {
	TID       int
	NumFailRd uint64
	NumFailWr uint64
	NumMultRd uint64
	NumOps    uint64
}

// worker is the per-goroutine state a benchmark run threads through
// its laps: its own RNG, its own CLH handles and ticket stubs (one
// per object, since CLH and Ticket both carry per-acquirer state
// across an acquire/release pair), and its result counters.
type worker struct {
	tid    int
	rng    *xorshift64star
	clh    []*lock.CLHHandle
	ticket []uint16
	res    WorkerResult
}

func newWorker(tid int, seed uint64, nObjects int) *worker {
	w := &worker{
		tid:    tid,
		rng:    newXorshift64Star(seed),
		clh:    make([]*lock.CLHHandle, nObjects),
		ticket: make([]uint16, nObjects),
		res:    WorkerResult{TID: tid},
	}
	for i := range w.clh {
		w.clh[i] = &lock.CLHHandle{}
	}
	return w
}

// runLap performs one lap: pick a random object, pick shared or
// exclusive with a 7/8-shared split, acquire under lt, verify mutual
// exclusion, release.
func (w *worker) runLap(objs []*Object, lt LockType) {
	idx := w.rng.objectIndex(len(objs))
	obj := objs[idx]

	if w.rng.exclusive() {
		w.acquireExclusive(obj, lt, idx)
		w.exclusiveSection(obj)
		w.releaseExclusive(obj, lt, idx)
	} else {
		w.acquireShared(obj, lt, idx)
		w.sharedSection(obj)
		w.releaseShared(obj, lt, idx)
	}
	w.res.NumOps++
}

// delay gives a concurrent peer a window to observe a mutual-exclusion
// violation before the second check. A few spin.Wait pause hints burn
// real cycles without blocking, unlike an empty loop a compiler is
// free to discard.
func delay() {
	var sw spin.Wait
	for i := 0; i < 24; i++ {
		sw.Once()
	}
}

// exclusiveSection occupies the object as a writer: verify no reader
// is present, mark writer-occupied, delay, verify again.
func (w *worker) exclusiveSection(obj *Object) {
	if obj.readers.LoadAcquire() != 0 {
		w.res.NumFailWr++
	}
	obj.writers.AddAcqRel(1)
	delay()
	if obj.readers.LoadAcquire() != 0 {
		w.res.NumFailWr++
	}
	obj.writers.AddAcqRel(^uint32(0))
}

// sharedSection occupies the object as a reader: verify no writer is
// present, mark reader-occupied (recording nummultrd if more than one
// reader is concurrently present, which is expected and not a
// failure), delay, verify again.
func (w *worker) sharedSection(obj *Object) {
	if obj.writers.LoadAcquire() != 0 {
		w.res.NumFailRd++
	}
	n := obj.readers.AddAcqRel(1)
	if n > 1 {
		w.res.NumMultRd++
	}
	delay()
	if obj.writers.LoadAcquire() != 0 {
		w.res.NumFailRd++
	}
	obj.readers.AddAcqRel(^uint32(0))
}

// acquireExclusive dispatches to the selected lock kind's exclusive
// (or only) acquire path. Plain, Ticket and CLH have no reader
// concept, so both shared and exclusive laps take the same mutex.
func (w *worker) acquireExclusive(obj *Object, lt LockType, idx int) {
	switch lt {
	case Plain:
		obj.Spinlock.Acquire()
	case RW:
		obj.RWLock.AcquireWrite()
	case TFRW:
		obj.TFRW.AcquireWrite()
	case PFRW:
		obj.PFRW.AcquireWrite()
	case CLH:
		obj.CLH.Acquire(w.clh[idx])
	case Ticket:
		w.ticket[idx] = obj.Ticket.Acquire()
	}
}

func (w *worker) releaseExclusive(obj *Object, lt LockType, idx int) {
	switch lt {
	case Plain:
		obj.Spinlock.Release()
	case RW:
		obj.RWLock.ReleaseWrite()
	case TFRW:
		obj.TFRW.ReleaseWrite()
	case PFRW:
		obj.PFRW.ReleaseWrite()
	case CLH:
		obj.CLH.Release(w.clh[idx])
	case Ticket:
		obj.Ticket.Release(w.ticket[idx])
	}
}

func (w *worker) acquireShared(obj *Object, lt LockType, idx int) {
	switch lt {
	case RW:
		obj.RWLock.AcquireRead()
	case TFRW:
		obj.TFRW.AcquireRead()
	case PFRW:
		obj.PFRW.AcquireRead()
	default:
		w.acquireExclusive(obj, lt, idx)
	}
}

func (w *worker) releaseShared(obj *Object, lt LockType, idx int) {
	switch lt {
	case RW:
		obj.RWLock.ReleaseRead()
	case TFRW:
		obj.TFRW.ReleaseRead()
	case PFRW:
		obj.PFRW.ReleaseRead()
	default:
		w.releaseExclusive(obj, lt, idx)
	}
}
