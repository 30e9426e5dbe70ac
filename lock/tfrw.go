// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// TaskFairRWLock treats readers and writers in arrival order: each
// kind draws from its own ticket dispenser, and a snapshot of the
// other kind's dispenser taken at arrival acts as the barrier an
// acquirer must wait for.
//
// Concretely: a writer's snapshot of rticket at arrival is the number
// of readers that arrived strictly before it; the writer waits for
// rserved to reach that count, i.e. for every such reader to depart.
// A reader's snapshot of wticket at arrival is the number of writers
// that arrived strictly before it (including one currently holding
// the lock); the reader waits for wserved to reach that count. This
// produces batches of readers alternating with individual writers in
// strict arrival order, without requiring a single combined FIFO
// queue: a writer holding the lock delays every reader that arrives
// while it holds, because such a reader's snapshot already includes
// that writer's ticket.
type TaskFairRWLock struct {
	rticket atomix.Uint32 // reader arrival dispenser
	wticket atomix.Uint32 // writer arrival dispenser
	rserved atomix.Uint32 // readers departed so far
	wserved atomix.Uint32 // writers departed so far
}

// AcquireWrite takes a writer ticket, then waits for its turn among
// writers and for every reader that arrived before it to depart.
func (l *TaskFairRWLock) AcquireWrite() {
	myTicket := l.wticket.AddAcqRel(1) - 1
	readerBarrier := l.rticket.LoadAcquire()

	var bo arch.Backoff
	for l.wserved.LoadAcquire() != myTicket {
		bo.Once()
	}
	for l.rserved.LoadAcquire() < readerBarrier {
		bo.Once()
	}
}

// ReleaseWrite advances the writer-served counter.
func (l *TaskFairRWLock) ReleaseWrite() {
	l.wserved.AddAcqRel(1)
}

// AcquireRead takes a reader ticket and waits for every writer that
// arrived before it — including one currently holding the lock — to
// depart.
func (l *TaskFairRWLock) AcquireRead() {
	l.rticket.AddAcqRel(1)
	writerBarrier := l.wticket.LoadAcquire()

	var bo arch.Backoff
	for l.wserved.LoadAcquire() < writerBarrier {
		bo.Once()
	}
}

// ReleaseRead advances the reader-served counter.
func (l *TaskFairRWLock) ReleaseRead() {
	l.rserved.AddAcqRel(1)
}
