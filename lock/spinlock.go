// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lock provides six independent mutual-exclusion and
// reader-writer lock kinds, each a fixed-size word or queue node built
// directly on [code.hybscloud.com/atomix] atomics and
// [code.hybscloud.com/spin]-flavored backoff (via package arch):
// Spinlock, RWLock (simple), Ticket, TaskFairRWLock, PhaseFairRWLock
// and CLH.
//
// None of the six blocks the calling goroutine in the kernel: every
// wait is a spin, optionally courtesy-paused via arch.Backoff. A
// caller that acquires a lock must release it; releasing without a
// matching acquire is a usage error (see [UsageError]) and panics,
// since recovering from a corrupted lock state would only hide the bug.
package lock

import (
	"fmt"
	"os"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// UsageError reports a misuse of a lock primitive: a release without a
// matching acquire, a writer release with the wrong observed value, or
// any other caller contract violation. Detecting one means the caller
// is broken; abort panics with it rather than attempting recovery.
type UsageError struct {
	Primitive string
	Msg       string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("lock: %s: %s", e.Primitive, e.Msg)
}

// abort logs a usage error to stderr, naming the primitive, then
// panics with it. This is the single error-reporting sink every lock
// kind's usage-error path funnels through.
func abort(primitive, msg string) {
	err := &UsageError{Primitive: primitive, Msg: msg}
	fmt.Fprintln(os.Stderr, err.Error())
	panic(err)
}

// Spinlock is a plain test-and-set spinlock: one word, 0 = free,
// 1 = held. It gives no fairness guarantee among waiters.
type Spinlock struct {
	state atomix.Uint32
}

// Init resets the lock to free. The zero value is already free, so
// Init is only needed to reset a reused lock.
func (l *Spinlock) Init() {
	l.state.StoreRelaxed(0)
}

// Acquire spins until the lock is free, then claims it: repeatedly
// load-acquire until seen free, then attempt a 0→1 compare-exchange
// with acquire ordering; on failure, back off and retry.
func (l *Spinlock) Acquire() {
	var bo arch.Backoff
	for {
		for l.state.LoadAcquire() != 0 {
			bo.Once()
		}
		if l.state.CompareAndSwapAcqRel(0, 1) {
			return
		}
		bo.Once()
	}
}

// TryAcquire attempts to claim the lock without spinning. Returns true
// on success.
func (l *Spinlock) TryAcquire() bool {
	return l.state.LoadAcquire() == 0 && l.state.CompareAndSwapAcqRel(0, 1)
}

// Release frees the lock with release ordering so a subsequent
// acquirer's acquire-load synchronizes-with this store.
func (l *Spinlock) Release() {
	if l.state.LoadRelaxed() == 0 {
		abort("Spinlock", "release without matching acquire")
	}
	l.state.StoreRelease(0)
}
