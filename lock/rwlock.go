// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// writerBit marks the top bit of the RWLock word as writer-present.
// The low 31 bits hold the live reader count.
const writerBit uint32 = 1 << 31

// RWLock is the simple reader-writer lock: one 32-bit word, top bit
// writer-present, low 31 bits reader count. Writers may starve under
// sustained reader pressure — the accepted trade-off for a
// single-word, no-queue design.
type RWLock struct {
	state atomix.Uint32
}

// AcquireRead waits for any writer to clear, then registers as a
// reader via CAS. Retries if a writer sneaks in or another reader's
// CAS wins the race first.
func (l *RWLock) AcquireRead() {
	var bo arch.Backoff
	for {
		cur := l.state.LoadAcquire()
		for cur&writerBit != 0 {
			bo.Once()
			cur = l.state.LoadAcquire()
		}
		if l.state.CompareAndSwapAcqRel(cur, cur+1) {
			return
		}
		bo.Once()
	}
}

// ReleaseRead drops this reader's occupancy: a full fence followed
// by a fetch-sub with acquire-release ordering. A reader only ever
// performed loads in the critical section, so it has no store of its
// own to carry release semantics — arch.Fence supplies the missing
// happens-before edge before the decrement.
func (l *RWLock) ReleaseRead() {
	arch.Fence()
	after := l.state.AddAcqRel(^uint32(0)) // fetch-sub 1; after is the post-decrement value
	before := after + 1
	if before&writerBit != 0 || before == 0 {
		abort("RWLock", "release_rd on writer-held or already-free lock")
	}
}

// AcquireWrite waits for the writer bit to clear, claims it, then
// waits for the reader count to drain to zero.
func (l *RWLock) AcquireWrite() {
	var bo arch.Backoff
	for {
		cur := l.state.LoadAcquire()
		for cur&writerBit != 0 {
			bo.Once()
			cur = l.state.LoadAcquire()
		}
		if l.state.CompareAndSwapAcqRel(cur, cur|writerBit) {
			break
		}
		bo.Once()
	}
	var drain arch.Backoff
	for l.state.LoadAcquire() != writerBit {
		drain.Once()
	}
}

// ReleaseWrite requires the word read back exactly writerBit (no
// readers could have joined while the writer bit was set); any other
// observed value is a usage error.
func (l *RWLock) ReleaseWrite() {
	if l.state.LoadRelaxed() != writerBit {
		abort("RWLock", "release_wr observed readers or no writer held")
	}
	l.state.StoreRelease(0)
}
