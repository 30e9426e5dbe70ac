// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"code.hybscloud.com/lockbench/lock"
)

// TestPhaseFairRWLockScenario exercises 3 readers against 1 writer for
// 5,000 laps each. No numfailrd/numfailwr should ever be observed.
func TestPhaseFairRWLockScenario(t *testing.T) {
	var l lock.PhaseFairRWLock
	var readers, writers atomic.Int32
	var numFailRd, numFailWr atomic.Int64

	const laps = 5000
	var wg sync.WaitGroup

	wg.Add(3)
	for range 3 {
		go func() {
			defer wg.Done()
			for range laps {
				l.AcquireRead()
				if writers.Load() != 0 {
					numFailRd.Add(1)
				}
				readers.Add(1)
				if writers.Load() != 0 {
					numFailRd.Add(1)
				}
				readers.Add(-1)
				l.ReleaseRead()
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range laps {
			l.AcquireWrite()
			if readers.Load() != 0 {
				numFailWr.Add(1)
			}
			writers.Add(1)
			if readers.Load() != 0 {
				numFailWr.Add(1)
			}
			writers.Add(-1)
			l.ReleaseWrite()
		}
	}()

	wg.Wait()

	if numFailRd.Load() != 0 {
		t.Fatalf("numfailrd = %d, want 0", numFailRd.Load())
	}
	if numFailWr.Load() != 0 {
		t.Fatalf("numfailwr = %d, want 0", numFailWr.Load())
	}
}

// TestPhaseFairRWLockWriterNotStarved checks that a writer waiting
// behind an already-admitted reader is not blocked forever: it
// acquires only once that reader departs, and releasing the reader
// unblocks it.
func TestPhaseFairRWLockWriterNotStarved(t *testing.T) {
	var l lock.PhaseFairRWLock

	l.AcquireRead()

	writerAcquired := make(chan struct{})
	go func() {
		l.AcquireWrite()
		close(writerAcquired)
		l.ReleaseWrite()
	}()

	select {
	case <-writerAcquired:
		t.Fatal("writer acquired while an earlier reader still holds the lock")
	default:
	}

	l.ReleaseRead()
	<-writerAcquired
}
