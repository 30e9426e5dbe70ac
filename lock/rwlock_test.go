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

// TestRWLockScenario exercises 3 readers against 1 writer for 5,000
// laps each. No numfailrd should ever be observed; readers may see
// count_rd > 1 concurrently (recorded as nummultrd, not a failure).
func TestRWLockScenario(t *testing.T) {
	var l lock.RWLock
	var readers, writers atomic.Int32
	var numFailRd, numFailWr, numMultRd atomic.Int64

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
				n := readers.Add(1)
				if n > 1 {
					numMultRd.Add(1)
				}
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

func TestRWLockReleaseReadWithoutAcquirePanics(t *testing.T) {
	var l lock.RWLock

	defer func() {
		if recover() == nil {
			t.Fatal("ReleaseRead without a matching AcquireRead should panic")
		}
	}()
	l.ReleaseRead()
}

func TestRWLockReleaseWriteWithoutAcquirePanics(t *testing.T) {
	var l lock.RWLock

	defer func() {
		if recover() == nil {
			t.Fatal("ReleaseWrite without a matching AcquireWrite should panic")
		}
	}()
	l.ReleaseWrite()
}

