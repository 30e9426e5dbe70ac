// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/lockbench/lock"
)

func TestTicketMutualExclusion(t *testing.T) {
	var l lock.Ticket

	const goroutines = 8
	const laps = 5000
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range laps {
				tk := l.Acquire()
				counter++
				l.Release(tk)
			}
		}()
	}
	wg.Wait()

	if counter != goroutines*laps {
		t.Fatalf("counter = %d, want %d", counter, goroutines*laps)
	}
}

// TestTicketAssignsSequentially checks that tickets are handed out in
// strict arrival order, the invariant the rest of FIFO ordering rests
// on.
func TestTicketAssignsSequentially(t *testing.T) {
	var l lock.Ticket

	const n = 64
	tickets := make([]uint16, n)
	for i := range tickets {
		tickets[i] = l.Acquire()
		l.Release(tickets[i])
	}
	for i := 1; i < n; i++ {
		if tickets[i] != tickets[i-1]+1 {
			t.Fatalf("ticket %d = %d, want %d", i, tickets[i], tickets[i-1]+1)
		}
	}
}

func TestTicketReleaseWrongTicketPanics(t *testing.T) {
	var l lock.Ticket
	tk := l.Acquire()

	defer func() {
		if recover() == nil {
			t.Fatal("Release with a ticket that is not currently serving should panic")
		}
	}()
	l.Release(tk + 1)
}
