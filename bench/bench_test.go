// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench_test

import (
	"testing"
	"time"

	"code.hybscloud.com/lockbench/bench"
)

// fakeClock lets a test control duration without depending on the
// actual wall-clock time the run takes.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(time.Millisecond)
	return now
}

func TestRunEachLockType(t *testing.T) {
	lockTypes := []bench.LockType{
		bench.Plain, bench.RW, bench.TFRW, bench.PFRW, bench.CLH, bench.Ticket,
	}
	for _, lt := range lockTypes {
		lt := lt
		t.Run(lt.String(), func(t *testing.T) {
			cfg := bench.Config{
				LockType: lt,
				Laps:     200,
				Objects:  2,
				Threads:  4,
			}
			clock := &fakeClock{t: time.Now()}
			res, err := bench.Run(cfg, clock, nil, nil)
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Workers) != cfg.Threads {
				t.Fatalf("len(Workers) = %d, want %d", len(res.Workers), cfg.Threads)
			}
			for _, w := range res.Workers {
				if w.NumFailRd != 0 || w.NumFailWr != 0 {
					t.Fatalf("worker %d: numfailrd=%d numfailwr=%d, want 0", w.TID, w.NumFailRd, w.NumFailWr)
				}
				if w.NumOps != cfg.Laps {
					t.Fatalf("worker %d: numops=%d, want %d", w.TID, w.NumOps, cfg.Laps)
				}
			}
			if res.Fairness <= 0 || res.Fairness > 1 {
				t.Fatalf("fairness = %v, want in (0, 1]", res.Fairness)
			}
		})
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cases := []bench.Config{
		{LockType: bench.Plain, Laps: 1, Objects: 1, Threads: 0},
		{LockType: bench.Plain, Laps: 1, Objects: 0, Threads: 1},
		{LockType: bench.Plain, Laps: 0, Objects: 1, Threads: 1},
		{LockType: bench.Plain, Laps: 1, Objects: 1, Threads: bench.MaxThreads + 1},
	}
	for _, cfg := range cases {
		if _, err := bench.Run(cfg, nil, nil, nil); err == nil {
			t.Fatalf("Run(%+v) should have failed", cfg)
		}
	}
}

func TestParseLockTypeRoundTrip(t *testing.T) {
	for _, s := range []string{"plain", "rw", "tfrw", "pfrw", "clh", "tkt"} {
		lt, err := bench.ParseLockType(s)
		if err != nil {
			t.Fatalf("ParseLockType(%q): %v", s, err)
		}
		if lt.String() != s {
			t.Fatalf("ParseLockType(%q).String() = %q, want %q", s, lt.String(), s)
		}
	}
	if _, err := bench.ParseLockType("bogus"); err == nil {
		t.Fatal("ParseLockType(\"bogus\") should fail")
	}
}
