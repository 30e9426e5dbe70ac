// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Config is a validated run configuration, independent of any
// particular argument-parsing front end.
type Config struct {
	LockType LockType
	Laps     uint64
	Objects  int
	Threads  int
	Affinity uint64
	Verbose  bool
}

// Result is a completed run's summary report.
type Result struct {
	Workers   []WorkerResult
	Duration  time.Duration
	Fairness  float64
	OpsPerSec float64
	NsPerOp   float64
}

// Run allocates the object array, spawns Config.Threads workers behind
// a start barrier, drives Config.Laps laps each against Config.Objects
// objects under Config.LockType, and reports throughput and fairness.
func Run(cfg Config, clock Clock, aff Affinity, sched Scheduler) (Result, error) {
	if cfg.Threads < 1 || cfg.Threads > MaxThreads {
		return Result{}, fmt.Errorf("bench: threads must be in 1..%d", MaxThreads)
	}
	if cfg.Objects < 1 {
		return Result{}, fmt.Errorf("bench: objects must be >= 1")
	}
	if cfg.Laps < 1 {
		return Result{}, fmt.Errorf("bench: laps must be >= 1")
	}
	if clock == nil {
		clock = MonotonicClock{}
	}

	objs := NewObjects(cfg.Objects)
	start := newStartBarrier(cfg.Threads)
	stop := newStopLatch(cfg.Threads)

	workers := make([]*worker, cfg.Threads)
	var wg sync.WaitGroup
	var startTime, endTime time.Time

	remainingMask := cfg.Affinity
	for i := 0; i < cfg.Threads; i++ {
		w := newWorker(i, seedFor(i), cfg.Objects)
		workers[i] = w
		wg.Add(1)

		cpu, rest, ok := lowestSetBit(remainingMask)
		if ok {
			remainingMask = rest
		}

		go func(w *worker, tid int, cpu int, pin bool) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			if pin && aff != nil {
				_ = aff.Pin(cpu)
			}
			if sched != nil {
				_ = sched.SetFIFO()
			}

			start.arrive(tid)
			for lap := uint64(0); lap < cfg.Laps; lap++ {
				w.runLap(objs, cfg.LockType)
			}
			if stop.depart() {
				endTime = clock.Now()
			}
		}(w, i, cpu, ok)
	}

	start.open()
	startTime = clock.Now()
	<-stop.done
	wg.Wait()

	results := make([]WorkerResult, cfg.Threads)
	var totalOps uint64
	for i, w := range workers {
		results[i] = w.res
		totalOps += w.res.NumOps
	}

	elapsed := endTime.Sub(startTime)
	res := Result{
		Workers:  results,
		Duration: elapsed,
		Fairness: fairnessIndex(results, cfg.Laps),
	}
	if elapsed > 0 {
		secs := elapsed.Seconds()
		res.OpsPerSec = float64(totalOps) / secs
		res.NsPerOp = float64(elapsed.Nanoseconds()) / float64(totalOps)
	}
	return res, nil
}

// seedFor derives a distinct, non-zero xorshift64* seed per worker so
// concurrent workers never share RNG state.
func seedFor(tid int) uint64 {
	return 0x9e3779b97f4a7c15 ^ (uint64(tid+1) * 0xbf58476d1ce4e5b9)
}

// lowestSetBit returns the lowest set bit's position in mask and the
// mask with that bit cleared, so each successive worker pins to the
// lowest-set-bit CPU of what remains of the affinity mask.
func lowestSetBit(mask uint64) (pos int, rest uint64, ok bool) {
	if mask == 0 {
		return 0, 0, false
	}
	low := mask & (^mask + 1)
	p := 0
	for low > 1 {
		low >>= 1
		p++
	}
	return p, mask &^ (uint64(1) << uint(p)), true
}
