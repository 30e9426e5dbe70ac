// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import "time"

// Clock reports monotonic time. Run accepts one so tests can
// substitute a fake instead of depending on wall-clock timing.
type Clock interface {
	Now() time.Time
}

// MonotonicClock is the default Clock, backed by the runtime's
// monotonic clock reading (time.Now's monotonic component).
type MonotonicClock struct{}

func (MonotonicClock) Now() time.Time { return time.Now() }

// Affinity pins the calling OS thread to a CPU. Implementations may
// fail with "not permitted"; the harness treats that as non-fatal and
// simply runs unpinned.
type Affinity interface {
	Pin(cpu int) error
}

// Scheduler requests a real-time scheduling policy for the calling OS
// thread. Implementations fall back to the default policy when
// FIFO/RR is disallowed by the OS.
type Scheduler interface {
	SetFIFO() error
}

// ErrorSink reports a usage or configuration error with context.
type ErrorSink interface {
	Report(domain, msg string, ctx map[string]any)
}
