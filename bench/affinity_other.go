// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package bench

import "errors"

// UnixAffinity is a no-op stand-in on platforms without
// sched_setaffinity. Pin always reports failure so callers take the
// same "affinity denied" fallback path uniformly, rather than
// silently doing nothing.
type UnixAffinity struct{}

func (UnixAffinity) Pin(int) error {
	return errors.New("bench: cpu_pin not supported on this platform")
}

// UnixFIFOScheduler is a no-op stand-in on platforms without
// SCHED_FIFO.
type UnixFIFOScheduler struct{}

func (UnixFIFOScheduler) SetFIFO() error {
	return errors.New("bench: sched_set not supported on this platform")
}
