// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package bench

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// UnixAffinity pins the calling OS thread to the given CPU with
// sched_setaffinity. Run picks each worker's CPU as the lowest set
// bit of what remains of the affinity mask.
type UnixAffinity struct{}

func (UnixAffinity) Pin(cpu int) error {
	var mask unix.CPUSet
	mask.Set(cpu)
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return fmt.Errorf("bench: cpu_pin not permitted for cpu %d: %w", cpu, err)
	}
	return nil
}

// schedParam mirrors struct sched_param's sole field used by
// SCHED_FIFO/SCHED_RR.
type schedParam struct {
	priority int32
}

const schedFIFO = 1 // SCHED_FIFO, from <sched.h>

// UnixFIFOScheduler requests SCHED_FIFO at the lowest real-time
// priority, falling back to the default policy on EPERM. x/sys/unix
// has no sched_setscheduler wrapper, so this issues the raw syscall
// directly, the same way a queue runner calls syscall.Syscall
// directly for calls its wrapper package doesn't cover.
type UnixFIFOScheduler struct{}

func (UnixFIFOScheduler) SetFIFO() error {
	p := schedParam{priority: 1}
	_, _, errno := syscall.Syscall(syscall.SYS_SCHED_SETSCHEDULER, 0, uintptr(schedFIFO), uintptr(unsafe.Pointer(&p)))
	if errno != 0 {
		return fmt.Errorf("bench: sched_set FIFO not permitted: %w", errno)
	}
	return nil
}
