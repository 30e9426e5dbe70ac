// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bench drives N worker goroutines against M lock-protected
// objects, verifies mutual exclusion at runtime, and reports
// throughput and per-thread fairness.
package bench

import "fmt"

// LockType selects which of the six primitives a run exercises. A run
// picks exactly one; all M objects in that run use it.
type LockType uint8

const (
	Plain LockType = iota
	RW
	TFRW
	PFRW
	CLH
	Ticket
)

// ParseLockType maps a CLI token from the {plain, rw, tfrw, pfrw,
// clh, tkt} vocabulary to a LockType.
func ParseLockType(s string) (LockType, error) {
	switch s {
	case "plain":
		return Plain, nil
	case "rw":
		return RW, nil
	case "tfrw":
		return TFRW, nil
	case "pfrw":
		return PFRW, nil
	case "clh":
		return CLH, nil
	case "tkt":
		return Ticket, nil
	default:
		return 0, fmt.Errorf("bench: unknown lock type %q", s)
	}
}

func (t LockType) String() string {
	switch t {
	case Plain:
		return "plain"
	case RW:
		return "rw"
	case TFRW:
		return "tfrw"
	case PFRW:
		return "pfrw"
	case CLH:
		return "clh"
	case Ticket:
		return "tkt"
	default:
		return "unknown"
	}
}
