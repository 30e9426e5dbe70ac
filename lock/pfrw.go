// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// Phase-fair reader/writer lock bit layout for the rin/rout counters:
// the low two bits encode phase-ID and presence of a waiting writer,
// the remaining bits are the actual reader count.
const (
	pfrwPhaseID  uint32 = 0x1
	pfrwPresent  uint32 = 0x2
	pfrwMask     uint32 = 0x3
	pfrwReaderID uint32 = 0x4
)

// PhaseFairRWLock bounds writer latency to at most one reader phase:
// a waiting writer sets a presence bit new readers must respect, so
// at most the readers already admitted before the writer arrived run
// ahead of it.
type PhaseFairRWLock struct {
	rin     atomix.Uint32 // reader arrivals, low 2 bits = phase/presence
	rout    atomix.Uint32 // reader departures, same low-bit encoding
	ticket  atomix.Uint32 // writer ticket dispenser
	serving atomix.Uint32 // writer ticket currently being served
}

// AcquireWrite takes a ticket, waits for its turn among writers, then
// announces presence in rin (tagged with the ticket's phase bit) and
// waits for every reader admitted before that announcement to depart.
func (l *PhaseFairRWLock) AcquireWrite() {
	var bo arch.Backoff

	tix := l.ticket.AddAcqRel(1) - 1
	for tix != l.serving.LoadAcquire() {
		bo.Once()
	}

	w := pfrwPresent | (tix & pfrwPhaseID)
	r := l.rin.AddAcqRel(w) - w

	var drain arch.Backoff
	for r != l.rout.LoadAcquire() {
		drain.Once()
	}
}

// ReleaseWrite clears the phase/presence bits from rin and advances
// to the next writer ticket.
func (l *PhaseFairRWLock) ReleaseWrite() {
	var bo arch.Backoff
	for {
		cur := l.rin.LoadAcquire()
		if l.rin.CompareAndSwapAcqRel(cur, cur&^pfrwMask) {
			break
		}
		bo.Once()
	}
	serving := l.serving.LoadRelaxed()
	l.serving.StoreRelease(serving + 1)
}

// AcquireRead registers arrival in rin; if a writer is present for the
// current phase, it waits for that phase to end before proceeding. A
// new reader joining while a writer waits is delayed to the next
// reader phase, bounding writer latency.
func (l *PhaseFairRWLock) AcquireRead() {
	w := (l.rin.AddAcqRel(pfrwReaderID) - pfrwReaderID) & pfrwMask
	if w == 0 {
		return
	}
	var bo arch.Backoff
	for l.rin.LoadAcquire()&pfrwMask == w {
		bo.Once()
	}
}

// ReleaseRead records this reader's departure.
func (l *PhaseFairRWLock) ReleaseRead() {
	l.rout.AddAcqRel(pfrwReaderID)
}
