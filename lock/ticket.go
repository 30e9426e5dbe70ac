// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// Ticket is a FIFO mutual-exclusion lock: two 16-bit counters packed
// into one 32-bit word, next_ticket in the low half and now_serving in
// the high half.
//
// The two halves are extracted and reassembled explicitly on every
// update rather than relied on to carry via 32-bit integer overflow:
// a 16-bit field wrapping past 0xffff must not bleed into its
// neighbor, so Acquire/Release mask and shift instead of doing a bare
// whole-word add.
type Ticket struct {
	word atomix.Uint32
}

func ticketPack(serving, next uint16) uint32 {
	return uint32(serving)<<16 | uint32(next)
}

func ticketUnpack(w uint32) (serving, next uint16) {
	return uint16(w >> 16), uint16(w)
}

// Acquire takes the next ticket and spins until now_serving matches
// it, with acquire ordering on the final read.
func (t *Ticket) Acquire() uint16 {
	var bo arch.Backoff
	for {
		old := t.word.LoadAcquire()
		serving, next := ticketUnpack(old)
		newWord := ticketPack(serving, next+1)
		if t.word.CompareAndSwapAcqRel(old, newWord) {
			for {
				cur := t.word.LoadAcquire()
				curServing, _ := ticketUnpack(cur)
				if curServing == next {
					return next
				}
				bo.Once()
			}
		}
		bo.Once()
	}
}

// Release advances now_serving to ticket+1 with release ordering so
// the next waiter's acquire-load synchronizes-with this store. next
// can be concurrently bumped by another goroutine's Acquire between
// this call's load and store, so the word is updated via a CAS loop
// that reloads next on every retry rather than a blind store that
// would clobber it back down.
func (t *Ticket) Release(ticket uint16) {
	for {
		old := t.word.LoadAcquire()
		serving, next := ticketUnpack(old)
		if serving != ticket {
			abort("Ticket", "release with a ticket that is not currently serving")
		}
		if t.word.CompareAndSwapAcqRel(old, ticketPack(serving+1, next)) {
			return
		}
	}
}
