// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"math/bits"

	"code.hybscloud.com/lockbench/arch"
)

// Commit publishes a reservation, making its slots visible to the
// opposing side. The regime depends on the concurrency mode the ring
// was allocated with:
//
//   - single (SP producer / SC consumer): a direct store, since the
//     caller is by construction the only writer of this side's head.
//   - blocking (MP-BLK / MC-BLK): spin until head.cur reaches this
//     reservation's index, then store — publishes happen strictly in
//     reservation order.
//   - non-blocking (MP-NONBLK / MC-NONBLK): out-of-order commits are
//     tracked in a pending bitmask and folded into head.cur as soon as
//     a contiguous run accumulates.
func (r *Ring) Commit(resv Reservation) {
	var h *head
	if resv.prod {
		h = &r.prod.head
	} else {
		h = &r.cons.head
	}

	switch {
	case resv.prod && r.prodFlag == ProdSP, !resv.prod && r.consFlag == ConsSC:
		cur, pend := h.loadAcquire()
		h.storeRelease(cur+resv.n, pend)
	case resv.prod && r.prodFlag == ProdMPBlk, !resv.prod && r.consFlag == ConsMCBlk:
		var bo arch.Backoff
		for {
			cur, pend := h.loadAcquire()
			if cur == resv.index {
				h.storeRelease(cur+resv.n, pend)
				return
			}
			bo.Once()
		}
	default:
		r.commitNonBlk(h, resv.index, resv.n)
	}
}

// commitNonBlk implements the NONBLK release regime: try an in-order
// CAS first; on out-of-order arrival, mark the reservation's offset
// in the pending bitmask, then fold in any now-contiguous run of
// pending bits.
func (r *Ring) commitNonBlk(h *head, index, n uint32) {
	var bo arch.Backoff
	for {
		cur, pend := h.loadAcquire()
		if cur == index {
			// pend's bits are offsets relative to cur. Advancing cur by
			// n shifts every existing bit's meaning, so it must shift
			// down with it — the same adjustment drainPending applies —
			// and drainPending must run again in case that shift exposes
			// a further contiguous run landed earlier out of order.
			if h.casWord(cur, pend, cur+n, pend>>n) {
				r.drainPending(h)
				return
			}
			continue
		}

		offset := index - cur
		if offset >= pendMax || offset+n > pendMax {
			// Out of the pending window: the in-order commit this
			// reservation is waiting behind hasn't landed yet. Wait for
			// head.cur to advance instead of setting an unrepresentable
			// bit.
			bo.Once()
			continue
		}

		setMask := uint32(((uint64(1) << n) - 1) << offset)
		newPend := pend | setMask
		if !h.casWord(cur, pend, cur, newPend) {
			continue
		}

		r.drainPending(h)
		return
	}
}

// drainPending folds any contiguous run of set bits starting at bit 0
// of the pending mask into head.cur, shifting the mask down by the
// same amount (a ctz(~pend) advance).
func (r *Ring) drainPending(h *head) {
	for {
		cur, pend := h.loadAcquire()
		ready := bits.TrailingZeros32(^pend)
		if ready == 0 {
			return
		}
		if h.casWord(cur, pend, cur+ready, pend>>ready) {
			return
		}
	}
}

// casWord compound-compare-and-swaps a head's packed (cur, pend) word,
// used by the NONBLK path where both fields must move together.
func (h *head) casWord(oldCur, oldPend, newCur, newPend uint32) bool {
	return h.word.CompareAndSwapAcqRel(packHead(oldCur, oldPend), packHead(newCur, newPend))
}
