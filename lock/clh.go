// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lock

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/arch"
)

// clhNode is a CLH queue node. A caller spins on its predecessor's
// waiting flag; releasing clears it with release ordering so the
// successor's acquire-spin, an acquire load, observes the release.
type clhNode struct {
	waiting atomix.Bool
}

// CLH is a queue-based mutual-exclusion lock: a tail pointer to a
// singly-linked chain of caller-owned nodes. The lock's only shared
// state is the tail; each acquirer publishes its own node by
// atomically swinging tail to point at it.
type CLH struct {
	tail atomix.Pointer[clhNode]
}

// NewCLH creates a CLH lock with a sentinel node already marked
// released, so the first Acquire call's spin on its predecessor
// returns immediately.
func NewCLH() *CLH {
	sentinel := &clhNode{}
	sentinel.waiting.StoreRelaxed(false)
	l := &CLH{}
	l.tail.StoreRelease(sentinel)
	return l
}

// CLHHandle is the per-caller state a CLH acquire/release pair
// threads through: the node most recently published into the queue,
// and the predecessor node handed back for reuse. Callers keep one
// CLHHandle per goroutine that acquires the lock, reusing it across
// every acquire/release pair — the caller owns the node across
// acquire/release pairs.
type CLHHandle struct {
	node *clhNode
	pred *clhNode
}

// Acquire publishes h's node (allocating one on first use) by
// atomically swinging the lock's tail to point at it, then spins on
// the predecessor's waiting flag until it clears.
func (l *CLH) Acquire(h *CLHHandle) {
	if h.node == nil {
		h.node = &clhNode{}
	}
	h.node.waiting.StoreRelaxed(true)

	pred := l.tail.SwapAcqRel(h.node)

	var bo arch.Backoff
	for pred.waiting.LoadAcquire() {
		bo.Once()
	}
	h.pred = pred
}

// Release marks h's currently held node released with release
// ordering — the store the next acquirer's spin-load synchronizes
// with — then recycles the predecessor node into h for reuse on the
// caller's next Acquire, avoiding an allocation per lap.
func (l *CLH) Release(h *CLHHandle) {
	if h.node == nil {
		abort("CLH", "release without matching acquire")
	}
	h.node.waiting.StoreRelease(false)
	h.node = h.pred
	h.pred = nil
}
