// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides a bounded, cache-line-aligned ring buffer
// supporting single/multi producer and single/multi consumer modes, a
// non-blocking release mode, and a lock-free speculative dequeue
// mode.
//
// The buffer stores raw, fixed-size elements ([]byte slots) rather
// than a generic Go type: element size is a runtime allocation
// parameter, not a compile-time type, so a byte-sliced layout is what
// lets a single Ring value host arbitrary payloads.
//
// A tagged-pointer design would hide the producer/consumer flags in
// the low six bits of the returned handle: base alignment of at least
// 64 bytes leaves those bits free, and every call could mask them out
// before dereferencing. This package stores the flags in the Ring
// header instead, at the cost of one extra cache-line read per call:
// a uintptr built by corrupting a live Go pointer's low bits is
// invisible to the garbage collector, which could free or move the
// backing allocation while the only reference to it is tagged.
// [Ring.Mode] still exposes the packed 6-bit value for callers that
// want it.
package ring

import (
	"code.hybscloud.com/atomix"
)

// ProdFlag selects the producer-side concurrency mode. The three
// values are mutually exclusive by construction: there is no
// representable combination of single-producer and non-blocking
// release.
type ProdFlag uint8

const (
	ProdSP     ProdFlag = iota // single producer
	ProdMPBlk                  // multi producer, blocking (in-order) release
	ProdMPNonBlk               // multi producer, non-blocking (NONBLK) release
)

// ConsFlag selects the consumer-side concurrency mode. As with
// [ProdFlag], the four values are mutually exclusive by construction:
// single-consumer, non-blocking release and lock-free dequeue can
// never combine.
type ConsFlag uint8

const (
	ConsSC         ConsFlag = iota // single consumer
	ConsMCBlk                      // multi consumer, blocking (in-order) release
	ConsMCNonBlk                   // multi consumer, non-blocking (NONBLK) release
	ConsMCLockFree                 // multi consumer, lock-free speculative dequeue (LFDEQ)
)

// pendMax is the maximum out-of-order release distance a NONBLK head
// can track in its pending bitmask.
const pendMax = 32

// pad is cache-line padding, keeping the producer and consumer
// endpoints of a Ring on separate cache lines to prevent false
// sharing.
type pad [64]byte

// head packs a published index and a pending-release bitmask into one
// 64-bit word (cur in the low 32 bits, pend in the high 32) so the
// NONBLK release path can CAS both atomically.
type head struct {
	word atomix.Uint64
}

func packHead(cur, pend uint32) uint64 { return uint64(pend)<<32 | uint64(cur) }
func unpackHead(w uint64) (cur, pend uint32) {
	return uint32(w), uint32(w >> 32)
}

func (h *head) loadAcquire() (cur, pend uint32) { return unpackHead(h.word.LoadAcquire()) }
func (h *head) storeRelease(cur, pend uint32)   { h.word.StoreRelease(packHead(cur, pend)) }

// side is one endpoint (producer or consumer) of the ring: a
// published head (cur/pend) and a reservation tail.
type side struct {
	head head
	tail atomix.Uint32
}

// Ring is a bounded FIFO of fixed-size elements with runtime-selected
// producer/consumer concurrency modes.
type Ring struct {
	_        pad
	prod     side
	_        pad
	cons     side
	_        pad
	capacity uint32 // R, a power of two
	mask     uint32 // R - 1
	elemSize uint32
	prodFlag ProdFlag
	consFlag ConsFlag
	buf      []byte
}

// Mode returns the 6-bit (producer:3, consumer:3) flag pair a tagged
// handle would have packed into its low bits.
func (r *Ring) Mode() uint8 {
	return uint8(r.prodFlag)<<3 | uint8(r.consFlag)
}

// Cap returns the ring's rounded-up-to-power-of-two capacity.
func (r *Ring) Cap() uint32 { return r.capacity }

// roundToPow2 rounds n up to the next power of two.
func roundToPow2(n uint32) uint32 {
	if n < 2 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

// Alloc validates nelems and the flag combination, rounds nelems up to
// a power of two, and allocates a Ring sized for elemSize-byte
// elements.
func Alloc(nelems int, elemSize int, prod ProdFlag, cons ConsFlag) (*Ring, error) {
	if nelems <= 0 {
		return nil, &ConfigError{Msg: "nelems must be > 0"}
	}
	if elemSize <= 0 {
		return nil, &ConfigError{Msg: "elemSize must be > 0"}
	}
	if prod > ProdMPNonBlk {
		return nil, &ConfigError{Msg: "invalid producer flag"}
	}
	if cons > ConsMCLockFree {
		return nil, &ConfigError{Msg: "invalid consumer flag"}
	}

	r := roundToPow2(uint32(nelems))
	ring := &Ring{
		capacity: r,
		mask:     r - 1,
		elemSize: uint32(elemSize),
		prodFlag: prod,
		consFlag: cons,
		buf:      make([]byte, uint64(r)*uint64(elemSize)),
	}
	return ring, nil
}

// slotOffset returns the byte offset of the virtualized slot at
// index: slot[i] ≡ ring[i & mask].
func (r *Ring) slotOffset(index uint32) uint32 {
	return (index & r.mask) * r.elemSize
}
