// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"encoding/binary"
	"errors"
	"sort"
	"sync"
	"testing"

	"code.hybscloud.com/lockbench/ring"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func toU32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// TestSPSCBasic exercises the single-producer/single-consumer mode
// directly: enqueue to capacity, observe ErrWouldBlock, dequeue in
// FIFO order, observe ErrWouldBlock again.
func TestSPSCBasic(t *testing.T) {
	r, err := ring.Alloc(3, 4, ring.ProdSP, ring.ConsSC)
	if err != nil {
		t.Fatal(err)
	}
	if r.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", r.Cap())
	}

	for i := range uint32(4) {
		if err := r.Enqueue(u32(i + 100)); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if err := r.Enqueue(u32(999)); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Enqueue on full: got %v, want ErrWouldBlock", err)
	}

	dst := make([]byte, 4)
	for i := range uint32(4) {
		if err := r.Dequeue(dst); err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if got := toU32(dst); got != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, got, i+100)
		}
	}
	if err := r.Dequeue(dst); !errors.Is(err, ring.ErrWouldBlock) {
		t.Fatalf("Dequeue on empty: got %v, want ErrWouldBlock", err)
	}
}

// TestMPNonBlkPublishesContiguousRuns drives several producers
// concurrently against a multi-producer, non-blocking-release ring
// and checks that every element committed eventually becomes visible
// to a single consumer, regardless of commit order.
func TestMPNonBlkPublishesContiguousRuns(t *testing.T) {
	const n = 2000
	r, err := ring.Alloc(64, 4, ring.ProdMPNonBlk, ring.ConsSC)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	producers := 4
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < n/producers; i++ {
				v := uint32(p*1_000_000 + i)
				for {
					resv, ok := r.ReserveEnqueue(1)
					if !ok {
						continue
					}
					r.Write(resv, u32(v))
					r.Commit(resv)
					break
				}
			}
		}(p)
	}

	got := make(map[uint32]bool, n)
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		dst := make([]byte, 4)
		for len(got) < n {
			if err := r.Dequeue(dst); err != nil {
				continue
			}
			mu.Lock()
			got[toU32(dst)] = true
			mu.Unlock()
		}
	}()

	wg.Wait()
	<-done

	if len(got) != n {
		t.Fatalf("received %d distinct elements, want %d", len(got), n)
	}
}

// TestDequeueLFUnionOfResults drives multiple lock-free consumers
// against a single-producer ring and checks that every enqueued
// element is observed by exactly one consumer — concurrent
// speculative reads may retry, but never double-deliver a slot.
func TestDequeueLFUnionOfResults(t *testing.T) {
	const n = 4000
	r, err := ring.Alloc(128, 4, ring.ProdSP, ring.ConsMCLockFree)
	if err != nil {
		t.Fatal(err)
	}

	var prodWG sync.WaitGroup
	prodWG.Add(1)
	go func() {
		defer prodWG.Done()
		for i := range uint32(n) {
			for r.Enqueue(u32(i)) != nil {
			}
		}
	}()

	var mu sync.Mutex
	var results []uint32
	var consWG sync.WaitGroup
	consumers := 4
	consWG.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer consWG.Done()
			dst := make([]byte, 4)
			misses := 0
			for {
				n2, ok := r.DequeueLF(1, dst)
				if !ok || n2 == 0 {
					misses++
					if misses > 1_000_000 {
						return
					}
					continue
				}
				misses = 0
				mu.Lock()
				results = append(results, toU32(dst))
				mu.Unlock()
			}
		}()
	}

	prodWG.Wait()
	consWG.Wait()

	if len(results) != n {
		t.Fatalf("received %d elements, want %d", len(results), n)
	}
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, v := range results {
		if v != uint32(i) {
			t.Fatalf("result[%d] = %d, want %d (duplicate or missing element)", i, v, i)
		}
	}
}

func TestAllocRejectsBadConfig(t *testing.T) {
	if _, err := ring.Alloc(0, 4, ring.ProdSP, ring.ConsSC); err == nil {
		t.Fatal("Alloc with nelems=0 should fail")
	}
	if _, err := ring.Alloc(4, 0, ring.ProdSP, ring.ConsSC); err == nil {
		t.Fatal("Alloc with elemSize=0 should fail")
	}
}

func TestFreeFailsWhenNotEmpty(t *testing.T) {
	r, err := ring.Alloc(4, 4, ring.ProdSP, ring.ConsSC)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Enqueue(u32(1)); err != nil {
		t.Fatal(err)
	}
	if err := r.Free(); !errors.Is(err, ring.ErrNotEmpty) {
		t.Fatalf("Free on non-empty ring: got %v, want ErrNotEmpty", err)
	}

	dst := make([]byte, 4)
	if err := r.Dequeue(dst); err != nil {
		t.Fatal(err)
	}
	if err := r.Free(); err != nil {
		t.Fatalf("Free on empty ring: %v", err)
	}
}
