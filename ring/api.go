// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

// Enqueue reserves one slot, copies elem into it and commits in one
// call. elem must be exactly elemSize bytes. It reports ErrWouldBlock
// if the ring is currently full.
func (r *Ring) Enqueue(elem []byte) error {
	resv, ok := r.ReserveEnqueue(1)
	if !ok {
		return ErrWouldBlock
	}
	r.Write(resv, elem)
	r.Commit(resv)
	return nil
}

// Dequeue reserves, reads and commits one element into dst in a
// single call. dst must have room for exactly elemSize bytes. When the
// ring was allocated with ConsMCLockFree, it dequeues through
// [Ring.DequeueLF] instead.
func (r *Ring) Dequeue(dst []byte) error {
	if r.consFlag == ConsMCLockFree {
		n, ok := r.DequeueLF(1, dst)
		if !ok || n == 0 {
			return ErrWouldBlock
		}
		return nil
	}
	resv, ok := r.ReserveDequeue(1)
	if !ok {
		return ErrWouldBlock
	}
	r.Read(resv, dst)
	r.Commit(resv)
	return nil
}

// Free releases the ring's backing storage. It fails with ErrNotEmpty
// if the producer and consumer published heads disagree, i.e. there
// is still data in flight or unconsumed.
func (r *Ring) Free() error {
	pcur, _ := r.prod.head.loadAcquire()
	ccur, _ := r.cons.head.loadAcquire()
	if r.consFlag == ConsMCLockFree {
		ccur = r.cons.tail.LoadAcquire()
	}
	if pcur != ccur {
		return ErrNotEmpty
	}
	r.buf = nil
	return nil
}
