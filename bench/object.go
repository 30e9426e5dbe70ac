// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lockbench/lock"
)

// pad is cache-line padding, keeping each field of Object on its own
// cache line so one worker's traffic on a lock never bounces a
// neighboring field out of another core's cache.
type pad [64]byte

// Object is one harness test record: one instance of every lock kind,
// plus two cache-line-separated occupancy counters the worker loop
// uses to detect mutual-exclusion violations at runtime.
type Object struct {
	_        pad
	Spinlock lock.Spinlock
	_        pad
	RWLock lock.RWLock
	_      pad
	Ticket lock.Ticket
	_      pad
	TFRW lock.TaskFairRWLock
	_    pad
	PFRW lock.PhaseFairRWLock
	_    pad
	CLH  *lock.CLH
	_    pad
	readers atomix.Uint32
	_       pad
	writers atomix.Uint32
	_       pad
}

// NewObjects allocates n cache-line-aligned objects and initializes
// every lock kind in each.
func NewObjects(n int) []*Object {
	objs := make([]*Object, n)
	for i := range objs {
		o := &Object{}
		o.Spinlock.Init()
		o.CLH = lock.NewCLH()
		objs[i] = o
	}
	return objs
}
