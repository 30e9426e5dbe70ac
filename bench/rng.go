// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

// xorshift64star is a per-worker pseudo-random source: no shared
// state, no locking, deterministic given a seed.
type xorshift64star struct {
	state uint64
}

func newXorshift64Star(seed uint64) *xorshift64star {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &xorshift64star{state: seed}
}

func (x *xorshift64star) next() uint64 {
	s := x.state
	s ^= s >> 12
	s ^= s << 25
	s ^= s >> 27
	x.state = s
	return s * 0x2545F4914F6CDD1D
}

// objectIndex draws a uniform index in [0, n).
func (x *xorshift64star) objectIndex(n int) int {
	return int(x.next() % uint64(n))
}

// exclusive reports true with probability 1/8, giving a 7/8-shared,
// 1/8-exclusive split over many laps.
func (x *xorshift64star) exclusive() bool {
	return x.next()%8 == 0
}
