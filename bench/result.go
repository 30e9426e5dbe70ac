// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import "math"

// fairnessIndex computes a geometric-mean fairness index:
// ∏ (min(N_t, L)/max(N_t, L))^(1/N) over all N workers, where L is
// the laps target every worker was asked to complete.
func fairnessIndex(results []WorkerResult, laps uint64) float64 {
	if len(results) == 0 {
		return 0
	}
	l := float64(laps)
	logSum := 0.0
	for _, r := range results {
		n := float64(r.NumOps)
		ratio := n / l
		if n > l {
			ratio = l / n
		}
		if ratio <= 0 {
			return 0
		}
		logSum += math.Log(ratio)
	}
	return math.Exp(logSum / float64(len(results)))
}
