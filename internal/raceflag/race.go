// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

// Package raceflag reports whether the race detector is active, so
// test files can skip stress scenarios the detector cannot reason
// about.
package raceflag

// Enabled is true when the race detector is active.
const Enabled = true
