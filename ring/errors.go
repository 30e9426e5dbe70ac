// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock is returned by Enqueue and Dequeue when the ring
// currently has no room (enqueue) or no data (dequeue). It is the
// same sentinel iox's non-blocking I/O paths use, so callers that
// already switch on it elsewhere in a program built on this stack
// don't need a second sentinel for ring buffers.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrNotEmpty is returned by Free when the ring still holds
// unconsumed elements.
var ErrNotEmpty = errors.New("ring: buffer not empty")

// ConfigError reports an invalid allocation request: a bad element
// count, element size, or flag combination.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("ring: %s", e.Msg) }
