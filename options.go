// Copyright 2026 The go-rfiduino Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rfiduino

import (
	"fmt"
	"time"
)

// Option is a functional option for configuring a Reader.
type Option func(*Reader) error

// WithAddress overrides the chip's factory bus address. Useful when two
// modules of the same family share one bus.
func WithAddress(addr uint16) Option {
	return func(r *Reader) error {
		if addr == 0 || addr > 0x7F {
			return fmt.Errorf("invalid bus address 0x%02X", addr)
		}
		r.address = addr
		return nil
	}
}

// WithDebug enables raw frame dumps for this reader.
func WithDebug() Option {
	return func(r *Reader) error {
		r.debug = true
		return nil
	}
}

// WithQuietWindow overrides the minimum interval between bus transactions.
// Lowering it below the module's documented turnaround time produces
// garbage reads; it exists mainly so tests can tighten the gate.
func WithQuietWindow(d time.Duration) Option {
	return func(r *Reader) error {
		if d < 0 {
			return fmt.Errorf("quiet window must not be negative, got %v", d)
		}
		r.quiet = d
		return nil
	}
}

// WithTimeout sets the deadline for blocking exchanges (Exchange, Await).
func WithTimeout(d time.Duration) Option {
	return func(r *Reader) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		r.timeout = d
		return nil
	}
}

// WithClock injects the time source used by the transaction gate. Tests use
// a fake clock to make the 20 ms pacing observable without real sleeps.
func WithClock(c Clock) Option {
	return func(r *Reader) error {
		if c == nil {
			return fmt.Errorf("clock must not be nil")
		}
		r.clock = c
		return nil
	}
}
