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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marcboon/go-rfiduino/internal/busmock"
)

// testClock is a manual clock: Sleep advances time instantly and records
// the requested durations, making the transaction gate observable without
// real delays.
type testClock struct {
	now   time.Time
	slept []time.Duration
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(0, 0)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *testClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// sm130Ack builds the short acknowledgement packet the SM130 uses for both
// success and error reports.
func sm130Ack(cmd, status byte) []byte {
	return busmock.SM130Status(cmd, status)
}

// newTestReader builds a reader on a mock bus with a manual clock.
func newTestReader(t *testing.T, v Variant, opts ...Option) (*Reader, *MockBus, *testClock) {
	t.Helper()
	bus := NewMockBus()
	clock := newTestClock()
	opts = append([]Option{WithClock(clock)}, opts...)
	r, err := New(bus, v, opts...)
	require.NoError(t, err)
	return r, bus, clock
}
