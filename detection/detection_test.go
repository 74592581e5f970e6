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

package detection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceInfoString(t *testing.T) {
	t.Parallel()
	d := DeviceInfo{Transport: "i2c", Path: "/dev/i2c-1"}
	assert.Equal(t, "i2c device at /dev/i2c-1", d.String())
}

func TestDetectRespectsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DetectUART(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectReturnsDistinctTransports(t *testing.T) {
	t.Parallel()
	// Enumeration must not fail outright on a machine with no readers
	// attached; it may legitimately find nothing.
	devices, err := Detect(context.Background())
	if err != nil {
		t.Skipf("no enumerable buses on this machine: %v", err)
	}
	for _, d := range devices {
		assert.Contains(t, []string{"i2c", "uart"}, d.Transport)
		assert.NotEmpty(t, d.Path)
	}
}
