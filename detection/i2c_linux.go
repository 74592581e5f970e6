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

//go:build linux

package detection

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// DetectI2C lists the I2C adapters the current user can actually open.
// Adapters the process lacks permission for are skipped, not reported as
// errors: a typical system exposes several buses and only the wired one
// matters.
func DetectI2C(ctx context.Context) ([]DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob("/dev/i2c-*")
	if err != nil {
		return nil, fmt.Errorf("enumerate I2C adapters: %w", err)
	}

	var devices []DeviceInfo
	for _, p := range paths {
		if unix.Access(p, unix.R_OK|unix.W_OK) != nil {
			continue
		}
		devices = append(devices, DeviceInfo{Transport: "i2c", Path: p})
	}
	return devices, nil
}
