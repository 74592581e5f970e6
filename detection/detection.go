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

// Package detection enumerates buses a reader module could be attached to:
// accessible I2C adapters and serial ports. It only inspects the system, it
// never talks to the devices; whether a reader actually answers at an
// address is for the caller to probe.
package detection

import (
	"context"
	"errors"
	"fmt"

	"go.bug.st/serial"
)

// ErrUnsupportedPlatform indicates the platform has no enumeration support
// for the requested transport.
var ErrUnsupportedPlatform = errors.New("platform not supported")

// DeviceInfo is one candidate attachment point.
type DeviceInfo struct {
	// Transport is "i2c" or "uart".
	Transport string

	// Path is the OS device path ("/dev/i2c-1", "/dev/ttyUSB0").
	Path string
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s device at %s", d.Transport, d.Path)
}

// Detect lists all candidate buses: accessible I2C adapters first, then
// serial ports. Transports that cannot be enumerated on this platform are
// silently skipped; an error is returned only when nothing could be
// enumerated at all.
func Detect(ctx context.Context) ([]DeviceInfo, error) {
	var (
		devices  []DeviceInfo
		firstErr error
	)

	i2cDevs, err := DetectI2C(ctx)
	if err != nil && !errors.Is(err, ErrUnsupportedPlatform) {
		firstErr = err
	}
	devices = append(devices, i2cDevs...)

	uartDevs, err := DetectUART(ctx)
	if err != nil && firstErr == nil {
		firstErr = err
	}
	devices = append(devices, uartDevs...)

	if len(devices) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return devices, nil
}

// DetectUART lists serial ports present on the system.
func DetectUART(ctx context.Context) ([]DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	devices := make([]DeviceInfo, 0, len(ports))
	for _, p := range ports {
		devices = append(devices, DeviceInfo{Transport: "uart", Path: p})
	}
	return devices, nil
}
