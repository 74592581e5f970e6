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

// Package busmock builds wire-accurate response frames for both reader
// families, for use with the MockBus in tests.
package busmock

import "github.com/marcboon/go-rfiduino/internal/frame"

// SL018 builds a plain SL018 response frame: [len][cmd][payload...].
func SL018(cmd byte, payload ...byte) []byte {
	buf := []byte{byte(1 + len(payload)), cmd}
	return append(buf, payload...)
}

// SM130 builds a checksummed SM130 response frame:
// [len][cmd][payload...][sum].
func SM130(cmd byte, payload ...byte) []byte {
	buf := []byte{byte(1 + len(payload)), cmd}
	buf = append(buf, payload...)
	return append(buf, frame.Checksum(buf))
}

// SL018Status builds an SL018 status-only response (acknowledgement or
// error).
func SL018Status(cmd, status byte) []byte {
	return SL018(cmd, status)
}

// SL018Tag builds a successful SL018 select response:
// [len][cmd][0x00][uid...][kind].
func SL018Tag(cmd byte, uid []byte, kind byte) []byte {
	payload := append([]byte{0x00}, uid...)
	payload = append(payload, kind)
	return SL018(cmd, payload...)
}

// SM130Status builds a short SM130 error/status response, the form the chip
// uses for every failure report.
func SM130Status(cmd, status byte) []byte {
	return SM130(cmd, status)
}

// SM130Tag builds a successful SM130 seek/select response:
// [len][cmd][kind][uid...][sum].
func SM130Tag(cmd byte, kind byte, uid []byte) []byte {
	payload := append([]byte{kind}, uid...)
	return SM130(cmd, payload...)
}

// SM130Firmware builds an SM130 version/reset response carrying the
// firmware version string.
func SM130Firmware(cmd byte, version string) []byte {
	return SM130(cmd, []byte(version)...)
}

// SM130Block builds a successful SM130 block read response:
// [len][cmd][block][16 data bytes][sum].
func SM130Block(cmd, block byte, data []byte) []byte {
	payload := make([]byte, 17)
	payload[0] = block
	copy(payload[1:], data)
	return SM130(cmd, payload...)
}

// SL018Block builds a successful SL018 block read response:
// [len][cmd][0x00][16 data bytes].
func SL018Block(cmd byte, data []byte) []byte {
	payload := make([]byte, 17)
	copy(payload[1:], data)
	return SL018(cmd, payload...)
}

// SL018Page builds a successful SL018 page read response:
// [len][cmd][0x00][4 data bytes].
func SL018Page(cmd byte, data []byte) []byte {
	payload := make([]byte, 5)
	copy(payload[1:], data)
	return SL018(cmd, payload...)
}
