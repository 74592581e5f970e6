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
	"os"
	"strings"
)

// debugEnabled controls the package-wide debug output. Per-reader dumps are
// additionally gated by the reader's own debug flag (WithDebug).
var debugEnabled = false

func init() {
	if os.Getenv("RFIDUINO_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		debugEnabled = true
	}
}

// SetDebugEnabled allows programmatic control of debug output, useful for
// tests and application-controlled debug modes.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

func debugf(format string, args ...any) {
	if debugEnabled {
		_, _ = fmt.Printf("DEBUG: "+format+"\n", args...)
	}
}

// HexBytes formats a byte sequence as space-separated uppercase hex pairs,
// the format used for raw frame dumps.
func HexBytes(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// ASCIIBytes formats a byte sequence as printable ASCII, substituting a dot
// for anything outside 0x20..0x7E. Used to eyeball text payloads in dumps.
func ASCIIBytes(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b < 0x20 || b > 0x7E {
			sb.WriteByte('.')
		} else {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// dumpFrame echoes a raw frame when the reader's debug flag is set.
// Direction is "> " for outbound and "< " for inbound, matching the
// long-standing serial monitor convention.
func (r *Reader) dumpFrame(dir string, data []byte) {
	if !r.debug && !debugEnabled {
		return
	}
	_, _ = fmt.Printf("%s%s\n", dir, HexBytes(data))
}
