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

package frame

// Frame layout constants shared by both reader families.
const (
	// HeaderSize is the length byte plus the command byte.
	HeaderSize = 2

	// MaxParams is the maximum number of parameter bytes in a command frame:
	// a 16-byte block write plus its block number.
	MaxParams = 17

	// MaxPayload is the largest value the length byte may take on either
	// reader family (command byte plus parameters).
	MaxPayload = 18

	// MaxFrameSL018 is the total SL018 frame size: length byte plus payload.
	MaxFrameSL018 = 19

	// MaxFrameSM130 is the total SM130 frame size: length byte plus payload
	// plus trailing checksum byte.
	MaxFrameSM130 = 20
)
