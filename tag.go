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
	"encoding/hex"
	"strings"
)

// SL018 tag kind codes.
const (
	TagSL018Classic1K  byte = 1
	TagSL018Pro        byte = 2
	TagSL018Ultralight byte = 3
	TagSL018Classic4K  byte = 4
	TagSL018ProX       byte = 5
	TagSL018DESFire    byte = 6
)

// SM130 tag kind codes. Note the numbering conflicts with the SL018's.
const (
	TagSM130Ultralight byte = 1
	TagSM130Classic1K  byte = 2
	TagSM130Classic4K  byte = 3
)

// Tag is a contactless card discovered by a seek or select command. The
// serial number is 4 bytes for classic tags and 7 bytes for extended UIDs;
// its length is always derived from the response length, never assumed.
type Tag struct {
	Name string
	UID  []byte
	Kind byte
}

// UIDString returns the serial number as an uppercase hexadecimal string:
// 8 characters for a 4-byte UID, 14 for a 7-byte UID.
func (t *Tag) UIDString() string {
	return hexUpper(t.UID)
}

// Ultralight reports whether the tag has no per-sector key scheme and is
// read and written directly in 4-byte pages.
func (t *Tag) Ultralight(v Variant) bool {
	return v.IsUltralight(t.Kind)
}

// hexUpper renders a byte sequence as contiguous uppercase hex pairs.
func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
