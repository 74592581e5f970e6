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

import "github.com/marcboon/go-rfiduino/internal/frame"

// Variant selects which reader chip family a Reader speaks to. The two
// families share the frame shape and the command/response model but differ
// in checksum usage, command codes, status semantics and tag record layout.
// All per-family behavior hangs off this type so the engine itself stays
// generic.
type Variant int

const (
	// VariantSL018 is the StrongLink SL018/SL030 family: 19-byte frames,
	// no checksum, numeric status codes, seek emulated in the driver.
	VariantSL018 Variant = iota

	// VariantSM130 is the SonMicro SM130/mini family: 20-byte frames with a
	// trailing checksum, ASCII status codes, hardware continuous seek.
	VariantSM130
)

// String returns the chip family name.
func (v Variant) String() string {
	switch v {
	case VariantSL018:
		return "SL018"
	case VariantSM130:
		return "SM130"
	default:
		return "unknown"
	}
}

// Checksummed reports whether frames carry a trailing checksum byte.
func (v Variant) Checksummed() bool {
	return v == VariantSM130
}

// MaxFrame returns the maximum total frame size including the length byte
// and, for the SM130, the checksum byte.
func (v Variant) MaxFrame() int {
	if v == VariantSM130 {
		return frame.MaxFrameSM130
	}
	return frame.MaxFrameSL018
}

// DefaultAddress returns the factory bus address of the chip family.
func (v Variant) DefaultAddress() uint16 {
	if v == VariantSM130 {
		return 0x42
	}
	return 0x50
}

// ResponseLength returns the expected maximum response size in bytes for a
// command, used to bound the bus read. The values are chip-specific
// constants; unknown commands fall back to a full packet.
func (v Variant) ResponseLength(cmd byte) int {
	if v == VariantSM130 {
		return sm130ResponseLength(cmd)
	}
	return sl018ResponseLength(cmd)
}

func sl018ResponseLength(cmd byte) int {
	switch cmd {
	case CmdSL018Idle, CmdSL018Reset:
		// Neither produces a response packet.
		return 0
	case CmdSL018Login, CmdSL018SetLED, CmdSL018Sleep:
		return 3
	case CmdSL018Read4, CmdSL018Write4, CmdSL018ReadValue, CmdSL018WriteValue,
		CmdSL018DecValue, CmdSL018IncValue, CmdSL018CopyValue:
		return 7
	case CmdSL018WriteKey:
		return 9
	case CmdSL018Seek, CmdSL018Select:
		return 11
	default:
		return frame.MaxFrameSL018
	}
}

func sm130ResponseLength(cmd byte) int {
	switch cmd {
	case CmdSM130AntennaPower, CmdSM130Authenticate, CmdSM130DecValue,
		CmdSM130IncValue, CmdSM130WriteKey, CmdSM130HaltTag, CmdSM130Sleep:
		return 4
	case CmdSM130Write4, CmdSM130WriteValue, CmdSM130ReadValue:
		return 8
	case CmdSM130SeekTag, CmdSM130SelectTag:
		return 11
	default:
		return frame.MaxFrameSM130
	}
}

// wireCommand maps a logical command code to the byte that actually appears
// on the wire. Only one mapping exists: the SL018 seek is carried out with
// select frames, so responses to a seek echo the select code.
func (v Variant) wireCommand(cmd byte) byte {
	if v == VariantSL018 && cmd == CmdSL018Seek {
		return CmdSL018Select
	}
	return cmd
}

// minTagRecord is the smallest length byte of a select/seek response that
// contains a valid tag record. The thresholds come straight from the chip
// firmware behavior and are not derivable from the record layout alone.
func (v Variant) minTagRecord() int {
	if v == VariantSM130 {
		return 6
	}
	return 7
}

// TagName returns the human-readable name for a raw tag kind code. The two
// families use different (and conflicting) kind numbering.
func (v Variant) TagName(kind byte) string {
	if v == VariantSM130 {
		switch kind {
		case TagSM130Ultralight:
			return "Mifare UL"
		case TagSM130Classic1K:
			return "Mifare 1K"
		case TagSM130Classic4K:
			return "Mifare 4K"
		default:
			return "Unknown Tag"
		}
	}
	switch kind {
	case TagSL018Classic1K:
		return "Mifare 1K"
	case TagSL018Pro:
		return "Mifare Pro"
	case TagSL018Ultralight:
		return "Mifare UltraLight"
	case TagSL018Classic4K:
		return "Mifare 4K"
	case TagSL018ProX:
		return "Mifare ProX"
	case TagSL018DESFire:
		return "Mifare DesFire"
	default:
		return ""
	}
}

// IsUltralight reports whether a raw kind code denotes an ultralight-class
// tag, which has 4-byte pages and no sector authentication.
func (v Variant) IsUltralight(kind byte) bool {
	if v == VariantSM130 {
		return kind == TagSM130Ultralight
	}
	return kind == TagSL018Ultralight
}

// authTarget maps a block number to the argument of the authenticate/login
// command: the SL018 logs in to a sector, the SM130 to a block.
func (v Variant) authTarget(block byte) byte {
	if v == VariantSM130 {
		return block
	}
	return block / blocksPerSector
}
