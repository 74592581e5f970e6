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

import "testing"

func TestSL018CommandConstants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		constant byte
		expected byte
	}{
		{"CmdSL018Idle", CmdSL018Idle, 0x00},
		{"CmdSL018Select", CmdSL018Select, 0x01},
		{"CmdSL018Login", CmdSL018Login, 0x02},
		{"CmdSL018Read16", CmdSL018Read16, 0x03},
		{"CmdSL018Write16", CmdSL018Write16, 0x04},
		{"CmdSL018WriteKey", CmdSL018WriteKey, 0x07},
		{"CmdSL018Read4", CmdSL018Read4, 0x10},
		{"CmdSL018Write4", CmdSL018Write4, 0x11},
		{"CmdSL018Seek", CmdSL018Seek, 0x20},
		{"CmdSL018SetLED", CmdSL018SetLED, 0x40},
		{"CmdSL018Sleep", CmdSL018Sleep, 0x50},
		{"CmdSL018Reset", CmdSL018Reset, 0xFF},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.constant != tt.expected {
				t.Errorf("%s = 0x%02X, want 0x%02X", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

func TestSM130CommandConstants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		constant byte
		expected byte
	}{
		{"CmdSM130Reset", CmdSM130Reset, 0x80},
		{"CmdSM130Version", CmdSM130Version, 0x81},
		{"CmdSM130SeekTag", CmdSM130SeekTag, 0x82},
		{"CmdSM130SelectTag", CmdSM130SelectTag, 0x83},
		{"CmdSM130Authenticate", CmdSM130Authenticate, 0x85},
		{"CmdSM130Read16", CmdSM130Read16, 0x86},
		{"CmdSM130Write16", CmdSM130Write16, 0x89},
		{"CmdSM130Write4", CmdSM130Write4, 0x8B},
		{"CmdSM130WriteKey", CmdSM130WriteKey, 0x8C},
		{"CmdSM130AntennaPower", CmdSM130AntennaPower, 0x90},
		{"CmdSM130HaltTag", CmdSM130HaltTag, 0x93},
		{"CmdSM130SetBaud", CmdSM130SetBaud, 0x94},
		{"CmdSM130Sleep", CmdSM130Sleep, 0x96},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.constant != tt.expected {
				t.Errorf("%s = 0x%02X, want 0x%02X", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

func TestSM130StatusConstants(t *testing.T) {
	t.Parallel()
	// The SM130 reports errors as ASCII characters.
	tests := []struct {
		name     string
		constant byte
		expected byte
	}{
		{"SM130StatusSeeking", SM130StatusSeeking, 'L'},
		{"SM130StatusNoTag", SM130StatusNoTag, 'N'},
		{"SM130StatusAccess", SM130StatusAccess, 'U'},
		{"SM130StatusFail", SM130StatusFail, 'F'},
		{"SM130StatusInvalid", SM130StatusInvalid, 'I'},
		{"SM130StatusProtected", SM130StatusProtected, 'X'},
		{"SM130StatusKeyFormat", SM130StatusKeyFormat, 'E'},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.constant != tt.expected {
				t.Errorf("%s = 0x%02X, want 0x%02X", tt.name, tt.constant, tt.expected)
			}
		})
	}
}
