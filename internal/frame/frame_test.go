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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLengthByte(t *testing.T) {
	t.Parallel()
	// The length byte must always equal 1 plus the parameter count.
	for params := 0; params <= MaxParams; params++ {
		buf, err := Build(0x83, make([]byte, params), false)
		require.NoError(t, err)
		assert.Equal(t, byte(1+params), buf[0], "params=%d", params)
		assert.Len(t, buf, HeaderSize+params)
	}
}

func TestBuildMaxFrameSize(t *testing.T) {
	t.Parallel()
	// A full-parameter frame must fit both family limits.
	full := make([]byte, MaxParams)

	plain, err := Build(0x04, full, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(plain), MaxFrameSL018)

	checked, err := Build(0x89, full, true)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(checked), MaxFrameSM130)

	_, err = Build(0x89, make([]byte, MaxParams+1), true)
	require.ErrorIs(t, err, ErrTooManyParams)
}

func TestBuildChecksum(t *testing.T) {
	t.Parallel()
	buf, err := Build(0x90, []byte{0x01}, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x90, 0x01, 0x93}, buf)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		cmd          byte
		params       []byte
		withChecksum bool
	}{
		{"bare command", 0x50, nil, false},
		{"select with status", 0x01, []byte{0x00, 0xAA, 0xBB, 0xCC, 0xDD, 0x01}, false},
		{"checksummed ack", 0x85, []byte{0x4C}, true},
		{"checksummed block", 0x86, append([]byte{0x04}, make([]byte, 15)...), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf, err := Build(tt.cmd, tt.params, tt.withChecksum)
			require.NoError(t, err)

			resp, err := Parse(buf, tt.withChecksum)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, resp.Command)
			assert.Equal(t, 1+len(tt.params), resp.Length)
			if len(tt.params) > 0 {
				assert.Equal(t, tt.params, resp.Payload)
			} else {
				assert.Empty(t, resp.Payload)
			}
		})
	}
}

func TestParseChecksumCorruption(t *testing.T) {
	t.Parallel()
	buf, err := Build(0x82, []byte{0x01, 0xAA, 0xBB, 0xCC, 0xDD}, true)
	require.NoError(t, err)

	// Flipping any single bit of the payload must fail verification, and the
	// raw length must still be reported on the partial result.
	for i := 0; i < len(buf)-1; i++ {
		for bit := 0; bit < 8; bit++ {
			corrupted := make([]byte, len(buf))
			copy(corrupted, buf)
			corrupted[i] ^= 1 << bit

			resp, err := Parse(corrupted, true)
			if corrupted[0] == 0 || int(corrupted[0]) > MaxPayload || int(corrupted[0])+2 > len(corrupted) {
				// A flipped length byte may look like no data or a short read.
				continue
			}
			require.ErrorIs(t, err, ErrChecksum, "byte %d bit %d", i, bit)
			require.NotNil(t, resp)
			assert.Equal(t, int(corrupted[0]), resp.Length)
		}
	}
}

func TestParseNoData(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty read", nil},
		{"zero length byte", []byte{0x00, 0x00, 0x00}},
		{"busy garbage length", []byte{0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := Parse(tt.raw, true)
			assert.ErrorIs(t, err, ErrNoData)
			assert.Nil(t, resp)
		})
	}
}

func TestParseTruncated(t *testing.T) {
	t.Parallel()
	// Length byte claims 7 payload bytes, only 3 present.
	_, err := Parse([]byte{0x07, 0x01, 0x00, 0xAA}, false)
	assert.ErrorIs(t, err, ErrTruncated)

	// Checksum byte missing on a checksummed frame.
	_, err = Parse([]byte{0x02, 0x90, 0x01}, true)
	assert.ErrorIs(t, err, ErrTruncated)
}
