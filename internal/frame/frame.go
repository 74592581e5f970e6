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

// Package frame implements the length-prefixed command/response packet
// format shared by the SL018 and SM130 reader families.
//
// A frame is [len][cmd][param0..paramN], where len counts the command byte
// and the parameters. SM130 frames additionally carry a trailing checksum
// byte equal to the sum of all preceding bytes, length byte included.
package frame

import "errors"

// Framing errors. These are deliberately small sentinels; the engine wraps
// them with command context.
var (
	// ErrNoData indicates the device has not produced a response yet.
	// A zero length byte is the normal polling outcome, not a fault.
	ErrNoData = errors.New("no frame data")

	// ErrTooManyParams indicates a command with more than MaxParams
	// parameter bytes.
	ErrTooManyParams = errors.New("too many parameter bytes")

	// ErrTruncated indicates a response whose length byte claims more
	// bytes than were read from the bus.
	ErrTruncated = errors.New("frame truncated")

	// ErrChecksum indicates an SM130 response whose trailing checksum does
	// not match the frame contents.
	ErrChecksum = errors.New("frame checksum mismatch")
)

// Response is a decoded inbound frame. Command is the first payload byte
// (the echoed command code on both reader families); Payload holds the bytes
// after it. Raw aliases the undecoded frame including the length byte, so
// callers can dump or re-inspect it even when the checksum failed.
type Response struct {
	Raw     []byte
	Payload []byte
	Length  int
	Command byte
}

// Build encodes an outbound command frame. The length byte is always
// 1+len(params). withChecksum appends the SM130 trailing checksum.
func Build(cmd byte, params []byte, withChecksum bool) ([]byte, error) {
	if len(params) > MaxParams {
		return nil, ErrTooManyParams
	}

	buf := make([]byte, 0, HeaderSize+len(params)+1)
	buf = append(buf, byte(1+len(params)), cmd)
	buf = append(buf, params...)

	if withChecksum {
		buf = append(buf, Checksum(buf))
	}
	return buf, nil
}

// Parse decodes an inbound frame from a raw bus read of up to the expected
// maximum length. A zero or out-of-range length byte means the device is
// still working and yields ErrNoData. When withChecksum is set and the
// trailing checksum does not match, Parse returns the partially decoded
// response together with ErrChecksum: Length and Raw are valid, but the
// payload must not be trusted.
func Parse(raw []byte, withChecksum bool) (*Response, error) {
	if len(raw) == 0 || raw[0] == 0 {
		return nil, ErrNoData
	}

	n := int(raw[0])
	if n > MaxPayload {
		// The SM130 clocks out garbage while busy; an impossible length is
		// treated the same as no data at all.
		return nil, ErrNoData
	}

	need := 1 + n
	if withChecksum {
		need++
	}
	if len(raw) < need {
		return nil, ErrTruncated
	}

	resp := &Response{
		Raw:     raw[:need],
		Length:  n,
		Command: raw[1],
		Payload: raw[2 : 1+n],
	}

	if withChecksum && Checksum(raw[:1+n]) != raw[1+n] {
		return resp, ErrChecksum
	}
	return resp, nil
}
