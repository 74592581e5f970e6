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

package ndef

import "errors"

// Type 2 tag TLV blocks. The user memory of an ultralight-class tag holds
// the NDEF message inside an NDEF TLV, optionally preceded by NULL TLVs and
// followed by a terminator.
const (
	tlvNull       = 0x00
	tlvNDEF       = 0x03
	tlvTerminator = 0xFE
)

var (
	ErrNoNDEFTLV   = errors.New("ndef: no NDEF TLV in tag memory")
	ErrTLVTooLarge = errors.New("ndef: message too large for TLV length")
)

// WrapTLV frames a serialized message for storage on a Type 2 tag,
// appending the terminator. Messages up to 254 bytes use the one-byte
// length form; larger ones the three-byte form.
func WrapTLV(message []byte) ([]byte, error) {
	if len(message) > 0xFFFF {
		return nil, ErrTLVTooLarge
	}
	out := make([]byte, 0, 4+len(message)+1)
	out = append(out, tlvNDEF)
	if len(message) < 0xFF {
		out = append(out, byte(len(message)))
	} else {
		out = append(out, 0xFF, byte(len(message)>>8), byte(len(message)))
	}
	out = append(out, message...)
	out = append(out, tlvTerminator)
	return out, nil
}

// UnwrapTLV locates the NDEF TLV in raw tag memory and returns the message
// bytes inside it.
func UnwrapTLV(memory []byte) ([]byte, error) {
	i := 0
	for i < len(memory) {
		switch memory[i] {
		case tlvNull:
			i++
		case tlvTerminator:
			return nil, ErrNoNDEFTLV
		case tlvNDEF:
			return sliceTLV(memory[i+1:])
		default:
			// Some other TLV (lock control, memory control): skip it.
			if i+1 >= len(memory) {
				return nil, ErrNoNDEFTLV
			}
			i += 2 + int(memory[i+1])
		}
	}
	return nil, ErrNoNDEFTLV
}

// sliceTLV reads a TLV length field and returns the value bytes.
func sliceTLV(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, ErrTruncated
	}
	n := int(data[0])
	data = data[1:]
	if n == 0xFF {
		if len(data) < 2 {
			return nil, ErrTruncated
		}
		n = int(data[0])<<8 | int(data[1])
		data = data[2:]
	}
	if n > len(data) {
		return nil, ErrTruncated
	}
	return data[:n], nil
}
