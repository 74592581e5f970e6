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

// Package ndef encodes and decodes NDEF messages, the NFC Forum data
// format commonly stored on ultralight-class tags. Chunked records are not
// supported; the tags the readers handle are far too small for them.
package ndef

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Type Name Format values.
const (
	TNFEmpty       byte = 0x00
	TNFWellKnown   byte = 0x01
	TNFMedia       byte = 0x02
	TNFAbsoluteURI byte = 0x03
	TNFExternal    byte = 0x04
	TNFUnknown     byte = 0x05
	TNFUnchanged   byte = 0x06
)

const (
	tnfMask = byte(0x07)
	flagMB  = byte(0x80)
	flagME  = byte(0x40)
	flagCF  = byte(0x20)
	flagSR  = byte(0x10)
	flagIL  = byte(0x08)

	shortRecordMax = 255
)

var (
	ErrEmptyMessage  = errors.New("ndef: empty message")
	ErrTruncated     = errors.New("ndef: truncated record")
	ErrInvalidTNF    = errors.New("ndef: invalid TNF value")
	ErrChunkedRecord = errors.New("ndef: chunked records not supported")
)

// Record is a single NDEF record.
type Record struct {
	Type    string
	ID      string
	Payload []byte
	TNF     byte
}

// Message is an ordered collection of records.
type Message struct {
	Records []*Record
}

// Bytes serializes the message. The first and last records carry the
// message-begin and message-end flags; everything else about the records is
// taken as-is.
func (m *Message) Bytes() ([]byte, error) {
	if len(m.Records) == 0 {
		return nil, ErrEmptyMessage
	}
	var out []byte
	for i, rec := range m.Records {
		data, err := rec.marshal(i == 0, i == len(m.Records)-1)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, data...)
	}
	return out, nil
}

// ParseMessage decodes records until the message-end flag or the end of
// data.
func ParseMessage(data []byte) (*Message, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	msg := &Message{}
	offset := 0
	for offset < len(data) {
		rec, n, last, err := parseRecord(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("record at offset %d: %w", offset, err)
		}
		msg.Records = append(msg.Records, rec)
		offset += n
		if last {
			break
		}
	}
	return msg, nil
}

// First returns the first record with the given well-known type, or nil.
func (m *Message) First(recordType string) *Record {
	for _, rec := range m.Records {
		if rec.TNF == TNFWellKnown && rec.Type == recordType {
			return rec
		}
	}
	return nil
}

func (r *Record) marshal(first, last bool) ([]byte, error) {
	if r.TNF > TNFUnchanged {
		return nil, ErrInvalidTNF
	}

	flags := r.TNF & tnfMask
	if first {
		flags |= flagMB
	}
	if last {
		flags |= flagME
	}
	short := len(r.Payload) <= shortRecordMax
	if short {
		flags |= flagSR
	}
	if r.ID != "" {
		flags |= flagIL
	}

	out := []byte{flags, byte(len(r.Type))}
	if short {
		out = append(out, byte(len(r.Payload)))
	} else {
		out = binary.BigEndian.AppendUint32(out, uint32(len(r.Payload)))
	}
	if r.ID != "" {
		out = append(out, byte(len(r.ID)))
	}
	out = append(out, r.Type...)
	out = append(out, r.ID...)
	out = append(out, r.Payload...)
	return out, nil
}

func parseRecord(data []byte) (rec *Record, n int, last bool, err error) {
	if len(data) < 3 {
		return nil, 0, false, ErrTruncated
	}

	flags := data[0]
	if flags&flagCF != 0 {
		return nil, 0, false, ErrChunkedRecord
	}
	rec = &Record{TNF: flags & tnfMask}
	if rec.TNF > TNFUnchanged {
		return nil, 0, false, ErrInvalidTNF
	}
	last = flags&flagME != 0

	typeLen := int(data[1])
	offset := 2

	var payloadLen int
	if flags&flagSR != 0 {
		payloadLen = int(data[offset])
		offset++
	} else {
		if offset+4 > len(data) {
			return nil, 0, false, ErrTruncated
		}
		payloadLen = int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
	}

	idLen := 0
	if flags&flagIL != 0 {
		if offset >= len(data) {
			return nil, 0, false, ErrTruncated
		}
		idLen = int(data[offset])
		offset++
	}

	if offset+typeLen+idLen+payloadLen > len(data) {
		return nil, 0, false, ErrTruncated
	}

	rec.Type = string(data[offset : offset+typeLen])
	offset += typeLen
	rec.ID = string(data[offset : offset+idLen])
	offset += idLen
	rec.Payload = append([]byte(nil), data[offset:offset+payloadLen]...)
	offset += payloadLen

	return rec, offset, last, nil
}
