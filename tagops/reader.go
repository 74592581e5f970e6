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

package tagops

import (
	"context"
	"fmt"

	"github.com/marcboon/go-rfiduino"
	"github.com/marcboon/go-rfiduino/pkg/ndef"
)

// Ultralight user memory: pages 4 to 15; the first four pages hold the
// UID, lock bits and capability container.
const (
	ultralightFirstUserPage = 4
	ultralightLastUserPage  = 15
	ultralightPageSize      = 4
)

// capacityBlocks returns the number of 16-byte blocks (or 4-byte pages for
// ultralight tags) the tag exposes, zero for unknown types.
func capacityBlocks(tag *rfiduino.Tag, v rfiduino.Variant) int {
	if tag.Ultralight(v) {
		return ultralightLastUserPage + 1
	}
	if v == rfiduino.VariantSM130 {
		switch tag.Kind {
		case rfiduino.TagSM130Classic1K:
			return 64
		case rfiduino.TagSM130Classic4K:
			return 256
		}
		return 0
	}
	switch tag.Kind {
	case rfiduino.TagSL018Classic1K:
		return 64
	case rfiduino.TagSL018Classic4K:
		return 256
	}
	return 0
}

// ReadBlocks reads count consecutive blocks starting at start, trying the
// candidate keys per sector as needed.
func (o *Operations) ReadBlocks(ctx context.Context, start byte, count int) ([]byte, error) {
	if o.session.Tag() == nil {
		return nil, ErrNoTag
	}
	out := make([]byte, 0, count*16)
	for i := 0; i < count; i++ {
		data, err := o.readBlock(ctx, start+byte(i))
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// DumpTag reads the tag's entire readable memory. Sectors that refuse
// every candidate key are filled with zeros rather than failing the whole
// dump.
func (o *Operations) DumpTag(ctx context.Context) ([]byte, error) {
	tag := o.session.Tag()
	if tag == nil {
		return nil, ErrNoTag
	}
	blocks := capacityBlocks(tag, o.session.Variant())
	if blocks == 0 {
		return nil, fmt.Errorf("%w: kind 0x%02X", ErrUnsupportedTag, tag.Kind)
	}

	size := 16
	if tag.Ultralight(o.session.Variant()) {
		size = ultralightPageSize
	}

	out := make([]byte, 0, blocks*size)
	for block := 0; block < blocks; block++ {
		data, err := o.readBlock(ctx, byte(block))
		if err != nil {
			out = append(out, make([]byte, size)...)
			continue
		}
		if len(data) > size {
			data = data[:size]
		}
		out = append(out, data...)
	}
	return out, nil
}

// readUserMemory reads the ultralight user pages as one flat byte slice.
func (o *Operations) readUserMemory(ctx context.Context) ([]byte, error) {
	out := make([]byte, 0, (ultralightLastUserPage-ultralightFirstUserPage+1)*ultralightPageSize)
	for page := ultralightFirstUserPage; page <= ultralightLastUserPage; page++ {
		data, err := o.readBlock(ctx, byte(page))
		if err != nil {
			return nil, err
		}
		if len(data) > ultralightPageSize {
			// The SM130 reads ultralight memory 16 bytes at a time; only
			// the addressed page is wanted here.
			data = data[:ultralightPageSize]
		}
		out = append(out, data...)
	}
	return out, nil
}

// ReadNDEF reads and parses the NDEF message from an ultralight tag.
func (o *Operations) ReadNDEF(ctx context.Context) (*ndef.Message, error) {
	tag := o.session.Tag()
	if tag == nil {
		return nil, ErrNoTag
	}
	if !tag.Ultralight(o.session.Variant()) {
		return nil, fmt.Errorf("NDEF: %w", ErrUnsupportedTag)
	}

	memory, err := o.readUserMemory(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := ndef.UnwrapTLV(memory)
	if err != nil {
		return nil, err
	}
	msg, err := ndef.ParseMessage(raw)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ReadText returns the text of the first NDEF text record on the tag.
func (o *Operations) ReadText(ctx context.Context) (string, error) {
	msg, err := o.ReadNDEF(ctx)
	if err != nil {
		return "", err
	}
	rec := msg.First(ndef.TextRecordType)
	if rec == nil {
		return "", fmt.Errorf("NDEF: %w", ndef.ErrNotText)
	}
	return rec.Text()
}
