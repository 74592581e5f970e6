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
	"errors"
	"fmt"

	"github.com/marcboon/go-rfiduino"
	"github.com/marcboon/go-rfiduino/pkg/ndef"
)

// ErrMessageTooLarge indicates the NDEF message does not fit the tag's
// user memory.
var ErrMessageTooLarge = errors.New("NDEF message does not fit on tag")

// WriteBlocks writes data to consecutive blocks starting at start. The
// data length must be a multiple of the block size; the candidate keys are
// rotated per sector like on reads.
func (o *Operations) WriteBlocks(ctx context.Context, start byte, data []byte) error {
	if o.session.Tag() == nil {
		return ErrNoTag
	}
	if len(data)%16 != 0 {
		return fmt.Errorf("data length %d is not a multiple of the block size", len(data))
	}
	for i := 0; i < len(data); i += 16 {
		if err := o.writeBlock(ctx, start+byte(i/16), data[i:i+16]); err != nil {
			return err
		}
	}
	return nil
}

// writeBlock mirrors readBlock's key rotation for writes.
func (o *Operations) writeBlock(ctx context.Context, block byte, data []byte) error {
	var lastErr error
	for _, key := range o.keys {
		if err := o.session.SetKey(rfiduino.KeyTypeA, key); err != nil {
			return err
		}
		err := o.session.WriteBlock(ctx, block, data)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *rfiduino.StatusError
		if !errors.As(err, &se) || !se.IsAuthFailure() {
			return err
		}
	}
	return fmt.Errorf("block %d: %w (last: %w)", block, ErrAuthFailed, lastErr)
}

// WriteNDEF serializes and stores an NDEF message on an ultralight tag's
// user pages.
func (o *Operations) WriteNDEF(ctx context.Context, msg *ndef.Message) error {
	tag := o.session.Tag()
	if tag == nil {
		return ErrNoTag
	}
	if !tag.Ultralight(o.session.Variant()) {
		return fmt.Errorf("NDEF: %w", ErrUnsupportedTag)
	}

	raw, err := msg.Bytes()
	if err != nil {
		return err
	}
	wrapped, err := ndef.WrapTLV(raw)
	if err != nil {
		return err
	}
	capacity := (ultralightLastUserPage - ultralightFirstUserPage + 1) * ultralightPageSize
	if len(wrapped) > capacity {
		return fmt.Errorf("%w: %d > %d bytes", ErrMessageTooLarge, len(wrapped), capacity)
	}

	for i := 0; i < len(wrapped); i += ultralightPageSize {
		end := i + ultralightPageSize
		if end > len(wrapped) {
			end = len(wrapped)
		}
		page := ultralightFirstUserPage + i/ultralightPageSize
		if err := o.session.WriteBlock(ctx, byte(page), wrapped[i:end]); err != nil {
			return fmt.Errorf("write page %d: %w", page, err)
		}
	}
	return nil
}

// WriteText stores a single NDEF text record on the tag.
func (o *Operations) WriteText(ctx context.Context, text, language string) error {
	msg := &ndef.Message{Records: []*ndef.Record{ndef.NewTextRecord(text, language)}}
	return o.WriteNDEF(ctx, msg)
}
