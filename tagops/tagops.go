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

// Package tagops provides high-level tag operations on top of a
// TagSession: multi-key reads of MIFARE sectors, whole-tag dumps, and NDEF
// access on ultralight tags.
package tagops

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcboon/go-rfiduino"
)

var (
	// ErrNoTag indicates no tag is in the field.
	ErrNoTag = errors.New("no tag detected")

	// ErrUnsupportedTag indicates the operation does not apply to the
	// selected tag type.
	ErrUnsupportedTag = errors.New("unsupported tag type")

	// ErrAuthFailed indicates no candidate key opened the sector.
	ErrAuthFailed = errors.New("authentication failed with all candidate keys")
)

// defaultKeys are the candidate sector keys tried in order: the MIFARE
// transport key (nil selects it on the session), the MAD key, and the NFC
// Forum NDEF key.
var defaultKeys = [][]byte{
	nil,
	{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5},
	{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7},
}

// Operations drives high-level reads and writes over one session. Like the
// session itself it is confined to a single goroutine.
type Operations struct {
	session *rfiduino.TagSession
	keys    [][]byte
}

// Option configures Operations.
type Option func(*Operations)

// WithKeys replaces the candidate key list for sector authentication. A
// nil entry stands for the transport key.
func WithKeys(keys ...[]byte) Option {
	return func(o *Operations) {
		o.keys = keys
	}
}

// New creates Operations over an existing session.
func New(session *rfiduino.TagSession, opts ...Option) *Operations {
	o := &Operations{
		session: session,
		keys:    defaultKeys,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Session exposes the underlying session for raw block access.
func (o *Operations) Session() *rfiduino.TagSession { return o.session }

// DetectTag selects whatever tag is in the field and returns it.
func (o *Operations) DetectTag(ctx context.Context) (*rfiduino.Tag, error) {
	tag, err := o.session.Select(ctx)
	if err != nil {
		if rfiduino.IsNoTag(err) {
			return nil, ErrNoTag
		}
		return nil, fmt.Errorf("select tag: %w", err)
	}
	return tag, nil
}

// readBlock reads one block, rotating through the candidate keys until one
// opens the sector. The winning key stays installed on the session, so
// subsequent blocks in the same sector need no extra attempts.
func (o *Operations) readBlock(ctx context.Context, block byte) ([]byte, error) {
	var lastErr error
	for _, key := range o.keys {
		if err := o.session.SetKey(rfiduino.KeyTypeA, key); err != nil {
			return nil, err
		}
		data, err := o.session.ReadBlock(ctx, block)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var se *rfiduino.StatusError
		if !errors.As(err, &se) || !se.IsAuthFailure() {
			return nil, err
		}
	}
	return nil, fmt.Errorf("block %d: %w (last: %w)", block, ErrAuthFailed, lastErr)
}
