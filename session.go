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
	"context"
	"errors"
	"fmt"
)

// SessionState is the tag lifecycle state of a TagSession.
type SessionState int

const (
	// StateIdle means no tag and no seek in progress.
	StateIdle SessionState = iota
	// StateSeeking means a seek command is outstanding.
	StateSeeking
	// StateSelected means a tag is selected but no sector is authenticated.
	StateSelected
	// StateAuthenticated means the sector of the last block operation holds
	// a valid login.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeking:
		return "seeking"
	case StateSelected:
		return "selected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// TagSession drives the tag lifecycle on top of a Reader: seek, select,
// sector authentication, and sequential block access. It enforces the two
// rules the raw commands leave to the caller: crossing a sector boundary
// invalidates the login and forces a fresh authenticate, and
// ultralight-class tags are never authenticated at all.
//
// Like Reader, a TagSession is confined to a single goroutine.
type TagSession struct {
	reader  *Reader
	tag     *Tag
	pending *Request
	key     []byte
	state   SessionState
	// lastAuthSector is the sector holding a valid login, -1 for none.
	lastAuthSector int
	keyType        byte
	cursor         byte
}

// NewTagSession creates a session in the Idle state. The session uses the
// MIFARE transport key until SetKey is called.
func NewTagSession(r *Reader) *TagSession {
	return &TagSession{
		reader:         r,
		state:          StateIdle,
		lastAuthSector: -1,
	}
}

// State returns the current lifecycle state.
func (s *TagSession) State() SessionState { return s.state }

// Variant returns the chip family of the underlying reader.
func (s *TagSession) Variant() Variant { return s.reader.Variant() }

// Tag returns the selected tag, or nil before a successful seek/select.
func (s *TagSession) Tag() *Tag { return s.tag }

// Cursor returns the block or page number of the most recent block
// operation.
func (s *TagSession) Cursor() byte { return s.cursor }

// SetKey selects an explicit sector key for subsequent authentications.
// keyType is KeyTypeA or KeyTypeB; a nil key reverts to the transport key.
func (s *TagSession) SetKey(keyType byte, key []byte) error {
	if key != nil && len(key) != keySize {
		return fmt.Errorf("key must be %d bytes, got %d", keySize, len(key))
	}
	s.keyType = keyType
	s.key = key
	// A key change invalidates any current login.
	s.dropAuth()
	return nil
}

// Seek starts seek mode. The session moves to Seeking; Poll advances it.
func (s *TagSession) Seek(ctx context.Context) error {
	req, err := s.reader.SeekTag(ctx)
	if err != nil {
		return err
	}
	s.pending = req
	s.state = StateSeeking
	s.tag = nil
	s.dropAuth()
	return nil
}

// Poll checks once for a seek result. It returns (nil, nil) while no tag
// has entered the field yet; the caller re-polls on its own schedule. On
// success the session moves to Selected and the tag is returned.
func (s *TagSession) Poll(ctx context.Context) (*Tag, error) {
	if s.state != StateSeeking || s.pending == nil {
		return nil, fmt.Errorf("poll: session is %s, not seeking", s.state)
	}
	resp, err := s.reader.Receive(ctx, s.pending)
	switch {
	case errors.Is(err, ErrNoData):
		return nil, nil
	case err != nil:
		return nil, err
	}
	s.tag = resp.Tag
	s.pending = nil
	s.state = StateSelected
	return s.tag, nil
}

// Select selects a tag already in the field, bypassing seek mode.
func (s *TagSession) Select(ctx context.Context) (*Tag, error) {
	req, err := s.reader.SelectTag(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.reader.Await(ctx, req)
	if err != nil {
		return nil, err
	}
	s.tag = resp.Tag
	s.pending = nil
	s.state = StateSelected
	s.dropAuth()
	return s.tag, nil
}

// ReadBlock reads a block (or, for ultralight tags on the SL018, a page),
// authenticating first when the sector demands it.
func (s *TagSession) ReadBlock(ctx context.Context, block byte) ([]byte, error) {
	if err := s.prepareBlock(ctx, block); err != nil {
		return nil, err
	}

	var (
		req *Request
		err error
	)
	if s.ultralight() && s.reader.Variant() == VariantSL018 {
		req, err = s.reader.ReadPage(ctx, block)
	} else {
		req, err = s.reader.ReadBlock(ctx, block)
	}
	if err != nil {
		return nil, err
	}
	resp, err := s.reader.Await(ctx, req)
	if err != nil {
		s.recoverFromBlockError(err)
		return nil, err
	}
	s.cursor = block
	return resp.Data(), nil
}

// WriteBlock writes a block, or a 4-byte page for ultralight tags. Data is
// zero-padded to the tag's block size.
func (s *TagSession) WriteBlock(ctx context.Context, block byte, data []byte) error {
	if err := s.prepareBlock(ctx, block); err != nil {
		return err
	}

	var (
		req *Request
		err error
	)
	if s.ultralight() {
		req, err = s.reader.WritePage(ctx, block, data)
	} else {
		req, err = s.reader.WriteBlock(ctx, block, data)
	}
	if err != nil {
		return err
	}
	if _, err := s.reader.Await(ctx, req); err != nil {
		s.recoverFromBlockError(err)
		return err
	}
	s.cursor = block
	return nil
}

// Halt ends the session from any state: the tag is released, the login is
// dropped, and the session returns to Idle. Safe to call repeatedly.
func (s *TagSession) Halt(ctx context.Context) error {
	req, err := s.reader.HaltTag(ctx)
	if err != nil {
		return err
	}
	if req != nil {
		if _, err := s.reader.Await(ctx, req); err != nil && !errors.Is(err, ErrTimeout) {
			return err
		}
	}
	s.reset()
	return nil
}

// Reset restarts the module and returns the session to Idle.
func (s *TagSession) Reset(ctx context.Context) error {
	if err := s.reader.Reset(ctx); err != nil {
		return err
	}
	s.reset()
	return nil
}

func (s *TagSession) reset() {
	s.state = StateIdle
	s.tag = nil
	s.pending = nil
	s.dropAuth()
}

func (s *TagSession) dropAuth() {
	s.lastAuthSector = -1
	if s.state == StateAuthenticated {
		s.state = StateSelected
	}
}

func (s *TagSession) ultralight() bool {
	return s.tag != nil && s.tag.Ultralight(s.reader.Variant())
}

// prepareBlock enforces the authentication rules before a block operation:
// ultralight tags skip authentication entirely; otherwise a login must be
// current for the block's sector, and crossing a sector boundary forces a
// fresh authenticate.
func (s *TagSession) prepareBlock(ctx context.Context, block byte) error {
	if s.state != StateSelected && s.state != StateAuthenticated {
		return fmt.Errorf("block %d: no tag selected (session is %s)", block, s.state)
	}
	if s.ultralight() {
		return nil
	}

	sector := int(block) / blocksPerSector
	if s.state == StateAuthenticated && s.lastAuthSector == sector {
		return nil
	}

	if err := s.authenticate(ctx, block); err != nil {
		s.dropAuth()
		return err
	}
	s.lastAuthSector = sector
	s.state = StateAuthenticated
	return nil
}

func (s *TagSession) authenticate(ctx context.Context, block byte) error {
	var (
		req *Request
		err error
	)
	if s.key != nil {
		req, err = s.reader.AuthenticateKey(ctx, block, s.keyType, s.key)
	} else {
		req, err = s.reader.Authenticate(ctx, block)
	}
	if err != nil {
		return err
	}
	if _, err := s.reader.Await(ctx, req); err != nil {
		return fmt.Errorf("authenticate block %d: %w", block, err)
	}
	return nil
}

// recoverFromBlockError drops the login when the device reports it is no
// longer authenticated, so the next block operation re-authenticates
// instead of failing the same way again.
func (s *TagSession) recoverFromBlockError(err error) {
	var se *StatusError
	if errors.As(err, &se) {
		if se.IsNoTag() || (s.reader.Variant() == VariantSL018 && se.Code == SL018StatusNoLogin) {
			s.dropAuth()
		}
	}
}
