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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcboon/go-rfiduino/internal/busmock"
)

// TestSL018Lifecycle walks a full tag session against a scripted SL018:
// reset, seek until a card arrives, read and write a block, halt.
func TestSL018Lifecycle(t *testing.T) {
	t.Parallel()
	r, bus, _ := newTestReader(t, VariantSL018)
	s := NewTagSession(r)
	ctx := context.Background()

	require.NoError(t, s.Reset(ctx))
	require.Equal(t, []byte{0x01, 0xFF}, bus.LastWrite())

	require.NoError(t, s.Seek(ctx))
	require.Equal(t, StateSeeking, s.State())

	// Two empty polls, then the card shows up.
	for i := 0; i < 2; i++ {
		bus.Queue(busmock.SL018Status(CmdSL018Select, SL018StatusNoTag))
		tag, err := s.Poll(ctx)
		require.NoError(t, err)
		require.Nil(t, tag)
	}
	bus.Queue([]byte{0x07, 0x01, 0x00, 0xAA, 0xBB, 0xCC, 0xDD, 0x01})
	tag, err := s.Poll(ctx)
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "AABBCCDD", tag.UIDString())
	assert.Equal(t, "Mifare 1K", tag.Name)
	assert.Equal(t, StateSelected, s.State())

	// First block access logs in to the sector with the transport key.
	block := []byte{
		'h', 'e', 'l', 'l', 'o', 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	bus.Queue(busmock.SL018Status(CmdSL018Login, SL018StatusLoginOK))
	bus.Queue(busmock.SL018Block(CmdSL018Read16, block))
	got, err := s.ReadBlock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, block, got)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, 1, countCommand(bus, CmdSL018Login))

	// Writing in the same sector reuses the login.
	bus.Queue(busmock.SL018Block(CmdSL018Write16, block))
	require.NoError(t, s.WriteBlock(ctx, 2, block))
	assert.Equal(t, 1, countCommand(bus, CmdSL018Login))

	require.NoError(t, s.Halt(ctx))
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Tag())
}

// TestSM130Lifecycle exercises the SM130 bring-up and seek flow: reset with
// firmware report, antenna on, hardware seek, authenticated block access.
func TestSM130Lifecycle(t *testing.T) {
	t.Parallel()
	r, bus, _ := newTestReader(t, VariantSM130)
	s := NewTagSession(r)
	ctx := context.Background()

	bus.Queue(sm130Ack(CmdSM130AntennaPower, 1))
	bus.Queue(sm130Ack(CmdSM130HaltTag, 0))
	require.NoError(t, s.Reset(ctx))
	assert.True(t, r.AntennaPowered())

	bus.Queue(busmock.SM130Firmware(CmdSM130Version, "UM2"))
	fw, err := r.FirmwareVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UM2", fw)

	require.NoError(t, s.Seek(ctx))
	bus.Queue(sm130Ack(CmdSM130SeekTag, SM130StatusSeeking))
	tag, err := s.Poll(ctx)
	require.NoError(t, err)
	require.Nil(t, tag)

	bus.Queue(busmock.SM130Tag(CmdSM130SeekTag, TagSM130Classic1K, []byte{0x04, 0xA1, 0x22, 0x5C}))
	tag, err = s.Poll(ctx)
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "04A1225C", tag.UIDString())

	data := make([]byte, 16)
	bus.Queue(sm130Ack(CmdSM130Authenticate, SM130StatusSeeking))
	bus.Queue(busmock.SM130Block(CmdSM130Read16, 1, data))
	got, err := s.ReadBlock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	bus.Queue(sm130Ack(CmdSM130HaltTag, 0))
	require.NoError(t, s.Halt(ctx))
	assert.Equal(t, StateIdle, s.State())
}
