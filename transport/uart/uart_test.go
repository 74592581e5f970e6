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

package uart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/marcboon/go-rfiduino"
)

// fakePort implements serial.Port over in-memory buffers. Reads drain the
// scripted input one chunk at a time; an exhausted buffer behaves like a
// read timeout (zero bytes, no error).
type fakePort struct {
	input   []byte
	written []byte
	chunk   int
	closed  bool
}

func (p *fakePort) Read(buf []byte) (int, error) {
	if len(p.input) == 0 {
		return 0, nil
	}
	n := len(buf)
	if p.chunk > 0 && n > p.chunk {
		n = p.chunk
	}
	if n > len(p.input) {
		n = len(p.input)
	}
	copy(buf, p.input[:n])
	p.input = p.input[n:]
	return n, nil
}

func (p *fakePort) Write(buf []byte) (int, error) {
	p.written = append(p.written, buf...)
	return len(buf), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (*fakePort) SetMode(*serial.Mode) error         { return nil }
func (*fakePort) Drain() error                       { return nil }
func (*fakePort) ResetInputBuffer() error            { return nil }
func (*fakePort) ResetOutputBuffer() error           { return nil }
func (*fakePort) SetDTR(bool) error                  { return nil }
func (*fakePort) SetRTS(bool) error                  { return nil }
func (*fakePort) SetReadTimeout(time.Duration) error { return nil }
func (*fakePort) Break(time.Duration) error          { return nil }

func (*fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return nil, nil
}

func TestWriteToAddsHeader(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	tr := New(port, "fake")

	// Seek command frame as the engine builds it.
	require.NoError(t, tr.WriteTo(context.Background(), 0x42, []byte{0x01, 0x82, 0x83}))
	assert.Equal(t, []byte{0xFF, 0x00, 0x01, 0x82, 0x83}, port.written)
}

func TestReadFromStripsHeader(t *testing.T) {
	t.Parallel()
	port := &fakePort{input: []byte{0xFF, 0x00, 0x02, 0x90, 0x01, 0x93}}
	tr := New(port, "fake")

	got, err := tr.ReadFrom(context.Background(), 0x42, 20)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x90, 0x01, 0x93}, got)
}

func TestReadFromResynchronizes(t *testing.T) {
	t.Parallel()
	// Line noise before the header must not derail framing.
	port := &fakePort{input: []byte{0x13, 0xFF, 0xFF, 0x00, 0x02, 0x90, 0x01, 0x93}}
	tr := New(port, "fake")

	got, err := tr.ReadFrom(context.Background(), 0x42, 20)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x90, 0x01, 0x93}, got)
}

func TestReadFromShortReads(t *testing.T) {
	t.Parallel()
	// Serial ports routinely deliver packets one byte at a time.
	port := &fakePort{
		input: []byte{0xFF, 0x00, 0x06, 0x82, 0x02, 0x04, 0xA1, 0x22, 0x5C, 0xAD},
		chunk: 1,
	}
	tr := New(port, "fake")

	got, err := tr.ReadFrom(context.Background(), 0x42, 20)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x82, 0x02, 0x04, 0xA1, 0x22, 0x5C, 0xAD}, got)
}

func TestReadFromNoData(t *testing.T) {
	t.Parallel()
	tr := New(&fakePort{}, "fake")
	got, err := tr.ReadFrom(context.Background(), 0x42, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFromGarbageLength(t *testing.T) {
	t.Parallel()
	// An impossible length byte is dropped; the next poll resyncs.
	port := &fakePort{input: []byte{0xFF, 0x00, 0x7F}}
	tr := New(port, "fake")

	got, err := tr.ReadFrom(context.Background(), 0x42, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClosedPort(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	tr := New(port, "fake")
	require.NoError(t, tr.Close())
	assert.True(t, port.closed)

	assert.ErrorIs(t, tr.WriteTo(context.Background(), 0x42, nil), rfiduino.ErrTransportClosed)
	_, err := tr.ReadFrom(context.Background(), 0x42, 4)
	assert.ErrorIs(t, err, rfiduino.ErrTransportClosed)
	require.NoError(t, tr.Close())
}

func TestContextCancelled(t *testing.T) {
	t.Parallel()
	tr := New(&fakePort{}, "fake")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tr.WriteTo(ctx, 0x42, []byte{0x01}), context.Canceled)
	_, err := tr.ReadFrom(ctx, 0x42, 4)
	assert.ErrorIs(t, err, context.Canceled)
}
