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

	"github.com/marcboon/go-rfiduino/internal/syncutil"
)

// Bus is the byte transport a Reader talks through. Implementations live in
// the transport/ subpackages (I2C via periph.io, UART via go.bug.st/serial);
// MockBus serves tests.
//
// ReadFrom requests up to max bytes from the addressed device and returns
// whatever the bus produced. An empty result means no data was available,
// which the engine reports as ErrNoData; it is not a transport failure.
// Two readers may share one Bus at distinct addresses, but the caller must
// serialize command issuance between them.
type Bus interface {
	// WriteTo writes a complete command frame to the device at addr.
	WriteTo(ctx context.Context, addr uint16, frame []byte) error

	// ReadFrom reads up to max response bytes from the device at addr.
	ReadFrom(ctx context.Context, addr uint16, max int) ([]byte, error)

	// Close releases the bus.
	Close() error
}

// HardwareResetter is implemented by transports wired to the module's RESET
// pin. Reader.Reset prefers it over the software reset command.
type HardwareResetter interface {
	HardwareReset(ctx context.Context) error
}

// ReadySignaler is implemented by transports wired to the module's DREADY
// pin. When available, the engine checks it before polling the bus in seek
// mode, avoiding pointless bus reads while the module is still searching.
type ReadySignaler interface {
	DataReady() (bool, error)
}

// MockBus is a scripted Bus implementation for tests. Reads pop queued
// responses in FIFO order; an exhausted queue reads as "no data". All writes
// are recorded verbatim.
type MockBus struct {
	reads  [][]byte
	writes [][]byte
	mu     syncutil.Mutex
	closed bool
}

// NewMockBus creates an empty mock bus.
func NewMockBus() *MockBus {
	return &MockBus{}
}

// Queue appends a scripted response for a future ReadFrom.
func (m *MockBus) Queue(resp []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(resp))
	copy(buf, resp)
	m.reads = append(m.reads, buf)
}

// WriteTo implements Bus.
func (m *MockBus) WriteTo(_ context.Context, _ uint16, frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)
	m.writes = append(m.writes, buf)
	return nil
}

// ReadFrom implements Bus.
func (m *MockBus) ReadFrom(_ context.Context, _ uint16, maxLen int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTransportClosed
	}
	if len(m.reads) == 0 {
		return nil, nil
	}
	resp := m.reads[0]
	m.reads = m.reads[1:]
	if len(resp) > maxLen {
		resp = resp[:maxLen]
	}
	return resp, nil
}

// Close implements Bus.
func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Writes returns all frames written so far.
func (m *MockBus) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount returns how many frames have been written.
func (m *MockBus) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// LastWrite returns the most recent frame, or nil if none.
func (m *MockBus) LastWrite() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return nil
	}
	return m.writes[len(m.writes)-1]
}
