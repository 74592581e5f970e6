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

// Package uart provides the serial transport for SM130 readers running in
// UART mode. On the wire every packet is the usual [len][cmd][data][sum]
// frame wrapped in a 0xFF 0x00 header; the transport adds and strips the
// header so the engine sees the same frames as over I2C.
package uart

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/marcboon/go-rfiduino"
)

// DefaultBaudRate is the SM130 factory baud rate.
const DefaultBaudRate = 19200

// readTimeout bounds a single port read. The engine polls, so a short
// timeout just means "no data yet", not failure.
const readTimeout = 50 * time.Millisecond

const (
	headerFirst  = 0xFF
	headerSecond = 0x00
)

// Transport is an rfiduino.Bus over a serial port. Serial links are
// point-to-point; the bus address is accepted and ignored.
type Transport struct {
	port serial.Port
	name string
	baud int
}

// Option configures a Transport.
type Option func(*Transport)

// WithBaudRate overrides the factory baud rate, for modules reconfigured
// with the set-baud command.
func WithBaudRate(baud int) Option {
	return func(t *Transport) {
		t.baud = baud
	}
}

// Open opens the named serial port in the module's 8N1 framing.
func Open(portName string, opts ...Option) (*Transport, error) {
	t := &Transport{name: portName, baud: DefaultBaudRate}
	for _, opt := range opts {
		opt(t)
	}

	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: t.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", portName, err)
	}
	t.port = port
	return t, nil
}

// New wraps an already opened port. Most callers use Open; New exists for
// custom port setups and tests.
func New(port serial.Port, name string) *Transport {
	return &Transport{port: port, name: name, baud: DefaultBaudRate}
}

// WriteTo implements rfiduino.Bus: the frame goes out behind the two-byte
// packet header.
func (t *Transport) WriteTo(ctx context.Context, _ uint16, frame []byte) error {
	if t.port == nil {
		return rfiduino.ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := make([]byte, 0, 2+len(frame))
	buf = append(buf, headerFirst, headerSecond)
	buf = append(buf, frame...)
	if _, err := t.port.Write(buf); err != nil {
		return &rfiduino.TransportError{Op: "write", Port: t.name, Err: err}
	}
	return nil
}

// ReadFrom implements rfiduino.Bus: it hunts for the packet header in the
// byte stream, then reads the length byte and exactly the bytes the frame
// claims. A read timeout anywhere means the module has nothing to say yet
// and yields an empty result.
func (t *Transport) ReadFrom(ctx context.Context, _ uint16, maxLen int) ([]byte, error) {
	if t.port == nil {
		return nil, rfiduino.ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ok, err := t.syncHeader(); err != nil || !ok {
		return nil, err
	}

	length, ok, err := t.readByte()
	if err != nil || !ok {
		return nil, err
	}
	if length == 0 || int(length) > maxLen {
		// Garbage length; resynchronize on the next poll.
		return nil, nil
	}

	// The rest of the frame: the echoed command, the payload and the
	// trailing checksum.
	rest := make([]byte, int(length)+1)
	if err := t.readFull(rest); err != nil {
		return nil, err
	}
	return append([]byte{length}, rest...), nil
}

// syncHeader consumes stream bytes until the 0xFF 0x00 packet header, the
// read timeout, or a port error.
func (t *Transport) syncHeader() (bool, error) {
	sawFirst := false
	for {
		b, ok, err := t.readByte()
		if err != nil || !ok {
			return false, err
		}
		switch {
		case sawFirst && b == headerSecond:
			return true, nil
		case b == headerFirst:
			sawFirst = true
		default:
			sawFirst = false
		}
	}
}

// readByte reads one stream byte; ok is false on timeout.
func (t *Transport) readByte() (byte, bool, error) {
	var b [1]byte
	n, err := t.port.Read(b[:])
	if err != nil {
		return 0, false, &rfiduino.TransportError{Op: "read", Port: t.name, Err: err}
	}
	return b[0], n == 1, nil
}

// readFull reads len(buf) bytes, tolerating the short reads serial ports
// produce at packet boundaries.
func (t *Transport) readFull(buf []byte) error {
	got := 0
	for got < len(buf) {
		n, err := t.port.Read(buf[got:])
		if err != nil {
			return &rfiduino.TransportError{Op: "read", Port: t.name, Err: err}
		}
		if n == 0 {
			return &rfiduino.TransportError{Op: "read", Port: t.name, Err: io.ErrUnexpectedEOF}
		}
		got += n
	}
	return nil
}

// Close implements rfiduino.Bus.
func (t *Transport) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return fmt.Errorf("close serial port %s: %w", t.name, err)
	}
	return nil
}
