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

// Package i2c provides the I2C transport for SL018 and SM130 readers,
// built on periph.io. Besides the data lines it can drive the module's
// RESET pin and poll the DREADY pin when those are wired to GPIOs.
package i2c

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/marcboon/go-rfiduino"
)

// DefaultClockFreq is the bus speed used unless WithClockFreq overrides it.
// Both chip families are specified for standard-mode I2C; the SL030 also
// works at 400 kHz.
const DefaultClockFreq = 100 * physic.KiloHertz

// resetPulse is how long the RESET pin is held high to restart the module.
const resetPulse = 10 * time.Millisecond

// Transport is an rfiduino.Bus on a Linux I2C bus. One Transport can carry
// several readers at distinct addresses; the address travels with every
// call.
type Transport struct {
	bus   i2c.BusCloser
	reset gpio.PinIO
	ready gpio.PinIn
	name  string
	freq  physic.Frequency
}

// Option configures a Transport.
type Option func(*Transport) error

// WithClockFreq overrides the bus clock frequency.
func WithClockFreq(freq physic.Frequency) Option {
	return func(t *Transport) error {
		if freq <= 0 {
			return fmt.Errorf("invalid clock frequency %v", freq)
		}
		t.freq = freq
		return nil
	}
}

// WithResetPin wires the module's RESET line to a GPIO, named as understood
// by periph.io (for example "GPIO17"). When set, Transport implements
// rfiduino.HardwareResetter and the engine prefers the pin over the
// software reset command.
func WithResetPin(name string) Option {
	return func(t *Transport) error {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("reset pin %q not found", name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("configure reset pin %q: %w", name, err)
		}
		t.reset = pin
		return nil
	}
}

// WithReadyPin wires the SM130's DREADY line to a GPIO. When set, Transport
// implements rfiduino.ReadySignaler and the engine skips bus polls while
// the module is still seeking.
func WithReadyPin(name string) Option {
	return func(t *Transport) error {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return fmt.Errorf("ready pin %q not found", name)
		}
		if err := pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return fmt.Errorf("configure ready pin %q: %w", name, err)
		}
		t.ready = pin
		return nil
	}
}

// Open initializes the periph host, opens the named I2C bus ("" selects the
// first available one) and returns a Transport on it.
func Open(busName string, opts ...Option) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}
	t, err := New(bus, opts...)
	if err != nil {
		_ = bus.Close()
		return nil, err
	}
	t.name = busName
	return t, nil
}

// New wraps an already opened periph I2C bus. Most callers use Open; New
// exists for custom bus setups and tests.
func New(bus i2c.BusCloser, opts ...Option) (*Transport, error) {
	t := &Transport{
		bus:  bus,
		name: bus.String(),
		freq: DefaultClockFreq,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	// Some adapters cannot change speed; stay on their default then.
	_ = bus.SetSpeed(t.freq)
	return t, nil
}

// WriteTo implements rfiduino.Bus.
func (t *Transport) WriteTo(ctx context.Context, addr uint16, frame []byte) error {
	if t.bus == nil {
		return rfiduino.ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.bus.Tx(addr, frame, nil); err != nil {
		return &rfiduino.TransportError{Op: "write", Port: t.name, Err: err}
	}
	return nil
}

// ReadFrom implements rfiduino.Bus. The chips clock out their response
// frame directly; a module that is still working answers with zero bytes,
// which the engine interprets as "no data yet".
func (t *Transport) ReadFrom(ctx context.Context, addr uint16, maxLen int) ([]byte, error) {
	if t.bus == nil {
		return nil, rfiduino.ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, maxLen)
	if err := t.bus.Tx(addr, nil, buf); err != nil {
		return nil, &rfiduino.TransportError{Op: "read", Port: t.name, Err: err}
	}
	return buf, nil
}

// Close implements rfiduino.Bus.
func (t *Transport) Close() error {
	if t.bus == nil {
		return nil
	}
	err := t.bus.Close()
	t.bus = nil
	if err != nil {
		return fmt.Errorf("close I2C bus %q: %w", t.name, err)
	}
	return nil
}

// HardwareReset implements rfiduino.HardwareResetter when a RESET pin is
// wired: the line is pulsed high and released. Without the pin the method
// reports that hardware reset is unavailable; the engine then falls back to
// the software reset command.
func (t *Transport) HardwareReset(ctx context.Context) error {
	if t.reset == nil {
		return fmt.Errorf("reset: %w", rfiduino.ErrUnsupportedCommand)
	}
	if err := t.reset.Out(gpio.High); err != nil {
		return fmt.Errorf("raise reset pin: %w", err)
	}
	select {
	case <-time.After(resetPulse):
	case <-ctx.Done():
		_ = t.reset.Out(gpio.Low)
		return ctx.Err()
	}
	if err := t.reset.Out(gpio.Low); err != nil {
		return fmt.Errorf("release reset pin: %w", err)
	}
	return nil
}

// DataReady implements rfiduino.ReadySignaler when a DREADY pin is wired.
// Without the pin it reports ready so the engine falls back to bus polling.
func (t *Transport) DataReady() (bool, error) {
	if t.ready == nil {
		return true, nil
	}
	return t.ready.Read() == gpio.High, nil
}
