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
	"time"

	"github.com/marcboon/go-rfiduino/internal/frame"
)

// ErrTimeout indicates a blocking exchange gave up waiting for a response.
var ErrTimeout = errors.New("operation timeout")

// DefaultQuietWindow is the minimum interval between bus transactions.
// The modules need this much turnaround time after every exchange; touching
// the bus earlier produces garbage reads.
const DefaultQuietWindow = 20 * time.Millisecond

// DefaultTimeout bounds blocking exchanges (Exchange, Await).
const DefaultTimeout = 1 * time.Second

// resetSettle is how long the module needs after a reset before it accepts
// commands.
const resetSettle = 200 * time.Millisecond

// Clock abstracts the monotonic time source used by the transaction gate.
// Production readers use the wall clock; tests inject a fake.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Request is the token returned by Send. It binds the issued command to the
// expected maximum response length, and must be passed to Receive so the
// response is interpreted with the right command semantics. Issuing a new
// command simply supersedes an outstanding token; a late response to the
// abandoned command is rejected by its echoed command code.
type Request struct {
	Command     byte
	MaxResponse int
}

// Reader drives one SL018 or SM130 module on a Bus.
//
// Reader is not thread-safe: all methods must be called from a single
// goroutine or be externally synchronized. Two Readers may share one Bus at
// distinct addresses, but the caller must never issue a command on one while
// awaiting a response on the other.
type Reader struct {
	nextTxn   time.Time
	bus       Bus
	clock     Clock
	tag       *Tag
	firmware  string
	quiet     time.Duration
	timeout   time.Duration
	variant   Variant
	address   uint16
	antennaOn bool
	debug     bool
}

// New creates a Reader for the given bus and chip family.
func New(bus Bus, variant Variant, opts ...Option) (*Reader, error) {
	r := &Reader{
		bus:     bus,
		variant: variant,
		address: variant.DefaultAddress(),
		clock:   wallClock{},
		quiet:   DefaultQuietWindow,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Variant returns the chip family this reader drives.
func (r *Reader) Variant() Variant { return r.variant }

// Address returns the bus address in use.
func (r *Reader) Address() uint16 { return r.address }

// LastTag returns the tag extracted from the most recent successful
// seek/select response, or nil. It is cleared on every classified response
// that does not carry a tag record, and on reset.
func (r *Reader) LastTag() *Tag { return r.tag }

// AntennaPowered reports the RF field state as last acknowledged by the
// SM130. Always false for the SL018, which has no antenna command.
func (r *Reader) AntennaPowered() bool { return r.antennaOn }

// quietRemaining returns how long the caller must still wait before the bus
// may be used. Zero or negative means the bus is free. Exposing the duration
// instead of spinning lets the engine sleep under context control.
func (r *Reader) quietRemaining() time.Duration {
	if r.nextTxn.IsZero() {
		return 0
	}
	return r.nextTxn.Sub(r.clock.Now())
}

func (r *Reader) pace(ctx context.Context) error {
	if d := r.quietRemaining(); d > 0 {
		return r.clock.Sleep(ctx, d)
	}
	return nil
}

func (r *Reader) endTransaction() {
	r.nextTxn = r.clock.Now().Add(r.quiet)
}

// Send encodes and writes a command frame, returning the request token for
// the subsequent Receive. The write is paced by the transaction gate.
func (r *Reader) Send(ctx context.Context, cmd byte, params ...byte) (*Request, error) {
	buf, err := frame.Build(r.variant.wireCommand(cmd), params, r.variant.Checksummed())
	if err != nil {
		return nil, err
	}
	if len(buf) > r.variant.MaxFrame() {
		return nil, frame.ErrTooManyParams
	}

	if err := r.pace(ctx); err != nil {
		return nil, err
	}
	werr := r.bus.WriteTo(ctx, r.address, buf)
	r.endTransaction()
	if werr != nil {
		return nil, &TransportError{Op: "write", Err: werr}
	}
	r.dumpFrame("> ", buf)

	return &Request{Command: cmd, MaxResponse: r.variant.ResponseLength(cmd)}, nil
}

// Exchange sends a command and blocks polling for its response, bounded by
// the reader timeout. The polling itself stays cooperative: each iteration
// waits out the transaction gate and tries one bus read.
func (r *Reader) Exchange(ctx context.Context, cmd byte, params ...byte) (*Response, error) {
	req, err := r.Send(ctx, cmd, params...)
	if err != nil {
		return nil, err
	}
	return r.Await(ctx, req)
}

// Await polls Receive until a response, a non-transient error, or the reader
// timeout.
func (r *Reader) Await(ctx context.Context, req *Request) (*Response, error) {
	deadline := r.clock.Now().Add(r.timeout)
	for {
		resp, err := r.Receive(ctx, req)
		if !errors.Is(err, ErrNoData) {
			return resp, err
		}
		if r.clock.Now().After(deadline) {
			return nil, fmt.Errorf("%w: command 0x%02X", ErrTimeout, req.Command)
		}
	}
}

// SelectTag asks the module to select a single tag in the field.
func (r *Reader) SelectTag(ctx context.Context) (*Request, error) {
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130SelectTag)
	}
	return r.Send(ctx, CmdSL018Select)
}

// SeekTag puts the module in seek mode: it keeps looking for a tag until
// one enters the field or the tag is halted. The SM130 seeks in hardware;
// for the SL018 the engine emulates seeking by re-issuing select on every
// "no tag" poll.
func (r *Reader) SeekTag(ctx context.Context) (*Request, error) {
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130SeekTag)
	}
	return r.Send(ctx, CmdSL018Seek)
}

// Authenticate logs in to the sector containing block using the MIFARE
// transport key.
func (r *Reader) Authenticate(ctx context.Context, block byte) (*Request, error) {
	target := r.variant.authTarget(block)
	if r.variant == VariantSM130 {
		// 0xFF selects the transport key on the SM130.
		return r.Send(ctx, CmdSM130Authenticate, target, 0xFF)
	}
	params := append([]byte{target, KeyTypeA}, transportKey...)
	return r.Send(ctx, CmdSL018Login, params...)
}

// AuthenticateKey logs in to the sector containing block with an explicit
// key. keyType is KeyTypeA or KeyTypeB; key must be 6 bytes.
func (r *Reader) AuthenticateKey(ctx context.Context, block, keyType byte, key []byte) (*Request, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keySize, len(key))
	}
	target := r.variant.authTarget(block)
	params := append([]byte{target, keyType}, key...)
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130Authenticate, params...)
	}
	return r.Send(ctx, CmdSL018Login, params...)
}

// ReadBlock reads a 16-byte block.
func (r *Reader) ReadBlock(ctx context.Context, block byte) (*Request, error) {
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130Read16, block)
	}
	return r.Send(ctx, CmdSL018Read16, block)
}

// WriteBlock writes a 16-byte block. Shorter data is zero-padded; longer
// data is truncated to the block size.
func (r *Reader) WriteBlock(ctx context.Context, block byte, data []byte) (*Request, error) {
	params := make([]byte, 1+blockSize)
	params[0] = block
	copy(params[1:], data)
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130Write16, params...)
	}
	return r.Send(ctx, CmdSL018Write16, params...)
}

// ReadPage reads a 4-byte ultralight page. The SM130 has no dedicated page
// read; ultralight tags are read there with ReadBlock.
func (r *Reader) ReadPage(ctx context.Context, page byte) (*Request, error) {
	if r.variant == VariantSM130 {
		return nil, fmt.Errorf("read page: %w", ErrUnsupportedCommand)
	}
	return r.Send(ctx, CmdSL018Read4, page)
}

// WritePage writes a 4-byte ultralight page. Shorter data is zero-padded.
func (r *Reader) WritePage(ctx context.Context, page byte, data []byte) (*Request, error) {
	params := make([]byte, 1+pageSize)
	params[0] = page
	copy(params[1:], data)
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130Write4, params...)
	}
	return r.Send(ctx, CmdSL018Write4, params...)
}

// WriteMasterKey stores a new key A for a sector (SL018 only; the SM130
// driver does not expose stored-key management).
func (r *Reader) WriteMasterKey(ctx context.Context, sector byte, key []byte) (*Request, error) {
	if r.variant == VariantSM130 {
		return nil, fmt.Errorf("write master key: %w", ErrUnsupportedCommand)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keySize, len(key))
	}
	params := append([]byte{sector}, key...)
	return r.Send(ctx, CmdSL018WriteKey, params...)
}

// SetAntennaPower switches the RF field on or off (SM130 only).
func (r *Reader) SetAntennaPower(ctx context.Context, on bool) (*Request, error) {
	if r.variant != VariantSM130 {
		return nil, fmt.Errorf("antenna power: %w", ErrUnsupportedCommand)
	}
	level := byte(0)
	if on {
		level = 1
	}
	return r.Send(ctx, CmdSM130AntennaPower, level)
}

// SetLED controls the red LED (SL018 only; not present on SL030).
func (r *Reader) SetLED(ctx context.Context, on bool) (*Request, error) {
	if r.variant != VariantSL018 {
		return nil, fmt.Errorf("LED: %w", ErrUnsupportedCommand)
	}
	level := byte(0)
	if on {
		level = 1
	}
	return r.Send(ctx, CmdSL018SetLED, level)
}

// HaltTag takes the selected tag out of the field and ends seek mode. The
// SM130 has a wire command for this; on the SL018 halting is purely local
// (the emulated seek just stops re-issuing select), so the returned request
// is nil and there is nothing to receive.
func (r *Reader) HaltTag(ctx context.Context) (*Request, error) {
	r.tag = nil
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130HaltTag)
	}
	return nil, nil
}

// Sleep puts the module in low-power mode. Only a hardware reset wakes it
// up again; every subsequent Receive reports ErrNoData.
func (r *Reader) Sleep(ctx context.Context) (*Request, error) {
	if r.variant == VariantSM130 {
		return r.Send(ctx, CmdSM130Sleep)
	}
	return r.Send(ctx, CmdSL018Sleep)
}

// Reset restarts the module, preferring the transport's hardware reset line
// when wired, and clears the derived session state. For the SM130 it then
// re-enables the antenna and halts the automatic seek mode the chip enters
// after reset, mirroring the recommended bring-up sequence.
func (r *Reader) Reset(ctx context.Context) error {
	hw := false
	if hr, ok := r.bus.(HardwareResetter); ok {
		switch err := hr.HardwareReset(ctx); {
		case err == nil:
			hw = true
		case errors.Is(err, ErrUnsupportedCommand):
			// No reset line wired; fall back to the software command.
		default:
			return fmt.Errorf("hardware reset: %w", err)
		}
	}
	if !hw {
		cmd := CmdSL018Reset
		if r.variant == VariantSM130 {
			cmd = CmdSM130Reset
		}
		if _, err := r.Send(ctx, cmd); err != nil {
			return err
		}
	}

	if err := r.clock.Sleep(ctx, resetSettle); err != nil {
		return err
	}

	r.tag = nil
	r.antennaOn = false
	r.nextTxn = time.Time{}

	if r.variant == VariantSM130 {
		// Best effort: the original bring-up fires these without checking.
		if _, err := r.Exchange(ctx, CmdSM130AntennaPower, 1); err != nil && !IsRetryable(err) {
			if !errors.Is(err, ErrTimeout) {
				return err
			}
		}
		if _, err := r.Exchange(ctx, CmdSM130HaltTag); err != nil && !IsRetryable(err) {
			if !errors.Is(err, ErrTimeout) {
				return err
			}
		}
	}
	return nil
}

// FirmwareVersion fetches the SM130 firmware version string, caching it
// after the first successful read. The module occasionally ignores the
// version command right after power-up, so a few attempts are made.
func (r *Reader) FirmwareVersion(ctx context.Context) (string, error) {
	if r.variant != VariantSM130 {
		return "", fmt.Errorf("firmware version: %w", ErrUnsupportedCommand)
	}
	if r.firmware != "" {
		return r.firmware, nil
	}

	var lastErr error
	for i := 0; i < 10; i++ {
		resp, err := r.Exchange(ctx, CmdSM130Version)
		if err == nil && resp.Firmware != "" {
			return resp.Firmware, nil
		}
		if err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
		}
	}
	if lastErr == nil {
		lastErr = ErrTimeout
	}
	return "", fmt.Errorf("firmware version: %w", lastErr)
}
