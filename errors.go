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
	"errors"
	"fmt"
)

// Protocol errors.
var (
	// ErrNoData indicates the module has not produced a response yet. This
	// is the normal polling outcome, not a failure; callers re-poll.
	ErrNoData = errors.New("no response available")

	// ErrChecksumMismatch indicates an SM130 response failed checksum
	// verification. The payload must not be trusted; the transaction should
	// be treated as dropped and may be retried.
	ErrChecksumMismatch = errors.New("response checksum mismatch")

	// ErrFrameCorrupted indicates a structurally invalid response (length
	// byte claims more data than was read).
	ErrFrameCorrupted = errors.New("response frame corrupted")

	// ErrUnexpectedResponse indicates the echoed command code does not
	// match the issued command. This happens when a command is abandoned
	// and its late response arrives after a new command was issued; the
	// response is discarded.
	ErrUnexpectedResponse = errors.New("response does not match issued command")

	// ErrUnsupportedCommand indicates the command does not exist on the
	// reader variant in use (for example LED control on the SM130).
	ErrUnsupportedCommand = errors.New("command not supported by this variant")

	// ErrNoRequest indicates Receive was called without a pending request
	// token.
	ErrNoRequest = errors.New("no request pending")
)

// Transport errors.
var (
	ErrTransportWrite  = errors.New("transport write failed")
	ErrTransportRead   = errors.New("transport read failed")
	ErrTransportClosed = errors.New("transport is closed")
)

// TransportError wraps bus-level failures with operation context.
type TransportError struct {
	Err  error
	Op   string
	Port string
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ChecksumError reports a failed SM130 checksum verification. The raw
// response length is preserved so callers can log the dropped transaction,
// but no derived fields are populated.
type ChecksumError struct {
	Length int
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("response checksum mismatch (length %d)", e.Length)
}

func (*ChecksumError) Unwrap() error {
	return ErrChecksumMismatch
}

// StatusError is a device-reported status code other than success. It never
// indicates an engine fault; callers recover according to the command that
// failed (re-authenticate, abort a multi-block operation, re-seek).
type StatusError struct {
	Variant Variant
	Command byte
	Code    byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s command 0x%02X: %s (status 0x%02X)",
		e.Variant, e.Command, e.Message(), e.Code)
}

// Message returns the human-readable meaning of the status code. The
// mappings are chip-specific and, on the SM130, depend on which command was
// issued.
func (e *StatusError) Message() string {
	if e.Variant == VariantSM130 {
		return sm130StatusMessage(e.Command, e.Code)
	}
	return sl018StatusMessage(e.Code)
}

// IsNoTag reports whether the status means no tag was in the field.
func (e *StatusError) IsNoTag() bool {
	if e.Variant == VariantSM130 {
		return e.Code == SM130StatusNoTag
	}
	return e.Code == SL018StatusNoTag
}

// IsAuthFailure reports whether the status means a login/authenticate
// command was rejected.
func (e *StatusError) IsAuthFailure() bool {
	if e.Variant == VariantSM130 {
		return e.Command == CmdSM130Authenticate &&
			(e.Code == SM130StatusNoTag || e.Code == SM130StatusAccess)
	}
	return e.Code == SL018StatusLoginFail || e.Code == 0x10
}

func sl018StatusMessage(code byte) string {
	switch code {
	case SL018StatusOK:
		return "OK"
	case SL018StatusNoTag:
		return "No tag present"
	case SL018StatusLoginOK:
		return "Login OK"
	case SL018StatusLoginFail, 0x10:
		return "Login failed"
	case SL018StatusReadFail:
		return "Read failed"
	case SL018StatusWriteFail:
		return "Write failed"
	case SL018StatusVerify:
		return "Unable to read after write"
	case SL018StatusCollision:
		return "Collision detected"
	case SL018StatusKeyFail:
		return "Load key failed"
	case SL018StatusNoLogin:
		return "Not authenticated"
	case SL018StatusNoValue:
		return "Not a value block"
	default:
		return "Unknown error"
	}
}

func sm130StatusMessage(cmd, code byte) string {
	switch code {
	case SM130StatusSeeking:
		if cmd == CmdSM130SeekTag {
			return "Seek in progress"
		}
		// The chip only reports 'L' for seek; anything else is treated as
		// success, matching firmware behavior.
		return "OK"
	case 0:
		return "OK"
	case SM130StatusNoTag:
		switch cmd {
		case CmdSM130WriteKey:
			return "Write master key failed"
		case CmdSM130SetBaud:
			return "Set baud rate failed"
		case CmdSM130Authenticate:
			return "No tag present or login failed"
		default:
			return "No tag present"
		}
	case SM130StatusAccess:
		switch cmd {
		case CmdSM130Authenticate:
			return "Authentication failed"
		case CmdSM130Write16, CmdSM130Write4:
			return "Verification failed"
		default:
			return "Antenna off"
		}
	case SM130StatusFail:
		if cmd == CmdSM130Read16 {
			return "Read failed"
		}
		return "Write failed"
	case SM130StatusInvalid:
		return "Invalid value block"
	case SM130StatusProtected:
		return "Block is read-protected"
	case SM130StatusKeyFormat:
		return "Invalid key format in EEPROM"
	default:
		return "Unknown error"
	}
}

// IsNoTag reports whether err is a device status meaning no tag is present.
func IsNoTag(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.IsNoTag()
}

// IsRetryable reports whether the failed exchange may be retried as-is:
// dropped or corrupted frames, and the no-data polling outcome.
func IsRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrNoData),
		errors.Is(err, ErrChecksumMismatch),
		errors.Is(err, ErrFrameCorrupted),
		errors.Is(err, ErrUnexpectedResponse):
		return true
	default:
		return false
	}
}
