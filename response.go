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

	"github.com/marcboon/go-rfiduino/internal/frame"
)

// Response is a classified reply to a previously issued command.
type Response struct {
	// Tag is the tag record extracted from a successful seek/select
	// response, nil otherwise.
	Tag *Tag

	// Firmware is the cached firmware version string, set on SM130
	// reset/version responses.
	Firmware string

	// Raw is the complete frame including length byte (and checksum on the
	// SM130).
	Raw []byte

	// Payload is the frame content after the echoed command byte.
	Payload []byte

	// Command is the logical command this response answers.
	Command byte

	// Status is the device status byte, zero on success.
	Status byte
}

// Data returns the payload after the leading bookkeeping byte (status on
// the SL018, block number on the SM130): the block or page contents for
// read commands.
func (resp *Response) Data() []byte {
	if len(resp.Payload) < 2 {
		return nil
	}
	return resp.Payload[1:]
}

// Receive polls for the response to req. It returns ErrNoData while the
// module is still working, which is the normal outcome between polls and
// never a failure. A response whose echoed command does not match the token
// belongs to an abandoned command and is discarded with
// ErrUnexpectedResponse.
func (r *Reader) Receive(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNoRequest
	}
	if req.MaxResponse == 0 {
		// SL018 idle/reset produce no response packet at all.
		return nil, ErrNoData
	}

	// In seek mode a wired DREADY pin saves the bus read while the module
	// is still searching the field.
	if r.isSeek(req.Command) {
		if rs, ok := r.bus.(ReadySignaler); ok {
			if ready, err := rs.DataReady(); err == nil && !ready {
				return nil, ErrNoData
			}
		}
	}

	if err := r.pace(ctx); err != nil {
		return nil, err
	}
	raw, rerr := r.bus.ReadFrom(ctx, r.address, req.MaxResponse)
	r.endTransaction()
	if rerr != nil {
		return nil, &TransportError{Op: "read", Err: rerr}
	}

	fr, err := frame.Parse(raw, r.variant.Checksummed())
	switch {
	case errors.Is(err, frame.ErrNoData):
		return nil, ErrNoData
	case errors.Is(err, frame.ErrTruncated):
		return nil, fmt.Errorf("%w: %s", ErrFrameCorrupted, HexBytes(raw))
	case errors.Is(err, frame.ErrChecksum):
		r.dumpFrame("< ", fr.Raw)
		return nil, &ChecksumError{Length: fr.Length}
	case err != nil:
		return nil, err
	}
	r.dumpFrame("< ", fr.Raw)

	if want := r.variant.wireCommand(req.Command); fr.Command != want {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X",
			ErrUnexpectedResponse, fr.Command, want)
	}

	return r.classify(ctx, req, fr)
}

// isSeek reports whether cmd is the variant's seek command.
func (r *Reader) isSeek(cmd byte) bool {
	if r.variant == VariantSM130 {
		return cmd == CmdSM130SeekTag
	}
	return cmd == CmdSL018Seek
}

// status extracts the device status byte from a structurally valid frame.
// The SL018 reports status as the first payload byte of every response; the
// SM130 signals errors with short packets only, a full-length response is
// success.
func (r *Reader) status(fr *frame.Response) byte {
	if r.variant == VariantSM130 {
		if fr.Length < 3 && len(fr.Payload) > 0 {
			return fr.Payload[0]
		}
		return 0
	}
	if len(fr.Payload) > 0 {
		return fr.Payload[0]
	}
	return 0
}

// classify interprets a decoded frame according to the command that
// produced it and updates the reader's derived state.
func (r *Reader) classify(ctx context.Context, req *Request, fr *frame.Response) (*Response, error) {
	status := r.status(fr)
	resp := &Response{
		Command: req.Command,
		Status:  status,
		Payload: fr.Payload,
		Raw:     fr.Raw,
	}

	// Every classified response supersedes the previous tag record.
	r.tag = nil

	switch {
	case r.isSeek(req.Command) || r.isSelect(req.Command):
		return r.classifyTag(ctx, req, fr, resp)

	case r.variant == VariantSM130 &&
		(req.Command == CmdSM130Version || req.Command == CmdSM130Reset):
		return r.classifyFirmware(fr, resp), nil

	case r.variant == VariantSM130 && req.Command == CmdSM130AntennaPower:
		// Antenna acknowledgements never carry an error; the payload byte
		// is the new power level.
		resp.Status = 0
		if len(fr.Payload) > 0 {
			r.antennaOn = fr.Payload[0] != 0
		}
		return resp, nil

	case r.isSleep(req.Command):
		// Sleep responses carry nothing usable and the module is now
		// unreachable until hardware reset.
		return nil, ErrNoData
	}

	if !r.isSuccess(req.Command, status) {
		return nil, &StatusError{Variant: r.variant, Command: req.Command, Code: status}
	}
	return resp, nil
}

func (r *Reader) isSelect(cmd byte) bool {
	if r.variant == VariantSM130 {
		return cmd == CmdSM130SelectTag
	}
	return cmd == CmdSL018Select
}

func (r *Reader) isSleep(cmd byte) bool {
	if r.variant == VariantSM130 {
		return cmd == CmdSM130Sleep
	}
	return cmd == CmdSL018Sleep
}

// isSuccess maps a status byte to command success. Both chips acknowledge
// a successful login with a non-zero code: the SL018 with its dedicated
// status, the SM130 with 'L' (outside seek mode 'L' always means login OK).
func (r *Reader) isSuccess(cmd, status byte) bool {
	if status == 0 {
		return true
	}
	if r.variant == VariantSM130 {
		return status == SM130StatusSeeking
	}
	return cmd == CmdSL018Login && status == SL018StatusLoginOK
}

// classifyTag handles seek/select responses: tag extraction on success,
// seek continuation on "no tag yet".
func (r *Reader) classifyTag(
	ctx context.Context, req *Request, fr *frame.Response, resp *Response,
) (*Response, error) {
	if r.variant == VariantSM130 {
		if resp.Status == SM130StatusSeeking && r.isSeek(req.Command) {
			// The chip keeps seeking in hardware; nothing to re-issue.
			return nil, ErrNoData
		}
		if resp.Status == 0 && fr.Length >= r.variant.minTagRecord() {
			// [len][cmd][type][uid...]; uid length derives from the frame.
			uidLen := fr.Length - 2
			tag := &Tag{
				Kind: fr.Payload[0],
				UID:  append([]byte(nil), fr.Payload[1:1+uidLen]...),
			}
			tag.Name = r.variant.TagName(tag.Kind)
			r.tag = tag
			resp.Tag = tag
			return resp, nil
		}
		return nil, &StatusError{Variant: r.variant, Command: req.Command, Code: resp.Status}
	}

	// SL018: [len][cmd][status][uid...][type]; type trails the uid.
	if resp.Status == SL018StatusOK && fr.Length >= r.variant.minTagRecord() {
		uidLen := fr.Length - 3
		tag := &Tag{
			Kind: fr.Payload[1+uidLen],
			UID:  append([]byte(nil), fr.Payload[1:1+uidLen]...),
		}
		tag.Name = r.variant.TagName(tag.Kind)
		r.tag = tag
		resp.Tag = tag
		return resp, nil
	}
	if resp.Status == SL018StatusNoTag && r.isSeek(req.Command) {
		// Seek continuation: re-issue the select and keep reporting "not
		// yet". The caller's original request token stays valid.
		if _, err := r.Send(ctx, CmdSL018Seek); err != nil {
			return nil, err
		}
		return nil, ErrNoData
	}
	return nil, &StatusError{Variant: r.variant, Command: req.Command, Code: resp.Status}
}

// classifyFirmware copies the version payload of an SM130 reset/version
// response into the firmware cache, bounded to the chip's short version
// string.
func (r *Reader) classifyFirmware(fr *frame.Response, resp *Response) *Response {
	// The version string is at most 7 characters; the bound matches the
	// original fixed-size cache.
	n := fr.Length
	if n > 8 {
		n = 8
	}
	n--
	if n > len(fr.Payload) {
		n = len(fr.Payload)
	}
	if n > 0 {
		r.firmware = string(fr.Payload[:n])
	}
	resp.Status = 0
	resp.Firmware = r.firmware
	return resp
}
