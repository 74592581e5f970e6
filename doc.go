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

// Package rfiduino drives StrongLink SL018/SL030 and SonMicro SM130 RFID
// reader modules over a shared byte-oriented bus.
//
// Both chip families speak the same half-duplex command/response protocol:
// the host writes a small length-prefixed frame, waits out the module's
// turnaround time, then polls for a length-prefixed response. The SM130
// additionally suffixes every frame with an eight-bit checksum. A Reader
// instance wraps one module, paces bus access, encodes commands, decodes
// and classifies responses, and tracks the derived tag state.
//
// The polling contract is cooperative: Receive never blocks waiting for the
// module, it either returns a decoded response or ErrNoData. Use Exchange
// for a simple blocking round trip, or poll Receive yourself when sharing a
// loop with other duties (for example a second reader on the same bus).
//
// Basic usage:
//
//	bus, err := i2c.Open("/dev/i2c-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reader, err := rfiduino.New(bus, rfiduino.VariantSM130)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := reader.Reset(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	session := rfiduino.NewTagSession(reader)
//	// seek, poll, read blocks...
//
// Transport backends live in the transport/ subpackages (I2C via periph.io,
// UART via go.bug.st/serial for the SM130's serial mode).
package rfiduino
