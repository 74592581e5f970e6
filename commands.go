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

// SL018 command codes. CmdSL018Seek never appears on the wire: the SL018 has
// no native continuous-seek mode, so seeking is emulated by repeatedly
// issuing CmdSL018Select while the engine remembers the seek intent.
const (
	CmdSL018Idle       byte = 0x00
	CmdSL018Select     byte = 0x01
	CmdSL018Login      byte = 0x02
	CmdSL018Read16     byte = 0x03
	CmdSL018Write16    byte = 0x04
	CmdSL018ReadValue  byte = 0x05
	CmdSL018WriteValue byte = 0x06
	CmdSL018WriteKey   byte = 0x07
	CmdSL018IncValue   byte = 0x08
	CmdSL018DecValue   byte = 0x09
	CmdSL018CopyValue  byte = 0x0A
	CmdSL018Read4      byte = 0x10
	CmdSL018Write4     byte = 0x11
	CmdSL018Seek       byte = 0x20
	CmdSL018SetLED     byte = 0x40
	CmdSL018Sleep      byte = 0x50
	CmdSL018Reset      byte = 0xFF
)

// SM130 command codes.
const (
	CmdSM130Reset        byte = 0x80
	CmdSM130Version      byte = 0x81
	CmdSM130SeekTag      byte = 0x82
	CmdSM130SelectTag    byte = 0x83
	CmdSM130Authenticate byte = 0x85
	CmdSM130Read16       byte = 0x86
	CmdSM130ReadValue    byte = 0x87
	CmdSM130Write16      byte = 0x89
	CmdSM130WriteValue   byte = 0x8A
	CmdSM130Write4       byte = 0x8B
	CmdSM130WriteKey     byte = 0x8C
	CmdSM130IncValue     byte = 0x8D
	CmdSM130DecValue     byte = 0x8E
	CmdSM130AntennaPower byte = 0x90
	CmdSM130ReadPort     byte = 0x91
	CmdSM130WritePort    byte = 0x92
	CmdSM130HaltTag      byte = 0x93
	CmdSM130SetBaud      byte = 0x94
	CmdSM130Sleep        byte = 0x96
)

// SL018 status codes, returned as the first payload byte of every response.
const (
	SL018StatusOK        byte = 0x00
	SL018StatusNoTag     byte = 0x01
	SL018StatusLoginOK   byte = 0x02
	SL018StatusLoginFail byte = 0x03
	SL018StatusReadFail  byte = 0x04
	SL018StatusWriteFail byte = 0x05
	SL018StatusVerify    byte = 0x06
	SL018StatusCollision byte = 0x0A
	SL018StatusKeyFail   byte = 0x0C
	SL018StatusNoLogin   byte = 0x0D
	SL018StatusNoValue   byte = 0x0E
)

// SM130 status codes. The SM130 reports errors as ASCII characters in
// short (length < 3) responses; a full-length response means success.
const (
	SM130StatusSeeking   byte = 'L'
	SM130StatusNoTag     byte = 'N'
	SM130StatusAccess    byte = 'U'
	SM130StatusFail      byte = 'F'
	SM130StatusInvalid   byte = 'I'
	SM130StatusProtected byte = 'X'
	SM130StatusKeyFormat byte = 'E'
)

// MIFARE key selectors for Authenticate and the stored-key login forms.
const (
	KeyTypeA byte = 0xAA
	KeyTypeB byte = 0xBB
)

// transportKey is the MIFARE transport key (factory default), used when no
// explicit key is supplied.
var transportKey = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// keySize is the length of a MIFARE sector key in bytes.
const keySize = 6

// blockSize and pageSize are the data unit sizes for classic and
// ultralight-class tags.
const (
	blockSize = 16
	pageSize  = 4
)

// blocksPerSector is the MIFARE Classic sector granularity: every 4th block
// starts a new sector and requires a fresh authentication.
const blocksPerSector = 4
