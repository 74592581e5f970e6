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

package ndef

import (
	"errors"
	"strings"
)

// Well-known record types.
const (
	TextRecordType = "T"
	URIRecordType  = "U"
)

var (
	ErrNotText        = errors.New("ndef: not a text record")
	ErrBadTextPayload = errors.New("ndef: malformed text payload")
	ErrNotURI         = errors.New("ndef: not a URI record")
	ErrBadURIPayload  = errors.New("ndef: malformed URI payload")
)

const (
	textUTF16Flag = 0x80
	textLangMask  = 0x3F
)

// uriPrefixes is the NFC Forum URI RTD abbreviation table; the payload's
// first byte indexes into it.
var uriPrefixes = []string{
	"",
	"http://www.",
	"https://www.",
	"http://",
	"https://",
	"tel:",
	"mailto:",
	"ftp://anonymous:anonymous@",
	"ftp://ftp.",
	"ftps://",
	"sftp://",
	"smb://",
	"nfs://",
	"ftp://",
	"dav://",
	"news:",
	"telnet://",
	"imap:",
	"rtsp://",
	"urn:",
	"pop:",
	"sip:",
	"sips:",
	"tftp:",
	"btspp://",
	"btl2cap://",
	"btgoep://",
	"tcpobex://",
	"irdaobex://",
	"file://",
	"urn:epc:id:",
	"urn:epc:tag:",
	"urn:epc:pat:",
	"urn:epc:raw:",
	"urn:epc:",
	"urn:nfc:",
}

// NewTextRecord builds a UTF-8 text record. language is an IANA code such
// as "en"; empty defaults to "en", longer than the 6-bit field allows is
// truncated.
func NewTextRecord(text, language string) *Record {
	if language == "" {
		language = "en"
	}
	if len(language) > textLangMask {
		language = language[:textLangMask]
	}

	payload := make([]byte, 0, 1+len(language)+len(text))
	payload = append(payload, byte(len(language)))
	payload = append(payload, language...)
	payload = append(payload, text...)

	return &Record{TNF: TNFWellKnown, Type: TextRecordType, Payload: payload}
}

// Text extracts the text content of a text record.
func (r *Record) Text() (string, error) {
	if r.TNF != TNFWellKnown || r.Type != TextRecordType {
		return "", ErrNotText
	}
	if len(r.Payload) < 1 {
		return "", ErrBadTextPayload
	}
	langLen := int(r.Payload[0] & textLangMask)
	if len(r.Payload) < 1+langLen {
		return "", ErrBadTextPayload
	}
	if r.Payload[0]&textUTF16Flag != 0 {
		// UTF-16 text records are legal but nothing writes them anymore.
		return "", ErrBadTextPayload
	}
	return string(r.Payload[1+langLen:]), nil
}

// NewURIRecord builds a URI record, abbreviating the URI with the longest
// matching prefix from the RTD table.
func NewURIRecord(uri string) *Record {
	code := byte(0)
	rest := uri
	best := 0
	for i, prefix := range uriPrefixes[1:] {
		if len(prefix) > best && strings.HasPrefix(uri, prefix) {
			best = len(prefix)
			code = byte(i + 1)
			rest = uri[len(prefix):]
		}
	}

	payload := make([]byte, 0, 1+len(rest))
	payload = append(payload, code)
	payload = append(payload, rest...)
	return &Record{TNF: TNFWellKnown, Type: URIRecordType, Payload: payload}
}

// URI expands a URI record back to the full URI.
func (r *Record) URI() (string, error) {
	if r.TNF != TNFWellKnown || r.Type != URIRecordType {
		return "", ErrNotURI
	}
	if len(r.Payload) < 1 {
		return "", ErrBadURIPayload
	}
	code := int(r.Payload[0])
	if code >= len(uriPrefixes) {
		return "", ErrBadURIPayload
	}
	return uriPrefixes[code] + string(r.Payload[1:]), nil
}
