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

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rfiduino "github.com/marcboon/go-rfiduino"
	"github.com/marcboon/go-rfiduino/internal/busmock"
)

func TestParseVariant(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		want    rfiduino.Variant
		wantErr bool
	}{
		{name: "sl018", want: rfiduino.VariantSL018},
		{name: "SL018", want: rfiduino.VariantSL018},
		{name: "sl030", want: rfiduino.VariantSL018},
		{name: "sm130", want: rfiduino.VariantSM130},
		{name: "SM130", want: rfiduino.VariantSM130},
		{name: "rc522", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseVariant(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewBusEmptyPath(t *testing.T) {
	t.Parallel()
	_, err := newBus(&config{}, "")
	assert.Error(t, err)
}

func TestRunWriteMode(t *testing.T) {
	t.Parallel()

	bus := rfiduino.NewMockBus()
	reader, err := rfiduino.New(bus, rfiduino.VariantSL018,
		rfiduino.WithQuietWindow(0),
		rfiduino.WithTimeout(time.Second))
	require.NoError(t, err)

	// Seek answers immediately with an ultralight tag, then three page
	// writes ("hi" fills three pages of TLV) are acknowledged.
	bus.Queue(busmock.SL018Tag(rfiduino.CmdSL018Select,
		[]byte{0x04, 0xA1, 0x22, 0x5C, 0x9E, 0x00, 0x81}, rfiduino.TagSL018Ultralight))
	for i := 0; i < 3; i++ {
		bus.Queue(busmock.SL018Page(rfiduino.CmdSL018Write4, make([]byte, 4)))
	}

	cfg := &config{writeText: "hi"}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, runWriteMode(ctx, reader, cfg))

	// Three page writes went out, starting at the first user page.
	var pages []byte
	for _, w := range bus.Writes() {
		if len(w) > 2 && w[1] == rfiduino.CmdSL018Write4 {
			pages = append(pages, w[2])
		}
	}
	assert.Equal(t, []byte{4, 5, 6}, pages)
}
