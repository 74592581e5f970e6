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

// Command reader monitors an SL018/SL030 or SM130 module for tags and
// prints what it sees. With -write it instead waits for one tag, stores a
// text record on it, and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	rfiduino "github.com/marcboon/go-rfiduino"
	"github.com/marcboon/go-rfiduino/detection"
	"github.com/marcboon/go-rfiduino/polling"
	"github.com/marcboon/go-rfiduino/tagops"
	"github.com/marcboon/go-rfiduino/transport/i2c"
	"github.com/marcboon/go-rfiduino/transport/uart"
)

type config struct {
	variant    string
	devicePath string
	writeText  string
	resetPin   string
	address    uint
	baudRate   int
	debug      bool
}

var (
	flagVariant    string
	flagDevicePath string
	flagWriteText  string
	flagResetPin   string
	flagAddress    uint
	flagBaudRate   int
	flagDebug      bool
)

func init() {
	flag.StringVar(&flagVariant, "variant", "sl018", "Module variant: sl018 (also SL030) or sm130")
	flag.StringVar(&flagDevicePath, "device", "", "Device path (auto-detect if empty)")
	flag.StringVar(&flagWriteText, "write", "", "Text to write to the next scanned tag (exits after write)")
	flag.StringVar(&flagResetPin, "reset-pin", "", "GPIO pin wired to the module's reset line (I2C only)")
	flag.UintVar(&flagAddress, "addr", 0, "I2C address override (0 uses the variant default)")
	flag.IntVar(&flagBaudRate, "baud", uart.DefaultBaudRate, "Serial baud rate (UART only)")
	flag.BoolVar(&flagDebug, "debug", false, "Enable frame-level debug output")
}

func parseConfig() *config {
	cfg := &config{
		variant:    flagVariant,
		devicePath: flagDevicePath,
		writeText:  flagWriteText,
		resetPin:   flagResetPin,
		address:    flagAddress,
		baudRate:   flagBaudRate,
		debug:      flagDebug,
	}
	if cfg.debug {
		rfiduino.SetDebugEnabled(true)
	}
	return cfg
}

func parseVariant(name string) (rfiduino.Variant, error) {
	switch strings.ToLower(name) {
	case "sl018", "sl030":
		return rfiduino.VariantSL018, nil
	case "sm130":
		return rfiduino.VariantSM130, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want sl018 or sm130)", name)
	}
}

// newBus opens the transport for a device path, picking I2C or UART from
// the path itself.
func newBus(cfg *config, path string) (rfiduino.Bus, error) {
	if path == "" {
		return nil, errors.New("empty device path")
	}
	if strings.Contains(strings.ToLower(path), "i2c") {
		var opts []i2c.Option
		if cfg.resetPin != "" {
			opts = append(opts, i2c.WithResetPin(cfg.resetPin))
		}
		bus, err := i2c.Open(path, opts...)
		if err != nil {
			return nil, fmt.Errorf("open I2C bus %s: %w", path, err)
		}
		return bus, nil
	}
	bus, err := uart.Open(path, uart.WithBaudRate(cfg.baudRate))
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return bus, nil
}

// resolveDevice picks the device path to use, enumerating candidate buses
// when none was given.
func resolveDevice(ctx context.Context, cfg *config) (string, error) {
	if cfg.devicePath != "" {
		return cfg.devicePath, nil
	}
	devices, err := detection.Detect(ctx)
	if err != nil {
		return "", fmt.Errorf("detect devices: %w", err)
	}
	if len(devices) == 0 {
		return "", errors.New("no candidate devices found; pass -device")
	}
	if cfg.debug {
		for _, d := range devices {
			fmt.Printf("candidate: %s\n", d)
		}
	}
	return devices[0].Path, nil
}

func connect(ctx context.Context, cfg *config) (*rfiduino.Reader, rfiduino.Bus, error) {
	variant, err := parseVariant(cfg.variant)
	if err != nil {
		return nil, nil, err
	}
	path, err := resolveDevice(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	bus, err := newBus(cfg, path)
	if err != nil {
		return nil, nil, err
	}

	var opts []rfiduino.Option
	if cfg.address != 0 {
		opts = append(opts, rfiduino.WithAddress(uint16(cfg.address)))
	}
	reader, err := rfiduino.New(bus, variant, opts...)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	if err := reader.Reset(ctx); err != nil {
		_ = bus.Close()
		return nil, nil, fmt.Errorf("reset module: %w", err)
	}

	if cfg.debug && variant == rfiduino.VariantSM130 {
		if version, err := reader.FirmwareVersion(ctx); err == nil {
			fmt.Printf("SM130 firmware: %s\n", version)
		}
	}
	return reader, bus, nil
}

func runReadMode(ctx context.Context, reader *rfiduino.Reader, cfg *config) error {
	session := rfiduino.NewTagSession(reader)
	monitor := polling.NewMonitor(session, polling.DefaultConfig(), polling.Callbacks{
		OnTagDetected: func(s *rfiduino.TagSession, tag *rfiduino.Tag) error {
			fmt.Printf("Tag detected: UID=%s Type=%s\n",
				tag.UIDString(), reader.Variant().TagName(tag.Kind))
			if tag.Ultralight(reader.Variant()) {
				ops := tagops.New(s)
				if text, err := ops.ReadText(ctx); err == nil {
					fmt.Printf("  Text: %q\n", text)
				}
			}
			return nil
		},
		OnTagRemoved: func() {
			fmt.Println("Tag removed")
		},
	})

	fmt.Println("Monitoring for tags. Press Ctrl+C to stop...")
	if err := monitor.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	monitor.Stop()

	if cfg.debug {
		m := monitor.Metrics()
		fmt.Printf("polls=%d tags=%d errors=%d\n", m.PollCycles, m.TagsDetected, m.Errors)
	}
	return nil
}

func runWriteMode(ctx context.Context, reader *rfiduino.Reader, cfg *config) error {
	session := rfiduino.NewTagSession(reader)
	ops := tagops.New(session)

	fmt.Println("Present a tag to write...")
	if err := session.Seek(ctx); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	var tag *rfiduino.Tag
	for tag == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
		var err error
		tag, err = session.Poll(ctx)
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
	}
	fmt.Printf("Tag detected: UID=%s Type=%s\n",
		tag.UIDString(), reader.Variant().TagName(tag.Kind))

	if err := ops.WriteText(ctx, cfg.writeText, "en"); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	fmt.Println("Write complete")
	return session.Halt(ctx)
}

func run() error {
	flag.Parse()
	cfg := parseConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, bus, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close transport: %v\n", err)
		}
	}()

	if cfg.writeText != "" {
		return runWriteMode(ctx, reader, cfg)
	}
	return runReadMode(ctx, reader, cfg)
}

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
