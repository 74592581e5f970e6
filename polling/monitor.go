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

// Package polling runs a tag session in the background: it keeps the
// reader seeking, reports tags as they arrive and leave, and hands the
// session to callbacks for block access while a tag is present.
package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marcboon/go-rfiduino"
)

// Callbacks are invoked from the monitor goroutine. The session passed to
// OnTagDetected is safe to use for block access for the duration of the
// call; it must not be retained.
type Callbacks struct {
	// OnTagDetected fires when a tag enters the field. A returned error is
	// counted but does not stop the monitor.
	OnTagDetected func(session *rfiduino.TagSession, tag *rfiduino.Tag) error

	// OnTagRemoved fires when a previously reported tag leaves the field.
	OnTagRemoved func()
}

// Config tunes the monitor loop.
type Config struct {
	// PollInterval is the pause between seek polls while no tag is
	// present.
	PollInterval time.Duration

	// PresenceInterval is the pause between presence checks while a tag
	// is in the field.
	PresenceInterval time.Duration
}

// DefaultConfig returns intervals suited to interactive card reading.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:     100 * time.Millisecond,
		PresenceInterval: 250 * time.Millisecond,
	}
}

// Metrics is a snapshot of monitor counters.
type Metrics struct {
	PollCycles   int64
	TagsDetected int64
	Errors       int64
}

// Monitor owns a TagSession and drives it from a single background
// goroutine. The session must not be touched by other goroutines between
// Start and Stop.
type Monitor struct {
	session   *rfiduino.TagSession
	config    *Config
	callbacks Callbacks
	stop      chan struct{}
	wg        sync.WaitGroup

	pollCycles   atomic.Int64
	tagsDetected atomic.Int64
	errorCount   atomic.Int64
	running      atomic.Bool
}

// NewMonitor creates a monitor over an existing session. A nil config uses
// DefaultConfig.
func NewMonitor(session *rfiduino.TagSession, config *Config, callbacks Callbacks) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		session:   session,
		config:    config,
		callbacks: callbacks,
		stop:      make(chan struct{}),
	}
}

// Start launches the monitor goroutine. Starting a running monitor is a
// no-op.
func (m *Monitor) Start(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return nil
	}
	if err := m.session.Seek(ctx); err != nil {
		m.running.Store(false)
		return fmt.Errorf("start seek: %w", err)
	}
	m.wg.Add(1)
	go m.loop(ctx)
	return nil
}

// Stop halts the monitor goroutine and waits for it to exit. Safe to call
// more than once.
func (m *Monitor) Stop() {
	if !m.running.CompareAndSwap(true, false) {
		return
	}
	close(m.stop)
	m.wg.Wait()
	m.stop = make(chan struct{})
}

// Metrics returns a snapshot of the monitor counters.
func (m *Monitor) Metrics() Metrics {
	return Metrics{
		PollCycles:   m.pollCycles.Load(),
		TagsDetected: m.tagsDetected.Load(),
		Errors:       m.errorCount.Load(),
	}
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.wg.Done()

	interval := m.config.PollInterval
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		m.pollCycles.Add(1)
		if m.session.State() == rfiduino.StateSeeking {
			interval = m.seekOnce(ctx)
		} else {
			interval = m.checkPresence(ctx)
		}
		timer.Reset(interval)
	}
}

// seekOnce polls the outstanding seek and reports a new tag. It returns the
// interval until the next loop iteration.
func (m *Monitor) seekOnce(ctx context.Context) time.Duration {
	tag, err := m.session.Poll(ctx)
	if err != nil {
		m.errorCount.Add(1)
		m.reseek(ctx)
		return m.config.PollInterval
	}
	if tag == nil {
		return m.config.PollInterval
	}

	m.tagsDetected.Add(1)
	if m.callbacks.OnTagDetected != nil {
		if cbErr := m.callbacks.OnTagDetected(m.session, tag); cbErr != nil {
			m.errorCount.Add(1)
		}
	}
	return m.config.PresenceInterval
}

// checkPresence re-selects the current tag to see whether it is still in
// the field, reporting removal and restarting the seek when it is gone.
func (m *Monitor) checkPresence(ctx context.Context) time.Duration {
	_, err := m.session.Select(ctx)
	if err == nil {
		return m.config.PresenceInterval
	}

	if !rfiduino.IsNoTag(err) && !errors.Is(err, rfiduino.ErrTimeout) {
		m.errorCount.Add(1)
	}
	if m.callbacks.OnTagRemoved != nil {
		m.callbacks.OnTagRemoved()
	}
	m.reseek(ctx)
	return m.config.PollInterval
}

func (m *Monitor) reseek(ctx context.Context) {
	if err := m.session.Halt(ctx); err != nil {
		m.errorCount.Add(1)
	}
	if err := m.session.Seek(ctx); err != nil {
		m.errorCount.Add(1)
	}
}
