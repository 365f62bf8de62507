// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package logchan implements an append-only line log that can be switched
// on and off at runtime.
package logchan

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnavailable is wrapped by every error that leaves a channel Closed
// because its file could not be created or opened.
var ErrUnavailable = errors.New("log resource unavailable")

// State is the channel's lifecycle state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "Logging"
	}
	return "Not Logging"
}

// Channel owns at most one open append handle for its path. The handle
// exists exactly when the state is Open; SetEnabled is the only way to
// move between states. A Channel is not safe for concurrent use.
type Channel struct {
	name    string
	path    string
	state   State
	file    *os.File
	w       *bufio.Writer
	written int64
}

// New returns a Closed channel writing to path.
func New(name, path string) *Channel {
	return &Channel{name: name, path: path}
}

// Name returns the channel name used in log messages.
func (c *Channel) Name() string { return c.name }

// Path returns the backing file path.
func (c *Channel) Path() string { return c.path }

// State returns the current lifecycle state.
func (c *Channel) State() State { return c.state }

// Enabled reports whether the channel is Open.
func (c *Channel) Enabled() bool { return c.state == Open }

// Written returns the number of bytes appended since the channel was last
// opened.
func (c *Channel) Written() int64 { return c.written }

// SetEnabled opens or closes the channel. Enabling an Open channel or
// disabling a Closed one is a no-op.
//
// When opening fails the channel stays Closed and the returned error wraps
// ErrUnavailable. When closing fails the channel is still Closed.
func (c *Channel) SetEnabled(enabled bool) error {
	if enabled {
		return c.open()
	}
	return c.close()
}

// Close releases the handle if the channel is Open.
func (c *Channel) Close() error {
	return c.close()
}

func (c *Channel) open() error {
	if c.state == Open {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("%w: %s: create dir: %w", ErrUnavailable, c.name, err)
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: open: %w", ErrUnavailable, c.name, err)
	}

	c.file = f
	c.w = bufio.NewWriter(f)
	c.written = 0
	c.state = Open
	return nil
}

func (c *Channel) close() error {
	if c.state == Closed {
		return nil
	}

	f, w := c.file, c.w
	c.file, c.w = nil, nil
	c.state = Closed

	flushErr := w.Flush()
	closeErr := f.Close()
	if flushErr != nil {
		return fmt.Errorf("%s: flush: %w", c.name, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%s: close: %w", c.name, closeErr)
	}
	return nil
}

// AppendLine writes text and a newline if the channel is Open. Each line
// is flushed to the file before AppendLine returns.
func (c *Channel) AppendLine(text string) error {
	if c.state == Closed {
		return nil
	}
	n, err := c.w.WriteString(text)
	c.written += int64(n)
	if err == nil {
		err = c.w.WriteByte('\n')
		if err == nil {
			c.written++
		}
	}
	if err == nil {
		err = c.w.Flush()
	}
	if err != nil {
		return fmt.Errorf("%s: append: %w", c.name, err)
	}
	return nil
}
