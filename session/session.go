// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package session owns the lifecycle of a single SWD load: pin
// acquisition across GPIO backends, the optional hardware reset pulse,
// and teardown on every exit path.
package session

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/lurk101/swdloader/pinio"
	ioctlpin "github.com/lurk101/swdloader/pinio/gpioioctl"
	"github.com/lurk101/swdloader/pinio/sysfspin"
	"github.com/lurk101/swdloader/swd"
	"github.com/lurk101/swdloader/swderr"
)

// resetPulse is how long RESET is held in each state of the reset pulse.
const resetPulse = 10 * time.Millisecond

// Session owns CLK (always output), DIO (bidirectional), and an optional
// RESET (output, active low), plus the derived BitBang clocking them. It
// is not safe for concurrent use: a caller needing parallelism must
// construct separate Sessions on disjoint pin sets.
type Session struct {
	clk, dio, reset pinio.Pin
	resetAvailable  bool
	bb              *swd.BitBang
}

func openPin(name string, backend pinio.Backend) (pinio.Pin, error) {
	switch backend {
	case pinio.BackendGPIOIoctl:
		return ioctlpin.Open(name)
	case pinio.BackendSysfs:
		return sysfspin.Open(name)
	default:
		if p, err := ioctlpin.Open(name); err == nil {
			return p, nil
		}
		return sysfspin.Open(name)
	}
}

// New acquires clkName/dioName (and resetName, if non-empty) through
// backend, and derives the half-clock delay from rate. Only the reset line
// is brought up with the anti-spike sequence (input briefly, drive HIGH,
// then output); CLK is set to output low by swd.NewBitBang, and DIO's
// direction is left to the first WriteBits/ReadBits.
func New(clkName, dioName, resetName string, backend pinio.Backend, rate physic.Frequency) (*Session, error) {
	clk, err := openPin(clkName, backend)
	if err != nil {
		return nil, err
	}
	dio, err := openPin(dioName, backend)
	if err != nil {
		return nil, err
	}

	s := &Session{clk: clk, dio: dio}

	if resetName != "" {
		reset, err := openPin(resetName, backend)
		if err != nil {
			return nil, err
		}
		if err := antiSpikeHigh(reset); err != nil {
			return nil, err
		}
		s.reset = reset
		s.resetAvailable = true
	}

	bb, err := swd.NewBitBang(clk, dio, rate)
	if err != nil {
		return nil, err
	}
	s.bb = bb
	return s, nil
}

// antiSpikeHigh brings p to a driven-HIGH output without a transient low
// glitch: configure input first, drive the level, then switch to output.
func antiSpikeHigh(p pinio.Pin) error {
	if err := p.SetDirection(pinio.Input, pinio.PullOff); err != nil {
		return &swderr.IO{Op: "anti-spike set-direction", Err: err}
	}
	if err := p.Write(pinio.High); err != nil {
		return &swderr.IO{Op: "anti-spike write", Err: err}
	}
	if err := p.SetDirection(pinio.Output, pinio.PullOff); err != nil {
		return &swderr.IO{Op: "anti-spike set-direction", Err: err}
	}
	return nil
}

// BitBang returns the Session's bit-bang engine, ready for a Loader.
func (s *Session) BitBang() *swd.BitBang {
	return s.bb
}

// Pulse, if RESET is available, drives it low for resetPulse then high
// for resetPulse. It is a no-op when the Session has no RESET pin.
func (s *Session) Pulse() error {
	if !s.resetAvailable {
		return nil
	}
	if err := s.reset.Write(pinio.Low); err != nil {
		return &swderr.IO{Op: "reset low", Err: err}
	}
	time.Sleep(resetPulse)
	if err := s.reset.Write(pinio.High); err != nil {
		return &swderr.IO{Op: "reset high", Err: err}
	}
	time.Sleep(resetPulse)
	return nil
}

// Close releases CLK and DIO to input-pull-none and, if RESET exists,
// leaves it driven HIGH so the target is not left in reset. It is safe to
// call on every exit path, including after a failed BringUp/Load.
func (s *Session) Close() error {
	var firstErr error
	record := func(op string, err error) {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("session close: %s: %w", op, err)
		}
	}
	record("clk release", s.clk.Release())
	record("dio release", s.dio.Release())
	if s.resetAvailable {
		record("reset high", s.reset.Write(pinio.High))
	}
	return firstErr
}
