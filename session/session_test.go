// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package session

import (
	"testing"

	"github.com/lurk101/swdloader/pinio"
)

// fakePin is a minimal in-memory pinio.Pin recording direction and level
// transitions, used to exercise Session without real GPIO hardware.
type fakePin struct {
	name     string
	dirs     []pinio.Direction
	writes   []pinio.Level
	level    pinio.Level
	released bool
}

func (p *fakePin) SetDirection(dir pinio.Direction, pull pinio.Pull) error {
	p.dirs = append(p.dirs, dir)
	return nil
}

func (p *fakePin) Write(l pinio.Level) error {
	p.level = l
	p.writes = append(p.writes, l)
	return nil
}

func (p *fakePin) Read() (pinio.Level, error) { return p.level, nil }
func (p *fakePin) Release() error             { p.released = true; return nil }
func (p *fakePin) String() string             { return p.name }

var _ pinio.Pin = &fakePin{}

func TestAntiSpikeHighOrder(t *testing.T) {
	p := &fakePin{name: "reset"}
	if err := antiSpikeHigh(p); err != nil {
		t.Fatalf("antiSpikeHigh: %s", err)
	}
	if len(p.dirs) != 2 || p.dirs[0] != pinio.Input || p.dirs[1] != pinio.Output {
		t.Fatalf("got directions %v, want [input output]", p.dirs)
	}
	if len(p.writes) != 1 || p.writes[0] != pinio.High {
		t.Fatalf("got writes %v, want a single High", p.writes)
	}
}

func TestPulseNoResetIsNoop(t *testing.T) {
	s := &Session{}
	if err := s.Pulse(); err != nil {
		t.Fatalf("Pulse without a reset pin should be a no-op, got %s", err)
	}
}

func TestPulseDrivesLowThenHigh(t *testing.T) {
	reset := &fakePin{name: "reset"}
	s := &Session{reset: reset, resetAvailable: true}
	if err := s.Pulse(); err != nil {
		t.Fatalf("Pulse: %s", err)
	}
	want := []pinio.Level{pinio.Low, pinio.High}
	if len(reset.writes) != len(want) || reset.writes[0] != want[0] || reset.writes[1] != want[1] {
		t.Fatalf("got %v, want %v", reset.writes, want)
	}
}

func TestCloseReleasesPinsAndLeavesResetHigh(t *testing.T) {
	clk, dio, reset := &fakePin{name: "clk"}, &fakePin{name: "dio"}, &fakePin{name: "reset"}
	s := &Session{clk: clk, dio: dio, reset: reset, resetAvailable: true}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	if !clk.released || !dio.released {
		t.Errorf("clk/dio not released: clk=%v dio=%v", clk.released, dio.released)
	}
	if len(reset.writes) != 1 || reset.writes[0] != pinio.High {
		t.Errorf("reset writes = %v, want a single High", reset.writes)
	}
}

func TestCloseWithoutReset(t *testing.T) {
	clk, dio := &fakePin{name: "clk"}, &fakePin{name: "dio"}
	s := &Session{clk: clk, dio: dio}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %s", err)
	}
	if !clk.released || !dio.released {
		t.Errorf("clk/dio not released")
	}
}
