// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinio defines the narrow digital-line capability the swd package
// drives: set a direction, write a level, read a level, release the pin.
// Concrete backends live in pinio/gpioioctl and pinio/sysfspin, each
// adapting a real periph.io/x/conn/v3/gpio.PinIO to this capability.
package pinio

// Direction is the configured direction of a Pin.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Pull is the input pull configuration of a Pin. Output direction implies
// PullOff.
type Pull int

const (
	PullOff Pull = iota
	PullUp
)

func (p Pull) String() string {
	if p == PullUp {
		return "pull-up"
	}
	return "pull-off"
}

// Level is the state driven onto or sampled from a Pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Pin is a digital line with direction control, used by the swd bit-bang
// engine. Read is only meaningful when the pin is configured for input;
// Write is only meaningful when configured for output, but the last level
// written is remembered across a direction flip back to output (see
// LevelMemo) so a caller need not re-specify it.
type Pin interface {
	SetDirection(dir Direction, pull Pull) error
	Write(level Level) error
	Read() (Level, error)
	Release() error
	String() string
}

// LevelMemo remembers the most recently written level so a backend can
// restore it when direction flips from input back to output, without the
// caller re-driving the level explicitly.
type LevelMemo struct {
	level Level
}

// Remember records l as the last level written.
func (m *LevelMemo) Remember(l Level) {
	m.level = l
}

// Recall returns the last level recorded by Remember, or Low if none was.
func (m *LevelMemo) Recall() Level {
	return m.level
}

// Backend identifies which concrete GPIO provider a Pin is acquired from.
type Backend int

const (
	// BackendAuto probes the character-device backend first, falling back
	// to legacy sysfs, mirroring periph's own driver registration order.
	BackendAuto Backend = iota
	BackendGPIOIoctl
	BackendSysfs
)

func (b Backend) String() string {
	switch b {
	case BackendGPIOIoctl:
		return "gpioioctl"
	case BackendSysfs:
		return "sysfs"
	default:
		return "auto"
	}
}
