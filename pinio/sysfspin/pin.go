// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfspin adapts the legacy /sys/class/gpio backend
// (github.com/lurk101/swdloader/sysfs) to the pinio.Pin capability. It is
// the fallback used when the character-device ioctl ABI isn't available.
package sysfspin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/lurk101/swdloader/pinio"
	hostsysfs "github.com/lurk101/swdloader/sysfs"
)

// Pin adapts a *sysfs.Pin to pinio.Pin.
type Pin struct {
	line *hostsysfs.Pin
	pinio.LevelMemo
}

// Open resolves name through gpioreg and wraps it if it was registered by
// this backend.
func Open(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pinio/sysfspin: pin %q not found", name)
	}
	line, ok := p.(*hostsysfs.Pin)
	if !ok {
		return nil, fmt.Errorf("pinio/sysfspin: pin %q is not a sysfs line", name)
	}
	return &Pin{line: line}, nil
}

// SetDirection implements pinio.Pin. Sysfs GPIO has no pull resistor
// control; a PullUp request is accepted but has no wire effect.
func (p *Pin) SetDirection(dir pinio.Direction, pull pinio.Pull) error {
	switch dir {
	case pinio.Input:
		return p.line.In(gpio.PullNoChange, gpio.NoEdge)
	case pinio.Output:
		return p.line.Out(gpio.Level(p.Recall()))
	default:
		return fmt.Errorf("pinio/sysfspin: unsupported direction %v", dir)
	}
}

// Write implements pinio.Pin.
func (p *Pin) Write(level pinio.Level) error {
	p.Remember(level)
	return p.line.Out(gpio.Level(level))
}

// Read implements pinio.Pin.
func (p *Pin) Read() (pinio.Level, error) {
	return pinio.Level(p.line.Read()), nil
}

// Release implements pinio.Pin.
func (p *Pin) Release() error {
	return p.line.In(gpio.PullNoChange, gpio.NoEdge)
}

// String implements pinio.Pin.
func (p *Pin) String() string {
	return p.line.String()
}

var _ pinio.Pin = &Pin{}
