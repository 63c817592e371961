// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpioioctl adapts the character-device GPIO backend
// (github.com/lurk101/swdloader/gpioioctl) to the pinio.Pin capability.
package gpioioctl

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	hostgpio "github.com/lurk101/swdloader/gpioioctl"
	"github.com/lurk101/swdloader/pinio"
)

// Pin adapts a *gpioioctl.GPIOLine, obtained from the periph pin registry,
// to pinio.Pin.
type Pin struct {
	line *hostgpio.GPIOLine
	pinio.LevelMemo
}

// Open resolves name through gpioreg and wraps it if it was registered by
// this backend. It fails if the name resolves to a pin from a different
// backend (e.g. a legacy sysfs pin), since the two are not interchangeable
// at the ioctl level.
func Open(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("pinio/gpioioctl: pin %q not found", name)
	}
	line, ok := p.(*hostgpio.GPIOLine)
	if !ok {
		return nil, fmt.Errorf("pinio/gpioioctl: pin %q is not a character-device line", name)
	}
	return &Pin{line: line}, nil
}

// SetDirection implements pinio.Pin.
func (p *Pin) SetDirection(dir pinio.Direction, pull pinio.Pull) error {
	switch dir {
	case pinio.Input:
		gpull := gpio.Float
		if pull == pinio.PullUp {
			gpull = gpio.PullUp
		}
		return p.line.In(gpull, gpio.NoEdge)
	case pinio.Output:
		if err := p.line.Out(gpio.Level(p.Recall())); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("pinio/gpioioctl: unsupported direction %v", dir)
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

// Release implements pinio.Pin: returns the line to input, pull none.
func (p *Pin) Release() error {
	return p.line.In(gpio.Float, gpio.NoEdge)
}

// String implements pinio.Pin.
func (p *Pin) String() string {
	return p.line.String()
}

var _ pinio.Pin = &Pin{}
