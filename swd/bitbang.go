// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package swd implements the ARM Serial Wire Debug physical and transaction
// layers: a clocked bidirectional bit stream (BitBang), one SWD request
// frame with parity and ACK handling (Frame), and the Debug Port /
// Memory-Access Port vocabulary built on top (DPAP).
package swd

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/lurk101/swdloader/pinio"
	"github.com/lurk101/swdloader/swderr"
)

// turnCycles is the number of bit periods absorbed at each bus-direction
// change, per ADIv5.
const turnCycles = 1

// spinThreshold is the half-period below which BitBang busy-waits instead
// of sleeping; the kernel's scheduling granularity above this would slow
// the bus by orders of magnitude.
const spinThreshold = time.Microsecond

// Bus is the clocked bit-level transport Frame and the bring-up sequences
// ride on. BitBang is the production implementation over real GPIO pins;
// tests substitute a wire-level simulator.
type Bus interface {
	WriteBits(value uint64, n int) error
	ReadBits(n int) (uint64, error)
	Idle(n int) error
}

// BitBang drives a clocked bidirectional bit stream over a CLK/DIO pin
// pair with a programmable half-period. Data is sampled by the target on
// the rising edge; the host drives DIO while CLK is low and holds it
// stable across the rising edge.
type BitBang struct {
	clk, dio   pinio.Pin
	halfPeriod time.Duration
}

// NewBitBang configures clk as output and constructs a BitBang clocking at
// rate. It does not touch dio's direction; callers drive that through
// WriteBits/ReadBits.
func NewBitBang(clk, dio pinio.Pin, rate physic.Frequency) (*BitBang, error) {
	if err := clk.SetDirection(pinio.Output, pinio.PullOff); err != nil {
		return nil, &swderr.IO{Op: "clk set-direction", Err: err}
	}
	if err := clk.Write(pinio.Low); err != nil {
		return nil, &swderr.IO{Op: "clk write", Err: err}
	}
	return &BitBang{clk: clk, dio: dio, halfPeriod: rate.Duration() / 2}, nil
}

// delay waits one half clock period.
func (b *BitBang) delay() {
	if b.halfPeriod < spinThreshold {
		deadline := time.Now().Add(b.halfPeriod)
		for time.Now().Before(deadline) {
		}
		return
	}
	time.Sleep(b.halfPeriod)
}

// clock issues one clock cycle: CLK low, wait, CLK high, wait.
func (b *BitBang) clock() error {
	if err := b.clk.Write(pinio.Low); err != nil {
		return &swderr.IO{Op: "clk low", Err: err}
	}
	b.delay()
	if err := b.clk.Write(pinio.High); err != nil {
		return &swderr.IO{Op: "clk high", Err: err}
	}
	b.delay()
	return nil
}

// WriteBits sets DIO to output, then drives n bits of value onto DIO LSB
// first, one clock cycle per bit. After the call DIO is still driven.
func (b *BitBang) WriteBits(value uint64, n int) error {
	if err := b.dio.SetDirection(pinio.Output, pinio.PullOff); err != nil {
		return &swderr.IO{Op: "dio set-direction output", Err: err}
	}
	for i := 0; i < n; i++ {
		level := pinio.Level(value&(1<<uint(i)) != 0)
		if err := b.dio.Write(level); err != nil {
			return &swderr.IO{Op: "dio write", Err: err}
		}
		if err := b.clock(); err != nil {
			return err
		}
	}
	return nil
}

// ReadBits sets DIO to input with pull-up, then samples n bits from DIO
// LSB first, one clock cycle per bit. The pull-up prevents a floating bus
// when the target is between drive phases. After the call DIO is input.
func (b *BitBang) ReadBits(n int) (uint64, error) {
	if err := b.dio.SetDirection(pinio.Input, pinio.PullUp); err != nil {
		return 0, &swderr.IO{Op: "dio set-direction input", Err: err}
	}
	var value uint64
	for i := 0; i < n; i++ {
		level, err := b.dio.Read()
		if err != nil {
			return 0, &swderr.IO{Op: "dio read", Err: err}
		}
		if level {
			value |= 1 << uint(i)
		}
		if err := b.clock(); err != nil {
			return 0, err
		}
	}
	return value, nil
}

// Idle writes n zero bits with DIO driven low; the line is then parked low
// and CLK low. Used to bracket a transaction (BeginTransaction/EndTransaction
// in the loader's terms).
func (b *BitBang) Idle(n int) error {
	if err := b.WriteBits(0, n); err != nil {
		return err
	}
	if err := b.clk.Write(pinio.Low); err != nil {
		return &swderr.IO{Op: "clk low", Err: err}
	}
	return nil
}
