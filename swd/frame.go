// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import (
	"math/bits"

	"github.com/lurk101/swdloader/swderr"
)

// ACK codes returned by the target in the 3-bit acknowledgement field.
const (
	ackOK    = 0b001
	ackWait  = 0b010
	ackFault = 0b100
)

// Frame implements one SWD request atomically with respect to the bus: a
// request header, turnaround, 3-bit ACK, 32-bit payload, and parity.
type Frame struct {
	bb Bus
}

// NewFrame wraps bb with the SWD request/response framing.
func NewFrame(bb Bus) *Frame {
	return &Frame{bb: bb}
}

// parity32 is the XOR-fold (odd parity) of the 32 bits of v.
func parity32(v uint32) uint64 {
	return uint64(bits.OnesCount32(v) & 1)
}

// WriteRequest sends req (the 8-bit header, start/parity/stop/park already
// encoded) followed by data and its parity bit. It returns a *swderr.WireAck
// if the target's ACK was not OK.
func (f *Frame) WriteRequest(req byte, data uint32) error {
	if err := f.bb.WriteBits(uint64(req), 8); err != nil {
		return err
	}
	if _, err := f.bb.ReadBits(1 + turnCycles); err != nil {
		return err
	}
	ack, err := f.bb.ReadBits(3)
	if err != nil {
		return err
	}
	if _, err := f.bb.ReadBits(turnCycles); err != nil {
		return err
	}
	if ack != ackOK {
		if err := f.bb.Idle(8); err != nil {
			return err
		}
		return &swderr.WireAck{Code: byte(ack)}
	}
	if err := f.bb.WriteBits(uint64(data), 32); err != nil {
		return err
	}
	return f.bb.WriteBits(parity32(data), 1)
}

// ReadRequest sends req and returns the 32-bit payload the target replies
// with. It returns a *swderr.WireAck if the ACK was not OK, or a
// *swderr.Parity if the trailing parity bit disagreed with the payload.
func (f *Frame) ReadRequest(req byte) (uint32, error) {
	if err := f.bb.WriteBits(uint64(req), 8); err != nil {
		return 0, err
	}
	if _, err := f.bb.ReadBits(1 + turnCycles); err != nil {
		return 0, err
	}
	ack, err := f.bb.ReadBits(3)
	if err != nil {
		return 0, err
	}
	if ack != ackOK {
		if _, err := f.bb.ReadBits(turnCycles); err != nil {
			return 0, err
		}
		if err := f.bb.Idle(8); err != nil {
			return 0, err
		}
		return 0, &swderr.WireAck{Code: byte(ack)}
	}
	data, err := f.bb.ReadBits(32)
	if err != nil {
		return 0, err
	}
	parity, err := f.bb.ReadBits(1)
	if err != nil {
		return 0, err
	}
	if parity != parity32(uint32(data)) {
		if _, err := f.bb.ReadBits(turnCycles); err != nil {
			return 0, err
		}
		return uint32(data), &swderr.Parity{Data: uint32(data), Parity: parity != 0}
	}
	if _, err := f.bb.ReadBits(turnCycles); err != nil {
		return 0, err
	}
	return uint32(data), nil
}
