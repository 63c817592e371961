// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package swderr defines the error kinds the swd and loader packages
// return, discriminated with errors.As the way periph's own drivers
// define small typed errors instead of sentinel values or string
// matching.
package swderr

import "fmt"

// WireAck reports a non-OK acknowledgement from the target: WAIT, FAULT,
// or an undefined 3-bit code. The transaction has already been returned to
// idle before this error is produced.
type WireAck struct {
	Code byte
}

func (e *WireAck) Error() string {
	switch e.Code {
	case 0b010:
		return "swd: target acknowledged WAIT"
	case 0b100:
		return "swd: target acknowledged FAULT"
	default:
		return fmt.Sprintf("swd: undefined ACK code %03b", e.Code)
	}
}

// Parity reports that a read data word's parity bit disagreed with the
// 32-bit payload.
type Parity struct {
	Data   uint32
	Parity bool
}

func (e *Parity) Error() string {
	return fmt.Sprintf("swd: parity mismatch on data %#08x", e.Data)
}

// TargetIdentity reports that the DPIDR read during bring-up produced a
// value other than the one expected for this target. The TARGETSEL write
// gets no response from the target, so it is never checked.
type TargetIdentity struct {
	Want, Found uint32
}

func (e *TargetIdentity) Error() string {
	return fmt.Sprintf("swd: target identity mismatch: want %#08x, found %#08x", e.Want, e.Found)
}

// PowerUp reports that CTRL/STAT did not assert both power-up ACK bits
// after the power-up request.
type PowerUp struct {
	CtrlStat uint32
}

func (e *PowerUp) Error() string {
	return fmt.Sprintf("swd: target connect failed: CTRL/STAT=%#08x", e.CtrlStat)
}

// Verify reports that a read-back word did not match the word written to
// the same address.
type Verify struct {
	Addr, Want, Got uint32
}

func (e *Verify) Error() string {
	return fmt.Sprintf("swd: verify failed at %#08x: want %#08x, got %#08x", e.Addr, e.Want, e.Got)
}

// IO reports that an underlying GPIO operation failed. Fatal, not retried.
type IO struct {
	Op  string
	Err error
}

func (e *IO) Error() string {
	return fmt.Sprintf("swd: gpio %s: %v", e.Op, e.Err)
}

func (e *IO) Unwrap() error {
	return e.Err
}

// Invariant reports that a caller-supplied precondition was violated:
// programmer error, not a wire fault.
type Invariant struct {
	Msg string
}

func (e *Invariant) Error() string {
	return fmt.Sprintf("swd: invariant violated: %s", e.Msg)
}
