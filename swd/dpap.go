// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import "github.com/lurk101/swdloader/swderr"

// DPAP implements the Debug Port and Memory-Access Port operational
// vocabulary the loader uses, built on a single Frame.
type DPAP struct {
	f *Frame
}

// NewDPAP wraps f with the DP/AP vocabulary.
func NewDPAP(f *Frame) *DPAP {
	return &DPAP{f: f}
}

// WriteDP writes value to a Debug Port register, req being its pre-encoded
// write request byte.
func (d *DPAP) WriteDP(req byte, value uint32) error {
	return d.f.WriteRequest(req, value)
}

// ReadDP reads a Debug Port register, req being its pre-encoded read
// request byte.
func (d *DPAP) ReadDP(req byte) (uint32, error) {
	return d.f.ReadRequest(req)
}

// WriteAP writes value to an Access Port register.
func (d *DPAP) WriteAP(req byte, value uint32) error {
	return d.f.WriteRequest(req, value)
}

// ReadAP reads an Access Port register.
func (d *DPAP) ReadAP(req byte) (uint32, error) {
	return d.f.ReadRequest(req)
}

// WriteMem writes word to addr through the MEM-AP: TAR then DRW.
func (d *DPAP) WriteMem(addr, word uint32) error {
	if err := d.WriteAP(ReqWrAPTAR, addr); err != nil {
		return err
	}
	return d.WriteAP(ReqWrAPDRW, word)
}

// ReadMem reads the word at addr through the MEM-AP. AP reads are posted:
// the DRW read returns the previous buffer contents, so the actual value
// is fetched from RDBUFF on the DP side afterward.
func (d *DPAP) ReadMem(addr uint32) (uint32, error) {
	if err := d.WriteAP(ReqWrAPTAR, addr); err != nil {
		return 0, err
	}
	if _, err := d.ReadAP(ReqRdAPDRW); err != nil {
		return 0, err
	}
	return d.ReadDP(ReqRdDPRDBuff)
}

// PowerUp runs the power-up handshake: clear sticky errors, select DP bank
// 0/AP 0/AP bank 0, request debug and system power-up, then verify both
// ACK bits are set.
func (d *DPAP) PowerUp() error {
	if err := d.WriteDP(ReqWrDPAbort, AbortStkCmpClr|AbortStkErrClr|AbortWDErrClr|AbortOrunErrClr); err != nil {
		return err
	}
	if err := d.WriteDP(ReqWrDPSelect, dpSelectDefault); err != nil {
		return err
	}
	if err := d.WriteDP(ReqWrDPCtrlStat, CtrlStatOrunDetect|CtrlStatStickyErr|CtrlStatCDbgPwrUpReq|CtrlStatCSysPwrUpReq); err != nil {
		return err
	}
	ctrlStat, err := d.ReadDP(ReqRdDPCtrlStat)
	if err != nil {
		return err
	}
	if ctrlStat&CtrlStatCDbgPwrUpAck == 0 || ctrlStat&CtrlStatCSysPwrUpAck == 0 {
		return &swderr.PowerUp{CtrlStat: ctrlStat}
	}
	return nil
}
