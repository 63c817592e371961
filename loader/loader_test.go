// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package loader

import (
	"errors"
	"testing"

	"github.com/lurk101/swdloader/internal/wiresim"
	"github.com/lurk101/swdloader/swd"
	"github.com/lurk101/swdloader/swderr"
)

func poweredUpTarget() *wiresim.Target {
	target := wiresim.NewTarget()
	target.Script.Reads = map[byte]uint32{
		swd.ReqRdDPDPIDR:    swd.DPIDRSupported,
		swd.ReqRdDPCtrlStat: swd.CtrlStatCDbgPwrUpAck | swd.CtrlStatCSysPwrUpAck,
	}
	return target
}

// TestBringUpIdentifyOK covers scenario S1: a target that ACKs everything
// and reports the expected DPIDR and power-up status brings up cleanly.
func TestBringUpIdentifyOK(t *testing.T) {
	target := poweredUpTarget()
	ld := New(target)
	if err := ld.BringUp(); err != nil {
		t.Fatalf("BringUp: %s", err)
	}
	if target.Idles == 0 {
		t.Errorf("bring-up never idled the bus")
	}
}

// TestBringUpWrongDPIDR covers scenario S2: bring-up rejects a target
// reporting an unexpected identity and never attempts power-up.
func TestBringUpWrongDPIDR(t *testing.T) {
	target := wiresim.NewTarget()
	target.Script.Reads = map[byte]uint32{swd.ReqRdDPDPIDR: 0xDEADBEEF}
	ld := New(target)
	err := ld.BringUp()
	var idErr *swderr.TargetIdentity
	if !errors.As(err, &idErr) {
		t.Fatalf("got %v, want *swderr.TargetIdentity", err)
	}
	if idErr.Found != 0xDEADBEEF {
		t.Errorf("Found = %#08x, want %#08x", idErr.Found, 0xDEADBEEF)
	}
	for _, w := range target.Writes {
		if w.Req == swd.ReqWrDPCtrlStat {
			t.Errorf("power-up was attempted after a DPIDR mismatch")
		}
	}
}

// TestLoadSmallImage covers scenario S3: a two-word image is written,
// verified, and the core is started at its load address.
func TestLoadSmallImage(t *testing.T) {
	target := poweredUpTarget()
	ld := New(target)
	img := &Image{Data: []byte{0, 1, 2, 3, 4, 5, 6, 7}, Address: swd.RAMBase}
	if _, err := ld.Load(img, nil); err != nil {
		t.Fatalf("Load: %s", err)
	}
	if got := target.Mem[swd.RAMBase]; got != 0x03020100 {
		t.Errorf("mem[base] = %#08x, want %#08x", got, 0x03020100)
	}
	if got := target.Mem[swd.RAMBase+4]; got != 0x07060504 {
		t.Errorf("mem[base+4] = %#08x, want %#08x", got, 0x07060504)
	}

	var sawDCRDR, sawDCRSR, sawDHCSR bool
	for _, w := range target.Writes {
		switch {
		case w.Req == swd.ReqWrAPDRW && w.Data == swd.RAMBase:
			sawDCRDR = true
		case w.Req == swd.ReqWrAPDRW && w.Data == (swd.DCRSRRegSelR15|swd.DCRSRRegWNR):
			sawDCRSR = true
		case w.Req == swd.ReqWrAPDRW && w.Data == swd.DHCSRCDebugEn|(swd.DHCSRDbgKey<<swd.DHCSRDbgKeyShift):
			sawDHCSR = true
		}
	}
	if !sawDCRDR || !sawDCRSR || !sawDHCSR {
		t.Errorf("start sequence incomplete: DCRDR=%v DCRSR=%v DHCSR=%v", sawDCRDR, sawDCRSR, sawDHCSR)
	}
}

// TestLoadVerifyMismatch covers scenario S4: a corrupted read-back fails
// the chunk verify and Start is never reached.
func TestLoadVerifyMismatch(t *testing.T) {
	target := poweredUpTarget()
	target.ReadBackOverride = map[uint32]uint32{swd.RAMBase: 0xDEADBEEF}
	ld := New(target)
	img := &Image{Data: []byte{0, 1, 2, 3, 4, 5, 6, 7}, Address: swd.RAMBase}
	_, err := ld.Load(img, nil)
	var verErr *swderr.Verify
	if !errors.As(err, &verErr) {
		t.Fatalf("got %v, want *swderr.Verify", err)
	}
	if verErr.Want != 0x03020100 || verErr.Got != 0xDEADBEEF {
		t.Errorf("got %+v, want Want=%#08x Got=%#08x", verErr, 0x03020100, 0xDEADBEEF)
	}
	for _, w := range target.Writes {
		if w.Req == swd.ReqWrAPDRW && w.Data == (swd.DCRSRRegSelR15|swd.DCRSRRegWNR) {
			t.Errorf("start was attempted after a verify failure")
		}
	}
}

// TestHaltFault covers scenario S5: a FAULT ack on the halt write aborts
// the load before any data is written.
func TestHaltFault(t *testing.T) {
	target := poweredUpTarget()
	target.Script.Acks = map[byte]byte{swd.ReqWrAPDRW: wiresim.AckFault}
	ld := New(target)
	img := &Image{Data: []byte{0, 1, 2, 3}, Address: swd.RAMBase}
	_, err := ld.Load(img, nil)
	var ackErr *swderr.WireAck
	if !errors.As(err, &ackErr) || ackErr.Code != wiresim.AckFault {
		t.Fatalf("got %v, want WireAck(FAULT)", err)
	}
	if len(target.Mem) != 0 {
		t.Errorf("memory was written despite the halt fault")
	}
}

// TestLoadOddImageSize covers scenario S6: an image whose length is not a
// multiple of 4 is rejected before any wire traffic.
func TestLoadOddImageSize(t *testing.T) {
	target := poweredUpTarget()
	ld := New(target)
	img := &Image{Data: []byte{0, 1, 2, 3, 4, 5}, Address: swd.RAMBase}
	_, err := ld.Load(img, nil)
	var invErr *swderr.Invariant
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want *swderr.Invariant", err)
	}
	if len(target.Writes) != 0 || target.Idles != 0 {
		t.Errorf("wire traffic occurred before Validate rejected the image")
	}
}

func TestImageValidateAddressOutOfRange(t *testing.T) {
	img := &Image{Data: []byte{0, 1, 2, 3}, Address: swd.RAMBase - 4}
	var invErr *swderr.Invariant
	if err := img.Validate(); !errors.As(err, &invErr) {
		t.Fatalf("got %v, want *swderr.Invariant", err)
	}
}

func TestImageValidateEmpty(t *testing.T) {
	img := &Image{Address: swd.RAMBase}
	var invErr *swderr.Invariant
	if err := img.Validate(); !errors.As(err, &invErr) {
		t.Fatalf("got %v, want *swderr.Invariant", err)
	}
}
