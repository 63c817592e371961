// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

import (
	"errors"
	"testing"

	"github.com/lurk101/swdloader/internal/wiresim"
	"github.com/lurk101/swdloader/swderr"
)

func TestDPAPWriteReadMem(t *testing.T) {
	target := wiresim.NewTarget()
	dpap := NewDPAP(NewFrame(target))
	if err := dpap.WriteMem(0x20001000, 0xdeadbeef); err != nil {
		t.Fatalf("WriteMem: %s", err)
	}
	if got := target.Mem[0x20001000]; got != 0xdeadbeef {
		t.Fatalf("target memory = %#08x, want %#08x", got, 0xdeadbeef)
	}
	got, err := dpap.ReadMem(0x20001000)
	if err != nil {
		t.Fatalf("ReadMem: %s", err)
	}
	if got != 0xdeadbeef {
		t.Errorf("ReadMem = %#08x, want %#08x", got, 0xdeadbeef)
	}
}

func TestDPAPPowerUpSuccess(t *testing.T) {
	target := wiresim.NewTarget()
	target.Script.Reads = map[byte]uint32{
		ReqRdDPCtrlStat: CtrlStatCDbgPwrUpAck | CtrlStatCSysPwrUpAck,
	}
	dpap := NewDPAP(NewFrame(target))
	if err := dpap.PowerUp(); err != nil {
		t.Fatalf("PowerUp: %s", err)
	}
}

func TestDPAPPowerUpFails(t *testing.T) {
	target := wiresim.NewTarget()
	dpap := NewDPAP(NewFrame(target))
	err := dpap.PowerUp()
	var puErr *swderr.PowerUp
	if !errors.As(err, &puErr) {
		t.Fatalf("got %v, want *swderr.PowerUp", err)
	}
}
