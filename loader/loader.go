// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package loader

import (
	"encoding/binary"
	"time"

	"github.com/lurk101/swdloader/swd"
	"github.com/lurk101/swdloader/swderr"
)

// csw is the AP_CSW configuration used throughout: 32-bit accesses,
// single auto-increment, device enabled, default protection, debug
// software access enabled.
const csw = swd.CSWSize32Bits | swd.CSWAddrIncSingle<<swd.CSWAddrIncShift | swd.CSWDeviceEn | swd.CSWProtDefault<<swd.CSWProtShift | swd.CSWDbgSWEnable

// Loader drives an RP2040 target through bring-up, halt, a chunked
// write-with-verify load, and start, over a bit-banged SWD bus.
type Loader struct {
	bb   swd.Bus
	dpap *swd.DPAP
}

// New constructs a Loader over bb: a BitBang for real hardware, or any
// other swd.Bus implementation in tests.
func New(bb swd.Bus) *Loader {
	return &Loader{bb: bb, dpap: swd.NewDPAP(swd.NewFrame(bb))}
}

// begin brackets the start of a transaction with an idle period.
func (l *Loader) begin() error { return l.bb.Idle(8) }

// end brackets the end of a transaction with an idle period.
func (l *Loader) end() error { return l.bb.Idle(8) }

// BringUp takes the target from dormant state to a selected, powered-up
// core 0: dormant-to-SWD wakeup, line reset, TARGETSEL, DPIDR identity
// check, then the power-up handshake.
func (l *Loader) BringUp() error {
	if err := l.begin(); err != nil {
		return err
	}
	if err := swd.DormantToSWD(l.bb); err != nil {
		return err
	}
	if err := l.bb.Idle(8); err != nil {
		return err
	}
	if err := swd.LineReset(l.bb); err != nil {
		return err
	}
	// Core 1 remains halted after reset; bring-up always selects core 0.
	if err := swd.SelectTarget(l.bb, swd.TargetSelCPUAPID, swd.TargetSelInstanceCore0); err != nil {
		return err
	}
	dpidr, err := l.dpap.ReadDP(swd.ReqRdDPDPIDR)
	if err != nil {
		return err
	}
	if dpidr != swd.DPIDRSupported {
		_ = l.end()
		return &swderr.TargetIdentity{Want: swd.DPIDRSupported, Found: dpidr}
	}
	if err := l.dpap.PowerUp(); err != nil {
		_ = l.end()
		return err
	}
	return l.end()
}

// Halt configures the MEM-AP for 32-bit auto-incrementing access and
// halts the core via DHCSR.
func (l *Loader) Halt() error {
	if err := l.begin(); err != nil {
		return err
	}
	if err := l.dpap.WriteAP(swd.ReqWrAPCSW, csw); err != nil {
		return err
	}
	if err := l.dpap.WriteMem(swd.DHCSR, swd.DHCSRCDebugEn|swd.DHCSRCHalt|(swd.DHCSRDbgKey<<swd.DHCSRDbgKeyShift)); err != nil {
		return err
	}
	return l.end()
}

// quiesce disables XIP and the USB controller so their DMA masters cannot
// race the SRAM write, each in its own transaction.
func (l *Loader) quiesce() error {
	if err := l.begin(); err != nil {
		return err
	}
	if err := l.dpap.WriteMem(swd.XIPCtrl, 0); err != nil {
		return err
	}
	if err := l.end(); err != nil {
		return err
	}
	if err := l.begin(); err != nil {
		return err
	}
	if err := l.dpap.WriteMem(swd.USBCtrl, 0); err != nil {
		return err
	}
	return l.end()
}

// loadChunk writes img in blockSize blocks, verifying the first word of
// each block with a read-back before advancing.
func (l *Loader) loadChunk(img *Image, progress func(addr uint32)) error {
	addr := img.Address
	data := img.Data
	for len(data) > 0 {
		n := blockSize
		if len(data) < n {
			n = len(data)
		}
		block := data[:n]
		first := binary.LittleEndian.Uint32(block[0:4])
		if progress != nil {
			progress(addr)
		}

		if err := l.begin(); err != nil {
			return err
		}
		if err := l.dpap.WriteAP(swd.ReqWrAPTAR, addr); err != nil {
			return err
		}
		for off := 0; off < n; off += 4 {
			word := binary.LittleEndian.Uint32(block[off : off+4])
			if err := l.dpap.WriteAP(swd.ReqWrAPDRW, word); err != nil {
				return err
			}
		}
		if err := l.end(); err != nil {
			return err
		}

		if err := l.begin(); err != nil {
			return err
		}
		probe, err := l.dpap.ReadMem(addr)
		if err != nil {
			return err
		}
		if err := l.end(); err != nil {
			return err
		}
		if probe != first {
			return &swderr.Verify{Addr: addr, Want: first, Got: probe}
		}

		addr += uint32(n)
		data = data[n:]
	}
	return nil
}

// Start writes addr into the saved PC (via DCRDR/DCRSR) and clears
// C_HALT, resuming execution at addr.
func (l *Loader) Start(addr uint32) error {
	if err := l.begin(); err != nil {
		return err
	}
	if err := l.dpap.WriteMem(swd.DCRDR, addr); err != nil {
		return err
	}
	if err := l.dpap.WriteMem(swd.DCRSR, swd.DCRSRRegSelR15|swd.DCRSRRegWNR); err != nil {
		return err
	}
	if err := l.dpap.WriteMem(swd.DHCSR, swd.DHCSRCDebugEn|(swd.DHCSRDbgKey<<swd.DHCSRDbgKeyShift)); err != nil {
		return err
	}
	return l.end()
}

// Load runs the full sequence: halt, quiesce XIP/USB, chunked
// write-with-verify, start. progress, if non-nil, is called with the
// address of each block as it begins loading. It returns the wall-clock
// time spent disabling XIP/USB and writing the image, for throughput
// reporting.
func (l *Loader) Load(img *Image, progress func(addr uint32)) (time.Duration, error) {
	if err := img.Validate(); err != nil {
		return 0, err
	}
	if err := l.Halt(); err != nil {
		return 0, err
	}
	started := time.Now()
	if err := l.quiesce(); err != nil {
		return 0, err
	}
	if err := l.loadChunk(img, progress); err != nil {
		return 0, err
	}
	elapsed := time.Since(started)
	if err := l.Start(img.Address); err != nil {
		return 0, err
	}
	return elapsed, nil
}
