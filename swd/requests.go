// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

// Request header bytes, LSB first on the wire, with start/APnDP/RnW/A[2:3]/
// parity/stop/park already encoded in place.
const (
	ReqWrDPAbort     byte = 0x81
	ReqRdDPCtrlStat  byte = 0x8D
	ReqWrDPCtrlStat  byte = 0xA9
	ReqRdDPDPIDR     byte = 0xA5
	ReqRdDPRDBuff    byte = 0xBD
	ReqWrDPSelect    byte = 0xB1
	ReqWrDPTargetSel byte = 0x99
	ReqWrAPCSW       byte = 0xA3
	ReqRdAPDRW       byte = 0x9F
	ReqWrAPDRW       byte = 0xBB
	ReqWrAPTAR       byte = 0x8B
)

// DP_ABORT clear-sticky-error bits.
const (
	AbortStkCmpClr  uint32 = 1 << 1
	AbortStkErrClr  uint32 = 1 << 2
	AbortWDErrClr   uint32 = 1 << 3
	AbortOrunErrClr uint32 = 1 << 4
)

// DP_CTRL_STAT fields.
const (
	CtrlStatOrunDetect   uint32 = 1 << 0
	CtrlStatStickyErr    uint32 = 1 << 5
	CtrlStatCDbgPwrUpReq uint32 = 1 << 28
	CtrlStatCDbgPwrUpAck uint32 = 1 << 29
	CtrlStatCSysPwrUpReq uint32 = 1 << 30
	CtrlStatCSysPwrUpAck uint32 = 1 << 31
	dpSelectDefault      uint32 = 0
)

// DPIDR and TARGETSEL identities for the supported target (RP2040).
const (
	DPIDRSupported         uint32 = 0x0BC12477
	TargetSelCPUAPID       uint32 = 0x01002927
	TargetSelInstanceCore0 uint32 = 0
	TargetSelInstanceCore1 uint32 = 1
	targetSelInstanceShift        = 28
)

// AP_CSW fields used to configure 32-bit auto-incrementing memory access.
const (
	CSWSize32Bits    uint32 = 2
	CSWAddrIncSingle uint32 = 1
	CSWDeviceEn      uint32 = 1 << 6
	CSWProtDefault   uint32 = 0x22
	CSWDbgSWEnable   uint32 = 1 << 31
	CSWAddrIncShift         = 4
	CSWProtShift            = 24
)

// Cortex-M0+ debug halting registers and DBGKEY.
const (
	DHCSR            uint32 = 0xE000EDF0
	DCRSR            uint32 = 0xE000EDF4
	DCRDR            uint32 = 0xE000EDF8
	DHCSRCDebugEn    uint32 = 1 << 0
	DHCSRCHalt       uint32 = 1 << 1
	DHCSRDbgKey      uint32 = 0xA05F
	DHCSRDbgKeyShift        = 16
	DCRSRRegSelR15   uint32 = 15
	DCRSRRegWNR      uint32 = 1 << 16
)

// RP2040 memory-mapped peripherals quiesced before an SRAM load.
const (
	XIPCtrl uint32 = 0x14000000
	USBCtrl uint32 = 0x50110040
)

// RP2040 SRAM load base address.
const RAMBase uint32 = 0x20000000
