// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package swd

// The four 32-bit words of the dormant-to-SWD selection alert sequence,
// transmitted LSB first, per ADIv5 section B5.3.4.
const (
	alertWord0 uint32 = 0x6209F392
	alertWord1 uint32 = 0x86852D95
	alertWord2 uint32 = 0xE3DDAFE9
	alertWord3 uint32 = 0x19BC0EA2
	activationCode byte = 0x1A
)

// DormantToSWD wakes the DP from its dormant state and switches it to
// SW-DP: 8 cycles high, the four-word selection-alert sequence, 4 cycles
// low, then the activation code.
func DormantToSWD(bb Bus) error {
	if err := bb.WriteBits(0xFF, 8); err != nil {
		return err
	}
	for _, w := range []uint32{alertWord0, alertWord1, alertWord2, alertWord3} {
		if err := bb.WriteBits(uint64(w), 32); err != nil {
			return err
		}
	}
	if err := bb.WriteBits(0, 4); err != nil {
		return err
	}
	return bb.WriteBits(uint64(activationCode), 8)
}

// LineReset emits the line-reset sequence: 52 cycles high followed by 4
// cycles low, satisfying ADIv5's requirement of at least 50 ones followed
// by at least 2 zeros.
func LineReset(bb Bus) error {
	if err := bb.WriteBits(0xFFFFFFFF, 32); err != nil {
		return err
	}
	if err := bb.WriteBits(0xFFFFF, 20); err != nil {
		return err
	}
	return bb.WriteBits(0, 4)
}

// SelectTarget performs the DPv2 multi-drop TARGETSEL write. Unlike other
// requests this one produces no ACK: the host absorbs the park bit and 5
// undriven cycles, then writes the 32-bit target word and its parity with
// no read of a response.
func SelectTarget(bb Bus, cpuapid, instance uint32) error {
	word := cpuapid | (instance << targetSelInstanceShift)
	if err := bb.WriteBits(uint64(ReqWrDPTargetSel), 8); err != nil {
		return err
	}
	if _, err := bb.ReadBits(1 + 5); err != nil {
		return err
	}
	if err := bb.WriteBits(uint64(word), 32); err != nil {
		return err
	}
	return bb.WriteBits(parity32(word), 1)
}
