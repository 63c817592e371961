// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package loader implements target bring-up, halt, chunked image load with
// verify, and start for an RP2040 attached over the swd package's SWD
// engine.
package loader

import (
	"github.com/lurk101/swdloader/swd"
	"github.com/lurk101/swdloader/swderr"
)

// sramSize is the RP2040's on-chip SRAM size; Image.Address plus len(Data)
// must fit within [swd.RAMBase, swd.RAMBase+sramSize).
const sramSize = 264 * 1024

// blockSize is the chunk size load_chunk writes and verifies at a time.
const blockSize = 1024

// Image is a contiguous byte buffer to be written into target RAM at
// Address, little-endian, word by word.
type Image struct {
	Data    []byte
	Address uint32
}

// Validate checks the invariants load_chunk relies on: a non-empty,
// word-multiple length, and an address range inside target RAM.
func (img *Image) Validate() error {
	if len(img.Data) == 0 {
		return &swderr.Invariant{Msg: "image is empty"}
	}
	if len(img.Data)%4 != 0 {
		return &swderr.Invariant{Msg: "image length is not a multiple of 4"}
	}
	if img.Address < swd.RAMBase || uint64(img.Address)+uint64(len(img.Data)) > uint64(swd.RAMBase)+sramSize {
		return &swderr.Invariant{Msg: "image address range lies outside target RAM"}
	}
	return nil
}
