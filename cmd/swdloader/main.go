// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// swdloader loads a raw binary image into an RP2040's SRAM over a
// bit-banged SWD bus and starts it running, without a debug probe: just
// two (or three, with reset) GPIO pins on a Linux SBC.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"periph.io/x/conn/v3/physic"

	host "github.com/lurk101/swdloader"
	"github.com/lurk101/swdloader/loader"
	"github.com/lurk101/swdloader/pinio"
	"github.com/lurk101/swdloader/session"
	"github.com/lurk101/swdloader/swd"
)

func mainImpl() error {
	dio := flag.String("d", "GPIO3", "DIO pin name")
	clk := flag.String("c", "GPIO2", "CLK pin name")
	reset := flag.String("r", "GPIO4", "RESET pin name, or 0 to disable")
	freq := flag.Uint("f", 1000, "SWD clock rate in kHz")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if flag.NArg() != 1 {
		return errors.New("specify exactly one image file")
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	img := &loader.Image{Data: data, Address: swd.RAMBase}
	if err := img.Validate(); err != nil {
		return err
	}
	fmt.Printf("Image size %d bytes (%#08x-%#08x)\n", len(data), img.Address, img.Address+uint32(len(data)))

	if _, err := host.Init(); err != nil {
		return err
	}

	resetName := *reset
	if resetName == "0" {
		resetName = ""
	}
	fmt.Printf("SWD dio=%s, clk=%s\n", *dio, *clk)

	rate := physic.Frequency(*freq) * physic.KiloHertz
	sess, err := session.New(*clk, *dio, resetName, pinio.BackendAuto, rate)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("close: %s", err)
		}
	}()

	if err := sess.Pulse(); err != nil {
		return err
	}

	ld := loader.New(sess.BitBang())
	if err := ld.BringUp(); err != nil {
		return err
	}

	elapsed, err := ld.Load(img, func(addr uint32) {
		fmt.Printf("  %#08x\n", addr)
	})
	if err != nil {
		return err
	}

	seconds := elapsed.Seconds()
	var rate64 float64
	if seconds > 0 {
		rate64 = float64(len(data)) / 1024 / seconds
	}
	fmt.Printf("%d bytes loaded in %.3f seconds (%.1f KBytes/s)\n", len(data), seconds, rate64)

	fmt.Println("Starting")
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "swdloader: %s.\n", err)
		os.Exit(1)
	}
}
