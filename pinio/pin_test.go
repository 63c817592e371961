// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinio

import "testing"

func TestLevelMemoDefaultsLow(t *testing.T) {
	var m LevelMemo
	if got := m.Recall(); got != Low {
		t.Errorf("got %v, want Low", got)
	}
}

func TestLevelMemoRemembersAcrossDirectionFlip(t *testing.T) {
	var m LevelMemo
	m.Remember(High)
	if got := m.Recall(); got != High {
		t.Errorf("got %v, want High", got)
	}
	// A backend's flip back to output only calls Recall; a second Recall
	// stands in for that flip and must leave the memo unchanged.
	if got := m.Recall(); got != High {
		t.Errorf("got %v after a no-op recall, want it unchanged", got)
	}
}

func TestLevelString(t *testing.T) {
	if Low.String() != "low" || High.String() != "high" {
		t.Errorf("Level.String() mismatch: low=%q high=%q", Low.String(), High.String())
	}
}

func TestDirectionString(t *testing.T) {
	if Input.String() != "input" || Output.String() != "output" {
		t.Errorf("Direction.String() mismatch: input=%q output=%q", Input.String(), Output.String())
	}
}

func TestBackendString(t *testing.T) {
	cases := map[Backend]string{
		BackendAuto:      "auto",
		BackendGPIOIoctl: "gpioioctl",
		BackendSysfs:     "sysfs",
	}
	for b, want := range cases {
		if got := b.String(); got != want {
			t.Errorf("Backend(%d).String() = %q, want %q", b, got, want)
		}
	}
}
