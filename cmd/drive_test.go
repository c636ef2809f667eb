// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import "testing"

func TestTurnRadius(t *testing.T) {
	for _, ok := range []int32{0, 1, -1, 2000, -2000} {
		got, err := turnRadius(ok)
		if err != nil {
			t.Errorf("turnRadius(%d): %v", ok, err)
		}
		if int32(got) != ok {
			t.Errorf("turnRadius(%d) = %d", ok, got)
		}
	}
	// Out-of-range values must be rejected, not wrapped by the int16
	// narrowing (70000 would otherwise become 4464).
	for _, bad := range []int32{2001, -2001, 70000, -70000} {
		if _, err := turnRadius(bad); err == nil {
			t.Errorf("turnRadius(%d) should be rejected", bad)
		}
	}
}

func TestParseVelocity(t *testing.T) {
	v, err := parseVelocity("-500")
	if err != nil {
		t.Fatalf("parseVelocity: %v", err)
	}
	if v != -500 {
		t.Errorf("got %d", v)
	}
	for _, bad := range []string{"501", "-501", "fast"} {
		if _, err := parseVelocity(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}
