// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile_Overlay(t *testing.T) {
	path := writeConfig(t, `
port = "/dev/ttyUSB1"
baud = 115200
wake_line = "dtr"
preset = "battery"
`)
	c := defaultRuntimeConfig()
	if err := loadConfigFile(path, &c); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if c.Port != "/dev/ttyUSB1" {
		t.Errorf("Port = %q", c.Port)
	}
	if c.Baud != 115200 {
		t.Errorf("Baud = %d", c.Baud)
	}
	if c.WakeLine != "dtr" {
		t.Errorf("WakeLine = %q", c.WakeLine)
	}
	if c.Preset != "battery" {
		t.Errorf("Preset = %q", c.Preset)
	}
	// Keys absent from the file keep their defaults.
	if c.FrameCapacity != oi.DefaultFrameCapacity {
		t.Errorf("FrameCapacity = %d, expected default %d", c.FrameCapacity, oi.DefaultFrameCapacity)
	}
}

func TestLoadConfigFile_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `port = "/dev/ttyACM0"`)
	c := defaultRuntimeConfig()
	if err := loadConfigFile(path, &c); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if c.Port != "/dev/ttyACM0" {
		t.Errorf("Port = %q", c.Port)
	}
	if c.Baud != oi.DefaultBaudRate {
		t.Errorf("Baud = %d, expected default", c.Baud)
	}
	if c.WakeLine != "rts" {
		t.Errorf("WakeLine = %q, expected rts", c.WakeLine)
	}
}

func TestLoadConfigFile_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad wake line", `wake_line = "gpio7"`},
		{"bad preset", `preset = "everything"`},
		{"negative capacity", `frame_capacity = -1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			c := defaultRuntimeConfig()
			if err := loadConfigFile(path, &c); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	c := defaultRuntimeConfig()
	if err := loadConfigFile(filepath.Join(t.TempDir(), "absent.toml"), &c); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseDayTime(t *testing.T) {
	at, err := parseDayTime("9:30")
	if err != nil {
		t.Fatalf("parseDayTime: %v", err)
	}
	if at.Hour != 9 || at.Minute != 30 {
		t.Errorf("got %s", at)
	}
	for _, bad := range []string{"930", "24:00", "9:60", "x:y"} {
		if _, err := parseDayTime(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestParseScheduleEntry(t *testing.T) {
	day, at, err := parseScheduleEntry("thu=14:00")
	if err != nil {
		t.Fatalf("parseScheduleEntry: %v", err)
	}
	if day != oi.Thursday || at.Hour != 14 || at.Minute != 0 {
		t.Errorf("got %s %s", day, at)
	}
	if _, _, err := parseScheduleEntry("thursday"); err == nil {
		t.Error("entry without time should be rejected")
	}
}
