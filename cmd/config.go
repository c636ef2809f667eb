// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

// runtimeConfig holds the settings every command shares. Precedence is
// flags over config file over these defaults.
type runtimeConfig struct {
	Port          string
	Baud          int
	WakeLine      string // "rts", "dtr" or "none"
	Preset        string
	FrameCapacity int
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		Baud:          oi.DefaultBaudRate,
		WakeLine:      "rts",
		Preset:        oi.PresetBasic.String(),
		FrameCapacity: oi.DefaultFrameCapacity,
	}
}

// roomctl config.toml key mapping to runtime settings.
type fileConfig struct {
	Port          string `toml:"port"`
	Baud          int    `toml:"baud"`
	WakeLine      string `toml:"wake_line"`
	Preset        string `toml:"preset"`
	FrameCapacity int    `toml:"frame_capacity"`
}

// loadConfigFile overlays a TOML file onto cfg. Only keys present in the
// file are applied.
func loadConfigFile(path string, cfg *runtimeConfig) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("wake_line") {
		cfg.WakeLine = strings.ToLower(strings.TrimSpace(raw.WakeLine))
	}
	if meta.IsDefined("preset") {
		cfg.Preset = strings.TrimSpace(raw.Preset)
	}
	if meta.IsDefined("frame_capacity") {
		cfg.FrameCapacity = raw.FrameCapacity
	}

	switch cfg.WakeLine {
	case "rts", "dtr", "none":
	default:
		return fmt.Errorf("load config: unsupported wake_line %q (expected rts, dtr or none)", cfg.WakeLine)
	}
	if cfg.FrameCapacity < 0 {
		return fmt.Errorf("load config: negative frame_capacity %d", cfg.FrameCapacity)
	}
	if _, err := oi.ParsePreset(cfg.Preset); err != nil {
		return fmt.Errorf("load config: unknown preset %q", cfg.Preset)
	}
	return nil
}
