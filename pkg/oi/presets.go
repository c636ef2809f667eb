// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import "strings"

// Preset names a fixed sensor identifier list for a common use case,
// ready to hand to StartStream or QueryMany.
type Preset uint8

const (
	PresetBasic Preset = iota
	PresetNavigation
	PresetSafety
	PresetBattery
	PresetButtons
	PresetLightBumpers
	PresetAll
)

var presetNames = map[Preset]string{
	PresetBasic:        "basic",
	PresetNavigation:   "navigation",
	PresetSafety:       "safety",
	PresetBattery:      "battery",
	PresetButtons:      "buttons",
	PresetLightBumpers: "light-bumpers",
	PresetAll:          "all",
}

func (p Preset) String() string {
	if s, ok := presetNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePreset resolves a preset by name.
func ParsePreset(s string) (Preset, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for p, name := range presetNames {
		if name == needle {
			return p, nil
		}
	}
	return 0, errf(InvalidParameter, "ParsePreset", "unknown preset %q", s)
}

var presetLists = map[Preset][]SensorID{
	PresetBasic: {
		SensorBumpsWheelDrops,
		SensorWall,
		SensorCliffLeft,
		SensorCliffFrontLeft,
		SensorCliffFrontRight,
		SensorCliffRight,
		SensorVoltage,
		SensorBatteryCharge,
	},
	PresetNavigation: {
		SensorVelocity,
		SensorRadius,
		SensorVelocityLeft,
		SensorVelocityRight,
		SensorEncoderCountsLeft,
		SensorEncoderCountsRight,
	},
	PresetSafety: {
		SensorBumpsWheelDrops,
		SensorCliffLeft,
		SensorCliffFrontLeft,
		SensorCliffFrontRight,
		SensorCliffRight,
		SensorWheelOvercurrents,
		SensorVirtualWall,
		SensorWall,
	},
	PresetBattery: {
		SensorVoltage,
		SensorCurrent,
		SensorBatteryCharge,
		SensorBatteryCapacity,
		SensorTemperature,
		SensorChargingState,
	},
	PresetButtons: {
		SensorButtons,
		SensorIROpcode,
		SensorIROpcodeLeft,
		SensorIROpcodeRight,
	},
	PresetLightBumpers: {
		SensorLightBumper,
		SensorLightBumpLeftSignal,
		SensorLightBumpFrontLeftSignal,
		SensorLightBumpCenterLeftSignal,
		SensorLightBumpCenterRightSig,
		SensorLightBumpFrontRightSignal,
		SensorLightBumpRightSignal,
	},
	PresetAll: {
		SensorOIMode,
		SensorTemperature,
		SensorVoltage,
		SensorBatteryCharge,
		SensorBumpsWheelDrops,
		SensorWall,
		SensorCliffLeft,
		SensorCliffFrontLeft,
		SensorCliffRight,
		SensorCliffFrontRight,
		SensorChargingState,
		SensorCurrent,
		SensorBatteryCapacity,
		SensorButtons,
		SensorVelocity,
	},
}

// IDs returns the identifier list for the preset. The returned slice is
// a copy; callers may mutate it.
func (p Preset) IDs() []SensorID {
	src, ok := presetLists[p]
	if !ok {
		return nil
	}
	out := make([]SensorID, len(src))
	copy(out, src)
	return out
}

// Presets returns every named preset in declaration order.
func Presets() []Preset {
	return []Preset{
		PresetBasic, PresetNavigation, PresetSafety,
		PresetBattery, PresetButtons, PresetLightBumpers, PresetAll,
	}
}
