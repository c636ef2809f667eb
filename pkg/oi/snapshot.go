// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import "time"

// BumpsWheelDrops is the bit-flag group of sensor packet 7.
type BumpsWheelDrops struct {
	BumpRight      bool // bit 0
	BumpLeft       bool // bit 1
	WheelDropRight bool // bit 2
	WheelDropLeft  bool // bit 3
}

// UnpackBumpsWheelDrops expands packet 7's flag byte.
func UnpackBumpsWheelDrops(b byte) BumpsWheelDrops {
	return BumpsWheelDrops{
		BumpRight:      b&0x01 != 0,
		BumpLeft:       b&0x02 != 0,
		WheelDropRight: b&0x04 != 0,
		WheelDropLeft:  b&0x08 != 0,
	}
}

// Pack is the inverse of UnpackBumpsWheelDrops.
func (v BumpsWheelDrops) Pack() byte {
	var b byte
	if v.BumpRight {
		b |= 0x01
	}
	if v.BumpLeft {
		b |= 0x02
	}
	if v.WheelDropRight {
		b |= 0x04
	}
	if v.WheelDropLeft {
		b |= 0x08
	}
	return b
}

// Overcurrents is the bit-flag group of sensor packet 14.
type Overcurrents struct {
	SideBrush  bool // bit 0
	Vacuum     bool // bit 1
	MainBrush  bool // bit 2
	WheelRight bool // bit 3
	WheelLeft  bool // bit 4
}

// UnpackOvercurrents expands packet 14's flag byte.
func UnpackOvercurrents(b byte) Overcurrents {
	return Overcurrents{
		SideBrush:  b&0x01 != 0,
		Vacuum:     b&0x02 != 0,
		MainBrush:  b&0x04 != 0,
		WheelRight: b&0x08 != 0,
		WheelLeft:  b&0x10 != 0,
	}
}

// Pack is the inverse of UnpackOvercurrents.
func (v Overcurrents) Pack() byte {
	var b byte
	if v.SideBrush {
		b |= 0x01
	}
	if v.Vacuum {
		b |= 0x02
	}
	if v.MainBrush {
		b |= 0x04
	}
	if v.WheelRight {
		b |= 0x08
	}
	if v.WheelLeft {
		b |= 0x10
	}
	return b
}

// Buttons is the bit-flag group of sensor packet 18.
type Buttons struct {
	Clean    bool // bit 0
	Spot     bool // bit 1
	Dock     bool // bit 2
	Minute   bool // bit 3
	Hour     bool // bit 4
	Day      bool // bit 5
	Schedule bool // bit 6
	Clock    bool // bit 7
}

// UnpackButtons expands packet 18's flag byte.
func UnpackButtons(b byte) Buttons {
	return Buttons{
		Clean:    b&0x01 != 0,
		Spot:     b&0x02 != 0,
		Dock:     b&0x04 != 0,
		Minute:   b&0x08 != 0,
		Hour:     b&0x10 != 0,
		Day:      b&0x20 != 0,
		Schedule: b&0x40 != 0,
		Clock:    b&0x80 != 0,
	}
}

// Pack is the inverse of UnpackButtons.
func (v Buttons) Pack() byte {
	var b byte
	if v.Clean {
		b |= 0x01
	}
	if v.Spot {
		b |= 0x02
	}
	if v.Dock {
		b |= 0x04
	}
	if v.Minute {
		b |= 0x08
	}
	if v.Hour {
		b |= 0x10
	}
	if v.Day {
		b |= 0x20
	}
	if v.Schedule {
		b |= 0x40
	}
	if v.Clock {
		b |= 0x80
	}
	return b
}

// LightBumper is the bit-flag group of sensor packet 45.
type LightBumper struct {
	Left        bool // bit 0
	FrontLeft   bool // bit 1
	CenterLeft  bool // bit 2
	CenterRight bool // bit 3
	FrontRight  bool // bit 4
	Right       bool // bit 5
}

// UnpackLightBumper expands packet 45's flag byte.
func UnpackLightBumper(b byte) LightBumper {
	return LightBumper{
		Left:        b&0x01 != 0,
		FrontLeft:   b&0x02 != 0,
		CenterLeft:  b&0x04 != 0,
		CenterRight: b&0x08 != 0,
		FrontRight:  b&0x10 != 0,
		Right:       b&0x20 != 0,
	}
}

// Pack is the inverse of UnpackLightBumper.
func (v LightBumper) Pack() byte {
	var b byte
	if v.Left {
		b |= 0x01
	}
	if v.FrontLeft {
		b |= 0x02
	}
	if v.CenterLeft {
		b |= 0x04
	}
	if v.CenterRight {
		b |= 0x08
	}
	if v.FrontRight {
		b |= 0x10
	}
	if v.Right {
		b |= 0x20
	}
	return b
}

// ChargerAvailability is the bit-flag group of sensor packet 34.
type ChargerAvailability struct {
	Internal bool // bit 0
	HomeBase bool // bit 1
}

// UnpackChargerAvailability expands packet 34's flag byte.
func UnpackChargerAvailability(b byte) ChargerAvailability {
	return ChargerAvailability{
		Internal: b&0x01 != 0,
		HomeBase: b&0x02 != 0,
	}
}

// Pack is the inverse of UnpackChargerAvailability.
func (v ChargerAvailability) Pack() byte {
	var b byte
	if v.Internal {
		b |= 0x01
	}
	if v.HomeBase {
		b |= 0x02
	}
	return b
}

// Stasis is the bit-flag group of sensor packet 58.
type Stasis struct {
	Toggling bool // bit 0
	Disabled bool // bit 1
}

// UnpackStasis expands packet 58's flag byte.
func UnpackStasis(b byte) Stasis {
	return Stasis{
		Toggling: b&0x01 != 0,
		Disabled: b&0x02 != 0,
	}
}

// Pack is the inverse of UnpackStasis.
func (v Stasis) Pack() byte {
	var b byte
	if v.Toggling {
		b |= 0x01
	}
	if v.Disabled {
		b |= 0x02
	}
	return b
}

// CliffFlags collects the four binary cliff detectors.
type CliffFlags struct {
	Left       bool
	FrontLeft  bool
	FrontRight bool
	Right      bool
}

// Any reports whether any cliff detector fired.
func (c CliffFlags) Any() bool {
	return c.Left || c.FrontLeft || c.FrontRight || c.Right
}

// BatteryInfo bundles the battery-related sensor values.
type BatteryInfo struct {
	Voltage     uint16 // mV
	Current     int16  // mA, negative while discharging
	Charge      uint16 // mAh
	Capacity    uint16 // mAh
	Temperature int8   // degrees C
	State       ChargingState
}

// Percent returns the charge level, 0-100.
func (b BatteryInfo) Percent() float64 {
	if b.Capacity == 0 {
		return 0
	}
	return float64(b.Charge) * 100.0 / float64(b.Capacity)
}

// Snapshot holds the last decoded value for every understood sensor
// packet. A field is only meaningful if its identifier appeared in the
// most recently decoded buffer; freshness is tracked per snapshot via
// LastUpdate, not per field.
//
// The snapshot is long-lived: streaming updates it in place, one-shot
// reads overwrite the queried fields.
type Snapshot struct {
	Mode          Mode
	ChargingState ChargingState

	Voltage         uint16 // mV
	Current         int16  // mA
	Temperature     int8   // degrees C
	BatteryCharge   uint16 // mAh
	BatteryCapacity uint16 // mAh

	Wall        bool
	VirtualWall bool
	WallSignal  uint16

	CliffLeft            bool
	CliffFrontLeft       bool
	CliffFrontRight      bool
	CliffRight           bool
	CliffLeftSignal      uint16
	CliffFrontLeftSignal uint16
	CliffFrontRightSig   uint16
	CliffRightSignal     uint16

	Bumps        BumpsWheelDrops
	Overcurrents Overcurrents
	Buttons      Buttons
	LightBumper  LightBumper
	Charger      ChargerAvailability
	Stasis       Stasis

	LightBumpLeftSignal        uint16
	LightBumpFrontLeftSignal   uint16
	LightBumpCenterLeftSignal  uint16
	LightBumpCenterRightSignal uint16
	LightBumpFrontRightSignal  uint16
	LightBumpRightSignal       uint16

	DirtDetect    uint8
	IROpcode      uint8
	IROpcodeLeft  uint8
	IROpcodeRight uint8

	SongNumber        uint8
	SongPlaying       bool
	StreamPacketCount uint8

	Velocity           int16 // mm/s
	Radius             int16 // mm
	VelocityRight      int16
	VelocityLeft       int16
	EncoderCountsLeft  uint16
	EncoderCountsRight uint16

	LeftMotorCurrent  int16
	RightMotorCurrent int16
	MainBrushCurrent  int16
	SideBrushCurrent  int16

	// Staleness metadata maintained by Sensors.UpdateFromStream.
	LastUpdate  time.Time
	FailedReads int

	nextRefresh time.Time
}

// Battery bundles the battery fields into a BatteryInfo.
func (s *Snapshot) Battery() BatteryInfo {
	return BatteryInfo{
		Voltage:     s.Voltage,
		Current:     s.Current,
		Charge:      s.BatteryCharge,
		Capacity:    s.BatteryCapacity,
		Temperature: s.Temperature,
		State:       s.ChargingState,
	}
}

// BatteryPercent returns the charge level, 0-100.
func (s *Snapshot) BatteryPercent() float64 {
	return s.Battery().Percent()
}

// Cliffs bundles the four cliff detector flags.
func (s *Snapshot) Cliffs() CliffFlags {
	return CliffFlags{
		Left:       s.CliffLeft,
		FrontLeft:  s.CliffFrontLeft,
		FrontRight: s.CliffFrontRight,
		Right:      s.CliffRight,
	}
}

// Bumpers returns the left and right bumper flags.
func (s *Snapshot) Bumpers() (left, right bool) {
	return s.Bumps.BumpLeft, s.Bumps.BumpRight
}

// Fresh reports whether the snapshot was updated within maxAge.
func (s *Snapshot) Fresh(maxAge time.Duration) bool {
	if s.LastUpdate.IsZero() {
		return false
	}
	return time.Since(s.LastUpdate) <= maxAge
}
