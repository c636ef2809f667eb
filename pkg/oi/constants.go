// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

// Package oi implements the iRobot Open Interface serial protocol for
// Create 2 and Roomba 500-800 series robots.
//
// The package is split the same way the protocol is: Core owns the byte
// channel and the stream state machine, Sensors turns sensor buffers into
// typed snapshots, Commands encodes validated control commands. All three
// share the closed error taxonomy in errors.go and keep their own
// statistics counters.
package oi

import "time"

// Timing constants. These are protocol requirements, not tuning knobs:
// the robot ignores serial traffic during the post-power window, the wake
// line must be pulsed at 100 ms, and stream frames arrive on a ~15 ms
// cadence.
const (
	PowerOnDelay       = 2000 * time.Millisecond
	WakePulseDuration  = 100 * time.Millisecond
	WakePulseCount     = 3
	InitSettleDelay    = 150 * time.Millisecond
	BaudSettleDelay    = 100 * time.Millisecond
	StreamTimeout      = 16 * time.Millisecond
	QueryResponseDelay = 15 * time.Millisecond
	QueryReadWindow    = 100 * time.Millisecond
	DefaultRefresh     = 40 * time.Millisecond
	SongDefineSettle   = 50 * time.Millisecond
)

// DefaultBaudRate is the rate a Create 2 talks at out of the box.
const DefaultBaudRate = 19200

// Opcode is a single-byte Open Interface command identifier.
type Opcode uint8

// Open Interface command opcodes.
const (
	OpStart          Opcode = 128
	OpBaud           Opcode = 129
	OpSafe           Opcode = 131
	OpFull           Opcode = 132
	OpPower          Opcode = 133
	OpSpot           Opcode = 134
	OpClean          Opcode = 135
	OpMaxClean       Opcode = 136
	OpDrive          Opcode = 137
	OpMotors         Opcode = 138
	OpLEDs           Opcode = 139
	OpSong           Opcode = 140
	OpPlay           Opcode = 141
	OpSensors        Opcode = 142
	OpSeekDock       Opcode = 143
	OpPWMMotors      Opcode = 144
	OpDriveDirect    Opcode = 145
	OpDrivePWM       Opcode = 146
	OpStream         Opcode = 148
	OpQueryList      Opcode = 149
	OpSchedulingLEDs Opcode = 162
	OpDigitLEDsRaw   Opcode = 163
	OpSchedule       Opcode = 167
	OpSetDayTime     Opcode = 168
)

// StreamHeader is the first byte of every sensor stream frame.
const StreamHeader = 19

// SensorID is a single-byte sensor packet identifier.
type SensorID uint8

// Individual sensor packet identifiers.
const (
	SensorBumpsWheelDrops           SensorID = 7
	SensorWall                      SensorID = 8
	SensorCliffLeft                 SensorID = 9
	SensorCliffFrontLeft            SensorID = 10
	SensorCliffFrontRight           SensorID = 11
	SensorCliffRight                SensorID = 12
	SensorVirtualWall               SensorID = 13
	SensorWheelOvercurrents         SensorID = 14
	SensorDirtDetect                SensorID = 15
	SensorIROpcode                  SensorID = 17
	SensorButtons                   SensorID = 18
	SensorChargingState             SensorID = 21
	SensorVoltage                   SensorID = 22
	SensorCurrent                   SensorID = 23
	SensorTemperature               SensorID = 24
	SensorBatteryCharge             SensorID = 25
	SensorBatteryCapacity           SensorID = 26
	SensorWallSignal                SensorID = 27
	SensorCliffLeftSignal           SensorID = 28
	SensorCliffFrontLeftSignal      SensorID = 29
	SensorCliffFrontRightSignal     SensorID = 30
	SensorCliffRightSignal          SensorID = 31
	SensorChargerAvailable          SensorID = 34
	SensorOIMode                    SensorID = 35
	SensorSongNumber                SensorID = 36
	SensorSongPlaying               SensorID = 37
	SensorStreamPacketCount         SensorID = 38
	SensorVelocity                  SensorID = 39
	SensorRadius                    SensorID = 40
	SensorVelocityRight             SensorID = 41
	SensorVelocityLeft              SensorID = 42
	SensorEncoderCountsLeft         SensorID = 43
	SensorEncoderCountsRight        SensorID = 44
	SensorLightBumper               SensorID = 45
	SensorLightBumpLeftSignal       SensorID = 46
	SensorLightBumpFrontLeftSignal  SensorID = 47
	SensorLightBumpCenterLeftSignal SensorID = 48
	SensorLightBumpCenterRightSig   SensorID = 49
	SensorLightBumpFrontRightSignal SensorID = 50
	SensorLightBumpRightSignal      SensorID = 51
	SensorIROpcodeLeft              SensorID = 52
	SensorIROpcodeRight             SensorID = 53
	SensorLeftMotorCurrent          SensorID = 54
	SensorRightMotorCurrent         SensorID = 55
	SensorMainBrushCurrent          SensorID = 56
	SensorSideBrushCurrent          SensorID = 57
	SensorStasis                    SensorID = 58
)

// Group packet identifiers accepted by QueryGroup. Each expands robot-side
// into a fixed span of individual packets.
const (
	GroupBumpsToCapacity = 0   // packets 7-26
	GroupBumpsToDirt     = 1   // packets 7-16
	GroupIRToAngle       = 2   // packets 17-20
	GroupChargingInfo    = 3   // packets 21-26
	GroupSignals         = 4   // packets 27-34
	GroupMode            = 5   // packets 35-42
	GroupAll             = 6   // packets 7-42
	GroupEverything      = 100 // packets 7-58
	GroupExtended        = 101 // packets 43-58
)

// Mode is the robot-side Open Interface mode.
type Mode uint8

const (
	ModeOff Mode = iota
	ModePassive
	ModeSafe
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModePassive:
		return "passive"
	case ModeSafe:
		return "safe"
	case ModeFull:
		return "full"
	}
	return "unknown"
}

// ChargingState is the battery charging state reported by packet 21.
type ChargingState uint8

const (
	ChargingNone ChargingState = iota
	ChargingReconditioning
	ChargingFull
	ChargingTrickle
	ChargingWaiting
	ChargingFault
)

func (c ChargingState) String() string {
	switch c {
	case ChargingNone:
		return "not charging"
	case ChargingReconditioning:
		return "reconditioning"
	case ChargingFull:
		return "full charging"
	case ChargingTrickle:
		return "trickle"
	case ChargingWaiting:
		return "waiting"
	case ChargingFault:
		return "fault"
	}
	return "unknown"
}

// Drive limits and sentinel radius values.
const (
	VelocityMax int16 = 500
	VelocityMin int16 = -500

	RadiusMax int16 = 2000
	RadiusMin int16 = -2000

	// RadiusStraight is 0x8000 on the wire. It does not fit in an int16,
	// so the sentinel is kept as the int32 value callers pass in.
	RadiusStraight     int32 = 32768
	RadiusTurnCCW      int32 = 1
	RadiusTurnCW       int32 = -1
	DefaultTurnSpeed   int16 = 200
	MotorPWMMax        int16 = 255
	WheelPWMMax        int16 = 255
	ScratchSongSlot          = 0
	SongSlotMax              = 4
	SongNotesMax             = 16
	NoteNumberMin            = 31
	NoteNumberMax            = 127
	BeepSequenceMax          = SongNotesMax / 2
	StreamSensorMax          = 60
	DefaultFrameCapacity     = 100
	QueryBufferSize          = 64
)

// Motor bitmask positions for the MOTORS command.
const (
	motorBitSideBrush        = 0x01
	motorBitVacuum           = 0x02
	motorBitMainBrush        = 0x04
	motorBitSideBrushReverse = 0x08
	motorBitMainBrushReverse = 0x10
)

// LED bitmask positions for the LEDS command.
const (
	ledBitDebris     = 0x01
	ledBitSpot       = 0x02
	ledBitDock       = 0x04
	ledBitCheckRobot = 0x08
)

// Power LED colors. The power LED blends from green (0) to red (255).
const (
	PowerLEDGreen byte = 0
	PowerLEDRed   byte = 255
)

// baudCodes maps supported baud rates to the single-byte code the BAUD
// command takes. Codes run 0..11 in ascending rate order.
var baudCodes = map[int]byte{
	300:    0,
	600:    1,
	1200:   2,
	2400:   3,
	4800:   4,
	9600:   5,
	14400:  6,
	19200:  7,
	28800:  8,
	38400:  9,
	57600:  10,
	115200: 11,
}

// BaudRates returns the baud rates the BAUD command accepts, ascending.
func BaudRates() []int {
	return []int{300, 600, 1200, 2400, 4800, 9600, 14400, 19200, 28800, 38400, 57600, 115200}
}
