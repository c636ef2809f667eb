// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"fmt"
	"strings"
)

// FormatOpcode returns the human-readable name for a command opcode.
func FormatOpcode(op Opcode) string {
	switch op {
	case OpStart:
		return "START"
	case OpBaud:
		return "BAUD"
	case OpSafe:
		return "SAFE"
	case OpFull:
		return "FULL"
	case OpPower:
		return "POWER"
	case OpSpot:
		return "SPOT"
	case OpClean:
		return "CLEAN"
	case OpMaxClean:
		return "MAX_CLEAN"
	case OpDrive:
		return "DRIVE"
	case OpMotors:
		return "MOTORS"
	case OpLEDs:
		return "LEDS"
	case OpSong:
		return "SONG"
	case OpPlay:
		return "PLAY"
	case OpSensors:
		return "SENSORS"
	case OpSeekDock:
		return "SEEK_DOCK"
	case OpPWMMotors:
		return "PWM_MOTORS"
	case OpDriveDirect:
		return "DRIVE_DIRECT"
	case OpDrivePWM:
		return "DRIVE_PWM"
	case OpStream:
		return "STREAM"
	case OpQueryList:
		return "QUERY_LIST"
	case OpSchedulingLEDs:
		return "SCHEDULING_LEDS"
	case OpDigitLEDsRaw:
		return "DIGIT_LEDS_RAW"
	case OpSchedule:
		return "SCHEDULE"
	case OpSetDayTime:
		return "SET_DAY_TIME"
	}
	return fmt.Sprintf("OPCODE_%d", op)
}

// FormatSensorID returns the human-readable name for a sensor packet.
func FormatSensorID(id SensorID) string {
	switch id {
	case SensorBumpsWheelDrops:
		return "BUMPS_WHEEL_DROPS"
	case SensorWall:
		return "WALL"
	case SensorCliffLeft:
		return "CLIFF_LEFT"
	case SensorCliffFrontLeft:
		return "CLIFF_FRONT_LEFT"
	case SensorCliffFrontRight:
		return "CLIFF_FRONT_RIGHT"
	case SensorCliffRight:
		return "CLIFF_RIGHT"
	case SensorVirtualWall:
		return "VIRTUAL_WALL"
	case SensorWheelOvercurrents:
		return "WHEEL_OVERCURRENTS"
	case SensorDirtDetect:
		return "DIRT_DETECT"
	case SensorIROpcode:
		return "IR_OPCODE"
	case SensorButtons:
		return "BUTTONS"
	case SensorChargingState:
		return "CHARGING_STATE"
	case SensorVoltage:
		return "VOLTAGE"
	case SensorCurrent:
		return "CURRENT"
	case SensorTemperature:
		return "TEMPERATURE"
	case SensorBatteryCharge:
		return "BATTERY_CHARGE"
	case SensorBatteryCapacity:
		return "BATTERY_CAPACITY"
	case SensorWallSignal:
		return "WALL_SIGNAL"
	case SensorCliffLeftSignal:
		return "CLIFF_LEFT_SIGNAL"
	case SensorCliffFrontLeftSignal:
		return "CLIFF_FRONT_LEFT_SIGNAL"
	case SensorCliffFrontRightSignal:
		return "CLIFF_FRONT_RIGHT_SIGNAL"
	case SensorCliffRightSignal:
		return "CLIFF_RIGHT_SIGNAL"
	case SensorChargerAvailable:
		return "CHARGER_AVAILABLE"
	case SensorOIMode:
		return "OI_MODE"
	case SensorSongNumber:
		return "SONG_NUMBER"
	case SensorSongPlaying:
		return "SONG_PLAYING"
	case SensorStreamPacketCount:
		return "STREAM_PACKET_COUNT"
	case SensorVelocity:
		return "VELOCITY"
	case SensorRadius:
		return "RADIUS"
	case SensorVelocityRight:
		return "VELOCITY_RIGHT"
	case SensorVelocityLeft:
		return "VELOCITY_LEFT"
	case SensorEncoderCountsLeft:
		return "ENCODER_COUNTS_LEFT"
	case SensorEncoderCountsRight:
		return "ENCODER_COUNTS_RIGHT"
	case SensorLightBumper:
		return "LIGHT_BUMPER"
	case SensorLightBumpLeftSignal:
		return "LIGHT_BUMP_LEFT_SIGNAL"
	case SensorLightBumpFrontLeftSignal:
		return "LIGHT_BUMP_FRONT_LEFT_SIGNAL"
	case SensorLightBumpCenterLeftSignal:
		return "LIGHT_BUMP_CENTER_LEFT_SIGNAL"
	case SensorLightBumpCenterRightSig:
		return "LIGHT_BUMP_CENTER_RIGHT_SIGNAL"
	case SensorLightBumpFrontRightSignal:
		return "LIGHT_BUMP_FRONT_RIGHT_SIGNAL"
	case SensorLightBumpRightSignal:
		return "LIGHT_BUMP_RIGHT_SIGNAL"
	case SensorIROpcodeLeft:
		return "IR_OPCODE_LEFT"
	case SensorIROpcodeRight:
		return "IR_OPCODE_RIGHT"
	case SensorLeftMotorCurrent:
		return "LEFT_MOTOR_CURRENT"
	case SensorRightMotorCurrent:
		return "RIGHT_MOTOR_CURRENT"
	case SensorMainBrushCurrent:
		return "MAIN_BRUSH_CURRENT"
	case SensorSideBrushCurrent:
		return "SIDE_BRUSH_CURRENT"
	case SensorStasis:
		return "STASIS"
	}
	return fmt.Sprintf("SENSOR_%d", id)
}

// FormatFrame renders a decoded stream frame content buffer as one line
// per (identifier, value) pair.
func FormatFrame(content []byte) string {
	var b strings.Builder
	for i := 0; i < len(content); {
		id := SensorID(content[i])
		i++
		kind, ok := sensorWire[id]
		if !ok {
			fmt.Fprintf(&b, "  %s = ?\n", FormatSensorID(id))
			break
		}
		if i+kind.width() > len(content) {
			fmt.Fprintf(&b, "  %s = <truncated>\n", FormatSensorID(id))
			break
		}
		switch kind {
		case wireU16:
			fmt.Fprintf(&b, "  %-30s = %d\n", FormatSensorID(id), uint16(content[i])<<8|uint16(content[i+1]))
			i += 2
		case wireS16:
			fmt.Fprintf(&b, "  %-30s = %d\n", FormatSensorID(id), int16(uint16(content[i])<<8|uint16(content[i+1])))
			i += 2
		case wireFlags:
			fmt.Fprintf(&b, "  %-30s = %08b\n", FormatSensorID(id), content[i])
			i++
		case wireBool:
			fmt.Fprintf(&b, "  %-30s = %t\n", FormatSensorID(id), content[i] != 0)
			i++
		case wireS8:
			fmt.Fprintf(&b, "  %-30s = %d\n", FormatSensorID(id), int8(content[i]))
			i++
		default:
			fmt.Fprintf(&b, "  %-30s = %d\n", FormatSensorID(id), content[i])
			i++
		}
	}
	return b.String()
}

// FormatSnapshot renders the commonly watched snapshot fields as a
// multi-line status block.
func FormatSnapshot(s *Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode:        %s\n", s.Mode)
	fmt.Fprintf(&b, "Battery:     %.0f%% (%d mV, %d mA, %d C, %s)\n",
		s.BatteryPercent(), s.Voltage, s.Current, s.Temperature, s.ChargingState)
	fmt.Fprintf(&b, "Velocity:    %d mm/s (L %d / R %d), radius %d mm\n",
		s.Velocity, s.VelocityLeft, s.VelocityRight, s.Radius)

	var events []string
	if s.Bumps.BumpLeft {
		events = append(events, "bump-left")
	}
	if s.Bumps.BumpRight {
		events = append(events, "bump-right")
	}
	if s.Bumps.WheelDropLeft {
		events = append(events, "wheel-drop-left")
	}
	if s.Bumps.WheelDropRight {
		events = append(events, "wheel-drop-right")
	}
	if s.Cliffs().Any() {
		events = append(events, "cliff")
	}
	if s.Wall {
		events = append(events, "wall")
	}
	if s.VirtualWall {
		events = append(events, "virtual-wall")
	}
	if len(events) == 0 {
		fmt.Fprintf(&b, "Events:      none\n")
	} else {
		fmt.Fprintf(&b, "Events:      %s\n", strings.Join(events, ", "))
	}

	if !s.LastUpdate.IsZero() {
		fmt.Fprintf(&b, "Updated:     %s", s.LastUpdate.Format("15:04:05.000"))
		if s.FailedReads > 0 {
			fmt.Fprintf(&b, " (%d failed reads since)", s.FailedReads)
		}
		b.WriteString("\n")
	}
	return b.String()
}
