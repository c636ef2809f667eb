// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

// wireKind describes how a sensor packet's payload sits on the wire.
type wireKind uint8

const (
	wireU8    wireKind = iota // 1 byte, unsigned
	wireS8                    // 1 byte, signed
	wireBool                  // 1 byte, zero/nonzero
	wireU16                   // 2 bytes, big-endian unsigned
	wireS16                   // 2 bytes, big-endian signed
	wireFlags                 // 1 byte, bit-flag group
)

func (k wireKind) width() int {
	if k == wireU16 || k == wireS16 {
		return 2
	}
	return 1
}

// sensorWire is the single source of truth for per-identifier wire
// width and signedness. The decode loop dispatches on it; nothing else
// hand-parses sensor bytes.
var sensorWire = map[SensorID]wireKind{
	SensorBumpsWheelDrops:           wireFlags,
	SensorWall:                      wireBool,
	SensorCliffLeft:                 wireBool,
	SensorCliffFrontLeft:            wireBool,
	SensorCliffFrontRight:           wireBool,
	SensorCliffRight:                wireBool,
	SensorVirtualWall:               wireBool,
	SensorWheelOvercurrents:         wireFlags,
	SensorDirtDetect:                wireU8,
	SensorIROpcode:                  wireU8,
	SensorButtons:                   wireFlags,
	SensorChargingState:             wireU8,
	SensorVoltage:                   wireU16,
	SensorCurrent:                   wireS16,
	SensorTemperature:               wireS8,
	SensorBatteryCharge:             wireU16,
	SensorBatteryCapacity:           wireU16,
	SensorWallSignal:                wireU16,
	SensorCliffLeftSignal:           wireU16,
	SensorCliffFrontLeftSignal:      wireU16,
	SensorCliffFrontRightSignal:     wireU16,
	SensorCliffRightSignal:          wireU16,
	SensorChargerAvailable:          wireFlags,
	SensorOIMode:                    wireU8,
	SensorSongNumber:                wireU8,
	SensorSongPlaying:               wireBool,
	SensorStreamPacketCount:         wireU8,
	SensorVelocity:                  wireS16,
	SensorRadius:                    wireS16,
	SensorVelocityRight:             wireS16,
	SensorVelocityLeft:              wireS16,
	SensorEncoderCountsLeft:         wireU16,
	SensorEncoderCountsRight:        wireU16,
	SensorLightBumper:               wireFlags,
	SensorLightBumpLeftSignal:       wireU16,
	SensorLightBumpFrontLeftSignal:  wireU16,
	SensorLightBumpCenterLeftSignal: wireU16,
	SensorLightBumpCenterRightSig:   wireU16,
	SensorLightBumpFrontRightSignal: wireU16,
	SensorLightBumpRightSignal:      wireU16,
	SensorIROpcodeLeft:              wireU8,
	SensorIROpcodeRight:             wireU8,
	SensorLeftMotorCurrent:          wireS16,
	SensorRightMotorCurrent:         wireS16,
	SensorMainBrushCurrent:          wireS16,
	SensorSideBrushCurrent:          wireS16,
	SensorStasis:                    wireFlags,
}

// WireWidth returns the payload byte count for a sensor identifier and
// whether the identifier is known.
func WireWidth(id SensorID) (int, bool) {
	k, ok := sensorWire[id]
	if !ok {
		return 0, false
	}
	return k.width(), true
}

// Decode walks a flat (identifier, value) buffer — a one-shot query
// response or the content of a stream frame — and writes each understood
// value into the snapshot.
//
// An unknown identifier aborts the walk with InvalidParameter: a packet
// the caller never requested implies the buffer is misaligned and the
// remaining bytes cannot be trusted. Fields written before the abort are
// kept; they were decoded from validated positions and are not rolled
// back.
func Decode(buf []byte, snap *Snapshot) error {
	if len(buf) == 0 || snap == nil {
		return errf(InvalidParameter, "Decode", "empty buffer")
	}

	for i := 0; i < len(buf); {
		id := SensorID(buf[i])
		i++

		kind, ok := sensorWire[id]
		if !ok {
			return errf(InvalidParameter, "Decode", "unknown sensor identifier %d at offset %d", id, i-1)
		}
		if i+kind.width() > len(buf) {
			return errf(InvalidParameter, "Decode", "truncated value for sensor %d", id)
		}

		switch kind {
		case wireU16, wireS16:
			raw := uint16(buf[i])<<8 | uint16(buf[i+1])
			applyWord(snap, id, raw)
			i += 2
		case wireFlags:
			applyFlags(snap, id, buf[i])
			i++
		default:
			applyByte(snap, id, buf[i])
			i++
		}
	}
	return nil
}

// applyWord assigns a decoded 2-byte value. Signedness is fixed per
// identifier by sensorWire; the raw bits are reinterpreted here.
func applyWord(snap *Snapshot, id SensorID, raw uint16) {
	switch id {
	case SensorVoltage:
		snap.Voltage = raw
	case SensorCurrent:
		snap.Current = int16(raw)
	case SensorBatteryCharge:
		snap.BatteryCharge = raw
	case SensorBatteryCapacity:
		snap.BatteryCapacity = raw
	case SensorWallSignal:
		snap.WallSignal = raw
	case SensorCliffLeftSignal:
		snap.CliffLeftSignal = raw
	case SensorCliffFrontLeftSignal:
		snap.CliffFrontLeftSignal = raw
	case SensorCliffFrontRightSignal:
		snap.CliffFrontRightSig = raw
	case SensorCliffRightSignal:
		snap.CliffRightSignal = raw
	case SensorVelocity:
		snap.Velocity = int16(raw)
	case SensorRadius:
		snap.Radius = int16(raw)
	case SensorVelocityRight:
		snap.VelocityRight = int16(raw)
	case SensorVelocityLeft:
		snap.VelocityLeft = int16(raw)
	case SensorEncoderCountsLeft:
		snap.EncoderCountsLeft = raw
	case SensorEncoderCountsRight:
		snap.EncoderCountsRight = raw
	case SensorLightBumpLeftSignal:
		snap.LightBumpLeftSignal = raw
	case SensorLightBumpFrontLeftSignal:
		snap.LightBumpFrontLeftSignal = raw
	case SensorLightBumpCenterLeftSignal:
		snap.LightBumpCenterLeftSignal = raw
	case SensorLightBumpCenterRightSig:
		snap.LightBumpCenterRightSignal = raw
	case SensorLightBumpFrontRightSignal:
		snap.LightBumpFrontRightSignal = raw
	case SensorLightBumpRightSignal:
		snap.LightBumpRightSignal = raw
	case SensorLeftMotorCurrent:
		snap.LeftMotorCurrent = int16(raw)
	case SensorRightMotorCurrent:
		snap.RightMotorCurrent = int16(raw)
	case SensorMainBrushCurrent:
		snap.MainBrushCurrent = int16(raw)
	case SensorSideBrushCurrent:
		snap.SideBrushCurrent = int16(raw)
	}
}

// applyByte assigns a decoded 1-byte value.
func applyByte(snap *Snapshot, id SensorID, b byte) {
	switch id {
	case SensorWall:
		snap.Wall = b != 0
	case SensorVirtualWall:
		snap.VirtualWall = b != 0
	case SensorCliffLeft:
		snap.CliffLeft = b != 0
	case SensorCliffFrontLeft:
		snap.CliffFrontLeft = b != 0
	case SensorCliffFrontRight:
		snap.CliffFrontRight = b != 0
	case SensorCliffRight:
		snap.CliffRight = b != 0
	case SensorDirtDetect:
		snap.DirtDetect = b
	case SensorIROpcode:
		snap.IROpcode = b
	case SensorIROpcodeLeft:
		snap.IROpcodeLeft = b
	case SensorIROpcodeRight:
		snap.IROpcodeRight = b
	case SensorChargingState:
		snap.ChargingState = ChargingState(b)
	case SensorTemperature:
		snap.Temperature = int8(b)
	case SensorOIMode:
		snap.Mode = Mode(b)
	case SensorSongNumber:
		snap.SongNumber = b
	case SensorSongPlaying:
		snap.SongPlaying = b != 0
	case SensorStreamPacketCount:
		snap.StreamPacketCount = b
	}
}

// applyFlags expands a bit-flag group byte through its unpacker.
func applyFlags(snap *Snapshot, id SensorID, b byte) {
	switch id {
	case SensorBumpsWheelDrops:
		snap.Bumps = UnpackBumpsWheelDrops(b)
	case SensorWheelOvercurrents:
		snap.Overcurrents = UnpackOvercurrents(b)
	case SensorButtons:
		snap.Buttons = UnpackButtons(b)
	case SensorLightBumper:
		snap.LightBumper = UnpackLightBumper(b)
	case SensorChargerAvailable:
		snap.Charger = UnpackChargerAvailability(b)
	case SensorStasis:
		snap.Stasis = UnpackStasis(b)
	}
}
