// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

// Commands encodes validated control commands onto a Core. Validation
// rejects out-of-range parameters with InvalidParameter before any byte
// reaches the wire; convenience wrappers (MoveForward, TurnLeft) clamp
// instead, since their inputs come from sticks and sliders rather than
// protocol-aware callers.
type Commands struct {
	core  *Core
	leds  LEDState
	stats Stats
}

// NewCommands creates a command encoder over the core.
func NewCommands(core *Core) *Commands {
	return &Commands{core: core}
}

func be16(v int16) (hi, lo byte) {
	return byte(uint16(v) >> 8), byte(uint16(v))
}

func (c *Commands) send(op Opcode, params ...byte) error {
	if err := c.core.SendCommand(op, params...); err != nil {
		c.stats.Errors++
		return err
	}
	c.stats.Commands++
	c.stats.BytesSent += uint64(1 + len(params))
	return nil
}

func (c *Commands) reject(op, format string, args ...any) error {
	c.stats.Errors++
	return errf(InvalidParameter, op, format, args...)
}

// Start puts the interface in PASSIVE mode.
func (c *Commands) Start() error { return c.send(OpStart) }

// Safe puts the interface in SAFE mode: full control, but cliff, wheel
// drop and charger events still stop the robot.
func (c *Commands) Safe() error { return c.send(OpSafe) }

// Full puts the interface in FULL mode, disabling the safety reflexes.
func (c *Commands) Full() error { return c.send(OpFull) }

// PowerDown powers off the robot.
func (c *Commands) PowerDown() error { return c.send(OpPower) }

// Clean starts the default cleaning pass. The robot drops to PASSIVE.
func (c *Commands) Clean() error { return c.send(OpClean) }

// MaxClean starts a maximum-time cleaning pass.
func (c *Commands) MaxClean() error { return c.send(OpMaxClean) }

// SpotClean starts a spot cleaning pass.
func (c *Commands) SpotClean() error { return c.send(OpSpot) }

// SeekDock sends the robot home.
func (c *Commands) SeekDock() error { return c.send(OpSeekDock) }

// Drive commands wheel motion with a shared velocity and turn radius.
// Velocity is mm/s in [-500,500]. Radius is mm in [-2000,2000], or one
// of the sentinels: RadiusStraight (32768), RadiusTurnCCW (1),
// RadiusTurnCW (-1). Out-of-range values are rejected, not clamped.
func (c *Commands) Drive(velocity int16, radius int32) error {
	if velocity < VelocityMin || velocity > VelocityMax {
		return c.reject("Drive", "velocity %d out of range [%d,%d]", velocity, VelocityMin, VelocityMax)
	}
	if radius != RadiusStraight && (radius < int32(RadiusMin) || radius > int32(RadiusMax)) {
		return c.reject("Drive", "radius %d out of range [%d,%d]", radius, RadiusMin, RadiusMax)
	}
	vh, vl := be16(velocity)
	rh, rl := be16(int16(uint16(radius))) // 32768 wraps to 0x8000, as the wire wants
	return c.send(OpDrive, vh, vl, rh, rl)
}

// DriveDirect commands each wheel's velocity independently, mm/s in
// [-500,500].
func (c *Commands) DriveDirect(right, left int16) error {
	if right < VelocityMin || right > VelocityMax {
		return c.reject("DriveDirect", "right velocity %d out of range [%d,%d]", right, VelocityMin, VelocityMax)
	}
	if left < VelocityMin || left > VelocityMax {
		return c.reject("DriveDirect", "left velocity %d out of range [%d,%d]", left, VelocityMin, VelocityMax)
	}
	rh, rl := be16(right)
	lh, ll := be16(left)
	return c.send(OpDriveDirect, rh, rl, lh, ll)
}

// DrivePWM commands raw wheel PWM in [-255,255].
func (c *Commands) DrivePWM(right, left int16) error {
	if right < -WheelPWMMax || right > WheelPWMMax {
		return c.reject("DrivePWM", "right PWM %d out of range [-%d,%d]", right, WheelPWMMax, WheelPWMMax)
	}
	if left < -WheelPWMMax || left > WheelPWMMax {
		return c.reject("DrivePWM", "left PWM %d out of range [-%d,%d]", left, WheelPWMMax, WheelPWMMax)
	}
	rh, rl := be16(right)
	lh, ll := be16(left)
	return c.send(OpDrivePWM, rh, rl, lh, ll)
}

// Stop halts both wheels.
func (c *Commands) Stop() error {
	return c.Drive(0, 0)
}

func clampSpeed(speed int16) int16 {
	if speed < 0 {
		return 0
	}
	if speed > VelocityMax {
		return VelocityMax
	}
	return speed
}

// MoveForward drives straight ahead at the given speed, clamped to
// [0,500].
func (c *Commands) MoveForward(speed int16) error {
	return c.Drive(clampSpeed(speed), RadiusStraight)
}

// MoveBackward drives straight back at the given speed, clamped to
// [0,500].
func (c *Commands) MoveBackward(speed int16) error {
	return c.Drive(-clampSpeed(speed), RadiusStraight)
}

// TurnLeft spins in place counter-clockwise. Zero speed uses the
// default turn speed.
func (c *Commands) TurnLeft(speed int16) error {
	if speed == 0 {
		speed = DefaultTurnSpeed
	}
	return c.Drive(clampSpeed(speed), RadiusTurnCCW)
}

// TurnRight spins in place clockwise. Zero speed uses the default turn
// speed.
func (c *Commands) TurnRight(speed int16) error {
	if speed == 0 {
		speed = DefaultTurnSpeed
	}
	return c.Drive(clampSpeed(speed), RadiusTurnCW)
}

// TurnLeftRadius arcs left with the given turn radius in mm.
func (c *Commands) TurnLeftRadius(speed, radius int16) error {
	if radius < 0 {
		radius = -radius
	}
	return c.Drive(clampSpeed(speed), int32(radius))
}

// TurnRightRadius arcs right with the given turn radius in mm.
func (c *Commands) TurnRightRadius(speed, radius int16) error {
	if radius < 0 {
		radius = -radius
	}
	return c.Drive(clampSpeed(speed), -int32(radius))
}

// SetMotors switches the cleaning motors on or off.
func (c *Commands) SetMotors(m MotorState) error {
	return c.send(OpMotors, m.Pack())
}

// SetMotorsPWM sets cleaning motor duty cycles directly. Brush values
// are signed (negative reverses); the vacuum only runs forward, 0-127.
func (c *Commands) SetMotorsPWM(mainBrush, sideBrush int8, vacuum uint8) error {
	if vacuum > 127 {
		return c.reject("SetMotorsPWM", "vacuum PWM %d out of range [0,127]", vacuum)
	}
	return c.send(OpPWMMotors, byte(mainBrush), byte(sideBrush), vacuum)
}

// SetLEDs drives the indicator LEDs and the bicolor power LED. The
// state is remembered so SetPowerLED can change the power LED without
// disturbing the indicators.
func (c *Commands) SetLEDs(l LEDState) error {
	if err := c.send(OpLEDs, l.Pack(), l.PowerColor, l.PowerIntensity); err != nil {
		return err
	}
	c.leds = l
	return nil
}

// SetPowerLED changes the power LED color and intensity, keeping the
// last commanded indicator flags.
func (c *Commands) SetPowerLED(color, intensity uint8) error {
	l := c.leds
	l.PowerColor = color
	l.PowerIntensity = intensity
	return c.SetLEDs(l)
}

// SetSchedulingLEDs drives the weekday and scheduling indicator LEDs
// with raw bit parameters: weekday bit 0 is Sunday through bit 6
// Saturday; scheduling bit 0 colon, 1 PM, 2 AM, 3 clock, 4 schedule.
func (c *Commands) SetSchedulingLEDs(weekday, scheduling byte) error {
	if weekday > 0x7F {
		return c.reject("SetSchedulingLEDs", "weekday bits %#x exceed 7 days", weekday)
	}
	if scheduling > 0x1F {
		return c.reject("SetSchedulingLEDs", "scheduling bits %#x exceed 5 flags", scheduling)
	}
	return c.send(OpSchedulingLEDs, weekday, scheduling)
}

// SetDigitLEDs drives the four 7-segment display digits with raw
// segment bytes, leftmost digit first.
func (c *Commands) SetDigitLEDs(d3, d2, d1, d0 byte) error {
	return c.send(OpDigitLEDsRaw, d3, d2, d1, d0)
}

// DefineSong stores a song in one of the five slots. The robot needs no
// settle time after SONG unless PLAY follows immediately; Beep handles
// that case.
func (c *Commands) DefineSong(s Song) error {
	if err := s.Validate(); err != nil {
		c.stats.Errors++
		return err
	}
	return c.send(OpSong, s.params()...)
}

// PlaySong plays a previously stored song slot.
func (c *Commands) PlaySong(slot uint8) error {
	if slot > SongSlotMax {
		return c.reject("PlaySong", "slot %d out of range [0,%d]", slot, SongSlotMax)
	}
	return c.send(OpPlay, slot)
}

// Beep stores a single note in the scratch slot and plays it. The
// define-to-play settle is mandatory; playing too early is silent.
func (c *Commands) Beep(note, duration uint8) error {
	s := Song{
		Number: ScratchSongSlot,
		Notes:  []Note{{Number: note, Duration: duration}},
	}
	if err := c.DefineSong(s); err != nil {
		return err
	}
	c.core.sleep(SongDefineSettle)
	return c.PlaySong(ScratchSongSlot)
}

// BeepSequence plays the same note count times with a rest between
// repeats, using the scratch slot. Count is limited to 8 so the
// note/rest pairs fit a single 16-note song.
func (c *Commands) BeepSequence(count int, note, duration, pause uint8) error {
	if count < 1 || count > BeepSequenceMax {
		return c.reject("BeepSequence", "count %d out of range [1,%d]", count, BeepSequenceMax)
	}
	if pause == 0 {
		pause = duration
	}
	notes := make([]Note, 0, 2*count)
	for i := 0; i < count; i++ {
		notes = append(notes, Note{Number: note, Duration: duration})
		if i < count-1 {
			notes = append(notes, Note{Number: NotePause, Duration: pause})
		}
	}
	s := Song{Number: ScratchSongSlot, Notes: notes}
	if err := c.DefineSong(s); err != nil {
		return err
	}
	c.core.sleep(SongDefineSettle)
	return c.PlaySong(ScratchSongSlot)
}

// SetSchedule programs the weekly cleaning schedule.
func (c *Commands) SetSchedule(s Schedule) error {
	if err := s.Validate(); err != nil {
		c.stats.Errors++
		return err
	}
	return c.send(OpSchedule, s.params()...)
}

// ClearSchedule erases the stored schedule.
func (c *Commands) ClearSchedule() error {
	return c.send(OpSchedule, make([]byte, 14)...)
}

// SetDayTime sets the robot's clock.
func (c *Commands) SetDayTime(day Weekday, t DayTime) error {
	if day > Saturday {
		return c.reject("SetDayTime", "weekday %d out of range [0,6]", day)
	}
	if err := t.Validate(); err != nil {
		c.stats.Errors++
		return err
	}
	return c.send(OpSetDayTime, byte(day), t.Hour, t.Minute)
}

// Stats returns a snapshot of the command counters.
func (c *Commands) Stats() Stats { return c.stats }

// ResetStats zeroes the counters.
func (c *Commands) ResetStats() { c.stats = Stats{} }
