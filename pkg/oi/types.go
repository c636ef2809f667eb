// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import "fmt"

// Note is one entry in a song: a MIDI note number and a duration in
// 1/64 s ticks. Note number 31 is a rest.
type Note struct {
	Number   uint8
	Duration uint8
}

// NotePause is the note number the robot plays as silence.
const NotePause = 31

// Validate checks the note against the playable range.
func (n Note) Validate() error {
	if n.Number < NoteNumberMin || n.Number > NoteNumberMax {
		return errf(InvalidParameter, "Note", "note number %d out of range [%d,%d]", n.Number, NoteNumberMin, NoteNumberMax)
	}
	if n.Duration == 0 {
		return errf(InvalidParameter, "Note", "zero duration")
	}
	return nil
}

// Song is a stored melody in one of the robot's five song slots.
type Song struct {
	Number uint8
	Notes  []Note
}

// Validate checks the slot index, note count and every note.
func (s Song) Validate() error {
	if s.Number > SongSlotMax {
		return errf(InvalidParameter, "Song", "slot %d out of range [0,%d]", s.Number, SongSlotMax)
	}
	if len(s.Notes) == 0 || len(s.Notes) > SongNotesMax {
		return errf(InvalidParameter, "Song", "note count %d out of range [1,%d]", len(s.Notes), SongNotesMax)
	}
	for i, n := range s.Notes {
		if err := n.Validate(); err != nil {
			return errf(InvalidParameter, "Song", "note %d: %v", i, err)
		}
	}
	return nil
}

// params flattens the song into SONG command parameters.
func (s Song) params() []byte {
	out := make([]byte, 0, 2+2*len(s.Notes))
	out = append(out, s.Number, byte(len(s.Notes)))
	for _, n := range s.Notes {
		out = append(out, n.Number, n.Duration)
	}
	return out
}

// Weekday indexes the schedule's day slots, Sunday first as the robot
// encodes them.
type Weekday uint8

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday",
	"Thursday", "Friday", "Saturday",
}

func (d Weekday) String() string {
	if int(d) < len(weekdayNames) {
		return weekdayNames[d]
	}
	return fmt.Sprintf("Weekday(%d)", uint8(d))
}

// DayTime is a wall-clock time of day.
type DayTime struct {
	Hour   uint8 // 0-23
	Minute uint8 // 0-59
}

// Validate checks the clock fields.
func (t DayTime) Validate() error {
	if t.Hour > 23 {
		return errf(InvalidParameter, "DayTime", "hour %d out of range [0,23]", t.Hour)
	}
	if t.Minute > 59 {
		return errf(InvalidParameter, "DayTime", "minute %d out of range [0,59]", t.Minute)
	}
	return nil
}

func (t DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Schedule is the weekly cleaning schedule. Enabled is bookkeeping for
// callers composing a schedule; the wire format carries only the seven
// stored (hour,minute) pairs, Sunday through Saturday.
type Schedule struct {
	Days    [7]DayTime
	Enabled uint8 // bit 0 = Sunday .. bit 6 = Saturday
}

// Enable sets a day's start time and marks it active.
func (s *Schedule) Enable(day Weekday, t DayTime) {
	s.Days[day] = t
	s.Enabled |= 1 << day
}

// Disable clears a day.
func (s *Schedule) Disable(day Weekday) {
	s.Days[day] = DayTime{}
	s.Enabled &^= 1 << day
}

// IsEnabled reports whether a day is active.
func (s Schedule) IsEnabled(day Weekday) bool {
	return s.Enabled&(1<<day) != 0
}

// Validate checks all seven days' clock fields. Every pair reaches the
// wire whether or not the day is enabled, so every pair must be valid.
func (s Schedule) Validate() error {
	for day := Sunday; day <= Saturday; day++ {
		if err := s.Days[day].Validate(); err != nil {
			return errf(InvalidParameter, "Schedule", "%s: %v", day, err)
		}
	}
	return nil
}

// params flattens the schedule into the 14 SCHEDULE parameters: hour
// and minute for Sunday through Saturday, as stored.
func (s Schedule) params() []byte {
	out := make([]byte, 0, 14)
	for day := Sunday; day <= Saturday; day++ {
		out = append(out, s.Days[day].Hour, s.Days[day].Minute)
	}
	return out
}

// MotorState selects which cleaning motors run and in which direction.
// Direction bits only matter while the matching motor bit is set.
type MotorState struct {
	SideBrush          bool
	Vacuum             bool
	MainBrush          bool
	SideBrushClockwise bool
	MainBrushOutward   bool
}

// Pack folds the state into the MOTORS parameter byte.
func (m MotorState) Pack() byte {
	var b byte
	if m.SideBrush {
		b |= motorBitSideBrush
	}
	if m.Vacuum {
		b |= motorBitVacuum
	}
	if m.MainBrush {
		b |= motorBitMainBrush
	}
	if m.SideBrushClockwise {
		b |= motorBitSideBrushReverse
	}
	if m.MainBrushOutward {
		b |= motorBitMainBrushReverse
	}
	return b
}

// UnpackMotorState is the inverse of Pack.
func UnpackMotorState(b byte) MotorState {
	return MotorState{
		SideBrush:          b&motorBitSideBrush != 0,
		Vacuum:             b&motorBitVacuum != 0,
		MainBrush:          b&motorBitMainBrush != 0,
		SideBrushClockwise: b&motorBitSideBrushReverse != 0,
		MainBrushOutward:   b&motorBitMainBrushReverse != 0,
	}
}

// LEDState describes the four indicator LEDs and the bicolor power LED.
// PowerColor runs green (0) to red (255); PowerIntensity 0 is off.
type LEDState struct {
	Debris         bool
	Spot           bool
	Dock           bool
	CheckRobot     bool
	PowerColor     uint8
	PowerIntensity uint8
}

// Pack folds the indicator flags into the LEDS bit parameter.
func (l LEDState) Pack() byte {
	var b byte
	if l.Debris {
		b |= ledBitDebris
	}
	if l.Spot {
		b |= ledBitSpot
	}
	if l.Dock {
		b |= ledBitDock
	}
	if l.CheckRobot {
		b |= ledBitCheckRobot
	}
	return b
}
