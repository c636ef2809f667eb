// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import "time"

// Sensors performs one-shot sensor queries and manages the continuous
// stream on top of a Core. It owns its own statistics, independent of
// the Core's byte counters.
type Sensors struct {
	core            *Core
	refreshInterval time.Duration
	streamIDs       []SensorID
	buf             []byte
	stats           Stats
}

// NewSensors creates a sensor reader over the core.
func NewSensors(core *Core) *Sensors {
	return &Sensors{
		core:            core,
		refreshInterval: DefaultRefresh,
		buf:             make([]byte, core.frame.Capacity()),
	}
}

// SetRefreshInterval overrides the minimum spacing between stream reads.
// Values below the frame cadence just burn cycles; zero restores the
// default.
func (s *Sensors) SetRefreshInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultRefresh
	}
	s.refreshInterval = d
}

// QuerySingle requests one sensor packet (SENSORS opcode) and returns
// the raw response bytes. One-shot responses carry no checksum; any
// response at all counts as success.
func (s *Sensors) QuerySingle(id SensorID) ([]byte, error) {
	if _, ok := sensorWire[id]; !ok {
		s.stats.Errors++
		return nil, errf(InvalidParameter, "QuerySingle", "unknown sensor identifier %d", id)
	}
	return s.query("QuerySingle", OpSensors, []byte{byte(id)})
}

// QueryMany requests several sensor packets at once (QUERY_LIST opcode).
func (s *Sensors) QueryMany(ids []SensorID) ([]byte, error) {
	if len(ids) == 0 || len(ids) > StreamSensorMax {
		s.stats.Errors++
		return nil, errf(InvalidParameter, "QueryMany", "sensor count %d out of range [1,%d]", len(ids), StreamSensorMax)
	}
	params := make([]byte, 0, 1+len(ids))
	params = append(params, byte(len(ids)))
	for _, id := range ids {
		if _, ok := sensorWire[id]; !ok {
			s.stats.Errors++
			return nil, errf(InvalidParameter, "QueryMany", "unknown sensor identifier %d", id)
		}
		params = append(params, byte(id))
	}
	return s.query("QueryMany", OpQueryList, params)
}

// QueryGroup requests a group packet (SENSORS opcode with a group id).
func (s *Sensors) QueryGroup(group byte) ([]byte, error) {
	return s.query("QueryGroup", OpSensors, []byte{group})
}

func (s *Sensors) query(op string, opcode Opcode, params []byte) ([]byte, error) {
	if err := s.core.SendCommand(opcode, params...); err != nil {
		s.stats.Errors++
		return nil, err
	}
	s.core.sleep(QueryResponseDelay)

	buf := make([]byte, QueryBufferSize)
	n, err := s.core.ReadData(buf, QueryReadWindow)
	if err != nil {
		s.stats.Errors++
		return nil, err
	}
	if n == 0 {
		s.stats.Errors++
		return nil, errf(Timeout, op, "no response")
	}
	s.stats.BytesReceived += uint64(n)
	s.stats.Frames++
	return buf[:n], nil
}

// StartStreaming begins the continuous sensor stream for the given
// identifiers and remembers them for UpdateFromStream.
func (s *Sensors) StartStreaming(ids []SensorID) error {
	if err := s.core.StartStream(ids); err != nil {
		s.stats.Errors++
		return err
	}
	s.streamIDs = append(s.streamIDs[:0], ids...)
	return nil
}

// StartPreset begins streaming a named preset.
func (s *Sensors) StartPreset(p Preset) error {
	ids := p.IDs()
	if len(ids) == 0 {
		s.stats.Errors++
		return errf(InvalidParameter, "StartPreset", "unknown preset %d", p)
	}
	return s.StartStreaming(ids)
}

// StopStreaming halts the stream.
func (s *Sensors) StopStreaming() error {
	if err := s.core.StopStream(); err != nil {
		s.stats.Errors++
		return err
	}
	s.streamIDs = s.streamIDs[:0]
	return nil
}

// Streaming reports whether a stream is active.
func (s *Sensors) Streaming() bool { return s.core.Streaming() }

// UpdateFromStream reads the next stream frame into the snapshot,
// honoring the refresh cadence: calls arriving before the interval has
// elapsed return immediately with Success and touch nothing.
//
// Timeouts and checksum errors are expected transients on a live link;
// they bump FailedReads and are returned for the caller's refresh loop
// to count or escalate.
func (s *Sensors) UpdateFromStream(snap *Snapshot) error {
	if !s.core.Streaming() {
		s.stats.Errors++
		return errf(CommunicationError, "UpdateFromStream", "stream not started")
	}
	now := time.Now()
	if now.Before(snap.nextRefresh) {
		return nil
	}
	snap.nextRefresh = now.Add(s.refreshInterval)
	snap.FailedReads++

	n, err := s.core.ReadStreamFrame(s.buf)
	if err != nil {
		s.stats.Errors++
		return err
	}
	s.stats.Frames++
	s.stats.BytesReceived += uint64(n)

	if err := Decode(s.buf[:n], snap); err != nil {
		s.stats.Errors++
		return err
	}
	snap.LastUpdate = now
	snap.FailedReads = 0
	return nil
}

// RefreshAll overwrites the snapshot from the everything group (100).
func (s *Sensors) RefreshAll(snap *Snapshot) error {
	buf, err := s.QueryGroup(GroupEverything)
	if err != nil {
		return err
	}
	if err := Decode(buf, snap); err != nil {
		s.stats.Errors++
		return err
	}
	snap.LastUpdate = time.Now()
	snap.FailedReads = 0
	return nil
}

// RefreshPreset updates the snapshot fields covered by a preset via a
// one-shot QUERY_LIST round trip.
func (s *Sensors) RefreshPreset(p Preset, snap *Snapshot) error {
	ids := p.IDs()
	if len(ids) == 0 {
		s.stats.Errors++
		return errf(InvalidParameter, "RefreshPreset", "unknown preset %d", p)
	}
	buf, err := s.QueryMany(ids)
	if err != nil {
		return err
	}
	if err := Decode(buf, snap); err != nil {
		s.stats.Errors++
		return err
	}
	snap.LastUpdate = time.Now()
	snap.FailedReads = 0
	return nil
}

// ReadBattery performs a one-shot battery preset read.
func (s *Sensors) ReadBattery() (BatteryInfo, error) {
	var snap Snapshot
	if err := s.RefreshPreset(PresetBattery, &snap); err != nil {
		return BatteryInfo{}, err
	}
	return snap.Battery(), nil
}

// ReadCliffs performs a one-shot read of the four cliff detectors.
func (s *Sensors) ReadCliffs() (CliffFlags, error) {
	var snap Snapshot
	ids := []SensorID{SensorCliffLeft, SensorCliffFrontLeft, SensorCliffFrontRight, SensorCliffRight}
	buf, err := s.QueryMany(ids)
	if err != nil {
		return CliffFlags{}, err
	}
	if err := Decode(buf, &snap); err != nil {
		return CliffFlags{}, err
	}
	return snap.Cliffs(), nil
}

// ReadBumpsWheelDrops performs a one-shot read of packet 7.
func (s *Sensors) ReadBumpsWheelDrops() (BumpsWheelDrops, error) {
	var snap Snapshot
	buf, err := s.QuerySingle(SensorBumpsWheelDrops)
	if err != nil {
		return BumpsWheelDrops{}, err
	}
	if err := Decode(buf, &snap); err != nil {
		return BumpsWheelDrops{}, err
	}
	return snap.Bumps, nil
}

// ReadButtons performs a one-shot read of packet 18.
func (s *Sensors) ReadButtons() (Buttons, error) {
	var snap Snapshot
	buf, err := s.QuerySingle(SensorButtons)
	if err != nil {
		return Buttons{}, err
	}
	if err := Decode(buf, &snap); err != nil {
		return Buttons{}, err
	}
	return snap.Buttons, nil
}

// ReadMode asks the robot which OI mode it is actually in.
func (s *Sensors) ReadMode() (Mode, error) {
	var snap Snapshot
	buf, err := s.QuerySingle(SensorOIMode)
	if err != nil {
		return ModeOff, err
	}
	if err := Decode(buf, &snap); err != nil {
		return ModeOff, err
	}
	return snap.Mode, nil
}

// ReadChargingState performs a one-shot read of packet 21.
func (s *Sensors) ReadChargingState() (ChargingState, error) {
	var snap Snapshot
	buf, err := s.QuerySingle(SensorChargingState)
	if err != nil {
		return ChargingNone, err
	}
	if err := Decode(buf, &snap); err != nil {
		return ChargingNone, err
	}
	return snap.ChargingState, nil
}

// Stats returns a snapshot of the query/frame counters.
func (s *Sensors) Stats() Stats { return s.stats }

// ResetStats zeroes the counters.
func (s *Sensors) ResetStats() { s.stats = Stats{} }
