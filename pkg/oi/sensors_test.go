// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"bytes"
	"testing"
)

func newTestSensors(t *testing.T) (*Sensors, *fakeTransport) {
	t.Helper()
	core, ft, _ := newTestCore(t)
	return NewSensors(core), ft
}

// ============================================================
// One-Shot Query Tests
// ============================================================

func TestQuerySingle_RequestAndResponse(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(0x3F, 0xDC) // raw voltage reply, no identifier prefix

	got, err := s.QuerySingle(SensorVoltage)
	if err != nil {
		t.Fatalf("QuerySingle: %v", err)
	}
	if !bytes.Equal(ft.written.Bytes(), []byte{142, 22}) {
		t.Errorf("expected [142 22] on the wire, got %v", ft.written.Bytes())
	}
	if !bytes.Equal(got, []byte{0x3F, 0xDC}) {
		t.Errorf("expected raw reply [63 220], got %v", got)
	}
}

func TestQuerySingle_UnknownSensor(t *testing.T) {
	s, ft := newTestSensors(t)
	_, err := s.QuerySingle(SensorID(99))
	if !IsCode(err, InvalidParameter) {
		t.Errorf("expected InvalidParameter, got %v", err)
	}
	if ft.written.Len() != 0 {
		t.Error("rejected query must not touch the wire")
	}
}

func TestQuerySingle_NoResponse(t *testing.T) {
	s, _ := newTestSensors(t)
	_, err := s.QuerySingle(SensorVoltage)
	if !IsCode(err, Timeout) {
		t.Errorf("expected Timeout on a silent line, got %v", err)
	}
	if s.Stats().Errors != 1 {
		t.Errorf("Errors = %d, expected 1", s.Stats().Errors)
	}
}

func TestQueryMany_WiresCountAndIDs(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(1, 0x3F, 0xDC)

	_, err := s.QueryMany([]SensorID{SensorWall, SensorVoltage})
	if err != nil {
		t.Fatalf("QueryMany: %v", err)
	}
	want := []byte{149, 2, 8, 22}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
}

func TestQueryMany_RejectsEmpty(t *testing.T) {
	s, _ := newTestSensors(t)
	if _, err := s.QueryMany(nil); !IsCode(err, InvalidParameter) {
		t.Errorf("expected InvalidParameter, got %v", err)
	}
}

func TestQueryGroup_WiresGroupID(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(0x00)

	if _, err := s.QueryGroup(GroupEverything); err != nil {
		t.Fatalf("QueryGroup: %v", err)
	}
	want := []byte{142, 100}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
}

// ============================================================
// Stream Refresh Tests
// ============================================================

func TestUpdateFromStream_DecodesIntoSnapshot(t *testing.T) {
	s, ft := newTestSensors(t)
	if err := s.StartStreaming([]SensorID{SensorVoltage, SensorWall}); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	ft.queue(frame(byte(SensorVoltage), 0x3F, 0xDC, byte(SensorWall), 1)...)

	var snap Snapshot
	if err := s.UpdateFromStream(&snap); err != nil {
		t.Fatalf("UpdateFromStream: %v", err)
	}
	if snap.Voltage != 16348 || !snap.Wall {
		t.Errorf("snapshot not updated: voltage=%d wall=%t", snap.Voltage, snap.Wall)
	}
	if snap.LastUpdate.IsZero() {
		t.Error("LastUpdate should be stamped on success")
	}
	if snap.FailedReads != 0 {
		t.Errorf("FailedReads = %d after success, expected 0", snap.FailedReads)
	}
}

func TestUpdateFromStream_RefreshCadence(t *testing.T) {
	s, ft := newTestSensors(t)
	if err := s.StartStreaming([]SensorID{SensorWall}); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	ft.queue(frame(byte(SensorWall), 1)...)

	var snap Snapshot
	if err := s.UpdateFromStream(&snap); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// The second call lands inside the refresh interval: success, no read.
	ft.queue(frame(byte(SensorWall), 0)...)
	before := ft.readPos
	if err := s.UpdateFromStream(&snap); err != nil {
		t.Fatalf("cadence-suppressed update errored: %v", err)
	}
	if ft.readPos != before {
		t.Error("a call inside the refresh interval must not read the wire")
	}
	if !snap.Wall {
		t.Error("suppressed update must not modify the snapshot")
	}
}

func TestUpdateFromStream_CountsFailedReads(t *testing.T) {
	s, _ := newTestSensors(t)
	if err := s.StartStreaming([]SensorID{SensorWall}); err != nil {
		t.Fatalf("StartStreaming: %v", err)
	}
	s.SetRefreshInterval(1) // 1 ns, so back-to-back calls all read

	var snap Snapshot
	for i := 1; i <= 3; i++ {
		if err := s.UpdateFromStream(&snap); err == nil {
			t.Fatal("silent line should produce an error")
		}
		if snap.FailedReads != i {
			t.Fatalf("FailedReads = %d after %d failures", snap.FailedReads, i)
		}
	}
}

func TestUpdateFromStream_RequiresStream(t *testing.T) {
	s, _ := newTestSensors(t)
	var snap Snapshot
	if err := s.UpdateFromStream(&snap); !IsCode(err, CommunicationError) {
		t.Errorf("expected CommunicationError without a stream, got %v", err)
	}
}

func TestStartPreset_SendsPresetList(t *testing.T) {
	s, ft := newTestSensors(t)
	if err := s.StartPreset(PresetBattery); err != nil {
		t.Fatalf("StartPreset: %v", err)
	}
	want := []byte{148, 6, 22, 23, 25, 26, 24, 21}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
}

// ============================================================
// Typed Convenience Reads
// ============================================================

func TestReadBattery(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(
		byte(SensorVoltage), 0x3F, 0xDC, // 16348 mV
		byte(SensorCurrent), 0xFF, 0x38, // -200 mA
		byte(SensorBatteryCharge), 0x05, 0xDC, // 1500 mAh
		byte(SensorBatteryCapacity), 0x07, 0xD0, // 2000 mAh
		byte(SensorTemperature), 22,
		byte(SensorChargingState), byte(ChargingNone),
	)

	info, err := s.ReadBattery()
	if err != nil {
		t.Fatalf("ReadBattery: %v", err)
	}
	if info.Voltage != 16348 || info.Current != -200 {
		t.Errorf("unexpected electrics: %+v", info)
	}
	if got := info.Percent(); got != 75.0 {
		t.Errorf("Percent = %.1f, expected 75.0", got)
	}
}

func TestReadMode(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(byte(SensorOIMode), byte(ModeSafe))

	mode, err := s.ReadMode()
	if err != nil {
		t.Fatalf("ReadMode: %v", err)
	}
	if mode != ModeSafe {
		t.Errorf("expected safe, got %s", mode)
	}
}

func TestReadCliffs(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(
		byte(SensorCliffLeft), 0,
		byte(SensorCliffFrontLeft), 1,
		byte(SensorCliffFrontRight), 0,
		byte(SensorCliffRight), 1,
	)

	cliffs, err := s.ReadCliffs()
	if err != nil {
		t.Fatalf("ReadCliffs: %v", err)
	}
	if cliffs.Left || !cliffs.FrontLeft || cliffs.FrontRight || !cliffs.Right {
		t.Errorf("unexpected cliff flags: %+v", cliffs)
	}
}

func TestReadBumpsWheelDrops(t *testing.T) {
	s, ft := newTestSensors(t)
	ft.queue(byte(SensorBumpsWheelDrops), 0x06)

	v, err := s.ReadBumpsWheelDrops()
	if err != nil {
		t.Fatalf("ReadBumpsWheelDrops: %v", err)
	}
	if v.BumpRight || !v.BumpLeft || !v.WheelDropRight || v.WheelDropLeft {
		t.Errorf("unexpected flags: %+v", v)
	}
}
