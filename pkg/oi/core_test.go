// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// ============================================================
// Test Fakes
// ============================================================

// fakeTransport is a scriptable in-memory Transport. Written bytes
// accumulate in written; ReadByte serves the queued reads slice and
// reports ErrReadTimeout once it runs dry.
type fakeTransport struct {
	opened    bool
	openBauds []int
	closes    int
	written   bytes.Buffer
	reads     []byte
	readPos   int
	writeErr  error
	readErr   error
}

func (f *fakeTransport) Open(baudRate int) error {
	f.opened = true
	f.openBauds = append(f.openBauds, baudRate)
	return nil
}

func (f *fakeTransport) Close() error {
	f.opened = false
	f.closes++
	return nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.written.Write(p)
}

func (f *fakeTransport) Available() int {
	return len(f.reads) - f.readPos
}

func (f *fakeTransport) ReadByte(timeout time.Duration) (byte, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if f.readPos >= len(f.reads) {
		return 0, ErrReadTimeout
	}
	b := f.reads[f.readPos]
	f.readPos++
	return b, nil
}

// queue appends bytes to the pending read script.
func (f *fakeTransport) queue(data ...byte) {
	f.reads = append(f.reads, data...)
}

// fakeWake records every level written to the wake line.
type fakeWake struct {
	levels []bool
	setErr error
}

func (f *fakeWake) Set(high bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.levels = append(f.levels, high)
	return nil
}

// newTestCore builds an initialized Core over fakes with delays
// disabled. The handshake bytes are drained from the write log so tests
// assert only their own traffic.
func newTestCore(t *testing.T) (*Core, *fakeTransport, *fakeWake) {
	t.Helper()
	ft := &fakeTransport{}
	fw := &fakeWake{}
	c := NewCore(ft, fw, WithSleep(func(time.Duration) {}))
	if err := c.Initialize(DefaultBaudRate); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	ft.written.Reset()
	return c, ft, fw
}

// ============================================================
// Initialization Tests
// ============================================================

func TestInitialize_Handshake(t *testing.T) {
	ft := &fakeTransport{}
	fw := &fakeWake{}
	c := NewCore(ft, fw, WithSleep(func(time.Duration) {}))

	if err := c.Initialize(DefaultBaudRate); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// High hold, then three low/high pulses.
	wantLevels := []bool{true, false, true, false, true, false, true}
	if len(fw.levels) != len(wantLevels) {
		t.Fatalf("wake transitions: expected %d, got %d (%v)", len(wantLevels), len(fw.levels), fw.levels)
	}
	for i, want := range wantLevels {
		if fw.levels[i] != want {
			t.Errorf("wake transition %d: expected %v, got %v", i, want, fw.levels[i])
		}
	}

	if got := ft.written.Bytes(); !bytes.Equal(got, []byte{byte(OpStart), byte(OpSafe)}) {
		t.Errorf("handshake bytes: expected [128 131], got %v", got)
	}
	if len(ft.openBauds) != 1 || ft.openBauds[0] != DefaultBaudRate {
		t.Errorf("expected one open at %d, got %v", DefaultBaudRate, ft.openBauds)
	}
	if !c.Initialized() {
		t.Error("core should report initialized")
	}
	if c.Mode() != ModeSafe {
		t.Errorf("expected safe mode after init, got %s", c.Mode())
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	ft := &fakeTransport{}
	fw := &fakeWake{}
	c := NewCore(ft, fw, WithSleep(func(time.Duration) {}))

	if err := c.Initialize(DefaultBaudRate); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	pulses := len(fw.levels)
	written := ft.written.Len()

	if err := c.Initialize(DefaultBaudRate); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if len(fw.levels) != pulses {
		t.Error("second Initialize repeated the wake pulse")
	}
	if ft.written.Len() != written {
		t.Error("second Initialize resent the handshake")
	}
}

func TestInitialize_ZeroBaudUsesDefault(t *testing.T) {
	ft := &fakeTransport{}
	c := NewCore(ft, &fakeWake{}, WithSleep(func(time.Duration) {}))
	if err := c.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if c.BaudRate() != DefaultBaudRate {
		t.Errorf("expected default baud %d, got %d", DefaultBaudRate, c.BaudRate())
	}
}

func TestInitialize_RejectsUnsupportedBaud(t *testing.T) {
	c := NewCore(&fakeTransport{}, &fakeWake{}, WithSleep(func(time.Duration) {}))
	err := c.Initialize(31250)
	if !IsCode(err, InvalidParameter) {
		t.Errorf("expected InvalidParameter, got %v", err)
	}
	if c.Initialized() {
		t.Error("failed init must not mark the core initialized")
	}
}

func TestInitialize_WakeLineFailure(t *testing.T) {
	fw := &fakeWake{setErr: errors.New("gpio gone")}
	c := NewCore(&fakeTransport{}, fw, WithSleep(func(time.Duration) {}))
	err := c.Initialize(DefaultBaudRate)
	if !IsCode(err, CommunicationError) {
		t.Errorf("expected CommunicationError, got %v", err)
	}
}

// ============================================================
// Command Write Tests
// ============================================================

func TestSendCommand_RequiresInit(t *testing.T) {
	c := NewCore(&fakeTransport{}, &fakeWake{}, WithSleep(func(time.Duration) {}))
	err := c.SendCommand(OpClean)
	if !IsCode(err, NotInitialized) {
		t.Errorf("expected NotInitialized, got %v", err)
	}
}

func TestSendCommand_WritesOpcodeAndParams(t *testing.T) {
	c, ft, _ := newTestCore(t)
	if err := c.SendCommand(OpLEDs, 0x04, 0, 128); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	want := []byte{byte(OpLEDs), 0x04, 0, 128}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
}

func TestSendCommand_TracksMode(t *testing.T) {
	tests := []struct {
		op   Opcode
		want Mode
	}{
		{OpFull, ModeFull},
		{OpSafe, ModeSafe},
		{OpStart, ModePassive},
		{OpClean, ModePassive},
		{OpSeekDock, ModePassive},
		{OpPower, ModeOff},
	}
	for _, tt := range tests {
		c, _, _ := newTestCore(t)
		if err := c.SendCommand(tt.op); err != nil {
			t.Fatalf("SendCommand(%d): %v", tt.op, err)
		}
		if c.Mode() != tt.want {
			t.Errorf("after opcode %d: expected mode %s, got %s", tt.op, tt.want, c.Mode())
		}
	}
}

func TestSendCommand_WriteFailure(t *testing.T) {
	c, ft, _ := newTestCore(t)
	ft.writeErr = errors.New("port unplugged")
	err := c.SendCommand(OpClean)
	if !IsCode(err, CommunicationError) {
		t.Errorf("expected CommunicationError, got %v", err)
	}
	if c.Stats().Errors == 0 {
		t.Error("write failure should bump the error counter")
	}
}

func TestSendInt16_BigEndian(t *testing.T) {
	c, ft, _ := newTestCore(t)
	if err := c.SendInt16(-500); err != nil {
		t.Fatalf("SendInt16: %v", err)
	}
	want := []byte{0xFE, 0x0C} // -500 as two's complement, high byte first
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// ============================================================
// Read Tests
// ============================================================

func TestReadByte_Timeout(t *testing.T) {
	c, _, _ := newTestCore(t)
	_, err := c.ReadByte(time.Millisecond)
	if !IsCode(err, Timeout) {
		t.Errorf("expected Timeout, got %v", err)
	}
}

func TestReadData_ReturnsWhatArrived(t *testing.T) {
	c, ft, _ := newTestCore(t)
	ft.queue(22, 0x3F, 0xDC)

	buf := make([]byte, 16)
	n, err := c.ReadData(buf, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ReadData: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes, got %d", n)
	}
	if !bytes.Equal(buf[:3], []byte{22, 0x3F, 0xDC}) {
		t.Errorf("unexpected data: %v", buf[:3])
	}
}

func TestReadData_QuietLineIsNotAnError(t *testing.T) {
	c, _, _ := newTestCore(t)
	n, err := c.ReadData(make([]byte, 8), time.Millisecond)
	if err != nil {
		t.Fatalf("quiet line should not error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 bytes, got %d", n)
	}
}

// ============================================================
// Baud Change Tests
// ============================================================

func TestChangeBaudRate(t *testing.T) {
	c, ft, _ := newTestCore(t)
	if err := c.ChangeBaudRate(115200); err != nil {
		t.Fatalf("ChangeBaudRate: %v", err)
	}
	want := []byte{byte(OpBaud), 11}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
	if ft.closes != 1 {
		t.Errorf("expected one close, got %d", ft.closes)
	}
	if last := ft.openBauds[len(ft.openBauds)-1]; last != 115200 {
		t.Errorf("expected reopen at 115200, got %d", last)
	}
	if c.BaudRate() != 115200 {
		t.Errorf("BaudRate() = %d after change", c.BaudRate())
	}
}

func TestChangeBaudRate_RejectsUnsupported(t *testing.T) {
	c, ft, _ := newTestCore(t)
	err := c.ChangeBaudRate(250000)
	if !IsCode(err, InvalidParameter) {
		t.Errorf("expected InvalidParameter, got %v", err)
	}
	if ft.written.Len() != 0 {
		t.Error("rejected baud change must not touch the wire")
	}
}

// ============================================================
// Statistics Tests
// ============================================================

func TestStats_CountsBytesAndCommands(t *testing.T) {
	c, ft, _ := newTestCore(t)
	c.ResetStats()

	if err := c.SendCommand(OpDrive, 0, 100, 0x80, 0); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	ft.queue(42)
	if _, err := c.ReadByte(time.Millisecond); err != nil {
		t.Fatalf("ReadByte: %v", err)
	}

	s := c.Stats()
	if s.BytesSent != 5 {
		t.Errorf("BytesSent = %d, expected 5", s.BytesSent)
	}
	if s.BytesReceived != 1 {
		t.Errorf("BytesReceived = %d, expected 1", s.BytesReceived)
	}
	if s.Commands != 1 {
		t.Errorf("Commands = %d, expected 1", s.Commands)
	}

	c.ResetStats()
	if c.Stats() != (Stats{}) {
		t.Error("ResetStats should zero every counter")
	}
}

func TestClose_ClearsInitialized(t *testing.T) {
	c, ft, _ := newTestCore(t)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if c.Initialized() {
		t.Error("closed core should not report initialized")
	}
	if ft.opened {
		t.Error("transport should be closed")
	}
	if c.Mode() != ModeOff {
		t.Errorf("expected off mode after close, got %s", c.Mode())
	}
}
