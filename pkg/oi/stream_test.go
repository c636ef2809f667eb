// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"bytes"
	"testing"
)

// frame builds a complete wire frame (header, size, content, checksum)
// for the stream tests.
func frame(content ...byte) []byte {
	out := []byte{StreamHeader, byte(len(content))}
	out = append(out, content...)
	out = append(out, FrameChecksum(content))
	return out
}

func startStream(t *testing.T, c *Core, ft *fakeTransport, ids ...SensorID) {
	t.Helper()
	if err := c.StartStream(ids); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	ft.written.Reset()
}

func TestStartStream_WiresCountAndIDs(t *testing.T) {
	c, ft, _ := newTestCore(t)
	if err := c.StartStream([]SensorID{SensorBumpsWheelDrops, SensorVoltage}); err != nil {
		t.Fatalf("StartStream: %v", err)
	}
	want := []byte{byte(OpStream), 2, 7, 22}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
	if !c.Streaming() {
		t.Error("core should report streaming")
	}
}

func TestStartStream_RejectsEmptyAndOversized(t *testing.T) {
	c, _, _ := newTestCore(t)
	if err := c.StartStream(nil); !IsCode(err, InvalidParameter) {
		t.Errorf("empty list: expected InvalidParameter, got %v", err)
	}
	ids := make([]SensorID, StreamSensorMax+1)
	if err := c.StartStream(ids); !IsCode(err, InvalidParameter) {
		t.Errorf("oversized list: expected InvalidParameter, got %v", err)
	}
}

func TestStopStream_SendsZeroCount(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorVoltage)
	if err := c.StopStream(); err != nil {
		t.Fatalf("StopStream: %v", err)
	}
	want := []byte{byte(OpStream), 0}
	if got := ft.written.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("expected %v on the wire, got %v", want, got)
	}
	if c.Streaming() {
		t.Error("core should not report streaming after stop")
	}
}

func TestReadStreamFrame_ValidFrame(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)
	ft.queue(frame(10, 20)...)

	dst := make([]byte, 16)
	n, err := c.ReadStreamFrame(dst)
	if err != nil {
		t.Fatalf("ReadStreamFrame: %v", err)
	}
	if n != 2 || !bytes.Equal(dst[:2], []byte{10, 20}) {
		t.Errorf("expected content [10 20], got %v", dst[:n])
	}
}

func TestReadStreamFrame_ChecksumMismatch(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)
	bad := frame(10, 20)
	bad[2] ^= 0x01 // flip one content bit, checksum now stale
	ft.queue(bad...)

	_, err := c.ReadStreamFrame(make([]byte, 16))
	if !IsCode(err, ChecksumError) {
		t.Errorf("expected ChecksumError, got %v", err)
	}
	if c.Stats().Errors == 0 {
		t.Error("checksum failure should bump the error counter")
	}
}

func TestReadStreamFrame_RecoversAfterBadFrame(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)
	bad := frame(10, 20)
	bad[len(bad)-1]++ // corrupt the checksum byte itself
	ft.queue(bad...)
	ft.queue(frame(9, 1)...)

	if _, err := c.ReadStreamFrame(make([]byte, 16)); !IsCode(err, ChecksumError) {
		t.Fatalf("expected ChecksumError first, got %v", err)
	}
	dst := make([]byte, 16)
	n, err := c.ReadStreamFrame(dst)
	if err != nil {
		t.Fatalf("second frame should decode: %v", err)
	}
	if !bytes.Equal(dst[:n], []byte{9, 1}) {
		t.Errorf("expected [9 1], got %v", dst[:n])
	}
}

func TestReadStreamFrame_OversizedDeclaredLength(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)
	ft.queue(StreamHeader, 200, 1, 2, 3, 4, 5)

	_, err := c.ReadStreamFrame(make([]byte, 16))
	if !IsCode(err, BufferOverflow) {
		t.Errorf("expected BufferOverflow, got %v", err)
	}
}

func TestReadStreamFrame_SkipsInterFrameNoise(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)
	ft.queue(0xFF, 0x00, 0x42) // garbage before the header
	ft.queue(frame(9, 1)...)

	dst := make([]byte, 16)
	n, err := c.ReadStreamFrame(dst)
	if err != nil {
		t.Fatalf("ReadStreamFrame: %v", err)
	}
	if !bytes.Equal(dst[:n], []byte{9, 1}) {
		t.Errorf("expected [9 1], got %v", dst[:n])
	}
}

func TestReadStreamFrame_TimeoutBeforeHeader(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)

	_, err := c.ReadStreamFrame(make([]byte, 16))
	if !IsCode(err, Timeout) {
		t.Errorf("expected Timeout on a silent line, got %v", err)
	}
}

func TestReadStreamFrame_StallMidFrame(t *testing.T) {
	c, ft, _ := newTestCore(t)
	startStream(t, c, ft, SensorCliffLeft)
	ft.queue(StreamHeader, 4, 9, 1) // frame cut short

	_, err := c.ReadStreamFrame(make([]byte, 16))
	if !IsCode(err, CommunicationError) {
		t.Errorf("expected CommunicationError mid-frame, got %v", err)
	}

	// The machine re-armed; a clean frame decodes on the next call.
	ft.queue(frame(9, 1)...)
	dst := make([]byte, 16)
	if _, err := c.ReadStreamFrame(dst); err != nil {
		t.Errorf("recovery frame failed: %v", err)
	}
}

func TestReadStreamFrame_RequiresStream(t *testing.T) {
	c, _, _ := newTestCore(t)
	_, err := c.ReadStreamFrame(make([]byte, 16))
	if !IsCode(err, CommunicationError) {
		t.Errorf("expected CommunicationError without a stream, got %v", err)
	}
}

func TestFrameChecksum_RoundTrip(t *testing.T) {
	tests := [][]byte{
		{},
		{0},
		{7, 0x03},
		{22, 0x3F, 0xDC, 25, 0x0A, 0xFF},
	}
	for _, content := range tests {
		if !ValidateFrameChecksum(content, FrameChecksum(content)) {
			t.Errorf("checksum round trip failed for %v", content)
		}
	}
}

func TestValidateFrameChecksum_KnownFrame(t *testing.T) {
	// Frame 19 2 10 20 C: bytes must sum to 0 mod 256, so C = 205.
	if !ValidateFrameChecksum([]byte{10, 20}, 205) {
		t.Error("known-good checksum rejected")
	}
	if ValidateFrameChecksum([]byte{10, 20}, 204) {
		t.Error("off-by-one checksum accepted")
	}
}
