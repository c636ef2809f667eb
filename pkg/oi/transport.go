// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"errors"
	"time"
)

// ErrReadTimeout is returned by Transport.ReadByte when no byte arrives
// within the deadline. Core maps it onto the Timeout result code.
var ErrReadTimeout = errors.New("read timeout")

// Transport is the duplex byte channel to the robot. One Core owns one
// Transport for its whole lifetime; no implementation needs to be safe
// for concurrent use.
type Transport interface {
	// Open configures the channel for the given baud rate. Called once
	// during Initialize and again after a BAUD command.
	Open(baudRate int) error
	Close() error

	Write(p []byte) (int, error)

	// Available reports how many bytes can be read without blocking.
	Available() int

	// ReadByte blocks until a byte arrives or the timeout elapses, in
	// which case it returns ErrReadTimeout.
	ReadByte(timeout time.Duration) (byte, error)
}

// WakeLine is the digital output wired to the robot's BRC pin. Pulsing it
// low wakes the robot from sleep before serial communication starts.
type WakeLine interface {
	Set(high bool) error
}

// NopWakeLine is a WakeLine for robots that are already awake (or wired
// without a BRC connection).
type NopWakeLine struct{}

func (NopWakeLine) Set(bool) error { return nil }
