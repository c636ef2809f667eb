// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

// serialTransport implements oi.Transport over go.bug.st/serial. The
// port is opened at construction so the wake line can be driven before
// the protocol channel comes up; Open then retunes the mode, and a
// Close/Open pair (baud change) reopens the device.
type serialTransport struct {
	name    string
	port    serial.Port
	pending []byte
}

func serialMode(baudRate int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// selectPort picks the port to use when --port is absent: exactly one
// detected port is unambiguous, anything else needs the flag.
func selectPort(name string, ports []string, listErr error) (string, error) {
	if name != "" {
		return name, nil
	}
	if listErr != nil {
		return "", fmt.Errorf("no serial port specified (--port) and enumeration failed: %w", listErr)
	}
	switch len(ports) {
	case 0:
		return "", fmt.Errorf("no serial port specified (--port) and none detected")
	case 1:
		return ports[0], nil
	default:
		return "", fmt.Errorf("no serial port specified (--port); available: %v", ports)
	}
}

func newSerialTransport(name string) (*serialTransport, error) {
	if name == "" {
		ports, err := serial.GetPortsList()
		name, err = selectPort(name, ports, err)
		if err != nil {
			return nil, err
		}
	}
	port, err := serial.Open(name, serialMode(oi.DefaultBaudRate))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &serialTransport{name: name, port: port}, nil
}

func (t *serialTransport) Open(baudRate int) error {
	if t.port == nil {
		port, err := serial.Open(t.name, serialMode(baudRate))
		if err != nil {
			return fmt.Errorf("reopen %s: %w", t.name, err)
		}
		t.port = port
	} else if err := t.port.SetMode(serialMode(baudRate)); err != nil {
		return fmt.Errorf("set mode on %s: %w", t.name, err)
	}
	t.pending = t.pending[:0]
	return t.port.ResetInputBuffer()
}

func (t *serialTransport) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

func (t *serialTransport) Write(p []byte) (int, error) {
	if t.port == nil {
		return 0, fmt.Errorf("port %s is closed", t.name)
	}
	return t.port.Write(p)
}

// Available counts bytes already read from the device but not yet
// delivered through ReadByte. The serial driver exposes no portable
// in-kernel byte count, so this is a lower bound; callers treat it as
// a hint and rely on ReadByte timeouts for actual arrival.
func (t *serialTransport) Available() int {
	return len(t.pending)
}

func (t *serialTransport) ReadByte(timeout time.Duration) (byte, error) {
	if len(t.pending) > 0 {
		b := t.pending[0]
		t.pending = t.pending[1:]
		return b, nil
	}
	if t.port == nil {
		return 0, fmt.Errorf("port %s is closed", t.name)
	}
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}
	var buf [64]byte
	n, err := t.port.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// go.bug.st reports a timeout as a zero-byte read.
		return 0, oi.ErrReadTimeout
	}
	t.pending = append(t.pending[:0], buf[1:n]...)
	return buf[0], nil
}

// controlWakeLine drives the robot's BRC pin through a modem control
// line of the serial port.
type controlWakeLine struct {
	t   *serialTransport
	dtr bool
}

func (w *controlWakeLine) Set(high bool) error {
	if w.t.port == nil {
		return fmt.Errorf("port %s is closed", w.t.name)
	}
	if w.dtr {
		return w.t.port.SetDTR(high)
	}
	return w.t.port.SetRTS(high)
}

// robot bundles an initialized protocol stack for one session.
type robot struct {
	core     *oi.Core
	sensors  *oi.Sensors
	commands *oi.Commands
	closeFn  func() error
}

func (r *robot) Close() error { return r.closeFn() }

// openRobot opens the serial port, wakes the robot and completes the
// START/SAFE handshake.
func openRobot() (*robot, error) {
	transport, err := newSerialTransport(cfg.Port)
	if err != nil {
		return nil, err
	}

	var wake oi.WakeLine
	switch cfg.WakeLine {
	case "dtr":
		wake = &controlWakeLine{t: transport, dtr: true}
	case "none":
		wake = oi.NopWakeLine{}
	default:
		wake = &controlWakeLine{t: transport}
	}

	core := oi.NewCore(transport, wake, oi.WithFrameCapacity(cfg.FrameCapacity))
	logger.Debug().
		Str("port", transport.name).
		Int("baud", cfg.Baud).
		Str("wake_line", cfg.WakeLine).
		Msg("initializing robot")

	if err := core.Initialize(cfg.Baud); err != nil {
		transport.Close()
		return nil, fmt.Errorf("initialize robot: %w", err)
	}
	logger.Info().Str("port", transport.name).Msg("robot ready in safe mode")

	return &robot{
		core:     core,
		sensors:  oi.NewSensors(core),
		commands: oi.NewCommands(core),
		closeFn:  core.Close,
	}, nil
}
