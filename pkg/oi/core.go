// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"time"
)

// Core owns the transport and implements the byte-level half of the
// protocol: the wake/start handshake, opcode framing, baud-rate changes
// and the sensor stream state machine (stream.go).
//
// Core is single-owner and not safe for concurrent use, matching the
// blocking, single-threaded hosts the protocol targets.
type Core struct {
	transport Transport
	wake      WakeLine

	baudRate    int
	initialized bool
	mode        Mode

	streaming   bool
	streamState streamState
	frame       *FrameBuffer
	expected    int

	stats Stats
	sleep func(time.Duration)
}

// Option configures a Core at construction.
type Option func(*Core)

// WithFrameCapacity sets the stream frame buffer capacity. Frames whose
// declared size exceeds it are rejected with BufferOverflow.
func WithFrameCapacity(n int) Option {
	return func(c *Core) { c.frame = NewFrameBuffer(n) }
}

// WithSleep replaces the delay hook. The protocol's mandatory settle
// delays go through it; tests substitute a no-op to run instantly.
func WithSleep(f func(time.Duration)) Option {
	return func(c *Core) {
		if f != nil {
			c.sleep = f
		}
	}
}

// NewCore creates a Core over the given transport and wake line. The
// transport must not be shared with any other Core.
func NewCore(t Transport, wake WakeLine, opts ...Option) *Core {
	if wake == nil {
		wake = NopWakeLine{}
	}
	c := &Core{
		transport:   t,
		wake:        wake,
		baudRate:    DefaultBaudRate,
		mode:        ModeOff,
		streamState: streamWaitHeader,
		frame:       NewFrameBuffer(DefaultFrameCapacity),
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize wakes the robot and brings the interface up in SAFE mode.
// It is idempotent: a second call is a no-op success and does not repeat
// the wake pulse or resend START/SAFE.
//
// The sequence and its delays are dictated by the robot: hold the wake
// line high, wait out the 2 s post-power window, pulse the line low/high
// three times at 100 ms, open the channel, then START and SAFE with
// 150 ms settles in between.
func (c *Core) Initialize(baudRate int) error {
	if c.initialized {
		return nil
	}
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if _, ok := baudCodes[baudRate]; !ok {
		return errf(InvalidParameter, "Initialize", "unsupported baud rate %d", baudRate)
	}
	c.baudRate = baudRate

	if err := c.wake.Set(true); err != nil {
		return wrapErr(CommunicationError, "Initialize", err)
	}
	c.sleep(PowerOnDelay)

	if err := c.PulseWake(WakePulseCount, WakePulseDuration); err != nil {
		return err
	}

	c.sleep(InitSettleDelay)
	if err := c.transport.Open(c.baudRate); err != nil {
		return wrapErr(CommunicationError, "Initialize", err)
	}

	c.sleep(InitSettleDelay)
	if err := c.writeCommand(OpStart); err != nil {
		return err
	}

	c.sleep(InitSettleDelay)
	if err := c.writeCommand(OpSafe); err != nil {
		return err
	}

	c.initialized = true
	c.mode = ModeSafe
	return nil
}

// Initialized reports whether Initialize has completed.
func (c *Core) Initialized() bool { return c.initialized }

// Mode returns the last mode the interface was commanded into. It tracks
// sent commands, not the robot's own report (sensor packet 35).
func (c *Core) Mode() Mode { return c.mode }

// BaudRate returns the current channel baud rate.
func (c *Core) BaudRate() int { return c.baudRate }

// PulseWake pulses the wake line low/high the given number of times.
// Exposed so callers can re-wake a robot that went to sleep in PASSIVE
// mode without tearing the Core down.
func (c *Core) PulseWake(count int, duration time.Duration) error {
	for i := 0; i < count; i++ {
		if err := c.wake.Set(false); err != nil {
			return wrapErr(CommunicationError, "PulseWake", err)
		}
		c.sleep(duration)
		if err := c.wake.Set(true); err != nil {
			return wrapErr(CommunicationError, "PulseWake", err)
		}
		c.sleep(duration)
	}
	return nil
}

// SendCommand writes an opcode followed by its parameter bytes.
func (c *Core) SendCommand(op Opcode, params ...byte) error {
	if !c.initialized {
		return errf(NotInitialized, "SendCommand", "opcode %d", op)
	}
	if err := c.writeCommand(op, params...); err != nil {
		return err
	}
	c.trackMode(op)
	return nil
}

// writeCommand is SendCommand without the initialization guard; the
// handshake itself uses it to send START and SAFE.
func (c *Core) writeCommand(op Opcode, params ...byte) error {
	buf := make([]byte, 0, 1+len(params))
	buf = append(buf, byte(op))
	buf = append(buf, params...)
	if err := c.write("SendCommand", buf); err != nil {
		return err
	}
	c.stats.Commands++
	return nil
}

// SendInt16 writes a 16-bit value high byte first, as every multi-byte
// Open Interface parameter is encoded.
func (c *Core) SendInt16(v int16) error {
	if !c.initialized {
		return errf(NotInitialized, "SendInt16", "")
	}
	return c.write("SendInt16", []byte{byte(uint16(v) >> 8), byte(uint16(v))})
}

// SendRaw writes parameter bytes verbatim.
func (c *Core) SendRaw(data []byte) error {
	if !c.initialized {
		return errf(NotInitialized, "SendRaw", "")
	}
	if len(data) == 0 {
		return errf(InvalidParameter, "SendRaw", "empty payload")
	}
	return c.write("SendRaw", data)
}

func (c *Core) write(op string, data []byte) error {
	n, err := c.transport.Write(data)
	c.stats.BytesSent += uint64(n)
	if err != nil {
		c.stats.Errors++
		return wrapErr(CommunicationError, op, err)
	}
	if n != len(data) {
		c.stats.Errors++
		return errf(CommunicationError, op, "short write: %d of %d bytes", n, len(data))
	}
	return nil
}

func (c *Core) trackMode(op Opcode) {
	switch op {
	case OpStart:
		c.mode = ModePassive
	case OpSafe:
		c.mode = ModeSafe
	case OpFull:
		c.mode = ModeFull
	case OpPower:
		c.mode = ModeOff
	case OpClean, OpSpot, OpMaxClean, OpSeekDock:
		// Cleaning commands drop the robot back to PASSIVE.
		c.mode = ModePassive
	}
}

// ReadByte reads a single byte, waiting up to timeout.
func (c *Core) ReadByte(timeout time.Duration) (byte, error) {
	if !c.initialized {
		return 0, errf(NotInitialized, "ReadByte", "")
	}
	return c.readByte("ReadByte", timeout)
}

func (c *Core) readByte(op string, timeout time.Duration) (byte, error) {
	b, err := c.transport.ReadByte(timeout)
	if err != nil {
		c.stats.Errors++
		if err == ErrReadTimeout {
			return 0, errf(Timeout, op, "no data within %v", timeout)
		}
		return 0, wrapErr(CommunicationError, op, err)
	}
	c.stats.BytesReceived++
	return b, nil
}

// ReadData fills buf with whatever arrives inside the window and returns
// the byte count. Unlike ReadByte it does not fail on a quiet line; the
// caller decides whether zero bytes is an error.
func (c *Core) ReadData(buf []byte, window time.Duration) (int, error) {
	if !c.initialized {
		return 0, errf(NotInitialized, "ReadData", "")
	}
	if len(buf) == 0 {
		return 0, errf(InvalidParameter, "ReadData", "empty buffer")
	}
	deadline := time.Now().Add(window)
	n := 0
	for n < len(buf) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		b, err := c.transport.ReadByte(remaining)
		if err != nil {
			if err == ErrReadTimeout {
				break
			}
			c.stats.Errors++
			return n, wrapErr(CommunicationError, "ReadData", err)
		}
		buf[n] = b
		n++
		c.stats.BytesReceived++
	}
	return n, nil
}

// Available reports bytes waiting on the transport.
func (c *Core) Available() int {
	if !c.initialized {
		return 0
	}
	return c.transport.Available()
}

// ChangeBaudRate sends the BAUD command and reopens the channel at the
// new rate. The robot needs the settle window to retune its UART, so
// callers must not pipeline commands until this returns.
func (c *Core) ChangeBaudRate(newBaud int) error {
	if !c.initialized {
		return errf(NotInitialized, "ChangeBaudRate", "")
	}
	code, ok := baudCodes[newBaud]
	if !ok {
		return errf(InvalidParameter, "ChangeBaudRate", "unsupported baud rate %d", newBaud)
	}
	if err := c.writeCommand(OpBaud, code); err != nil {
		return err
	}
	c.sleep(BaudSettleDelay)
	if err := c.transport.Close(); err != nil {
		return wrapErr(CommunicationError, "ChangeBaudRate", err)
	}
	c.sleep(BaudSettleDelay)
	if err := c.transport.Open(newBaud); err != nil {
		return wrapErr(CommunicationError, "ChangeBaudRate", err)
	}
	c.baudRate = newBaud
	return nil
}

// Close stops any active stream and releases the transport.
func (c *Core) Close() error {
	if c.streaming {
		// Best effort; the robot also stops streaming on power loss.
		_ = c.StopStream()
	}
	c.initialized = false
	c.mode = ModeOff
	return c.transport.Close()
}

// Stats returns a snapshot of the byte and error counters.
func (c *Core) Stats() Stats { return c.stats }

// ResetStats zeroes the counters.
func (c *Core) ResetStats() { c.stats = Stats{} }
