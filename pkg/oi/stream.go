// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

// streamState tracks frame reassembly progress between bytes. The state
// lives on the Core, so an abandoned ReadStreamFrame call resumes where
// it left off; frames are self-delimited by header and checksum, which
// makes the machine self-healing after any slip.
type streamState uint8

const (
	streamWaitHeader streamState = iota
	streamWaitSize
	streamWaitContent
	streamWaitChecksum
	streamEnd
)

// StartStream asks the robot to push the given sensor packets every
// ~15 ms until told otherwise. Any active stream is stopped first.
func (c *Core) StartStream(ids []SensorID) error {
	if !c.initialized {
		return errf(NotInitialized, "StartStream", "")
	}
	if len(ids) == 0 || len(ids) > StreamSensorMax {
		return errf(InvalidParameter, "StartStream", "sensor count %d out of range [1,%d]", len(ids), StreamSensorMax)
	}
	if c.streaming {
		if err := c.StopStream(); err != nil {
			return err
		}
	}
	params := make([]byte, 0, 1+len(ids))
	params = append(params, byte(len(ids)))
	for _, id := range ids {
		params = append(params, byte(id))
	}
	if err := c.SendCommand(OpStream, params...); err != nil {
		return err
	}
	c.streaming = true
	c.streamState = streamWaitHeader
	c.frame.Reset()
	return nil
}

// StopStream sends an empty STREAM command, halting the sensor push.
func (c *Core) StopStream() error {
	if !c.initialized {
		return errf(NotInitialized, "StopStream", "")
	}
	if err := c.SendCommand(OpStream, 0); err != nil {
		return err
	}
	c.streaming = false
	c.streamState = streamWaitHeader
	c.frame.Reset()
	return nil
}

// Streaming reports whether a stream has been requested.
func (c *Core) Streaming() bool { return c.streaming }

// ReadStreamFrame advances the stream state machine until one complete,
// checksum-valid frame has been assembled, then copies its content bytes
// into dst and returns the count.
//
// The call blocks up to StreamTimeout waiting for the first byte. Once
// bytes are flowing the rest of the frame is expected back-to-back; a
// stall mid-frame is reported as CommunicationError rather than Timeout.
// A checksum mismatch discards the frame and re-arms the header scan;
// a declared size beyond the frame buffer capacity fails that frame with
// BufferOverflow. None of these are fatal: the next call rescans for the
// next header byte.
func (c *Core) ReadStreamFrame(dst []byte) (int, error) {
	if !c.initialized {
		return 0, errf(NotInitialized, "ReadStreamFrame", "")
	}
	if !c.streaming {
		return 0, errf(CommunicationError, "ReadStreamFrame", "stream not started")
	}
	if len(dst) == 0 {
		return 0, errf(InvalidParameter, "ReadStreamFrame", "empty buffer")
	}

	b, err := c.readByte("ReadStreamFrame", StreamTimeout)
	if err != nil {
		return 0, err
	}

	for {
		complete, err := c.streamStep(b)
		if err != nil {
			return 0, err
		}
		if complete {
			n := copy(dst, c.frame.Bytes())
			c.streamState = streamWaitHeader
			c.frame.Reset()
			return n, nil
		}

		b, err = c.readByte("ReadStreamFrame", StreamTimeout)
		if err != nil {
			if IsCode(err, Timeout) && c.streamState != streamWaitHeader {
				// Ran dry mid-frame; real frames arrive atomically.
				c.resetFrame()
				return 0, errf(CommunicationError, "ReadStreamFrame", "frame incomplete")
			}
			return 0, err
		}
	}
}

// streamStep feeds one byte into the machine. It returns true when a
// validated frame is sitting in c.frame.
func (c *Core) streamStep(b byte) (bool, error) {
	switch c.streamState {
	case streamWaitHeader:
		if b == StreamHeader {
			c.streamState = streamWaitSize
		}
		// Anything else is inter-frame noise; keep scanning.
		return false, nil

	case streamWaitSize:
		if int(b) > c.frame.Capacity() {
			c.resetFrame()
			c.stats.Errors++
			return false, errf(BufferOverflow, "ReadStreamFrame", "declared size %d exceeds capacity %d", b, c.frame.Capacity())
		}
		c.expected = int(b)
		c.frame.Reset()
		if c.expected == 0 {
			c.streamState = streamWaitChecksum
		} else {
			c.streamState = streamWaitContent
		}
		return false, nil

	case streamWaitContent:
		if err := c.frame.Append(b); err != nil {
			c.resetFrame()
			c.stats.Errors++
			return false, err
		}
		if c.frame.Len() >= c.expected {
			c.streamState = streamWaitChecksum
		}
		return false, nil

	case streamWaitChecksum:
		if !ValidateFrameChecksum(c.frame.Bytes(), b) {
			c.resetFrame()
			c.stats.Errors++
			return false, errf(ChecksumError, "ReadStreamFrame", "frame rejected")
		}
		c.streamState = streamEnd
		return true, nil
	}

	c.resetFrame()
	return false, errf(CommunicationError, "ReadStreamFrame", "invalid stream state")
}

func (c *Core) resetFrame() {
	c.streamState = streamWaitHeader
	c.frame.Reset()
	c.expected = 0
}

// ValidateFrameChecksum checks a stream frame: the byte sum over header,
// size, content and checksum must be 0 mod 256.
func ValidateFrameChecksum(content []byte, checksum byte) bool {
	sum := byte(StreamHeader) + byte(len(content)) + checksum
	for _, v := range content {
		sum += v
	}
	return sum == 0
}

// FrameChecksum computes the checksum byte that makes a frame with the
// given content validate.
func FrameChecksum(content []byte) byte {
	sum := byte(StreamHeader) + byte(len(content))
	for _, v := range content {
		sum += v
	}
	return byte(0) - sum
}
