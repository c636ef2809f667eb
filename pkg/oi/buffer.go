// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

// FrameBuffer is a fixed-capacity byte accumulator for stream frames.
// Every append is bounds-checked; an over-capacity write is rejected with
// BufferOverflow instead of growing or silently truncating. Capacity is
// fixed at construction so small targets can stay small.
type FrameBuffer struct {
	data []byte
	n    int
}

// NewFrameBuffer creates a buffer holding at most capacity bytes.
func NewFrameBuffer(capacity int) *FrameBuffer {
	if capacity <= 0 {
		capacity = DefaultFrameCapacity
	}
	return &FrameBuffer{data: make([]byte, capacity)}
}

// Capacity returns the fixed capacity.
func (b *FrameBuffer) Capacity() int { return len(b.data) }

// Len returns the number of bytes currently held.
func (b *FrameBuffer) Len() int { return b.n }

// Bytes returns the accumulated bytes. The slice aliases the buffer and
// is only valid until the next Reset or Append.
func (b *FrameBuffer) Bytes() []byte { return b.data[:b.n] }

// Reset discards the contents, keeping capacity.
func (b *FrameBuffer) Reset() { b.n = 0 }

// Append adds one byte, failing with BufferOverflow when full.
func (b *FrameBuffer) Append(v byte) error {
	if b.n >= len(b.data) {
		return errf(BufferOverflow, "FrameBuffer.Append", "capacity %d exceeded", len(b.data))
	}
	b.data[b.n] = v
	b.n++
	return nil
}

// Fits reports whether n more bytes fit.
func (b *FrameBuffer) Fits(n int) bool {
	return b.n+n <= len(b.data)
}
