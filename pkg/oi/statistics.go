// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import "fmt"

// Stats accumulates traffic and error counters. Core and Sensors each
// keep their own; both are plain value types, so the accessor returns a
// copy the caller can diff against a previous reading.
type Stats struct {
	BytesSent     uint64
	BytesReceived uint64
	Commands      uint64
	Frames        uint64
	Errors        uint64
}

// String returns a formatted counter summary.
func (s Stats) String() string {
	var errorPercent float64
	if s.Frames > 0 {
		errorPercent = float64(s.Errors) * 100.0 / float64(s.Frames+s.Errors)
	}

	result := "=== Link Statistics ===\n"
	result += fmt.Sprintf("Bytes Sent:      %8d\n", s.BytesSent)
	result += fmt.Sprintf("Bytes Received:  %8d\n", s.BytesReceived)
	result += fmt.Sprintf("Commands:        %8d\n", s.Commands)
	result += fmt.Sprintf("Frames:          %8d\n", s.Frames)
	if s.Errors > 0 {
		result += fmt.Sprintf("Errors:          %8d (%.1f%%)\n", s.Errors, errorPercent)
	} else {
		result += fmt.Sprintf("Errors:          %8d\n", s.Errors)
	}
	result += "=======================\n"
	return result
}

// Add merges another counter set into this one.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		BytesSent:     s.BytesSent + other.BytesSent,
		BytesReceived: s.BytesReceived + other.BytesReceived,
		Commands:      s.Commands + other.Commands,
		Frames:        s.Frames + other.Frames,
		Errors:        s.Errors + other.Errors,
	}
}
