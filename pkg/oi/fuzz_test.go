// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Halcyon Robotics

package oi

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestFuzz_StreamMachineNeverPanics feeds random garbage through the
// stream state machine. Every outcome except a panic is acceptable; the
// machine must stay inside its closed error set.
func TestFuzz_StreamMachineNeverPanics(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		c, ft, _ := newTestCore(t)
		startStream(t, c, ft, SensorVoltage)

		n := rng.Intn(64)
		noise := make([]byte, n)
		rng.Read(noise)
		ft.queue(noise...)

		dst := make([]byte, DefaultFrameCapacity)
		for {
			_, err := c.ReadStreamFrame(dst)
			if err == nil {
				continue // garbage happened to form a valid frame
			}
			switch CodeOf(err) {
			case Timeout, ChecksumError, BufferOverflow, CommunicationError:
			default:
				t.Fatalf("round %d: unexpected error class: %v", round, err)
			}
			if CodeOf(err) == Timeout {
				break // script exhausted
			}
		}
	}
}

// TestFuzz_StreamRecoversAroundNoise interleaves valid frames with
// random garbage and checks every valid frame still comes out.
func TestFuzz_StreamRecoversAroundNoise(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds() / 10

	for round := 0; round < rounds; round++ {
		c, ft, _ := newTestCore(t)
		startStream(t, c, ft, SensorVoltage)

		content := []byte{byte(SensorCliffLeft), byte(rng.Intn(2))}
		wantFrames := 1 + rng.Intn(4)
		for i := 0; i < wantFrames; i++ {
			// Noise that cannot contain a header byte, then a frame.
			n := rng.Intn(8)
			for j := 0; j < n; j++ {
				b := byte(rng.Intn(256))
				if b == StreamHeader {
					b++
				}
				ft.queue(b)
			}
			ft.queue(frame(content...)...)
		}

		got := 0
		dst := make([]byte, DefaultFrameCapacity)
		for {
			_, err := c.ReadStreamFrame(dst)
			if err != nil {
				break
			}
			got++
		}
		if got != wantFrames {
			t.Fatalf("round %d: expected %d frames, decoded %d", round, wantFrames, got)
		}
	}
}

// TestFuzz_DecodeNeverPanics throws random buffers at the sensor
// decoder.
func TestFuzz_DecodeNeverPanics(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		n := rng.Intn(40)
		buf := make([]byte, n)
		rng.Read(buf)

		var snap Snapshot
		err := Decode(buf, &snap)
		if err != nil && !IsCode(err, InvalidParameter) {
			t.Fatalf("round %d: unexpected error class: %v", round, err)
		}
	}
}
