// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

var (
	streamPreset   string
	streamIDArgs   []string
	streamInterval time.Duration
	streamDuration time.Duration
	streamStats    bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Monitor the continuous sensor stream",
	Long: `Start the robot's continuous sensor stream and print decoded frames
as they arrive.

The robot pushes a checksummed frame roughly every 15 ms; the monitor
reads on the refresh interval (default 40 ms) and prints the decoded
snapshot. Corrupted frames are counted and skipped, not fatal.

Runs until interrupted or until --duration elapses. With --stats a link
statistics summary is printed on exit.`,
	RunE: runStream,
}

func init() {
	streamCmd.Flags().StringVar(&streamPreset, "preset", "", "Sensor preset to stream")
	streamCmd.Flags().StringSliceVar(&streamIDArgs, "id", nil, "Individual sensor packet identifier (repeatable)")
	streamCmd.Flags().DurationVar(&streamInterval, "interval", oi.DefaultRefresh, "Refresh interval between reads")
	streamCmd.Flags().DurationVar(&streamDuration, "duration", 0, "Stop after this long (0 = until interrupted)")
	streamCmd.Flags().BoolVar(&streamStats, "stats", false, "Print link statistics on exit")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	r, err := openRobot()
	if err != nil {
		return err
	}
	defer r.Close()

	r.sensors.SetRefreshInterval(streamInterval)

	if len(streamIDArgs) > 0 {
		ids := make([]oi.SensorID, 0, len(streamIDArgs))
		for _, arg := range streamIDArgs {
			id, err := parseSensorID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		if err := r.sensors.StartStreaming(ids); err != nil {
			return err
		}
	} else {
		preset, err := resolvePreset(streamPreset)
		if err != nil {
			return err
		}
		if err := r.sensors.StartPreset(preset); err != nil {
			return err
		}
		logger.Debug().Stringer("preset", preset).Msg("stream started")
	}
	defer r.sensors.StopStreaming()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var deadline <-chan time.Time
	if streamDuration > 0 {
		deadline = time.After(streamDuration)
	}

	fmt.Println("Streaming... press Ctrl+C to stop")

	var snap oi.Snapshot
	frames, badFrames := 0, 0
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			return finishStream(r, frames, badFrames)
		case <-deadline:
			return finishStream(r, frames, badFrames)
		case <-ticker.C:
			if err := r.sensors.UpdateFromStream(&snap); err != nil {
				badFrames++
				logger.Debug().Err(err).Msg("frame rejected")
				continue
			}
			frames++
			fmt.Printf("--- frame %d ---\n%s", frames, oi.FormatSnapshot(&snap))
		}
	}
}

func finishStream(r *robot, frames, badFrames int) error {
	fmt.Printf("\n%d frames decoded, %d rejected\n", frames, badFrames)
	if streamStats {
		fmt.Println()
		fmt.Print(r.core.Stats().Add(r.sensors.Stats()))
	}
	return nil
}
