// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

var (
	sensorsPreset string
	sensorsIDs    []int
	sensorsWatch  time.Duration
	recordPath    string
)

var sensorsCmd = &cobra.Command{
	Use:   "sensors",
	Short: "Query robot sensors once or on an interval",
	Long: `Perform one-shot sensor queries and print a decoded snapshot.

By default the command reads the preset from the config file (basic unless
overridden). Select another preset with --preset, or request individual
sensor packets by identifier with --id (repeatable).

With --watch the query repeats on the given interval until interrupted.
With --record each snapshot is appended to a file as a CBOR record for
later analysis.`,
	RunE: runSensors,
}

func init() {
	sensorsCmd.Flags().StringVar(&sensorsPreset, "preset", "", "Sensor preset (basic, navigation, safety, battery, buttons, light-bumpers, all)")
	sensorsCmd.Flags().IntSliceVar(&sensorsIDs, "id", nil, "Individual sensor packet identifier (repeatable)")
	sensorsCmd.Flags().DurationVar(&sensorsWatch, "watch", 0, "Repeat on this interval until interrupted")
	sensorsCmd.Flags().StringVar(&recordPath, "record", "", "Append CBOR snapshot records to this file")
	rootCmd.AddCommand(sensorsCmd)
}

// snapshotRecord is the CBOR record layout written by --record.
type snapshotRecord struct {
	Timestamp time.Time   `cbor:"1,keyasint"`
	Port      string      `cbor:"2,keyasint"`
	Snapshot  oi.Snapshot `cbor:"3,keyasint"`
}

func runSensors(cmd *cobra.Command, args []string) error {
	r, err := openRobot()
	if err != nil {
		return err
	}
	defer r.Close()

	var recorder *os.File
	if recordPath != "" {
		recorder, err = os.OpenFile(recordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open record file: %w", err)
		}
		defer recorder.Close()
	}

	readOnce := func() error {
		var snap oi.Snapshot
		if len(sensorsIDs) > 0 {
			ids := make([]oi.SensorID, 0, len(sensorsIDs))
			for _, id := range sensorsIDs {
				ids = append(ids, oi.SensorID(id))
			}
			buf, err := r.sensors.QueryMany(ids)
			if err != nil {
				return err
			}
			if err := oi.Decode(buf, &snap); err != nil {
				return err
			}
			fmt.Print(oi.FormatFrame(buf))
		} else {
			preset, err := resolvePreset(sensorsPreset)
			if err != nil {
				return err
			}
			if err := r.sensors.RefreshPreset(preset, &snap); err != nil {
				return err
			}
			fmt.Print(oi.FormatSnapshot(&snap))
		}

		if recorder != nil {
			rec := snapshotRecord{Timestamp: time.Now(), Port: cfg.Port, Snapshot: snap}
			data, err := cbor.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
			if _, err := recorder.Write(data); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
		return nil
	}

	if err := readOnce(); err != nil {
		return err
	}
	if sensorsWatch <= 0 {
		return nil
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	ticker := time.NewTicker(sensorsWatch)
	defer ticker.Stop()

	for {
		select {
		case <-interrupt:
			return nil
		case <-ticker.C:
			fmt.Println()
			if err := readOnce(); err != nil {
				logger.Warn().Err(err).Msg("sensor read failed")
			}
		}
	}
}

// resolvePreset picks the flag value when given, else the configured
// default.
func resolvePreset(flagValue string) (oi.Preset, error) {
	if flagValue != "" {
		return oi.ParsePreset(flagValue)
	}
	return oi.ParsePreset(cfg.Preset)
}

// parseSensorID is shared by commands taking identifiers as strings.
func parseSensorID(s string) (oi.SensorID, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid sensor identifier %q", s)
	}
	id := oi.SensorID(v)
	if _, ok := oi.WireWidth(id); !ok {
		return 0, fmt.Errorf("unknown sensor identifier %d", v)
	}
	return id, nil
}
