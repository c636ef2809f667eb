// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

var (
	driveSpeed    int16
	driveRadius   int32
	driveFor      time.Duration
	cleanMax      bool
	cleanSpot     bool
	beepNote      uint8
	beepDuration  uint8
	beepCount     int
	beepPause     uint8
	ledColorRed   bool
	ledIntensity  uint8
	ledCheckRobot bool
	ledDock       bool
	ledSpot       bool
	ledDebris     bool
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "Motion control",
	Long: `Drive the robot.

Subcommands issue a single motion command. With --for the command holds
for the given duration and then stops the wheels; without it the robot
keeps moving until another command arrives.`,
}

var driveForwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Drive straight ahead",
	RunE: func(cmd *cobra.Command, args []string) error {
		return motion(func(r *robot) error { return r.commands.MoveForward(driveSpeed) })
	},
}

var driveBackwardCmd = &cobra.Command{
	Use:   "backward",
	Short: "Drive straight back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return motion(func(r *robot) error { return r.commands.MoveBackward(driveSpeed) })
	},
}

var driveLeftCmd = &cobra.Command{
	Use:   "left",
	Short: "Turn left, in place or with --radius",
	RunE: func(cmd *cobra.Command, args []string) error {
		radius, err := turnRadius(driveRadius)
		if err != nil {
			return err
		}
		return motion(func(r *robot) error {
			if radius != 0 {
				return r.commands.TurnLeftRadius(driveSpeed, radius)
			}
			return r.commands.TurnLeft(driveSpeed)
		})
	},
}

var driveRightCmd = &cobra.Command{
	Use:   "right",
	Short: "Turn right, in place or with --radius",
	RunE: func(cmd *cobra.Command, args []string) error {
		radius, err := turnRadius(driveRadius)
		if err != nil {
			return err
		}
		return motion(func(r *robot) error {
			if radius != 0 {
				return r.commands.TurnRightRadius(driveSpeed, radius)
			}
			return r.commands.TurnRight(driveSpeed)
		})
	},
}

var driveDirectCmd = &cobra.Command{
	Use:   "direct <right> <left>",
	Short: "Set each wheel velocity independently (mm/s)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		right, err := parseVelocity(args[0])
		if err != nil {
			return err
		}
		left, err := parseVelocity(args[1])
		if err != nil {
			return err
		}
		return motion(func(r *robot) error { return r.commands.DriveDirect(right, left) })
	},
}

var driveStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop both wheels",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error { return r.commands.Stop() })
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Start a cleaning pass (default, --max or --spot)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error {
			switch {
			case cleanMax:
				return r.commands.MaxClean()
			case cleanSpot:
				return r.commands.SpotClean()
			default:
				return r.commands.Clean()
			}
		})
	},
}

var dockCmd = &cobra.Command{
	Use:   "dock",
	Short: "Send the robot to its charging dock",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error { return r.commands.SeekDock() })
	},
}

var powerCmd = &cobra.Command{
	Use:   "power-down",
	Short: "Power the robot off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error { return r.commands.PowerDown() })
	},
}

var beepCmd = &cobra.Command{
	Use:   "beep",
	Short: "Play a beep or a beep sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error {
			if beepCount > 1 {
				return r.commands.BeepSequence(beepCount, beepNote, beepDuration, beepPause)
			}
			return r.commands.Beep(beepNote, beepDuration)
		})
	},
}

var ledCmd = &cobra.Command{
	Use:   "led",
	Short: "Set the indicator and power LEDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error {
			color := oi.PowerLEDGreen
			if ledColorRed {
				color = oi.PowerLEDRed
			}
			return r.commands.SetLEDs(oi.LEDState{
				Debris:         ledDebris,
				Spot:           ledSpot,
				Dock:           ledDock,
				CheckRobot:     ledCheckRobot,
				PowerColor:     color,
				PowerIntensity: ledIntensity,
			})
		})
	},
}

func init() {
	driveCmd.PersistentFlags().Int16Var(&driveSpeed, "speed", oi.DefaultTurnSpeed, "Speed in mm/s")
	driveCmd.PersistentFlags().Int32Var(&driveRadius, "radius", 0, "Turn radius in mm (turns only)")
	driveCmd.PersistentFlags().DurationVar(&driveFor, "for", 0, "Hold the motion this long, then stop")
	driveCmd.AddCommand(driveForwardCmd, driveBackwardCmd, driveLeftCmd, driveRightCmd, driveDirectCmd, driveStopCmd)

	cleanCmd.Flags().BoolVar(&cleanMax, "max", false, "Maximum-time cleaning pass")
	cleanCmd.Flags().BoolVar(&cleanSpot, "spot", false, "Spot cleaning pass")

	beepCmd.Flags().Uint8Var(&beepNote, "note", 72, "MIDI note number (31-127)")
	beepCmd.Flags().Uint8Var(&beepDuration, "duration", 16, "Note duration in 1/64 s ticks")
	beepCmd.Flags().IntVar(&beepCount, "count", 1, "Number of beeps (1-8)")
	beepCmd.Flags().Uint8Var(&beepPause, "pause", 0, "Pause between beeps in ticks (default: note duration)")

	ledCmd.Flags().BoolVar(&ledDebris, "debris", false, "Light the debris LED")
	ledCmd.Flags().BoolVar(&ledSpot, "spot", false, "Light the spot LED")
	ledCmd.Flags().BoolVar(&ledDock, "dock", false, "Light the dock LED")
	ledCmd.Flags().BoolVar(&ledCheckRobot, "check-robot", false, "Light the check-robot LED")
	ledCmd.Flags().BoolVar(&ledColorRed, "red", false, "Power LED red instead of green")
	ledCmd.Flags().Uint8Var(&ledIntensity, "intensity", 255, "Power LED intensity (0-255)")

	rootCmd.AddCommand(driveCmd, cleanCmd, dockCmd, powerCmd, beepCmd, ledCmd)
}

// withRobot opens a session, runs fn and tears the session down.
func withRobot(fn func(*robot) error) error {
	r, err := openRobot()
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

// motion runs a motion command, optionally holding it for --for and
// then stopping.
func motion(fn func(*robot) error) error {
	return withRobot(func(r *robot) error {
		if err := fn(r); err != nil {
			return err
		}
		if driveFor > 0 {
			time.Sleep(driveFor)
			return r.commands.Stop()
		}
		return nil
	})
}

// turnRadius narrows the --radius flag, rejecting values the DRIVE
// command cannot encode instead of letting the cast wrap them.
func turnRadius(r int32) (int16, error) {
	if r < int32(oi.RadiusMin) || r > int32(oi.RadiusMax) {
		return 0, fmt.Errorf("radius %d out of range [%d,%d]", r, oi.RadiusMin, oi.RadiusMax)
	}
	return int16(r), nil
}

func parseVelocity(s string) (int16, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid velocity %q", s)
	}
	if v < int(oi.VelocityMin) || v > int(oi.VelocityMax) {
		return 0, fmt.Errorf("velocity %d out of range [%d,%d]", v, oi.VelocityMin, oi.VelocityMax)
	}
	return int16(v), nil
}
