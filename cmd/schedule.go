// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

var scheduleDays []string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the weekly cleaning schedule",
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set --on day=HH:MM [--on day=HH:MM ...]",
	Short: "Program cleaning start times",
	Long: `Program the robot's weekly cleaning schedule.

Each --on entry names a day and a 24-hour start time, for example
--on mon=9:30 --on thu=14:00. Days not named are disabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(scheduleDays) == 0 {
			return fmt.Errorf("no --on entries; use 'schedule clear' to erase the schedule")
		}
		var s oi.Schedule
		for _, entry := range scheduleDays {
			day, at, err := parseScheduleEntry(entry)
			if err != nil {
				return err
			}
			s.Enable(day, at)
		}
		return withRobot(func(r *robot) error {
			if err := r.commands.SetSchedule(s); err != nil {
				return err
			}
			for day := oi.Sunday; day <= oi.Saturday; day++ {
				if s.IsEnabled(day) {
					fmt.Printf("%-9s %s\n", day, s.Days[day])
				}
			}
			return nil
		})
	},
}

var scheduleClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the stored schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRobot(func(r *robot) error { return r.commands.ClearSchedule() })
	},
}

var clockCmd = &cobra.Command{
	Use:   "clock [day HH:MM]",
	Short: "Set the robot's clock (defaults to the host's current time)",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var day oi.Weekday
		var at oi.DayTime
		if len(args) == 2 {
			var err error
			day, err = parseWeekday(args[0])
			if err != nil {
				return err
			}
			at, err = parseDayTime(args[1])
			if err != nil {
				return err
			}
		} else if len(args) == 0 {
			now := time.Now()
			day = oi.Weekday(now.Weekday())
			at = oi.DayTime{Hour: uint8(now.Hour()), Minute: uint8(now.Minute())}
		} else {
			return fmt.Errorf("clock takes either no arguments or a day and a time")
		}
		return withRobot(func(r *robot) error {
			if err := r.commands.SetDayTime(day, at); err != nil {
				return err
			}
			fmt.Printf("clock set to %s %s\n", day, at)
			return nil
		})
	},
}

func init() {
	scheduleSetCmd.Flags().StringArrayVar(&scheduleDays, "on", nil, "day=HH:MM start time (repeatable)")
	scheduleCmd.AddCommand(scheduleSetCmd, scheduleClearCmd)
	rootCmd.AddCommand(scheduleCmd, clockCmd)
}

var weekdayAliases = map[string]oi.Weekday{
	"sun": oi.Sunday, "sunday": oi.Sunday,
	"mon": oi.Monday, "monday": oi.Monday,
	"tue": oi.Tuesday, "tuesday": oi.Tuesday,
	"wed": oi.Wednesday, "wednesday": oi.Wednesday,
	"thu": oi.Thursday, "thursday": oi.Thursday,
	"fri": oi.Friday, "friday": oi.Friday,
	"sat": oi.Saturday, "saturday": oi.Saturday,
}

func parseWeekday(s string) (oi.Weekday, error) {
	day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown day %q", s)
	}
	return day, nil
}

func parseDayTime(s string) (oi.DayTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return oi.DayTime{}, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return oi.DayTime{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return oi.DayTime{}, fmt.Errorf("invalid minute in %q", s)
	}
	return oi.DayTime{Hour: uint8(hour), Minute: uint8(minute)}, nil
}

func parseScheduleEntry(entry string) (oi.Weekday, oi.DayTime, error) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) != 2 {
		return 0, oi.DayTime{}, fmt.Errorf("invalid schedule entry %q (expected day=HH:MM)", entry)
	}
	day, err := parseWeekday(parts[0])
	if err != nil {
		return 0, oi.DayTime{}, err
	}
	at, err := parseDayTime(parts[1])
	if err != nil {
		return 0, oi.DayTime{}, err
	}
	return day, at, nil
}
