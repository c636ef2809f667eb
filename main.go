// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics
//
// Roomctl - iRobot Open Interface robot controller
//
// A CLI tool for driving and monitoring iRobot Create 2 and Roomba
// 500-800 series robots over the Open Interface serial protocol.

package main

import (
	"os"

	"github.com/halcyon-robotics/roomctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
