// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Connection flags
	portName   string
	baudRate   int
	configPath string
	verbose    bool

	cfg    = defaultRuntimeConfig()
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "roomctl",
	Short: "iRobot Open Interface robot controller",
	Long: `Roomctl - A CLI tool for driving and monitoring iRobot Create 2 and
Roomba 500-800 series robots over the Open Interface serial protocol.

Provides commands for one-shot sensor queries, continuous sensor stream
monitoring, motion and cleaning control, scheduling, and an interactive
keyboard teleoperation TUI.

Connection:
  --port /dev/ttyUSB0 [--baud 115200]

Defaults can be placed in a TOML config file (--config); flags win over
the file, the file wins over built-in defaults.`,
	Version:       "1.2.0",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()

		if configPath != "" {
			if err := loadConfigFile(configPath, &cfg); err != nil {
				return err
			}
			logger.Debug().Str("path", configPath).Msg("config file loaded")
		}

		// Flags win over the config file.
		if cmd.Flags().Changed("port") || cmd.InheritedFlags().Changed("port") {
			cfg.Port = portName
		}
		if cmd.Flags().Changed("baud") || cmd.InheritedFlags().Changed("baud") {
			cfg.Baud = baudRate
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Baud rate (default 19200)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
