// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Halcyon Robotics

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/halcyon-robotics/roomctl/pkg/oi"
)

var teleopCmd = &cobra.Command{
	Use:   "teleop",
	Short: "Interactive keyboard teleoperation TUI",
	Long: `Drive the robot from the keyboard with a live telemetry pane.

Controls:
  arrows / wasd  drive
  space          stop
  [ / ]          decrease / increase speed
  1 / 2          safe / full mode
  c              start cleaning
  h              seek dock
  b              beep
  q              quit (stops the robot first)

Telemetry streams continuously while the TUI is open; bumps, cliffs and
wheel drops are reported in the event log.`,
	RunE: runTeleop,
}

func init() {
	rootCmd.AddCommand(teleopCmd)
}

type teleopTickMsg time.Time

func teleopTick() tea.Cmd {
	return tea.Tick(oi.DefaultRefresh, func(t time.Time) tea.Msg {
		return teleopTickMsg(t)
	})
}

// teleopModel is the bubbletea model for the teleoperation TUI.
type teleopModel struct {
	r        *robot
	snap     oi.Snapshot
	speed    int16
	motion   string
	log      viewport.Model
	entries  []string
	maxLog   int
	width    int
	height   int
	ready    bool
	quitting bool
}

func initialTeleopModel(r *robot) teleopModel {
	return teleopModel{
		r:      r,
		speed:  oi.DefaultTurnSpeed,
		motion: "stopped",
		maxLog: 200,
	}
}

func (m teleopModel) Init() tea.Cmd {
	return teleopTick()
}

func (m *teleopModel) logEvent(format string, args ...any) {
	entry := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	m.entries = append(m.entries, entry)
	if len(m.entries) > m.maxLog {
		m.entries = m.entries[len(m.entries)-m.maxLog:]
	}
	m.log.SetContent(strings.Join(m.entries, "\n"))
	m.log.GotoBottom()
}

func (m *teleopModel) drive(action string, fn func() error) {
	if err := fn(); err != nil {
		m.logEvent("%s failed: %v", action, err)
		return
	}
	m.motion = action
}

func (m teleopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - 16
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.log = viewport.New(m.width-4, logHeight)
			m.log.SetContent(strings.Join(m.entries, "\n"))
			m.ready = true
		} else {
			m.log.Width = m.width - 4
			m.log.Height = logHeight
		}
		return m, nil

	case teleopTickMsg:
		before := m.snap
		if err := m.r.sensors.UpdateFromStream(&m.snap); err != nil {
			if !oi.IsCode(err, oi.Timeout) {
				m.logEvent("stream: %v", err)
			}
		} else {
			m.reportEdges(before)
		}
		return m, teleopTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m teleopModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		_ = m.r.commands.Stop()
		return m, tea.Quit
	case "up", "w":
		m.drive("forward", func() error { return m.r.commands.MoveForward(m.speed) })
	case "down", "s":
		m.drive("backward", func() error { return m.r.commands.MoveBackward(m.speed) })
	case "left", "a":
		m.drive("turning left", func() error { return m.r.commands.TurnLeft(m.speed) })
	case "right", "d":
		m.drive("turning right", func() error { return m.r.commands.TurnRight(m.speed) })
	case " ":
		m.drive("stopped", func() error { return m.r.commands.Stop() })
	case "[":
		if m.speed > 50 {
			m.speed -= 50
		}
		m.logEvent("speed %d mm/s", m.speed)
	case "]":
		if m.speed < oi.VelocityMax {
			m.speed += 50
		}
		m.logEvent("speed %d mm/s", m.speed)
	case "1":
		if err := m.r.commands.Safe(); err == nil {
			m.logEvent("safe mode")
		}
	case "2":
		if err := m.r.commands.Full(); err == nil {
			m.logEvent("full mode (safety reflexes off)")
		}
	case "c":
		if err := m.r.commands.Clean(); err == nil {
			m.logEvent("cleaning started")
			m.motion = "cleaning"
		}
	case "h":
		if err := m.r.commands.SeekDock(); err == nil {
			m.logEvent("seeking dock")
			m.motion = "docking"
		}
	case "b":
		if err := m.r.commands.Beep(72, 16); err != nil {
			m.logEvent("beep failed: %v", err)
		}
	}
	return m, nil
}

// reportEdges logs safety-relevant sensor transitions.
func (m *teleopModel) reportEdges(before oi.Snapshot) {
	if m.snap.Bumps.BumpLeft && !before.Bumps.BumpLeft {
		m.logEvent("bump left")
	}
	if m.snap.Bumps.BumpRight && !before.Bumps.BumpRight {
		m.logEvent("bump right")
	}
	if m.snap.Bumps.WheelDropLeft && !before.Bumps.WheelDropLeft {
		m.logEvent("wheel drop left")
	}
	if m.snap.Bumps.WheelDropRight && !before.Bumps.WheelDropRight {
		m.logEvent("wheel drop right")
	}
	if m.snap.Cliffs().Any() && !before.Cliffs().Any() {
		m.logEvent("cliff detected")
	}
}

var (
	teleopTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	teleopPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	teleopHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m teleopModel) View() string {
	if m.quitting {
		return "stopping robot...\n"
	}
	if !m.ready {
		return "starting teleop...\n"
	}

	title := teleopTitleStyle.Render(" roomctl teleop ")

	status := fmt.Sprintf("speed %d mm/s | %s | mode %s",
		m.speed, m.motion, m.r.core.Mode())
	telemetry := teleopPaneStyle.Width(m.width - 2).Render(
		status + "\n" + strings.TrimRight(oi.FormatSnapshot(&m.snap), "\n"))

	events := teleopPaneStyle.Width(m.width - 2).Render(m.log.View())

	help := teleopHelpStyle.Render("arrows/wasd drive · space stop · [ ] speed · 1 safe · 2 full · c clean · h dock · b beep · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, telemetry, events, help)
}

func runTeleop(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("teleop needs an interactive terminal")
	}

	r, err := openRobot()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.sensors.StartPreset(oi.PresetAll); err != nil {
		return err
	}
	defer r.sensors.StopStreaming()

	p := tea.NewProgram(initialTeleopModel(r), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
