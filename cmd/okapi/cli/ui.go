// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// colorEnabled is false when stdout isn't a terminal (piped output,
// CI logs), so lipgloss styles degrade to plain text automatically.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#382110"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00635D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D93025"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a73e8"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E87400"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// render applies style only when stdout is a real terminal; piped output
// (scripts, CI logs) gets the plain string instead of raw escape codes.
func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}
