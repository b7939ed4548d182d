package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 color palette
var (
	colorCleanGreen = lipgloss.Color("71")
	colorDirtyAmber = lipgloss.Color("179")
	colorDangerRed  = lipgloss.Color("167")
	colorCriticalRd = lipgloss.Color("196")

	colorCyan = lipgloss.Color("73")
	colorGold = lipgloss.Color("220")

	colorFg  = lipgloss.Color("253")
	colorDim = lipgloss.Color("242")

	colorSelBg = lipgloss.Color("238")
	colorSelFg = lipgloss.Color("255")

	colorTableHdr = lipgloss.Color("245")
)

// Braille spinner frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Unicode icons
const (
	iconClean    = "○"
	iconDirty    = "●"
	iconCleanWt  = "◇"
	iconDirtyWt  = "◆"
	iconConflict = "⚠"
	iconBranch   = "⟫"
	iconAhead    = "↑"
	iconBehind   = "↓"
	iconUnknown  = "?"
)

// Lipgloss styles
var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleRepoName = lipgloss.NewStyle().Foreground(colorFg).Bold(true)
	styleBranch   = lipgloss.NewStyle().Foreground(colorCyan)
	styleAhead    = lipgloss.NewStyle().Foreground(colorDirtyAmber)
	styleBehind   = lipgloss.NewStyle().Foreground(colorDangerRed)
	styleCleanTxt = lipgloss.NewStyle().Foreground(colorCleanGreen)
	styleConflict = lipgloss.NewStyle().Foreground(colorCriticalRd).Bold(true)
	styleAmber    = lipgloss.NewStyle().Foreground(colorDirtyAmber)
	styleTableHdr = lipgloss.NewStyle().Foreground(colorTableHdr).Bold(true)

	styleKey = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

	styleToastBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 1)
)

func renderSpinner(frame int) string {
	f := spinnerFrames[frame%len(spinnerFrames)]
	return lipgloss.NewStyle().Foreground(colorCyan).Render(f)
}

func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	runes := []rune(s)
	for i := len(runes) - 1; i >= 0; i-- {
		candidate := string(runes[:i]) + "…"
		if lipgloss.Width(candidate) <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
