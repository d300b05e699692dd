package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	dim      lipgloss.Style
	dimmer   lipgloss.Style
	locked   lipgloss.Style
	target   lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	barFull  lipgloss.Style
	barEmpty lipgloss.Style
	panel    lipgloss.Style
}

func newPalette(t Theme) palette {
	return palette{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		cursor:   lipgloss.NewStyle().Foreground(t.Primary),
		label:    lipgloss.NewStyle().Foreground(t.Text),
		value:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		dim:      lipgloss.NewStyle().Foreground(t.Muted),
		dimmer:   lipgloss.NewStyle().Foreground(t.Dim),
		locked:   lipgloss.NewStyle().Foreground(t.Warning),
		target:   lipgloss.NewStyle().Foreground(t.Accent),
		ok:       lipgloss.NewStyle().Foreground(t.Success),
		warn:     lipgloss.NewStyle().Foreground(t.Error),
		barFull:  lipgloss.NewStyle().Foreground(t.Primary),
		barEmpty: lipgloss.NewStyle().Foreground(t.Dim),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Dim).
			Padding(0, 1),
	}
}

// gauge renders a slider position as a bar of the given width.
func (p palette) gauge(fraction float64, width int, disabled bool) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	full := strings.Repeat("█", filled)
	empty := strings.Repeat("░", width-filled)
	if disabled {
		return p.dimmer.Render(full + empty)
	}
	return p.barFull.Render(full) + p.barEmpty.Render(empty)
}
