// Package ui styles the short messages hooks print for the host assistant.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

// Palette renders coloured labels. Hook output is never attached to a TTY, so
// the colour profile is fixed rather than detected.
type Palette struct {
	red    lipgloss.Style
	yellow lipgloss.Style
	green  lipgloss.Style
	blue   lipgloss.Style
	cyan   lipgloss.Style
}

// NewPalette returns an ANSI palette, or a plain one when noColor is set.
func NewPalette(noColor bool) *Palette {
	r := lipgloss.NewRenderer(io.Discard)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI)
	}
	return &Palette{
		red:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		yellow: r.NewStyle().Foreground(lipgloss.Color("3")),
		green:  r.NewStyle().Foreground(lipgloss.Color("2")),
		blue:   r.NewStyle().Foreground(lipgloss.Color("4")),
		cyan:   r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

func (p *Palette) Red(s string) string    { return p.red.Render(s) }
func (p *Palette) Yellow(s string) string { return p.yellow.Render(s) }
func (p *Palette) Green(s string) string  { return p.green.Render(s) }
func (p *Palette) Blue(s string) string   { return p.blue.Render(s) }
func (p *Palette) Cyan(s string) string   { return p.cyan.Render(s) }

// Count formats n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
