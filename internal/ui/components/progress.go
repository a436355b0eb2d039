package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_music_quiz/api"
)

// CountdownBar shows the remaining snippet time
type CountdownBar struct {
	Width       int
	Remaining   time.Duration
	Total       time.Duration
	BarChar     string
	EmptyChar   string
	ShowTime    bool
	Style       lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewCountdownBar creates a new countdown bar
func NewCountdownBar(width int) CountdownBar {
	return CountdownBar{
		Width:       width,
		BarChar:     "█",
		EmptyChar:   "░",
		ShowTime:    true,
		Style:       lipgloss.NewStyle(),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetProgress sets the remaining time
func (p *CountdownBar) SetProgress(progress api.Progress) {
	p.Remaining = progress.Remaining
	p.Total = progress.Total
}

// Reset fills the bar for a snippet of the given length
func (p *CountdownBar) Reset(total time.Duration) {
	p.Remaining = total
	p.Total = total
}

// View renders the countdown bar
func (p CountdownBar) View() string {
	var sb strings.Builder

	fraction := api.Progress{Remaining: p.Remaining, Total: p.Total}.Fraction()

	barWidth := p.Width - 8
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(float64(barWidth) * fraction)

	sb.WriteString(p.FilledStyle.Render(strings.Repeat(p.BarChar, filled)))
	sb.WriteString(p.EmptyStyle.Render(strings.Repeat(p.EmptyChar, barWidth-filled)))

	if p.ShowTime {
		sb.WriteString(" ")
		sb.WriteString(FormatSeconds(p.Remaining))
	}

	return p.Style.Render(sb.String())
}

// FormatSeconds formats a duration as seconds with one decimal, e.g. "2.5s"
func FormatSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
