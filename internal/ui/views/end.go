package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_music_quiz/api"
)

// EndView shows the result of a finished session
type EndView struct {
	Width   int
	Summary api.Summary

	ScoreStyle    lipgloss.Style
	MessageStyle  lipgloss.Style
	ControlsStyle lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewEndView creates an empty end view
func NewEndView(width int) EndView {
	return EndView{
		Width: width,
		ScoreStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		MessageStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			MarginTop(1),
		ControlsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
}

// View renders the end view
func (v EndView) View() string {
	var sb strings.Builder

	if v.Summary.Celebrate {
		sb.WriteString(strings.Repeat("✦ ", 12))
		sb.WriteString("\n")
	}
	sb.WriteString(v.ScoreStyle.Render(fmt.Sprintf("%d / %d", v.Summary.Score, v.Summary.Total)))
	sb.WriteString("\n")
	sb.WriteString(v.MessageStyle.Render(v.Summary.Message))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("✓ %d correct   ✗ %d wrong", v.Summary.Correct, v.Summary.Wrong))
	sb.WriteString("\n")
	sb.WriteString(v.ControlsStyle.Render("[Space/Enter] Play again  [Esc] Change difficulty  [q] Quit"))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
