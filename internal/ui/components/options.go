package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var optionLetters = []string{"A", "B", "C", "D"}

// OptionList renders the multiple-choice options of a round
type OptionList struct {
	Items    []string
	Width    int
	Revealed bool
	Correct  int
	Chosen   int

	NormalStyle  lipgloss.Style
	CorrectStyle lipgloss.Style
	WrongStyle   lipgloss.Style
	DimmedStyle  lipgloss.Style
	LetterStyle  lipgloss.Style
}

// NewOptionList creates an empty option list
func NewOptionList(width int) OptionList {
	return OptionList{
		Width:   width,
		Correct: -1,
		Chosen:  -1,
		NormalStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		CorrectStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("42")).
			Foreground(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 1),
		WrongStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1),
		DimmedStyle: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("236")).
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
		LetterStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
	}
}

// SetItems shows a new set of options
func (l *OptionList) SetItems(items []string) {
	l.Items = items
	l.Revealed = false
	l.Correct = -1
	l.Chosen = -1
}

// Reveal marks the correct option and the chosen one
func (l *OptionList) Reveal(correct, chosen int) {
	l.Revealed = true
	l.Correct = correct
	l.Chosen = chosen
}

// View renders the options with their key hints
func (l OptionList) View() string {
	rows := make([]string, 0, len(l.Items))
	for i, title := range l.Items {
		letter := "?"
		if i < len(optionLetters) {
			letter = optionLetters[i]
		}
		label := fmt.Sprintf("%s %s  %s", l.LetterStyle.Render(letter), fmt.Sprintf("[%d]", i+1), title)

		style := l.NormalStyle
		if l.Revealed {
			switch {
			case i == l.Correct:
				style = l.CorrectStyle
			case i == l.Chosen:
				style = l.WrongStyle
			default:
				style = l.DimmedStyle
			}
		}
		rows = append(rows, style.Width(l.Width).Render(label))
	}
	return strings.Join(rows, "\n")
}
