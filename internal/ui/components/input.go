package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GuessInput is a single-line text field for free-text answers
type GuessInput struct {
	Value       []rune
	Placeholder string
	Focused     bool
	Disabled    bool
	Width       int
	CursorPos   int
	Prompt      string
	Style       lipgloss.Style
	FocusStyle  lipgloss.Style
}

// NewGuessInput creates a new guess input
func NewGuessInput(width int) GuessInput {
	return GuessInput{
		Placeholder: "Type the song name...",
		Width:       width,
		Prompt:      "♪ ",
		Style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		FocusStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1),
	}
}

// Focus sets focus on the input
func (s *GuessInput) Focus() {
	if !s.Disabled {
		s.Focused = true
	}
}

// Blur removes focus from the input
func (s *GuessInput) Blur() {
	s.Focused = false
}

// Text returns the current value
func (s GuessInput) Text() string {
	return string(s.Value)
}

// Reset clears and enables the input
func (s *GuessInput) Reset() {
	s.Value = nil
	s.CursorPos = 0
	s.Disabled = false
}

// Lock disables editing once a guess has been scored
func (s *GuessInput) Lock() {
	s.Disabled = true
	s.Focused = false
}

// Update handles editing keys
func (s GuessInput) Update(msg tea.Msg) (GuessInput, tea.Cmd) {
	if !s.Focused || s.Disabled {
		return s, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch key.Type {
	case tea.KeyBackspace:
		if s.CursorPos > 0 {
			s.Value = append(s.Value[:s.CursorPos-1:s.CursorPos-1], s.Value[s.CursorPos:]...)
			s.CursorPos--
		}
	case tea.KeyDelete:
		if s.CursorPos < len(s.Value) {
			s.Value = append(s.Value[:s.CursorPos:s.CursorPos], s.Value[s.CursorPos+1:]...)
		}
	case tea.KeyLeft:
		if s.CursorPos > 0 {
			s.CursorPos--
		}
	case tea.KeyRight:
		if s.CursorPos < len(s.Value) {
			s.CursorPos++
		}
	case tea.KeyHome:
		s.CursorPos = 0
	case tea.KeyEnd:
		s.CursorPos = len(s.Value)
	case tea.KeySpace:
		s.insert([]rune{' '})
	case tea.KeyRunes:
		s.insert(key.Runes)
	}

	return s, nil
}

func (s *GuessInput) insert(r []rune) {
	value := make([]rune, 0, len(s.Value)+len(r))
	value = append(value, s.Value[:s.CursorPos]...)
	value = append(value, r...)
	value = append(value, s.Value[s.CursorPos:]...)
	s.Value = value
	s.CursorPos += len(r)
}

// View renders the input
func (s GuessInput) View() string {
	var content string

	switch {
	case len(s.Value) == 0 && !s.Focused:
		content = s.Prompt + lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(s.Placeholder)
	case s.Focused:
		cursor := lipgloss.NewStyle().Background(lipgloss.Color("212")).Render(" ")
		content = s.Prompt + string(s.Value[:s.CursorPos]) + cursor + string(s.Value[s.CursorPos:])
	default:
		content = s.Prompt + string(s.Value)
	}

	if s.Focused {
		return s.FocusStyle.Width(s.Width).Render(content)
	}
	return s.Style.Width(s.Width).Render(content)
}
