package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/ui/components"
)

// Difficulties lists the selectable modes in display order
var Difficulties = []api.Difficulty{api.DifficultyEasy, api.DifficultyMedium, api.DifficultyHard}

// StartView lets the player pick a difficulty
type StartView struct {
	Width     int
	Selected  int
	SongCount int
	Status    string

	TitleStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	NormalStyle   lipgloss.Style
	ControlsStyle lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewStartView creates a start view with mode selected
func NewStartView(width, songCount int, mode api.Difficulty) StartView {
	v := StartView{
		Width:     width,
		SongCount: songCount,
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
		SelectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		NormalStyle: lipgloss.NewStyle().
			Padding(0, 1),
		ControlsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
	v.Select(mode)
	return v
}

// Select highlights mode
func (v *StartView) Select(mode api.Difficulty) {
	for i, d := range Difficulties {
		if d == mode {
			v.Selected = i
		}
	}
}

// Move shifts the selection by delta, clamped to the list
func (v *StartView) Move(delta int) {
	v.Selected = min(max(v.Selected+delta, 0), len(Difficulties)-1)
}

// Difficulty returns the selected mode
func (v StartView) Difficulty() api.Difficulty {
	return Difficulties[v.Selected]
}

// View renders the start view
func (v StartView) View() string {
	var sb strings.Builder

	sb.WriteString(v.TitleStyle.Render("♪ Snippet Quiz"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%d songs, %d rounds. Name the song from a short snippet.", v.SongCount, api.TotalRounds))
	sb.WriteString("\n\n")

	var modes []string
	for i, d := range Difficulties {
		label := fmt.Sprintf("%s (%s)", strings.ToUpper(string(d)), components.FormatSeconds(d.SnippetDuration()))
		if i == v.Selected {
			modes = append(modes, v.SelectedStyle.Render(label))
		} else {
			modes = append(modes, v.NormalStyle.Render(label))
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, modes...))

	if v.Status != "" {
		sb.WriteString("\n\n")
		sb.WriteString(v.Status)
	}

	sb.WriteString("\n")
	sb.WriteString(v.ControlsStyle.Render("[←/→] Difficulty  [Space/Enter] Start  [q] Quit"))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
