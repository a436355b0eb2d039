package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/ui/components"
)

// Playback labels shown above the countdown
const (
	LabelIdle    = "TAP TO PLAY SNIPPET"
	LabelLoading = "LOADING..."
	LabelPlaying = "NOW PLAYING"
	LabelReplay  = "TAP TO REPLAY"
)

// GameView displays the current round
type GameView struct {
	Width  int
	Height int

	Round     api.RoundView
	Label     string
	Countdown components.CountdownBar
	Options   components.OptionList
	Input     components.GuessInput
	Reveal    *api.Reveal
	Fallback  *api.FallbackView

	// Styles
	HeaderStyle   lipgloss.Style
	LabelStyle    lipgloss.Style
	RevealStyle   lipgloss.Style
	FallbackStyle lipgloss.Style
	ControlsStyle lipgloss.Style
	BorderStyle   lipgloss.Style
}

// NewGameView creates a new game view
func NewGameView(width, height int) GameView {
	return GameView{
		Width:     width,
		Height:    height,
		Label:     LabelIdle,
		Countdown: components.NewCountdownBar(width - 6),
		Options:   components.NewOptionList(width - 8),
		Input:     components.NewGuessInput(width - 10),
		HeaderStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		LabelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		RevealStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			MarginTop(1),
		FallbackStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true),
		ControlsStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
}

// Present resets the view for a new round
func (v *GameView) Present(round api.RoundView) {
	v.Round = round
	v.Label = LabelIdle
	v.Reveal = nil
	v.Countdown.Reset(round.Duration)
	v.Options.SetItems(round.Options)
	v.Input.Reset()
	if round.MultipleChoice {
		v.Input.Blur()
	} else {
		v.Input.Focus()
	}
	if !round.ManualPlayback {
		v.Fallback = nil
	}
}

// SnippetLoading shows that playback was requested
func (v *GameView) SnippetLoading() {
	v.Label = LabelLoading
}

// SnippetStarted starts the countdown
func (v *GameView) SnippetStarted(p api.Progress) {
	v.Label = LabelPlaying
	v.Countdown.SetProgress(p)
}

// SnippetProgress updates the countdown
func (v *GameView) SnippetProgress(p api.Progress) {
	v.Countdown.SetProgress(p)
}

// SnippetEnded refills the countdown and offers a replay
func (v *GameView) SnippetEnded(p api.Progress) {
	v.Label = LabelReplay
	v.Countdown.SetProgress(p)
}

// ShowFallback switches to the manual player notice
func (v *GameView) ShowFallback(fb api.FallbackView) {
	v.Fallback = &fb
}

// ShowReveal locks the answer controls and shows the answer
func (v *GameView) ShowReveal(r api.Reveal) {
	v.Reveal = &r
	v.Round.Score = r.Score
	v.Round.Results = r.Results
	v.Options.Reveal(r.CorrectIndex, r.ChosenIndex)
	v.Input.Lock()
	v.Fallback = nil
}

// Answered reports whether the answer is being shown
func (v GameView) Answered() bool {
	return v.Reveal != nil
}

// View renders the game view
func (v GameView) View() string {
	var sb strings.Builder

	sb.WriteString(v.HeaderStyle.Render(fmt.Sprintf("Round %d/%d", v.Round.Number, v.Round.Total)))
	sb.WriteString("   ")
	sb.WriteString(fmt.Sprintf("Score: %d", v.Round.Score))
	sb.WriteString("\n")
	sb.WriteString(renderDots(v.Round.Results, v.Round.Number-1))
	sb.WriteString("\n\n")

	if v.Fallback != nil {
		state := "❚❚ paused"
		if v.Fallback.Playing {
			state = "▶ playing"
		}
		sb.WriteString(v.LabelStyle.Render("MANUAL PLAYER  " + state))
		sb.WriteString("\n")
		sb.WriteString(v.FallbackStyle.Render(fallbackTarget(*v.Fallback)))
	} else {
		sb.WriteString(v.LabelStyle.Render(v.Label))
		sb.WriteString("\n")
		sb.WriteString(v.Countdown.View())
	}
	sb.WriteString("\n\n")

	if v.Round.MultipleChoice {
		sb.WriteString(v.Options.View())
	} else {
		sb.WriteString(v.Input.View())
	}

	if v.Reveal != nil {
		verdict := "✗ Wrong"
		if v.Reveal.Correct {
			verdict = "✓ Correct!"
		}
		sb.WriteString(v.RevealStyle.Render(fmt.Sprintf("%s  %s by %s (%s)",
			verdict, v.Reveal.Title, v.Reveal.Artist, v.Reveal.PerformerLabel)))
	}

	sb.WriteString("\n")
	sb.WriteString(v.ControlsStyle.Render(v.controls()))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}

func (v GameView) controls() string {
	switch {
	case v.Reveal != nil:
		return "[Space/Enter] Next round  [Esc] Quit to start"
	case v.Fallback != nil && v.Round.MultipleChoice:
		return "[Space] Play/pause  [s] Pause  [1-4] Answer  [Esc] Quit to start"
	case v.Fallback != nil:
		return "[Tab] Play/pause  [Enter] Submit  [Esc] Quit to start"
	case v.Round.MultipleChoice:
		return "[Space] Play snippet  [1-4] Answer  [Esc] Quit to start"
	default:
		return "[Tab] Play snippet  [Enter] Submit  [Esc] Quit to start"
	}
}

// fallbackTarget names what the manual player plays: the local file, or
// the web player page when there is none
func fallbackTarget(fb api.FallbackView) string {
	if fb.Source != "" {
		return "Playing from " + fb.Source
	}
	if link := fb.ManualLink(); link != "" {
		return "Listen at " + link
	}
	return "No player available for this track"
}

// renderDots renders one mark per round: outcome, current, or pending
func renderDots(results []api.Outcome, current int) string {
	correct := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	wrong := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	pending := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	dots := make([]string, 0, api.TotalRounds)
	for i := 0; i < api.TotalRounds; i++ {
		var outcome api.Outcome
		if i < len(results) {
			outcome = results[i]
		}
		switch {
		case outcome == api.OutcomeCorrect:
			dots = append(dots, correct.Render("●"))
		case outcome == api.OutcomeWrong:
			dots = append(dots, wrong.Render("●"))
		case i == current:
			dots = append(dots, active.Render("◉"))
		default:
			dots = append(dots, pending.Render("○"))
		}
	}
	return strings.Join(dots, " ")
}
