package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/config"
	"github.com/jscyril/golang_music_quiz/internal/ui/views"
)

// noticeDuration is how long a toast stays visible
const noticeDuration = 3 * time.Second

// Screen is the active screen
type Screen int

const (
	ScreenStart Screen = iota
	ScreenGame
	ScreenEnd
)

// Driver forwards user intents to the game. Calls must not block.
type Driver interface {
	StartSession(mode api.Difficulty)
	PlayOrAdvance()
	StopSnippet()
	SubmitChoice(index int)
	SubmitGuess(guess string)
	ResetToStart()
}

// Model is the main bubbletea model
type Model struct {
	width  int
	height int

	screen Screen
	keys   config.KeyMap

	startView views.StartView
	gameView  views.GameView
	endView   views.EndView

	driver Driver
	events <-chan api.QuizEvent

	notice   string
	noticeID int

	noticeStyle lipgloss.Style
}

// QuizEventMsg wraps an event from the game
type QuizEventMsg api.QuizEvent

// noticeExpiredMsg hides the toast it was scheduled for
type noticeExpiredMsg struct{ id int }

// NewModel creates a new application model
func NewModel(driver Driver, events <-chan api.QuizEvent, keys config.KeyMap, songCount int, mode api.Difficulty) Model {
	m := Model{
		width:  80,
		height: 24,
		screen: ScreenStart,
		keys:   keys,
		driver: driver,
		events: events,
		noticeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
	}
	m.startView = views.NewStartView(m.width, songCount, mode)
	m.gameView = views.NewGameView(m.width, m.height)
	m.endView = views.NewEndView(m.width)
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// listenForEvents waits for the next game event
func (m Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return QuizEventMsg(ev)
	}
}

func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	id := m.noticeID
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewSizes()
		return m, nil

	case QuizEventMsg:
		cmd := m.handleEvent(api.QuizEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvents())

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case ScreenStart:
			return m.updateStart(msg)
		case ScreenGame:
			return m.updateGame(msg)
		case ScreenEnd:
			return m.updateEnd(msg)
		}
	}
	return m, nil
}

func (m *Model) handleEvent(ev api.QuizEvent) tea.Cmd {
	switch ev.Type {
	case api.EventRoundPresented:
		view := ev.Payload.(api.RoundView)
		m.screen = ScreenGame
		m.gameView.Present(view)

	case api.EventSnippetLoading:
		m.gameView.SnippetLoading()

	case api.EventSnippetStarted:
		m.gameView.SnippetStarted(ev.Payload.(api.Progress))

	case api.EventSnippetProgress:
		m.gameView.SnippetProgress(ev.Payload.(api.Progress))

	case api.EventSnippetEnded:
		m.gameView.SnippetEnded(ev.Payload.(api.Progress))

	case api.EventFallback:
		fb := ev.Payload.(api.FallbackView)
		m.gameView.ShowFallback(fb)
		if fb.Notice != "" {
			return m.showNotice(fb.Notice)
		}

	case api.EventNotice:
		return m.showNotice(ev.Payload.(string))

	case api.EventRefocus:
		m.gameView.Input.Focus()

	case api.EventAnswerRevealed:
		m.gameView.ShowReveal(ev.Payload.(api.Reveal))

	case api.EventSessionEnded:
		m.screen = ScreenEnd
		m.endView.Summary = ev.Payload.(api.Summary)
	}
	return nil
}

func (m Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Quit:
		return m, tea.Quit
	case "left":
		m.startView.Move(-1)
	case "right":
		m.startView.Move(1)
	case "e":
		m.startView.Select(api.DifficultyEasy)
	case "m":
		m.startView.Select(api.DifficultyMedium)
	case "h":
		m.startView.Select(api.DifficultyHard)
	case m.keys.Play, m.keys.Advance, "enter":
		m.driver.StartSession(m.startView.Difficulty())
	}
	return m, nil
}

func (m Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		m.driver.ResetToStart()
		m.screen = ScreenStart
		return m, nil
	}

	// The guess field owns the keyboard until the round is answered.
	if !m.gameView.Round.MultipleChoice && !m.gameView.Answered() {
		switch key {
		case "enter":
			m.driver.SubmitGuess(m.gameView.Input.Text())
		case "tab":
			m.driver.PlayOrAdvance()
		default:
			m.gameView.Input, _ = m.gameView.Input.Update(msg)
		}
		return m, nil
	}

	switch key {
	case m.keys.Quit:
		return m, tea.Quit
	case m.keys.Play, m.keys.Advance, "enter", "tab":
		m.driver.PlayOrAdvance()
	case m.keys.Stop:
		m.driver.StopSnippet()
	case m.keys.Reset:
		m.driver.ResetToStart()
		m.screen = ScreenStart
	case "1", "2", "3", "4":
		if m.gameView.Round.MultipleChoice {
			m.driver.SubmitChoice(int(key[0] - '1'))
		}
	}
	return m, nil
}

func (m Model) updateEnd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Quit:
		return m, tea.Quit
	case "esc":
		m.screen = ScreenStart
	case m.keys.Play, m.keys.Advance, "enter":
		m.driver.StartSession(m.startView.Difficulty())
	}
	return m, nil
}

// updateViewSizes updates view dimensions
func (m *Model) updateViewSizes() {
	m.startView.Width = m.width
	m.gameView.Width = m.width
	m.gameView.Height = m.height
	m.gameView.Countdown.Width = m.width - 6
	m.gameView.Options.Width = m.width - 8
	m.gameView.Input.Width = m.width - 10
	m.endView.Width = m.width
}

// Screen returns the active screen
func (m Model) Screen() Screen {
	return m.screen
}

// View renders the UI
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenStart:
		body = m.startView.View()
	case ScreenGame:
		body = m.gameView.View()
	case ScreenEnd:
		body = m.endView.View()
	}

	if m.notice != "" {
		body += "\n" + m.noticeStyle.Render(m.notice)
	}
	return body
}

// Run starts the bubbletea program
func Run(model Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
