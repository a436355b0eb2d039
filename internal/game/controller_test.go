package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/catalog"
	"github.com/jscyril/golang_music_quiz/internal/loop"
	"github.com/jscyril/golang_music_quiz/internal/session"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakePlayer struct {
	loads  []string
	plays  int
	pauses int
}

func (p *fakePlayer) Load(trackID string) error {
	p.loads = append(p.loads, trackID)
	return nil
}

func (p *fakePlayer) Play() error {
	p.plays++
	return nil
}

func (p *fakePlayer) Pause() error {
	p.pauses++
	return nil
}

func (p *fakePlayer) Seek(time.Duration) error { return nil }
func (p *fakePlayer) Events() <-chan api.PlayerEvent { return nil }

type recorder struct {
	events []api.QuizEvent
}

func (r *recorder) Publish(ev api.QuizEvent) {
	r.events = append(r.events, ev)
}

func (r *recorder) last(t api.EventType) (api.QuizEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return api.QuizEvent{}, false
}

func (r *recorder) count(t api.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

type harness struct {
	clock  *loop.Manual
	player *fakePlayer
	events *recorder
	store  *session.MemoryStore
	cat    *catalog.Catalog
	ctrl   *Controller
}

func testCatalog(n int) *catalog.Catalog {
	c := catalog.NewCatalog()
	tags := []api.PerformerTag{api.PerformerGroup, api.PerformerJennie, api.PerformerLisa, api.PerformerRose}
	for i := 0; i < n; i++ {
		c.AddTrack(&api.Track{
			ID:          fmt.Sprintf("t%02d", i),
			Title:       fmt.Sprintf("Song Number %d", i),
			Artist:      "Artist",
			Performer:   tags[i%len(tags)],
			SafeOffsets: []float64{10},
		})
	}
	return c
}

func newHarness(t *testing.T, tracks int) *harness {
	t.Helper()
	h := &harness{
		clock:  loop.NewManual(epoch),
		player: &fakePlayer{},
		events: &recorder{},
		store:  session.NewMemoryStore(),
		cat:    testCatalog(tracks),
	}
	h.ctrl = New(Config{
		Player:    h.player,
		Scheduler: h.clock,
		Catalog:   h.cat,
		Store:     h.store,
		Events:    h.events,
		Rand:      rand.New(rand.NewSource(7)),
	})
	h.ctrl.Init()
	h.ctrl.HandlePlayerEvent(api.PlayerEvent{Type: api.EventReady})
	return h
}

func (h *harness) start(t *testing.T, mode api.Difficulty) {
	t.Helper()
	if err := h.ctrl.StartSession(mode); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
}

// answer submits a correct or wrong answer for the current round
func (h *harness) answer(t *testing.T, correct bool) {
	t.Helper()
	round := h.ctrl.Round()
	state := h.ctrl.State()

	var err error
	if state.Difficulty.MultipleChoice() {
		idx := round.CorrectIndex
		if !correct {
			idx = (idx + 1) % len(round.Options)
		}
		err = h.ctrl.SubmitChoice(idx)
	} else {
		guess := state.CurrentTrack().Title
		if !correct {
			guess = "zzzz qqqq"
		}
		err = h.ctrl.SubmitGuess(guess)
	}
	if err != nil {
		t.Fatalf("answer error = %v", err)
	}
}

func TestStartSession(t *testing.T) {
	h := newHarness(t, 30)
	h.start(t, api.DifficultyEasy)

	state := h.ctrl.State()
	if h.ctrl.Phase() != PhaseRoundActive {
		t.Fatalf("phase = %v, want round-active", h.ctrl.Phase())
	}
	if state.ID == "" {
		t.Error("session has no id")
	}
	if len(state.RoundTracks) != api.TotalRounds {
		t.Fatalf("drew %d tracks, want %d", len(state.RoundTracks), api.TotalRounds)
	}
	seen := make(map[string]bool)
	for _, tr := range state.RoundTracks {
		if seen[tr.ID] {
			t.Errorf("track %s drawn twice", tr.ID)
		}
		seen[tr.ID] = true
	}
	if state.Score != 0 || state.RoundIndex != 0 || state.AnsweredCount() != 0 {
		t.Errorf("fresh session state = %+v", state)
	}

	round := h.ctrl.Round()
	if len(round.Options) != 4 || round.Options[round.CorrectIndex].ID != state.RoundTracks[0].ID {
		t.Errorf("options do not contain the round track at the correct index")
	}
	if len(h.player.loads) != 1 || h.player.loads[0] != state.RoundTracks[0].ID {
		t.Errorf("player loads = %v, want first round track", h.player.loads)
	}
	if h.player.plays != 0 {
		t.Error("presenting a round must not play")
	}

	ev, ok := h.events.last(api.EventRoundPresented)
	if !ok {
		t.Fatal("no round presented event")
	}
	view := ev.Payload.(api.RoundView)
	if view.Number != 1 || view.Total != api.TotalRounds || !view.MultipleChoice || len(view.Options) != 4 {
		t.Errorf("round view = %+v", view)
	}
	if _, err := h.store.Load(context.Background()); err != nil {
		t.Errorf("snapshot not saved on presentation: %v", err)
	}
}

func TestStartSession_CatalogTooSmall(t *testing.T) {
	h := newHarness(t, api.TotalRounds-1)
	if err := h.ctrl.StartSession(api.DifficultyMedium); !errors.Is(err, playerrors.ErrCatalogTooSmall) {
		t.Errorf("StartSession() error = %v, want ErrCatalogTooSmall", err)
	}
}

func TestStartSession_AvoidsPlayedTracks(t *testing.T) {
	h := newHarness(t, 25)
	h.start(t, api.DifficultyMedium)
	first := h.ctrl.State()

	h.start(t, api.DifficultyMedium)
	second := h.ctrl.State()
	for _, tr := range second.RoundTracks {
		for _, prev := range first.RoundTracks {
			if tr.ID == prev.ID {
				t.Fatalf("track %s repeated across sessions", tr.ID)
			}
		}
	}
	if len(second.PlayedTrackIDs) != 20 {
		t.Errorf("played set = %d, want 20", len(second.PlayedTrackIDs))
	}

	// only 5 unplayed tracks remain, so the set starts over
	h.start(t, api.DifficultyMedium)
	if got := len(h.ctrl.State().PlayedTrackIDs); got != api.TotalRounds {
		t.Errorf("played set after exhaustion = %d, want %d", got, api.TotalRounds)
	}
}

func TestSubmitChoice(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyEasy)

	if err := h.ctrl.SubmitChoice(4); !errors.Is(err, playerrors.ErrInvalidChoice) {
		t.Errorf("SubmitChoice(4) error = %v, want ErrInvalidChoice", err)
	}
	if err := h.ctrl.SubmitChoice(-1); !errors.Is(err, playerrors.ErrInvalidChoice) {
		t.Errorf("SubmitChoice(-1) error = %v, want ErrInvalidChoice", err)
	}
	if err := h.ctrl.SubmitGuess("anything"); !errors.Is(err, playerrors.ErrWrongMode) {
		t.Errorf("SubmitGuess() in easy mode error = %v, want ErrWrongMode", err)
	}
	if h.ctrl.Round().Answered {
		t.Fatal("rejected input consumed the round")
	}

	correctIdx := h.ctrl.Round().CorrectIndex
	if err := h.ctrl.SubmitChoice(correctIdx); err != nil {
		t.Fatalf("SubmitChoice() error = %v", err)
	}
	state := h.ctrl.State()
	if state.Score != 1 || state.RoundResults[0] != api.OutcomeCorrect {
		t.Errorf("score/result = %d/%q, want 1/correct", state.Score, state.RoundResults[0])
	}

	// answered rounds ignore further submissions
	if err := h.ctrl.SubmitChoice((correctIdx + 1) % 4); err != nil {
		t.Errorf("second SubmitChoice() error = %v, want nil", err)
	}
	if got := h.ctrl.State(); got.Score != 1 || got.RoundResults[0] != api.OutcomeCorrect {
		t.Errorf("second submission changed state: %d/%q", got.Score, got.RoundResults[0])
	}
	if n := h.events.count(api.EventAnswerRevealed); n != 1 {
		t.Errorf("reveal events = %d, want 1", n)
	}

	ev, _ := h.events.last(api.EventAnswerRevealed)
	reveal := ev.Payload.(api.Reveal)
	if !reveal.Correct || reveal.ChosenIndex != correctIdx || reveal.CorrectIndex != correctIdx {
		t.Errorf("reveal = %+v", reveal)
	}
	if reveal.PerformerLabel != state.RoundTracks[0].Performer.Label() {
		t.Errorf("reveal label = %q", reveal.PerformerLabel)
	}
}

func TestSubmitGuess(t *testing.T) {
	tests := []struct {
		name    string
		guess   func(title string) string
		wantErr error
		correct bool
	}{
		{"exact", func(title string) string { return title }, nil, true},
		{"lower case", strings.ToLower, nil, true},
		{"wrong title", func(string) string { return "zzzz qqqq" }, nil, false},
		{"empty", func(string) string { return "   " }, playerrors.ErrEmptyGuess, false},
		{"punctuation only", func(string) string { return "!!! ?" }, playerrors.ErrEmptyGuess, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 20)
			h.start(t, api.DifficultyHard)
			state := h.ctrl.State()
			title := state.CurrentTrack().Title

			err := h.ctrl.SubmitGuess(tt.guess(title))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitGuess() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if h.ctrl.Round().Answered {
					t.Error("rejected guess consumed the round")
				}
				if h.events.count(api.EventRefocus) != 1 {
					t.Error("empty guess did not request refocus")
				}
				return
			}
			if got := h.ctrl.State().Score == 1; got != tt.correct {
				t.Errorf("scored correct = %v, want %v", got, tt.correct)
			}
		})
	}
}

func TestAutoAdvance(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyMedium)
	h.answer(t, true)

	h.clock.Advance(AutoAdvanceDelay - time.Millisecond)
	if got := h.ctrl.State().RoundIndex; got != 0 {
		t.Fatalf("advanced early to round %d", got)
	}
	h.clock.Advance(time.Millisecond)
	if got := h.ctrl.State().RoundIndex; got != 1 {
		t.Fatalf("round = %d after auto-advance delay, want 1", got)
	}
	if h.ctrl.Phase() != PhaseRoundActive || h.ctrl.Round().Answered {
		t.Error("next round not active")
	}
}

func TestManualAdvance(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyMedium)

	if err := h.ctrl.Advance(); !errors.Is(err, playerrors.ErrAdvanceTooEarly) {
		t.Errorf("Advance() before answering error = %v", err)
	}
	h.answer(t, false)
	h.clock.Advance(MinAdvanceDelay - time.Millisecond)
	if err := h.ctrl.Advance(); !errors.Is(err, playerrors.ErrAdvanceTooEarly) {
		t.Errorf("Advance() inside grace error = %v", err)
	}
	h.clock.Advance(time.Millisecond)
	if err := h.ctrl.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if got := h.ctrl.State().RoundIndex; got != 1 {
		t.Fatalf("round = %d, want 1", got)
	}

	// the pending auto-advance was cancelled with the manual one
	h.clock.Advance(5 * time.Second)
	if got := h.ctrl.State().RoundIndex; got != 1 {
		t.Errorf("stale auto-advance moved to round %d", got)
	}
}

func TestFullSession(t *testing.T) {
	tests := []struct {
		name      string
		mode      api.Difficulty
		correct   int
		message   string
		celebrate bool
	}{
		{"perfect easy", api.DifficultyEasy, 10, "PERFECT! You're the ultimate fan!", true},
		{"eight medium", api.DifficultyMedium, 8, "Amazing! You really know your music!", true},
		{"five hard", api.DifficultyHard, 5, "Not bad! Keep streaming!", false},
		{"none", api.DifficultyEasy, 0, "Don't give up!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 40)
			h.start(t, tt.mode)

			for i := 0; i < api.TotalRounds; i++ {
				h.answer(t, i < tt.correct)
				h.clock.Advance(AutoAdvanceDelay)
			}

			if h.ctrl.Phase() != PhaseSessionEnded {
				t.Fatalf("phase = %v, want session-ended", h.ctrl.Phase())
			}
			state := h.ctrl.State()
			if state.Score != tt.correct || state.CorrectCount() != tt.correct {
				t.Errorf("score = %d, correct outcomes = %d, want %d", state.Score, state.CorrectCount(), tt.correct)
			}

			ev, ok := h.events.last(api.EventSessionEnded)
			if !ok {
				t.Fatal("no session ended event")
			}
			summary := ev.Payload.(api.Summary)
			if summary.Message != tt.message || summary.Celebrate != tt.celebrate {
				t.Errorf("summary = %+v", summary)
			}
			if summary.Correct+summary.Wrong != api.TotalRounds {
				t.Errorf("correct+wrong = %d", summary.Correct+summary.Wrong)
			}
			if _, err := h.store.Load(context.Background()); !errors.Is(err, playerrors.ErrNoSnapshot) {
				t.Errorf("snapshot not cleared at session end: %v", err)
			}
			if err := h.ctrl.SubmitChoice(0); !errors.Is(err, playerrors.ErrNoActiveRound) {
				t.Errorf("SubmitChoice() after end error = %v", err)
			}
		})
	}
}

func TestFallback_ManualPlayback(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyEasy)

	if err := h.ctrl.PlaySnippet(); err != nil {
		t.Fatalf("PlaySnippet() error = %v", err)
	}
	h.clock.Advance(6 * time.Second)
	if !h.ctrl.Playback().FallbackActive {
		t.Fatal("fallback not active after the playback timeout")
	}
	ev, ok := h.events.last(api.EventFallback)
	if !ok || ev.Payload.(api.FallbackView).Notice == "" {
		t.Fatal("fallback activation not announced")
	}

	loads, plays, pauses := len(h.player.loads), h.player.plays, h.player.pauses
	if err := h.ctrl.PlaySnippet(); err != nil {
		t.Fatalf("PlaySnippet() in fallback error = %v", err)
	}
	if len(h.player.loads) != loads+1 || h.player.plays != plays+1 {
		t.Errorf("manual play: loads %d plays %d, want %d/%d", len(h.player.loads), h.player.plays, loads+1, plays+1)
	}
	ev, _ = h.events.last(api.EventFallback)
	view := ev.Payload.(api.FallbackView)
	if !view.Playing || view.TrackID != h.ctrl.State().RoundTracks[0].ID {
		t.Errorf("fallback view = %+v, want playing current track", view)
	}
	if view.ManualLink() != "https://open.spotify.com/track/"+view.TrackID {
		t.Errorf("ManualLink() = %q", view.ManualLink())
	}

	h.ctrl.StopSnippet()
	if h.player.pauses != pauses+1 {
		t.Errorf("pauses = %d, want %d", h.player.pauses, pauses+1)
	}
	if err := h.ctrl.PlaySnippet(); err != nil || h.player.plays != plays+2 {
		t.Errorf("resume: err %v plays %d, want %d", err, h.player.plays, plays+2)
	}

	// answering pauses manual playback and the next round stays manual
	h.answer(t, true)
	if h.player.pauses != pauses+2 {
		t.Errorf("answer did not pause manual playback")
	}
	h.clock.Advance(AutoAdvanceDelay)
	if err := h.ctrl.PlaySnippet(); err != nil {
		t.Fatalf("PlaySnippet() in round 2 error = %v", err)
	}
	if last := h.player.loads[len(h.player.loads)-1]; last != h.ctrl.State().RoundTracks[1].ID {
		t.Errorf("round 2 loaded %q", last)
	}
	if h.clock.Pending() > 1 {
		t.Errorf("%d timers pending, want only the auto-advance or none", h.clock.Pending())
	}
}

func TestAnswerStopsPlayback(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyMedium)

	if err := h.ctrl.PlaySnippet(); err != nil {
		t.Fatalf("PlaySnippet() error = %v", err)
	}
	h.clock.Advance(time.Second)
	h.ctrl.HandlePlayerEvent(api.PlayerEvent{Type: api.EventPlaybackUpdate, IsPaused: false})
	if !h.ctrl.Playback().ConfirmedStarted {
		t.Fatal("playback not confirmed")
	}
	if !h.ctrl.Round().HasPlayedSnippet {
		t.Error("round does not record the played snippet")
	}

	pauses := h.player.pauses
	h.answer(t, true)
	if h.player.pauses <= pauses {
		t.Error("answering did not pause the player")
	}
	if h.ctrl.Playback().RequestedPlaying {
		t.Error("playback still requested after answering")
	}
	if err := h.ctrl.PlaySnippet(); err != nil || h.ctrl.Playback().RequestedPlaying {
		t.Errorf("PlaySnippet() after answering = %v, requested %v", err, h.ctrl.Playback().RequestedPlaying)
	}
}

func TestRoundChangeCancelsPlayback(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyMedium)

	if err := h.ctrl.PlaySnippet(); err != nil {
		t.Fatal(err)
	}
	h.answer(t, false)
	h.clock.Advance(AutoAdvanceDelay)
	plays := h.player.plays

	// nothing from the first round's attempt may fire in the second round
	h.clock.Advance(10 * time.Second)
	if h.player.plays != plays {
		t.Errorf("stale play attempt fired in the next round")
	}
	if h.ctrl.Playback().FallbackActive {
		t.Error("stale timeout activated fallback")
	}
}

func TestRestore(t *testing.T) {
	h := newHarness(t, 20)
	tracks := h.cat.All()[:api.TotalRounds]

	results := make([]api.Outcome, api.TotalRounds)
	for i := 0; i < 5; i++ {
		results[i] = api.OutcomeCorrect
	}
	h.ctrl.Restore(&api.SessionState{
		Difficulty:   api.DifficultyHard,
		RoundIndex:   3,
		Score:        5,
		RoundTracks:  tracks,
		RoundResults: results,
	})

	state := h.ctrl.State()
	if state.RoundIndex != 5 {
		t.Errorf("round = %d, want 5 (answered rounds skipped)", state.RoundIndex)
	}
	if h.ctrl.Phase() != PhaseRoundActive || state.CurrentTrack().ID != tracks[5].ID {
		t.Errorf("restored round not presented")
	}
	if state.ID == "" || state.PlayedTrackIDs == nil {
		t.Error("restored session missing id or played set")
	}
}

func TestRestore_ScoreFromOutcomes(t *testing.T) {
	h := newHarness(t, 20)
	results := make([]api.Outcome, api.TotalRounds)
	for i := 0; i < api.TotalRounds-1; i++ {
		results[i] = api.OutcomeWrong
	}
	h.ctrl.Restore(&api.SessionState{
		Difficulty:   api.DifficultyHard,
		RoundIndex:   api.TotalRounds - 1,
		Score:        99,
		RoundTracks:  h.cat.All()[:api.TotalRounds],
		RoundResults: results,
	})
	if got := h.ctrl.State().Score; got != 0 {
		t.Fatalf("restored score = %d, want 0", got)
	}

	h.answer(t, false)
	h.clock.Advance(AutoAdvanceDelay)

	ev, ok := h.events.last(api.EventSessionEnded)
	if !ok {
		t.Fatal("session did not end")
	}
	summary := ev.Payload.(api.Summary)
	if summary.Score != 0 || summary.Wrong != api.TotalRounds || summary.Celebrate {
		t.Errorf("summary = %+v, want score 0 and %d wrong", summary, api.TotalRounds)
	}
}

func TestRestore_Finished(t *testing.T) {
	h := newHarness(t, 20)
	results := make([]api.Outcome, api.TotalRounds)
	for i := range results {
		results[i] = api.OutcomeWrong
	}
	h.ctrl.Restore(&api.SessionState{
		Difficulty:   api.DifficultyEasy,
		RoundTracks:  h.cat.All()[:api.TotalRounds],
		RoundResults: results,
	})
	if h.ctrl.Phase() != PhaseSessionEnded {
		t.Errorf("phase = %v, want session-ended", h.ctrl.Phase())
	}
}

func TestResumeSaved(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	if ok, err := h.ctrl.ResumeSaved(ctx); ok || err != nil {
		t.Fatalf("ResumeSaved() on empty store = %v, %v", ok, err)
	}

	h.start(t, api.DifficultyHard)
	h.answer(t, true)
	want := h.ctrl.State()

	other := New(Config{
		Player:    &fakePlayer{},
		Scheduler: h.clock,
		Catalog:   h.cat,
		Store:     h.store,
		Events:    &recorder{},
	})
	ok, err := other.ResumeSaved(ctx)
	if !ok || err != nil {
		t.Fatalf("ResumeSaved() = %v, %v", ok, err)
	}
	got := other.State()
	if got.ID != want.ID || got.Score != 1 || got.RoundIndex != 1 || got.Difficulty != api.DifficultyHard {
		t.Errorf("resumed state = %+v", got)
	}
}

func TestResetToStart(t *testing.T) {
	h := newHarness(t, 20)
	h.start(t, api.DifficultyEasy)
	h.answer(t, true)

	h.ctrl.ResetToStart()
	if h.ctrl.Phase() != PhaseNotStarted {
		t.Errorf("phase = %v, want not-started", h.ctrl.Phase())
	}
	if _, err := h.store.Load(context.Background()); !errors.Is(err, playerrors.ErrNoSnapshot) {
		t.Errorf("snapshot not cleared: %v", err)
	}
	h.clock.Advance(AutoAdvanceDelay)
	if h.ctrl.Phase() != PhaseNotStarted {
		t.Error("auto-advance fired after reset")
	}
	if err := h.ctrl.PlaySnippet(); !errors.Is(err, playerrors.ErrNoActiveRound) {
		t.Errorf("PlaySnippet() after reset error = %v", err)
	}
}

func TestScoreMessage(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{10, "PERFECT! You're the ultimate fan!"},
		{9, "Amazing! You really know your music!"},
		{8, "Amazing! You really know your music!"},
		{7, "Solid work, true fan energy!"},
		{4, "Not bad! Keep streaming!"},
		{3, "Time to revisit the discography!"},
		{1, "Don't give up!"},
		{0, "Don't give up!"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.score), func(t *testing.T) {
			if got := ScoreMessage(tt.score); got != tt.want {
				t.Errorf("ScoreMessage(%d) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}

// syncPoster runs posted functions immediately
type syncPoster struct{}

func (syncPoster) Post(fn func()) bool {
	fn()
	return true
}

func TestRunner_PlayOrAdvance(t *testing.T) {
	h := newHarness(t, 20)
	r := NewRunner(syncPoster{}, h.ctrl, nil)

	r.StartSession(api.DifficultyEasy)
	if h.ctrl.Phase() != PhaseRoundActive {
		t.Fatalf("phase = %v after StartSession", h.ctrl.Phase())
	}

	r.PlayOrAdvance()
	if !h.ctrl.Playback().RequestedPlaying {
		t.Fatal("PlayOrAdvance() on an active round did not request the snippet")
	}

	r.SubmitChoice(h.ctrl.Round().CorrectIndex)
	r.PlayOrAdvance()
	if got := h.ctrl.State().RoundIndex; got != 0 {
		t.Fatalf("advanced inside the grace period to round %d", got)
	}

	h.clock.Advance(MinAdvanceDelay)
	r.PlayOrAdvance()
	if got := h.ctrl.State().RoundIndex; got != 1 {
		t.Errorf("round = %d after PlayOrAdvance past grace, want 1", got)
	}
}

func TestRunner_PumpPlayerEvents(t *testing.T) {
	h := newHarness(t, 20)
	r := NewRunner(syncPoster{}, h.ctrl, nil)

	events := make(chan api.PlayerEvent, 1)
	events <- api.PlayerEvent{Type: api.EventPlaybackUpdate, IsPaused: true}
	close(events)

	r.PumpPlayerEvents(context.Background(), events)
}
