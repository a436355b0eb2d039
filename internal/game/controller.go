// Package game runs quiz sessions: round presentation, answer scoring and
// advancing, with snippet playback delegated to the playback synchronizer.
package game

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/distractor"
	"github.com/jscyril/golang_music_quiz/internal/loop"
	"github.com/jscyril/golang_music_quiz/internal/matcher"
	"github.com/jscyril/golang_music_quiz/internal/playback"
	"github.com/jscyril/golang_music_quiz/internal/session"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
	"go.uber.org/zap"
)

const (
	// AutoAdvanceDelay is how long the answer stays revealed
	AutoAdvanceDelay = 3000 * time.Millisecond
	// MinAdvanceDelay is the grace before a manual advance is accepted
	MinAdvanceDelay = 1000 * time.Millisecond

	taskAdvance = "advance"

	storeTimeout = 2 * time.Second
)

// Phase is the controller state
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRoundActive
	PhaseRoundAnswered
	PhaseSessionEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseRoundActive:
		return "round-active"
	case PhaseRoundAnswered:
		return "round-answered"
	case PhaseSessionEnded:
		return "session-ended"
	default:
		return "not-started"
	}
}

// Catalog is the track source of a session
type Catalog interface {
	All() []*api.Track
	GetTrack(id string) (*api.Track, error)
}

// Publisher receives quiz events for the presentation layer
type Publisher interface {
	Publish(event api.QuizEvent)
}

// Config wires a Controller to its collaborators
type Config struct {
	Player    api.Player
	Scheduler loop.Scheduler
	Catalog   Catalog
	Store     session.Store
	Events    Publisher
	Timing    playback.Timing
	Rand      *rand.Rand
	Logger    *zap.Logger
}

// Controller is the round state machine. All methods must run on the
// scheduler's thread.
type Controller struct {
	sched   loop.Scheduler
	tasks   *loop.TaskGroup
	sync    *playback.Synchronizer
	catalog Catalog
	store   session.Store
	events  Publisher
	rng     *rand.Rand
	log     *zap.Logger

	phase    Phase
	session  api.SessionState
	round    api.RoundState
	playback api.PlaybackState
}

// New creates a controller and its playback synchronizer
func New(cfg Config) *Controller {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	c := &Controller{
		sched:   cfg.Scheduler,
		tasks:   loop.NewTaskGroup(cfg.Scheduler),
		catalog: cfg.Catalog,
		store:   cfg.Store,
		events:  cfg.Events,
		rng:     cfg.Rand,
		log:     cfg.Logger.Named("game"),
		session: api.SessionState{
			Difficulty:     api.DifficultyMedium,
			PlayedTrackIDs: make(map[string]struct{}),
		},
		round: api.RoundState{CorrectIndex: -1},
	}
	c.sync = playback.New(playback.Config{
		Player:    cfg.Player,
		Scheduler: cfg.Scheduler,
		State:     &c.playback,
		Listener:  c,
		Timing:    cfg.Timing,
		Rand:      cfg.Rand,
		Logger:    cfg.Logger.Named("playback"),
	})
	return c
}

// Init starts the player readiness window
func (c *Controller) Init() {
	c.sync.Init()
}

// HandlePlayerEvent forwards a player notification to the synchronizer
func (c *Controller) HandlePlayerEvent(ev api.PlayerEvent) {
	c.sync.HandleEvent(ev)
}

// Phase returns the current controller state
func (c *Controller) Phase() Phase {
	return c.phase
}

// State returns a copy of the session state
func (c *Controller) State() api.SessionState {
	s := c.session
	s.RoundTracks = append([]*api.Track(nil), c.session.RoundTracks...)
	s.RoundResults = append([]api.Outcome(nil), c.session.RoundResults...)
	s.PlayedTrackIDs = make(map[string]struct{}, len(c.session.PlayedTrackIDs))
	for id := range c.session.PlayedTrackIDs {
		s.PlayedTrackIDs[id] = struct{}{}
	}
	return s
}

// Round returns a copy of the current round state
func (c *Controller) Round() api.RoundState {
	r := c.round
	r.Options = append([]*api.Track(nil), c.round.Options...)
	return r
}

// Playback returns the shared playback state
func (c *Controller) Playback() api.PlaybackState {
	return c.playback
}

// Remaining returns the remaining snippet time
func (c *Controller) Remaining() time.Duration {
	return c.sync.Remaining()
}

// Snapshot returns the persistable form of the current session
func (c *Controller) Snapshot() session.Snapshot {
	return session.FromState(&c.session)
}

// StartSession begins a new session in the given mode
func (c *Controller) StartSession(mode api.Difficulty) error {
	if len(c.catalog.All()) < api.TotalRounds {
		return playerrors.ErrCatalogTooSmall
	}

	c.tasks.CancelAll()
	c.sync.NewSession()

	played := c.session.PlayedTrackIDs
	if played == nil {
		played = make(map[string]struct{})
	}
	c.session = api.SessionState{
		ID:             uuid.NewString(),
		Difficulty:     api.ParseDifficulty(string(mode)),
		RoundResults:   make([]api.Outcome, api.TotalRounds),
		PlayedTrackIDs: played,
	}
	c.session.RoundTracks = c.draw(api.TotalRounds)

	c.log.Info("session started",
		zap.String("session", c.session.ID),
		zap.String("difficulty", string(c.session.Difficulty)))
	c.presentRound()
	return nil
}

// draw picks count tracks not played before, starting over once the
// unplayed pool is too small
func (c *Controller) draw(count int) []*api.Track {
	all := c.catalog.All()
	available := make([]*api.Track, 0, len(all))
	for _, t := range all {
		if _, seen := c.session.PlayedTrackIDs[t.ID]; !seen {
			available = append(available, t)
		}
	}
	if len(available) < count {
		c.log.Debug("played pool exhausted, starting over", zap.Int("available", len(available)))
		c.session.PlayedTrackIDs = make(map[string]struct{})
		available = all
	}

	distractor.Shuffle(available, c.rng)
	picked := available[:count]
	for _, t := range picked {
		c.session.PlayedTrackIDs[t.ID] = struct{}{}
	}
	return picked
}

func (c *Controller) presentRound() {
	c.tasks.CancelAll()
	track := c.session.CurrentTrack()
	c.phase = PhaseRoundActive
	c.round = api.RoundState{CorrectIndex: -1}

	var titles []string
	if c.session.Difficulty.MultipleChoice() {
		c.round.Options, c.round.CorrectIndex = distractor.Generate(track, c.catalog.All(), c.rng)
		for _, o := range c.round.Options {
			titles = append(titles, o.Title)
		}
	}

	c.save()
	c.events.Publish(api.QuizEvent{Type: api.EventRoundPresented, Payload: api.RoundView{
		Number:         c.session.RoundIndex + 1,
		Total:          api.TotalRounds,
		Score:          c.session.Score,
		Results:        append([]api.Outcome(nil), c.session.RoundResults...),
		MultipleChoice: c.session.Difficulty.MultipleChoice(),
		Options:        titles,
		Duration:       c.session.Difficulty.SnippetDuration(),
		ManualPlayback: c.playback.FallbackActive,
	}})

	c.log.Debug("round presented",
		zap.Int("round", c.session.RoundIndex+1),
		zap.String("track", track.ID))
	c.sync.LoadTrack(track)
}

// PlaySnippet requests playback of the current round's snippet. In
// fallback mode it toggles manual playback instead.
func (c *Controller) PlaySnippet() error {
	switch c.phase {
	case PhaseRoundActive:
	case PhaseRoundAnswered:
		return nil
	default:
		return playerrors.ErrNoActiveRound
	}

	track := c.session.CurrentTrack()
	var err error
	if c.playback.FallbackActive {
		err = c.sync.ToggleManual(track)
	} else {
		err = c.sync.StartSnippet(track, c.session.Difficulty.SnippetDuration())
	}
	if err != nil {
		return err
	}
	c.round.HasPlayedSnippet = true
	return nil
}

// StopSnippet stops the snippet or pauses manual playback
func (c *Controller) StopSnippet() {
	c.sync.StopSnippet()
}

// SubmitChoice answers a multiple-choice round
func (c *Controller) SubmitChoice(index int) error {
	if done, err := c.checkAnswerable(); done {
		return err
	}
	if !c.session.Difficulty.MultipleChoice() {
		return playerrors.ErrWrongMode
	}
	if index < 0 || index >= len(c.round.Options) {
		return playerrors.ErrInvalidChoice
	}

	correct := c.round.Options[index].ID == c.session.CurrentTrack().ID
	c.score(correct, index)
	return nil
}

// SubmitGuess answers a free-text round
func (c *Controller) SubmitGuess(guess string) error {
	if done, err := c.checkAnswerable(); done {
		return err
	}
	if c.session.Difficulty.MultipleChoice() {
		return playerrors.ErrWrongMode
	}
	// a guess with nothing to compare after normalization does not use up the round
	if matcher.Normalize(guess) == "" {
		c.events.Publish(api.QuizEvent{Type: api.EventRefocus})
		return playerrors.ErrEmptyGuess
	}

	correct := matcher.IsMatch(guess, c.session.CurrentTrack().Title)
	c.log.Debug("guess scored", zap.String("guess", guess), zap.Bool("correct", correct))
	c.score(correct, -1)
	return nil
}

// checkAnswerable reports done when the submission must not be scored
func (c *Controller) checkAnswerable() (bool, error) {
	switch c.phase {
	case PhaseRoundActive:
		return false, nil
	case PhaseRoundAnswered:
		return true, nil
	default:
		return true, playerrors.ErrNoActiveRound
	}
}

func (c *Controller) score(correct bool, chosen int) {
	c.sync.StopSnippet()

	track := c.session.CurrentTrack()
	c.round.Answered = true
	c.round.AnsweredAt = c.sched.Now()
	c.phase = PhaseRoundAnswered

	outcome := api.OutcomeWrong
	if correct {
		c.session.Score++
		outcome = api.OutcomeCorrect
	}
	c.session.RoundResults[c.session.RoundIndex] = outcome
	c.save()

	c.events.Publish(api.QuizEvent{Type: api.EventAnswerRevealed, Payload: api.Reveal{
		Correct:        correct,
		Title:          track.Title,
		Artist:         track.Artist,
		PerformerLabel: track.Performer.Label(),
		Performer:      track.Performer,
		ChosenIndex:    chosen,
		CorrectIndex:   c.round.CorrectIndex,
		Score:          c.session.Score,
		Results:        append([]api.Outcome(nil), c.session.RoundResults...),
	}})

	c.tasks.Schedule(taskAdvance, AutoAdvanceDelay, c.advance)
}

// Advance moves past an answered round once the grace period has passed
func (c *Controller) Advance() error {
	switch c.phase {
	case PhaseRoundAnswered:
	case PhaseRoundActive:
		return playerrors.ErrAdvanceTooEarly
	default:
		return playerrors.ErrNoActiveRound
	}
	if c.sched.Now().Sub(c.round.AnsweredAt) < MinAdvanceDelay {
		return playerrors.ErrAdvanceTooEarly
	}
	c.advance()
	return nil
}

func (c *Controller) advance() {
	c.tasks.Cancel(taskAdvance)
	c.session.RoundIndex++
	if c.session.RoundIndex >= api.TotalRounds {
		c.end()
		return
	}
	c.presentRound()
}

func (c *Controller) end() {
	c.tasks.CancelAll()
	c.sync.Reset()
	c.phase = PhaseSessionEnded
	c.clearStore()

	correct := c.session.CorrectCount()
	summary := api.Summary{
		Score:     c.session.Score,
		Total:     api.TotalRounds,
		Correct:   correct,
		Wrong:     c.session.AnsweredCount() - correct,
		Message:   ScoreMessage(c.session.Score),
		Celebrate: c.session.Score >= CelebrateScore,
	}
	c.log.Info("session ended",
		zap.String("session", c.session.ID),
		zap.Int("score", summary.Score))
	c.events.Publish(api.QuizEvent{Type: api.EventSessionEnded, Payload: summary})
}

// Restore resumes a validated session. Rounds that already have an
// outcome are skipped.
func (c *Controller) Restore(state *api.SessionState) {
	c.tasks.CancelAll()
	c.sync.NewSession()

	c.session = *state
	if c.session.ID == "" {
		c.session.ID = uuid.NewString()
	}
	if c.session.PlayedTrackIDs == nil {
		c.session.PlayedTrackIDs = make(map[string]struct{})
	}
	results := make([]api.Outcome, api.TotalRounds)
	copy(results, state.RoundResults)
	c.session.RoundResults = results
	c.session.Score = c.session.CorrectCount()
	c.session.RoundIndex = max(state.RoundIndex, c.session.AnsweredCount())

	c.log.Info("session restored",
		zap.String("session", c.session.ID),
		zap.Int("round", c.session.RoundIndex+1))

	if c.session.RoundIndex >= api.TotalRounds {
		c.end()
		return
	}
	c.presentRound()
}

// ResumeSaved restores the stored session if there is a valid one
func (c *Controller) ResumeSaved(ctx context.Context) (bool, error) {
	state, err := session.Resume(ctx, c.store, c.catalog)
	if err != nil {
		if errors.Is(err, playerrors.ErrNoSnapshot) {
			return false, nil
		}
		return false, err
	}
	c.Restore(state)
	return true, nil
}

// ResetToStart abandons the session and forgets the saved snapshot
func (c *Controller) ResetToStart() {
	c.tasks.CancelAll()
	c.sync.Reset()
	c.clearStore()
	c.phase = PhaseNotStarted
	c.round = api.RoundState{CorrectIndex: -1}
}

func (c *Controller) save() {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.store.Save(ctx, session.FromState(&c.session)); err != nil {
		c.log.Debug("session snapshot not saved", zap.Error(err))
	}
}

func (c *Controller) clearStore() {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.store.Clear(ctx); err != nil {
		c.log.Debug("session snapshot not cleared", zap.Error(err))
	}
}
