package game

import (
	"context"
	"errors"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
	"go.uber.org/zap"
)

// Poster runs a function on the controller's thread
type Poster interface {
	Post(fn func()) bool
}

// Runner is the thread-safe face of a Controller. Every call is posted to
// the loop that owns the controller and returns without waiting.
type Runner struct {
	loop Poster
	ctrl *Controller
	log  *zap.Logger
}

// NewRunner creates a runner posting to loop
func NewRunner(loop Poster, ctrl *Controller, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{loop: loop, ctrl: ctrl, log: log.Named("runner")}
}

// PumpPlayerEvents forwards the player's feed onto the loop until ctx ends
// or the feed closes
func (r *Runner) PumpPlayerEvents(ctx context.Context, events <-chan api.PlayerEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.loop.Post(func() { r.ctrl.HandlePlayerEvent(ev) })
		}
	}
}

func (r *Runner) post(op string, fn func() error) {
	r.loop.Post(func() {
		if err := fn(); err != nil && !expected(err) {
			r.log.Warn("operation failed", zap.String("op", op), zap.Error(err))
		}
	})
}

// expected reports errors that are part of normal interaction
func expected(err error) bool {
	return errors.Is(err, playerrors.ErrEmptyGuess) ||
		errors.Is(err, playerrors.ErrAdvanceTooEarly) ||
		errors.Is(err, playerrors.ErrFallbackActive) ||
		errors.Is(err, playerrors.ErrNoActiveRound)
}

// Init starts the player readiness window and resumes a saved session
func (r *Runner) Init(ctx context.Context) {
	r.loop.Post(func() {
		r.ctrl.Init()
		if _, err := r.ctrl.ResumeSaved(ctx); err != nil {
			r.log.Info("saved session discarded", zap.Error(err))
		}
	})
}

func (r *Runner) StartSession(mode api.Difficulty) {
	r.post("start", func() error { return r.ctrl.StartSession(mode) })
}

func (r *Runner) PlaySnippet() {
	r.post("play", r.ctrl.PlaySnippet)
}

func (r *Runner) StopSnippet() {
	r.loop.Post(r.ctrl.StopSnippet)
}

func (r *Runner) SubmitChoice(index int) {
	r.post("choice", func() error { return r.ctrl.SubmitChoice(index) })
}

func (r *Runner) SubmitGuess(guess string) {
	r.post("guess", func() error { return r.ctrl.SubmitGuess(guess) })
}

// PlayOrAdvance advances an answered round once the grace period is over
// and otherwise requests the snippet
func (r *Runner) PlayOrAdvance() {
	r.post("play-or-advance", func() error {
		if r.ctrl.Phase() == PhaseRoundAnswered {
			return r.ctrl.Advance()
		}
		return r.ctrl.PlaySnippet()
	})
}

func (r *Runner) ResetToStart() {
	r.loop.Post(r.ctrl.ResetToStart)
}
