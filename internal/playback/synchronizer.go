// Package playback drives the external player capability through the
// snippet protocol: delayed seek+play, a single retry, an outer timeout that
// degrades to manual playback, and a countdown started only once playback
// is confirmed by the player's own event feed.
package playback

import (
	"math/rand"
	"time"

	"github.com/jscyril/golang_music_quiz/api"
	"github.com/jscyril/golang_music_quiz/internal/loop"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
	"go.uber.org/zap"
)

const (
	taskPlay       = "play"
	taskRetry      = "retry"
	taskTimeout    = "timeout"
	taskExpire     = "expire"
	taskTick       = "tick"
	taskPauseCheck = "pause-check"
	taskReady      = "ready"
)

// Listener receives snippet transitions. It is called on the scheduler's thread.
type Listener interface {
	SnippetLoading(track *api.Track)
	SnippetStarted(track *api.Track, total time.Duration)
	SnippetProgress(progress api.Progress)
	SnippetEnded(track *api.Track)
	FallbackActivated(track *api.Track)
	ManualPlayback(track *api.Track, playing bool)
	Notice(message string)
}

// Config wires a Synchronizer to its collaborators
type Config struct {
	Player    api.Player
	Scheduler loop.Scheduler
	State     *api.PlaybackState
	Listener  Listener
	Timing    Timing
	Rand      *rand.Rand
	Logger    *zap.Logger
}

// Synchronizer runs the snippet protocol against an unreliable player.
// All methods must be called on the scheduler's thread.
type Synchronizer struct {
	player   api.Player
	sched    loop.Scheduler
	tasks    *loop.TaskGroup // scoped to the current attempt
	startup  *loop.TaskGroup
	state    *api.PlaybackState
	listener Listener
	timing   Timing
	rng      *rand.Rand
	log      *zap.Logger

	ready           bool
	playerPlaying   bool
	track           *api.Track
	playedSinceLoad bool
	duration        time.Duration

	// direct play/pause once fallback is active
	manualTrack   string
	manualPlaying bool
}

// New creates a synchronizer
func New(cfg Config) *Synchronizer {
	if cfg.State == nil {
		cfg.State = &api.PlaybackState{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Synchronizer{
		player:   cfg.Player,
		sched:    cfg.Scheduler,
		tasks:    loop.NewTaskGroup(cfg.Scheduler),
		startup:  loop.NewTaskGroup(cfg.Scheduler),
		state:    cfg.State,
		listener: cfg.Listener,
		timing:   cfg.Timing.withDefaults(),
		rng:      cfg.Rand,
		log:      cfg.Logger,
	}
}

// Init arms the readiness window of the player
func (s *Synchronizer) Init() {
	if s.ready {
		return
	}
	s.startup.Schedule(taskReady, s.timing.InitTimeout, func() {
		if s.ready {
			return
		}
		s.log.Warn("player not ready, switching to manual playback",
			zap.Duration("timeout", s.timing.InitTimeout))
		s.activateFallback()
	})
}

// Ready reports whether the player announced readiness
func (s *Synchronizer) Ready() bool {
	return s.ready
}

// Playing reports whether a snippet has been requested and not stopped
func (s *Synchronizer) Playing() bool {
	return s.state.RequestedPlaying
}

// HandleEvent consumes a notification from the player's event feed
func (s *Synchronizer) HandleEvent(ev api.PlayerEvent) {
	switch ev.Type {
	case api.EventReady:
		if s.ready {
			return
		}
		s.ready = true
		s.startup.CancelAll()
		s.log.Info("player ready")
		if s.track != nil && !s.state.FallbackActive {
			s.load(s.track)
		}

	case api.EventPlaybackUpdate:
		s.playerPlaying = !ev.IsPaused
		if s.state.FallbackActive {
			if s.manualTrack != "" && s.manualPlaying != s.playerPlaying {
				s.manualPlaying = s.playerPlaying
				s.listener.ManualPlayback(s.track, s.manualPlaying)
			}
			return
		}
		if !s.playerPlaying || !s.state.RequestedPlaying || s.state.ConfirmedStarted {
			return
		}
		s.confirm()
	}
}

// NewSession clears playback state for a new session. Fallback mode only
// clears when the player is usable.
func (s *Synchronizer) NewSession() {
	s.Reset()
	fallback := s.state.FallbackActive && !s.ready
	*s.state = api.PlaybackState{FallbackActive: fallback}
	s.track = nil
	s.playedSinceLoad = false
	s.manualTrack = ""
}

// Reset cancels every pending task of the current context
func (s *Synchronizer) Reset() {
	s.tasks.CancelAll()
	s.state.RequestedPlaying = false
	s.state.ConfirmedStarted = false
	s.state.CountdownStartAt = time.Time{}
	if s.playerPlaying || s.manualPlaying {
		s.manualPlaying = false
		s.pause()
	}
}

// LoadTrack prepares the player for a new round without playing
func (s *Synchronizer) LoadTrack(track *api.Track) {
	s.Reset()
	s.track = track
	s.playedSinceLoad = false

	if s.state.FallbackActive {
		s.listener.ManualPlayback(track, false)
		return
	}
	if s.ready {
		s.load(track)
	}
}

// StartSnippet plays a snippet of track for duration once playback is confirmed
func (s *Synchronizer) StartSnippet(track *api.Track, duration time.Duration) error {
	if s.state.RequestedPlaying {
		return nil
	}
	if s.state.FallbackActive {
		s.listener.Notice("Use the manual player to listen!")
		return playerrors.ErrFallbackActive
	}
	if !s.ready {
		s.activateFallback()
		return playerrors.ErrFallbackActive
	}

	s.tasks.CancelAll()
	if s.track == nil || s.track.ID != track.ID {
		s.track = track
		s.playedSinceLoad = false
		s.load(track)
	}

	s.state.RequestedPlaying = true
	s.state.ConfirmedStarted = false
	s.state.CountdownStartAt = time.Time{}
	s.duration = duration

	offset := s.pickOffset(track)
	if s.playedSinceLoad {
		s.load(track)
	}
	s.playedSinceLoad = true

	sinceLoad := s.sched.Now().Sub(s.state.LastLoadAt)
	initialDelay := max(s.timing.MinPlayDelay, s.timing.TargetLoadDelay-sinceLoad)

	s.log.Debug("snippet requested",
		zap.String("track", track.ID),
		zap.Duration("offset", offset),
		zap.Duration("delay", initialDelay),
		zap.Uint64("attempt", s.tasks.Generation()))
	s.listener.SnippetLoading(track)

	s.tasks.Schedule(taskPlay, initialDelay, func() {
		s.attemptPlay(track, offset)
	})
	s.tasks.Schedule(taskRetry, initialDelay+s.timing.RetryDelay, func() {
		if s.state.ConfirmedStarted || !s.state.RequestedPlaying {
			return
		}
		s.log.Info("playback not confirmed, retrying", zap.String("track", track.ID))
		s.attemptPlay(track, offset)
	})
	s.tasks.Schedule(taskTimeout, s.timing.PlayTimeout, func() {
		if s.state.ConfirmedStarted || !s.state.RequestedPlaying {
			return
		}
		s.log.Warn("playback never confirmed",
			zap.String("track", track.ID),
			zap.Duration("timeout", s.timing.PlayTimeout))
		s.stop()
		s.activateFallback()
	})
	return nil
}

// StopSnippet stops a requested snippet or pauses manual playback
func (s *Synchronizer) StopSnippet() {
	if s.manualPlaying {
		s.manualPlaying = false
		s.pause()
		s.listener.ManualPlayback(s.track, false)
		return
	}
	if !s.state.RequestedPlaying {
		return
	}
	s.stop()
}

// Remaining returns the remaining snippet time
func (s *Synchronizer) Remaining() time.Duration {
	if !s.state.RequestedPlaying {
		return 0
	}
	if !s.state.ConfirmedStarted {
		return s.duration
	}
	elapsed := s.sched.Now().Sub(s.state.CountdownStartAt)
	return max(0, s.duration-elapsed)
}

// ToggleManual plays or pauses track directly on the player. Once fallback
// is active this is the only playback path: there is no delay, retry,
// timeout or countdown. A track is loaded and seeked to a safe offset the
// first time it is played; later calls pause and resume it.
func (s *Synchronizer) ToggleManual(track *api.Track) error {
	if !s.state.FallbackActive {
		return playerrors.ErrNotInFallback
	}
	if s.manualPlaying && s.manualTrack == track.ID {
		s.StopSnippet()
		return nil
	}

	s.track = track
	if s.manualTrack != track.ID {
		s.state.LastLoadAt = s.sched.Now()
		if err := s.player.Load(track.ID); err != nil {
			return s.manualFailed("load", track, err)
		}
		s.manualTrack = track.ID
		if err := s.player.Seek(s.pickOffset(track)); err != nil {
			return s.manualFailed("seek", track, err)
		}
	}
	if err := s.player.Play(); err != nil {
		return s.manualFailed("play", track, err)
	}

	s.manualPlaying = true
	s.log.Debug("manual playback", zap.String("track", track.ID))
	s.listener.ManualPlayback(track, true)
	return nil
}

func (s *Synchronizer) manualFailed(op string, track *api.Track, err error) error {
	perr := playerrors.NewPlaybackError(op, track.ID, err)
	s.log.Warn("manual playback failed", zap.Error(perr))
	s.listener.Notice("Playback error, press play to try again")
	return perr
}

func (s *Synchronizer) attemptPlay(track *api.Track, offset time.Duration) {
	if !s.state.RequestedPlaying {
		return
	}
	if err := s.player.Seek(offset); err != nil {
		s.transient("seek", track, err)
		return
	}
	if err := s.player.Play(); err != nil {
		s.transient("play", track, err)
	}
}

func (s *Synchronizer) confirm() {
	s.state.ConfirmedStarted = true
	s.state.CountdownStartAt = s.sched.Now()
	s.tasks.Cancel(taskRetry)
	s.tasks.Cancel(taskTimeout)

	s.log.Debug("playback confirmed", zap.String("track", s.track.ID))
	s.listener.SnippetStarted(s.track, s.duration)

	s.tasks.Schedule(taskExpire, s.duration, s.stop)
	s.scheduleTick()
}

func (s *Synchronizer) scheduleTick() {
	s.tasks.Schedule(taskTick, s.timing.TickInterval, func() {
		remaining := s.Remaining()
		s.listener.SnippetProgress(api.Progress{Remaining: remaining, Total: s.duration})
		if remaining > 0 {
			s.scheduleTick()
		}
	})
}

// stop pauses the player and reissues the pause once if it keeps playing
func (s *Synchronizer) stop() {
	s.tasks.CancelAll()
	s.state.RequestedPlaying = false
	s.state.ConfirmedStarted = false

	s.pause()
	s.tasks.Schedule(taskPauseCheck, s.timing.StopRetryDelay, func() {
		if s.playerPlaying {
			s.log.Debug("pause not confirmed, pausing again")
			s.pause()
		}
	})
	s.listener.SnippetEnded(s.track)
}

func (s *Synchronizer) pause() {
	if err := s.player.Pause(); err != nil {
		s.transient("pause", s.track, err)
	}
}

func (s *Synchronizer) load(track *api.Track) {
	s.state.LastLoadAt = s.sched.Now()
	if err := s.player.Load(track.ID); err != nil {
		s.transient("load", track, err)
	}
}

func (s *Synchronizer) activateFallback() {
	s.state.RequestedPlaying = false
	if s.state.FallbackActive {
		return
	}
	s.state.FallbackActive = true
	s.log.Warn("manual playback fallback activated")
	s.listener.FallbackActivated(s.track)
}

func (s *Synchronizer) transient(op string, track *api.Track, err error) {
	id := ""
	if track != nil {
		id = track.ID
	}
	perr := playerrors.NewPlaybackError(op, id, err)
	s.log.Warn("transient playback error", zap.Error(perr))
	s.listener.Notice("Playback error, trying again...")
}

func (s *Synchronizer) pickOffset(track *api.Track) time.Duration {
	if len(track.SafeOffsets) == 0 {
		return s.timing.DefaultOffset
	}
	sec := track.SafeOffsets[s.rng.Intn(len(track.SafeOffsets))]
	return time.Duration(sec * float64(time.Second))
}
