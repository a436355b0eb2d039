// Package audio plays catalog tracks from local files through the speaker.
package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
	"go.uber.org/zap"
)

// Ensure AudioEngine implements Player interface at compile time
var _ api.Player = (*AudioEngine)(nil)

// DefaultSampleRate is the speaker rate every track is resampled to
const DefaultSampleRate beep.SampleRate = 44100

// Resolver maps a track ID to a local audio file
type Resolver interface {
	Resolve(id string) (string, error)
}

type commandType int

const (
	cmdLoad commandType = iota
	cmdSeek
	cmdPlay
	cmdPause
	cmdVolume
)

type command struct {
	typ    commandType
	path   string
	id     string
	offset time.Duration
	level  float64
}

// AudioEngine is a local player. Commands are queued to a single goroutine;
// state changes are reported on the event channel the way a remote player
// would report them, without delivery guarantees.
type AudioEngine struct {
	resolver Resolver
	log      *zap.Logger
	commands chan command
	events   chan api.PlayerEvent

	mu         sync.RWMutex
	streamer   beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	format     beep.Format
	level      float64
	trackID    string
	sampleRate beep.SampleRate
}

// NewAudioEngine creates a new audio engine instance
func NewAudioEngine(resolver Resolver, log *zap.Logger) *AudioEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &AudioEngine{
		resolver:   resolver,
		log:        log,
		commands:   make(chan command, 16),
		events:     make(chan api.PlayerEvent, 20),
		level:      0.5,
		sampleRate: DefaultSampleRate,
	}
}

// Start opens the speaker and begins processing commands. Readiness is
// only announced when the speaker could be opened.
func (e *AudioEngine) Start(ctx context.Context) {
	go e.run(ctx)
	go e.reportState(ctx)
}

// Events returns the player's event feed
func (e *AudioEngine) Events() <-chan api.PlayerEvent {
	return e.events
}

func (e *AudioEngine) run(ctx context.Context) {
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/10)); err != nil {
		e.log.Error("speaker unavailable", zap.Error(err))
	} else {
		e.emit(api.PlayerEvent{Type: api.EventReady})
	}

	for {
		select {
		case <-ctx.Done():
			e.cleanup()
			return

		case cmd := <-e.commands:
			switch cmd.typ {
			case cmdLoad:
				if err := e.loadTrack(cmd.id, cmd.path); err != nil {
					e.log.Warn("load failed", zap.Error(err))
					continue
				}
				e.emitState()

			case cmdSeek:
				e.seekTo(cmd.offset)

			case cmdPlay:
				e.setPaused(false)
				e.emitState()

			case cmdPause:
				e.setPaused(true)
				e.emitState()

			case cmdVolume:
				e.mu.Lock()
				e.level = cmd.level
				if e.volume != nil {
					speaker.Lock()
					e.volume.Volume = cmd.level*2 - 1
					speaker.Unlock()
				}
				e.mu.Unlock()
			}
		}
	}
}

// reportState repeats the paused state periodically while a track is loaded
func (e *AudioEngine) reportState(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.emitState()
		}
	}
}

func (e *AudioEngine) loadTrack(id, path string) error {
	e.stopPlayback()

	streamer, format, err := OpenFile(path)
	if err != nil {
		return playerrors.NewPlaybackError("load", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.streamer = streamer
	e.format = format
	e.trackID = id
	e.ctrl = &beep.Ctrl{
		Streamer: beep.Resample(4, format.SampleRate, e.sampleRate, streamer),
		Paused:   true,
	}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   e.level*2 - 1,
	}
	speaker.Play(e.volume)
	return nil
}

func (e *AudioEngine) stopPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()

	speaker.Clear()
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	e.ctrl = nil
	e.volume = nil
	e.trackID = ""
}

func (e *AudioEngine) seekTo(offset time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return
	}
	pos := e.format.SampleRate.N(offset)
	if last := e.streamer.Len() - 1; pos > last {
		pos = max(last, 0)
	}

	speaker.Lock()
	err := e.streamer.Seek(pos)
	speaker.Unlock()
	if err != nil {
		e.log.Warn("seek failed", zap.String("track", e.trackID), zap.Error(err))
	}
}

func (e *AudioEngine) setPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl == nil {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = paused
	speaker.Unlock()
}

func (e *AudioEngine) emitState() {
	e.mu.RLock()
	loaded := e.ctrl != nil
	paused := true
	if loaded {
		speaker.Lock()
		paused = e.ctrl.Paused
		speaker.Unlock()
	}
	e.mu.RUnlock()

	if loaded {
		e.emit(api.PlayerEvent{Type: api.EventPlaybackUpdate, IsPaused: paused})
	}
}

// emit drops the event when nobody keeps up with the feed
func (e *AudioEngine) emit(ev api.PlayerEvent) {
	select {
	case e.events <- ev:
	default:
	}
}

func (e *AudioEngine) cleanup() {
	e.stopPlayback()
}

func (e *AudioEngine) send(cmd command) error {
	select {
	case e.commands <- cmd:
		return nil
	default:
		return fmt.Errorf("%w: command queue full", playerrors.ErrPlaybackFailed)
	}
}

// Load resolves and loads a track without playing it
func (e *AudioEngine) Load(trackID string) error {
	path, err := e.resolver.Resolve(trackID)
	if err != nil {
		return err
	}
	if !IsSupported(path) {
		return fmt.Errorf("%w: %s", playerrors.ErrInvalidFormat, path)
	}
	return e.send(command{typ: cmdLoad, id: trackID, path: path})
}

// Seek moves the loaded track to offset
func (e *AudioEngine) Seek(offset time.Duration) error {
	if offset < 0 {
		offset = 0
	}
	return e.send(command{typ: cmdSeek, offset: offset})
}

// Play resumes the loaded track
func (e *AudioEngine) Play() error {
	return e.send(command{typ: cmdPlay})
}

// Pause pauses playback
func (e *AudioEngine) Pause() error {
	return e.send(command{typ: cmdPause})
}

// SetVolume sets the volume level (0.0 to 1.0)
func (e *AudioEngine) SetVolume(level float64) error {
	if level < 0 || level > 1 {
		return fmt.Errorf("%w: volume %.2f out of range", playerrors.ErrPlaybackFailed, level)
	}
	return e.send(command{typ: cmdVolume, level: level})
}
