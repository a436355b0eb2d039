package api

import "time"

// Player is the external audio capability a snippet is played through.
// Calls may fail synchronously; confirmation of actual playback only
// arrives through Events, possibly late, duplicated or never.
type Player interface {
	Load(trackID string) error
	Seek(offset time.Duration) error
	Play() error
	Pause() error
	Events() <-chan PlayerEvent
}

// PlayerEventType identifies a player notification
type PlayerEventType int

const (
	// EventReady is delivered once when the capability can accept commands
	EventReady PlayerEventType = iota
	// EventPlaybackUpdate reports the current paused state
	EventPlaybackUpdate
)

// PlayerEvent is a notification from the player capability
type PlayerEvent struct {
	Type     PlayerEventType
	IsPaused bool
}
