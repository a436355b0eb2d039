package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrTrackNotFound   = errors.New("track not found")
	ErrInvalidFormat   = errors.New("unsupported audio format")
	ErrPlaybackFailed  = errors.New("playback failed")
	ErrPlayerNotLoaded = errors.New("no track loaded")
	ErrFallbackActive  = errors.New("automatic playback unavailable, use the manual player")
	ErrNotInFallback   = errors.New("manual playback is only available in fallback mode")
	ErrEmptyGuess      = errors.New("guess is empty")
	ErrInvalidChoice   = errors.New("choice out of range")
	ErrWrongMode       = errors.New("answer type does not match difficulty")
	ErrNoActiveRound   = errors.New("no active round")
	ErrAdvanceTooEarly = errors.New("round cannot be advanced yet")
	ErrInvalidSnapshot = errors.New("invalid session snapshot")
	ErrCatalogTooSmall = errors.New("catalog has too few tracks")
	ErrNoSnapshot      = errors.New("no saved session")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

// PlaybackError wraps a capability failure with context
type PlaybackError struct {
	Op    string // Operation that failed
	Track string // Track ID if applicable
	Err   error  // Underlying error
}

func (e *PlaybackError) Error() string {
	if e.Track != "" {
		return fmt.Sprintf("%s failed for track %s: %v", e.Op, e.Track, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// NewPlaybackError creates a new PlaybackError
func NewPlaybackError(op, track string, err error) *PlaybackError {
	return &PlaybackError{Op: op, Track: track, Err: err}
}

// ScanError represents an error during catalog scanning
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
