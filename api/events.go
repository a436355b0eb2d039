package api

import (
	"net/url"
	"time"
)

// EventType identifies a quiz event delivered to the presentation layer
type EventType int

const (
	EventRoundPresented EventType = iota
	EventSnippetLoading
	EventSnippetStarted
	EventSnippetProgress
	EventSnippetEnded
	EventFallback
	EventNotice
	EventRefocus
	EventAnswerRevealed
	EventSessionEnded
)

// QuizEvent carries one of the payload types below
type QuizEvent struct {
	Type    EventType
	Payload interface{}
}

// RoundView describes a freshly presented round
type RoundView struct {
	Number         int
	Total          int
	Score          int
	Results        []Outcome
	MultipleChoice bool
	Options        []string
	Duration       time.Duration
	ManualPlayback bool
}

// Progress is the remaining snippet time
type Progress struct {
	Remaining time.Duration
	Total     time.Duration
}

// Fraction returns the remaining share of the snippet in [0, 1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Remaining) / float64(p.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// FallbackView tells the presentation layer to embed a manual player.
// Notice is only set when fallback is first activated.
type FallbackView struct {
	TrackID string
	Source  string
	Playing bool
	Notice  string
}

// ManualLink is the web player page of a track without a local source
func (f FallbackView) ManualLink() string {
	if f.TrackID == "" {
		return ""
	}
	return "https://open.spotify.com/track/" + url.PathEscape(f.TrackID)
}

// Reveal is the answer shown after a round is answered
type Reveal struct {
	Correct        bool
	Title          string
	Artist         string
	PerformerLabel string
	Performer      PerformerTag
	ChosenIndex    int
	CorrectIndex   int
	Score          int
	Results        []Outcome
}

// Summary is the end-of-session result
type Summary struct {
	Score     int
	Total     int
	Correct   int
	Wrong     int
	Message   string
	Celebrate bool
}
