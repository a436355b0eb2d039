package api

import "time"

// TotalRounds is the number of rounds in a session
const TotalRounds = 10

// PerformerTag classifies the credited performer of a track
type PerformerTag string

const (
	PerformerGroup  PerformerTag = "group"
	PerformerJennie PerformerTag = "jennie"
	PerformerLisa   PerformerTag = "lisa"
	PerformerRose   PerformerTag = "rose"
	PerformerJisoo  PerformerTag = "jisoo"
)

var performerLabels = map[PerformerTag]string{
	PerformerGroup:  "BLACKPINK",
	PerformerJennie: "Jennie Solo",
	PerformerLisa:   "Lisa Solo",
	PerformerRose:   "Rosé Solo",
	PerformerJisoo:  "Jisoo Solo",
}

// KnownPerformer reports whether the tag belongs to the closed set
func (p PerformerTag) KnownPerformer() bool {
	_, ok := performerLabels[p]
	return ok
}

// Label returns the display label for the tag
func (p PerformerTag) Label() string {
	if label, ok := performerLabels[p]; ok {
		return label
	}
	return string(p)
}

// Track is an immutable catalog entry
type Track struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Artist      string       `json:"artist"`
	Performer   PerformerTag `json:"member"`
	SafeOffsets []float64    `json:"safe"`
	Source      string       `json:"source,omitempty"`
}

// Difficulty selects snippet duration and answer mode
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps a string to a Difficulty, defaulting to medium
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// SnippetDuration returns how long a snippet plays in this mode
func (d Difficulty) SnippetDuration() time.Duration {
	switch d {
	case DifficultyEasy:
		return 7500 * time.Millisecond
	case DifficultyHard:
		return 2500 * time.Millisecond
	default:
		return 5 * time.Second
	}
}

// MultipleChoice reports whether answers are picked from options
func (d Difficulty) MultipleChoice() bool {
	return d == DifficultyEasy
}

// Outcome is the recorded result of a round
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
)

// SessionState is owned by the round controller for one game session
type SessionState struct {
	ID             string
	Difficulty     Difficulty
	RoundIndex     int
	Score          int
	RoundTracks    []*Track
	RoundResults   []Outcome
	PlayedTrackIDs map[string]struct{}
}

// CorrectCount returns the number of rounds recorded as correct
func (s SessionState) CorrectCount() int {
	n := 0
	for _, o := range s.RoundResults {
		if o == OutcomeCorrect {
			n++
		}
	}
	return n
}

// AnsweredCount returns the number of rounds with a recorded outcome
func (s SessionState) AnsweredCount() int {
	n := 0
	for _, o := range s.RoundResults {
		if o != OutcomeNone {
			n++
		}
	}
	return n
}

// CurrentTrack returns the track of the current round, or nil past the end
func (s SessionState) CurrentTrack() *Track {
	if s.RoundIndex < 0 || s.RoundIndex >= len(s.RoundTracks) {
		return nil
	}
	return s.RoundTracks[s.RoundIndex]
}

// RoundState is scoped to the current round
type RoundState struct {
	Answered         bool
	Options          []*Track
	CorrectIndex     int
	AnsweredAt       time.Time
	HasPlayedSnippet bool
}

// PlaybackState is shared between the controller and the synchronizer
type PlaybackState struct {
	RequestedPlaying bool
	ConfirmedStarted bool
	FallbackActive   bool
	LastLoadAt       time.Time
	CountdownStartAt time.Time
}
