// Package session persists an in-progress quiz so it can be resumed.
package session

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

// Snapshot is the persisted form of a session
type Snapshot struct {
	SessionID      string         `json:"session_id,omitempty"`
	Difficulty     api.Difficulty `json:"difficulty"`
	Round          int            `json:"round"`
	Score          int            `json:"score"`
	RoundTrackIDs  []string       `json:"round_track_ids"`
	PlayedTrackIDs []string       `json:"played_track_ids"`
	RoundResults   []api.Outcome  `json:"round_results"`
}

// TrackLookup resolves track IDs against a catalog
type TrackLookup interface {
	GetTrack(id string) (*api.Track, error)
}

// FromState captures the persistable part of a session. Trailing rounds
// without an outcome are not written.
func FromState(state *api.SessionState) Snapshot {
	snap := Snapshot{
		SessionID:      state.ID,
		Difficulty:     state.Difficulty,
		Round:          state.RoundIndex,
		Score:          state.Score,
		RoundTrackIDs:  make([]string, 0, len(state.RoundTracks)),
		PlayedTrackIDs: make([]string, 0, len(state.PlayedTrackIDs)),
	}
	for _, t := range state.RoundTracks {
		snap.RoundTrackIDs = append(snap.RoundTrackIDs, t.ID)
	}
	for id := range state.PlayedTrackIDs {
		snap.PlayedTrackIDs = append(snap.PlayedTrackIDs, id)
	}

	last := -1
	for i, o := range state.RoundResults {
		if o != api.OutcomeNone {
			last = i
		}
	}
	snap.RoundResults = append([]api.Outcome{}, state.RoundResults[:last+1]...)
	return snap
}

// Marshal encodes the snapshot as JSON
func (s Snapshot) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// rawSnapshot keeps numeric fields undecoded so their presence and type
// can be checked
type rawSnapshot struct {
	SessionID      string          `json:"session_id"`
	Difficulty     string          `json:"difficulty"`
	Round          json.RawMessage `json:"round"`
	Score          json.RawMessage `json:"score"`
	RoundTrackIDs  []string        `json:"round_track_ids"`
	PlayedTrackIDs []string        `json:"played_track_ids"`
	RoundResults   []*string       `json:"round_results"`
}

// Restore validates a persisted snapshot and rebuilds the session state.
// Track IDs that no longer resolve are dropped; if fewer than TotalRounds
// remain the snapshot is rejected. The score is taken from the recorded
// outcomes once it has been checked against them.
func Restore(raw []byte, tracks TrackLookup) (*api.SessionState, error) {
	var rs rawSnapshot
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("%w: %v", playerrors.ErrInvalidSnapshot, err)
	}
	if rs.RoundTrackIDs == nil {
		return nil, fmt.Errorf("%w: missing round tracks", playerrors.ErrInvalidSnapshot)
	}

	round, err := wholeNumber(rs.Round)
	if err != nil {
		return nil, fmt.Errorf("%w: round: %v", playerrors.ErrInvalidSnapshot, err)
	}
	if round < 0 {
		return nil, fmt.Errorf("%w: negative round %d", playerrors.ErrInvalidSnapshot, round)
	}
	score, err := wholeNumber(rs.Score)
	if err != nil {
		return nil, fmt.Errorf("%w: score: %v", playerrors.ErrInvalidSnapshot, err)
	}

	roundTracks := make([]*api.Track, 0, api.TotalRounds)
	for _, id := range rs.RoundTrackIDs {
		track, err := tracks.GetTrack(id)
		if err != nil {
			continue
		}
		roundTracks = append(roundTracks, track)
	}
	if len(roundTracks) < api.TotalRounds {
		return nil, fmt.Errorf("%w: %d of %d round tracks resolved",
			playerrors.ErrInvalidSnapshot, len(roundTracks), api.TotalRounds)
	}

	results := make([]api.Outcome, api.TotalRounds)
	for i, r := range rs.RoundResults {
		if i >= api.TotalRounds {
			break
		}
		if r == nil {
			continue
		}
		switch o := api.Outcome(*r); o {
		case api.OutcomeCorrect, api.OutcomeWrong:
			results[i] = o
		}
	}

	state := api.SessionState{RoundResults: results}
	if score < 0 || score > state.AnsweredCount() {
		return nil, fmt.Errorf("%w: score %d with %d answered rounds",
			playerrors.ErrInvalidSnapshot, score, state.AnsweredCount())
	}

	played := make(map[string]struct{}, len(rs.PlayedTrackIDs))
	for _, id := range rs.PlayedTrackIDs {
		played[id] = struct{}{}
	}

	return &api.SessionState{
		ID:             rs.SessionID,
		Difficulty:     api.ParseDifficulty(rs.Difficulty),
		RoundIndex:     round,
		Score:          state.CorrectCount(),
		RoundTracks:    roundTracks[:api.TotalRounds],
		RoundResults:   results,
		PlayedTrackIDs: played,
	}, nil
}

func wholeNumber(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("missing")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a whole number: %s", raw)
	}
	return int(f), nil
}
