package catalog

import (
	"fmt"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

// Validate checks raw catalog entries. Problems that leave a track unusable
// make the result an ErrInvalidCatalog; the rest are returned as warnings.
func Validate(tracks []*api.Track) ([]string, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks", playerrors.ErrInvalidCatalog)
	}

	var warnings []string
	warnf := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	invalid := 0
	ids := make(map[string]bool, len(tracks))
	for i, t := range tracks {
		if t == nil {
			warnf("track at index %d: empty entry", i)
			invalid++
			continue
		}
		if t.ID == "" {
			warnf("track at index %d: invalid or missing id", i)
			invalid++
		}
		if ids[t.ID] {
			warnf("track at index %d: duplicate id %q", i, t.ID)
		}
		ids[t.ID] = true

		if t.Title == "" {
			warnf("track %q: missing title", t.ID)
			invalid++
		}
		if t.Artist == "" {
			warnf("track %q: missing artist", t.ID)
		}
		if !t.Performer.KnownPerformer() {
			warnf("track %q: invalid performer %q", t.ID, t.Performer)
		}
		if len(t.SafeOffsets) == 0 {
			warnf("track %q: missing safe offsets", t.ID)
		}
	}

	if invalid > 0 {
		return warnings, fmt.Errorf("%w: %d unusable entries", playerrors.ErrInvalidCatalog, invalid)
	}
	return warnings, nil
}

// CheckSize reports whether the catalog can fill a whole session
func (c *Catalog) CheckSize() error {
	if n := c.Len(); n < api.TotalRounds {
		return fmt.Errorf("%w: %d tracks, need %d", playerrors.ErrCatalogTooSmall, n, api.TotalRounds)
	}
	return nil
}
