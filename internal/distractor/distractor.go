// Package distractor builds multiple-choice option sets.
package distractor

import (
	"math/rand"

	"github.com/jscyril/golang_music_quiz/api"
)

// OptionCount is the number of options offered per round
const OptionCount = 4

// Shuffle shuffles tracks in place (Fisher-Yates algorithm)
func Shuffle(tracks []*api.Track, rng *rand.Rand) {
	for i := len(tracks) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}
}

// Generate returns OptionCount distinct tracks including correct, in random
// order, and the index of correct among them. One track by the same
// performer is preferred as the primary distractor; the rest come from other
// performers, then from anything unused if the catalog is too small.
func Generate(correct *api.Track, catalog []*api.Track, rng *rand.Rand) ([]*api.Track, int) {
	options := make([]*api.Track, 0, OptionCount)
	used := map[string]bool{correct.ID: true}
	add := func(t *api.Track) {
		if len(options) >= OptionCount || used[t.ID] {
			return
		}
		used[t.ID] = true
		options = append(options, t)
	}
	options = append(options, correct)

	var same, other []*api.Track
	for _, t := range catalog {
		switch {
		case t.ID == correct.ID:
		case t.Performer == correct.Performer:
			same = append(same, t)
		default:
			other = append(other, t)
		}
	}
	Shuffle(same, rng)
	Shuffle(other, rng)

	if len(same) > 0 {
		add(same[0])
	}
	for _, t := range other {
		add(t)
	}
	for _, t := range catalog {
		add(t)
	}

	Shuffle(options, rng)
	for i, t := range options {
		if t.ID == correct.ID {
			return options, i
		}
	}
	return options, -1
}
