package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

//go:embed songs.json
var defaultSongs []byte

// Catalog is the set of tracks a quiz draws from. Order is preserved so
// fill-ins and listings are stable.
type Catalog struct {
	tracks []*api.Track
	byID   map[string]*api.Track

	// Secondary index for distractor queries
	performerIndex map[api.PerformerTag][]string

	mu      sync.RWMutex
	scanner *Scanner
}

// NewCatalog creates a new empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		byID:           make(map[string]*api.Track),
		performerIndex: make(map[api.PerformerTag][]string),
		scanner:        NewScanner(4),
	}
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultSongs)
}

// Decode reads a JSON array of tracks without deduplicating them
func Decode(data []byte) ([]*api.Track, error) {
	var tracks []*api.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return tracks, nil
}

// Parse builds a catalog from a JSON array of tracks
func Parse(data []byte) (*Catalog, error) {
	tracks, err := Decode(data)
	if err != nil {
		return nil, err
	}

	c := NewCatalog()
	for _, t := range tracks {
		if t != nil {
			c.AddTrack(t)
		}
	}
	return c, nil
}

// Load reads a catalog from a JSON file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// AddTrack adds a track and updates indices. A repeated id keeps the first entry.
func (c *Catalog) AddTrack(track *api.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[track.ID]; exists {
		return
	}
	c.tracks = append(c.tracks, track)
	c.byID[track.ID] = track
	c.performerIndex[track.Performer] = append(c.performerIndex[track.Performer], track.ID)
}

// GetTrack returns a track by ID
func (c *Catalog) GetTrack(id string) (*api.Track, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	track, exists := c.byID[id]
	if !exists {
		return nil, playerrors.ErrTrackNotFound
	}
	return track, nil
}

// All returns the tracks in catalog order
func (c *Catalog) All() []*api.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tracks := make([]*api.Track, len(c.tracks))
	copy(tracks, c.tracks)
	return tracks
}

// Len returns the number of tracks
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}

// ByPerformer returns all tracks with the given performer tag
func (c *Catalog) ByPerformer(tag api.PerformerTag) []*api.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := c.performerIndex[tag]
	tracks := make([]*api.Track, 0, len(ids))
	for _, id := range ids {
		if track, ok := c.byID[id]; ok {
			tracks = append(tracks, track)
		}
	}
	return tracks
}

// Performers returns all performer tags present, sorted
func (c *Catalog) Performers() []api.PerformerTag {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tags := make([]api.PerformerTag, 0, len(c.performerIndex))
	for tag := range c.performerIndex {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Resolve maps a track ID to its local source file
func (c *Catalog) Resolve(id string) (string, error) {
	track, err := c.GetTrack(id)
	if err != nil {
		return "", err
	}
	if track.Source == "" {
		return "", fmt.Errorf("%w: %s has no local source", playerrors.ErrTrackNotFound, id)
	}
	return track.Source, nil
}

// Scan adds every supported audio file below paths to the catalog
func (c *Catalog) Scan(ctx context.Context, paths []string) []error {
	tracks, errs := c.scanner.Scan(ctx, paths)

	var scanErrors []error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for err := range errs {
			scanErrors = append(scanErrors, err)
		}
	}()

	for track := range tracks {
		c.AddTrack(track)
	}
	<-done
	return scanErrors
}

// Save persists the catalog as a JSON array
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c.All(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog file: %w", err)
	}
	return nil
}
