package catalog

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/jscyril/golang_music_quiz/api"
)

// soloArtists maps a credited artist name to its solo performer tag
var soloArtists = map[string]api.PerformerTag{
	"jennie": api.PerformerJennie,
	"lisa":   api.PerformerLisa,
	"rosé":   api.PerformerRose,
	"rose":   api.PerformerRose,
	"jisoo":  api.PerformerJisoo,
}

// MetadataReader turns tagged audio files into catalog tracks
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read extracts title and artist from an audio file. Files without tags
// are titled after their file name.
func (r *MetadataReader) Read(path string) (*api.Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	track := &api.Track{
		ID:        generateTrackID(path),
		Title:     titleFromPath(path),
		Performer: api.PerformerGroup,
		Source:    path,
	}

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return track, nil
	}

	track.Title = getOrDefault(metadata.Title(), track.Title)
	track.Artist = metadata.Artist()
	track.Performer = performerFor(metadata.Artist())
	return track, nil
}

// performerFor classifies an artist credit. Anything that is not a known
// solo credit counts as the group.
func performerFor(artist string) api.PerformerTag {
	lower := strings.ToLower(artist)
	for name, performer := range soloArtists {
		if strings.HasPrefix(lower, name) {
			return performer
		}
	}
	return api.PerformerGroup
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// generateTrackID derives a stable ID from the file path
func generateTrackID(path string) string {
	hash := md5.Sum([]byte(path))
	return fmt.Sprintf("track-%x", hash[:8])
}

func getOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
