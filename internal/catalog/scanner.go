package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

// Scanner walks music directories and reads tags with a worker pool
type Scanner struct {
	workers int
	formats []string
	reader  *MetadataReader
}

// NewScanner creates a new file scanner
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		workers: workers,
		formats: []string{".mp3", ".wav", ".flac"},
		reader:  NewMetadataReader(),
	}
}

// SupportedFormats returns the file extensions the local player can decode
func (s *Scanner) SupportedFormats() []string {
	return s.formats
}

func (s *Scanner) isSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range s.formats {
		if ext == format {
			return true
		}
	}
	return false
}

// Scan streams tracks found below paths. Both channels are closed when the
// walk and all workers are done.
func (s *Scanner) Scan(ctx context.Context, paths []string) (<-chan *api.Track, <-chan error) {
	tracks := make(chan *api.Track, 100)
	errs := make(chan error, 10)
	files := make(chan string, 100)

	report := func(path string, err error) {
		select {
		case errs <- &playerrors.ScanError{Path: path, Err: err}:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(files)
		for _, root := range paths {
			if ctx.Err() != nil {
				return
			}
			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					report(p, err)
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if d.IsDir() || !s.isSupported(p) {
					return nil
				}
				select {
				case files <- p:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil && err != context.Canceled {
				report(root, err)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				track, err := s.reader.Read(path)
				if err != nil {
					report(path, err)
					continue
				}
				select {
				case tracks <- track:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(tracks)
		close(errs)
	}()

	return tracks, errs
}

// ScanFile reads a single file into a Track
func (s *Scanner) ScanFile(path string) (*api.Track, error) {
	if !s.isSupported(path) {
		return nil, playerrors.ErrInvalidFormat
	}
	return s.reader.Read(path)
}
