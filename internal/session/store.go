package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

// Store persists at most one snapshot
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	// Load returns the raw snapshot or ErrNoSnapshot
	Load(ctx context.Context) ([]byte, error)
	Clear(ctx context.Context) error
}

// FileStore keeps the snapshot in a JSON file
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load reads the snapshot file
func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, playerrors.ErrNoSnapshot
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return data, nil
}

// Clear removes the snapshot file
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the snapshot in memory
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, playerrors.ErrNoSnapshot
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

// Resume loads and validates the stored snapshot. An invalid snapshot is
// cleared from the store and reported as ErrInvalidSnapshot.
func Resume(ctx context.Context, store Store, tracks TrackLookup) (*api.SessionState, error) {
	raw, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	state, err := Restore(raw, tracks)
	if err != nil {
		if clearErr := store.Clear(ctx); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
		return nil, err
	}
	return state, nil
}
