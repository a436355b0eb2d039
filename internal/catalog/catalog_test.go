package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jscyril/golang_music_quiz/api"
	playerrors "github.com/jscyril/golang_music_quiz/pkg/errors"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if err := c.CheckSize(); err != nil {
		t.Errorf("built-in catalog too small: %v", err)
	}

	warnings, err := Validate(c.All())
	if err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("built-in catalog warnings: %v", warnings)
	}

	for _, tag := range c.Performers() {
		if !tag.KnownPerformer() {
			t.Errorf("unknown performer %q in built-in catalog", tag)
		}
	}
}

func TestAddTrack_KeepsFirstDuplicate(t *testing.T) {
	c := NewCatalog()
	c.AddTrack(&api.Track{ID: "a", Title: "first", Performer: api.PerformerLisa})
	c.AddTrack(&api.Track{ID: "a", Title: "second", Performer: api.PerformerLisa})
	c.AddTrack(&api.Track{ID: "b", Title: "other", Performer: api.PerformerGroup})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	got, err := c.GetTrack("a")
	if err != nil {
		t.Fatalf("GetTrack() error = %v", err)
	}
	if got.Title != "first" {
		t.Errorf("GetTrack(a).Title = %q, want first", got.Title)
	}
	if n := len(c.ByPerformer(api.PerformerLisa)); n != 1 {
		t.Errorf("ByPerformer(lisa) returned %d tracks, want 1", n)
	}
	if _, err := c.GetTrack("missing"); !errors.Is(err, playerrors.ErrTrackNotFound) {
		t.Errorf("GetTrack(missing) error = %v, want ErrTrackNotFound", err)
	}
}

func TestResolve(t *testing.T) {
	c := NewCatalog()
	c.AddTrack(&api.Track{ID: "local", Title: "x", Source: "/music/x.mp3"})
	c.AddTrack(&api.Track{ID: "remote", Title: "y"})

	if src, err := c.Resolve("local"); err != nil || src != "/music/x.mp3" {
		t.Errorf("Resolve(local) = %q, %v", src, err)
	}
	if _, err := c.Resolve("remote"); !errors.Is(err, playerrors.ErrTrackNotFound) {
		t.Errorf("Resolve(remote) error = %v, want ErrTrackNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	good := func(id string) *api.Track {
		return &api.Track{ID: id, Title: "t", Artist: "a", Performer: api.PerformerGroup, SafeOffsets: []float64{10}}
	}

	tests := []struct {
		name     string
		tracks   []*api.Track
		warnings int
		wantErr  bool
	}{
		{"empty", nil, 0, true},
		{"clean", []*api.Track{good("a"), good("b")}, 0, false},
		{"duplicate id", []*api.Track{good("a"), good("a")}, 1, false},
		{"missing artist", []*api.Track{{ID: "a", Title: "t", Performer: api.PerformerGroup, SafeOffsets: []float64{1}}}, 1, false},
		{"unknown performer", []*api.Track{{ID: "a", Title: "t", Artist: "a", Performer: "ringo", SafeOffsets: []float64{1}}}, 1, false},
		{"no safe offsets", []*api.Track{{ID: "a", Title: "t", Artist: "a", Performer: api.PerformerJisoo}}, 1, false},
		{"missing title", []*api.Track{{ID: "a", Artist: "a", Performer: api.PerformerGroup, SafeOffsets: []float64{1}}}, 1, true},
		{"missing id", []*api.Track{{Title: "t", Artist: "a", Performer: api.PerformerGroup, SafeOffsets: []float64{1}}}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := Validate(tt.tracks)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, playerrors.ErrInvalidCatalog) {
				t.Errorf("Validate() error = %v, want ErrInvalidCatalog", err)
			}
			if len(warnings) != tt.warnings {
				t.Errorf("Validate() warnings = %v, want %d", warnings, tt.warnings)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")

	c := NewCatalog()
	c.AddTrack(&api.Track{ID: "a", Title: "Alpha", Artist: "X", Performer: api.PerformerRose, SafeOffsets: []float64{12, 40}})
	c.AddTrack(&api.Track{ID: "b", Title: "Beta", Artist: "Y", Performer: api.PerformerGroup})
	if err := c.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	all := loaded.All()
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("Load() order = %v", all)
	}
	if all[0].Performer != api.PerformerRose || len(all[0].SafeOffsets) != 2 {
		t.Errorf("Load() lost fields: %+v", all[0])
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.mp3", "two.flac", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("not really audio"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c := NewCatalog()
	errs := c.Scan(context.Background(), []string{dir})
	if len(errs) != 0 {
		t.Fatalf("Scan() errors = %v", errs)
	}
	if c.Len() != 2 {
		t.Fatalf("Scan() found %d tracks, want 2", c.Len())
	}
	for _, track := range c.All() {
		if track.Source == "" {
			t.Errorf("track %s has no source", track.ID)
		}
		if track.Title != "one" && track.Title != "two" {
			t.Errorf("untagged track title = %q, want file name", track.Title)
		}
	}
}

func TestPerformerFor(t *testing.T) {
	tests := []struct {
		artist string
		want   api.PerformerTag
	}{
		{"BLACKPINK", api.PerformerGroup},
		{"JENNIE", api.PerformerJennie},
		{"LISA feat. Megan Thee Stallion", api.PerformerLisa},
		{"ROSÉ & Bruno Mars", api.PerformerRose},
		{"JISOO", api.PerformerJisoo},
		{"", api.PerformerGroup},
	}
	for _, tt := range tests {
		t.Run(tt.artist, func(t *testing.T) {
			if got := performerFor(tt.artist); got != tt.want {
				t.Errorf("performerFor(%q) = %q, want %q", tt.artist, got, tt.want)
			}
		})
	}
}
