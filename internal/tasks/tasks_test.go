package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/shared"
	tu "github.com/hazelvane/melodex/internal/testing"
)

// fakeWarmer records resolved ids and fails the ones listed in failing.
type fakeWarmer struct {
	mu       sync.Mutex
	resolved []string
	failing  map[string]error
}

func newFakeWarmer() *fakeWarmer {
	return &fakeWarmer{failing: make(map[string]error)}
}

func (f *fakeWarmer) resolve(kind models.EntityKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, fmt.Sprintf("%s:%s", kind, id))
	return f.failing[id]
}

func (f *fakeWarmer) ResolveArtist(_ context.Context, id string) (*models.Artist, error) {
	if err := f.resolve(models.KindArtist, id); err != nil {
		return nil, err
	}
	return &models.Artist{ID: id, Name: "Artist " + id}, nil
}

func (f *fakeWarmer) ResolveAlbum(_ context.Context, id string) (*models.Album, error) {
	if err := f.resolve(models.KindAlbum, id); err != nil {
		return nil, err
	}
	return &models.Album{ID: id, Name: "Album " + id}, nil
}

func (f *fakeWarmer) ResolveTrack(_ context.Context, id string) (*models.Track, error) {
	if err := f.resolve(models.KindTrack, id); err != nil {
		return nil, err
	}
	return &models.Track{ID: id, Name: "Track " + id}, nil
}

func (f *fakeWarmer) ResolvePlaylist(_ context.Context, id string) (*models.Playlist, error) {
	if err := f.resolve(models.KindPlaylist, id); err != nil {
		return nil, err
	}
	return &models.Playlist{ID: id, Name: "Playlist " + id}, nil
}

func (f *fakeWarmer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resolved)
}

func TestWarm(t *testing.T) {
	t.Run("AllSeedsResolved", func(t *testing.T) {
		warmer := newFakeWarmer()
		engine := NewWarmEngine(warmer)

		seeds := []Seed{
			{Kind: models.KindArtist, ID: "a1"},
			{Kind: models.KindAlbum, ID: "al1"},
			{Kind: models.KindTrack, ID: "t1"},
			{Kind: models.KindPlaylist, ID: "p1"},
		}

		result, err := engine.Warm(context.Background(), nil, seeds, WarmupOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("warmup failed: %v", err)
		}

		if result.Total != 4 || result.Succeeded != 4 || result.Failed != 0 {
			t.Errorf("unexpected result: %+v", result)
		}
		if warmer.count() != 4 {
			t.Errorf("expected 4 resolutions, got %d", warmer.count())
		}
	})

	t.Run("FailuresRecordedNotFatal", func(t *testing.T) {
		warmer := newFakeWarmer()
		warmer.failing["bad"] = fmt.Errorf("%w: artist bad", shared.ErrNotFound)
		engine := NewWarmEngine(warmer)

		seeds := []Seed{
			{Kind: models.KindArtist, ID: "a1"},
			{Kind: models.KindArtist, ID: "bad"},
			{Kind: models.KindArtist, ID: "a2"},
		}

		result, err := engine.Warm(context.Background(), nil, seeds, WarmupOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("warmup failed: %v", err)
		}

		if result.Succeeded != 2 || result.Failed != 1 {
			t.Errorf("expected 2 successes and 1 failure, got %+v", result)
		}
		for _, res := range result.Results {
			if res.Seed.ID == "bad" && res.Success {
				t.Error("failing seed should be marked unsuccessful")
			}
		}
	})

	t.Run("UnknownKindFails", func(t *testing.T) {
		engine := NewWarmEngine(newFakeWarmer())

		result, err := engine.Warm(context.Background(), nil, []Seed{{Kind: "genre", ID: "x"}}, WarmupOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("warmup failed: %v", err)
		}

		if result.Failed != 1 {
			t.Fatalf("expected 1 failure, got %+v", result)
		}
		if !errors.Is(result.Results[0].Error, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", result.Results[0].Error)
		}
	})

	t.Run("ProgressUpdatesEmitted", func(t *testing.T) {
		engine := NewWarmEngine(newFakeWarmer())
		prog := make(chan ProgressUpdate, 64)

		seeds := []Seed{
			{Kind: models.KindArtist, ID: "a1"},
			{Kind: models.KindArtist, ID: "a2"},
		}

		if _, err := engine.Warm(context.Background(), prog, seeds, WarmupOpts{RateLimit: 1000}); err != nil {
			t.Fatalf("warmup failed: %v", err)
		}
		close(prog)

		completed := 0
		for update := range prog {
			if update.Phase == WarmCompleted {
				completed++
			}
		}
		if completed != 2 {
			t.Errorf("expected 2 completion updates, got %d", completed)
		}
	})

	t.Run("NilResolver", func(t *testing.T) {
		engine := NewWarmEngine(nil)
		if _, err := engine.Warm(context.Background(), nil, nil, WarmupOpts{}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExportPlaylists(t *testing.T) {
	t.Run("WritesSnapshotsAndManifest", func(t *testing.T) {
		engine := NewWarmEngine(newFakeWarmer())
		dir := t.TempDir()

		result, err := engine.ExportPlaylists(context.Background(), []string{"p1", "p2"}, ExportOpts{OutputDir: dir, Pretty: true})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if result.Succeeded != 2 || result.Failed != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "p1.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "p2.json"))
		tu.AssertFileExists(t, result.ManifestPath)

		data, err := os.ReadFile(filepath.Join(dir, "p1.json"))
		if err != nil {
			t.Fatalf("failed to read snapshot: %v", err)
		}
		var playlist models.Playlist
		if err := json.Unmarshal(data, &playlist); err != nil {
			t.Fatalf("snapshot is not valid JSON: %v", err)
		}
		if playlist.Name != "Playlist p1" {
			t.Errorf("unexpected snapshot content: %+v", playlist)
		}
	})

	t.Run("FailureRecordedInManifest", func(t *testing.T) {
		warmer := newFakeWarmer()
		warmer.failing["gone"] = fmt.Errorf("%w: playlist gone", shared.ErrNotFound)
		engine := NewWarmEngine(warmer)
		dir := t.TempDir()

		result, err := engine.ExportPlaylists(context.Background(), []string{"p1", "gone"}, ExportOpts{OutputDir: dir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if result.Succeeded != 1 || result.Failed != 1 {
			t.Fatalf("unexpected result: %+v", result)
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("failed to read manifest: %v", err)
		}
		var manifest ExportResult
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if manifest.Failed != 1 {
			t.Errorf("manifest should record the failure: %+v", manifest)
		}
	})
}
