// package tasks implements long-running catalog operations: bulk cache
// warming and playlist snapshot exports.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks

import (
	"context"

	"github.com/hazelvane/melodex/internal/models"
)

// Warmer resolves catalog entities ahead of demand. Satisfied by
// [catalog.Resolver]; narrowed here so the engine is testable with fakes.
type Warmer interface {
	ResolveArtist(ctx context.Context, id string) (*models.Artist, error)
	ResolveAlbum(ctx context.Context, id string) (*models.Album, error)
	ResolveTrack(ctx context.Context, id string) (*models.Track, error)
	ResolvePlaylist(ctx context.Context, id string) (*models.Playlist, error)
}

// Seed names one entity to warm.
type Seed struct {
	Kind models.EntityKind `json:"kind"`
	ID   string            `json:"id"`
}

// SeedResult is the outcome of warming a single seed.
type SeedResult struct {
	Seed    Seed
	Success bool
	Error   error
}

// WarmupResult summarizes a completed warmup run.
type WarmupResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []SeedResult
}

// WarmEngine drives bulk cache warming over the resolution pipeline.
type WarmEngine struct {
	resolver Warmer
}

// NewWarmEngine creates a WarmEngine over the given resolver.
func NewWarmEngine(resolver Warmer) *WarmEngine {
	return &WarmEngine{resolver: resolver}
}

// sendProgress sends an update without blocking when no listener is attached.
func (e *WarmEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
