// package catalog implements the entity resolution and aggregation pipeline:
// raw Spotify payloads (or plain id sets) go in, fully populated and
// cross-referenced domain entities come out.
//
// Every resolution consults the entity store before touching the upstream
// API, batches id lookups within the provider's per-kind ceilings, follows
// pagination cursors until sub-collections are complete, and writes newly
// resolved entities back through to the store.
package catalog

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
)

// defaultMaxPages bounds pagination walks. The upstream cursor chain has no
// inherent end guarantee, so an explicit cap turns a pathological listing
// into an error instead of an endless loop.
const defaultMaxPages = 50

// Upstream is the slice of the Spotify client the pipeline depends on.
type Upstream interface {
	Artist(ctx context.Context, id string) (*services.SpotifyArtist, error)
	SeveralArtists(ctx context.Context, ids []string) ([]services.SpotifyArtist, error)
	ArtistAlbums(ctx context.Context, id string) (*services.SpotifyAlbumPage, error)
	ArtistTopTracks(ctx context.Context, id string) ([]services.SpotifyTrack, error)

	Album(ctx context.Context, id string) (*services.SpotifyAlbum, error)
	SeveralAlbums(ctx context.Context, ids []string) ([]services.SpotifyAlbum, error)

	Track(ctx context.Context, id string) (*services.SpotifyTrack, error)
	SeveralTracks(ctx context.Context, ids []string) ([]services.SpotifyTrack, error)

	Playlist(ctx context.Context, id string) (*services.SpotifyPlaylist, error)

	TrackPage(ctx context.Context, next string) (*services.SpotifyTrackPage, error)
	PlaylistTrackPage(ctx context.Context, next string) (*services.SpotifyPlaylistTrackPage, error)
	AlbumPage(ctx context.Context, next string) (*services.SpotifyAlbumPage, error)
}

// Per-kind keyed stores. Find returns shared.ErrNotFound on a miss; Save is
// an idempotent upsert, so concurrent writers producing equivalent content
// for the same id are harmless.

type ArtistStore interface {
	FindArtist(id string) (*models.Artist, error)
	SaveArtist(artist *models.Artist) error
}

type AlbumStore interface {
	FindAlbum(id string) (*models.Album, error)
	SaveAlbum(album *models.Album) error
}

type TrackStore interface {
	FindTrack(id string) (*models.Track, error)
	SaveTrack(track *models.Track) error
}

type PlaylistStore interface {
	FindPlaylist(id string) (*models.Playlist, error)
	SavePlaylist(playlist *models.Playlist) error
}

// Stores bundles the per-kind entity stores the resolver caches through.
type Stores struct {
	Artists   ArtistStore
	Albums    AlbumStore
	Tracks    TrackStore
	Playlists PlaylistStore
}

// Resolver is the aggregation pipeline façade.
type Resolver struct {
	api      Upstream
	stores   Stores
	logger   *log.Logger
	maxPages int
}

// NewResolver creates a Resolver over the given upstream client and stores.
// maxPages bounds pagination walks; values <= 0 select the default.
func NewResolver(api Upstream, stores Stores, logger *log.Logger, maxPages int) *Resolver {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{
		api:      api,
		stores:   stores,
		logger:   logger.With("component", "catalog"),
		maxPages: maxPages,
	}
}

// isNotFound reports whether err is a cache miss or upstream 404.
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

// dedupeIDs removes duplicate and empty ids, preserving first-seen order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
