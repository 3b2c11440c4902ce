package catalog

import (
	"context"
	"fmt"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
)

// ResolvePlaylist resolves a playlist by id.
//
// Playlists mutate constantly, so the upstream is always consulted; the
// store receives a write-through copy for the warmup and export paths but is
// never used to short-circuit a live read. Entries the API can no longer
// resolve (removed tracks, local files) are skipped; the rest keep their
// listing order across pagination boundaries.
func (r *Resolver) ResolvePlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	raw, err := r.api.Playlist(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := collectPages(ctx, raw.Tracks.Items, raw.Tracks.Next, r.maxPages,
		func(ctx context.Context, next string) ([]services.SpotifyPlaylistTrack, *string, error) {
			page, err := r.api.PlaylistTrackPage(ctx, next)
			if err != nil {
				return nil, nil, err
			}
			return page.Items, page.Next, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to collect tracks for playlist %s: %w", id, err)
	}

	raws := make([]services.SpotifyTrack, 0, len(entries))
	for _, entry := range entries {
		if entry.Track == nil || entry.Track.ID == "" {
			continue
		}
		raws = append(raws, *entry.Track)
	}

	// Resolve the distinct albums behind the playlist's tracks in batches so
	// each track can carry a display back-reference without a per-track
	// album fetch.
	albumIDs := make([]string, 0, len(raws))
	for i := range raws {
		albumIDs = append(albumIDs, raws[i].Album.ID)
	}
	albums, err := r.ResolveAlbums(ctx, albumIDs)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]models.AlbumRef, len(albums))
	for i := range albums {
		refs[albums[i].ID] = models.AlbumRef{
			ID:     albums[i].ID,
			Name:   albums[i].Name,
			Images: albums[i].Images,
		}
	}

	tracks, err := r.buildTracksBulk(ctx, raws, refs)
	if err != nil {
		return nil, err
	}

	playlist := &models.Playlist{
		ID:               raw.ID,
		Name:             raw.Name,
		Description:      raw.Description,
		Collaborative:    raw.Collaborative,
		Public:           raw.Public,
		OwnerID:          raw.Owner.ID,
		OwnerDisplayName: raw.Owner.DisplayName,
		Images:           resolveImages(raw.Images),
		Tracks:           tracks,
		Href:             raw.Href,
		URI:              raw.URI,
	}

	if err := r.stores.Playlists.SavePlaylist(playlist); err != nil {
		return nil, fmt.Errorf("failed to save playlist %s: %w", playlist.ID, err)
	}
	return playlist, nil
}
