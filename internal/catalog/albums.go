package catalog

import (
	"context"
	"fmt"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
	"golang.org/x/sync/errgroup"
)

// ResolveAlbum resolves a single album by id. A stored album is returned
// as-is and never refreshed against the upstream; use [Resolver.ReloadAlbum]
// to force a re-fetch.
func (r *Resolver) ResolveAlbum(ctx context.Context, id string) (*models.Album, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: album id is required", shared.ErrInvalidInput)
	}

	cached, err := r.stores.Albums.FindAlbum(id)
	if err == nil {
		return cached, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("album store lookup failed: %w", err)
	}

	return r.ReloadAlbum(ctx, id)
}

// ReloadAlbum fetches an album from the upstream regardless of what the
// store holds and writes the rebuilt entity through.
func (r *Resolver) ReloadAlbum(ctx context.Context, id string) (*models.Album, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: album id is required", shared.ErrInvalidInput)
	}

	raw, err := r.api.Album(ctx, id)
	if err != nil {
		return nil, err
	}

	return r.buildAlbum(ctx, raw)
}

// resolveAlbumPayload resolves a full album payload: the stored entity if
// present, otherwise built from the payload and written through.
func (r *Resolver) resolveAlbumPayload(ctx context.Context, raw *services.SpotifyAlbum) (*models.Album, error) {
	if raw == nil || raw.ID == "" {
		return nil, fmt.Errorf("%w: album payload missing id", shared.ErrInvalidInput)
	}

	cached, err := r.stores.Albums.FindAlbum(raw.ID)
	if err == nil {
		return cached, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("album store lookup failed: %w", err)
	}

	return r.buildAlbum(ctx, raw)
}

// buildAlbum assembles a complete domain Album from a full payload: the
// track listing is paginated to completion, the album's own artists are
// resolved once and shared with the track resolution, and the finished
// entity is written through.
func (r *Resolver) buildAlbum(ctx context.Context, raw *services.SpotifyAlbum) (*models.Album, error) {
	if raw == nil || raw.ID == "" {
		return nil, fmt.Errorf("%w: album payload missing id", shared.ErrInvalidInput)
	}

	items, err := collectPages(ctx, raw.Tracks.Items, raw.Tracks.Next, r.maxPages,
		func(ctx context.Context, next string) ([]services.SpotifySimpleTrack, *string, error) {
			page, err := r.api.TrackPage(ctx, next)
			if err != nil {
				return nil, nil, err
			}
			return page.Items, page.Next, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to collect tracks for album %s: %w", raw.ID, err)
	}

	albumArtists, err := r.ResolveArtists(ctx, artistIDs(raw.Artists))
	if err != nil {
		return nil, err
	}

	ref := models.AlbumRef{
		ID:     raw.ID,
		Name:   raw.Name,
		Images: resolveImages(raw.Images),
	}

	tracks, err := r.resolveTrackListing(ctx, items, ref, albumArtists)
	if err != nil {
		return nil, err
	}

	album := &models.Album{
		ID:                   raw.ID,
		Name:                 raw.Name,
		AlbumType:            models.AlbumType(raw.AlbumType),
		TotalTracks:          raw.TotalTracks,
		Popularity:           raw.Popularity,
		ReleaseDate:          raw.ReleaseDate,
		ReleaseDatePrecision: models.ReleaseDatePrecision(raw.ReleaseDatePrecision),
		Images:               ref.Images,
		Artists:              orderedArtists(raw.Artists, albumArtists),
		Tracks:               tracks,
		Href:                 raw.Href,
		URI:                  raw.URI,
	}

	if err := r.stores.Albums.SaveAlbum(album); err != nil {
		return nil, fmt.Errorf("failed to save album %s: %w", album.ID, err)
	}
	return album, nil
}

// ResolveAlbums resolves a set of album ids, returned in request order.
//
// The requested set is deduplicated, the store answers what it can, and the
// remaining ids are fetched in sub-batches of at most services.MaxAlbumBatch,
// concurrently. Each fetched payload still goes through the full build, so
// multi-page track listings are completed per album. Ids unknown upstream
// are omitted from the result.
func (r *Resolver) ResolveAlbums(ctx context.Context, ids []string) ([]models.Album, error) {
	distinct := dedupeIDs(ids)
	if len(distinct) == 0 {
		return nil, nil
	}

	resolved := make(map[string]*models.Album, len(distinct))

	var missing []string
	for _, id := range distinct {
		cached, err := r.stores.Albums.FindAlbum(id)
		if err == nil {
			resolved[id] = cached
			continue
		}
		if !isNotFound(err) {
			return nil, fmt.Errorf("album store lookup failed: %w", err)
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		chunks := chunkIDs(missing, services.MaxAlbumBatch)
		fetched := make([][]services.SpotifyAlbum, len(chunks))

		g, gctx := errgroup.WithContext(ctx)
		for i, chunk := range chunks {
			g.Go(func() error {
				batch, err := r.api.SeveralAlbums(gctx, chunk)
				if err != nil {
					return err
				}
				fetched[i] = batch
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, batch := range fetched {
			for i := range batch {
				album, err := r.resolveAlbumPayload(ctx, &batch[i])
				if err != nil {
					return nil, err
				}
				resolved[album.ID] = album
			}
		}
	}

	if len(resolved) < len(distinct) {
		r.logger.Debug("album resolution has holes", "requested", len(distinct), "resolved", len(resolved))
	}

	albums := make([]models.Album, 0, len(distinct))
	for _, id := range distinct {
		if album, ok := resolved[id]; ok {
			albums = append(albums, *album)
		}
	}
	return albums, nil
}

// ResolveArtistAlbums walks an artist's discography to completion and
// returns it as summaries in upstream listing order. Summaries are display
// data, not resolved albums, so nothing is cached here.
func (r *Resolver) ResolveArtistAlbums(ctx context.Context, artistID string) ([]models.AlbumSummary, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", shared.ErrInvalidInput)
	}

	first, err := r.api.ArtistAlbums(ctx, artistID)
	if err != nil {
		return nil, err
	}

	items, err := collectPages(ctx, first.Items, first.Next, r.maxPages,
		func(ctx context.Context, next string) ([]services.SpotifySimpleAlbum, *string, error) {
			page, err := r.api.AlbumPage(ctx, next)
			if err != nil {
				return nil, nil, err
			}
			return page.Items, page.Next, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to collect discography for artist %s: %w", artistID, err)
	}

	summaries := make([]models.AlbumSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, models.AlbumSummary{
			ID:                   item.ID,
			Name:                 item.Name,
			AlbumType:            models.AlbumType(item.AlbumType),
			TotalTracks:          item.TotalTracks,
			ReleaseDate:          item.ReleaseDate,
			ReleaseDatePrecision: models.ReleaseDatePrecision(item.ReleaseDatePrecision),
			Images:               resolveImages(item.Images),
			Href:                 item.Href,
			URI:                  item.URI,
		})
	}
	return summaries, nil
}
