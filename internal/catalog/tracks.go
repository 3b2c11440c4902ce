package catalog

import (
	"context"
	"fmt"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
	"golang.org/x/sync/errgroup"
)

// ResolveTrack resolves a single track by id: store hit wins, otherwise the
// track is fetched upstream, its artist list resolved, and the result
// written through.
func (r *Resolver) ResolveTrack(ctx context.Context, id string) (*models.Track, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}

	cached, err := r.stores.Tracks.FindTrack(id)
	if err == nil {
		return cached, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("track store lookup failed: %w", err)
	}

	raw, err := r.api.Track(ctx, id)
	if err != nil {
		return nil, err
	}

	return r.buildTrack(ctx, raw, nil, nil)
}

// ResolveTracks resolves a set of track ids, returned in request order.
// Ids unknown upstream are omitted from the result.
func (r *Resolver) ResolveTracks(ctx context.Context, ids []string) ([]models.Track, error) {
	distinct := dedupeIDs(ids)
	if len(distinct) == 0 {
		return nil, nil
	}

	resolved := make(map[string]*models.Track, len(distinct))

	var missing []string
	for _, id := range distinct {
		cached, err := r.stores.Tracks.FindTrack(id)
		if err == nil {
			resolved[id] = cached
			continue
		}
		if !isNotFound(err) {
			return nil, fmt.Errorf("track store lookup failed: %w", err)
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		raws, err := r.fetchTrackBatches(ctx, missing)
		if err != nil {
			return nil, err
		}

		built, err := r.buildTracksBulk(ctx, raws, nil)
		if err != nil {
			return nil, err
		}
		for i := range built {
			resolved[built[i].ID] = &built[i]
		}
	}

	tracks := make([]models.Track, 0, len(distinct))
	for _, id := range distinct {
		if track, ok := resolved[id]; ok {
			tracks = append(tracks, *track)
		}
	}
	return tracks, nil
}

// fetchTrackBatches fetches full track payloads in sub-batches of at most
// services.MaxTrackBatch, concurrently, concatenated in batch order.
func (r *Resolver) fetchTrackBatches(ctx context.Context, ids []string) ([]services.SpotifyTrack, error) {
	chunks := chunkIDs(ids, services.MaxTrackBatch)
	fetched := make([][]services.SpotifyTrack, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			batch, err := r.api.SeveralTracks(gctx, chunk)
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

	raws := make([]services.SpotifyTrack, 0, len(ids))
	for _, batch := range fetched {
		raws = append(raws, batch...)
	}
	return raws, nil
}

// buildTrack resolves one full track payload into a domain Track.
//
// preresolved, when non-nil, is used as the artist list verbatim; it comes
// from a batched sibling call that already resolved the artist union, so no
// further lookups happen here. albumRef, when non-nil, overrides the album
// back-reference derived from the payload (used for album track listings,
// where the payload context is the parent album itself).
func (r *Resolver) buildTrack(ctx context.Context, raw *services.SpotifyTrack, preresolved []models.Artist, albumRef *models.AlbumRef) (*models.Track, error) {
	if raw == nil || raw.ID == "" {
		return nil, fmt.Errorf("%w: track payload missing id", shared.ErrInvalidInput)
	}

	cached, err := r.stores.Tracks.FindTrack(raw.ID)
	if err == nil {
		return cached, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("track store lookup failed: %w", err)
	}

	artists := preresolved
	if artists == nil {
		resolved, err := r.ResolveArtists(ctx, artistIDs(raw.Artists))
		if err != nil {
			return nil, err
		}
		artists = orderedArtists(raw.Artists, resolved)
	}

	ref := models.AlbumRef{}
	switch {
	case albumRef != nil:
		ref = *albumRef
	case raw.Album.ID != "":
		ref = models.AlbumRef{
			ID:     raw.Album.ID,
			Name:   raw.Album.Name,
			Images: resolveImages(raw.Album.Images),
		}
	}

	track := &models.Track{
		ID:         raw.ID,
		Name:       raw.Name,
		DurationMS: raw.DurationMS,
		Explicit:   raw.Explicit,
		Popularity: raw.Popularity,
		Artists:    artists,
		Album:      ref,
		Href:       raw.Href,
		URI:        raw.URI,
	}

	if err := r.stores.Tracks.SaveTrack(track); err != nil {
		return nil, fmt.Errorf("failed to save track %s: %w", track.ID, err)
	}
	return track, nil
}

// buildTracksBulk resolves many full track payloads at once.
//
// The union of all distinct artist ids across the payloads is resolved in
// one batched call, then each track takes its own subset from the resolved
// map; upstream artist calls stay O(1) in the number of tracks. albumRefs,
// when non-nil, supplies the album back-reference per album id so no
// per-track album lookup happens.
func (r *Resolver) buildTracksBulk(ctx context.Context, raws []services.SpotifyTrack, albumRefs map[string]models.AlbumRef) ([]models.Track, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	var union []string
	for i := range raws {
		if raws[i].ID == "" {
			return nil, fmt.Errorf("%w: track payload missing id", shared.ErrInvalidInput)
		}
		union = append(union, artistIDs(raws[i].Artists)...)
	}

	resolved, err := r.ResolveArtists(ctx, union)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(raws))
	for i := range raws {
		raw := &raws[i]

		var ref *models.AlbumRef
		if albumRefs != nil {
			if ar, ok := albumRefs[raw.Album.ID]; ok {
				ref = &ar
			}
		}

		track, err := r.buildTrack(ctx, raw, orderedArtists(raw.Artists, resolved), ref)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

// resolveTrackListing resolves an album's simplified track listing into full
// domain Tracks.
//
// Simplified items carry no popularity or album, so the full payloads are
// re-fetched by id in aligned batches; a shortfall between requested ids and
// returned payloads is a hard shared.ErrBatchSizeMismatch, never truncated.
// known carries artists the caller already resolved (the album's own artist
// list); only artists outside it are looked up, once, for the whole listing.
func (r *Resolver) resolveTrackListing(ctx context.Context, items []services.SpotifySimpleTrack, albumRef models.AlbumRef, known map[string]*models.Artist) ([]models.Track, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(items))
	var union []string
	for i := range items {
		if items[i].ID == "" {
			return nil, fmt.Errorf("%w: track payload missing id", shared.ErrInvalidInput)
		}
		ids = append(ids, items[i].ID)
		for _, ref := range items[i].Artists {
			if _, ok := known[ref.ID]; !ok {
				union = append(union, ref.ID)
			}
		}
	}

	resolved, err := r.ResolveArtists(ctx, union)
	if err != nil {
		return nil, err
	}
	for id, artist := range known {
		resolved[id] = artist
	}

	raws, err := r.fetchTrackBatches(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(raws) != len(ids) {
		return nil, fmt.Errorf("%w: requested %d tracks, got %d", shared.ErrBatchSizeMismatch, len(ids), len(raws))
	}

	tracks := make([]models.Track, 0, len(raws))
	for i := range raws {
		track, err := r.buildTrack(ctx, &raws[i], orderedArtists(raws[i].Artists, resolved), &albumRef)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

// ResolveArtistTopTracks resolves an artist's top tracks with the bulk
// artist-union optimization.
func (r *Resolver) ResolveArtistTopTracks(ctx context.Context, artistID string) ([]models.Track, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", shared.ErrInvalidInput)
	}

	raws, err := r.api.ArtistTopTracks(ctx, artistID)
	if err != nil {
		return nil, err
	}

	return r.buildTracksBulk(ctx, raws, nil)
}
