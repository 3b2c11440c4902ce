package catalog

import (
	"context"
	"fmt"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
	"golang.org/x/sync/errgroup"
)

// artistFromPayload maps a full artist payload to the domain entity.
func artistFromPayload(raw *services.SpotifyArtist) *models.Artist {
	return &models.Artist{
		ID:         raw.ID,
		Name:       raw.Name,
		Popularity: raw.Popularity,
		Followers:  raw.Followers.Total,
		Genres:     raw.Genres,
		Images:     resolveImages(raw.Images),
		Href:       raw.Href,
		URI:        raw.URI,
	}
}

// ResolveArtist resolves a single artist by id: store hit wins, otherwise
// the artist is fetched upstream and written through.
func (r *Resolver) ResolveArtist(ctx context.Context, id string) (*models.Artist, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: artist id is required", shared.ErrInvalidInput)
	}

	cached, err := r.stores.Artists.FindArtist(id)
	if err == nil {
		return cached, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("artist store lookup failed: %w", err)
	}

	raw, err := r.api.Artist(ctx, id)
	if err != nil {
		return nil, err
	}

	return r.resolveArtistPayload(ctx, raw)
}

// resolveArtistPayload resolves a full artist payload without an upstream
// round trip: cached entity if present, otherwise built from the payload and
// written through.
func (r *Resolver) resolveArtistPayload(_ context.Context, raw *services.SpotifyArtist) (*models.Artist, error) {
	if raw == nil || raw.ID == "" {
		return nil, fmt.Errorf("%w: artist payload missing id", shared.ErrInvalidInput)
	}

	cached, err := r.stores.Artists.FindArtist(raw.ID)
	if err == nil {
		return cached, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("artist store lookup failed: %w", err)
	}

	artist := artistFromPayload(raw)
	if err := r.stores.Artists.SaveArtist(artist); err != nil {
		return nil, fmt.Errorf("failed to save artist %s: %w", artist.ID, err)
	}
	return artist, nil
}

// ResolveArtists resolves a set of artist ids to a map keyed by id.
//
// The requested set is deduplicated, the store answers what it can, and the
// remaining ids are fetched in sub-batches of at most
// services.MaxArtistBatch, concurrently, with results joined by batch index.
// Ids unknown to both the store and the upstream are simply absent from the
// result; callers must tolerate holes.
func (r *Resolver) ResolveArtists(ctx context.Context, ids []string) (map[string]*models.Artist, error) {
	distinct := dedupeIDs(ids)
	resolved := make(map[string]*models.Artist, len(distinct))
	if len(distinct) == 0 {
		return resolved, nil
	}

	var missing []string
	for _, id := range distinct {
		cached, err := r.stores.Artists.FindArtist(id)
		if err == nil {
			resolved[id] = cached
			continue
		}
		if !isNotFound(err) {
			return nil, fmt.Errorf("artist store lookup failed: %w", err)
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return resolved, nil
	}

	chunks := chunkIDs(missing, services.MaxArtistBatch)
	fetched := make([][]services.SpotifyArtist, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			batch, err := r.api.SeveralArtists(gctx, chunk)
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
			artist := artistFromPayload(&batch[i])
			if err := r.stores.Artists.SaveArtist(artist); err != nil {
				return nil, fmt.Errorf("failed to save artist %s: %w", artist.ID, err)
			}
			resolved[artist.ID] = artist
		}
	}

	if len(resolved) < len(distinct) {
		r.logger.Debug("artist resolution has holes", "requested", len(distinct), "resolved", len(resolved))
	}

	return resolved, nil
}

// ResolveArtistList resolves a set of artist ids, returned in request order.
// Ids unknown upstream are omitted from the result.
func (r *Resolver) ResolveArtistList(ctx context.Context, ids []string) ([]models.Artist, error) {
	distinct := dedupeIDs(ids)
	resolved, err := r.ResolveArtists(ctx, distinct)
	if err != nil {
		return nil, err
	}

	artists := make([]models.Artist, 0, len(distinct))
	for _, id := range distinct {
		if artist, ok := resolved[id]; ok {
			artists = append(artists, *artist)
		}
	}
	return artists, nil
}

// orderedArtists maps simplified artist references to resolved entities in
// payload order, skipping references absent from the map.
func orderedArtists(refs []services.SpotifySimpleArtist, resolved map[string]*models.Artist) []models.Artist {
	artists := make([]models.Artist, 0, len(refs))
	for _, ref := range refs {
		if artist, ok := resolved[ref.ID]; ok {
			artists = append(artists, *artist)
		}
	}
	return artists
}

// artistIDs extracts the ids of simplified artist references.
func artistIDs(refs []services.SpotifySimpleArtist) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}
