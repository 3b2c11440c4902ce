package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/catalog"
	"github.com/hazelvane/melodex/internal/shared"
)

// CatalogHandler serves the catalog read endpoints over the aggregation
// pipeline. Implements the [Handler] interface.
type CatalogHandler struct {
	resolver *catalog.Resolver
	logger   *log.Logger
}

// NewCatalogHandler creates a CatalogHandler over the given resolver.
func NewCatalogHandler(resolver *catalog.Resolver, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{resolver: resolver, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CatalogHandler) Routes() []string {
	return []string{
		"GET /api/artists",
		"GET /api/artists/{id}",
		"GET /api/artists/{id}/albums",
		"GET /api/artists/{id}/top-tracks",
		"GET /api/albums",
		"GET /api/albums/{id}",
		"GET /api/tracks",
		"GET /api/tracks/{id}",
		"GET /api/playlists/{id}",
	}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var (
		result any
		err    error
	)

	switch r.Pattern {
	case "GET /api/artists":
		result, err = h.batch(r, func(ids []string) (any, error) {
			return h.resolver.ResolveArtistList(ctx, ids)
		})
	case "GET /api/albums":
		result, err = h.batch(r, func(ids []string) (any, error) {
			return h.resolver.ResolveAlbums(ctx, ids)
		})
	case "GET /api/tracks":
		result, err = h.batch(r, func(ids []string) (any, error) {
			return h.resolver.ResolveTracks(ctx, ids)
		})
	case "GET /api/artists/{id}":
		result, err = h.resolver.ResolveArtist(ctx, id)
	case "GET /api/artists/{id}/albums":
		result, err = h.resolver.ResolveArtistAlbums(ctx, id)
	case "GET /api/artists/{id}/top-tracks":
		result, err = h.resolver.ResolveArtistTopTracks(ctx, id)
	case "GET /api/albums/{id}":
		if r.URL.Query().Get("refresh") == "true" {
			result, err = h.resolver.ReloadAlbum(ctx, id)
		} else {
			result, err = h.resolver.ResolveAlbum(ctx, id)
		}
	case "GET /api/tracks/{id}":
		result, err = h.resolver.ResolveTrack(ctx, id)
	case "GET /api/playlists/{id}":
		result, err = h.resolver.ResolvePlaylist(ctx, id)
	default:
		http.NotFound(w, r)
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// batch validates the ids query parameter and delegates to resolve.
func (h *CatalogHandler) batch(r *http.Request, resolve func([]string) (any, error)) (any, error) {
	ids := queryIDs(r)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids query parameter is required", shared.ErrMissingArgument)
	}
	return resolve(ids)
}
