package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
)

// MeHandler passes user-scoped requests through to the provider's /me
// endpoints. The caller supplies a user access token obtained from the auth
// flow; nothing here touches the entity store, since user data is private
// and volatile.
type MeHandler struct {
	spotify *services.SpotifyClient
	logger  *log.Logger
}

// NewMeHandler creates a MeHandler over the given client.
func NewMeHandler(spotify *services.SpotifyClient, logger *log.Logger) *MeHandler {
	return &MeHandler{spotify: spotify, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *MeHandler) Routes() []string {
	return []string{
		"GET /api/me",
		"GET /api/me/playlists",
		"GET /api/me/top/tracks",
		"GET /api/me/top/artists",
	}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: bearer token required", shared.ErrNotAuthenticated))
		return
	}

	ctx := r.Context()

	var (
		result any
		err    error
	)

	switch r.Pattern {
	case "GET /api/me":
		result, err = h.spotify.UserProfile(ctx, token)
	case "GET /api/me/playlists":
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		result, err = h.spotify.UserPlaylists(ctx, token, limit, offset)
	case "GET /api/me/top/tracks":
		result, err = h.spotify.UserTopTracks(ctx, token)
	case "GET /api/me/top/artists":
		result, err = h.spotify.UserTopArtists(ctx, token)
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
