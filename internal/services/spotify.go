package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "https://api.spotify.com/v1"
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultRateLimit   = 10.0
)

// SpotifyClient issues authenticated requests against the Spotify Web API.
//
// Catalog endpoints use the client-credentials token owned by the embedded
// [TokenProvider]; the /me endpoints require a user access token supplied by
// the caller. All requests share one rate limiter.
type SpotifyClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenProvider
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyClient creates a SpotifyClient from the given configuration.
func NewSpotifyClient(cfg shared.SpotifyConfig, logger *log.Logger) (*SpotifyClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	accountsURL := cfg.AccountsURL
	if accountsURL == "" {
		accountsURL = defaultAccountsURL
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	httpClient := &http.Client{}

	return &SpotifyClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		tokens:     NewTokenProvider(accountsURL, cfg.ClientID, cfg.ClientSecret, httpClient),
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
		logger:     logger.With("component", "spotify"),
	}, nil
}

// get performs an authenticated GET against an absolute API URL and decodes
// the JSON response into result.
func (c *SpotifyClient) get(ctx context.Context, fullURL string, result any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	return c.getWithToken(ctx, fullURL, token, result)
}

// getWithToken performs a GET with an explicit bearer token. Used directly
// for the user-scoped /me endpoints.
func (c *SpotifyClient) getWithToken(ctx context.Context, fullURL, accessToken string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, fullURL)
	case resp.StatusCode == http.StatusUnauthorized:
		c.tokens.Invalidate()
		return fmt.Errorf("%w: status %d for %s", shared.ErrAPIRequest, resp.StatusCode, fullURL)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d for %s", shared.ErrAPIRequest, resp.StatusCode, fullURL)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// pageURL validates that a continuation cursor handed back by the API still
// points at the API host before following it.
func (c *SpotifyClient) pageURL(next string) (string, error) {
	if !strings.HasPrefix(next, c.baseURL+"/") {
		return "", fmt.Errorf("%w: page url %q is outside the API base", shared.ErrInvalidArgument, next)
	}
	return next, nil
}

// ARTIST ENDPOINTS

// Artist retrieves a single artist by id.
func (c *SpotifyClient) Artist(ctx context.Context, id string) (*SpotifyArtist, error) {
	var artist SpotifyArtist
	if err := c.get(ctx, fmt.Sprintf("%s/artists/%s", c.baseURL, id), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// SeveralArtists retrieves up to MaxArtistBatch artists in one request.
// Ids unknown upstream are simply absent from the result.
func (c *SpotifyClient) SeveralArtists(ctx context.Context, ids []string) ([]SpotifyArtist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxArtistBatch {
		return nil, fmt.Errorf("%w: %d artist ids (max %d)", shared.ErrBatchLimitExceeded, len(ids), MaxArtistBatch)
	}

	var response struct {
		Artists []*SpotifyArtist `json:"artists"`
	}
	endpoint := fmt.Sprintf("%s/artists?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	// The API returns null entries for unknown ids.
	artists := make([]SpotifyArtist, 0, len(response.Artists))
	for _, a := range response.Artists {
		if a != nil && a.ID != "" {
			artists = append(artists, *a)
		}
	}
	return artists, nil
}

// ArtistAlbums retrieves the first page of an artist's discography.
func (c *SpotifyClient) ArtistAlbums(ctx context.Context, id string) (*SpotifyAlbumPage, error) {
	var page SpotifyAlbumPage
	if err := c.get(ctx, fmt.Sprintf("%s/artists/%s/albums", c.baseURL, id), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArtistTopTracks retrieves an artist's top tracks.
func (c *SpotifyClient) ArtistTopTracks(ctx context.Context, id string) ([]SpotifyTrack, error) {
	var response struct {
		Tracks []SpotifyTrack `json:"tracks"`
	}
	if err := c.get(ctx, fmt.Sprintf("%s/artists/%s/top-tracks", c.baseURL, id), &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// ALBUM ENDPOINTS

// Album retrieves a single album by id, including the first page of its
// track listing.
func (c *SpotifyClient) Album(ctx context.Context, id string) (*SpotifyAlbum, error) {
	var album SpotifyAlbum
	if err := c.get(ctx, fmt.Sprintf("%s/albums/%s", c.baseURL, id), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// SeveralAlbums retrieves up to MaxAlbumBatch albums in one request.
func (c *SpotifyClient) SeveralAlbums(ctx context.Context, ids []string) ([]SpotifyAlbum, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxAlbumBatch {
		return nil, fmt.Errorf("%w: %d album ids (max %d)", shared.ErrBatchLimitExceeded, len(ids), MaxAlbumBatch)
	}

	var response struct {
		Albums []*SpotifyAlbum `json:"albums"`
	}
	endpoint := fmt.Sprintf("%s/albums?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	albums := make([]SpotifyAlbum, 0, len(response.Albums))
	for _, a := range response.Albums {
		if a != nil && a.ID != "" {
			albums = append(albums, *a)
		}
	}
	return albums, nil
}

// TRACK ENDPOINTS

// Track retrieves a single track by id.
func (c *SpotifyClient) Track(ctx context.Context, id string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	if err := c.get(ctx, fmt.Sprintf("%s/tracks/%s", c.baseURL, id), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// SeveralTracks retrieves up to MaxTrackBatch tracks in one request.
func (c *SpotifyClient) SeveralTracks(ctx context.Context, ids []string) ([]SpotifyTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxTrackBatch {
		return nil, fmt.Errorf("%w: %d track ids (max %d)", shared.ErrBatchLimitExceeded, len(ids), MaxTrackBatch)
	}

	var response struct {
		Tracks []*SpotifyTrack `json:"tracks"`
	}
	endpoint := fmt.Sprintf("%s/tracks?ids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	tracks := make([]SpotifyTrack, 0, len(response.Tracks))
	for _, t := range response.Tracks {
		if t != nil && t.ID != "" {
			tracks = append(tracks, *t)
		}
	}
	return tracks, nil
}

// PLAYLIST ENDPOINTS

// Playlist retrieves a single playlist by id, including the first page of
// its track listing.
func (c *SpotifyClient) Playlist(ctx context.Context, id string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	if err := c.get(ctx, fmt.Sprintf("%s/playlists/%s", c.baseURL, id), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PAGE FETCHERS
//
// Continuation cursors are absolute URLs handed back by the API; each
// fetcher follows one cursor and returns the typed page.

// TrackPage fetches one page of an album track listing.
func (c *SpotifyClient) TrackPage(ctx context.Context, next string) (*SpotifyTrackPage, error) {
	fullURL, err := c.pageURL(next)
	if err != nil {
		return nil, err
	}
	var page SpotifyTrackPage
	if err := c.get(ctx, fullURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PlaylistTrackPage fetches one page of a playlist track listing.
func (c *SpotifyClient) PlaylistTrackPage(ctx context.Context, next string) (*SpotifyPlaylistTrackPage, error) {
	fullURL, err := c.pageURL(next)
	if err != nil {
		return nil, err
	}
	var page SpotifyPlaylistTrackPage
	if err := c.get(ctx, fullURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AlbumPage fetches one page of an artist discography listing.
func (c *SpotifyClient) AlbumPage(ctx context.Context, next string) (*SpotifyAlbumPage, error) {
	fullURL, err := c.pageURL(next)
	if err != nil {
		return nil, err
	}
	var page SpotifyAlbumPage
	if err := c.get(ctx, fullURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// USER ENDPOINTS (require a user access token)

// UserProfile retrieves the profile of the user the token belongs to.
func (c *SpotifyClient) UserProfile(ctx context.Context, accessToken string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := c.getWithToken(ctx, c.baseURL+"/me", accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves one page of the user's playlists.
func (c *SpotifyClient) UserPlaylists(ctx context.Context, accessToken string, limit, offset int) (*SpotifyPaginatedPlaylists, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	var response SpotifyPaginatedPlaylists
	endpoint := fmt.Sprintf("%s/me/playlists?limit=%d&offset=%d", c.baseURL, limit, offset)
	if err := c.getWithToken(ctx, endpoint, accessToken, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// UserTopTracks retrieves the user's top tracks.
func (c *SpotifyClient) UserTopTracks(ctx context.Context, accessToken string) ([]SpotifyTrack, error) {
	var response struct {
		Items []SpotifyTrack `json:"items"`
	}
	if err := c.getWithToken(ctx, c.baseURL+"/me/top/tracks", accessToken, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

// UserTopArtists retrieves the user's top artists.
func (c *SpotifyClient) UserTopArtists(ctx context.Context, accessToken string) ([]SpotifyArtist, error) {
	var response struct {
		Items []SpotifyArtist `json:"items"`
	}
	if err := c.getWithToken(ctx, c.baseURL+"/me/top/artists", accessToken, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}
