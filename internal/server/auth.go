package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// AuthHandler drives the provider's authorization-code flow for user-scoped
// access: issuing the authorization URL, exchanging the returned code, and
// refreshing expired tokens. State is generated per login request and echoed
// back to the client, which must carry it through the redirect.
type AuthHandler struct {
	config  *oauth2.Config
	spotify *services.SpotifyClient
	logger  *log.Logger
}

// NewAuthHandler creates an AuthHandler from the Spotify credentials.
func NewAuthHandler(cfg shared.SpotifyConfig, spotify *services.SpotifyClient, logger *log.Logger) *AuthHandler {
	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"user-top-read",
			"playlist-read-private",
			"playlist-read-collaborative",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &AuthHandler{config: config, spotify: spotify, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"GET /auth/spotify/login",
		"POST /auth/spotify/exchange",
		"POST /auth/spotify/refresh",
		"GET /auth/spotify/validate",
	}
}

// tokenResponse is the serialized form of an issued or refreshed token.
type tokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	TokenType    string    `json:"tokenType"`
	Expiry       time.Time `json:"expiry"`
}

func toTokenResponse(token *oauth2.Token) tokenResponse {
	return tokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /auth/spotify/login":
		h.login(w, r)
	case "POST /auth/spotify/exchange":
		h.exchange(w, r)
	case "POST /auth/spotify/refresh":
		h.refresh(w, r)
	case "GET /auth/spotify/validate":
		h.validate(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login issues the authorization URL the client should redirect the user to.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()
	url := h.config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	writeJSON(w, http.StatusOK, map[string]string{
		"url":   url,
		"state": state,
	})
}

// exchange trades an authorization code for an access token.
func (h *AuthHandler) exchange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Code == "" {
		writeError(w, fmt.Errorf("%w: code is required", shared.ErrMissingArgument))
		return
	}

	token, err := h.config.Exchange(r.Context(), req.Code)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err))
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(token))
}

// refresh exchanges a refresh token for a fresh access token.
func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.RefreshToken == "" {
		writeError(w, fmt.Errorf("%w: refreshToken is required", shared.ErrMissingArgument))
		return
	}

	source := h.config.TokenSource(r.Context(), &oauth2.Token{RefreshToken: req.RefreshToken})
	token, err := source.Token()
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err))
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(token))
}

// validate checks a user access token by fetching the profile it belongs to.
func (h *AuthHandler) validate(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, fmt.Errorf("%w: bearer token required", shared.ErrNotAuthenticated))
		return
	}

	profile, err := h.spotify.UserProfile(r.Context(), token)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", shared.ErrTokenExpired, err))
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
