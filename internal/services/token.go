package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hazelvane/melodex/internal/shared"
)

// tokenExpirySlack is subtracted from the reported lifetime so a token is
// refreshed before Spotify actually rejects it.
const tokenExpirySlack = 5 * time.Minute

// TokenProvider acquires and caches a client-credentials access token.
//
// It holds a single slot guarded by a mutex: concurrent callers share one
// valid token and at most one refresh request is in flight at a time. The
// client never bypasses the provider to reach the accounts service.
type TokenProvider struct {
	accountsURL  string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenProvider creates a TokenProvider for the given accounts endpoint
// and client credentials.
func NewTokenProvider(accountsURL, clientID, clientSecret string, client *http.Client) *TokenProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenProvider{
		accountsURL:  strings.TrimSuffix(accountsURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   client,
	}
}

// Token returns a valid access token, requesting a fresh one from the
// accounts service when the cached token is missing or near expiry.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiry) {
		return p.token, nil
	}

	token, expiresIn, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}

	p.token = token
	p.expiry = time.Now().Add(time.Duration(expiresIn)*time.Second - tokenExpirySlack)
	return p.token, nil
}

// Invalidate discards the cached token so the next call fetches a new one.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiry = time.Time{}
}

func (p *TokenProvider) fetch(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.accountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: token request: %v", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("%w: token request returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, fmt.Errorf("%w: failed to decode token response: %v", shared.ErrAuthFailed, err)
	}
	if body.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: token response missing access_token", shared.ErrAuthFailed)
	}

	expiresIn := body.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600 // Spotify tokens last one hour
	}

	return body.AccessToken, expiresIn, nil
}
