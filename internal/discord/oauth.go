// Package discord talks to the Discord HTTP API: OAuth2 code exchange and
// webhook delivery.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

const defaultAPIBase = "https://discord.com/api"

// Endpoint is Discord's OAuth2 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// Identity is the subset of the Discord /users/@me response the app needs.
type Identity struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
}

// DisplayName prefers the global display name over the login username.
func (i Identity) DisplayName() string {
	if i.GlobalName != "" {
		return i.GlobalName
	}
	return i.Username
}

// OAuthClient exchanges authorization codes for Discord identities.
type OAuthClient struct {
	cfg     *oauth2.Config
	apiBase string
}

// NewOAuthClient builds an OAuthClient for the given application credentials.
func NewOAuthClient(clientID, clientSecret, redirectURL string) *OAuthClient {
	return &OAuthClient{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint:     Endpoint,
		},
		apiBase: defaultAPIBase,
	}
}

// WithAPIBase overrides the Discord API base URL. Intended for tests.
func (c *OAuthClient) WithAPIBase(base string) *OAuthClient {
	c.apiBase = base
	return c
}

// WithTokenURL overrides the token endpoint. Intended for tests.
func (c *OAuthClient) WithTokenURL(tokenURL string) *OAuthClient {
	c.cfg.Endpoint = oauth2.Endpoint{AuthURL: c.cfg.Endpoint.AuthURL, TokenURL: tokenURL}
	return c
}

// ExchangeCode trades an authorization code for the authenticated user's
// Discord identity.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*Identity, error) {
	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("discord token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discord user lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord user lookup returned status %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("discord user decode failed: %w", err)
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("discord user response missing id")
	}
	return &identity, nil
}
