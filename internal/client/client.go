// Package client is a thin HTTP client for the Party Finder API, used by the
// lfgctl command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"partyfinder/internal/models"
)

// Client talks to a Party Finder API server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the given base URL (e.g. http://localhost:5000).
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithToken attaches a bearer token to subsequent requests.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

// LoginResult is the server's OAuth login response.
type LoginResult struct {
	Success bool `json:"success"`
	User    struct {
		DiscordID string `json:"discord_id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

// Login exchanges a Discord authorization code for the local account and token.
func (c *Client) Login(ctx context.Context, code string) (*LoginResult, error) {
	var result LoginResult
	path := "/api/auth/discord/login?code=" + url.QueryEscape(code)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser fetches a profile by Discord ID.
func (c *Client) GetUser(ctx context.Context, discordID string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(discordID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckProfile fetches the completeness verdict for a Discord ID.
func (c *Client) CheckProfile(ctx context.Context, discordID string) (*models.CompletenessVerdict, error) {
	var verdict models.CompletenessVerdict
	path := "/api/users/" + url.PathEscape(discordID) + "/profile-check"
	if err := c.do(ctx, http.MethodGet, path, nil, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// EnsurePostable enforces the client-side profile gate: incomplete profiles
// get an error naming the missing fields. The server does not re-check.
func (c *Client) EnsurePostable(ctx context.Context, discordID string) error {
	verdict, err := c.CheckProfile(ctx, discordID)
	if err != nil {
		return err
	}
	if verdict.IsProfileComplete {
		return nil
	}
	var missing []string
	if verdict.MissingFields.BirthDate {
		missing = append(missing, "birth date")
	}
	if verdict.MissingFields.Country {
		missing = append(missing, "country")
	}
	return fmt.Errorf("profile incomplete: missing %s", strings.Join(missing, ", "))
}

// ListOpenPosts fetches all open listings.
func (c *Client) ListOpenPosts(ctx context.Context) ([]models.LFGPost, error) {
	var posts []models.LFGPost
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListMyPosts fetches the given owner's open listings.
func (c *Client) ListMyPosts(ctx context.Context, discordID string) ([]models.LFGPost, error) {
	var posts []models.LFGPost
	path := "/api/posts/user/" + url.PathEscape(discordID)
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePostInput is the listing creation payload.
type CreatePostInput struct {
	GameType string `json:"game_type"`
	Region   string `json:"region"`
	GameMode string `json:"game_mode"`
	UserID   string `json:"user_id"`
	AgeRange string `json:"age_range,omitempty"`
}

// CreatePost creates a listing and returns its ID.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (uint, error) {
	var created struct {
		ID uint `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

// DeletePost deletes an owned listing.
func (c *Client) DeletePost(ctx context.Context, postID uint, discordID string) error {
	path := fmt.Sprintf("/api/posts/%d?user_id=%s", postID, url.QueryEscape(discordID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Message)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
