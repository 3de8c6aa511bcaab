// Package identity persists the CLI's logged-in Discord identity between runs.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Identity is the cached login state.
type Identity struct {
	DiscordID   string `json:"discord_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Token       string `json:"token"`
}

// Cache is a file-backed identity store. It is advisory only: a missing or
// corrupt file behaves exactly like being logged out.
type Cache struct {
	path string
}

// NewCache stores identity under the user's config directory.
func NewCache() (*Cache, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewCacheAt(filepath.Join(dir, "partyfinder", "identity.json")), nil
}

// NewCacheAt stores identity at an explicit path. Intended for tests.
func NewCacheAt(path string) *Cache {
	return &Cache{path: path}
}

// Load hydrates the cached identity. Absent, unreadable, or malformed data
// all report "not logged in"; Load never fails.
func (c *Cache) Load() (*Identity, bool) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, false
	}
	if id.DiscordID == "" {
		return nil, false
	}
	return &id, true
}

// Set replaces the cached identity. Last write wins.
func (c *Cache) Set(id Identity) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o600)
}

// Clear removes the cached identity. Clearing an absent cache is a no-op.
func (c *Cache) Clear() error {
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
