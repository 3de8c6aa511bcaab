package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/discord/login", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("code"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"user": map[string]string{
				"discord_id": "111222333",
				"username":   "Rin",
				"email":      "rin@example.com",
			},
			"token": "jwt-token",
		})
	}))
	defer upstream.Close()

	result, err := New(upstream.URL).Login(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "111222333", result.User.DiscordID)
	assert.Equal(t, "jwt-token", result.Token)
}

func TestEnsurePostable(t *testing.T) {
	tests := []struct {
		name    string
		verdict map[string]any
		wantErr string
	}{
		{
			name: "Complete",
			verdict: map[string]any{
				"is_profile_complete": true,
				"missing_fields":      map[string]bool{},
			},
		},
		{
			name: "Missing Both",
			verdict: map[string]any{
				"is_profile_complete": false,
				"missing_fields":      map[string]bool{"birth_date": true, "country": true},
			},
			wantErr: "missing birth date, country",
		},
		{
			name: "Missing Country",
			verdict: map[string]any{
				"is_profile_complete": false,
				"missing_fields":      map[string]bool{"country": true},
			},
			wantErr: "missing country",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/users/111222333/profile-check", r.URL.Path)
				_ = json.NewEncoder(w).Encode(tt.verdict)
			}))
			defer upstream.Close()

			err := New(upstream.URL).EnsurePostable(context.Background(), "111222333")
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCreatePostSendsToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Valorant", body["game_type"])
		assert.Equal(t, "111222333", body["user_id"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]uint{"id": 42})
	}))
	defer upstream.Close()

	id, err := New(upstream.URL).WithToken("jwt-token").CreatePost(context.Background(), CreatePostInput{
		GameType: "Valorant",
		Region:   "EU",
		GameMode: "Ranked",
		UserID:   "111222333",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestDeletePostSurfacesAPIError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/api/posts/7"))
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Post not found or unauthorized"})
	}))
	defer upstream.Close()

	err := New(upstream.URL).DeletePost(context.Background(), 7, "111222333")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Post not found or unauthorized")
}
