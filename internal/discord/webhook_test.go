package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookAnnouncer_Announce(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := NewWebhookAnnouncer(srv.URL)
	err := a.Announce(context.Background(), AnnounceInput{
		DiscordID: "111222333",
		Game:      "Valorant",
		Mode:      "Ranked",
		Region:    "NA",
		AgeRange:  "Any",
	})
	require.NoError(t, err)

	assert.Contains(t, got.Content, "<@111222333>")
	require.Len(t, got.Embeds, 1)
	e := got.Embeds[0]
	assert.Equal(t, embedColorPurple, e.Color)
	assert.Equal(t, "LFG Finder Bot", e.Footer.Text)
	assert.Contains(t, e.Description, "**Game:** Valorant")
	assert.Contains(t, e.Description, "**Mode:** Ranked")
	assert.Contains(t, e.Description, "**Region:** NA")
	assert.Contains(t, e.Description, "**Age Preference:** Any")
	assert.Equal(t, []string{"111222333"}, got.AllowedMentions.Users)
}

func TestWebhookAnnouncer_AnnounceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	a := NewWebhookAnnouncer(srv.URL)
	err := a.Announce(context.Background(), AnnounceInput{DiscordID: "1"})
	assert.Error(t, err)
}

func TestWebhookAnnouncer_NotConfigured(t *testing.T) {
	a := NewWebhookAnnouncer("")
	assert.False(t, a.Configured())
	assert.Error(t, a.Announce(context.Background(), AnnounceInput{DiscordID: "1"}))
}
