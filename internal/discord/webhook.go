package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const embedColorPurple = 0x9B59B6

// AnnounceInput carries the fields rendered into the webhook embed.
type AnnounceInput struct {
	DiscordID string
	Game      string
	Mode      string
	Region    string
	AgeRange  string
}

type embedFooter struct {
	Text string `json:"text"`
}

type embed struct {
	Title       string      `json:"title"`
	Color       int         `json:"color"`
	Description string      `json:"description"`
	Timestamp   string      `json:"timestamp"`
	Footer      embedFooter `json:"footer"`
}

type allowedMentions struct {
	Users []string `json:"users"`
}

type webhookPayload struct {
	Content         string          `json:"content"`
	Embeds          []embed         `json:"embeds"`
	AllowedMentions allowedMentions `json:"allowed_mentions"`
}

// WebhookAnnouncer posts LFG announcements to a Discord channel webhook.
type WebhookAnnouncer struct {
	url        string
	httpClient *http.Client
}

// NewWebhookAnnouncer returns an announcer for the given webhook URL.
// An empty URL yields an announcer whose Announce reports not-configured.
func NewWebhookAnnouncer(url string) *WebhookAnnouncer {
	return &WebhookAnnouncer{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether a webhook URL is set.
func (a *WebhookAnnouncer) Configured() bool {
	return a.url != ""
}

// Announce posts the listing announcement. The caller decides whether a
// failure matters; listing creation never depends on it.
func (a *WebhookAnnouncer) Announce(ctx context.Context, in AnnounceInput) error {
	if a.url == "" {
		return fmt.Errorf("discord webhook not configured")
	}

	desc := fmt.Sprintf(
		"<@%s> is looking for a group!\n\n"+
			"**Game:** %s\n"+
			"**Mode:** %s\n"+
			"**Region:** %s\n"+
			"**Age Preference:** %s\n\n"+
			"*React with ✅ if you want to join or DM the user!*",
		in.DiscordID, in.Game, in.Mode, in.Region, in.AgeRange,
	)

	payload := webhookPayload{
		Content: fmt.Sprintf("Hey Gamers! <@%s> is looking for teammates!", in.DiscordID),
		Embeds: []embed{{
			Title:       "🎮 New LFG Request!",
			Color:       embedColorPurple,
			Description: desc,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Footer:      embedFooter{Text: "LFG Finder Bot"},
		}},
		AllowedMentions: allowedMentions{Users: []string{in.DiscordID}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}
