package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/ecofinder/internal/metrics"
)

const (
	colorRed   = 0xE74C3C
	colorGreen = 0x2ECC71

	maxDescription = 1024
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendAuthFailure reports a credential that could not be refreshed.
func (d *DiscordNotifier) SendAuthFailure(ctx context.Context, event *AuthEvent) error {
	embed := buildEmbed(event, "MercadoLibre credential refresh failed", colorRed)
	embed.Description = truncate(event.Error, maxDescription)
	return d.post(ctx, discordWebhookPayload{Username: "ecofinder", Embeds: []discordEmbed{embed}})
}

// SendAuthRecovered reports that a refresh succeeded after failures.
func (d *DiscordNotifier) SendAuthRecovered(ctx context.Context, event *AuthEvent) error {
	embed := buildEmbed(event, "MercadoLibre credential recovered", colorGreen)
	return d.post(ctx, discordWebhookPayload{Username: "ecofinder", Embeds: []discordEmbed{embed}})
}

func buildEmbed(event *AuthEvent, title string, color int) discordEmbed {
	embed := discordEmbed{
		Title: title,
		Color: color,
	}
	if event.Site != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Site", Value: event.Site, Inline: true})
	}
	if !event.ExpiresAt.IsZero() {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:   "Token expires",
			Value:  event.ExpiresAt.UTC().Format(time.RFC3339),
			Inline: true,
		})
	}
	if !event.OccurredAt.IsZero() {
		embed.Timestamp = event.OccurredAt.UTC().Format(time.RFC3339)
	}
	return embed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) (err error) {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.NotificationFailuresTotal.Inc()
		}
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
