package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const embedColorGreen = 0x2ECC71

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Fields    []discordEmbedField `json:"fields,omitempty"`
	Thumbnail *discordThumbnail   `json:"thumbnail,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// SendSaleAlert sends a sale alert as a Discord embed.
func (d *DiscordNotifier) SendSaleAlert(ctx context.Context, alert SaleAlert) error {
	embed := discordEmbed{
		Title: fmt.Sprintf("Sold: %s", alert.ProductName),
		Color: embedColorGreen,
		Fields: []discordEmbedField{
			{Name: "Size", Value: alert.Size, Inline: true},
			{Name: "Payout", Value: fmt.Sprintf("%d", alert.Payout), Inline: true},
			{Name: "Listing", Value: fmt.Sprintf("%d", alert.ListingID), Inline: true},
		},
	}
	if alert.SKU != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "SKU", Value: alert.SKU, Inline: true,
		})
	}
	if alert.ImageURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: alert.ImageURL}
	}

	payload := discordWebhookPayload{Embeds: []discordEmbed{embed}}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
