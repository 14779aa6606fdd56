package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Raghucharan16/Market-Alerts/internal/models"
)

// Embed colors Discord renders for the two alert directions
const (
	colorProfit = 51281    // green
	colorLoss   = 16724787 // red
)

// Discord posts alert embeds to a per-user webhook URL
type Discord struct {
	client           *http.Client
	dashboardBaseURL string
}

// NewDiscord creates a Discord webhook dispatcher
func NewDiscord(timeout time.Duration, dashboardBaseURL string) *Discord {
	return &Discord{
		client:           &http.Client{Timeout: timeout},
		dashboardBaseURL: dashboardBaseURL,
	}
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Send formats and posts a single alert embed. Only HTTP 200 and 204 count
// as success; any other status or transport error is a soft failure returned
// to the caller, never retried here.
func (d *Discord) Send(ctx context.Context, webhookURL string, alert *models.Alert) error {
	title := fmt.Sprintf("📈 Profit Alert: %s", alert.Symbol)
	color := colorProfit
	if alert.AlertType == models.AlertTypeLoss {
		title = fmt.Sprintf("📉 Loss Alert: %s", alert.Symbol)
		color = colorLoss
	}

	ackLink := fmt.Sprintf("%s/alerts/acknowledge?token=%s", d.dashboardBaseURL, alert.AckToken)

	payload := discordPayload{
		Embeds: []discordEmbed{{
			Title:       title,
			Description: fmt.Sprintf("[Acknowledge this alert](%s)", ackLink),
			Color:       color,
			Fields: []discordField{
				{Name: "Current Price", Value: "₹" + alert.CurrentPrice.StringFixed(2), Inline: true},
				{Name: "Buy Price (ATP)", Value: "₹" + alert.BuyPrice.StringFixed(2), Inline: true},
				{Name: "Threshold", Value: "₹" + alert.ThresholdPrice.StringFixed(2), Inline: true},
				{Name: "Change", Value: alert.PercentageChange.StringFixed(2) + "%", Inline: true},
			},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
