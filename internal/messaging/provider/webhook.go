package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	apperrors "kasir/internal/errors"
)

const maxResponseBytes = 64 << 10

// WebhookProvider posts each message as JSON to a tenant supplied URL.
//
// Config keys: "url" (required), "token" (sent as a bearer token) and
// "healthUrl" (probed by TestConnection, defaults to "url").
type WebhookProvider struct {
	client    *http.Client
	url       string
	healthURL string
	token     string
}

type webhookPayload struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

func NewWebhookProvider(client *http.Client, config map[string]string) (*WebhookProvider, error) {
	target := config["url"]
	if err := validateURL(target); err != nil {
		return nil, apperrors.NewValidationError("invalid webhook configuration", apperrors.ValidationDetail{
			Field: "config.url", Message: err.Error(),
		})
	}
	health := config["healthUrl"]
	if health == "" {
		health = target
	} else if err := validateURL(health); err != nil {
		return nil, apperrors.NewValidationError("invalid webhook configuration", apperrors.ValidationDetail{
			Field: "config.healthUrl", Message: err.Error(),
		})
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &WebhookProvider{client: client, url: target, healthURL: health, token: config["token"]}, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL")
	}
	return nil
}

func (p *WebhookProvider) Name() string {
	return TypeWebhook
}

func (p *WebhookProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	body, err := json.Marshal(webhookPayload{Recipient: recipient, Message: message})
	if err != nil {
		return "", fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return string(raw), fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return string(raw), nil
}

// TestConnection succeeds when the health endpoint answers without a server error.
func (p *WebhookProvider) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.healthURL, nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling webhook health endpoint: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("webhook health endpoint responded with status %d", resp.StatusCode)
	}
	return nil
}
