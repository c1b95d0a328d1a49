package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/logger"
)

// Channel delivers a rendered notification to one outbound destination.
type Channel interface {
	Name() string
	Notify(ctx context.Context, title, message string) error
}

// LogChannel writes notifications to the structured log. It stands in for
// the desktop popup when no other channel is configured.
type LogChannel struct {
	log *logger.Logger
}

// NewLogChannel constructs the log-backed channel.
func NewLogChannel(log *logger.Logger) *LogChannel {
	return &LogChannel{log: log}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Notify(ctx context.Context, title, message string) error {
	entry := c.log.WithFields(ctx, map[string]any{
		"channel": c.Name(),
		"title":   title,
	})
	c.log.Info(entry, message)
	return nil
}

// WebhookChannel posts notifications as JSON to a chat webhook. The payload
// shape follows the Discord/Slack convention of a single content field.
type WebhookChannel struct {
	client *http.Client
	url    string
}

// NewWebhookChannel constructs a webhook channel for the given URL.
func NewWebhookChannel(url string, timeout time.Duration) (*WebhookChannel, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookChannel{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}, nil
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Notify(ctx context.Context, title, message string) error {
	payload, err := json.Marshal(map[string]string{
		"content": fmt.Sprintf("**%s**\n%s", title, message),
	})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}
