// Package webhook posts mention notifications to a configured endpoint. The
// payload is deliberately small: enough for a chat integration to render a
// "you were mentioned on KEY-N" line.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/arju-vk/Bug-Tracker/internal/config"
)

type Client struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

func New(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		url:  cfg.MentionWebhookURL,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		log:  log,
	}
}

func (c *Client) NotifyMentions(ctx context.Context, ticketKey, author string, mentions []string) error {
	body, err := json.Marshal(map[string]any{
		"event":     "comment.mentions",
		"ticketKey": ticketKey,
		"author":    author,
		"mentions":  mentions,
		"at":        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	c.log.Debug().Str("ticket", ticketKey).Int("mentions", len(mentions)).Msg("mention webhook delivered")
	return nil
}
