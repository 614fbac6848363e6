// Package telegram is a minimal Bot API client: long-polling for channel
// posts and sending formatted replies. Only the handful of endpoints the
// bot needs are wrapped.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/reviewcheckk/dealbot/internal/models"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	// Server-side long poll window, seconds. The HTTP client timeout
	// must stay comfortably above it.
	pollWindow = 30
)

// Sender is the outbound capability the pipeline needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(token string) *Client {
	return NewWithBaseURL(token, defaultAPIBase)
}

// NewWithBaseURL exists for tests against a local fake API server.
func NewWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: (pollWindow + 15) * time.Second,
		},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

type update struct {
	UpdateID    int64    `json:"update_id"`
	Message     *message `json:"message"`
	ChannelPost *message `json:"channel_post"`
}

type message struct {
	MessageID int64       `json:"message_id"`
	Chat      chat        `json:"chat"`
	Text      string      `json:"text"`
	Caption   string      `json:"caption"`
	Photo     []photoSize `json:"photo"`
}

type chat struct {
	ID int64 `json:"id"`
}

type photoSize struct {
	FileID string `json:"file_id"`
}

// Poll long-polls getUpdates and feeds every message or channel post to
// handle. Transient API errors (including the 409 Conflict thrown while
// another getUpdates call is still open) back off exponentially instead of
// hot-looping. Poll returns only when ctx is done.
func (c *Client) Poll(ctx context.Context, handle func(models.RawMessage)) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0

	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := c.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := bo.NextBackOff()
			slog.Warn("getUpdates failed, backing off", "wait", wait, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		bo.Reset()

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if raw, ok := toRawMessage(u); ok {
				handle(raw)
			}
		}
	}
}

func toRawMessage(u update) (models.RawMessage, bool) {
	m := u.Message
	if m == nil {
		m = u.ChannelPost
	}
	if m == nil {
		return models.RawMessage{}, false
	}

	raw := models.RawMessage{
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Text:      m.Text,
	}
	if raw.Text == "" {
		raw.Text = m.Caption
	}
	if len(m.Photo) > 0 {
		// Last photo size is the largest.
		raw.PhotoFileID = m.Photo[len(m.Photo)-1].FileID
	}
	return raw, true
}

func (c *Client) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         pollWindow,
		"allowed_updates": []string{"message", "channel_post"},
	}

	var updates []update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage replies to a message in a chat. replyTo of 0 sends without a
// reply reference.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) error {
	payload := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"disable_web_page_preview": false,
	}
	if replyTo != 0 {
		payload["reply_to_message_id"] = replyTo
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer res.Body.Close()

	var apiRes apiResponse
	if err := json.NewDecoder(res.Body).Decode(&apiRes); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !apiRes.OK {
		return fmt.Errorf("%s returned API error %d: %s", method, apiRes.ErrorCode, apiRes.Description)
	}
	if result != nil {
		if err := json.Unmarshal(apiRes.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}
