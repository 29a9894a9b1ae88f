package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/pfrederiksen/bwf-poster/internal/logger"
	"github.com/pfrederiksen/bwf-poster/internal/metrics"
	"github.com/pfrederiksen/bwf-poster/internal/notifier"
)

var apiBaseURL = "https://api.telegram.org/bot"

const (
	textTimeout  = 20 * time.Second
	photoTimeout = 60 * time.Second

	// maxResponse bounds how much of a response body is kept
	maxResponse = 64 << 10
)

// Client represents a Telegram Bot API client
type Client struct {
	botToken   string
	chatID     string
	httpClient *http.Client
}

var _ notifier.Notifier = (*Client)(nil)

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string) (*Client, error) {
	c := &Client{
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{},
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) validate() error {
	if c.botToken == "" {
		return &ConfigurationError{Field: "bot token"}
	}
	if c.chatID == "" {
		return &ConfigurationError{Field: "chat ID"}
	}
	return nil
}

// SendText sends a plain text message to the configured chat
func (c *Client) SendText(ctx context.Context, text string) (*notifier.Delivery, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, textTimeout)
	defer cancel()

	return c.post(ctx, "sendMessage", "application/json", bytes.NewReader(jsonData), "text")
}

// SendPhoto uploads a PNG image with a caption to the configured chat
func (c *Client) SendPhoto(ctx context.Context, png []byte, caption string) (*notifier.Delivery, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("photo is required")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("chat_id", c.chatID); err != nil {
		return nil, fmt.Errorf("writing chat_id: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return nil, fmt.Errorf("writing caption: %w", err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="poster.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("creating photo part: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return nil, fmt.Errorf("writing photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, photoTimeout)
	defer cancel()

	return c.post(ctx, "sendPhoto", w.FormDataContentType(), &body, "photo")
}

// post performs one Bot API call. A non-2xx status returns both the Delivery carrying the raw
// body and an *APIError.
func (c *Client) post(ctx context.Context, method, contentType string, body io.Reader, kind string) (*notifier.Delivery, error) {
	endpoint := fmt.Sprintf("%s%s/%s", apiBaseURL, c.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	logger.RecordTiming("telegram."+method, time.Since(start))
	if err != nil {
		metrics.ObserveDelivery(kind, false)
		// The URL carries the token; report the method only
		return nil, fmt.Errorf("sending %s request: %w", method, unwrapURLError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		metrics.ObserveDelivery(kind, false)
		return nil, fmt.Errorf("reading response: %w", err)
	}

	delivery := &notifier.Delivery{
		Success:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode:  resp.StatusCode,
		RawResponse: string(raw),
	}
	metrics.ObserveDelivery(kind, delivery.Success)

	if !delivery.Success {
		var result struct {
			Description string `json:"description"`
		}
		_ = json.Unmarshal(raw, &result)

		logger.Warn("Telegram delivery failed", logger.Fields{
			"method": method,
			"status": resp.StatusCode,
		})
		return delivery, &APIError{
			Method:      method,
			StatusCode:  resp.StatusCode,
			Description: result.Description,
			Body:        string(raw),
		}
	}

	logger.Info("Telegram delivery succeeded", logger.Fields{"method": method})
	return delivery, nil
}

// unwrapURLError drops the *url.Error wrapper, whose message includes the token-bearing URL
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
