// Package webhook delivers finished cards to a messaging channel webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/services/card"
)

// DefaultTimeout bounds one delivery request.
const DefaultTimeout = 30 * time.Second

// Client implements card.DeliveryClient by posting a multipart form.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// Config holds the webhook client configuration.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// deliveryResponse accepts either "id" or "deliveryId" from the channel.
type deliveryResponse struct {
	ID         string `json:"id"`
	DeliveryID string `json:"deliveryId"`
	Error      string `json:"error,omitempty"`
}

// NewClient creates a new webhook delivery client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		url:        strings.TrimSuffix(cfg.URL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Send posts the card and returns the channel's delivery ID.
func (c *Client) Send(ctx context.Context, delivery *card.Delivery) (string, error) {
	if delivery == nil {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("delivery is required"))
	}

	body, contentType, err := encodeDelivery(delivery)
	if err != nil {
		return "", domainerrors.NewDeliveryError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var parsed deliveryResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("failed to parse response: %w", err))
	}

	id := parsed.DeliveryID
	if id == "" {
		id = parsed.ID
	}
	if id == "" {
		return "", domainerrors.NewDeliveryError(fmt.Errorf("response has no delivery id"))
	}
	return id, nil
}

func encodeDelivery(d *card.Delivery) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"recipient", d.RecipientName},
		{"reason", d.Reason},
		{"text", d.Text},
		{"sender", d.SenderName},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="card.png"`)
	header.Set("Content-Type", http.DetectContentType(d.Image))
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(d.Image); err != nil {
		return nil, "", fmt.Errorf("failed to write image: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}
