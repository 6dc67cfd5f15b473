// Package pushover implementa el substrato de notificaciones sobre el
// API de mensajes de Pushover.
package pushover

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"medtrack/internal/platform/httpclient"
)

type Client struct {
	http  *httpclient.Client
	token string
}

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("pushover: %w", err)
	}
	return &Client{http: hc, token: cfg.Token}, nil
}

type messageResponse struct {
	Status int      `json:"status"`
	Errors []string `json:"errors"`
}

// Notify manda un mensaje al user key indicado. Pushover devuelve 200
// con status != 1 cuando rechaza el mensaje, así que revisamos ambos.
func (c *Client) Notify(ctx context.Context, recipient, title, message string) error {
	form := url.Values{}
	form.Set("token", c.token)
	form.Set("user", recipient)
	form.Set("title", title)
	form.Set("message", message)

	var resp messageResponse
	if err := c.http.DoForm(ctx, "/1/messages.json", nil, form, &resp); err != nil {
		return fmt.Errorf("pushover: %w", err)
	}
	if resp.Status != 1 {
		return fmt.Errorf("pushover: rejected: %v", resp.Errors)
	}
	return nil
}
