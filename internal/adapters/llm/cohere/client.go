// Package cohere implementa el proveedor LLM de fallback.
package cohere

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	client *resty.Client
	model  string
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	c := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout)

	return &Client{client: c, model: cfg.Model}
}

type chatRequest struct {
	Model   string `json:"model"`
	Message string `json:"message"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Complete manda todo como un único mensaje: el API de chat de Cohere
// no separa system de user, así que prompt y content van aplanados.
// Acá no hay retry; el pipeline lo llama una sola vez.
func (c *Client) Complete(ctx context.Context, prompt, content string) (string, error) {
	message := prompt
	if strings.TrimSpace(content) != "" {
		message = prompt + "\n\n" + content
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&chatRequest{Model: c.model, Message: message}).
		Post("/v1/chat")
	if err != nil {
		return "", fmt.Errorf("cohere request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("cohere status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("cohere: decode response: %w", err)
	}
	return cr.Text, nil
}
