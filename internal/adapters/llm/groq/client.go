// Package groq implementa el proveedor LLM primario sobre el endpoint
// chat-completions estilo OpenAI de Groq.
package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"medtrack/internal/domain/extraction"

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
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete manda prompt como mensaje de sistema y content como mensaje
// de usuario. Un 429 o un timeout se reportan como ErrRateLimited para
// que el pipeline los reintente; cualquier otro fallo corta al fallback.
func (c *Client) Complete(ctx context.Context, prompt, content string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: content},
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/chat/completions")
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("groq: timeout: %w", extraction.ErrRateLimited)
		}
		return "", fmt.Errorf("groq request: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", fmt.Errorf("groq: status 429: %w", extraction.ErrRateLimited)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("groq status %d: %s", resp.StatusCode(), resp.String())
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		return "", fmt.Errorf("groq: decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("groq: empty choices")
	}
	return cr.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
