// Package ocrspace implementa el cliente del proveedor OCR (ocr.space
// o un endpoint compatible).
package ocrspace

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"medtrack/internal/platform/httpclient"
)

type Client struct {
	http   *httpclient.Client
	apiKey string
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("ocrspace: %w", err)
	}
	return &Client{http: hc, apiKey: cfg.APIKey}, nil
}

type ocrResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool     `json:"IsErroredOnProcessing"`
	ErrorMessage          []string `json:"ErrorMessage"`
}

// ExtractText manda la imagen en base64 y concatena el texto de todos
// los ParsedResults. El upstream solo acepta form-encoded.
func (c *Client) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	if !strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = "data:image/jpeg;base64," + imageBase64
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("base64Image", imageBase64)
	form.Set("OCREngine", "2")

	var resp ocrResponse
	if err := c.http.DoForm(ctx, "/parse/image", nil, form, &resp); err != nil {
		return "", fmt.Errorf("ocrspace: %w", err)
	}

	if resp.IsErroredOnProcessing {
		return "", fmt.Errorf("ocrspace: processing error: %s", strings.Join(resp.ErrorMessage, "; "))
	}

	var parts []string
	for _, r := range resp.ParsedResults {
		if t := strings.TrimSpace(r.ParsedText); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n"), nil
}
