// Package huggingface is a small client for the Hugging Face Inference API,
// shared by the zero-shot classifier and the summarizer adapters.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api-inference.huggingface.co"
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerSecond keeps free-tier tokens under the API quota.
	DefaultRequestsPerSecond = 2

	maxLoadingRetries = 3
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the Inference API URL (default: https://api-inference.huggingface.co).
	BaseURL string

	// Token is the API token (HF_API_TOKEN). Anonymous calls are heavily throttled.
	Token string

	// RequestsPerSecond bounds outbound request rate (default: 2).
	RequestsPerSecond float64

	// Timeout is the per-request timeout (default: 120s).
	Timeout time.Duration
}

// Client posts JSON payloads to hosted models.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
}

// NewClient creates a client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// apiError is the Inference API error body.
type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Infer posts payload to model and decodes the response into out.
// A 503 "model is loading" reply is retried after the advertised delay.
func (c *Client) Infer(ctx context.Context, model string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		status, respBody, err := c.post(ctx, model, body)
		if err != nil {
			return err
		}

		switch {
		case status == http.StatusOK:
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		case status == http.StatusTooManyRequests:
			return fmt.Errorf("huggingface: %w", domain.ErrRateLimited)
		case status == http.StatusServiceUnavailable && attempt < maxLoadingRetries:
			var apiErr apiError
			_ = json.Unmarshal(respBody, &apiErr)
			wait := time.Duration(apiErr.EstimatedTime * float64(time.Second))
			if wait <= 0 || wait > 30*time.Second {
				wait = 5 * time.Second
			}
			logger.Warn("huggingface: %s loading, retrying in %s", model, wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		default:
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
				return fmt.Errorf("huggingface error (status %d): %s", status, apiErr.Error)
			}
			return fmt.Errorf("huggingface error (status %d): %s", status, string(respBody))
		}
	}
}

func (c *Client) post(ctx context.Context, model string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
