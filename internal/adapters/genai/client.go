// Package genai calls Google's Generative Language generateContent endpoint.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
)

// errorBodyLimit caps how much of a failed response body is kept for logs.
const errorBodyLimit = 512

// Client sends a single-turn prompt and returns the first candidate's text.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	logger     logger.Logger
}

// New constructs a Client. An empty apiKey yields a client whose Generate
// always fails with ErrNotConfigured.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		apiKey:     apiKey,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate posts prompt to the model and returns candidates[0].content.parts[0].text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "genai.generate"
	if !c.Configured() {
		return "", fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordProviderCall(metrics.OutcomeFailure, elapsedMs)
		c.logger.Warn(ctx, "provider call failed", logger.String("model", c.model), logger.Error(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordProviderCall(metrics.OutcomeSuccess, elapsedMs)
	c.logger.Debug(ctx, "provider call succeeded",
		logger.String("model", c.model),
		logger.Float64("elapsed_ms", elapsedMs),
	)
	return text, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, key included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return "", fmt.Errorf("%s %s: %w", uerr.Op, c.baseURL, uerr.Err)
		}
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", fmt.Errorf("%w: %d: %s", ErrUpstreamStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCandidate
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyCandidate
	}
	return text, nil
}

// endpoint builds {base}/v1beta/models/{model}:generateContent?key={apiKey}.
func (c *Client) endpoint() string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return c.baseURL + "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent?" + q.Encode()
}
