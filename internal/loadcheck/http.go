package loadcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/bfhl/pkg/logger"
)

// headerRequestID ties a case to the server's logs.
const headerRequestID = "X-Request-ID"

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body and request ID.
func (c *HTTPClient) Post(ctx context.Context, url, requestID string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, requestID)
	return c.client.Do(req)
}

// submitCases sends cases concurrently and checks each response.
func submitCases(ctx context.Context, config *Config, cases []Case, stats *Stats) []Failure {
	log := logger.Get()
	log.Info(ctx, "submitting cases", logger.Int("count", len(cases)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/bfhl"

	var (
		submitted int64
		passed    int64
		mu        sync.Mutex
		failures  []Failure
	)

	caseChan := make(chan Case, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range caseChan {
				if ctx.Err() != nil {
					continue
				}
				failure := submitSingleCase(ctx, client, url, c)
				atomic.AddInt64(&submitted, 1)
				if failure == nil {
					atomic.AddInt64(&passed, 1)
					continue
				}
				if config.Verbose {
					log.Warn(ctx, "case failed",
						logger.String("id", c.ID),
						logger.String("kind", c.Kind),
						logger.String("reason", failure.Reason),
					)
				}
				mu.Lock()
				failures = append(failures, *failure)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(caseChan)
		for _, c := range cases {
			select {
			case <-ctx.Done():
				return
			case caseChan <- c:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Passed = int(atomic.LoadInt64(&passed))
	stats.Failed = len(failures)

	log.Info(ctx, "submission completed",
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
	)
	return failures
}

// submitSingleCase returns nil when the response matches the case.
func submitSingleCase(ctx context.Context, client *HTTPClient, url string, c Case) *Failure {
	resp, err := client.Post(ctx, url, c.ID, c.Body)
	if err != nil {
		return &Failure{Case: c, Reason: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Failure{Case: c, Status: resp.StatusCode, Reason: err.Error()}
	}
	if err := verifyResponse(c, resp.StatusCode, body); err != nil {
		return &Failure{Case: c, Status: resp.StatusCode, Body: string(body), Reason: err.Error()}
	}
	return nil
}
