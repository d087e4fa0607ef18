package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBodyLen = 512
)

// httpClient is shared plumbing for the JSON provider APIs
type httpClient struct {
	name    string
	baseURL string
	client  *http.Client
}

func newHTTPClient(name, baseURL string, timeout time.Duration) httpClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return httpClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// postJSON sends payload and decodes a 2xx response into out
func (c httpClient) postJSON(ctx context.Context, operation, path string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewProviderError(c.name, operation, 0, fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.NewProviderError(c.name, operation, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, operation, headers, out)
}

// getJSON fetches path with the query and decodes a 2xx response into out
func (c httpClient) getJSON(ctx context.Context, operation, path string, query url.Values, headers map[string]string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errs.NewProviderError(c.name, operation, 0, err)
	}
	return c.doJSON(req, operation, headers, out)
}

func (c httpClient) doJSON(req *http.Request, operation string, headers map[string]string, out any) error {
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	raw, err := c.do(req, operation)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewProviderError(c.name, operation, 0, fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

// do executes the request and returns the body of a 2xx response
func (c httpClient) do(req *http.Request, operation string) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.NewProviderError(c.name, operation, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewProviderError(c.name, operation, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.NewProviderError(c.name, operation, resp.StatusCode, fmt.Errorf("%s", truncate(raw)))
	}
	return raw, nil
}

func truncate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyLen {
		return text[:maxErrorBodyLen] + "..."
	}
	if text == "" {
		return "empty response body"
	}
	return text
}
