package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/reoring/esguard/internal/config"
)

var (
	// ErrBackend wraps every failure reported by the forwarding backend. The
	// backend's error is carried as text only.
	ErrBackend = errors.New("backend request failed")
	// ErrGatewayDisabled is returned by Forward when no forwarder is set.
	ErrGatewayDisabled = errors.New("gateway forwarding is not configured")
	// ErrInvalidTarget rejects an empty forward target or one that climbs
	// out of the backend base path.
	ErrInvalidTarget = errors.New("invalid forward target")
)

// CleanTarget trims slashes from target and rejects ".." segments.
func CleanTarget(target string) (string, error) {
	t := strings.Trim(target, "/")
	if t == "" || slices.Contains(strings.Split(t, "/"), "..") {
		return "", fmt.Errorf("%w %q", ErrInvalidTarget, target)
	}
	return t, nil
}

// Forwarder delivers a canonical document to target, a path relative to the
// backend, and returns the response body.
type Forwarder interface {
	Forward(ctx context.Context, target string, doc []byte) ([]byte, error)
}

// maxResponseBytes bounds the backend response read into memory.
const maxResponseBytes = 32 << 20

// HTTPForwarder posts documents to {base}/{target}.
type HTTPForwarder struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPForwarder builds a forwarder from the gateway section.
func NewHTTPForwarder(cfg config.GatewayConfig) (*HTTPForwarder, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway base url %q: scheme and host required", cfg.BaseURL)
	}
	return &HTTPForwarder{base: u, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

// Forward implements Forwarder.
func (f *HTTPForwarder) Forward(ctx context.Context, target string, doc []byte) ([]byte, error) {
	target, err := CleanTarget(target)
	if err != nil {
		return nil, err
	}
	endpoint := f.base.JoinPath(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrBackend, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d: %s", ErrBackend, resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(b []byte) string {
	const n = 256
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
