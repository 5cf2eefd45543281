package airkit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TokenScope selects which partner capability a token authorizes.
type TokenScope string

const (
	ScopeLogin  TokenScope = "login"
	ScopeIssue  TokenScope = "issue"
	ScopeVerify TokenScope = "verify"
)

// TokenSource obtains scoped partner tokens for AIR service calls.
type TokenSource interface {
	PartnerToken(ctx context.Context, scope TokenScope) (string, error)
}

// HTTPTokenSource fetches partner tokens from the configured backend:
// POST <url>?scope=<scope>, bearer token returned as plain text.
// Failures propagate; there is no placeholder token fallback.
type HTTPTokenSource struct {
	url    string
	client HTTPDoer
}

// NewHTTPTokenSource creates a token source against the partner backend URL.
func NewHTTPTokenSource(url string, client HTTPDoer) *HTTPTokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTokenSource{url: url, client: client}
}

func (s *HTTPTokenSource) PartnerToken(ctx context.Context, scope TokenScope) (string, error) {
	if s.url == "" {
		return "", fmt.Errorf("partner token url not configured")
	}

	url := fmt.Sprintf("%s?scope=%s", s.url, scope)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("build partner-token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("partner-token %s failed: %w", scope, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("read partner-token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("partner-token %s failed: status %d", scope, resp.StatusCode)
	}

	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("partner-token %s returned an empty token", scope)
	}
	return token, nil
}
