// Package airkit is the client boundary to the hosted AIR identity service.
// DID resolution, credential schemas, and proof verification all live on the
// service side; this package only shapes requests, classifies failures, and
// normalizes the service's historically inconsistent response shapes.
package airkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Service is the minimal surface the gateway needs from the AIR SDK.
type Service interface {
	Login(ctx context.Context) (*LoginResult, error)
	IssueCredential(ctx context.Context, p IssueParams) (*IssueResult, error)
	VerifyCredential(ctx context.Context, p VerifyParams) (*VerifyResult, error)
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures the HTTP client for the hosted service.
type ClientConfig struct {
	BaseURL    string
	PartnerID  string
	Tokens     TokenSource
	HTTPClient HTTPDoer
	Timeout    time.Duration
}

// Client talks JSON over HTTP to the hosted AIR sandbox/production API.
type Client struct {
	baseURL   string
	partnerID string
	tokens    TokenSource
	client    HTTPDoer
	tracer    trace.Tracer
}

// NewClient creates an AIR service client.
func NewClient(cfg ClientConfig) *Client {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		partnerID: cfg.PartnerID,
		tokens:    cfg.Tokens,
		client:    client,
		tracer:    otel.Tracer("airgate/airkit"),
	}
}

// Login runs the service's login operation for the configured partner.
func (c *Client) Login(ctx context.Context) (*LoginResult, error) {
	ctx, span := c.tracer.Start(ctx, "airkit.Login",
		trace.WithAttributes(attribute.String("air.partner_id", c.partnerID)))
	defer span.End()

	token, err := c.tokens.PartnerToken(ctx, ScopeLogin)
	if err != nil {
		return nil, spanErr(span, err)
	}

	var result LoginResult
	body := map[string]string{"partnerId": c.partnerID, "authToken": token}
	if _, err := c.post(ctx, "/v1/login", body, &result); err != nil {
		return nil, spanErr(span, fmt.Errorf("air login failed: %w", err))
	}
	return &result, nil
}

// IssueCredential requests issuance against an issuer program. The partner
// token is fetched here so callers never handle raw bearer tokens.
func (c *Client) IssueCredential(ctx context.Context, p IssueParams) (*IssueResult, error) {
	ctx, span := c.tracer.Start(ctx, "airkit.IssueCredential",
		trace.WithAttributes(attribute.String("air.program_id", string(p.CredentialID))))
	defer span.End()

	token, err := c.tokens.PartnerToken(ctx, ScopeIssue)
	if err != nil {
		return nil, spanErr(span, err)
	}
	p.AuthToken = token

	var result IssueResult
	raw, err := c.post(ctx, "/v1/credentials/issue", p, &result)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("air issuance failed: %w", err))
	}
	result.Raw = raw
	return &result, nil
}

// VerifyCredential runs a gate program and returns the raw outcome.
func (c *Client) VerifyCredential(ctx context.Context, p VerifyParams) (*VerifyResult, error) {
	ctx, span := c.tracer.Start(ctx, "airkit.VerifyCredential",
		trace.WithAttributes(attribute.String("air.program_id", string(p.ProgramID))))
	defer span.End()

	token, err := c.tokens.PartnerToken(ctx, ScopeVerify)
	if err != nil {
		return nil, spanErr(span, err)
	}
	p.AuthToken = token

	var result VerifyResult
	if _, err := c.post(ctx, "/v1/credentials/verify", p, &result); err != nil {
		return nil, spanErr(span, fmt.Errorf("air verification failed: %w", err))
	}
	return &result, nil
}

// post sends a JSON request and decodes the JSON response into out.
// It returns the raw response body so callers can retain opaque payloads.
func (c *Client) post(ctx context.Context, path string, body, out any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(raw))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return raw, nil
}

func truncateBody(raw []byte) string {
	const max = 256
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max])
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
