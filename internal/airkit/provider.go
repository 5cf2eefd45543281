package airkit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mohamedwael201193/air-gate-os/internal/platform/config"
)

// Provider owns the lazily constructed service handle. Construction is
// guarded by singleflight so concurrent first callers share one
// initialization instead of racing a bare module-level flag.
type Provider struct {
	cfg config.Server

	group singleflight.Group
	mu    sync.RWMutex
	svc   Service
}

// NewProvider creates a provider for the configured build environment.
// The service handle is not constructed until the first Service call.
func NewProvider(cfg config.Server) *Provider {
	return &Provider{cfg: cfg}
}

// Service returns the shared handle, creating it on first use. The mock
// capability is selected only by explicit configuration; a misconfigured
// sandbox/production environment is an error, never a silent mock.
func (p *Provider) Service(ctx context.Context) (Service, error) {
	p.mu.RLock()
	svc := p.svc
	p.mu.RUnlock()
	if svc != nil {
		return svc, nil
	}

	v, err, _ := p.group.Do("airkit-service", func() (any, error) {
		p.mu.RLock()
		existing := p.svc
		p.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		created, err := p.create()
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.svc = created
		p.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Service), nil
}

func (p *Provider) create() (Service, error) {
	if p.cfg.BuildEnv == config.BuildEnvMock {
		return NewMocked(p.cfg.PartnerID), nil
	}

	if p.cfg.AirAPIURL == "" {
		return nil, fmt.Errorf("AIR_API_URL is required for build env %q", p.cfg.BuildEnv)
	}
	if p.cfg.PartnerID == "" {
		return nil, fmt.Errorf("AIR_PARTNER_ID is required for build env %q", p.cfg.BuildEnv)
	}

	tokens := NewHTTPTokenSource(p.cfg.PartnerTokenURL, nil)
	return NewClient(ClientConfig{
		BaseURL:   p.cfg.AirAPIURL,
		PartnerID: p.cfg.PartnerID,
		Tokens:    tokens,
		Timeout:   p.cfg.RequestTimeout,
	}), nil
}
