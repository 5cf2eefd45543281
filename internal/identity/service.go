package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mohamedwael201193/air-gate-os/internal/airkit"
	"github.com/mohamedwael201193/air-gate-os/internal/audit"
	"github.com/mohamedwael201193/air-gate-os/internal/sentinel"
	pkgerrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
)

// AirProvider yields the shared AIR service handle, constructing it on first
// use. Satisfied by airkit.Provider.
type AirProvider interface {
	Service(ctx context.Context) (airkit.Service, error)
}

type Option func(*Service)

// Service runs the login/logout lifecycle against the AIR service and keeps
// the single active session.
type Service struct {
	air     AirProvider
	store   Store
	auditor *audit.Publisher
	metrics *Metrics
	logger  *slog.Logger
}

func NewService(air AirProvider, store Store, opts ...Option) *Service {
	svc := &Service{air: air, store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithAuditor sets the audit publisher for the service.
func WithAuditor(a *audit.Publisher) Option {
	return func(s *Service) { s.auditor = a }
}

// Login authenticates against the AIR service, normalizes the result into the
// canonical identity, and overwrites the persisted session. The userAgent is
// the caller's User-Agent header; it only feeds the device label.
func (s *Service) Login(ctx context.Context, userAgent string) (*Identity, error) {
	svc, err := s.air.Service(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeConfiguration, "air service is not available")
	}

	start := time.Now()
	result, err := svc.Login(ctx)
	if err != nil {
		s.incrementLogins("failure")
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeAuthentication, "air login failed")
	}
	s.observeLoginLatency(time.Since(start).Seconds())

	profile := result.Normalize()
	ident := &Identity{
		Subject:                profile.Subject,
		Email:                  profile.Email,
		Name:                   profile.Name,
		Wallet:                 profile.Wallet,
		AbstractAccountAddress: profile.AbstractAccountAddress,
		LinkedAccounts:         profile.LinkedAccounts,
		DeviceLabel:            ParseUserAgent(userAgent),
		LoggedInAt:             time.Now().UTC(),
	}

	if err := s.store.Save(ctx, ident); err != nil {
		s.incrementLogins("failure")
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "failed to persist session")
	}

	s.emitAudit(ctx, audit.Event{
		Subject: ident.Subject,
		Action:  audit.ActionLogin,
		Outcome: "success",
		Detail:  ident.DeviceLabel,
	})
	s.incrementLogins("success")
	s.logInfo(ctx, "login succeeded", "subject", ident.Subject, "device", ident.DeviceLabel)
	return ident, nil
}

// Logout clears the session in memory and on disk. Logging out without an
// active session is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	subject := ""
	if ident, err := s.store.Current(ctx); err == nil {
		subject = ident.Subject
	}

	if err := s.store.Clear(ctx); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.CodeStorage, "failed to clear session")
	}

	s.emitAudit(ctx, audit.Event{
		Subject: subject,
		Action:  audit.ActionLogout,
		Outcome: "success",
	})
	if s.metrics != nil {
		s.metrics.IncrementLogouts()
	}
	return nil
}

// Current returns the active identity. A missing or unreadable session reads
// as logged out; only the login flow surfaces storage problems.
func (s *Service) Current(ctx context.Context) (*Identity, error) {
	ident, err := s.store.Current(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNoIdentity) {
			s.logWarn(ctx, "session read failed, treating as logged out", "error", err)
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active identity")
	}
	return ident, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, event)
}

func (s *Service) incrementLogins(result string) {
	if s.metrics != nil {
		s.metrics.IncrementLogins(result)
	}
}

func (s *Service) observeLoginLatency(seconds float64) {
	if s.metrics != nil {
		s.metrics.ObserveLoginLatency(seconds)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}
