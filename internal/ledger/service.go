package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	"github.com/mohamedwael201193/air-gate-os/internal/airkit"
	"github.com/mohamedwael201193/air-gate-os/internal/audit"
	"github.com/mohamedwael201193/air-gate-os/internal/identity"
	"github.com/mohamedwael201193/air-gate-os/internal/registry"
	pkgerrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
)

// AirProvider yields the shared AIR service handle. Satisfied by
// airkit.Provider.
type AirProvider interface {
	Service(ctx context.Context) (airkit.Service, error)
}

// IdentitySource reports the current session, if any. Satisfied by
// identity.Service.
type IdentitySource interface {
	Current(ctx context.Context) (*identity.Identity, error)
}

type Option func(*Service)

// Service orchestrates credential issuance and verification against the AIR
// service and appends the results to the local logs.
type Service struct {
	air        AirProvider
	registry   *registry.Registry
	store      Store
	identities IdentitySource

	subjectHost     string
	redirectURL     string
	issuerDID       string
	explorerBaseURL string

	auditor *audit.Publisher
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(air AirProvider, reg *registry.Registry, store Store, identities IdentitySource, opts ...Option) *Service {
	svc := &Service{
		air:         air,
		registry:    reg,
		store:       store,
		identities:  identities,
		subjectHost: "airgate.local",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithSubjectHost sets the host segment of synthesized did:web subject URIs.
func WithSubjectHost(host string) Option {
	return func(s *Service) {
		if host != "" {
			s.subjectHost = host
		}
	}
}

// WithRedirectURL sets the redirect URL handed to verification runs.
func WithRedirectURL(url string) Option {
	return func(s *Service) { s.redirectURL = url }
}

// WithIssuerDID sets the issuer DID override passed to issuance calls.
func WithIssuerDID(did string) Option {
	return func(s *Service) { s.issuerDID = did }
}

// WithExplorerBaseURL sets the block explorer base URL used to derive
// transaction links on verification records.
func WithExplorerBaseURL(url string) Option {
	return func(s *Service) { s.explorerBaseURL = url }
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

// WithClock overrides the time source. Tests use it for stable record ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// IssueCredential resolves the issuer program for the credential type, makes
// sure the subject carries a stable id URI, calls the AIR issuance operation,
// and appends the resulting record with status active.
func (s *Service) IssueCredential(ctx context.Context, credType air.CredentialType, subject air.Subject) (*CredentialRecord, error) {
	if !credType.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("unsupported credential type: %s", credType))
	}

	programID, err := s.registry.ResolveIssuerProgram(credType)
	if err != nil {
		return nil, err
	}

	if subject == nil {
		subject = air.Subject{}
	}
	if id, _ := subject["id"].(string); id == "" {
		subject["id"] = s.subjectURI(ctx)
	}

	svc, err := s.air.Service(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeConfiguration, "air service is not available")
	}

	start := s.now()
	result, err := svc.IssueCredential(ctx, airkit.IssueParams{
		CredentialID:      programID,
		IssuerDID:         s.issuerDID,
		CredentialSubject: subject,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeIssuance, fmt.Sprintf("failed to issue %s credential", credType))
	}
	s.observeAirCall("issue", start)

	now := s.now().UTC()
	record := CredentialRecord{
		ID:       result.ID,
		Type:     credType,
		IssuedAt: now,
		Status:   CredentialStatusActive,
		Data:     result.Raw,
	}
	if record.ID == "" {
		record.ID = fmt.Sprintf("cred_%d", now.UnixMilli())
	}

	if err := s.store.AppendCredential(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "failed to record issued credential")
	}

	s.emitAudit(ctx, audit.Event{
		Subject: subjectID(subject),
		Action:  audit.ActionCredentialIssued,
		Outcome: "success",
		Detail:  string(credType),
	})
	if s.metrics != nil {
		s.metrics.IncrementCredentialsIssued(string(credType))
	}
	s.logInfo(ctx, "credential issued", "type", credType, "id", record.ID)
	return &record, nil
}

// VerifyCredential resolves the gate program, runs the verification, and
// appends the outcome. A service failure aborts without a record; a completed
// run is always recorded, successful or not.
func (s *Service) VerifyCredential(ctx context.Context, key air.VerifierKey) (*VerificationRecord, error) {
	if !key.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("unsupported verifier gate: %s", key))
	}

	programID, err := s.registry.ResolveVerifierProgram(key)
	if err != nil {
		return nil, err
	}

	svc, err := s.air.Service(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeConfiguration, "air service is not available")
	}

	start := s.now()
	result, err := svc.VerifyCredential(ctx, airkit.VerifyParams{
		ProgramID:   programID,
		RedirectURL: s.redirectURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeVerification, fmt.Sprintf("failed to run %s verification", key))
	}
	s.observeAirCall("verify", start)

	now := s.now().UTC()
	txRef := result.TransactionRef()
	record := VerificationRecord{
		ID:        fmt.Sprintf("verify_%s", uuid.New().String()),
		Type:      key,
		Status:    result.Outcome(),
		Timestamp: now,
		ProofID:   txRef,
		TxHash:    txRef,
	}
	if record.ProofID == "" {
		record.ProofID = fmt.Sprintf("tx_%d", now.UnixMilli())
	}
	if record.TxHash != "" && s.explorerBaseURL != "" {
		record.ExplorerURL = fmt.Sprintf("%s/tx/%s", s.explorerBaseURL, record.TxHash)
	}

	if err := s.store.AppendVerification(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "failed to record verification")
	}

	s.emitAudit(ctx, audit.Event{
		Action:  audit.ActionVerificationCompleted,
		Outcome: record.Status,
		Detail:  string(key),
	})
	if s.metrics != nil {
		s.metrics.IncrementVerifications(string(key), record.Status)
	}
	s.logInfo(ctx, "verification completed", "gate", key, "status", record.Status)
	return &record, nil
}

// ListCredentials returns the credential log, oldest first.
func (s *Service) ListCredentials(ctx context.Context) ([]CredentialRecord, error) {
	records, err := s.store.ListCredentials(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "failed to read credentials")
	}
	return records, nil
}

// ListVerifications returns the verification log, oldest first.
func (s *Service) ListVerifications(ctx context.Context) ([]VerificationRecord, error) {
	records, err := s.store.ListVerifications(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeStorage, "failed to read verifications")
	}
	return records, nil
}

// Statistics aggregates both logs. The success rate is rounded to the nearest
// whole percent and reads 0 on an empty verification log.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	credentials, err := s.ListCredentials(ctx)
	if err != nil {
		return nil, err
	}
	verifications, err := s.ListVerifications(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		TotalCredentials:   len(credentials),
		TotalVerifications: len(verifications),
	}
	for _, c := range credentials {
		if c.Status == CredentialStatusActive {
			stats.ActiveCredentials++
		}
	}
	for _, v := range verifications {
		if v.Status == VerificationSuccess {
			stats.SuccessfulVerifications++
		}
	}
	if stats.TotalVerifications > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.SuccessfulVerifications) / float64(stats.TotalVerifications) * 100))
	}
	return stats, nil
}

// HasActiveCredential reports whether the log holds an active credential of
// the given type.
func (s *Service) HasActiveCredential(ctx context.Context, credType air.CredentialType) (bool, error) {
	records, err := s.ListCredentials(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.Type == credType && r.Status == CredentialStatusActive {
			return true, nil
		}
	}
	return false, nil
}

// subjectURI synthesizes the stable holder id for a credential subject from
// the current identity, or a fresh UUID when nobody is logged in.
func (s *Service) subjectURI(ctx context.Context) string {
	uid := ""
	if s.identities != nil {
		if ident, err := s.identities.Current(ctx); err == nil && ident.Subject != "" {
			uid = ident.Subject
		}
	}
	if uid == "" {
		uid = uuid.New().String()
	}
	return fmt.Sprintf("did:web:%s:user:%s", s.subjectHost, uid)
}

func subjectID(subject air.Subject) string {
	id, _ := subject["id"].(string)
	return id
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, event)
}

func (s *Service) observeAirCall(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveAirCallLatency(operation, s.now().Sub(start).Seconds())
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
