package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	"github.com/mohamedwael201193/air-gate-os/internal/audit"
	"github.com/mohamedwael201193/air-gate-os/internal/identity"
	"github.com/mohamedwael201193/air-gate-os/internal/ledger"
	pkgerrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
)

// Step is one phase of a scenario run. Transitions are forward-only; a retry
// starts a new run at StepAuthenticating.
type Step string

const (
	StepIdle           Step = "idle"
	StepAuthenticating Step = "authenticating"
	StepIssuing        Step = "issuing"
	StepVerifying      Step = "verifying"
	StepSuccess        Step = "success"
	StepError          Step = "error"
)

// StepObserver is notified on every step transition, before the step's work
// begins, so a caller can surface loading states immediately.
type StepObserver func(step Step)

// Sessions is the identity surface a run needs. Satisfied by identity.Service.
type Sessions interface {
	Current(ctx context.Context) (*identity.Identity, error)
	Login(ctx context.Context, userAgent string) (*identity.Identity, error)
}

// Ledger is the credential surface a run needs. Satisfied by ledger.Service.
type Ledger interface {
	IssueCredential(ctx context.Context, credType air.CredentialType, subject air.Subject) (*ledger.CredentialRecord, error)
	VerifyCredential(ctx context.Context, key air.VerifierKey) (*ledger.VerificationRecord, error)
	HasActiveCredential(ctx context.Context, credType air.CredentialType) (bool, error)
}

// GateResult is the outcome of one verification gate within a run.
type GateResult struct {
	Gate   air.VerifierKey `json:"gate"`
	Status string          `json:"status"`
	TxHash string          `json:"tx_hash,omitempty"`
}

// RunResult is the terminal state of a scenario run. Side effects committed
// before a failure (issued credentials, recorded verifications) are retained;
// there is no rollback.
type RunResult struct {
	Scenario  Key                       `json:"scenario"`
	Status    Step                      `json:"status"`
	Issued    []ledger.CredentialRecord `json:"issued"`
	Gates     []GateResult              `json:"gates"`
	Error     string                    `json:"error,omitempty"`
	ErrorCode string                    `json:"error_code,omitempty"`
}

type Option func(*Service)

// Service drives scenario runs through the fixed step sequence.
type Service struct {
	sessions Sessions
	ledger   Ledger
	auditor  *audit.Publisher
	metrics  *Metrics
	logger   *slog.Logger
}

func NewService(sessions Sessions, credentials Ledger, opts ...Option) *Service {
	svc := &Service{sessions: sessions, ledger: credentials}
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

// Run executes the named scenario: authenticate (logging in if no session is
// active), issue the credential types not already held active, then run the
// gates in declared order. It fails fast on the first step error; whatever
// was committed before the failure stays committed.
func (s *Service) Run(ctx context.Context, key Key, userAgent string, observer StepObserver) (*RunResult, error) {
	sc, ok := ByKey(key)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("unknown scenario: %s", key))
	}

	observe := func(step Step) {
		if observer != nil {
			observer(step)
		}
	}
	result := &RunResult{Scenario: key, Issued: []ledger.CredentialRecord{}, Gates: []GateResult{}}
	start := time.Now()

	observe(StepAuthenticating)
	if _, err := s.sessions.Current(ctx); err != nil {
		if _, err := s.sessions.Login(ctx, userAgent); err != nil {
			return s.finish(ctx, result, observe, start, err), nil
		}
	}

	observe(StepIssuing)
	for _, credType := range sc.Credentials {
		held, err := s.ledger.HasActiveCredential(ctx, credType)
		if err != nil {
			return s.finish(ctx, result, observe, start, err), nil
		}
		if held {
			continue
		}
		record, err := s.ledger.IssueCredential(ctx, credType, DefaultSubject(credType))
		if err != nil {
			return s.finish(ctx, result, observe, start, err), nil
		}
		result.Issued = append(result.Issued, *record)
	}

	observe(StepVerifying)
	allPassed := true
	for _, gate := range sc.Gates {
		record, err := s.ledger.VerifyCredential(ctx, gate)
		if err != nil {
			return s.finish(ctx, result, observe, start, err), nil
		}
		result.Gates = append(result.Gates, GateResult{
			Gate:   gate,
			Status: record.Status,
			TxHash: record.TxHash,
		})
		if record.Status != ledger.VerificationSuccess {
			allPassed = false
		}
	}

	if !allPassed {
		return s.finish(ctx, result, observe, start,
			pkgerrors.New(pkgerrors.CodeVerification, "one or more gates did not verify")), nil
	}

	result.Status = StepSuccess
	observe(StepSuccess)
	s.record(ctx, result, start)
	return result, nil
}

// finish marks the run failed, preserving everything committed so far.
func (s *Service) finish(ctx context.Context, result *RunResult, observe func(Step), start time.Time, err error) *RunResult {
	result.Status = StepError
	result.Error = err.Error()
	var derr *pkgerrors.Error
	if errors.As(err, &derr) {
		result.ErrorCode = string(derr.Code)
	}
	observe(StepError)
	s.record(ctx, result, start)
	return result
}

func (s *Service) record(ctx context.Context, result *RunResult, start time.Time) {
	if s.auditor != nil {
		_ = s.auditor.Emit(ctx, audit.Event{
			Action:  audit.ActionScenarioRun,
			Outcome: string(result.Status),
			Detail:  string(result.Scenario),
		})
	}
	if s.metrics != nil {
		s.metrics.IncrementRuns(string(result.Scenario), string(result.Status))
		s.metrics.ObserveRunDuration(string(result.Scenario), time.Since(start).Seconds())
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "scenario run finished",
			"scenario", result.Scenario,
			"status", result.Status,
			"issued", len(result.Issued),
			"gates", len(result.Gates),
		)
	}
}
