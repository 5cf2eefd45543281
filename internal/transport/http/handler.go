// Package httptransport is the thin HTTP layer over the demo services. It
// delegates to domain services without embedding business logic so transport
// concerns remain isolated.
package httptransport

import (
	"context"
	"log/slog"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	"github.com/mohamedwael201193/air-gate-os/internal/identity"
	"github.com/mohamedwael201193/air-gate-os/internal/ledger"
	"github.com/mohamedwael201193/air-gate-os/internal/scenario"
)

// Sessions is the identity surface the handlers need. Satisfied by
// identity.Service.
type Sessions interface {
	Login(ctx context.Context, userAgent string) (*identity.Identity, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*identity.Identity, error)
}

// Ledger is the credential surface the handlers need. Satisfied by
// ledger.Service.
type Ledger interface {
	IssueCredential(ctx context.Context, credType air.CredentialType, subject air.Subject) (*ledger.CredentialRecord, error)
	VerifyCredential(ctx context.Context, key air.VerifierKey) (*ledger.VerificationRecord, error)
	ListCredentials(ctx context.Context) ([]ledger.CredentialRecord, error)
	ListVerifications(ctx context.Context) ([]ledger.VerificationRecord, error)
	Statistics(ctx context.Context) (*ledger.Statistics, error)
}

// Scenarios is the orchestrator surface the handlers need. Satisfied by
// scenario.Service.
type Scenarios interface {
	Run(ctx context.Context, key scenario.Key, userAgent string, observer scenario.StepObserver) (*scenario.RunResult, error)
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	sessions  Sessions
	ledger    Ledger
	scenarios Scenarios
	logger    *slog.Logger
}

func NewHandler(sessions Sessions, credentials Ledger, scenarios Scenarios, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		ledger:    credentials,
		scenarios: scenarios,
		logger:    logger,
	}
}
