// Package ledger keeps the append-only logs of issued credentials and
// verification runs, and serves the aggregate read model the demo displays.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
)

// CredentialStatusActive is the only status issuance writes. Revocation and
// expiry transitions are out of scope for the demo.
const CredentialStatusActive = "active"

// Verification outcomes. Anything the AIR service does not report as
// verified maps to failed.
const (
	VerificationSuccess = "success"
	VerificationFailed  = "failed"
)

// CredentialRecord is one issued credential. Records are never mutated after
// append.
type CredentialRecord struct {
	ID       string             `json:"id"`
	Type     air.CredentialType `json:"type"`
	IssuedAt time.Time          `json:"issued_at"`
	Status   string             `json:"status"`
	Data     json.RawMessage    `json:"data,omitempty"`
}

// VerificationRecord is one verification run against a gate program. ProofID
// always carries a handle (the transaction hash when the service returned one,
// a synthesized tx_<ms> otherwise); TxHash and ExplorerURL are set only for
// runs with a real on-chain transaction.
type VerificationRecord struct {
	ID          string          `json:"id"`
	Type        air.VerifierKey `json:"type"`
	Status      string          `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	ProofID     string          `json:"proof_id"`
	TxHash      string          `json:"tx_hash,omitempty"`
	ExplorerURL string          `json:"explorer_url,omitempty"`
}

// Statistics is the aggregate read model over both logs.
type Statistics struct {
	TotalCredentials        int `json:"total_credentials"`
	ActiveCredentials       int `json:"active_credentials"`
	TotalVerifications      int `json:"total_verifications"`
	SuccessfulVerifications int `json:"successful_verifications"`
	// SuccessRate is a whole percentage rounded to the nearest integer,
	// 0 when no verifications have run.
	SuccessRate int `json:"success_rate"`
}
