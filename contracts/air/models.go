// Package air hosts the stable, minimal types shared across services for the
// AIR credential demo. Keep these PII-light and versioned independently from
// any internal persistence models.
package air

// ContractVersion identifies the contract schema version for compatibility checks.
// Bump on breaking changes to the shapes below; consumers can pin or roll forward.
const ContractVersion = "v0.1.0"

// CredentialType identifies the kind of credential an issuer program mints.
type CredentialType string

const (
	CredentialTypeKYCBasic    CredentialType = "KYC_BASIC"
	CredentialTypeWorkHistory CredentialType = "WORK_HISTORY"
	CredentialTypeFanBadge    CredentialType = "FAN_BADGE"
)

// CredentialTypes lists every supported issuer credential type.
var CredentialTypes = []CredentialType{
	CredentialTypeKYCBasic,
	CredentialTypeWorkHistory,
	CredentialTypeFanBadge,
}

// Valid reports whether the type is one of the supported issuer types.
func (t CredentialType) Valid() bool {
	switch t {
	case CredentialTypeKYCBasic, CredentialTypeWorkHistory, CredentialTypeFanBadge:
		return true
	}
	return false
}

// VerifierKey identifies a configured gate program on the verifier side.
type VerifierKey string

const (
	VerifierDeFiJobGateKYC  VerifierKey = "DEFI_JOB_GATE_KYC"
	VerifierDeFiJobGateWork VerifierKey = "DEFI_JOB_GATE_WORK"
	VerifierFanVIPGate      VerifierKey = "FAN_VIP_GATE"
	VerifierTraderTierGate  VerifierKey = "TRADER_TIER_GATE"
)

// Valid reports whether the key is one of the supported verifier gates.
func (k VerifierKey) Valid() bool {
	switch k {
	case VerifierDeFiJobGateKYC, VerifierDeFiJobGateWork, VerifierFanVIPGate, VerifierTraderTierGate:
		return true
	}
	return false
}

// ProgramID is the opaque external program identifier the AIR service expects.
type ProgramID string

// Subject is the credential subject payload sent to the issuance endpoint.
// It must carry a stable "id" URI identifying the holder.
type Subject map[string]any
