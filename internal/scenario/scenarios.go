// Package scenario runs the end-to-end demo flows: log in, issue whatever
// credentials the flow needs, then run its verification gates in order.
package scenario

import "github.com/mohamedwael201193/air-gate-os/contracts/air"

// Key names a runnable scenario.
type Key string

const (
	KeyDeFiJob    Key = "defi_job"
	KeyFanVIP     Key = "fan_vip"
	KeyTraderTier Key = "trader_tier"
)

// Scenario declares what a flow needs: the credential types it issues and the
// gates it verifies, in order.
type Scenario struct {
	Key         Key                  `json:"key"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Credentials []air.CredentialType `json:"credentials"`
	Gates       []air.VerifierKey    `json:"gates"`
}

var scenarios = []Scenario{
	{
		Key:         KeyDeFiJob,
		Title:       "DeFi Job Application",
		Description: "Prove KYC and work history to apply for a DeFi job without exposing documents.",
		Credentials: []air.CredentialType{air.CredentialTypeKYCBasic, air.CredentialTypeWorkHistory},
		Gates:       []air.VerifierKey{air.VerifierDeFiJobGateKYC, air.VerifierDeFiJobGateWork},
	},
	{
		Key:         KeyFanVIP,
		Title:       "Fan VIP Access",
		Description: "Prove event attendance to unlock VIP fan perks.",
		Credentials: []air.CredentialType{air.CredentialTypeFanBadge},
		Gates:       []air.VerifierKey{air.VerifierFanVIPGate},
	},
	{
		Key:         KeyTraderTier,
		Title:       "Trader Tier Upgrade",
		Description: "Prove basic KYC to unlock a higher trading tier.",
		Credentials: []air.CredentialType{air.CredentialTypeKYCBasic},
		Gates:       []air.VerifierKey{air.VerifierTraderTierGate},
	},
}

// All returns every scenario in display order.
func All() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// ByKey looks up a scenario definition.
func ByKey(key Key) (Scenario, bool) {
	for _, sc := range scenarios {
		if sc.Key == key {
			return sc, true
		}
	}
	return Scenario{}, false
}

// DefaultSubject is the demo payload issued for each credential type.
func DefaultSubject(credType air.CredentialType) air.Subject {
	switch credType {
	case air.CredentialTypeKYCBasic:
		return air.Subject{"isVerified": true, "jurisdiction": "GB", "level": "BASIC"}
	case air.CredentialTypeWorkHistory:
		return air.Subject{"employer": "Demo Ltd", "role": "Engineer", "yearsExperience": 3}
	case air.CredentialTypeFanBadge:
		return air.Subject{"eventName": "MocaFest", "tier": "VIP", "attended": true}
	}
	return air.Subject{}
}
