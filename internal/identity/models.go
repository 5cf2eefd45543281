// Package identity owns the single active session with the AIR service: who
// is logged in, normalized from whatever shape the service returned, and
// persisted so a restart keeps the session.
package identity

import (
	"time"

	"github.com/mohamedwael201193/air-gate-os/internal/airkit"
)

// Identity is the canonical logged-in user. There is at most one per process;
// a successful login overwrites the previous record in full.
type Identity struct {
	Subject                string                 `json:"subject"`
	Email                  string                 `json:"email,omitempty"`
	Name                   string                 `json:"name"`
	Wallet                 string                 `json:"wallet,omitempty"`
	AbstractAccountAddress string                 `json:"abstract_account_address,omitempty"`
	LinkedAccounts         []airkit.LinkedAccount `json:"linked_accounts,omitempty"`
	DeviceLabel            string                 `json:"device_label,omitempty"`
	LoggedInAt             time.Time              `json:"logged_in_at"`
}
