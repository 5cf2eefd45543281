package airkit

import (
	"encoding/json"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
)

// The hosted AIR service has shipped several response shapes over time. The
// structs below are the union of every shape this gateway accepts; each field
// set is a documented contract with the service. Normalization into canonical
// records happens in one place (normalize.go) instead of ad hoc fallbacks at
// call sites.

// LinkedAccount is one entry of the login result's linked-accounts list.
type LinkedAccount struct {
	Type         string `json:"type"`
	Address      string `json:"address,omitempty"`
	Email        string `json:"email,omitempty"`
	CustomUserID string `json:"customUserId,omitempty"`
}

// LoginUser is the nested user object some service versions return.
type LoginUser struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
}

// LoginResult is the raw, heterogeneous login response.
//
// Accepted shapes:
//   - current: {id, email, linkedAccounts, abstractAccountAddress}
//   - legacy:  {did | userDid, name | given_name | family_name, wallet}
//   - nested:  {user: {id, email, name, given_name}}
type LoginResult struct {
	ID                     string          `json:"id,omitempty"`
	DID                    string          `json:"did,omitempty"`
	UserDID                string          `json:"userDid,omitempty"`
	Email                  string          `json:"email,omitempty"`
	Name                   string          `json:"name,omitempty"`
	GivenName              string          `json:"given_name,omitempty"`
	FamilyName             string          `json:"family_name,omitempty"`
	AbstractAccountAddress string          `json:"abstractAccountAddress,omitempty"`
	Wallet                 *LinkedAccount  `json:"wallet,omitempty"`
	LinkedAccounts         []LinkedAccount `json:"linkedAccounts,omitempty"`
	User                   *LoginUser      `json:"user,omitempty"`
}

// IssueParams are the arguments for the credential issuance operation.
type IssueParams struct {
	AuthToken         string        `json:"authToken"`
	CredentialID      air.ProgramID `json:"credentialId"`
	IssuerDID         string        `json:"issuerDid,omitempty"`
	CredentialSubject air.Subject   `json:"credentialSubject"`
}

// IssueResult is the raw issuance response. Raw retains the full payload so
// the ledger can store it as the credential's opaque data.
type IssueResult struct {
	ID  string          `json:"id,omitempty"`
	Raw json.RawMessage `json:"-"`
}

// VerifyParams are the arguments for the verification operation.
type VerifyParams struct {
	AuthToken   string        `json:"authToken"`
	ProgramID   air.ProgramID `json:"programId"`
	RedirectURL string        `json:"redirectUrl,omitempty"`
}

// VerifyResult is the raw verification response.
//
// Accepted shapes:
//   - flat:   {status, transactionHash | txHash}
//   - nested: {result: {status, txHash}}
type VerifyResult struct {
	Status          string       `json:"status,omitempty"`
	TransactionHash string       `json:"transactionHash,omitempty"`
	TxHash          string       `json:"txHash,omitempty"`
	Result          *VerifyInner `json:"result,omitempty"`
}

// VerifyInner is the nested result variant.
type VerifyInner struct {
	Status string `json:"status,omitempty"`
	TxHash string `json:"txHash,omitempty"`
}
