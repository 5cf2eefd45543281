package airkit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Mocked is the in-process stand-in for the hosted AIR service. It is only
// ever selected through explicit configuration (build env "mock"), never as a
// fallback when the real client fails to initialize.
//
// Behavior is deterministic: identifiers derive from a hash of the inputs so
// repeated runs produce stable data. Inputs containing "fail" trigger the
// corresponding failure path, which lets tests and offline demos exercise
// error handling without a network.
type Mocked struct {
	partnerID string
	seq       atomic.Int64
}

// NewMocked creates the mock service for the given partner.
func NewMocked(partnerID string) *Mocked {
	if partnerID == "" {
		partnerID = "mock-partner"
	}
	return &Mocked{partnerID: partnerID}
}

func (m *Mocked) Login(ctx context.Context) (*LoginResult, error) {
	if strings.Contains(m.partnerID, "fail") {
		return nil, fmt.Errorf("air login failed: partner %q is not enabled", m.partnerID)
	}

	digest := shortHash(m.partnerID)
	return &LoginResult{
		ID:                     "did:air:mock:" + digest,
		Email:                  "demo+" + digest[:6] + "@airgate.dev",
		AbstractAccountAddress: "0x" + digest,
		LinkedAccounts: []LinkedAccount{
			{Type: "email", Email: "demo+" + digest[:6] + "@airgate.dev"},
			{Type: "wallet", Address: "0x" + digest},
		},
	}, nil
}

func (m *Mocked) IssueCredential(ctx context.Context, p IssueParams) (*IssueResult, error) {
	if strings.Contains(strings.ToLower(string(p.CredentialID)), "fail") {
		return nil, fmt.Errorf("air issuance failed: program %s rejected the subject", p.CredentialID)
	}

	n := m.seq.Add(1)
	id := fmt.Sprintf("cred_mock_%s_%d", shortHash(string(p.CredentialID))[:8], n)
	raw, _ := json.Marshal(map[string]any{
		"id":                id,
		"credentialId":      p.CredentialID,
		"credentialSubject": p.CredentialSubject,
		"issuedAt":          time.Now().UTC().Format(time.RFC3339),
	})
	return &IssueResult{ID: id, Raw: raw}, nil
}

func (m *Mocked) VerifyCredential(ctx context.Context, p VerifyParams) (*VerifyResult, error) {
	if strings.Contains(strings.ToLower(string(p.ProgramID)), "fail") {
		return &VerifyResult{Status: "not_verified"}, nil
	}
	return &VerifyResult{
		Status: "verified",
		TxHash: "0x" + shortHash(string(p.ProgramID)+m.partnerID),
	}, nil
}

func shortHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:16])
}
