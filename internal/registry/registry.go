// Package registry resolves logical credential and verifier names to the
// opaque program identifiers the AIR service expects. Mappings are loaded
// once at startup from environment-provided JSON and are immutable afterward.
package registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohamedwael201193/air-gate-os/contracts/air"
	dErrors "github.com/mohamedwael201193/air-gate-os/pkg/domain-errors"
)

// Registry holds the issuer and verifier program-id maps.
type Registry struct {
	issuers   map[string]air.ProgramID
	verifiers map[string]air.ProgramID
}

// New parses both program-id maps. A missing or malformed map is a hard
// configuration error; there is no fallback to sample identifiers.
func New(issuerJSON, verifierJSON string) (*Registry, error) {
	issuers, err := parseProgramMap("issuer", issuerJSON)
	if err != nil {
		return nil, err
	}
	verifiers, err := parseProgramMap("verifier", verifierJSON)
	if err != nil {
		return nil, err
	}
	return &Registry{issuers: issuers, verifiers: verifiers}, nil
}

// ResolveIssuerProgram returns the program id configured for a credential type.
func (r *Registry) ResolveIssuerProgram(t air.CredentialType) (air.ProgramID, error) {
	if !t.Valid() {
		return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("unknown issuer credential type: %s", t))
	}
	id, ok := r.issuers[string(t)]
	if !ok || id == "" {
		return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("no issuer program configured for %s", t))
	}
	return id, nil
}

// ResolveVerifierProgram returns the program id configured for a gate.
func (r *Registry) ResolveVerifierProgram(k air.VerifierKey) (air.ProgramID, error) {
	if !k.Valid() {
		return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("unknown verifier program type: %s", k))
	}
	id, ok := r.verifiers[string(k)]
	if !ok || id == "" {
		return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("no verifier program configured for %s", k))
	}
	return id, nil
}

func parseProgramMap(kind, raw string) (map[string]air.ProgramID, error) {
	// Strip accidental surrounding quotes from copy-pasted env values.
	cleaned := strings.Trim(strings.TrimSpace(raw), `'"`)
	if cleaned == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("%s program-id map is not set", kind))
	}
	var m map[string]air.ProgramID
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration,
			fmt.Sprintf("%s program-id map is not valid JSON: %s", kind, truncate(raw, 60)))
	}
	return m, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
