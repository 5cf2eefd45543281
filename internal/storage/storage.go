// Package storage is the origin-scoped key/value substrate behind the
// identity session and the credential ledger. It is the server-side analog
// of browser localStorage: read-then-write, last-write-wins, no cross-process
// locking. Every value is wrapped in a versioned envelope so future format
// changes can be detected and migrated instead of silently misparsed.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mohamedwael201193/air-gate-os/internal/sentinel"
)

// SchemaVersion is the current envelope version for all persisted values.
const SchemaVersion = 1

// Well-known keys. Kept compatible with the browser demo's localStorage keys.
const (
	KeyIdentity      = "airgate_user"
	KeyCredentials   = "airgate_credentials"
	KeyVerifications = "airgate_verifications"
)

// Store is a small key/value store for JSON-encoded state.
type Store interface {
	// Get unmarshals the value stored under key into v. It returns false when
	// the key is absent. A stored value that cannot be decoded returns
	// sentinel.ErrCorruptState (wrapped); callers decide whether to degrade.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Put stores v under key, overwriting any previous value.
	Put(ctx context.Context, key string, v any) error

	// Delete removes the value stored under key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

// envelope wraps every persisted value with its schema version.
type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

func seal(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	raw, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return raw, nil
}

func open(raw json.RawMessage, v any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", sentinel.ErrCorruptState)
	}
	if env.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema version %d not supported: %w", env.SchemaVersion, sentinel.ErrCorruptState)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decode value: %w", sentinel.ErrCorruptState)
	}
	return nil
}
