package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mohamedwael201193/air-gate-os/internal/sentinel"
	"github.com/mohamedwael201193/air-gate-os/internal/storage"
)

// Store is the persistence boundary for both append-only logs.
// Error Contract: list methods degrade corrupt state to an empty log; append
// methods return nil on success or wrapped errors on failure.
type Store interface {
	AppendCredential(ctx context.Context, record CredentialRecord) error
	ListCredentials(ctx context.Context) ([]CredentialRecord, error)
	AppendVerification(ctx context.Context, record VerificationRecord) error
	ListVerifications(ctx context.Context) ([]VerificationRecord, error)
}

// storageStore keeps each log as a JSON array under its well-known key.
// Appends are read-then-write, last-write-wins, matching the substrate.
type storageStore struct {
	kv     storage.Store
	logger *slog.Logger
}

func NewStore(kv storage.Store, logger *slog.Logger) Store {
	return &storageStore{kv: kv, logger: logger}
}

func (s *storageStore) AppendCredential(ctx context.Context, record CredentialRecord) error {
	records, err := s.ListCredentials(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := s.kv.Put(ctx, storage.KeyCredentials, records); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

func (s *storageStore) ListCredentials(ctx context.Context) ([]CredentialRecord, error) {
	var records []CredentialRecord
	if _, err := s.kv.Get(ctx, storage.KeyCredentials, &records); err != nil {
		if !s.degraded("credentials", err) {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		return nil, nil
	}
	return records, nil
}

func (s *storageStore) AppendVerification(ctx context.Context, record VerificationRecord) error {
	records, err := s.ListVerifications(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := s.kv.Put(ctx, storage.KeyVerifications, records); err != nil {
		return fmt.Errorf("persist verifications: %w", err)
	}
	return nil
}

func (s *storageStore) ListVerifications(ctx context.Context) ([]VerificationRecord, error) {
	var records []VerificationRecord
	if _, err := s.kv.Get(ctx, storage.KeyVerifications, &records); err != nil {
		if !s.degraded("verifications", err) {
			return nil, fmt.Errorf("read verifications: %w", err)
		}
		return nil, nil
	}
	return records, nil
}

// degraded reports whether the read error is corrupt persisted state, which
// reads as an empty log. The next append overwrites the bad value.
func (s *storageStore) degraded(log string, err error) bool {
	if !errors.Is(err, sentinel.ErrCorruptState) {
		return false
	}
	if s.logger != nil {
		s.logger.Warn("persisted log is corrupt, treating as empty", "log", log, "error", err)
	}
	return true
}
