package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mohamedwael201193/air-gate-os/internal/sentinel"
	"github.com/mohamedwael201193/air-gate-os/internal/storage"
)

// Store persists the active identity.
// Error Contract:
// - Current returns sentinel.ErrNoIdentity when no session exists
// - Save and Clear return nil on success or wrapped errors on failure
type Store interface {
	Save(ctx context.Context, ident *Identity) error
	Current(ctx context.Context) (*Identity, error)
	Clear(ctx context.Context) error
}

// storageStore keeps the identity under a well-known key in the shared
// key/value substrate. A corrupt persisted record is treated as no session;
// the next successful login overwrites it.
type storageStore struct {
	kv     storage.Store
	logger *slog.Logger
}

func NewStore(kv storage.Store, logger *slog.Logger) Store {
	return &storageStore{kv: kv, logger: logger}
}

func (s *storageStore) Save(ctx context.Context, ident *Identity) error {
	if err := s.kv.Put(ctx, storage.KeyIdentity, ident); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

func (s *storageStore) Current(ctx context.Context) (*Identity, error) {
	var ident Identity
	found, err := s.kv.Get(ctx, storage.KeyIdentity, &ident)
	if err != nil {
		if errors.Is(err, sentinel.ErrCorruptState) {
			if s.logger != nil {
				s.logger.Warn("persisted identity is corrupt, treating as logged out", "error", err)
			}
			return nil, sentinel.ErrNoIdentity
		}
		return nil, fmt.Errorf("read identity: %w", err)
	}
	if !found {
		return nil, sentinel.ErrNoIdentity
	}
	return &ident, nil
}

func (s *storageStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, storage.KeyIdentity); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
