// internal/domain/history/repository.go
package history

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by operations that need a journal when none is set up.
var ErrNotConfigured = errors.New("delivery journal is not configured (set DATABASE_URL)")

// Repository persists successful deliveries.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	ListRecent(ctx context.Context, limit int) ([]*Record, error)
}

// NopRepository discards every record. Used when DATABASE_URL is empty.
type NopRepository struct{}

func (NopRepository) Save(context.Context, *Record) error { return nil }

func (NopRepository) ListRecent(context.Context, int) ([]*Record, error) {
	return nil, ErrNotConfigured
}
