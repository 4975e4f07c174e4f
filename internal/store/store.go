// Package store provides persistence for the learning loop and loading
// of the static lookup tables. The pipeline consumes the Store interface
// only; concrete backends are injected.
package store

import (
	"context"

	"akazakov/snapstat/internal/models"
)

// Store is the persistence port for corrections and learned merchant
// mappings. Every call is scoped by an opaque user identifier; there is
// no cross-user visibility.
type Store interface {
	// AppendCorrection records one correction. The log is append-only:
	// entries are never mutated or deleted.
	AppendCorrection(ctx context.Context, correction models.CategoryCorrection) error

	// CountCorrections counts this user's corrections for a merchant
	// key. An empty category counts all corrections regardless of the
	// corrected category.
	CountCorrections(ctx context.Context, userID, merchantKey, category string) (int, error)

	// GetMapping returns the learned mapping for (user, merchant), or
	// nil when none exists.
	GetMapping(ctx context.Context, userID, merchantKey string) (*models.MerchantCategoryMapping, error)

	// UpsertMapping creates or replaces the single mapping row for
	// (user, merchant).
	UpsertMapping(ctx context.Context, mapping models.MerchantCategoryMapping) error
}
