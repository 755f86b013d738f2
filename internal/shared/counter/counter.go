// Package counter allocates the sequential integer ids used as primary
// keys across the catalog collections.
package counter

import (
	"context"
	"fmt"

	"storefront-backend/pkg/database"
)

// Service issues monotonically increasing ids per collection. The
// increment happens on the caller's transaction, so an aborted write
// leaves a gap instead of a duplicate.
type Service interface {
	GetCounter(ctx context.Context, q database.Querier, collection string) (int64, error)
}

type counterService struct{}

func NewService() Service {
	return &counterService{}
}

func (s *counterService) GetCounter(ctx context.Context, q database.Querier, collection string) (int64, error) {
	const query = `
		INSERT INTO counters (collection, seq)
		VALUES ($1, 1)
		ON CONFLICT (collection) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`

	var seq int64
	if err := q.QueryRow(ctx, query, collection).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to get counter for %s: %w", collection, err)
	}

	return seq, nil
}
