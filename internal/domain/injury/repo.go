package injury

import "context"

// Repository abstracts injury_type persistence.
type Repository interface {
	Insert(ctx context.Context, it *InjuryType) error
	ListActive(ctx context.Context) ([]*InjuryType, error)
	Count(ctx context.Context) (int64, error)
}
