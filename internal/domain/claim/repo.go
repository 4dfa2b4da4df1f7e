package claim

import (
	"context"
	"time"
)

// StatusCount is one row of the status-mix tally.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// DateRange is the observed span of received dates.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// PayoutStats summarizes claim_amount_nok over closed claims.
type PayoutStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Repository abstracts claim and association persistence. The aggregate
// queries back the post-seed verification report.
type Repository interface {
	Insert(ctx context.Context, c *Claim) error
	InsertMedicalCodeLink(ctx context.Context, l *MedicalCodeLink) error
	InsertInjuryLink(ctx context.Context, l *InjuryLink) error

	Count(ctx context.Context) (int64, error)
	CountMedicalCodeLinks(ctx context.Context) (int64, error)
	CountInjuryLinks(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountDecisionViolations(ctx context.Context) (int64, error)
	ReceivedDateRange(ctx context.Context) (*DateRange, error)
	ClosedPayoutStats(ctx context.Context) (*PayoutStats, error)
}
