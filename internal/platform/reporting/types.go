// Package reporting reads the three aggregate views and mirrors their
// arithmetic in Go for verification and tests.
package reporting

import (
	"time"

	"github.com/google/uuid"

	"github.com/kravdata/kravdata/internal/domain/region"
)

// MonthlyKPI is one row of the monthly_kpi view. Pointer fields carry the
// "no data" distinction: a nil rate means a zero denominator, which is not
// the same as a 0% rate.
type MonthlyKPI struct {
	Month              time.Time `json:"month"`
	ClaimsReceived     int64     `json:"claims_received"`
	ClosedClaims       int64     `json:"closed_claims"`
	ApprovalRateClosed *float64  `json:"approval_rate_closed"`
	RejectedRateClosed *float64  `json:"rejected_rate_closed"`
	TotalPayoutNOK     float64   `json:"total_payout_nok"`
	AvgProcessingDays  *float64  `json:"avg_processing_days_closed"`
}

// RegionKPI is one row of the region_kpi view.
type RegionKPI struct {
	Region             region.Region `json:"region"`
	TotalClaims        int64         `json:"total_claims"`
	ClosedClaims       int64         `json:"closed_claims"`
	ApprovalRateClosed *float64      `json:"approval_rate_closed"`
	TotalPayoutNOK     float64       `json:"total_payout_nok"`
	AvgProcessingDays  *float64      `json:"avg_processing_days_closed"`
}

// ProviderSummary is one row of the provider_summary view. Providers with no
// claims appear with zero counts and nil rates.
type ProviderSummary struct {
	ProviderID         uuid.UUID     `json:"provider_id"`
	ProviderName       string        `json:"provider_name"`
	ProviderRegion     region.Region `json:"provider_region"`
	ProviderType       string        `json:"provider_type"`
	TotalClaims        int64         `json:"total_claims"`
	ClosedClaims       int64         `json:"closed_claims"`
	ApprovalRateClosed *float64      `json:"approval_rate_closed"`
	TotalPayoutNOK     float64       `json:"total_payout_nok"`
	AvgProcessingDays  *float64      `json:"avg_processing_days_closed"`
}
