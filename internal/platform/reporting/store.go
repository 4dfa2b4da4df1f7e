package reporting

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads the reporting views. Results are recomputed on every call;
// nothing is cached or materialized.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps the shared pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// MonthlyKPI returns the monthly rollup, one row per anchor month, ascending.
func (s *Store) MonthlyKPI(ctx context.Context) ([]*MonthlyKPI, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT month, claims_received, closed_claims, approval_rate_closed,
		       rejected_rate_closed, total_payout_nok, avg_processing_days_closed
		FROM monthly_kpi`)
	if err != nil {
		return nil, fmt.Errorf("query monthly_kpi: %w", err)
	}
	defer rows.Close()

	var out []*MonthlyKPI
	for rows.Next() {
		var r MonthlyKPI
		if err := rows.Scan(&r.Month, &r.ClaimsReceived, &r.ClosedClaims,
			&r.ApprovalRateClosed, &r.RejectedRateClosed,
			&r.TotalPayoutNOK, &r.AvgProcessingDays); err != nil {
			return nil, fmt.Errorf("scan monthly_kpi: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// RegionKPI returns the per-region rollup over regions with at least one claim.
func (s *Store) RegionKPI(ctx context.Context) ([]*RegionKPI, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT region, total_claims, closed_claims, approval_rate_closed,
		       total_payout_nok, avg_processing_days_closed
		FROM region_kpi`)
	if err != nil {
		return nil, fmt.Errorf("query region_kpi: %w", err)
	}
	defer rows.Close()

	var out []*RegionKPI
	for rows.Next() {
		var r RegionKPI
		if err := rows.Scan(&r.Region, &r.TotalClaims, &r.ClosedClaims,
			&r.ApprovalRateClosed, &r.TotalPayoutNOK, &r.AvgProcessingDays); err != nil {
			return nil, fmt.Errorf("scan region_kpi: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ProviderSummary returns the per-provider rollup, including providers with
// zero claims.
func (s *Store) ProviderSummary(ctx context.Context) ([]*ProviderSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT provider_id, provider_name, provider_region, provider_type,
		       total_claims, closed_claims, approval_rate_closed,
		       total_payout_nok, avg_processing_days_closed
		FROM provider_summary`)
	if err != nil {
		return nil, fmt.Errorf("query provider_summary: %w", err)
	}
	defer rows.Close()

	var out []*ProviderSummary
	for rows.Next() {
		var r ProviderSummary
		if err := rows.Scan(&r.ProviderID, &r.ProviderName, &r.ProviderRegion,
			&r.ProviderType, &r.TotalClaims, &r.ClosedClaims,
			&r.ApprovalRateClosed, &r.TotalPayoutNOK, &r.AvgProcessingDays); err != nil {
			return nil, fmt.Errorf("scan provider_summary: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
