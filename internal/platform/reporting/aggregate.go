package reporting

import (
	"sort"
	"time"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/provider"
	"github.com/kravdata/kravdata/internal/domain/region"
)

// The functions below recompute the three views from in-memory rows with
// explicit iteration. They exist so the view arithmetic can be tested
// without a database, and must stay semantically identical to the SQL in
// migrations/002_reporting_views.sql: same anchor sets, same zero-denominator
// rule, same ordering.

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func ratio(num, den int64) *float64 {
	if den == 0 {
		return nil
	}
	r := float64(num) / float64(den)
	return &r
}

type closedAccum struct {
	closed    int64
	approved  int64
	rejected  int64
	payout    float64
	procDays  float64
	procCount int64
}

func (a *closedAccum) add(c *claim.Claim) {
	a.closed++
	if c.Decision != nil {
		if c.Decision.Approving() {
			a.approved++
		}
		if *c.Decision == claim.DecisionRejected {
			a.rejected++
		}
	}
	a.payout += c.AmountNOK
	if days, ok := c.ProcessingDays(); ok {
		a.procDays += days
		a.procCount++
	}
}

func (a *closedAccum) avgProcessing() *float64 {
	if a.procCount == 0 {
		return nil
	}
	avg := a.procDays / float64(a.procCount)
	return &avg
}

// ComputeMonthlyKPI mirrors the monthly_kpi view. The anchor set is the
// union of received months and decision months, ascending, no duplicates.
func ComputeMonthlyKPI(claims []*claim.Claim) []*MonthlyKPI {
	received := make(map[time.Time]int64)
	decided := make(map[time.Time]*closedAccum)
	anchors := make(map[time.Time]struct{})

	for _, c := range claims {
		rm := monthOf(c.ReceivedDate)
		received[rm]++
		anchors[rm] = struct{}{}
		if c.DecisionDate == nil {
			continue
		}
		// Any decision date anchors its month; only closed claims feed
		// the closed-side aggregates, as in the view's decided CTE.
		dm := monthOf(*c.DecisionDate)
		anchors[dm] = struct{}{}
		if c.Status != claim.StatusClosed {
			continue
		}
		acc := decided[dm]
		if acc == nil {
			acc = &closedAccum{}
			decided[dm] = acc
		}
		acc.add(c)
	}

	months := make([]time.Time, 0, len(anchors))
	for m := range anchors {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]*MonthlyKPI, 0, len(months))
	for _, m := range months {
		row := &MonthlyKPI{Month: m, ClaimsReceived: received[m]}
		if acc := decided[m]; acc != nil {
			row.ClosedClaims = acc.closed
			row.ApprovalRateClosed = ratio(acc.approved, acc.closed)
			row.RejectedRateClosed = ratio(acc.rejected, acc.closed)
			row.TotalPayoutNOK = acc.payout
			row.AvgProcessingDays = acc.avgProcessing()
		}
		out = append(out, row)
	}
	return out
}

// ComputeRegionKPI mirrors the region_kpi view: one row per region with at
// least one claim, ordered by region name.
func ComputeRegionKPI(claims []*claim.Claim) []*RegionKPI {
	type regionAccum struct {
		total int64
		closedAccum
	}
	byRegion := make(map[string]*regionAccum)
	for _, c := range claims {
		acc := byRegion[string(c.Region)]
		if acc == nil {
			acc = &regionAccum{}
			byRegion[string(c.Region)] = acc
		}
		acc.total++
		if c.Status == claim.StatusClosed {
			acc.add(c)
		}
	}

	names := make([]string, 0, len(byRegion))
	for name := range byRegion {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*RegionKPI, 0, len(names))
	for _, name := range names {
		acc := byRegion[name]
		out = append(out, &RegionKPI{
			Region:             region.Region(name),
			TotalClaims:        acc.total,
			ClosedClaims:       acc.closed,
			ApprovalRateClosed: ratio(acc.approved, acc.closed),
			TotalPayoutNOK:     acc.payout,
			AvgProcessingDays:  acc.avgProcessing(),
		})
	}
	return out
}

// ComputeProviderSummary mirrors the provider_summary view: every provider
// appears, ordered by name then region, with zero counts and nil rates when
// it has no claims.
func ComputeProviderSummary(providers []*provider.Provider, claims []*claim.Claim) []*ProviderSummary {
	type provAccum struct {
		total int64
		closedAccum
	}
	byProvider := make(map[string]*provAccum)
	for _, c := range claims {
		key := c.ProviderID.String()
		acc := byProvider[key]
		if acc == nil {
			acc = &provAccum{}
			byProvider[key] = acc
		}
		acc.total++
		if c.Status == claim.StatusClosed {
			acc.add(c)
		}
	}

	sorted := make([]*provider.Provider, len(providers))
	copy(sorted, providers)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Region < sorted[j].Region
	})

	out := make([]*ProviderSummary, 0, len(sorted))
	for _, p := range sorted {
		row := &ProviderSummary{
			ProviderID:     p.ID,
			ProviderName:   p.Name,
			ProviderRegion: p.Region,
			ProviderType:   string(p.Type),
		}
		if acc := byProvider[p.ID.String()]; acc != nil {
			row.TotalClaims = acc.total
			row.ClosedClaims = acc.closed
			row.ApprovalRateClosed = ratio(acc.approved, acc.closed)
			row.TotalPayoutNOK = acc.payout
			row.AvgProcessingDays = acc.avgProcessing()
		}
		out = append(out, row)
	}
	return out
}
