package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/injury"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/provider"
)

func statusMixOf(ds *Dataset) []claim.StatusCount {
	counts := make(map[claim.Status]int64)
	for _, c := range ds.Claims {
		counts[c.Status]++
	}
	var mix []claim.StatusCount
	for _, s := range claim.AllStatuses() {
		mix = append(mix, claim.StatusCount{Status: s, Count: counts[s]})
	}
	return mix
}

func reportOf(ds *Dataset) *Report {
	r := &Report{
		Claims:    int64(len(ds.Claims)),
		StatusMix: statusMixOf(ds),
	}
	for _, m := range ds.MedicalCodes {
		if m.Active {
			r.ActiveMedicalCodes++
		}
	}
	for _, it := range ds.InjuryTypes {
		if it.Active {
			r.ActiveInjuryTypes++
		}
	}
	return r
}

func TestCrossCheckMatchingTallies(t *testing.T) {
	ds := generate(t, DefaultConfig(21))
	if err := crossCheck(ds, reportOf(ds)); err != nil {
		t.Fatalf("expected matching tallies, got %v", err)
	}
}

func TestCrossCheckDetectsCountDrift(t *testing.T) {
	ds := generate(t, DefaultConfig(21))
	report := reportOf(ds)
	report.Claims--
	if err := crossCheck(ds, report); err == nil {
		t.Fatal("expected error for claim count drift")
	}
}

func TestCrossCheckDetectsClosedDrift(t *testing.T) {
	ds := generate(t, DefaultConfig(21))
	report := reportOf(ds)
	for i := range report.StatusMix {
		if report.StatusMix[i].Status == claim.StatusClosed {
			report.StatusMix[i].Count++
		}
	}
	if err := crossCheck(ds, report); err == nil {
		t.Fatal("expected error for closed count drift")
	}
}

func TestCrossCheckDetectsActiveDrift(t *testing.T) {
	ds := generate(t, DefaultConfig(21))
	report := reportOf(ds)
	report.ActiveMedicalCodes++
	if err := crossCheck(ds, report); err == nil {
		t.Fatal("expected error for active medical-code drift")
	}
}

// In-memory repositories backed by a generated dataset, so Verify can be
// exercised without a database.

type memProviderRepo struct{ rows []*provider.Provider }

func (r *memProviderRepo) Insert(_ context.Context, p *provider.Provider) error {
	r.rows = append(r.rows, p)
	return nil
}
func (r *memProviderRepo) ListAll(context.Context) ([]*provider.Provider, error) {
	return r.rows, nil
}
func (r *memProviderRepo) Count(context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type memCodeRepo struct{ rows []*medcode.MedicalCode }

func (r *memCodeRepo) Insert(_ context.Context, m *medcode.MedicalCode) error {
	r.rows = append(r.rows, m)
	return nil
}
func (r *memCodeRepo) ListActive(context.Context) ([]*medcode.MedicalCode, error) {
	var active []*medcode.MedicalCode
	for _, m := range r.rows {
		if m.Active {
			active = append(active, m)
		}
	}
	return active, nil
}
func (r *memCodeRepo) Count(context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type memInjuryRepo struct{ rows []*injury.InjuryType }

func (r *memInjuryRepo) Insert(_ context.Context, it *injury.InjuryType) error {
	r.rows = append(r.rows, it)
	return nil
}
func (r *memInjuryRepo) ListActive(context.Context) ([]*injury.InjuryType, error) {
	var active []*injury.InjuryType
	for _, it := range r.rows {
		if it.Active {
			active = append(active, it)
		}
	}
	return active, nil
}
func (r *memInjuryRepo) Count(context.Context) (int64, error) {
	return int64(len(r.rows)), nil
}

type memClaimRepo struct {
	claims      []*claim.Claim
	codeLinks   []*claim.MedicalCodeLink
	injuryLinks []*claim.InjuryLink
}

func (r *memClaimRepo) Insert(_ context.Context, c *claim.Claim) error {
	r.claims = append(r.claims, c)
	return nil
}
func (r *memClaimRepo) InsertMedicalCodeLink(_ context.Context, l *claim.MedicalCodeLink) error {
	r.codeLinks = append(r.codeLinks, l)
	return nil
}
func (r *memClaimRepo) InsertInjuryLink(_ context.Context, l *claim.InjuryLink) error {
	r.injuryLinks = append(r.injuryLinks, l)
	return nil
}
func (r *memClaimRepo) Count(context.Context) (int64, error) {
	return int64(len(r.claims)), nil
}
func (r *memClaimRepo) CountMedicalCodeLinks(context.Context) (int64, error) {
	return int64(len(r.codeLinks)), nil
}
func (r *memClaimRepo) CountInjuryLinks(context.Context) (int64, error) {
	return int64(len(r.injuryLinks)), nil
}
func (r *memClaimRepo) CountByStatus(context.Context) ([]claim.StatusCount, error) {
	counts := make(map[claim.Status]int64)
	for _, c := range r.claims {
		counts[c.Status]++
	}
	var mix []claim.StatusCount
	for _, s := range claim.AllStatuses() {
		mix = append(mix, claim.StatusCount{Status: s, Count: counts[s]})
	}
	return mix, nil
}
func (r *memClaimRepo) CountDecisionViolations(context.Context) (int64, error) {
	var n int64
	for _, c := range r.claims {
		if (c.Decision != nil) != (c.Status == claim.StatusClosed) {
			n++
		}
	}
	return n, nil
}
func (r *memClaimRepo) ReceivedDateRange(context.Context) (*claim.DateRange, error) {
	if len(r.claims) == 0 {
		return nil, nil
	}
	dr := claim.DateRange{Min: r.claims[0].ReceivedDate, Max: r.claims[0].ReceivedDate}
	for _, c := range r.claims[1:] {
		if c.ReceivedDate.Before(dr.Min) {
			dr.Min = c.ReceivedDate
		}
		if c.ReceivedDate.After(dr.Max) {
			dr.Max = c.ReceivedDate
		}
	}
	return &dr, nil
}
func (r *memClaimRepo) ClosedPayoutStats(context.Context) (*claim.PayoutStats, error) {
	var (
		stats claim.PayoutStats
		sum   float64
		n     int64
	)
	for _, c := range r.claims {
		if c.Status != claim.StatusClosed {
			continue
		}
		if n == 0 || c.AmountNOK < stats.Min {
			stats.Min = c.AmountNOK
		}
		if n == 0 || c.AmountNOK > stats.Max {
			stats.Max = c.AmountNOK
		}
		sum += c.AmountNOK
		n++
	}
	if n == 0 {
		return nil, nil
	}
	stats.Avg = sum / float64(n)
	return &stats, nil
}

func memRepos(ds *Dataset) (*memProviderRepo, *memCodeRepo, *memInjuryRepo, *memClaimRepo) {
	return &memProviderRepo{rows: ds.Providers},
		&memCodeRepo{rows: ds.MedicalCodes},
		&memInjuryRepo{rows: ds.InjuryTypes},
		&memClaimRepo{claims: ds.Claims, codeLinks: ds.CodeLinks, injuryLinks: ds.InjuryLinks}
}

func TestVerifierReportsDatasetTallies(t *testing.T) {
	ds := generate(t, DefaultConfig(21))
	providers, codes, injuries, claims := memRepos(ds)
	v := NewVerifier(providers, codes, injuries, claims, zerolog.Nop())

	report, err := v.Verify(context.Background())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if report.Providers != int64(len(ds.Providers)) {
		t.Errorf("providers: got %d, want %d", report.Providers, len(ds.Providers))
	}
	if report.ActiveMedicalCodes == 0 || report.ActiveMedicalCodes > report.MedicalCodes {
		t.Errorf("active medical codes %d out of range (total %d)", report.ActiveMedicalCodes, report.MedicalCodes)
	}
	if report.ActiveInjuryTypes != int64(len(ds.InjuryTypes)) {
		t.Errorf("active injury types: got %d, want %d", report.ActiveInjuryTypes, len(ds.InjuryTypes))
	}
	if report.DecisionViolations != 0 {
		t.Errorf("expected zero decision violations, got %d", report.DecisionViolations)
	}
	if report.ReceivedDateRange == nil {
		t.Error("expected a received date range")
	}
	if err := crossCheck(ds, report); err != nil {
		t.Errorf("cross-check against generated dataset: %v", err)
	}
}

func TestVerifierRejectsInvalidProviderRow(t *testing.T) {
	ds := generate(t, DefaultConfig(21))
	providers, codes, injuries, claims := memRepos(ds)
	providers.rows[0].OrgNumber = "short"

	v := NewVerifier(providers, codes, injuries, claims, zerolog.Nop())
	if _, err := v.Verify(context.Background()); err == nil {
		t.Fatal("expected error for invalid provider row")
	}
}
