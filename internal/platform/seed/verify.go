package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/injury"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/provider"
	"github.com/kravdata/kravdata/internal/platform/reporting"
)

// Report is the post-load sanity summary. It is surfaced, never stored.
type Report struct {
	Providers          int64               `json:"providers"`
	MedicalCodes       int64               `json:"medical_codes"`
	ActiveMedicalCodes int64               `json:"active_medical_codes"`
	InjuryTypes        int64               `json:"injury_types"`
	ActiveInjuryTypes  int64               `json:"active_injury_types"`
	Claims             int64               `json:"claims"`
	CodeLinks          int64               `json:"code_links"`
	InjuryLinks        int64               `json:"injury_links"`
	StatusMix          []claim.StatusCount `json:"status_mix"`
	DecisionViolations int64               `json:"decision_violations"`
	ReceivedDateRange  *claim.DateRange    `json:"received_date_range,omitempty"`
	ClosedPayout       *claim.PayoutStats  `json:"closed_payout,omitempty"`
}

// Verifier recomputes the report from the database after a load.
type Verifier struct {
	providers provider.Repository
	codes     medcode.Repository
	injuries  injury.Repository
	claims    claim.Repository
	log       zerolog.Logger
}

// NewVerifier wires a verifier over the domain repositories.
func NewVerifier(providers provider.Repository, codes medcode.Repository,
	injuries injury.Repository, claims claim.Repository, log zerolog.Logger) *Verifier {
	return &Verifier{
		providers: providers,
		codes:     codes,
		injuries:  injuries,
		claims:    claims,
		log:       log.With().Str("component", "seed.verifier").Logger(),
	}
}

// Verify tallies the loaded dataset, re-validates the provider rows and
// fails if the decision/status coupling is violated anywhere.
func (v *Verifier) Verify(ctx context.Context) (*Report, error) {
	var (
		r   Report
		err error
	)
	if r.Providers, err = v.providers.Count(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	rows, err := v.providers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if int64(len(rows)) != r.Providers {
		return nil, fmt.Errorf("seed verify: provider list holds %d rows, count reports %d", len(rows), r.Providers)
	}
	for _, p := range rows {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed verify: loaded provider %s: %w", p.ID, err)
		}
	}
	if r.MedicalCodes, err = v.codes.Count(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	activeCodes, err := v.codes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	r.ActiveMedicalCodes = int64(len(activeCodes))
	if r.InjuryTypes, err = v.injuries.Count(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	activeInjuries, err := v.injuries.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	r.ActiveInjuryTypes = int64(len(activeInjuries))
	if r.Claims, err = v.claims.Count(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if r.CodeLinks, err = v.claims.CountMedicalCodeLinks(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if r.InjuryLinks, err = v.claims.CountInjuryLinks(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if r.StatusMix, err = v.claims.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if r.DecisionViolations, err = v.claims.CountDecisionViolations(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if r.ReceivedDateRange, err = v.claims.ReceivedDateRange(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}
	if r.ClosedPayout, err = v.claims.ClosedPayoutStats(ctx); err != nil {
		return nil, fmt.Errorf("seed verify: %w", err)
	}

	ev := v.log.Info().
		Int64("providers", r.Providers).
		Int64("medical_codes", r.MedicalCodes).
		Int64("active_medical_codes", r.ActiveMedicalCodes).
		Int64("injury_types", r.InjuryTypes).
		Int64("active_injury_types", r.ActiveInjuryTypes).
		Int64("claims", r.Claims).
		Int64("decision_violations", r.DecisionViolations)
	if r.ReceivedDateRange != nil {
		ev = ev.Str("received_min", r.ReceivedDateRange.Min.Format("2006-01-02")).
			Str("received_max", r.ReceivedDateRange.Max.Format("2006-01-02"))
	}
	ev.Msg("seed verification")

	if r.DecisionViolations != 0 {
		return &r, fmt.Errorf("seed verify: %d claims violate the decision/status coupling", r.DecisionViolations)
	}
	return &r, nil
}

// Run generates, loads and verifies one dataset end to end. The database
// tallies are cross-checked against the in-memory dataset so a silent load
// discrepancy surfaces immediately.
func Run(ctx context.Context, cfg Config, loader *Loader, verifier *Verifier, now time.Time) (*Report, error) {
	ds, err := NewGenerator(cfg, now).Generate()
	if err != nil {
		return nil, err
	}
	if err := loader.Load(ctx, ds); err != nil {
		return nil, err
	}
	report, err := verifier.Verify(ctx)
	if err != nil {
		return report, err
	}
	if err := crossCheck(ds, report); err != nil {
		return report, err
	}
	return report, nil
}

// crossCheck recomputes the headline tallies from the in-memory dataset via
// the reporting aggregation and compares them with what the database reports.
func crossCheck(ds *Dataset, report *Report) error {
	var total, closed int64
	for _, row := range reporting.ComputeRegionKPI(ds.Claims) {
		total += row.TotalClaims
		closed += row.ClosedClaims
	}
	if total != report.Claims {
		return fmt.Errorf("seed verify: database holds %d claims, generated %d", report.Claims, total)
	}
	var dbClosed int64
	for _, sc := range report.StatusMix {
		if sc.Status == claim.StatusClosed {
			dbClosed = sc.Count
		}
	}
	if closed != dbClosed {
		return fmt.Errorf("seed verify: database holds %d closed claims, generated %d", dbClosed, closed)
	}

	var activeCodes, activeInjuries int64
	for _, m := range ds.MedicalCodes {
		if m.Active {
			activeCodes++
		}
	}
	for _, it := range ds.InjuryTypes {
		if it.Active {
			activeInjuries++
		}
	}
	if activeCodes != report.ActiveMedicalCodes {
		return fmt.Errorf("seed verify: database holds %d active medical codes, generated %d", report.ActiveMedicalCodes, activeCodes)
	}
	if activeInjuries != report.ActiveInjuryTypes {
		return fmt.Errorf("seed verify: database holds %d active injury types, generated %d", report.ActiveInjuryTypes, activeInjuries)
	}
	return nil
}
