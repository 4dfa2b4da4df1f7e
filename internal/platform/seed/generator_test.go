package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/region"
)

var testAnchor = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func generate(t *testing.T, cfg Config) *Dataset {
	t.Helper()
	ds, err := NewGenerator(cfg, testAnchor).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return ds
}

func TestGenerateDefaultShape(t *testing.T) {
	ds := generate(t, DefaultConfig(42))

	if got := len(ds.Providers); got != 39 {
		t.Fatalf("expected 39 providers, got %d", got)
	}
	if got := len(ds.MedicalCodes); got != 84 {
		t.Fatalf("expected 84 medical codes, got %d", got)
	}
	if got := len(ds.InjuryTypes); got != 16 {
		t.Fatalf("expected 16 injury types, got %d", got)
	}
	if got := len(ds.Claims); got != 1200 {
		t.Fatalf("expected 1200 claims, got %d", got)
	}
	if err := ds.Validate(); err != nil {
		t.Fatalf("dataset validation: %v", err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := generate(t, DefaultConfig(7))
	b := generate(t, DefaultConfig(7))

	if len(a.Claims) != len(b.Claims) {
		t.Fatalf("claim counts differ: %d vs %d", len(a.Claims), len(b.Claims))
	}
	for i := range a.Claims {
		ca, cb := a.Claims[i], b.Claims[i]
		if ca.ClaimReference != cb.ClaimReference ||
			ca.Status != cb.Status ||
			ca.Region != cb.Region ||
			ca.PatientAge != cb.PatientAge ||
			ca.PatientSex != cb.PatientSex ||
			ca.CareLevel != cb.CareLevel ||
			ca.AmountNOK != cb.AmountNOK ||
			!ca.ReceivedDate.Equal(cb.ReceivedDate) {
			t.Fatalf("claim %d differs between runs with the same seed", i)
		}
	}
	if len(a.CodeLinks) != len(b.CodeLinks) || len(a.InjuryLinks) != len(b.InjuryLinks) {
		t.Fatal("association counts differ between runs with the same seed")
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a := generate(t, DefaultConfig(1))
	b := generate(t, DefaultConfig(2))

	same := 0
	for i := range a.Claims {
		if a.Claims[i].Status == b.Claims[i].Status && a.Claims[i].AmountNOK == b.Claims[i].AmountNOK {
			same++
		}
	}
	if same == len(a.Claims) {
		t.Fatal("different seeds produced an identical dataset")
	}
}

func TestProviderShape(t *testing.T) {
	ds := generate(t, DefaultConfig(11))

	perRegion := make(map[region.Region]int)
	for _, p := range ds.Providers {
		perRegion[p.Region]++
		if !strings.HasPrefix(p.OrgNumber, "NO") || len(p.OrgNumber) != 11 {
			t.Fatalf("bad org_number %q", p.OrgNumber)
		}
	}
	for _, reg := range region.All() {
		if perRegion[reg] != 3 {
			t.Fatalf("region %s has %d providers, want 3", reg, perRegion[reg])
		}
	}
}

func TestMedicalCodeFormats(t *testing.T) {
	ds := generate(t, DefaultConfig(13))

	for _, m := range ds.MedicalCodes {
		switch m.System {
		case medcode.SystemICD10:
			// Ixx.c where c = (seq*7) mod 10.
			if len(m.Code) != 5 || m.Code[0] != 'I' || m.Code[3] != '.' {
				t.Fatalf("bad ICD10 code %q", m.Code)
			}
		case medcode.SystemNCSP:
			if len(m.Code) != 4 || m.Code[0] != 'N' {
				t.Fatalf("bad NCSP code %q", m.Code)
			}
		case medcode.SystemICPC2:
			if len(m.Code) != 3 || m.Code[0] != 'P' {
				t.Fatalf("bad ICPC2 code %q", m.Code)
			}
		case medcode.SystemOther:
			if len(m.Code) != 4 || m.Code[0] != 'O' {
				t.Fatalf("bad Other code %q", m.Code)
			}
		}
	}

	// The first ICD10 code is deterministic: seq=1 gives digit (1*7)%10 = 7.
	if ds.MedicalCodes[0].Code != "I01.7" {
		t.Fatalf("expected first ICD10 code I01.7, got %q", ds.MedicalCodes[0].Code)
	}
}

func TestClaimInvariants(t *testing.T) {
	ds := generate(t, DefaultConfig(99))

	for _, c := range ds.Claims {
		switch c.Status {
		case claim.StatusClosed:
			if c.Decision == nil || c.DecisionDate == nil {
				t.Fatalf("closed claim %s missing decision fields", c.ClaimReference)
			}
			if c.DecisionDate.Before(c.ReceivedDate) {
				t.Fatalf("claim %s decided before received", c.ClaimReference)
			}
			if *c.Decision == claim.DecisionRejected && c.AmountNOK != 0 {
				t.Fatalf("rejected claim %s has payout %v", c.ClaimReference, c.AmountNOK)
			}
			if c.AmountNOK < 0 || c.AmountNOK > 2000000 {
				t.Fatalf("claim %s payout %v out of range", c.ClaimReference, c.AmountNOK)
			}
		default:
			if c.Decision != nil || c.DecisionDate != nil || c.AmountNOK != 0 {
				t.Fatalf("open claim %s carries decision fields", c.ClaimReference)
			}
		}
		if c.ReceivedDate.After(testAnchor) {
			t.Fatalf("claim %s received in the future", c.ClaimReference)
		}
		if testAnchor.Sub(c.ReceivedDate) > 1096*24*time.Hour {
			t.Fatalf("claim %s received before the lookback window", c.ClaimReference)
		}
	}
}

func TestStatusMixRoughlyMatchesWeights(t *testing.T) {
	ds := generate(t, DefaultConfig(123))

	counts := make(map[claim.Status]int)
	for _, c := range ds.Claims {
		counts[c.Status]++
	}
	n := float64(len(ds.Claims))
	closed := float64(counts[claim.StatusClosed]) / n
	inReview := float64(counts[claim.StatusInReview]) / n

	// 1200 draws; allow a generous band around the configured weights.
	if closed < 0.62 || closed > 0.78 {
		t.Fatalf("closed fraction %v far from 0.70", closed)
	}
	if inReview < 0.13 || inReview > 0.27 {
		t.Fatalf("in-review fraction %v far from 0.20", inReview)
	}
}

func TestAssociationBounds(t *testing.T) {
	ds := generate(t, DefaultConfig(5))

	codeCount := make(map[string]int)
	for _, l := range ds.CodeLinks {
		codeCount[l.ClaimID.String()]++
	}
	injCount := make(map[string]int)
	for _, l := range ds.InjuryLinks {
		injCount[l.ClaimID.String()]++
	}
	for _, c := range ds.Claims {
		id := c.ID.String()
		if n := codeCount[id]; n < 1 || n > 3 {
			t.Fatalf("claim %s has %d codes", c.ClaimReference, n)
		}
		if n := injCount[id]; n < 1 || n > 2 {
			t.Fatalf("claim %s has %d injuries", c.ClaimReference, n)
		}
	}
}

func TestClaimReferencesUnique(t *testing.T) {
	ds := generate(t, DefaultConfig(17))

	seen := make(map[string]struct{}, len(ds.Claims))
	for _, c := range ds.Claims {
		if !strings.HasPrefix(c.ClaimReference, "KRV-20250615-") {
			t.Fatalf("unexpected claim reference %q", c.ClaimReference)
		}
		if _, dup := seen[c.ClaimReference]; dup {
			t.Fatalf("duplicate claim reference %q", c.ClaimReference)
		}
		seen[c.ClaimReference] = struct{}{}
	}
}

func TestGenerateSmallShape(t *testing.T) {
	cfg := Config{
		Seed:                3,
		ProvidersPerRegion:  1,
		CodesPerSystem:      2,
		InjuryTypes:         4,
		Claims:              25,
		LookbackDays:        30,
		MaxCodesPerClaim:    2,
		MaxInjuriesPerClaim: 2,
	}
	ds := generate(t, cfg)
	if len(ds.Providers) != 13 || len(ds.MedicalCodes) != 8 || len(ds.Claims) != 25 {
		t.Fatalf("unexpected shape: %d providers, %d codes, %d claims",
			len(ds.Providers), len(ds.MedicalCodes), len(ds.Claims))
	}
	if err := ds.Validate(); err != nil {
		t.Fatalf("dataset validation: %v", err)
	}
}
