package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/injury"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/provider"
	"github.com/kravdata/kravdata/internal/domain/region"
)

// claimRefPrefix is the fixed prefix of generated claim references.
const claimRefPrefix = "KRV"

// regionWeights is the cumulative claim-region distribution, aligned with
// region.All(). Oslo and Viken together carry ~38% of the volume.
var regionWeights = []float64{
	0.18,  // Oslo
	0.38,  // Viken
	0.50,  // Vestland
	0.60,  // Rogaland
	0.69,  // Trondelag
	0.76,  // Innlandet
	0.82,  // Agder
	0.87,  // MoreOgRomsdal
	0.91,  // Nordland
	0.94,  // Telemark
	0.97,  // Troms
	0.985, // Finnmark
	1.0,   // Other
}

// Generator produces one dataset from a single pseudo-random stream. Draws
// happen in a fixed order (providers, codes, injury types, claims, code
// links, injury links) so the same seed reproduces the same dataset.
type Generator struct {
	cfg Config
	rng *rand.Rand
	now time.Time
}

// NewGenerator builds a generator anchored at now (dates are relative to it).
func NewGenerator(cfg Config, now time.Time) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		now: now.UTC().Truncate(24 * time.Hour),
	}
}

// Generate produces a full dataset. The returned dataset satisfies every
// storage constraint by construction; Dataset.Validate double-checks that.
func (g *Generator) Generate() (*Dataset, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	ds := &Dataset{GeneratedAt: g.now, Config: g.cfg}
	ds.Providers = g.providers()
	ds.MedicalCodes = g.medicalCodes()
	ds.InjuryTypes = g.injuryTypes()
	ds.Claims = g.claims(ds.Providers)

	activeCodes := activeCodeIDs(ds.MedicalCodes)
	activeInjuries := activeInjuryIDs(ds.InjuryTypes)
	if len(activeCodes) < g.cfg.MaxCodesPerClaim {
		return nil, fmt.Errorf("seed: only %d active medical codes, need at least %d", len(activeCodes), g.cfg.MaxCodesPerClaim)
	}
	if len(activeInjuries) < g.cfg.MaxInjuriesPerClaim {
		return nil, fmt.Errorf("seed: only %d active injury types, need at least %d", len(activeInjuries), g.cfg.MaxInjuriesPerClaim)
	}
	ds.CodeLinks = g.codeLinks(ds.Claims, activeCodes)
	ds.InjuryLinks = g.injuryLinks(ds.Claims, activeInjuries)
	return ds, nil
}

// providers emits ProvidersPerRegion rows per region. The provider type
// cycles through the 5 types by global sequence so every type appears; the
// slot letter keeps (name, region) unique within a region.
func (g *Generator) providers() []*provider.Provider {
	types := provider.AllTypes()
	out := make([]*provider.Provider, 0, len(region.All())*g.cfg.ProvidersPerRegion)
	seq := 0
	for _, reg := range region.All() {
		for slot := 1; slot <= g.cfg.ProvidersPerRegion; slot++ {
			seq++
			pt := types[(seq-1)%len(types)]
			out = append(out, &provider.Provider{
				ID:        uuid.New(),
				Name:      fmt.Sprintf("%s %s %c", reg, pt, 'A'+slot-1),
				OrgNumber: fmt.Sprintf("NO%09d", seq),
				Type:      pt,
				Region:    reg,
				Active:    g.rng.Float64() < 0.92,
				CreatedAt: g.now,
			})
		}
	}
	return out
}

// medicalCodes emits CodesPerSystem rows per coding system. Code formats
// differ per system; the ICD10 trailing digit is (seq*7) mod 10.
func (g *Generator) medicalCodes() []*medcode.MedicalCode {
	out := make([]*medcode.MedicalCode, 0, len(medcode.AllSystems())*g.cfg.CodesPerSystem)
	for _, sys := range medcode.AllSystems() {
		for seq := 1; seq <= g.cfg.CodesPerSystem; seq++ {
			var code string
			switch sys {
			case medcode.SystemICD10:
				code = fmt.Sprintf("I%02d.%d", seq, (seq*7)%10)
			case medcode.SystemNCSP:
				code = fmt.Sprintf("N%03d", seq)
			case medcode.SystemICPC2:
				code = fmt.Sprintf("P%02d", seq)
			default:
				code = fmt.Sprintf("O%03d", seq)
			}
			out = append(out, &medcode.MedicalCode{
				ID:     uuid.New(),
				System: sys,
				Code:   code,
				Title:  fmt.Sprintf("%s condition %d", sys, seq),
				Active: g.rng.Float64() < 0.95,
			})
		}
	}
	return out
}

func (g *Generator) injuryTypes() []*injury.InjuryType {
	groups := injury.AllGroups()
	out := make([]*injury.InjuryType, 0, g.cfg.InjuryTypes)
	for seq := 1; seq <= g.cfg.InjuryTypes; seq++ {
		grp := groups[(seq-1)%len(groups)]
		out = append(out, &injury.InjuryType{
			ID:       uuid.New(),
			Group:    grp,
			Name:     fmt.Sprintf("%s injury %d", grp, seq),
			Severity: 1 + ((seq - 1) % 5),
			Active:   true,
		})
	}
	return out
}

func (g *Generator) claims(providers []*provider.Provider) []*claim.Claim {
	stamp := g.now.Format("20060102")
	out := make([]*claim.Claim, 0, g.cfg.Claims)
	for seq := 1; seq <= g.cfg.Claims; seq++ {
		c := &claim.Claim{
			ID:             uuid.New(),
			ClaimReference: fmt.Sprintf("%s-%s-%06d", claimRefPrefix, stamp, seq),
			CreatedAt:      g.now,
		}
		c.ReceivedDate = g.now.AddDate(0, 0, -g.rng.Intn(g.cfg.LookbackDays+1))
		c.Status = g.drawStatus()
		c.PatientAge = g.rng.Intn(91)
		c.PatientSex = g.drawSex()
		c.CareLevel = g.drawCareLevel()
		c.Region = g.drawRegion()
		c.ProviderID = providers[g.rng.Intn(len(providers))].ID

		if c.Status == claim.StatusClosed {
			d := g.drawDecision()
			c.Decision = &d
			decided := c.ReceivedDate.AddDate(0, 0, 1+g.rng.Intn(180))
			c.DecisionDate = &decided
			if d != claim.DecisionRejected {
				c.AmountNOK = g.drawPayout()
			}
		}
		out = append(out, c)
	}
	return out
}

func (g *Generator) drawStatus() claim.Status {
	u := g.rng.Float64()
	switch {
	case u < 0.70:
		return claim.StatusClosed
	case u < 0.90:
		return claim.StatusInReview
	default:
		return claim.StatusReceived
	}
}

func (g *Generator) drawSex() claim.Sex {
	u := g.rng.Float64()
	switch {
	case u < 0.49:
		return claim.SexMale
	case u < 0.98:
		return claim.SexFemale
	case u < 0.99:
		return claim.SexOther
	default:
		return claim.SexUnknown
	}
}

func (g *Generator) drawCareLevel() claim.CareLevel {
	u := g.rng.Float64()
	switch {
	case u < 0.55:
		return claim.CarePrimary
	case u < 0.85:
		return claim.CareSpecialist
	default:
		return claim.CareHospital
	}
}

func (g *Generator) drawRegion() region.Region {
	u := g.rng.Float64()
	all := region.All()
	for i, cum := range regionWeights {
		if u < cum {
			return all[i]
		}
	}
	return all[len(all)-1]
}

func (g *Generator) drawDecision() claim.Decision {
	u := g.rng.Float64()
	switch {
	case u < 0.55:
		return claim.DecisionApproved
	case u < 0.85:
		return claim.DecisionRejected
	default:
		return claim.DecisionPartiallyApproved
	}
}

// drawPayout produces a right-skewed amount: the product of two uniforms
// concentrates mass near zero, with a rare high-value tail up to 2,000,000.
func (g *Generator) drawPayout() float64 {
	var amount float64
	if g.rng.Float64() < 0.95 {
		amount = g.rng.Float64() * g.rng.Float64() * 250000
	} else {
		amount = 250000 + g.rng.Float64()*1750000
	}
	return math.Round(amount*100) / 100
}

// codeLinks draws 1..MaxCodesPerClaim distinct active codes per claim; the
// first drawn gets the Primary role.
func (g *Generator) codeLinks(claims []*claim.Claim, codes []uuid.UUID) []*claim.MedicalCodeLink {
	var out []*claim.MedicalCodeLink
	for _, c := range claims {
		n := 1 + g.rng.Intn(g.cfg.MaxCodesPerClaim)
		for i, id := range g.drawDistinct(codes, n) {
			role := claim.RoleSecondary
			if i == 0 {
				role = claim.RolePrimary
			}
			out = append(out, &claim.MedicalCodeLink{ClaimID: c.ID, MedicalCodeID: id, Role: role})
		}
	}
	return out
}

// injuryLinks draws 1..MaxInjuriesPerClaim distinct active injury types per
// claim; the first drawn is the primary injury.
func (g *Generator) injuryLinks(claims []*claim.Claim, injuries []uuid.UUID) []*claim.InjuryLink {
	var out []*claim.InjuryLink
	for _, c := range claims {
		n := 1 + g.rng.Intn(g.cfg.MaxInjuriesPerClaim)
		for i, id := range g.drawDistinct(injuries, n) {
			out = append(out, &claim.InjuryLink{ClaimID: c.ID, InjuryTypeID: id, IsPrimary: i == 0})
		}
	}
	return out
}

// drawDistinct picks n distinct elements without replacement, preserving
// draw order. Re-draws on collision, which terminates because n never
// exceeds len(pool) (checked in Generate).
func (g *Generator) drawDistinct(pool []uuid.UUID, n int) []uuid.UUID {
	picked := make([]uuid.UUID, 0, n)
	seen := make(map[uuid.UUID]struct{}, n)
	for len(picked) < n {
		id := pool[g.rng.Intn(len(pool))]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		picked = append(picked, id)
	}
	return picked
}

func activeCodeIDs(codes []*medcode.MedicalCode) []uuid.UUID {
	var out []uuid.UUID
	for _, c := range codes {
		if c.Active {
			out = append(out, c.ID)
		}
	}
	return out
}

func activeInjuryIDs(injuries []*injury.InjuryType) []uuid.UUID {
	var out []uuid.UUID
	for _, it := range injuries {
		if it.Active {
			out = append(out, it.ID)
		}
	}
	return out
}
