package seed

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kravdata/kravdata/internal/domain/claim"
	"github.com/kravdata/kravdata/internal/domain/injury"
	"github.com/kravdata/kravdata/internal/domain/medcode"
	"github.com/kravdata/kravdata/internal/domain/provider"
)

// Dataset is one fully generated, in-memory dataset ready for loading.
type Dataset struct {
	GeneratedAt  time.Time
	Config       Config
	Providers    []*provider.Provider
	MedicalCodes []*medcode.MedicalCode
	InjuryTypes  []*injury.InjuryType
	Claims       []*claim.Claim
	CodeLinks    []*claim.MedicalCodeLink
	InjuryLinks  []*claim.InjuryLink
}

// Validate checks the whole dataset against the storage constraints before
// any row reaches the database: row-level rules, uniqueness and referential
// closure, plus the per-claim association bounds.
func (ds *Dataset) Validate() error {
	providerIDs := make(map[uuid.UUID]struct{}, len(ds.Providers))
	orgNumbers := make(map[string]struct{}, len(ds.Providers))
	nameRegion := make(map[string]struct{}, len(ds.Providers))
	for _, p := range ds.Providers {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := orgNumbers[p.OrgNumber]; dup {
			return fmt.Errorf("dataset: duplicate org_number %s", p.OrgNumber)
		}
		orgNumbers[p.OrgNumber] = struct{}{}
		key := p.Name + "|" + string(p.Region)
		if _, dup := nameRegion[key]; dup {
			return fmt.Errorf("dataset: duplicate provider name %q in region %s", p.Name, p.Region)
		}
		nameRegion[key] = struct{}{}
		providerIDs[p.ID] = struct{}{}
	}

	codeIDs := make(map[uuid.UUID]struct{}, len(ds.MedicalCodes))
	sysCode := make(map[string]struct{}, len(ds.MedicalCodes))
	for _, m := range ds.MedicalCodes {
		if err := m.Validate(); err != nil {
			return err
		}
		key := string(m.System) + "|" + m.Code
		if _, dup := sysCode[key]; dup {
			return fmt.Errorf("dataset: duplicate medical code %s/%s", m.System, m.Code)
		}
		sysCode[key] = struct{}{}
		codeIDs[m.ID] = struct{}{}
	}

	injuryIDs := make(map[uuid.UUID]struct{}, len(ds.InjuryTypes))
	groupName := make(map[string]struct{}, len(ds.InjuryTypes))
	for _, it := range ds.InjuryTypes {
		if err := it.Validate(); err != nil {
			return err
		}
		key := string(it.Group) + "|" + it.Name
		if _, dup := groupName[key]; dup {
			return fmt.Errorf("dataset: duplicate injury type %s/%s", it.Group, it.Name)
		}
		groupName[key] = struct{}{}
		injuryIDs[it.ID] = struct{}{}
	}

	claimIDs := make(map[uuid.UUID]struct{}, len(ds.Claims))
	refs := make(map[string]struct{}, len(ds.Claims))
	for _, c := range ds.Claims {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := refs[c.ClaimReference]; dup {
			return fmt.Errorf("dataset: duplicate claim_reference %s", c.ClaimReference)
		}
		refs[c.ClaimReference] = struct{}{}
		if _, ok := providerIDs[c.ProviderID]; !ok {
			return fmt.Errorf("dataset: claim %s references unknown provider %s", c.ClaimReference, c.ProviderID)
		}
		claimIDs[c.ID] = struct{}{}
	}

	codeLinkCount := make(map[uuid.UUID]int, len(ds.Claims))
	primaryCodes := make(map[uuid.UUID]int, len(ds.Claims))
	linkKeys := make(map[string]struct{}, len(ds.CodeLinks))
	for _, l := range ds.CodeLinks {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, ok := claimIDs[l.ClaimID]; !ok {
			return fmt.Errorf("dataset: code link references unknown claim %s", l.ClaimID)
		}
		if _, ok := codeIDs[l.MedicalCodeID]; !ok {
			return fmt.Errorf("dataset: code link references unknown medical code %s", l.MedicalCodeID)
		}
		key := l.ClaimID.String() + "|" + l.MedicalCodeID.String()
		if _, dup := linkKeys[key]; dup {
			return fmt.Errorf("dataset: duplicate code link for claim %s", l.ClaimID)
		}
		linkKeys[key] = struct{}{}
		codeLinkCount[l.ClaimID]++
		if l.Role == claim.RolePrimary {
			primaryCodes[l.ClaimID]++
		}
	}

	injuryLinkCount := make(map[uuid.UUID]int, len(ds.Claims))
	primaryInjuries := make(map[uuid.UUID]int, len(ds.Claims))
	injKeys := make(map[string]struct{}, len(ds.InjuryLinks))
	for _, l := range ds.InjuryLinks {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, ok := claimIDs[l.ClaimID]; !ok {
			return fmt.Errorf("dataset: injury link references unknown claim %s", l.ClaimID)
		}
		if _, ok := injuryIDs[l.InjuryTypeID]; !ok {
			return fmt.Errorf("dataset: injury link references unknown injury type %s", l.InjuryTypeID)
		}
		key := l.ClaimID.String() + "|" + l.InjuryTypeID.String()
		if _, dup := injKeys[key]; dup {
			return fmt.Errorf("dataset: duplicate injury link for claim %s", l.ClaimID)
		}
		injKeys[key] = struct{}{}
		injuryLinkCount[l.ClaimID]++
		if l.IsPrimary {
			primaryInjuries[l.ClaimID]++
		}
	}

	for id := range claimIDs {
		n := codeLinkCount[id]
		if n < 1 || n > ds.Config.MaxCodesPerClaim {
			return fmt.Errorf("dataset: claim %s has %d medical codes, want 1..%d", id, n, ds.Config.MaxCodesPerClaim)
		}
		if primaryCodes[id] != 1 {
			return fmt.Errorf("dataset: claim %s has %d primary codes, want exactly 1", id, primaryCodes[id])
		}
		n = injuryLinkCount[id]
		if n < 1 || n > ds.Config.MaxInjuriesPerClaim {
			return fmt.Errorf("dataset: claim %s has %d injuries, want 1..%d", id, n, ds.Config.MaxInjuriesPerClaim)
		}
		if primaryInjuries[id] != 1 {
			return fmt.Errorf("dataset: claim %s has %d primary injuries, want exactly 1", id, primaryInjuries[id])
		}
	}
	return nil
}
