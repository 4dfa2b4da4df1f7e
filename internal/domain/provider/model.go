// Package provider holds the care-provider dimension: the organizations
// that own claims.
package provider

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kravdata/kravdata/internal/domain/region"
)

// Type classifies a provider organization.
type Type string

const (
	TypeHospital   Type = "Hospital"
	TypeClinic     Type = "Clinic"
	TypeGP         Type = "GP"
	TypeSpecialist Type = "Specialist"
	TypeOther      Type = "Other"
)

// AllTypes returns provider types in declaration order; the seed generator
// cycles through them by slot index.
func AllTypes() []Type {
	return []Type{TypeHospital, TypeClinic, TypeGP, TypeSpecialist, TypeOther}
}

// ValidType reports whether t is a known provider type.
func ValidType(t Type) bool {
	for _, known := range AllTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Provider maps to the provider table.
type Provider struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	OrgNumber string        `db:"org_number" json:"org_number"`
	Type      Type          `db:"provider_type" json:"provider_type"`
	Region    region.Region `db:"region" json:"region"`
	Active    bool          `db:"active" json:"active"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// OrgNumberLen is the fixed width of an organization number: a two-letter
// country prefix followed by nine digits.
const OrgNumberLen = 11

// Validate mirrors the provider table's check constraints.
func (p *Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("provider %s: name is required", p.ID)
	}
	if len(p.OrgNumber) != OrgNumberLen {
		return fmt.Errorf("provider %s: org_number %q must be %d characters", p.ID, p.OrgNumber, OrgNumberLen)
	}
	if !ValidType(p.Type) {
		return fmt.Errorf("provider %s: invalid provider_type %q", p.ID, p.Type)
	}
	if !region.Valid(p.Region) {
		return fmt.Errorf("provider %s: invalid region %q", p.ID, p.Region)
	}
	return nil
}
