// Package injury holds the injury-type dimension referenced by claims.
package injury

import (
	"fmt"

	"github.com/google/uuid"
)

// Group classifies an injury type.
type Group string

const (
	GroupSurgical   Group = "Surgical"
	GroupMedication Group = "Medication"
	GroupInfection  Group = "Infection"
	GroupDiagnostic Group = "Diagnostic"
	GroupOther      Group = "Other"
)

// AllGroups returns injury groups in declaration order; the seed generator
// cycles through them by sequence index.
func AllGroups() []Group {
	return []Group{GroupSurgical, GroupMedication, GroupInfection, GroupDiagnostic, GroupOther}
}

// ValidGroup reports whether g is a known injury group.
func ValidGroup(g Group) bool {
	for _, known := range AllGroups() {
		if g == known {
			return true
		}
	}
	return false
}

// Severity bounds, inclusive.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// InjuryType maps to the injury_type table.
type InjuryType struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Group    Group     `db:"injury_group" json:"injury_group"`
	Name     string    `db:"name" json:"name"`
	Severity int       `db:"severity" json:"severity"`
	Active   bool      `db:"active" json:"active"`
}

// Validate mirrors the injury_type table's check constraints.
func (it *InjuryType) Validate() error {
	if !ValidGroup(it.Group) {
		return fmt.Errorf("injury type %s: invalid injury_group %q", it.ID, it.Group)
	}
	if it.Name == "" {
		return fmt.Errorf("injury type %s: name is required", it.ID)
	}
	if it.Severity < MinSeverity || it.Severity > MaxSeverity {
		return fmt.Errorf("injury type %s: severity %d out of range [%d,%d]", it.ID, it.Severity, MinSeverity, MaxSeverity)
	}
	return nil
}
