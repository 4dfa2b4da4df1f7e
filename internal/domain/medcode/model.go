// Package medcode holds the medical-code dimension (diagnosis and
// procedure coding systems referenced by claims).
package medcode

import (
	"fmt"

	"github.com/google/uuid"
)

// System identifies the coding system a code belongs to.
type System string

const (
	SystemICD10 System = "ICD10"
	SystemNCSP  System = "NCSP"
	SystemICPC2 System = "ICPC2"
	SystemOther System = "Other"
)

// AllSystems returns the coding systems in declaration order.
func AllSystems() []System {
	return []System{SystemICD10, SystemNCSP, SystemICPC2, SystemOther}
}

// ValidSystem reports whether s is a known coding system.
func ValidSystem(s System) bool {
	for _, known := range AllSystems() {
		if s == known {
			return true
		}
	}
	return false
}

// MedicalCode maps to the medical_code table.
type MedicalCode struct {
	ID     uuid.UUID `db:"id" json:"id"`
	System System    `db:"code_system" json:"code_system"`
	Code   string    `db:"code" json:"code"`
	Title  string    `db:"title" json:"title"`
	Active bool      `db:"active" json:"active"`
}

// Validate mirrors the medical_code table's check constraints.
func (m *MedicalCode) Validate() error {
	if !ValidSystem(m.System) {
		return fmt.Errorf("medical code %s: invalid code_system %q", m.ID, m.System)
	}
	if m.Code == "" {
		return fmt.Errorf("medical code %s: code is required", m.ID)
	}
	if m.Title == "" {
		return fmt.Errorf("medical code %s: title is required", m.ID)
	}
	return nil
}
