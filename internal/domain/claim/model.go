// Package claim holds the claim fact entity and its two association sets.
package claim

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kravdata/kravdata/internal/domain/region"
)

// Status is the claim lifecycle state.
type Status string

const (
	StatusReceived Status = "Received"
	StatusInReview Status = "InReview"
	StatusClosed   Status = "Closed"
)

// AllStatuses returns statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusReceived, StatusInReview, StatusClosed}
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	return s == StatusReceived || s == StatusInReview || s == StatusClosed
}

// Decision is the outcome of a closed claim.
type Decision string

const (
	DecisionApproved          Decision = "Approved"
	DecisionRejected          Decision = "Rejected"
	DecisionPartiallyApproved Decision = "PartiallyApproved"
)

// ValidDecision reports whether d is a known decision.
func ValidDecision(d Decision) bool {
	return d == DecisionApproved || d == DecisionRejected || d == DecisionPartiallyApproved
}

// Approving reports whether d counts toward the approval rate.
func (d Decision) Approving() bool {
	return d == DecisionApproved || d == DecisionPartiallyApproved
}

// Sex is the recorded patient sex.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexOther   Sex = "X"
	SexUnknown Sex = "U"
)

// ValidSex reports whether s is a known sex marker.
func ValidSex(s Sex) bool {
	return s == SexMale || s == SexFemale || s == SexOther || s == SexUnknown
}

// CareLevel is the level of care the claim relates to.
type CareLevel string

const (
	CarePrimary    CareLevel = "Primary"
	CareSpecialist CareLevel = "Specialist"
	CareHospital   CareLevel = "Hospital"
)

// ValidCareLevel reports whether c is a known care level.
func ValidCareLevel(c CareLevel) bool {
	return c == CarePrimary || c == CareSpecialist || c == CareHospital
}

// Patient age bounds, inclusive.
const (
	MinPatientAge = 0
	MaxPatientAge = 120
)

// Claim maps to the claim table.
type Claim struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	ClaimReference string        `db:"claim_reference" json:"claim_reference"`
	PatientAge     int           `db:"patient_age" json:"patient_age"`
	PatientSex     Sex           `db:"patient_sex" json:"patient_sex"`
	Region         region.Region `db:"region" json:"region"`
	ReceivedDate   time.Time     `db:"received_date" json:"received_date"`
	DecisionDate   *time.Time    `db:"decision_date" json:"decision_date,omitempty"`
	Status         Status        `db:"status" json:"status"`
	Decision       *Decision     `db:"decision" json:"decision,omitempty"`
	CareLevel      CareLevel     `db:"care_level" json:"care_level"`
	AmountNOK      float64       `db:"claim_amount_nok" json:"claim_amount_nok"`
	ProviderID     uuid.UUID     `db:"provider_id" json:"provider_id"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// Validate mirrors the claim table's check constraints plus the cross-field
// rules the generator guarantees. A closed claim must carry a decision and a
// decision date; an open one must carry neither and a zero payout.
func (c *Claim) Validate() error {
	if c.ClaimReference == "" {
		return fmt.Errorf("claim %s: claim_reference is required", c.ID)
	}
	if c.PatientAge < MinPatientAge || c.PatientAge > MaxPatientAge {
		return fmt.Errorf("claim %s: patient_age %d out of range [%d,%d]", c.ID, c.PatientAge, MinPatientAge, MaxPatientAge)
	}
	if !ValidSex(c.PatientSex) {
		return fmt.Errorf("claim %s: invalid patient_sex %q", c.ID, c.PatientSex)
	}
	if !region.Valid(c.Region) {
		return fmt.Errorf("claim %s: invalid region %q", c.ID, c.Region)
	}
	if c.ReceivedDate.IsZero() {
		return fmt.Errorf("claim %s: received_date is required", c.ID)
	}
	if !ValidStatus(c.Status) {
		return fmt.Errorf("claim %s: invalid status %q", c.ID, c.Status)
	}
	if !ValidCareLevel(c.CareLevel) {
		return fmt.Errorf("claim %s: invalid care_level %q", c.ID, c.CareLevel)
	}
	if c.AmountNOK < 0 {
		return fmt.Errorf("claim %s: negative claim_amount_nok %.2f", c.ID, c.AmountNOK)
	}
	if c.ProviderID == uuid.Nil {
		return fmt.Errorf("claim %s: provider_id is required", c.ID)
	}

	if c.Status == StatusClosed {
		if c.Decision == nil {
			return fmt.Errorf("claim %s: closed claim without decision", c.ID)
		}
		if !ValidDecision(*c.Decision) {
			return fmt.Errorf("claim %s: invalid decision %q", c.ID, *c.Decision)
		}
		if c.DecisionDate == nil {
			return fmt.Errorf("claim %s: closed claim without decision_date", c.ID)
		}
		if *c.Decision == DecisionRejected && c.AmountNOK != 0 {
			return fmt.Errorf("claim %s: rejected claim with payout %.2f", c.ID, c.AmountNOK)
		}
	} else {
		if c.Decision != nil {
			return fmt.Errorf("claim %s: decision set on %s claim", c.ID, c.Status)
		}
		if c.DecisionDate != nil {
			return fmt.Errorf("claim %s: decision_date set on %s claim", c.ID, c.Status)
		}
		if c.AmountNOK != 0 {
			return fmt.Errorf("claim %s: payout %.2f on %s claim", c.ID, c.AmountNOK, c.Status)
		}
	}
	if c.DecisionDate != nil && c.DecisionDate.Before(c.ReceivedDate) {
		return fmt.Errorf("claim %s: decision_date %s before received_date %s",
			c.ID, c.DecisionDate.Format("2006-01-02"), c.ReceivedDate.Format("2006-01-02"))
	}
	return nil
}

// ProcessingDays returns the elapsed whole days between the received and
// decision dates as a float, and false when no decision date is present.
func (c *Claim) ProcessingDays() (float64, bool) {
	if c.DecisionDate == nil {
		return 0, false
	}
	return c.DecisionDate.Sub(c.ReceivedDate).Hours() / 24, true
}

// CodeRole marks a medical code's role on a claim.
type CodeRole string

const (
	RolePrimary   CodeRole = "Primary"
	RoleSecondary CodeRole = "Secondary"
)

// ValidCodeRole reports whether r is a known code role.
func ValidCodeRole(r CodeRole) bool {
	return r == RolePrimary || r == RoleSecondary
}

// MedicalCodeLink maps to the claim_medical_code association table.
type MedicalCodeLink struct {
	ClaimID       uuid.UUID `db:"claim_id" json:"claim_id"`
	MedicalCodeID uuid.UUID `db:"medical_code_id" json:"medical_code_id"`
	Role          CodeRole  `db:"role" json:"role"`
}

// Validate checks the association's identity and role.
func (l *MedicalCodeLink) Validate() error {
	if l.ClaimID == uuid.Nil || l.MedicalCodeID == uuid.Nil {
		return fmt.Errorf("claim_medical_code: both claim_id and medical_code_id are required")
	}
	if !ValidCodeRole(l.Role) {
		return fmt.Errorf("claim_medical_code %s/%s: invalid role %q", l.ClaimID, l.MedicalCodeID, l.Role)
	}
	return nil
}

// InjuryLink maps to the claim_injury association table.
type InjuryLink struct {
	ClaimID      uuid.UUID `db:"claim_id" json:"claim_id"`
	InjuryTypeID uuid.UUID `db:"injury_type_id" json:"injury_type_id"`
	IsPrimary    bool      `db:"is_primary" json:"is_primary"`
}

// Validate checks the association's identity.
func (l *InjuryLink) Validate() error {
	if l.ClaimID == uuid.Nil || l.InjuryTypeID == uuid.Nil {
		return fmt.Errorf("claim_injury: both claim_id and injury_type_id are required")
	}
	return nil
}
