package wizard

import (
	"venturepath-backend/models"
)

// Step identifies one page of the wizard
type Step int

const (
	StepDemographics Step = iota
	StepResources
	StepBackground
	StepDirection
	StepPressure
)

// StepCount is the number of wizard steps
const StepCount = 5

// String returns the step's name
func (s Step) String() string {
	switch s {
	case StepDemographics:
		return "demographics"
	case StepResources:
		return "resources"
	case StepBackground:
		return "background"
	case StepDirection:
		return "direction"
	case StepPressure:
		return "pressure"
	default:
		return "unknown"
	}
}

// IsStepComplete reports whether the step's required fields are filled in.
// It is a pure predicate: no side effects, evaluated before allowing a
// forward transition. Backward navigation never consults it.
//
// Completeness means a non-empty string, never a non-zero number: debt of
// "0" is a legitimate entry and must not read as missing.
func IsStepComplete(step Step, p *models.UserProfile) bool {
	switch step {
	case StepDemographics:
		return p.Age != ""

	case StepResources:
		return p.Budget != "" && p.TimeCommitment != ""

	case StepBackground:
		if p.Experience == "" {
			return false
		}
		if p.Employment.Status == models.EmploymentEmployed {
			e := p.Employment.Employed
			return e != nil && e.Job != "" && e.Salary != "" && e.Hours != ""
		}
		return p.Employment.Seeking != nil && p.Employment.Seeking.TargetIncome != ""

	case StepDirection:
		if p.Direction.HasIndustryIdea() {
			return p.Direction.Industry.Industry != ""
		}
		return true

	case StepPressure:
		// Debt may legitimately be empty or zero; every field has a default.
		return true

	default:
		return true
	}
}
