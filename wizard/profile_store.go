package wizard

import (
	"errors"
	"fmt"

	"venturepath-backend/models"
)

// Field names a settable profile field
type Field string

const (
	FieldGender         Field = "gender"
	FieldAge            Field = "age"
	FieldFeelingLost    Field = "feeling_lost"
	FieldLifeStagnant   Field = "life_stagnant"
	FieldStressLevel    Field = "stress_level"
	FieldName           Field = "name"
	FieldPersonality    Field = "personality"
	FieldSkills         Field = "skills"
	FieldExperience     Field = "experience"
	FieldInterests      Field = "interests"
	FieldBudget         Field = "budget"
	FieldTimeCommitment Field = "time_commitment"
	FieldMonthlyDebt    Field = "monthly_debt"
	FieldRiskTolerance  Field = "risk_tolerance"
	FieldFamilyStatus   Field = "family_status"

	FieldEmploymentStatus Field = "employment_status"
	FieldCurrentJob       Field = "current_job"
	FieldCurrentSalary    Field = "current_salary"
	FieldWorkHours        Field = "work_hours"
	FieldTargetIncome     Field = "target_income"

	FieldHasIndustryIdea Field = "has_industry_idea"
	FieldTargetIndustry  Field = "target_industry"
	FieldAmbition        Field = "ambition"
)

var (
	// ErrUnknownField is returned for a field name the profile does not declare
	ErrUnknownField = errors.New("unknown profile field")

	// ErrInvalidValue is returned when a value's type does not match the field
	ErrInvalidValue = errors.New("invalid value for profile field")

	// ErrFieldNotApplicable is returned for a variant field whose branch is
	// not active, e.g. setting target_income while employed. Switch the
	// branch first via employment_status or has_industry_idea.
	ErrFieldNotApplicable = errors.New("field not applicable in current profile branch")
)

// ProfileStore holds the in-progress profile and mutates it one field at a
// time. It performs no completeness validation; that is the step validator's
// job.
type ProfileStore struct {
	profile *models.UserProfile
}

// NewProfileStore creates a store holding a profile with default values.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profile: models.NewUserProfile()}
}

// Profile returns the in-progress profile.
func (s *ProfileStore) Profile() *models.UserProfile {
	return s.profile
}

// Set mutates exactly one named field, leaving all others untouched. Values
// are not validated beyond their type. Branch fields require their branch to
// be active.
func (s *ProfileStore) Set(field Field, value any) error {
	p := s.profile

	switch field {
	case FieldGender:
		return setString(&p.Gender, field, value)
	case FieldAge:
		return setString(&p.Age, field, value)
	case FieldFeelingLost:
		return setBool(&p.FeelingLost, field, value)
	case FieldLifeStagnant:
		return setBool(&p.LifeStagnant, field, value)
	case FieldStressLevel:
		return setInt(&p.StressLevel, field, value)
	case FieldName:
		return setString(&p.Name, field, value)
	case FieldPersonality:
		return setString(&p.Personality, field, value)
	case FieldSkills:
		return setString(&p.Skills, field, value)
	case FieldExperience:
		return setString(&p.Experience, field, value)
	case FieldInterests:
		return setString(&p.Interests, field, value)
	case FieldBudget:
		return setString(&p.Budget, field, value)
	case FieldTimeCommitment:
		return setString(&p.TimeCommitment, field, value)
	case FieldMonthlyDebt:
		return setString(&p.MonthlyDebt, field, value)

	case FieldRiskTolerance:
		var v string
		if err := setString(&v, field, value); err != nil {
			return err
		}
		p.RiskTolerance = models.RiskTolerance(v)
		return nil

	case FieldFamilyStatus:
		var v string
		if err := setString(&v, field, value); err != nil {
			return err
		}
		p.FamilyStatus = models.FamilyStatus(v)
		return nil

	case FieldEmploymentStatus:
		var v string
		if err := setString(&v, field, value); err != nil {
			return err
		}
		p.Employment.SetStatus(models.EmploymentStatus(v))
		return nil

	case FieldCurrentJob:
		if p.Employment.Employed == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotApplicable, field)
		}
		return setString(&p.Employment.Employed.Job, field, value)

	case FieldCurrentSalary:
		if p.Employment.Employed == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotApplicable, field)
		}
		return setString(&p.Employment.Employed.Salary, field, value)

	case FieldWorkHours:
		if p.Employment.Employed == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotApplicable, field)
		}
		return setString(&p.Employment.Employed.Hours, field, value)

	case FieldTargetIncome:
		if p.Employment.Seeking == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotApplicable, field)
		}
		return setString(&p.Employment.Seeking.TargetIncome, field, value)

	case FieldHasIndustryIdea:
		var v bool
		if err := setBool(&v, field, value); err != nil {
			return err
		}
		if v {
			industry := ""
			if p.Direction.Industry != nil {
				industry = p.Direction.Industry.Industry
			}
			p.Direction.Target(industry)
		} else {
			ambition := models.AmbitionSideHustle
			if p.Direction.Open != nil {
				ambition = p.Direction.Open.Ambition
			}
			p.Direction.OpenTo(ambition)
		}
		return nil

	case FieldTargetIndustry:
		if p.Direction.Industry == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotApplicable, field)
		}
		return setString(&p.Direction.Industry.Industry, field, value)

	case FieldAmbition:
		if p.Direction.Open == nil {
			return fmt.Errorf("%w: %s", ErrFieldNotApplicable, field)
		}
		var v string
		if err := setString(&v, field, value); err != nil {
			return err
		}
		p.Direction.Open.Ambition = models.Ambition(v)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func setString(dst *string, field Field, value any) error {
	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: %s wants a string", ErrInvalidValue, field)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, field Field, value any) error {
	v, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%w: %s wants a bool", ErrInvalidValue, field)
	}
	*dst = v
	return nil
}

func setInt(dst *int, field Field, value any) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case float64:
		// JSON numbers decode as float64
		*dst = int(v)
	default:
		return fmt.Errorf("%w: %s wants a number", ErrInvalidValue, field)
	}
	return nil
}
