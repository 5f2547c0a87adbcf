package models

import (
	"database/sql/driver"
	"encoding/json"
)

// RiskTolerance represents how much risk the user is willing to take on
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "Low"
	RiskMedium RiskTolerance = "Medium"
	RiskHigh   RiskTolerance = "High"
)

// FamilyStatus represents the user's family situation
type FamilyStatus string

const (
	FamilySingle          FamilyStatus = "Single"
	FamilyMarried         FamilyStatus = "Married"
	FamilyMarriedWithKids FamilyStatus = "MarriedWithKids"
)

// EmploymentStatus represents the user's current work situation
type EmploymentStatus string

const (
	EmploymentEmployed   EmploymentStatus = "employed"
	EmploymentUnemployed EmploymentStatus = "unemployed"
	EmploymentFreelance  EmploymentStatus = "freelance"
)

// Ambition represents what the user is building toward when they have no
// target industry in mind
type Ambition string

const (
	AmbitionWealth     Ambition = "wealth"
	AmbitionSideHustle Ambition = "side_hustle"
)

// EmployedDetails holds the fields that only exist while the user holds a job
type EmployedDetails struct {
	Job    string `json:"job"`
	Salary string `json:"salary"`
	Hours  string `json:"hours"`
}

// SeekingDetails holds the fields for users without a current job
// (unemployed or freelance)
type SeekingDetails struct {
	TargetIncome string `json:"target_income"`
}

// Employment is a tagged variant over the user's work situation. Exactly one
// of Employed or Seeking is non-nil, driven by Status: Employed when Status is
// EmploymentEmployed, Seeking otherwise. Use SetStatus to switch branches so
// the stale branch is dropped.
type Employment struct {
	Status   EmploymentStatus `json:"status"`
	Employed *EmployedDetails `json:"employed,omitempty"`
	Seeking  *SeekingDetails  `json:"seeking,omitempty"`
}

// SetStatus switches the employment branch, clearing the branch that no
// longer applies and allocating the one that does.
func (e *Employment) SetStatus(status EmploymentStatus) {
	e.Status = status
	if status == EmploymentEmployed {
		if e.Employed == nil {
			e.Employed = &EmployedDetails{}
		}
		e.Seeking = nil
	} else {
		if e.Seeking == nil {
			e.Seeking = &SeekingDetails{}
		}
		e.Employed = nil
	}
}

// IndustryTarget holds the fields for users who already know which industry
// they want to be in
type IndustryTarget struct {
	Industry string `json:"industry"`
}

// OpenDirection holds the fields for users open to any idea
type OpenDirection struct {
	Ambition Ambition `json:"ambition"`
}

// Direction is a tagged variant over the user's business direction. Exactly
// one of Industry or Open is non-nil. Use Target or OpenTo to switch branches.
type Direction struct {
	Industry *IndustryTarget `json:"industry,omitempty"`
	Open     *OpenDirection  `json:"open,omitempty"`
}

// Target switches the direction to a specific industry.
func (d *Direction) Target(industry string) {
	d.Industry = &IndustryTarget{Industry: industry}
	d.Open = nil
}

// OpenTo switches the direction to open-ended with the given ambition.
func (d *Direction) OpenTo(ambition Ambition) {
	d.Open = &OpenDirection{Ambition: ambition}
	d.Industry = nil
}

// HasIndustryIdea reports whether the user picked a target industry.
func (d *Direction) HasIndustryIdea() bool {
	return d.Industry != nil
}

// UserProfile is the record assembled across the wizard steps. Money-like
// fields (budget, salary, debt, target income) are carried as the user's raw
// text and only parsed into typed amounts at the generation boundary, so an
// entry of "0" stays distinguishable from an empty field.
type UserProfile struct {
	// Demographics and mental state
	Gender       string `json:"gender"`
	Age          string `json:"age"`
	FeelingLost  bool   `json:"feeling_lost"`
	LifeStagnant bool   `json:"life_stagnant"`
	StressLevel  int    `json:"stress_level"` // 1-10

	// Background
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Skills      string `json:"skills"`
	Experience  string `json:"experience"`
	Interests   string `json:"interests"`

	// Resources and pressure
	Budget         string        `json:"budget"`
	TimeCommitment string        `json:"time_commitment"`
	MonthlyDebt    string        `json:"monthly_debt"`
	RiskTolerance  RiskTolerance `json:"risk_tolerance"`
	FamilyStatus   FamilyStatus  `json:"family_status"`

	Employment Employment `json:"employment"`
	Direction  Direction  `json:"direction"`
}

// NewUserProfile returns a profile with the wizard's defaults filled in.
func NewUserProfile() *UserProfile {
	p := &UserProfile{
		Gender:        "Male",
		StressLevel:   5,
		RiskTolerance: RiskMedium,
		FamilyStatus:  FamilySingle,
	}
	p.Employment.SetStatus(EmploymentEmployed)
	p.Direction.OpenTo(AmbitionSideHustle)
	return p
}

// Clone returns a deep copy of the profile. The controller hands a clone to
// the generation boundary so later edits cannot leak into an in-flight or
// finished report.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	if p.Employment.Employed != nil {
		e := *p.Employment.Employed
		c.Employment.Employed = &e
	}
	if p.Employment.Seeking != nil {
		s := *p.Employment.Seeking
		c.Employment.Seeking = &s
	}
	if p.Direction.Industry != nil {
		i := *p.Direction.Industry
		c.Direction.Industry = &i
	}
	if p.Direction.Open != nil {
		o := *p.Direction.Open
		c.Direction.Open = &o
	}
	return &c
}

// Value implements driver.Valuer for JSONB
func (p UserProfile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *UserProfile) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, p)
}
