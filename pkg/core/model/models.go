package model

import (
	"fmt"
	"strings"
)

type Funder string

const (
	FunderNDIS    Funder = "NDIS"
	FunderNonNDIS Funder = "Non-NDIS"
	FunderUnknown Funder = "unknown"
)

func (f Funder) IsKnown() bool {
	return f == FunderNDIS || f == FunderNonNDIS
}

// ParseFunder maps a stored funder column to a Funder. Anything unrecognised is unknown.
func ParseFunder(s string) Funder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ndis":
		return FunderNDIS
	case "non-ndis", "non_ndis", "nonndis":
		return FunderNonNDIS
	default:
		return FunderUnknown
	}
}

type NDISPackageType string

const (
	NDISPackageNone        NDISPackageType = ""
	NDISPackageSTA         NDISPackageType = "sta"
	NDISPackageHoliday     NDISPackageType = "holiday"
	NDISPackageHolidayPlus NDISPackageType = "holiday-plus"
)

type CarePattern string

const (
	CarePatternNone      CarePattern = "no-care"
	CarePatternMinimal   CarePattern = "minimal-care"
	CarePatternModerate  CarePattern = "moderate-care"
	CarePatternHigh      CarePattern = "high-care"
	CarePatternIntensive CarePattern = "intensive-care"
)

// CarePatterns lists every pattern from least to most care
var CarePatterns = []CarePattern{
	CarePatternNone,
	CarePatternMinimal,
	CarePatternModerate,
	CarePatternHigh,
	CarePatternIntensive,
}

func (p CarePattern) IsValid() bool {
	for _, known := range CarePatterns {
		if p == known {
			return true
		}
	}
	return false
}

type CarePeriod string

const (
	CarePeriodMorning   CarePeriod = "morning"
	CarePeriodAfternoon CarePeriod = "afternoon"
	CarePeriodEvening   CarePeriod = "evening"
)

func (p CarePeriod) IsValid() bool {
	return p == CarePeriodMorning || p == CarePeriodAfternoon || p == CarePeriodEvening
}

// PackageRequirement holds the eligibility constraints a package declares
type PackageRequirement struct {
	// RequiresNoCare: Required means the guest must need no care,
	// Forbidden means the guest must need some care
	RequiresNoCare TriState

	// CareHoursMin and CareHoursMax bound the daily care hours (nil = unbounded)
	CareHoursMin *int
	CareHoursMax *int

	RequiresCourse       TriState
	CompatibleWithCourse TriState

	// STARequirements is the raw sta_requirements JSON as stored with the package.
	// It is parsed lazily by the STA criterion so a malformed value only affects that rule.
	STARequirements []byte
}

// Package is a catalog entry. The engine never mutates it.
type Package struct {
	ID          string
	PackageCode string
	Name        string
	Funder      Funder
	Requirement *PackageRequirement

	// MatchScore is an optional catalog-supplied relevance score
	MatchScore *float64
}

// EligibilityCriteria is the consolidated decision input for one matching pass
type EligibilityCriteria struct {
	FunderType      Funder
	NDISPackageType NDISPackageType
	CareHours       int
	HasCourse       bool
	CourseOffered   bool

	// STAInPlan is nil when the guest was never asked (or is not NDIS funded)
	STAInPlan *bool
}

// HasAnyCourse reports whether the guest is doing, or has been offered, a course
func (c *EligibilityCriteria) HasAnyCourse() bool {
	return c.HasCourse || c.CourseOffered
}

// STAInPlanValue treats an unanswered STA question as "not in plan"
func (c *EligibilityCriteria) STAInPlanValue() bool {
	return c.STAInPlan != nil && *c.STAInPlan
}

// CriteriaKey captures the parts of the criteria whose change invalidates a selection
type CriteriaKey string

// Key returns the material fingerprint of the criteria
func (c *EligibilityCriteria) Key() CriteriaKey {
	return CriteriaKey(fmt.Sprintf("funder=%s;type=%s;care=%d;course=%t",
		c.FunderType, c.NDISPackageType, c.CareHours, c.HasAnyCourse()))
}
