package db

import "strings"

// FunderMatchKey folds a funder value to the form the package queries compare on, so stored
// variants like "non_ndis" and "Non-NDIS" match each other. It mirrors FunderMatchSQL.
func FunderMatchKey(funder string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(funder)))
}

// FunderMatchSQL is the SQL expression applying FunderMatchKey to the package funder column
const FunderMatchSQL = `replace(replace(lower(trim(p.funder)), '-', ''), '_', '')`

// Package represents a catalog package record
type Package struct {
	ID          string
	PackageCode string
	Name        string
	Funder      string
	MatchScore  *float64

	// Requirement is nil when the package has no package_requirement row
	Requirement *PackageRequirement
}

// PackageRequirement represents a package_requirement record.
// Nullable booleans are tri-state: true requires, false forbids, NULL is indifferent.
type PackageRequirement struct {
	RequiresNoCare       *bool
	CareHoursMin         *int
	CareHoursMax         *int
	RequiresCourse       *bool
	CompatibleWithCourse *bool
	STARequirements      *string
}

// Booking represents a booking record and the raw form data captured with it
type Booking struct {
	ID           string
	GuestName    string
	GuestEmail   string
	Funder       string
	IsNDISFunded *bool
	CheckIn      string
	CheckOut     string

	// CareData is the submitted care schedule JSON
	CareData []byte

	// QAPairs is a JSON array of stable question/answer pairs
	QAPairs []byte

	// FormData is the loosely structured "all form data" JSON
	FormData []byte

	// CourseAnalysis is an optional pre-computed course summary JSON
	CourseAnalysis []byte
}

// Selection represents the current package choice for a booking
type Selection struct {
	BookingID    string
	PackageID    string
	AutoSelected bool
	CriteriaKey  string
	UpdatedAt    string
}

// MatchRun represents one recorded matching pass for a booking
type MatchRun struct {
	ID                string
	BookingID         string
	Generation        int64
	CriteriaKey       string
	CarePattern       string
	TotalHoursPerDay  float64
	CatalogCount      int
	EligibleCount     int
	SelectedPackageID string
	NoMatchMessage    string
	CreatedAt         string
}
