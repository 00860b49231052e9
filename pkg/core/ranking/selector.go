package ranking

import (
	"fmt"

	"github.com/jakechorley/stay-packages/pkg/core/careanalysis"
	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// Mode controls how a package is picked from the ranked list
type Mode string

const (
	// ModeSingle selects automatically only when exactly one package is eligible
	ModeSingle Mode = "single"

	// ModeBestMatch always selects the top-ranked package and hides the rest
	ModeBestMatch Mode = "best-match"
)

func (m Mode) IsValid() bool {
	return m == ModeSingle || m == ModeBestMatch
}

// SelectionState is the package choice for one booking
type SelectionState struct {
	SelectedPackageID string
	AutoSelected      bool

	// CriteriaKey is the key of the criteria the selection was made under
	CriteriaKey model.CriteriaKey
}

// HasSelection reports whether a package is currently selected
func (s SelectionState) HasSelection() bool {
	return s.SelectedPackageID != ""
}

// NoEligiblePackages explains an empty result to the guest
type NoEligiblePackages struct {
	CarePattern  model.CarePattern
	HasCourse    bool
	CatalogEmpty bool
	Criteria     model.EligibilityCriteria
}

// Message is a user-facing explanation of why nothing matched
func (n *NoEligiblePackages) Message() string {
	if n.CatalogEmpty {
		return "No packages are currently available."
	}

	course := "without a course"
	if n.HasCourse {
		course = "with a course"
	}
	return fmt.Sprintf("No packages match a %s stay for a guest with %s needs (%s).",
		n.Criteria.FunderType, n.CarePattern, course)
}

// Decision is the outcome of one selection pass
type Decision struct {
	State SelectionState

	// Visible is what the guest should be offered
	Visible []RankedPackage

	// NoMatch is set when nothing is eligible
	NoMatch *NoEligiblePackages

	// Changed is true when State differs from the state passed in
	Changed bool
}

// Selector applies the auto-selection policy. It holds no state between calls.
type Selector struct {
	Mode Mode
}

// NewSelector creates a Selector for the given mode
func NewSelector(mode Mode) *Selector {
	return &Selector{Mode: mode}
}

// Select decides the selection for ranked packages.
// A selection made under materially different criteria, or for a package that is no longer
// eligible, is cleared before the policy is applied. Calling Select again with the returned
// state and the same inputs changes nothing.
func (s *Selector) Select(state SelectionState, criteria *model.EligibilityCriteria, ranked []RankedPackage, catalogSize int) Decision {
	next := state
	key := criteria.Key()

	if next.CriteriaKey != key {
		next.SelectedPackageID = ""
		next.AutoSelected = false
		next.CriteriaKey = key
	}

	if next.HasSelection() && !containsID(ranked, next.SelectedPackageID) {
		next.SelectedPackageID = ""
		next.AutoSelected = false
	}

	decision := Decision{Visible: ranked}

	switch {
	case len(ranked) == 0:
		decision.NoMatch = &NoEligiblePackages{
			// Thresholds are whole hours, so rounded-up hours fall in the same bucket as the average
			CarePattern:  careanalysis.ClassifyCarePattern(float64(criteria.CareHours)),
			HasCourse:    criteria.HasAnyCourse(),
			CatalogEmpty: catalogSize == 0,
			Criteria:     *criteria,
		}

	case s.Mode == ModeBestMatch:
		top := ranked[0]
		decision.Visible = ranked[:1]
		if next.SelectedPackageID != top.ID {
			next.SelectedPackageID = top.ID
			next.AutoSelected = true
		}

	case len(ranked) == 1 && !next.HasSelection():
		next.SelectedPackageID = ranked[0].ID
		next.AutoSelected = true
	}

	decision.State = next
	decision.Changed = next != state
	return decision
}

func containsID(ranked []RankedPackage, id string) bool {
	for _, r := range ranked {
		if r.ID == id {
			return true
		}
	}
	return false
}
