package criteria

import (
	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// CareCriterion matches the guest's daily care hours against the package's care requirement.
//
// Validity:
//   - requires_no_care required: the guest must need no care
//   - requires_no_care forbidden: the guest must need some care
//   - requires_no_care indifferent and the guest needs care: care_hours must fall within
//     care_hours_min and care_hours_max, when set
type CareCriterion struct{}

// NewCareCriterion creates a new CareCriterion
func NewCareCriterion() *CareCriterion {
	return &CareCriterion{}
}

func (c *CareCriterion) Name() string {
	return "Care"
}

func (c *CareCriterion) IsPackageEligible(criteria *model.EligibilityCriteria, pkg *model.Package) bool {
	req := pkg.Requirement
	needsCare := criteria.CareHours > 0

	switch req.RequiresNoCare {
	case model.Required:
		return !needsCare
	case model.Forbidden:
		return needsCare
	}

	if !needsCare {
		return true
	}
	if req.CareHoursMin != nil && criteria.CareHours < *req.CareHoursMin {
		return false
	}
	if req.CareHoursMax != nil && criteria.CareHours > *req.CareHoursMax {
		return false
	}
	return true
}
