package criteria

import (
	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// FunderCriterion keeps NDIS packages for NDIS guests and Non-NDIS packages for everyone else.
// Nothing is compared when either the guest's or the package's funder is unknown.
type FunderCriterion struct{}

// NewFunderCriterion creates a new FunderCriterion
func NewFunderCriterion() *FunderCriterion {
	return &FunderCriterion{}
}

func (c *FunderCriterion) Name() string {
	return "Funder"
}

func (c *FunderCriterion) IsPackageEligible(criteria *model.EligibilityCriteria, pkg *model.Package) bool {
	if !criteria.FunderType.IsKnown() || !pkg.Funder.IsKnown() {
		return true
	}
	return criteria.FunderType == pkg.Funder
}
