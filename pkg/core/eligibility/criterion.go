package eligibility

import "github.com/jakechorley/stay-packages/pkg/core/model"

// Criterion is one eligibility rule a package must satisfy
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsPackageEligible reports whether the package's requirement admits a guest with these criteria.
	// It acts as a veto: if ANY criterion returns false, the package is excluded.
	// Only called for packages that declare a requirement.
	IsPackageEligible(criteria *model.EligibilityCriteria, pkg *model.Package) bool
}
