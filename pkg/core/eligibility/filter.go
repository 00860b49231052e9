package eligibility

import (
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// Rejection records why a package was excluded.
// Failed holds the excluding criterion first; in diagnostics mode it lists every failing criterion.
type Rejection struct {
	PackageID   string
	PackageCode string
	Failed      []string
}

// Outcome is the result of filtering a catalog
type Outcome struct {
	// Eligible keeps the catalog order
	Eligible   []model.Package
	Rejections []Rejection
}

// Filter applies a fixed set of criteria to package catalogs
type Filter struct {
	logger      *zap.Logger
	diagnostics bool
	criteria    []Criterion
}

// NewFilter creates a Filter. With diagnostics enabled every criterion is evaluated for every
// package so that all failures are reported, not just the first.
func NewFilter(logger *zap.Logger, diagnostics bool, criteria ...Criterion) *Filter {
	return &Filter{
		logger:      logger,
		diagnostics: diagnostics,
		criteria:    criteria,
	}
}

// Apply returns the packages that satisfy every criterion.
// A package without a requirement always passes.
func (f *Filter) Apply(criteria *model.EligibilityCriteria, packages []model.Package) Outcome {
	outcome := Outcome{Eligible: make([]model.Package, 0, len(packages))}

	for i := range packages {
		pkg := &packages[i]
		if pkg.Requirement == nil {
			outcome.Eligible = append(outcome.Eligible, *pkg)
			continue
		}

		failed := f.failedCriteria(criteria, pkg)
		if len(failed) == 0 {
			outcome.Eligible = append(outcome.Eligible, *pkg)
			continue
		}

		f.logger.Debug("Package rejected",
			zap.String("package_id", pkg.ID),
			zap.String("package_code", pkg.PackageCode),
			zap.Strings("criteria", failed))
		outcome.Rejections = append(outcome.Rejections, Rejection{
			PackageID:   pkg.ID,
			PackageCode: pkg.PackageCode,
			Failed:      failed,
		})
	}

	f.logger.Debug("Filtered packages",
		zap.Int("catalog", len(packages)),
		zap.Int("eligible", len(outcome.Eligible)),
		zap.String("criteria_key", string(criteria.Key())))

	return outcome
}

func (f *Filter) failedCriteria(criteria *model.EligibilityCriteria, pkg *model.Package) []string {
	var failed []string
	for _, c := range f.criteria {
		if c.IsPackageEligible(criteria, pkg) {
			continue
		}
		failed = append(failed, c.Name())
		if !f.diagnostics {
			break
		}
	}
	return failed
}
