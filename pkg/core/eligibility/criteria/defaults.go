package criteria

import (
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/eligibility"
)

// Defaults returns the standard criteria in evaluation order
func Defaults(logger *zap.Logger) []eligibility.Criterion {
	return []eligibility.Criterion{
		NewFunderCriterion(),
		NewCareCriterion(),
		NewCourseCriterion(),
		NewCourseCompatibilityCriterion(),
		NewSTACriterion(logger),
	}
}
