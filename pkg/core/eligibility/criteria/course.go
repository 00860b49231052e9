package criteria

import (
	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// CourseCriterion applies requires_course: a required course needs the guest to have or be
// offered one, a forbidden course needs the guest to have neither.
type CourseCriterion struct{}

// NewCourseCriterion creates a new CourseCriterion
func NewCourseCriterion() *CourseCriterion {
	return &CourseCriterion{}
}

func (c *CourseCriterion) Name() string {
	return "Course"
}

func (c *CourseCriterion) IsPackageEligible(criteria *model.EligibilityCriteria, pkg *model.Package) bool {
	return pkg.Requirement.RequiresCourse.Admits(criteria.HasAnyCourse())
}

// CourseCompatibilityCriterion excludes packages declared incompatible with courses from guests
// who have or were offered a course. It is independent of CourseCriterion: a package can be
// indifferent to requires_course and still be incompatible.
type CourseCompatibilityCriterion struct{}

// NewCourseCompatibilityCriterion creates a new CourseCompatibilityCriterion
func NewCourseCompatibilityCriterion() *CourseCompatibilityCriterion {
	return &CourseCompatibilityCriterion{}
}

func (c *CourseCompatibilityCriterion) Name() string {
	return "CourseCompatibility"
}

func (c *CourseCompatibilityCriterion) IsPackageEligible(criteria *model.EligibilityCriteria, pkg *model.Package) bool {
	// compatible_with_course = true only permits courses, it never demands one
	if pkg.Requirement.CompatibleWithCourse != model.Forbidden {
		return true
	}
	return !criteria.HasAnyCourse()
}
