package guestcriteria

import (
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// Field names used in Provenance
const (
	FieldFunder          = "funder_type"
	FieldCourse          = "course"
	FieldSTAInPlan       = "sta_in_plan"
	FieldNDISPackageType = "ndis_package_type"
)

// Provenance records which resolver established each field. Missing fields fell back to defaults.
type Provenance map[string]string

// Result is the guest-derived part of the eligibility criteria
type Result struct {
	FunderType      model.Funder
	NDISPackageType model.NDISPackageType
	HasCourse       bool
	CourseOffered   bool
	STAInPlan       *bool
	Provenance      Provenance
}

type courseFlags struct {
	hasCourse     bool
	courseOffered bool
}

// Extractor derives funder, course and STA facts from booking data
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract resolves each criterion from the highest-priority source that has it.
// careHours is needed to split holiday stays into holiday and holiday-plus.
// Facts that no source provides keep their defaults (unknown funder, no course).
func (e *Extractor) Extract(src Sources, careHours int) Result {
	result := Result{
		FunderType: model.FunderUnknown,
		Provenance: Provenance{},
	}

	if funder, from, ok := FirstOf(&src, funderResolvers()...); ok {
		result.FunderType = funder
		result.Provenance[FieldFunder] = from
	}

	if course, from, ok := FirstOf(&src, courseResolvers()...); ok {
		result.HasCourse = course.hasCourse
		result.CourseOffered = course.courseOffered
		result.Provenance[FieldCourse] = from
	}

	if result.FunderType == model.FunderNDIS {
		e.resolveNDIS(&src, careHours, &result)
	}

	e.logger.Debug("Guest criteria extracted",
		zap.String("funder_type", string(result.FunderType)),
		zap.String("ndis_package_type", string(result.NDISPackageType)),
		zap.Bool("has_course", result.HasCourse),
		zap.Bool("course_offered", result.CourseOffered),
		zap.Any("provenance", result.Provenance))

	return result
}

// resolveNDIS sets sta_in_plan and the NDIS package type.
// A "yes" to the STA question means an STA stay; otherwise the stay is classified as a holiday
// type or defaults to STA.
func (e *Extractor) resolveNDIS(src *Sources, careHours int, result *Result) {
	answer, from, ok := staInPlanQuestion.find(src)
	if ok {
		inPlan := isYes(answer)
		result.STAInPlan = &inPlan
		result.Provenance[FieldSTAInPlan] = from

		if inPlan {
			result.NDISPackageType = model.NDISPackageSTA
		} else {
			result.NDISPackageType = holidayType(careHours)
		}
		result.Provenance[FieldNDISPackageType] = from
		return
	}

	packageType, reason := ClassifyNDISPackageType(src, careHours)
	result.NDISPackageType = packageType
	result.Provenance[FieldNDISPackageType] = reason
}

// ClassifyNDISPackageType decides between a holiday stay and an STA stay from the living
// arrangement answers. Any "yes" to living alone, living in SIL or staying with informal
// supports makes it a holiday stay, which needs care to be holiday-plus.
func ClassifyNDISPackageType(src *Sources, careHours int) (model.NDISPackageType, string) {
	for _, q := range []question{liveAloneQuestion, liveInSILQuestion, informalSupportsQuestion} {
		if answer, from, ok := q.find(src); ok && isYes(answer) {
			return holidayType(careHours), from
		}
	}
	return model.NDISPackageSTA, "default"
}

func holidayType(careHours int) model.NDISPackageType {
	if careHours > 0 {
		return model.NDISPackageHolidayPlus
	}
	return model.NDISPackageHoliday
}

func classifyFunderText(text string) (model.Funder, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", false
	}
	// Stored funder columns say "Non-NDIS", which would otherwise match the substring rule
	if strings.Contains(t, "non-ndis") || strings.Contains(t, "non ndis") || strings.Contains(t, "not ndis") {
		return model.FunderNonNDIS, true
	}
	if strings.Contains(t, "ndis") || strings.Contains(t, "ndia") {
		return model.FunderNDIS, true
	}
	return model.FunderNonNDIS, true
}

func funderResolvers() []Resolver[model.Funder] {
	return []Resolver[model.Funder]{
		{
			Name: "is_ndis_funded_flag",
			Resolve: func(src *Sources) (model.Funder, bool) {
				if src.IsNDISFunded == nil {
					return "", false
				}
				if *src.IsNDISFunded {
					return model.FunderNDIS, true
				}
				return model.FunderNonNDIS, true
			},
		},
		{
			Name: "funding_question",
			Resolve: func(src *Sources) (model.Funder, bool) {
				answer, _, ok := fundingQuestion.find(src)
				if !ok {
					return "", false
				}
				return classifyFunderText(answer)
			},
		},
		{
			Name: "funder_field",
			Resolve: func(src *Sources) (model.Funder, bool) {
				return classifyFunderText(src.RawFunder)
			},
		},
	}
}

func courseResolvers() []Resolver[courseFlags] {
	return []Resolver[courseFlags]{
		{
			Name: "course_analysis",
			Resolve: func(src *Sources) (courseFlags, bool) {
				if src.CourseAnalysis == nil {
					return courseFlags{}, false
				}
				return courseFlags{
					hasCourse:     src.CourseAnalysis.HasCourse,
					courseOffered: src.CourseAnalysis.CourseOffered,
				}, true
			},
		},
		{
			Name: "course_answers",
			Resolve: func(src *Sources) (courseFlags, bool) {
				offered, _, offeredFound := courseOfferedQuestion.find(src)
				which, _, whichFound := whichCourseQuestion.find(src)
				if !offeredFound && !whichFound {
					return courseFlags{}, false
				}
				return courseFlags{
					hasCourse:     whichFound && isAffirmativeText(which),
					courseOffered: offeredFound && isYes(offered),
				}, true
			},
		},
	}
}
