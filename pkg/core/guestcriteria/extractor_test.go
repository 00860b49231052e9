package guestcriteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestExtract_NoSources(t *testing.T) {
	result := NewExtractor(zap.NewNop()).Extract(Sources{}, 0)

	assert.Equal(t, model.FunderUnknown, result.FunderType)
	assert.Equal(t, model.NDISPackageType(""), result.NDISPackageType)
	assert.False(t, result.HasCourse)
	assert.False(t, result.CourseOffered)
	assert.Nil(t, result.STAInPlan)
	assert.Empty(t, result.Provenance)
}

func TestExtract_FunderPriority(t *testing.T) {
	tests := []struct {
		name     string
		src      Sources
		expected model.Funder
		from     string
	}{
		{
			name: "flag beats funding answer",
			src: Sources{
				IsNDISFunded: boolPtr(false),
				QAPairs:      []QuestionAnswer{{QuestionKey: KeyStayFunding, Answer: "NDIS plan managed"}},
			},
			expected: model.FunderNonNDIS,
			from:     "is_ndis_funded_flag",
		},
		{
			name: "funding answer mentioning NDIA",
			src: Sources{
				QAPairs:   []QuestionAnswer{{Question: "How will your stay be funded?", Answer: "Agency managed (ndia)"}},
				RawFunder: "Private",
			},
			expected: model.FunderNDIS,
			from:     "funding_question",
		},
		{
			name:     "raw Non-NDIS funder column",
			src:      Sources{RawFunder: "Non-NDIS"},
			expected: model.FunderNonNDIS,
			from:     "funder_field",
		},
		{
			name: "funding answer without NDIS is Non-NDIS",
			src: Sources{
				QAPairs: []QuestionAnswer{{QuestionKey: KeyStayFunding, Answer: "Self funded"}},
			},
			expected: model.FunderNonNDIS,
			from:     "funding_question",
		},
		{
			name:     "raw funder fallback",
			src:      Sources{RawFunder: "NDIS"},
			expected: model.FunderNDIS,
			from:     "funder_field",
		},
		{
			name:     "blank raw funder stays unknown",
			src:      Sources{RawFunder: "  "},
			expected: model.FunderUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewExtractor(zap.NewNop()).Extract(tt.src, 0)
			assert.Equal(t, tt.expected, result.FunderType)
			assert.Equal(t, tt.from, result.Provenance[FieldFunder])
		})
	}
}

func TestExtract_CourseAnalysisOverridesAnswers(t *testing.T) {
	src := Sources{
		CourseAnalysis: &CourseAnalysis{HasCourse: false, CourseOffered: false},
		QAPairs: []QuestionAnswer{
			{QuestionKey: KeyCourseOffered, Answer: "Yes"},
			{QuestionKey: KeyWhichCourse, Answer: "Cooking"},
		},
	}

	result := NewExtractor(zap.NewNop()).Extract(src, 0)

	assert.False(t, result.HasCourse)
	assert.False(t, result.CourseOffered)
	assert.Equal(t, "course_analysis", result.Provenance[FieldCourse])
}

func TestExtract_CourseFromAnswers(t *testing.T) {
	tests := []struct {
		name          string
		pairs         []QuestionAnswer
		hasCourse     bool
		courseOffered bool
	}{
		{
			name:          "offered by key",
			pairs:         []QuestionAnswer{{QuestionKey: KeyCourseOffered, Answer: "yes"}},
			courseOffered: true,
		},
		{
			name:      "which course free text",
			pairs:     []QuestionAnswer{{Question: "Which course are you attending?", Answer: "Art Retreat"}},
			hasCourse: true,
		},
		{
			name:  "which course answered no",
			pairs: []QuestionAnswer{{Question: "What course did you select?", Answer: "No"}},
		},
		{
			name: "both questions by text",
			pairs: []QuestionAnswer{
				{Question: "Have you been offered a place in a course?", Answer: "Yes, confirmed"},
				{Question: "Select the course", Answer: "Sailing"},
			},
			hasCourse:     true,
			courseOffered: true,
		},
		{
			name:  "offered answered no",
			pairs: []QuestionAnswer{{Question: "Have you been offered a place in a course?", Answer: "No"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewExtractor(zap.NewNop()).Extract(Sources{QAPairs: tt.pairs}, 0)
			assert.Equal(t, tt.hasCourse, result.HasCourse)
			assert.Equal(t, tt.courseOffered, result.CourseOffered)
			assert.Equal(t, "course_answers", result.Provenance[FieldCourse])
		})
	}
}

func TestExtract_QAPairsPreferredOverFormData(t *testing.T) {
	src := Sources{
		IsNDISFunded: boolPtr(true),
		QAPairs:      []QuestionAnswer{{QuestionKey: KeySTAInPlan, Answer: "No"}},
		FormPairs:    []QuestionAnswer{{QuestionKey: KeySTAInPlan, Answer: "Yes"}},
	}

	result := NewExtractor(zap.NewNop()).Extract(src, 0)

	require.NotNil(t, result.STAInPlan)
	assert.False(t, *result.STAInPlan)
	assert.Equal(t, "sta_in_plan:qa_pairs:key", result.Provenance[FieldSTAInPlan])
}

func TestExtract_KeyMatchBeatsTextMatch(t *testing.T) {
	src := Sources{
		IsNDISFunded: boolPtr(true),
		QAPairs: []QuestionAnswer{
			{Question: "Is STA a stated support in your plan?", Answer: "No"},
		},
		FormPairs: []QuestionAnswer{
			{QuestionKey: KeySTARespiteInPlan, Answer: "Yes"},
		},
	}

	result := NewExtractor(zap.NewNop()).Extract(src, 4)

	require.NotNil(t, result.STAInPlan)
	assert.True(t, *result.STAInPlan)
	assert.Equal(t, model.NDISPackageSTA, result.NDISPackageType)
	assert.Equal(t, "sta_in_plan:form_data:key", result.Provenance[FieldSTAInPlan])
}

func TestExtract_STAAnswerNoGivesHolidayType(t *testing.T) {
	src := Sources{
		IsNDISFunded: boolPtr(true),
		QAPairs:      []QuestionAnswer{{QuestionKey: KeySTAInPlan, Answer: "no"}},
	}

	withCare := NewExtractor(zap.NewNop()).Extract(src, 3)
	assert.Equal(t, model.NDISPackageHolidayPlus, withCare.NDISPackageType)

	noCare := NewExtractor(zap.NewNop()).Extract(src, 0)
	assert.Equal(t, model.NDISPackageHoliday, noCare.NDISPackageType)
}

func TestExtract_HolidayClassificationWithoutSTAAnswer(t *testing.T) {
	tests := []struct {
		name      string
		pairs     []QuestionAnswer
		careHours int
		expected  model.NDISPackageType
	}{
		{
			name:     "no living answers defaults to sta",
			expected: model.NDISPackageSTA,
		},
		{
			name:     "lives alone without care",
			pairs:    []QuestionAnswer{{QuestionKey: KeyLiveAlone, Answer: "Yes"}},
			expected: model.NDISPackageHoliday,
		},
		{
			name:      "lives in SIL with care",
			pairs:     []QuestionAnswer{{Question: "Do you live in SIL?", Answer: "yes"}},
			careHours: 2,
			expected:  model.NDISPackageHolidayPlus,
		},
		{
			name:      "informal supports",
			pairs:     []QuestionAnswer{{Question: "Are you staying with any informal supports?", Answer: "Yes"}},
			careHours: 1,
			expected:  model.NDISPackageHolidayPlus,
		},
		{
			name: "all answered no",
			pairs: []QuestionAnswer{
				{QuestionKey: KeyLiveAlone, Answer: "No"},
				{QuestionKey: KeyLiveInSIL, Answer: "No"},
				{QuestionKey: KeyWithInformalSupports, Answer: "No"},
			},
			careHours: 5,
			expected:  model.NDISPackageSTA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Sources{IsNDISFunded: boolPtr(true), QAPairs: tt.pairs}
			result := NewExtractor(zap.NewNop()).Extract(src, tt.careHours)

			assert.Equal(t, tt.expected, result.NDISPackageType)
			assert.Nil(t, result.STAInPlan)
		})
	}
}

func TestExtract_NonNDISIgnoresSTA(t *testing.T) {
	src := Sources{
		RawFunder: "Private",
		QAPairs: []QuestionAnswer{
			{QuestionKey: KeySTAInPlan, Answer: "Yes"},
			{QuestionKey: KeyLiveAlone, Answer: "Yes"},
		},
	}

	result := NewExtractor(zap.NewNop()).Extract(src, 2)

	assert.Equal(t, model.FunderNonNDIS, result.FunderType)
	assert.Equal(t, model.NDISPackageType(""), result.NDISPackageType)
	assert.Nil(t, result.STAInPlan)
}

func TestFirstOf(t *testing.T) {
	never := Resolver[int]{Name: "never", Resolve: func(*Sources) (int, bool) { return 0, false }}
	one := Resolver[int]{Name: "one", Resolve: func(*Sources) (int, bool) { return 1, true }}
	two := Resolver[int]{Name: "two", Resolve: func(*Sources) (int, bool) { return 2, true }}

	value, from, ok := FirstOf(&Sources{}, never, one, two)
	assert.True(t, ok)
	assert.Equal(t, 1, value)
	assert.Equal(t, "one", from)

	value, from, ok = FirstOf(&Sources{}, never)
	assert.False(t, ok)
	assert.Zero(t, value)
	assert.Empty(t, from)
}

func TestIsYes(t *testing.T) {
	for _, answer := range []string{"Yes", "y", "TRUE", "1", "yes, I do", "Yes (confirmed)"} {
		assert.True(t, isYes(answer), answer)
	}
	for _, answer := range []string{"", "No", "yesterday", "maybe"} {
		assert.False(t, isYes(answer), answer)
	}
}
