package guestcriteria

import (
	"slices"
	"strings"
)

// Stable question keys used by the booking form
const (
	KeyStayFunding          = "how-will-your-stay-be-funded"
	KeyCourseOffered        = "have-you-been-offered-a-place-in-a-course-for-this-stay"
	KeyWhichCourse          = "which-course"
	KeySTAInPlan            = "is-sta-a-stated-support-in-your-plan"
	KeySTARespiteInPlan     = "is-short-term-accommodation-including-respite-a-stated-support-in-your-plan"
	KeyLiveAlone            = "do-you-live-alone"
	KeyLiveInSIL            = "do-you-live-in-sil"
	KeyWithInformalSupports = "are-you-staying-with-any-informal-supports"
)

// question describes how to find one answer: known keys first, then question text
type question struct {
	name    string
	keys    []string
	matches func(text string) bool
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

var (
	fundingQuestion = question{
		name: "funding",
		keys: []string{KeyStayFunding},
		matches: func(text string) bool {
			return strings.Contains(text, "how will your stay be funded")
		},
	}

	// whichCourseQuestion claims "which/what/select" course questions so they are never
	// mistaken for the offered yes/no question
	whichCourseQuestion = question{
		name: "which_course",
		keys: []string{KeyWhichCourse},
		matches: func(text string) bool {
			return strings.Contains(text, "course") && containsAny(text, "which", "what", "select")
		},
	}

	courseOfferedQuestion = question{
		name: "course_offered",
		keys: []string{KeyCourseOffered},
		matches: func(text string) bool {
			return strings.Contains(text, "course") &&
				containsAny(text, "offered", "place") &&
				!whichCourseQuestion.matches(text)
		},
	}

	staInPlanQuestion = question{
		name: "sta_in_plan",
		keys: []string{KeySTAInPlan, KeySTARespiteInPlan},
		matches: func(text string) bool {
			return strings.Contains(text, "stated support") && strings.Contains(text, "plan")
		},
	}

	liveAloneQuestion = question{
		name: "live_alone",
		keys: []string{KeyLiveAlone},
		matches: func(text string) bool {
			return strings.Contains(text, "live alone")
		},
	}

	liveInSILQuestion = question{
		name: "live_in_sil",
		keys: []string{KeyLiveInSIL},
		matches: func(text string) bool {
			return strings.Contains(text, "live in sil") || strings.Contains(text, "supported independent living")
		},
	}

	informalSupportsQuestion = question{
		name: "informal_supports",
		keys: []string{KeyWithInformalSupports},
		matches: func(text string) bool {
			return strings.Contains(text, "informal support")
		},
	}
)

// resolvers searches by key in every source before falling back to question text
func (q question) resolvers() []Resolver[string] {
	return []Resolver[string]{
		{Name: q.name + ":qa_pairs:key", Resolve: func(src *Sources) (string, bool) { return q.byKey(src.QAPairs) }},
		{Name: q.name + ":form_data:key", Resolve: func(src *Sources) (string, bool) { return q.byKey(src.FormPairs) }},
		{Name: q.name + ":qa_pairs:text", Resolve: func(src *Sources) (string, bool) { return q.byText(src.QAPairs) }},
		{Name: q.name + ":form_data:text", Resolve: func(src *Sources) (string, bool) { return q.byText(src.FormPairs) }},
	}
}

// find returns the first non-blank answer to the question and where it came from
func (q question) find(src *Sources) (string, string, bool) {
	return FirstOf(src, q.resolvers()...)
}

func (q question) byKey(pairs []QuestionAnswer) (string, bool) {
	for _, p := range pairs {
		if strings.TrimSpace(p.Answer) == "" {
			continue
		}
		if slices.Contains(q.keys, normalizeKey(p.QuestionKey)) {
			return p.Answer, true
		}
	}
	return "", false
}

func (q question) byText(pairs []QuestionAnswer) (string, bool) {
	for _, p := range pairs {
		if strings.TrimSpace(p.Answer) == "" {
			continue
		}
		if q.matches(normalizeText(p.Question)) {
			return p.Answer, true
		}
	}
	return "", false
}
