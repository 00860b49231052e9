package guestcriteria

import "strings"

// QuestionAnswer is one answered booking-form question
type QuestionAnswer struct {
	QuestionKey string `json:"question_key"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
}

// CourseAnalysis is a pre-computed summary of the guest's course participation
type CourseAnalysis struct {
	HasCourse     bool `json:"hasCourse"`
	CourseOffered bool `json:"courseOffered"`
}

// Sources are all the places guest facts can come from, most trusted first
type Sources struct {
	// QAPairs are the stable question/answer pairs saved against the booking
	QAPairs []QuestionAnswer

	// FormPairs are pairs collected from the loosely structured form data (see CollectFormPairs)
	FormPairs []QuestionAnswer

	// CourseAnalysis, when present, overrides any course answers
	CourseAnalysis *CourseAnalysis

	// IsNDISFunded is an explicit funding flag, when the booking has one
	IsNDISFunded *bool

	// RawFunder is the booking's legacy free-text funder column
	RawFunder string
}

func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("?", " ", "(", " ", ")", " ", ",", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isYes reads a yes/no style answer
func isYes(answer string) bool {
	a := normalizeText(answer)
	switch a {
	case "yes", "y", "true", "1":
		return true
	}
	return strings.HasPrefix(a, "yes ")
}

// isAffirmativeText reads a free-text answer: anything except blank, "no", "0" or "false" is a yes
func isAffirmativeText(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	switch a {
	case "", "no", "0", "false":
		return false
	}
	return true
}
