package guestcriteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCollectFormPairs_SectionsShape(t *testing.T) {
	raw := []byte(`{
		"sections": [
			{"title": "Funding", "qa_pairs": [
				{"question_key": "how-will-your-stay-be-funded", "question": "How will your stay be funded?", "answer": "NDIS"}
			]},
			{"title": "Course", "qa_pairs": [
				{"question_key": "which-course", "question": "Which course?", "answer": ["Art", "Music"]},
				{"question": "Have you been offered a place in a course?", "answer": true}
			]}
		]
	}`)

	pairs := CollectFormPairs(raw, zap.NewNop())

	assert.Equal(t, []QuestionAnswer{
		{QuestionKey: KeyStayFunding, Question: "How will your stay be funded?", Answer: "NDIS"},
		{QuestionKey: KeyWhichCourse, Question: "Which course?", Answer: "Art, Music"},
		{Question: "Have you been offered a place in a course?", Answer: "yes"},
	}, pairs)
}

func TestCollectFormPairs_PagesShape(t *testing.T) {
	raw := []byte(`{
		"pages": [
			{"Sections": [
				{"Questions": [
					{"QuestionKey": "do-you-live-alone", "Question": "Do you live alone?", "Answer": "No"},
					{"QuestionKey": "care-hours", "Question": "Hours", "Answer": 2.5}
				]}
			]}
		]
	}`)

	pairs := CollectFormPairs(raw, zap.NewNop())

	assert.Equal(t, []QuestionAnswer{
		{QuestionKey: KeyLiveAlone, Question: "Do you live alone?", Answer: "No"},
		{QuestionKey: "care-hours", Question: "Hours", Answer: "2.5"},
	}, pairs)
}

func TestCollectFormPairs_FeedsExtractor(t *testing.T) {
	raw := []byte(`{"pages": [{"Sections": [{"Questions": [
		{"Question": "Is Short-Term Accommodation (including Respite) a stated support in your plan?", "Answer": "Yes"}
	]}]}]}`)

	src := Sources{RawFunder: "NDIS", FormPairs: CollectFormPairs(raw, zap.NewNop())}
	result := NewExtractor(zap.NewNop()).Extract(src, 0)

	if assert.NotNil(t, result.STAInPlan) {
		assert.True(t, *result.STAInPlan)
	}
	assert.Equal(t, "sta_in_plan:form_data:text", result.Provenance[FieldSTAInPlan])
}

func TestCollectFormPairs_Malformed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	assert.Empty(t, CollectFormPairs([]byte(`{"sections": [`), zap.New(core)))
	assert.Equal(t, 1, logs.Len())

	assert.Empty(t, CollectFormPairs(nil, zap.New(core)))
	assert.Empty(t, CollectFormPairs([]byte(`{"unrelated": {"value": 1}}`), zap.New(core)))
	assert.Equal(t, 1, logs.Len())
}

func TestCollectFormPairs_DuplicateFieldNamesResolveTheSameWayEveryRun(t *testing.T) {
	raw := []byte(`{"sections": [{"qa_pairs": [{
		"question": "Do you live alone?",
		"question_text": "Which course?",
		"questionKey": "which-course",
		"question_key": "do-you-live-alone",
		"answer": "Yes"
	}]}]}`)

	want := []QuestionAnswer{{QuestionKey: "which-course", Question: "Do you live alone?", Answer: "Yes"}}
	for i := 0; i < 200; i++ {
		assert.Equal(t, want, CollectFormPairs(raw, zap.NewNop()))
	}
}

func TestCollectFormPairs_QuestionTextUsedWhenQuestionMissing(t *testing.T) {
	raw := []byte(`[{"question_text": "Do you live alone?", "answer": "No"}]`)

	assert.Equal(t, []QuestionAnswer{{Question: "Do you live alone?", Answer: "No"}},
		CollectFormPairs(raw, zap.NewNop()))
}
