package formsclient

import (
	"fmt"
	"strings"
	"unicode"

	"google.golang.org/api/forms/v1"

	"github.com/jakechorley/stay-packages/pkg/core/guestcriteria"
)

// GetLatestAnswers fetches the most recent response to a booking form as question/answer pairs.
// Question keys are derived from the question titles, e.g. "Do you live alone?" becomes "do-you-live-alone".
// A form with no responses returns no pairs.
func (c *Client) GetLatestAnswers(formID string) ([]guestcriteria.QuestionAnswer, error) {
	form, err := c.service.Forms.Get(formID).Context(c.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	responses, err := c.service.Forms.Responses.List(formID).Context(c.ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list form responses: %w", err)
	}

	latest := latestResponse(responses.Responses)
	if latest == nil {
		return nil, nil
	}

	return answerPairs(form, latest), nil
}

// latestResponse picks the response with the latest submission time.
// RFC3339 timestamps from the API compare correctly as strings.
func latestResponse(responses []*forms.FormResponse) *forms.FormResponse {
	var latest *forms.FormResponse
	for _, resp := range responses {
		if latest == nil || resp.LastSubmittedTime > latest.LastSubmittedTime {
			latest = resp
		}
	}
	return latest
}

// answerPairs joins a response's answers to the form's question titles, in form order
func answerPairs(form *forms.Form, response *forms.FormResponse) []guestcriteria.QuestionAnswer {
	var pairs []guestcriteria.QuestionAnswer
	for _, item := range form.Items {
		if item.QuestionItem == nil || item.QuestionItem.Question == nil {
			continue
		}
		answer, ok := response.Answers[item.QuestionItem.Question.QuestionId]
		if !ok || answer.TextAnswers == nil {
			continue
		}

		values := make([]string, 0, len(answer.TextAnswers.Answers))
		for _, a := range answer.TextAnswers.Answers {
			values = append(values, a.Value)
		}

		pairs = append(pairs, guestcriteria.QuestionAnswer{
			QuestionKey: QuestionKey(item.Title),
			Question:    item.Title,
			Answer:      strings.Join(values, ", "),
		})
	}
	return pairs
}

// QuestionKey turns a question title into its stable kebab-case key
func QuestionKey(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
