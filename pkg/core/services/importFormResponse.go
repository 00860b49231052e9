package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/guestcriteria"
	"github.com/jakechorley/stay-packages/pkg/db"
)

// FormsClient defines the forms client operations needed for importing responses
type FormsClient interface {
	GetLatestAnswers(formID string) ([]guestcriteria.QuestionAnswer, error)
}

// ImportFormResponseStore defines the database operations needed for importing responses
type ImportFormResponseStore interface {
	GetBooking(ctx context.Context, id string) (*db.Booking, error)
	UpdateBookingAnswers(ctx context.Context, id string, qaPairs []byte) error
}

// ImportResult summarises how a form response changed a booking's answers
type ImportResult struct {
	Answers []guestcriteria.QuestionAnswer
	Added   int
	Updated int
}

// ImportFormResponse merges the latest response to a booking form into the booking's
// question/answer pairs. Answers are matched by question key; new keys are appended.
// Nothing is written when the form has no responses or no answer changed.
func ImportFormResponse(
	ctx context.Context,
	database ImportFormResponseStore,
	formsClient FormsClient,
	logger *zap.Logger,
	bookingID string,
	formID string,
) (*ImportResult, error) {
	logger.Debug("Importing form response", zap.String("booking_id", bookingID), zap.String("form_id", formID))

	booking, err := database.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	incoming, err := formsClient.GetLatestAnswers(formID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form answers: %w", err)
	}

	existing := decodeAnswers(booking.QAPairs, bookingID, logger)
	result := mergeAnswers(existing, incoming)

	if len(incoming) == 0 {
		logger.Info("Form has no responses yet", zap.String("form_id", formID))
		return result, nil
	}
	if result.Added == 0 && result.Updated == 0 {
		logger.Info("Booking answers already up to date", zap.String("booking_id", bookingID))
		return result, nil
	}

	data, err := json.Marshal(result.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	if err := database.UpdateBookingAnswers(ctx, bookingID, data); err != nil {
		return nil, fmt.Errorf("failed to save answers: %w", err)
	}

	logger.Info("Imported form response",
		zap.String("booking_id", bookingID),
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated))

	return result, nil
}

// mergeAnswers folds incoming pairs into existing ones. Pairs match on question key, or on
// question text when a pair has no key. Pairs with neither are dropped.
func mergeAnswers(existing, incoming []guestcriteria.QuestionAnswer) *ImportResult {
	result := &ImportResult{Answers: append([]guestcriteria.QuestionAnswer(nil), existing...)}

	index := make(map[string]int, len(existing))
	for i, pair := range existing {
		if key := mergeKey(pair); key != "" {
			index[key] = i
		}
	}

	for _, pair := range incoming {
		key := mergeKey(pair)
		if key == "" {
			continue
		}
		i, found := index[key]
		if !found {
			index[key] = len(result.Answers)
			result.Answers = append(result.Answers, pair)
			result.Added++
			continue
		}
		if result.Answers[i].Answer != pair.Answer {
			result.Answers[i].Answer = pair.Answer
			result.Updated++
		}
	}

	return result
}

func mergeKey(pair guestcriteria.QuestionAnswer) string {
	if key := strings.ToLower(strings.TrimSpace(pair.QuestionKey)); key != "" {
		return "key:" + key
	}
	if text := strings.ToLower(strings.TrimSpace(pair.Question)); text != "" {
		return "text:" + text
	}
	return ""
}
