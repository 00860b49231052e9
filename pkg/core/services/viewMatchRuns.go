package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/db"
)

// ViewMatchRunsStore defines the database operations needed for viewing match history
type ViewMatchRunsStore interface {
	GetMatchRuns(ctx context.Context, bookingID string) ([]db.MatchRun, error)
	GetSelection(ctx context.Context, bookingID string) (*db.Selection, error)
}

// MatchHistory is a booking's recorded matching passes and where its selection stands now
type MatchHistory struct {
	Runs []db.MatchRun // oldest first

	// Selection is nil when nothing has been recorded for the booking
	Selection *db.Selection
}

// ViewMatchRuns fetches the match history for a booking
func ViewMatchRuns(ctx context.Context, database ViewMatchRunsStore, logger *zap.Logger, bookingID string) (*MatchHistory, error) {
	runs, err := database.GetMatchRuns(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match runs: %w", err)
	}

	history := &MatchHistory{Runs: runs}

	selection, err := database.GetSelection(ctx, bookingID)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to fetch selection: %w", err)
	default:
		history.Selection = selection
	}

	logger.Debug("Fetched match history", zap.String("booking_id", bookingID), zap.Int("runs", len(runs)))
	return history, nil
}
