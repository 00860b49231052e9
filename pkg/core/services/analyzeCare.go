package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/internal/config"
	"github.com/jakechorley/stay-packages/pkg/core/careanalysis"
	"github.com/jakechorley/stay-packages/pkg/db"
)

// AnalyzeCareStore defines the database operations needed for analysing care
type AnalyzeCareStore interface {
	GetBooking(ctx context.Context, id string) (*db.Booking, error)
}

// CareAnalysis is a booking together with its analysed care schedule
type CareAnalysis struct {
	Booking      *db.Booking
	Result       careanalysis.Result
	FromTemplate bool
}

// AnalyzeCare analyses a booking's care schedule.
// When template is non-empty it replaces the stored care data and is repeated over the stay
// using the configured care template rule.
func AnalyzeCare(
	ctx context.Context,
	database AnalyzeCareStore,
	cfg *config.Config,
	logger *zap.Logger,
	bookingID string,
	template careanalysis.CareTemplate,
) (*CareAnalysis, error) {
	logger.Debug("Analysing care", zap.String("booking_id", bookingID), zap.Int("template_periods", len(template)))

	booking, err := database.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	analyzer := careanalysis.NewAnalyzer(logger, cfg.Recommendations())
	result, err := analyzeBooking(booking, template, cfg.TemplateRule(), analyzer, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Care analysed",
		zap.String("booking_id", bookingID),
		zap.Float64("hours_per_day", result.TotalHoursPerDay),
		zap.String("care_pattern", string(result.CarePattern)))

	return &CareAnalysis{
		Booking:      booking,
		Result:       result,
		FromTemplate: len(template) > 0,
	}, nil
}
