package careanalysis

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// Care pattern thresholds in hours per day. Each bucket includes its upper bound.
const (
	minimalCareMaxHours  = 2.0
	moderateCareMaxHours = 6.0
	highCareMaxHours     = 12.0
)

// DailyTotal is the care need for a single date
type DailyTotal struct {
	Morning   float64
	Afternoon float64
	Evening   float64
	Total     float64
}

// Result is the outcome of analysing a care schedule
type Result struct {
	TotalHoursPerDay    float64
	CarePattern         model.CarePattern
	RecommendedPackages RecommendedPackages
	DailyBreakdown      map[string]DailyTotal
}

// CareHours is the whole-hour figure used by eligibility rules (ceiling of the daily average)
func (r Result) CareHours() int {
	return int(math.Ceil(r.TotalHoursPerDay))
}

// Dates returns the analysed dates in calendar order
func (r Result) Dates() []string {
	dates := make([]string, 0, len(r.DailyBreakdown))
	for date := range r.DailyBreakdown {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Analyzer turns care schedules into a CareAnalysisResult
type Analyzer struct {
	logger          *zap.Logger
	recommendations Recommendations
}

// NewAnalyzer creates an Analyzer using the given recommendation table
func NewAnalyzer(logger *zap.Logger, recommendations Recommendations) *Analyzer {
	return &Analyzer{
		logger:          logger,
		recommendations: recommendations,
	}
}

// Analyze computes daily totals, the average daily care hours and the care pattern.
// It never fails; malformed entries contribute nothing.
func (a *Analyzer) Analyze(entries []Entry) Result {
	periodHours := make(map[string]map[model.CarePeriod]float64)

	for i, entry := range entries {
		period := model.CarePeriod(strings.ToLower(strings.TrimSpace(string(entry.Care))))
		if !period.IsValid() {
			a.logger.Warn("Skipping care entry with unknown period",
				zap.Int("index", i),
				zap.String("care", string(entry.Care)))
			continue
		}

		date := normalizeDate(entry.Date)
		if date == "" {
			a.logger.Warn("Skipping care entry without a date", zap.Int("index", i))
			continue
		}

		hours := ParseDuration(string(entry.Values.Duration))
		if hours == 0 && strings.TrimSpace(string(entry.Values.Duration)) != "" {
			a.logger.Debug("Unparseable care duration counted as 0 hours",
				zap.String("date", date),
				zap.String("period", string(period)),
				zap.String("duration", string(entry.Values.Duration)))
		}

		periods, exists := periodHours[date]
		if !exists {
			periods = make(map[model.CarePeriod]float64)
			periodHours[date] = periods
		}
		if _, duplicate := periods[period]; duplicate {
			// Later entries win for the same date and period
			a.logger.Debug("Overwriting duplicate care entry",
				zap.String("date", date),
				zap.String("period", string(period)))
		}
		periods[period] = hours
	}

	breakdown := make(map[string]DailyTotal, len(periodHours))
	var sum float64
	for date, periods := range periodHours {
		total := DailyTotal{
			Morning:   periods[model.CarePeriodMorning],
			Afternoon: periods[model.CarePeriodAfternoon],
			Evening:   periods[model.CarePeriodEvening],
		}
		total.Total = total.Morning + total.Afternoon + total.Evening
		breakdown[date] = total
		sum += total.Total
	}

	average := 0.0
	if len(breakdown) > 0 {
		average = roundHours(sum / float64(len(breakdown)))
	}

	pattern := ClassifyCarePattern(average)

	a.logger.Debug("Care schedule analysed",
		zap.Int("entries", len(entries)),
		zap.Int("dates", len(breakdown)),
		zap.Float64("hours_per_day", average),
		zap.String("care_pattern", string(pattern)))

	return Result{
		TotalHoursPerDay:    average,
		CarePattern:         pattern,
		RecommendedPackages: a.recommendations.Lookup(pattern),
		DailyBreakdown:      breakdown,
	}
}

// ClassifyCarePattern maps average daily hours onto the five disjoint care buckets:
// 0, (0,2], (2,6], (6,12], (12,∞)
func ClassifyCarePattern(hoursPerDay float64) model.CarePattern {
	switch {
	case hoursPerDay <= 0:
		return model.CarePatternNone
	case hoursPerDay <= minimalCareMaxHours:
		return model.CarePatternMinimal
	case hoursPerDay <= moderateCareMaxHours:
		return model.CarePatternModerate
	case hoursPerDay <= highCareMaxHours:
		return model.CarePatternHigh
	default:
		return model.CarePatternIntensive
	}
}

// roundHours trims float noise from summed fractions (e.g. 20 min + 40 min) before bucketing
func roundHours(h float64) float64 {
	return math.Round(h*1e6) / 1e6
}
