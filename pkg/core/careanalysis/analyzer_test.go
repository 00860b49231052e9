package careanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(zap.NewNop(), DefaultRecommendations())
}

func entry(care model.CarePeriod, date, duration string) Entry {
	return Entry{Care: care, Date: date, Values: EntryValues{Duration: DurationText(duration)}}
}

func TestClassifyCarePattern_Boundaries(t *testing.T) {
	tests := []struct {
		hours float64
		want  model.CarePattern
	}{
		{0, model.CarePatternNone},
		{0.01, model.CarePatternMinimal},
		{2, model.CarePatternMinimal},
		{2.01, model.CarePatternModerate},
		{6, model.CarePatternModerate},
		{6.5, model.CarePatternHigh},
		{12, model.CarePatternHigh},
		{12.5, model.CarePatternIntensive},
		{24, model.CarePatternIntensive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCarePattern(tt.hours), "hours=%v", tt.hours)
	}
}

func TestClassifyCarePattern_EveryValueHasExactlyOneBucket(t *testing.T) {
	for h := 0.0; h <= 30; h += 0.25 {
		pattern := ClassifyCarePattern(h)
		matches := 0
		for _, p := range model.CarePatterns {
			if p == pattern {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "hours=%v", h)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	result := newTestAnalyzer().Analyze(nil)

	assert.Equal(t, 0.0, result.TotalHoursPerDay)
	assert.Equal(t, model.CarePatternNone, result.CarePattern)
	assert.Empty(t, result.DailyBreakdown)
	assert.Equal(t, 0, result.CareHours())
	assert.Equal(t, []string{"HOL-NDIS", "STA-NDIS"}, result.RecommendedPackages.NDIS)
	assert.Equal(t, []string{"WS-STD"}, result.RecommendedPackages.NonNDIS)
}

func TestAnalyze_AveragesAcrossDates(t *testing.T) {
	entries := []Entry{
		entry(model.CarePeriodMorning, "2025-03-01", "2 hours"),
		entry(model.CarePeriodEvening, "2025-03-01", "60 minutes"),
		entry(model.CarePeriodMorning, "2025-03-02", "1 hour"),
	}

	result := newTestAnalyzer().Analyze(entries)

	// Day 1: 3h, day 2: 1h → average 2h
	assert.Equal(t, 2.0, result.TotalHoursPerDay)
	assert.Equal(t, model.CarePatternMinimal, result.CarePattern)
	assert.Equal(t, 2, result.CareHours())

	require.Len(t, result.DailyBreakdown, 2)
	day1 := result.DailyBreakdown["2025-03-01"]
	assert.Equal(t, 2.0, day1.Morning)
	assert.Equal(t, 0.0, day1.Afternoon)
	assert.Equal(t, 1.0, day1.Evening)
	assert.Equal(t, 3.0, day1.Total)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, result.Dates())
}

func TestAnalyze_SixHoursIsModerate(t *testing.T) {
	entries := []Entry{
		entry(model.CarePeriodMorning, "2025-03-01", "2 hours"),
		entry(model.CarePeriodAfternoon, "2025-03-01", "120 minutes"),
		entry(model.CarePeriodEvening, "2025-03-01", "2"),
	}

	result := newTestAnalyzer().Analyze(entries)

	assert.Equal(t, 6.0, result.TotalHoursPerDay)
	assert.Equal(t, model.CarePatternModerate, result.CarePattern)
	assert.Equal(t, 6, result.CareHours())
}

func TestAnalyze_BadEntryDoesNotInvalidateOthers(t *testing.T) {
	entries := []Entry{
		entry(model.CarePeriodMorning, "2025-03-01", "not sure"),
		entry(model.CarePeriodAfternoon, "2025-03-01", "3 hours"),
		entry("midnight", "2025-03-01", "5 hours"),
		entry(model.CarePeriodEvening, "", "5 hours"),
	}

	result := newTestAnalyzer().Analyze(entries)

	assert.Equal(t, 3.0, result.TotalHoursPerDay)
	assert.Equal(t, model.CarePatternModerate, result.CarePattern)
	require.Len(t, result.DailyBreakdown, 1)
	assert.Equal(t, 0.0, result.DailyBreakdown["2025-03-01"].Morning)
}

func TestAnalyze_LaterEntryOverwritesSamePeriod(t *testing.T) {
	entries := []Entry{
		entry(model.CarePeriodMorning, "2025-03-01", "4 hours"),
		entry(model.CarePeriodMorning, "2025-03-01T00:00:00Z", "1 hour"),
	}

	result := newTestAnalyzer().Analyze(entries)

	assert.Equal(t, 1.0, result.TotalHoursPerDay)
	require.Len(t, result.DailyBreakdown, 1)
}

func TestAnalyze_PeriodIsCaseInsensitive(t *testing.T) {
	result := newTestAnalyzer().Analyze([]Entry{entry("Morning", "2025-03-01", "1 hour")})
	assert.Equal(t, 1.0, result.TotalHoursPerDay)
}

func TestAnalyze_FractionalCareHoursRoundUp(t *testing.T) {
	entries := []Entry{
		entry(model.CarePeriodMorning, "2025-03-01", "20 minutes"),
		entry(model.CarePeriodEvening, "2025-03-01", "40 minutes"),
		entry(model.CarePeriodMorning, "2025-03-02", "30 minutes"),
	}

	result := newTestAnalyzer().Analyze(entries)

	assert.InDelta(t, 0.75, result.TotalHoursPerDay, 1e-9)
	assert.Equal(t, 1, result.CareHours())
	assert.Equal(t, model.CarePatternMinimal, result.CarePattern)
}

func TestAnalyze_RecommendationsFollowPattern(t *testing.T) {
	result := newTestAnalyzer().Analyze([]Entry{entry(model.CarePeriodMorning, "2025-03-01", "14")})

	assert.Equal(t, model.CarePatternIntensive, result.CarePattern)
	assert.Equal(t, []string{"STA-IC-NDIS"}, result.RecommendedPackages.NDIS)
	assert.Equal(t, []string{"WS-IC"}, result.RecommendedPackages.NonNDIS)
}

func TestRecommendedPackages_For(t *testing.T) {
	recs := RecommendedPackages{
		NDIS:    []string{"A", "B"},
		NonNDIS: []string{"B", "C"},
	}

	assert.Equal(t, []string{"A", "B"}, recs.For(model.FunderNDIS))
	assert.Equal(t, []string{"B", "C"}, recs.For(model.FunderNonNDIS))
	assert.Equal(t, []string{"A", "B", "C"}, recs.For(model.FunderUnknown))
}

func TestRecommendations_WithOverrides(t *testing.T) {
	recs := DefaultRecommendations().WithOverrides(
		map[model.CarePattern][]string{model.CarePatternHigh: {"CUSTOM"}},
		nil,
	)

	assert.Equal(t, []string{"CUSTOM"}, recs.Lookup(model.CarePatternHigh).NDIS)
	assert.Equal(t, []string{"STA-IC-NDIS"}, recs.Lookup(model.CarePatternIntensive).NDIS)
	assert.Equal(t, []string{"WS-HC"}, recs.Lookup(model.CarePatternHigh).NonNDIS)

	// The defaults are untouched
	assert.Equal(t, []string{"STA-HC-NDIS"}, DefaultRecommendations().Lookup(model.CarePatternHigh).NDIS)
}
