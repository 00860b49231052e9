package careanalysis

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// DefaultTemplateRule repeats a care template on every day of the stay
const DefaultTemplateRule = "FREQ=DAILY"

// CareTemplate is a "same care every day" answer: period → duration text
type CareTemplate map[model.CarePeriod]string

var templatePeriodOrder = []model.CarePeriod{
	model.CarePeriodMorning,
	model.CarePeriodAfternoon,
	model.CarePeriodEvening,
}

// ExpandTemplate turns a care template into per-date entries for every occurrence of rule
// between checkIn and checkOut (both inclusive). An empty rule means every day.
func ExpandTemplate(rule string, checkIn, checkOut time.Time, template CareTemplate) ([]Entry, error) {
	if checkOut.Before(checkIn) {
		return nil, fmt.Errorf("check-out %s is before check-in %s",
			checkOut.Format("2006-01-02"), checkIn.Format("2006-01-02"))
	}

	if rule == "" {
		rule = DefaultTemplateRule
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse care template rule: %w", err)
	}

	start := startOfDay(checkIn)
	end := startOfDay(checkOut)
	r.DTStart(start)

	var entries []Entry
	for _, occurrence := range r.Between(start, end, true) {
		date := occurrence.Format("2006-01-02")
		for _, period := range templatePeriodOrder {
			duration, ok := template[period]
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Care:   period,
				Date:   date,
				Values: EntryValues{Duration: DurationText(duration)},
			})
		}
	}

	return entries, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
