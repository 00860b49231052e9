package services

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/careanalysis"
	"github.com/jakechorley/stay-packages/pkg/core/guestcriteria"
	"github.com/jakechorley/stay-packages/pkg/core/model"
	"github.com/jakechorley/stay-packages/pkg/db"
)

const stayDateLayout = "2006-01-02"

// ToModelPackage converts a catalog record into the engine's package type
func ToModelPackage(p db.Package) model.Package {
	pkg := model.Package{
		ID:          p.ID,
		PackageCode: p.PackageCode,
		Name:        p.Name,
		Funder:      model.ParseFunder(p.Funder),
		MatchScore:  p.MatchScore,
	}

	if r := p.Requirement; r != nil {
		req := &model.PackageRequirement{
			RequiresNoCare:       model.TriStateFromBool(r.RequiresNoCare),
			CareHoursMin:         r.CareHoursMin,
			CareHoursMax:         r.CareHoursMax,
			RequiresCourse:       model.TriStateFromBool(r.RequiresCourse),
			CompatibleWithCourse: model.TriStateFromBool(r.CompatibleWithCourse),
		}
		if r.STARequirements != nil {
			req.STARequirements = []byte(*r.STARequirements)
		}
		pkg.Requirement = req
	}

	return pkg
}

// ToModelPackages converts a whole catalog, keeping its order
func ToModelPackages(packages []db.Package) []model.Package {
	result := make([]model.Package, len(packages))
	for i, p := range packages {
		result[i] = ToModelPackage(p)
	}
	return result
}

// BuildCriteria combines the care analysis and the extracted guest facts.
// Care hours are the daily average rounded up to a whole hour.
func BuildCriteria(analysis careanalysis.Result, extraction guestcriteria.Result) model.EligibilityCriteria {
	return model.EligibilityCriteria{
		FunderType:      extraction.FunderType,
		NDISPackageType: extraction.NDISPackageType,
		CareHours:       analysis.CareHours(),
		HasCourse:       extraction.HasCourse,
		CourseOffered:   extraction.CourseOffered,
		STAInPlan:       extraction.STAInPlan,
	}
}

// bookingSources decodes the booking's stored answers. Unreadable JSON is logged and skipped.
func bookingSources(booking *db.Booking, logger *zap.Logger) guestcriteria.Sources {
	src := guestcriteria.Sources{
		QAPairs:      decodeAnswers(booking.QAPairs, booking.ID, logger),
		FormPairs:    guestcriteria.CollectFormPairs(booking.FormData, logger),
		IsNDISFunded: booking.IsNDISFunded,
		RawFunder:    booking.Funder,
	}

	if len(booking.CourseAnalysis) > 0 {
		var analysis guestcriteria.CourseAnalysis
		if err := json.Unmarshal(booking.CourseAnalysis, &analysis); err != nil {
			logger.Warn("Ignoring unreadable course analysis",
				zap.String("booking_id", booking.ID),
				zap.Error(err))
		} else {
			src.CourseAnalysis = &analysis
		}
	}

	return src
}

func decodeAnswers(raw []byte, bookingID string, logger *zap.Logger) []guestcriteria.QuestionAnswer {
	if len(raw) == 0 {
		return nil
	}
	var pairs []guestcriteria.QuestionAnswer
	if err := json.Unmarshal(raw, &pairs); err != nil {
		logger.Warn("Ignoring unreadable question/answer pairs",
			zap.String("booking_id", bookingID),
			zap.Error(err))
		return nil
	}
	return pairs
}

// analyzeBooking analyses the booking's stored care data, or the template expanded over
// the stay when one is given
func analyzeBooking(booking *db.Booking, template careanalysis.CareTemplate, rule string, analyzer *careanalysis.Analyzer, logger *zap.Logger) (careanalysis.Result, error) {
	if len(template) == 0 {
		return analyzer.Analyze(careanalysis.DecodeEntries(booking.CareData, logger)), nil
	}

	checkIn, err := time.Parse(stayDateLayout, booking.CheckIn)
	if err != nil {
		return careanalysis.Result{}, fmt.Errorf("failed to parse check-in date %q: %w", booking.CheckIn, err)
	}
	checkOut, err := time.Parse(stayDateLayout, booking.CheckOut)
	if err != nil {
		return careanalysis.Result{}, fmt.Errorf("failed to parse check-out date %q: %w", booking.CheckOut, err)
	}

	entries, err := careanalysis.ExpandTemplate(rule, checkIn, checkOut, template)
	if err != nil {
		return careanalysis.Result{}, fmt.Errorf("failed to expand care template: %w", err)
	}

	return analyzer.Analyze(entries), nil
}
