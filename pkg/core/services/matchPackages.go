package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/internal/config"
	"github.com/jakechorley/stay-packages/pkg/core/careanalysis"
	"github.com/jakechorley/stay-packages/pkg/core/eligibility"
	"github.com/jakechorley/stay-packages/pkg/core/eligibility/criteria"
	"github.com/jakechorley/stay-packages/pkg/core/guestcriteria"
	"github.com/jakechorley/stay-packages/pkg/core/model"
	"github.com/jakechorley/stay-packages/pkg/core/ranking"
	"github.com/jakechorley/stay-packages/pkg/db"
)

// MatchPackagesStore defines the database operations needed for a matching pass
type MatchPackagesStore interface {
	GetBooking(ctx context.Context, id string) (*db.Booking, error)
	GetPackages(ctx context.Context) ([]db.Package, error)
	GetSelection(ctx context.Context, bookingID string) (*db.Selection, error)
	UpsertSelection(ctx context.Context, selection *db.Selection) error
	InsertMatchRun(ctx context.Context, run *db.MatchRun) error
}

// Notifier sends no-match alerts
type Notifier interface {
	SendEmail(to, subject, body string) error
}

// MatchRequest identifies one matching pass
type MatchRequest struct {
	BookingID string

	// Generation is the caller's request token, see GenerationTracker
	Generation int64

	// BestMatch forces best-match selection regardless of the configured mode
	BestMatch bool

	// DryRun computes the decision without saving anything or sending alerts
	DryRun bool
}

// MatchResult is everything a matching pass decided
type MatchResult struct {
	Booking    *db.Booking
	Analysis   careanalysis.Result
	Extraction guestcriteria.Result
	Criteria   model.EligibilityCriteria
	Outcome    eligibility.Outcome
	Ranked     []ranking.RankedPackage
	Mode       ranking.Mode
	Decision   ranking.Decision
	MatchRunID string

	// Superseded is set when a newer request for the booking started before this one finished.
	// Nothing is persisted for a superseded pass.
	Superseded bool
}

// GenerationTracker hands out increasing request generations per booking so that a pass
// started for stale inputs can tell it has been overtaken
type GenerationTracker struct {
	mu     sync.Mutex
	latest map[string]int64
	writes map[string]*sync.Mutex
}

// NewGenerationTracker creates an empty tracker
func NewGenerationTracker() *GenerationTracker {
	return &GenerationTracker{
		latest: make(map[string]int64),
		writes: make(map[string]*sync.Mutex),
	}
}

// Next starts a new generation for the booking, superseding every earlier one
func (t *GenerationTracker) Next(bookingID string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[bookingID]++
	return t.latest[bookingID]
}

// IsCurrent reports whether generation is still the latest for the booking
func (t *GenerationTracker) IsCurrent(bookingID string, generation int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[bookingID] == generation
}

// Commit runs write only if generation is still current, holding the booking's write lock
// across the check and the write. Writes for one booking never interleave, so an older
// pass cannot land after a newer one. Reports whether write ran.
func (t *GenerationTracker) Commit(bookingID string, generation int64, write func() error) (bool, error) {
	lock := t.writeLock(bookingID)
	lock.Lock()
	defer lock.Unlock()

	if !t.IsCurrent(bookingID, generation) {
		return false, nil
	}
	return true, write()
}

func (t *GenerationTracker) writeLock(bookingID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.writes[bookingID]
	if !ok {
		lock = &sync.Mutex{}
		t.writes[bookingID] = lock
	}
	return lock
}

// MatchPackages runs a full matching pass for a booking: analyse care, extract guest
// criteria, filter and rank the catalog, then apply the selection policy.
// The selection is saved only when it changed. Every non-dry pass is recorded as a match run.
// tracker may be nil when the caller never overlaps requests.
func MatchPackages(
	ctx context.Context,
	database MatchPackagesStore,
	notifier Notifier,
	tracker *GenerationTracker,
	cfg *config.Config,
	logger *zap.Logger,
	req MatchRequest,
) (*MatchResult, error) {
	logger = logger.With(zap.String("booking_id", req.BookingID), zap.Int64("generation", req.Generation))
	logger.Debug("Starting matchPackages", zap.Bool("best_match", req.BestMatch), zap.Bool("dry_run", req.DryRun))

	// Step 1: Load the booking and analyse its care
	booking, err := database.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	analyzer := careanalysis.NewAnalyzer(logger, cfg.Recommendations())
	analysis, err := analyzeBooking(booking, nil, cfg.TemplateRule(), analyzer, logger)
	if err != nil {
		return nil, err
	}

	// Step 2: Build the criteria
	extraction := guestcriteria.NewExtractor(logger).Extract(bookingSources(booking, logger), analysis.CareHours())
	guest := BuildCriteria(analysis, extraction)

	// Step 3: Filter and rank a fresh copy of the catalog
	catalog, err := database.GetPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch packages: %w", err)
	}
	packages := ToModelPackages(catalog)

	filter := eligibility.NewFilter(logger, cfg.Diagnostics, criteria.Defaults(logger)...)
	outcome := filter.Apply(&guest, packages)
	ranked := ranking.Rank(outcome.Eligible, &guest, analysis.RecommendedPackages.For(guest.FunderType))

	// Step 4: Apply the selection policy to the saved selection
	state, err := loadSelectionState(ctx, database, req.BookingID)
	if err != nil {
		return nil, err
	}

	mode := cfg.SelectionMode(guest.FunderType)
	if req.BestMatch {
		mode = ranking.ModeBestMatch
	}
	decision := ranking.NewSelector(mode).Select(state, &guest, ranked, len(packages))

	result := &MatchResult{
		Booking:    booking,
		Analysis:   analysis,
		Extraction: extraction,
		Criteria:   guest,
		Outcome:    outcome,
		Ranked:     ranked,
		Mode:       mode,
		Decision:   decision,
	}

	logger.Info("Packages matched",
		zap.Int("catalog", len(packages)),
		zap.Int("eligible", len(outcome.Eligible)),
		zap.String("selected_package_id", decision.State.SelectedPackageID),
		zap.Bool("changed", decision.Changed))

	// Step 5: Drop the result if it has been overtaken
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("matching cancelled: %w", err)
	}
	if tracker != nil && !tracker.IsCurrent(req.BookingID, req.Generation) {
		logger.Info("Matching pass superseded by a newer request, discarding it")
		result.Superseded = true
		return result, nil
	}

	if req.DryRun {
		logger.Debug("Dry run, nothing saved")
		return result, nil
	}

	// Step 6: Persist, unless a newer pass got there first
	persist := func() error {
		return saveMatch(ctx, database, req, analysis, len(packages), result)
	}
	if tracker == nil {
		if err := persist(); err != nil {
			return nil, err
		}
	} else {
		committed, err := tracker.Commit(req.BookingID, req.Generation, persist)
		if err != nil {
			return nil, err
		}
		if !committed {
			logger.Info("Matching pass superseded before saving, discarding it")
			result.Superseded = true
			return result, nil
		}
	}

	// Step 7: Alert once per criteria change when nothing matches
	if decision.NoMatch != nil && decision.Changed {
		notifyNoMatch(notifier, cfg, logger, booking, decision.NoMatch)
	}

	return result, nil
}

// saveMatch writes the selection when it changed and records the pass as a match run
func saveMatch(
	ctx context.Context,
	database MatchPackagesStore,
	req MatchRequest,
	analysis careanalysis.Result,
	catalogCount int,
	result *MatchResult,
) error {
	decision := result.Decision
	if decision.Changed {
		err := database.UpsertSelection(ctx, &db.Selection{
			BookingID:    req.BookingID,
			PackageID:    decision.State.SelectedPackageID,
			AutoSelected: decision.State.AutoSelected,
			CriteriaKey:  string(decision.State.CriteriaKey),
		})
		if err != nil {
			return fmt.Errorf("failed to save selection: %w", err)
		}
	}

	run := &db.MatchRun{
		ID:                uuid.New().String(),
		BookingID:         req.BookingID,
		Generation:        req.Generation,
		CriteriaKey:       string(decision.State.CriteriaKey),
		CarePattern:       string(analysis.CarePattern),
		TotalHoursPerDay:  analysis.TotalHoursPerDay,
		CatalogCount:      catalogCount,
		EligibleCount:     len(result.Outcome.Eligible),
		SelectedPackageID: decision.State.SelectedPackageID,
	}
	if decision.NoMatch != nil {
		run.NoMatchMessage = decision.NoMatch.Message()
	}
	if err := database.InsertMatchRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record match run: %w", err)
	}
	result.MatchRunID = run.ID
	return nil
}

func loadSelectionState(ctx context.Context, database MatchPackagesStore, bookingID string) (ranking.SelectionState, error) {
	selection, err := database.GetSelection(ctx, bookingID)
	if errors.Is(err, db.ErrNotFound) {
		return ranking.SelectionState{}, nil
	}
	if err != nil {
		return ranking.SelectionState{}, fmt.Errorf("failed to fetch selection: %w", err)
	}

	return ranking.SelectionState{
		SelectedPackageID: selection.PackageID,
		AutoSelected:      selection.AutoSelected,
		CriteriaKey:       model.CriteriaKey(selection.CriteriaKey),
	}, nil
}

// notifyNoMatch emails the configured address. A failed send is logged, never returned.
func notifyNoMatch(notifier Notifier, cfg *config.Config, logger *zap.Logger, booking *db.Booking, noMatch *ranking.NoEligiblePackages) {
	to := cfg.Notifications.NoMatchEmail
	if to == "" || notifier == nil {
		return
	}

	guest := booking.GuestName
	if guest == "" {
		guest = booking.ID
	}
	subject := fmt.Sprintf("No stay packages match booking for %s", guest)

	var body strings.Builder
	fmt.Fprintf(&body, "%s\n\n", noMatch.Message())
	fmt.Fprintf(&body, "Booking: %s\n", booking.ID)
	if booking.CheckIn != "" {
		fmt.Fprintf(&body, "Stay: %s to %s\n", booking.CheckIn, booking.CheckOut)
	}
	fmt.Fprintf(&body, "Funder: %s\n", noMatch.Criteria.FunderType)
	fmt.Fprintf(&body, "Care hours per day: %d\n", noMatch.Criteria.CareHours)

	if err := notifier.SendEmail(to, subject, body.String()); err != nil {
		logger.Warn("Failed to send no-match alert", zap.String("to", to), zap.Error(err))
		return
	}
	logger.Info("Sent no-match alert", zap.String("to", to))
}
