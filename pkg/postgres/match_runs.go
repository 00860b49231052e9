package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/stay-packages/pkg/db"
)

// InsertMatchRun records a matching pass
func (d *DB) InsertMatchRun(ctx context.Context, run *db.MatchRun) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO match_run (id, booking_id, generation, criteria_key, care_pattern, total_hours_per_day,
			catalog_count, eligible_count, selected_package_id, no_match_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.BookingID, run.Generation, run.CriteriaKey, run.CarePattern, run.TotalHoursPerDay,
		run.CatalogCount, run.EligibleCount, nullableString(run.SelectedPackageID), nullableString(run.NoMatchMessage))
	if err != nil {
		return fmt.Errorf("failed to insert match run: %w", err)
	}
	return nil
}

// GetMatchRuns retrieves a booking's matching passes, oldest first
func (d *DB) GetMatchRuns(ctx context.Context, bookingID string) ([]db.MatchRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, booking_id, generation, criteria_key, care_pattern, total_hours_per_day,
			catalog_count, eligible_count, selected_package_id, no_match_message, created_at
		FROM match_run
		WHERE booking_id = $1
		ORDER BY created_at, generation
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match runs: %w", err)
	}
	defer rows.Close()

	var runs []db.MatchRun
	for rows.Next() {
		var r db.MatchRun
		var selectedPackageID, noMatchMessage *string
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.BookingID, &r.Generation, &r.CriteriaKey, &r.CarePattern, &r.TotalHoursPerDay,
			&r.CatalogCount, &r.EligibleCount, &selectedPackageID, &noMatchMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan match run: %w", err)
		}
		if selectedPackageID != nil {
			r.SelectedPackageID = *selectedPackageID
		}
		if noMatchMessage != nil {
			r.NoMatchMessage = *noMatchMessage
		}
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match runs: %w", err)
	}

	return runs, nil
}
