package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/stay-packages/pkg/db"
)

// GetSelection retrieves the current package selection for a booking
func (d *DB) GetSelection(ctx context.Context, bookingID string) (*db.Selection, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT booking_id, package_id::text, auto_selected, criteria_key, updated_at
		FROM package_selection
		WHERE booking_id = $1
	`, bookingID)

	var s db.Selection
	var packageID *string
	var updatedAt time.Time
	if err := row.Scan(&s.BookingID, &packageID, &s.AutoSelected, &s.CriteriaKey, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("selection for booking %s: %w", bookingID, db.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan selection: %w", err)
	}
	if packageID != nil {
		s.PackageID = *packageID
	}
	s.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)

	return &s, nil
}

// UpsertSelection records the booking's package selection, replacing any previous one
func (d *DB) UpsertSelection(ctx context.Context, s *db.Selection) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO package_selection (booking_id, package_id, auto_selected, criteria_key, updated_at)
		VALUES ($1, $2::uuid, $3, $4, NOW())
		ON CONFLICT (booking_id) DO UPDATE SET
			package_id = EXCLUDED.package_id,
			auto_selected = EXCLUDED.auto_selected,
			criteria_key = EXCLUDED.criteria_key,
			updated_at = EXCLUDED.updated_at
	`, s.BookingID, nullableString(s.PackageID), s.AutoSelected, s.CriteriaKey)
	if err != nil {
		return fmt.Errorf("failed to upsert selection: %w", err)
	}
	return nil
}
