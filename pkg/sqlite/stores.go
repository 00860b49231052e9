package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/stay-packages/pkg/db"
)

const selectPackages = `
	SELECT p.id, p.package_code, p.name, p.funder, p.match_score,
		r.package_id IS NOT NULL,
		r.requires_no_care, r.care_hours_min, r.care_hours_max,
		r.requires_course, r.compatible_with_course, r.sta_requirements
	FROM package p
	LEFT JOIN package_requirement r ON r.package_id = p.id
`

// GetPackages retrieves the whole catalog with each package's requirement
func (d *DB) GetPackages(ctx context.Context) ([]db.Package, error) {
	return d.queryPackages(ctx, selectPackages+` ORDER BY p.package_code`)
}

// GetPackagesByFunder retrieves the packages offered to one funder, whichever spelling of it is stored
func (d *DB) GetPackagesByFunder(ctx context.Context, funder string) ([]db.Package, error) {
	return d.queryPackages(ctx, selectPackages+` WHERE `+db.FunderMatchSQL+` = ? ORDER BY p.package_code`,
		db.FunderMatchKey(funder))
}

func (d *DB) queryPackages(ctx context.Context, query string, args ...any) ([]db.Package, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	defer rows.Close()

	var packages []db.Package
	for rows.Next() {
		var p db.Package
		var hasRequirement bool
		var r db.PackageRequirement
		if err := rows.Scan(
			&p.ID, &p.PackageCode, &p.Name, &p.Funder, &p.MatchScore,
			&hasRequirement,
			&r.RequiresNoCare, &r.CareHoursMin, &r.CareHoursMax,
			&r.RequiresCourse, &r.CompatibleWithCourse, &r.STARequirements,
		); err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		if hasRequirement {
			p.Requirement = &r
		}
		packages = append(packages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating packages: %w", err)
	}

	return packages, nil
}

// InsertPackage inserts a package and, when present, its requirement
func (d *DB) InsertPackage(ctx context.Context, pkg *db.Package) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO package (id, package_code, name, funder, match_score)
		VALUES (?, ?, ?, ?, ?)
	`, pkg.ID, pkg.PackageCode, pkg.Name, pkg.Funder, pkg.MatchScore)
	if err != nil {
		return fmt.Errorf("failed to insert package: %w", err)
	}

	if r := pkg.Requirement; r != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO package_requirement (package_id, requires_no_care, care_hours_min, care_hours_max,
				requires_course, compatible_with_course, sta_requirements)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, pkg.ID, r.RequiresNoCare, r.CareHoursMin, r.CareHoursMax,
			r.RequiresCourse, r.CompatibleWithCourse, r.STARequirements)
		if err != nil {
			return fmt.Errorf("failed to insert package requirement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit package: %w", err)
	}
	return nil
}

// GetBooking retrieves a booking and its raw form data
func (d *DB) GetBooking(ctx context.Context, id string) (*db.Booking, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT id, guest_name, guest_email, funder, is_ndis_funded, check_in, check_out,
			care_data, qa_pairs, form_data, course_analysis
		FROM booking
		WHERE id = ?
	`, id)

	var b db.Booking
	var checkIn, checkOut, careData, qaPairs, formData, courseAnalysis *string
	err := row.Scan(&b.ID, &b.GuestName, &b.GuestEmail, &b.Funder, &b.IsNDISFunded, &checkIn, &checkOut,
		&careData, &qaPairs, &formData, &courseAnalysis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, db.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}

	if checkIn != nil {
		b.CheckIn = *checkIn
	}
	if checkOut != nil {
		b.CheckOut = *checkOut
	}
	b.CareData = bytesOf(careData)
	b.QAPairs = bytesOf(qaPairs)
	b.FormData = bytesOf(formData)
	b.CourseAnalysis = bytesOf(courseAnalysis)

	return &b, nil
}

// InsertBooking inserts a new booking record
func (d *DB) InsertBooking(ctx context.Context, b *db.Booking) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO booking (id, guest_name, guest_email, funder, is_ndis_funded, check_in, check_out,
			care_data, qa_pairs, form_data, course_analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.GuestName, b.GuestEmail, b.Funder, b.IsNDISFunded,
		nullableString(b.CheckIn), nullableString(b.CheckOut),
		nullableBytes(b.CareData), nullableBytes(b.QAPairs), nullableBytes(b.FormData), nullableBytes(b.CourseAnalysis))
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// UpdateBookingAnswers replaces the booking's stable question/answer pairs
func (d *DB) UpdateBookingAnswers(ctx context.Context, id string, qaPairs []byte) error {
	res, err := d.conn.ExecContext(ctx, `UPDATE booking SET qa_pairs = ? WHERE id = ?`, nullableBytes(qaPairs), id)
	if err != nil {
		return fmt.Errorf("failed to update booking answers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("booking %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// GetSelection retrieves the current package selection for a booking
func (d *DB) GetSelection(ctx context.Context, bookingID string) (*db.Selection, error) {
	row := d.conn.QueryRowContext(ctx, `
		SELECT booking_id, package_id, auto_selected, criteria_key, updated_at
		FROM package_selection
		WHERE booking_id = ?
	`, bookingID)

	var s db.Selection
	var packageID *string
	if err := row.Scan(&s.BookingID, &packageID, &s.AutoSelected, &s.CriteriaKey, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("selection for booking %s: %w", bookingID, db.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan selection: %w", err)
	}
	if packageID != nil {
		s.PackageID = *packageID
	}

	return &s, nil
}

// UpsertSelection records the booking's package selection, replacing any previous one
func (d *DB) UpsertSelection(ctx context.Context, s *db.Selection) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO package_selection (booking_id, package_id, auto_selected, criteria_key, updated_at)
		VALUES (?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT (booking_id) DO UPDATE SET
			package_id = excluded.package_id,
			auto_selected = excluded.auto_selected,
			criteria_key = excluded.criteria_key,
			updated_at = excluded.updated_at
	`, s.BookingID, nullableString(s.PackageID), s.AutoSelected, s.CriteriaKey)
	if err != nil {
		return fmt.Errorf("failed to upsert selection: %w", err)
	}
	return nil
}

// InsertMatchRun records a matching pass
func (d *DB) InsertMatchRun(ctx context.Context, run *db.MatchRun) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO match_run (id, booking_id, generation, criteria_key, care_pattern, total_hours_per_day,
			catalog_count, eligible_count, selected_package_id, no_match_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.BookingID, run.Generation, run.CriteriaKey, run.CarePattern, run.TotalHoursPerDay,
		run.CatalogCount, run.EligibleCount, nullableString(run.SelectedPackageID), nullableString(run.NoMatchMessage))
	if err != nil {
		return fmt.Errorf("failed to insert match run: %w", err)
	}
	return nil
}

// GetMatchRuns retrieves a booking's matching passes, oldest first
func (d *DB) GetMatchRuns(ctx context.Context, bookingID string) ([]db.MatchRun, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, booking_id, generation, criteria_key, care_pattern, total_hours_per_day,
			catalog_count, eligible_count, selected_package_id, no_match_message, created_at
		FROM match_run
		WHERE booking_id = ?
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
		if err := rows.Scan(&r.ID, &r.BookingID, &r.Generation, &r.CriteriaKey, &r.CarePattern, &r.TotalHoursPerDay,
			&r.CatalogCount, &r.EligibleCount, &selectedPackageID, &noMatchMessage, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match run: %w", err)
		}
		if selectedPackageID != nil {
			r.SelectedPackageID = *selectedPackageID
		}
		if noMatchMessage != nil {
			r.NoMatchMessage = *noMatchMessage
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match runs: %w", err)
	}

	return runs, nil
}
