package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/stay-packages/pkg/db"
)

// GetBooking retrieves a booking and its raw form data
func (d *DB) GetBooking(ctx context.Context, id string) (*db.Booking, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT id, guest_name, guest_email, funder, is_ndis_funded, check_in, check_out,
			care_data::text, qa_pairs::text, form_data::text, course_analysis::text
		FROM booking
		WHERE id = $1
	`, id)

	var b db.Booking
	var checkIn, checkOut *time.Time
	var careData, qaPairs, formData, courseAnalysis *string
	err := row.Scan(&b.ID, &b.GuestName, &b.GuestEmail, &b.Funder, &b.IsNDISFunded, &checkIn, &checkOut,
		&careData, &qaPairs, &formData, &courseAnalysis)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %s: %w", id, db.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}

	if checkIn != nil {
		b.CheckIn = checkIn.Format("2006-01-02")
	}
	if checkOut != nil {
		b.CheckOut = checkOut.Format("2006-01-02")
	}
	b.CareData = bytesOf(careData)
	b.QAPairs = bytesOf(qaPairs)
	b.FormData = bytesOf(formData)
	b.CourseAnalysis = bytesOf(courseAnalysis)

	return &b, nil
}

// InsertBooking inserts a new booking record
func (d *DB) InsertBooking(ctx context.Context, b *db.Booking) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO booking (id, guest_name, guest_email, funder, is_ndis_funded, check_in, check_out,
			care_data, qa_pairs, form_data, course_analysis)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, $8::jsonb, $9::jsonb, $10::jsonb, $11::jsonb)
	`, b.ID, b.GuestName, b.GuestEmail, b.Funder, b.IsNDISFunded,
		nullableString(b.CheckIn), nullableString(b.CheckOut),
		jsonText(b.CareData), jsonText(b.QAPairs), jsonText(b.FormData), jsonText(b.CourseAnalysis))
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// UpdateBookingAnswers replaces the booking's stable question/answer pairs
func (d *DB) UpdateBookingAnswers(ctx context.Context, id string, qaPairs []byte) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE booking SET qa_pairs = $2::jsonb WHERE id = $1
	`, id, jsonText(qaPairs))
	if err != nil {
		return fmt.Errorf("failed to update booking answers: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id, db.ErrNotFound)
	}
	return nil
}

func bytesOf(s *string) []byte {
	if s == nil {
		return nil
	}
	return []byte(*s)
}

// jsonText passes JSON as text so the ::jsonb cast parses it
func jsonText(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := string(b)
	return &s
}
