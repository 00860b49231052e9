package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/stay-packages/pkg/db"
)

// mockStore is an in-memory implementation of every store the services use
type mockStore struct {
	bookings   map[string]*db.Booking
	packages   []db.Package
	selections map[string]*db.Selection
	runs       []db.MatchRun

	getPackagesErr error
	upsertCalls    int
	answerUpdates  int
}

func newMockStore() *mockStore {
	return &mockStore{
		bookings:   make(map[string]*db.Booking),
		selections: make(map[string]*db.Selection),
	}
}

func (m *mockStore) GetBooking(ctx context.Context, id string) (*db.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, db.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

func (m *mockStore) UpdateBookingAnswers(ctx context.Context, id string, qaPairs []byte) error {
	b, ok := m.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, db.ErrNotFound)
	}
	b.QAPairs = qaPairs
	m.answerUpdates++
	return nil
}

func (m *mockStore) GetPackages(ctx context.Context) ([]db.Package, error) {
	if m.getPackagesErr != nil {
		return nil, m.getPackagesErr
	}
	return m.packages, nil
}

func (m *mockStore) GetPackagesByFunder(ctx context.Context, funder string) ([]db.Package, error) {
	var result []db.Package
	for _, p := range m.packages {
		if db.FunderMatchKey(p.Funder) == db.FunderMatchKey(funder) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockStore) GetSelection(ctx context.Context, bookingID string) (*db.Selection, error) {
	s, ok := m.selections[bookingID]
	if !ok {
		return nil, fmt.Errorf("selection for booking %s: %w", bookingID, db.ErrNotFound)
	}
	copied := *s
	return &copied, nil
}

func (m *mockStore) UpsertSelection(ctx context.Context, selection *db.Selection) error {
	copied := *selection
	m.selections[selection.BookingID] = &copied
	m.upsertCalls++
	return nil
}

func (m *mockStore) InsertMatchRun(ctx context.Context, run *db.MatchRun) error {
	m.runs = append(m.runs, *run)
	return nil
}

func (m *mockStore) GetMatchRuns(ctx context.Context, bookingID string) ([]db.MatchRun, error) {
	var result []db.MatchRun
	for _, r := range m.runs {
		if r.BookingID == bookingID {
			result = append(result, r)
		}
	}
	return result, nil
}

type sentEmail struct {
	to, subject, body string
}

// mockNotifier records sent emails
type mockNotifier struct {
	sent []sentEmail
	err  error
}

func (m *mockNotifier) SendEmail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
