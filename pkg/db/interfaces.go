package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// PackageStore defines the interface for package catalog operations
type PackageStore interface {
	GetPackages(ctx context.Context) ([]Package, error)
	GetPackagesByFunder(ctx context.Context, funder string) ([]Package, error)
	InsertPackage(ctx context.Context, pkg *Package) error
}

// BookingStore defines the interface for booking operations
type BookingStore interface {
	GetBooking(ctx context.Context, id string) (*Booking, error)
	InsertBooking(ctx context.Context, booking *Booking) error
	UpdateBookingAnswers(ctx context.Context, id string, qaPairs []byte) error
}

// SelectionStore defines the interface for package selection operations
type SelectionStore interface {
	GetSelection(ctx context.Context, bookingID string) (*Selection, error)
	UpsertSelection(ctx context.Context, selection *Selection) error
}

// MatchRunStore defines the interface for match run history operations
type MatchRunStore interface {
	InsertMatchRun(ctx context.Context, run *MatchRun) error
	GetMatchRuns(ctx context.Context, bookingID string) ([]MatchRun, error)
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	PackageStore
	BookingStore
	SelectionStore
	MatchRunStore
	RunMigrations(ctx context.Context) error
	Close()
}
