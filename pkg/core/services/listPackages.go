package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
	"github.com/jakechorley/stay-packages/pkg/db"
)

// ListPackagesStore defines the database operations needed for listing the catalog
type ListPackagesStore interface {
	GetPackages(ctx context.Context) ([]db.Package, error)
	GetPackagesByFunder(ctx context.Context, funder string) ([]db.Package, error)
}

// ListPackages returns the catalog, optionally limited to one funder ("NDIS" or "Non-NDIS")
func ListPackages(ctx context.Context, database ListPackagesStore, logger *zap.Logger, funder string) ([]db.Package, error) {
	if funder == "" {
		packages, err := database.GetPackages(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch packages: %w", err)
		}
		logger.Debug("Fetched catalog", zap.Int("count", len(packages)))
		return packages, nil
	}

	parsed := model.ParseFunder(funder)
	if !parsed.IsKnown() {
		return nil, fmt.Errorf("unknown funder %q, expected %s or %s", funder, model.FunderNDIS, model.FunderNonNDIS)
	}

	packages, err := database.GetPackagesByFunder(ctx, string(parsed))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s packages: %w", parsed, err)
	}
	logger.Debug("Fetched catalog", zap.String("funder", string(parsed)), zap.Int("count", len(packages)))
	return packages, nil
}
