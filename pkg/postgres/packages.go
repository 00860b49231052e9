package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/stay-packages/pkg/db"
)

const selectPackages = `
	SELECT p.id::text, p.package_code, p.name, p.funder, p.match_score,
		r.package_id IS NOT NULL,
		r.requires_no_care, r.care_hours_min, r.care_hours_max,
		r.requires_course, r.compatible_with_course, r.sta_requirements::text
	FROM package p
	LEFT JOIN package_requirement r ON r.package_id = p.id
`

// GetPackages retrieves the whole catalog with each package's requirement
func (d *DB) GetPackages(ctx context.Context) ([]db.Package, error) {
	return d.queryPackages(ctx, selectPackages+` ORDER BY p.package_code`)
}

// GetPackagesByFunder retrieves the packages offered to one funder, whichever spelling of it is stored
func (d *DB) GetPackagesByFunder(ctx context.Context, funder string) ([]db.Package, error) {
	return d.queryPackages(ctx, selectPackages+` WHERE `+db.FunderMatchSQL+` = $1 ORDER BY p.package_code`,
		db.FunderMatchKey(funder))
}

func (d *DB) queryPackages(ctx context.Context, query string, args ...any) ([]db.Package, error) {
	rows, err := d.pool.Query(ctx, query, args...)
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
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO package (id, package_code, name, funder, match_score)
		VALUES ($1, $2, $3, $4, $5)
	`, pkg.ID, pkg.PackageCode, pkg.Name, pkg.Funder, pkg.MatchScore)
	if err != nil {
		return fmt.Errorf("failed to insert package: %w", err)
	}

	if r := pkg.Requirement; r != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO package_requirement (package_id, requires_no_care, care_hours_min, care_hours_max,
				requires_course, compatible_with_course, sta_requirements)
			VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
		`, pkg.ID, r.RequiresNoCare, r.CareHoursMin, r.CareHoursMax,
			r.RequiresCourse, r.CompatibleWithCourse, r.STARequirements)
		if err != nil {
			return fmt.Errorf("failed to insert package requirement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit package: %w", err)
	}
	return nil
}
