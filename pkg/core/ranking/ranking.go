package ranking

import (
	"math"
	"slices"
	"sort"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// RankedPackage is an eligible package with the flags that decided its position
type RankedPackage struct {
	model.Package

	// IsRecommended is true when the package code is in the care analysis recommendations
	IsRecommended bool

	// ExactNoCareMatch is true when the guest needs no care and the package requires no care
	ExactNoCareMatch bool
}

// Rank orders eligible packages from best to worst match. The input is not modified.
//
// Sort keys, in order:
//  1. With no care hours, packages that require no care come first
//  2. Recommended packages come before the rest
//  3. Higher match score first; packages with a score come before those without
//  4. Name ascending
func Rank(packages []model.Package, criteria *model.EligibilityCriteria, recommended []string) []RankedPackage {
	ranked := make([]RankedPackage, len(packages))
	for i, pkg := range packages {
		ranked[i] = RankedPackage{
			Package:       pkg,
			IsRecommended: slices.Contains(recommended, pkg.PackageCode),
			ExactNoCareMatch: criteria.CareHours == 0 &&
				pkg.Requirement != nil &&
				pkg.Requirement.RequiresNoCare == model.Required,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(&ranked[i], &ranked[j])
	})

	return ranked
}

func less(a, b *RankedPackage) bool {
	if a.ExactNoCareMatch != b.ExactNoCareMatch {
		return a.ExactNoCareMatch
	}
	if a.IsRecommended != b.IsRecommended {
		return a.IsRecommended
	}
	if cmp, decided := compareScores(a.MatchScore, b.MatchScore); decided {
		return cmp
	}
	return a.Name < b.Name
}

// compareScores reports whether score a ranks above b, and whether the scores decide the order at all.
// A NaN score counts as no score.
func compareScores(a, b *float64) (bool, bool) {
	a, b = usableScore(a), usableScore(b)
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return false, true
	case b == nil:
		return true, true
	case *a == *b:
		return false, false
	default:
		return *a > *b, true
	}
}

func usableScore(s *float64) *float64 {
	if s == nil || math.IsNaN(*s) {
		return nil
	}
	return s
}

// IDs returns the package ids in ranked order
func IDs(ranked []RankedPackage) []string {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	return ids
}
