package careanalysis

import (
	"slices"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// RecommendedPackages holds candidate package codes for both funding domains.
// Funder is usually unknown when care is analysed, so both lists are always filled.
type RecommendedPackages struct {
	NDIS    []string
	NonNDIS []string
}

// For returns the codes relevant to the given funder.
// An unknown funder gets both lists, NDIS first, without duplicates.
func (r RecommendedPackages) For(funder model.Funder) []string {
	switch funder {
	case model.FunderNDIS:
		return slices.Clone(r.NDIS)
	case model.FunderNonNDIS:
		return slices.Clone(r.NonNDIS)
	}

	combined := make([]string, 0, len(r.NDIS)+len(r.NonNDIS))
	for _, code := range append(slices.Clone(r.NDIS), r.NonNDIS...) {
		if !slices.Contains(combined, code) {
			combined = append(combined, code)
		}
	}
	return combined
}

// Recommendations is the static (fundingDomain, carePattern) → package codes table
type Recommendations struct {
	NDIS    map[model.CarePattern][]string
	NonNDIS map[model.CarePattern][]string
}

// DefaultRecommendations returns the built-in table
func DefaultRecommendations() Recommendations {
	return Recommendations{
		NDIS: map[model.CarePattern][]string{
			model.CarePatternNone:      {"HOL-NDIS", "STA-NDIS"},
			model.CarePatternMinimal:   {"HOLPLUS-NDIS", "STA-NDIS"},
			model.CarePatternModerate:  {"STA-NDIS", "HOLPLUS-NDIS"},
			model.CarePatternHigh:      {"STA-HC-NDIS"},
			model.CarePatternIntensive: {"STA-IC-NDIS"},
		},
		NonNDIS: map[model.CarePattern][]string{
			model.CarePatternNone:      {"WS-STD"},
			model.CarePatternMinimal:   {"WS-CARE"},
			model.CarePatternModerate:  {"WS-CARE"},
			model.CarePatternHigh:      {"WS-HC"},
			model.CarePatternIntensive: {"WS-IC"},
		},
	}
}

// WithOverrides replaces individual patterns of the table; patterns not overridden keep their defaults
func (r Recommendations) WithOverrides(ndis, nonNDIS map[model.CarePattern][]string) Recommendations {
	merged := Recommendations{
		NDIS:    make(map[model.CarePattern][]string, len(r.NDIS)),
		NonNDIS: make(map[model.CarePattern][]string, len(r.NonNDIS)),
	}
	for pattern, codes := range r.NDIS {
		merged.NDIS[pattern] = slices.Clone(codes)
	}
	for pattern, codes := range r.NonNDIS {
		merged.NonNDIS[pattern] = slices.Clone(codes)
	}
	for pattern, codes := range ndis {
		merged.NDIS[pattern] = slices.Clone(codes)
	}
	for pattern, codes := range nonNDIS {
		merged.NonNDIS[pattern] = slices.Clone(codes)
	}
	return merged
}

// Lookup returns copies of both candidate lists for a pattern
func (r Recommendations) Lookup(pattern model.CarePattern) RecommendedPackages {
	return RecommendedPackages{
		NDIS:    slices.Clone(r.NDIS[pattern]),
		NonNDIS: slices.Clone(r.NonNDIS[pattern]),
	}
}
