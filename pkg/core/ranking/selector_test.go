package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

func rankedOf(ids ...string) []RankedPackage {
	ranked := make([]RankedPackage, len(ids))
	for i, id := range ids {
		ranked[i] = RankedPackage{Package: model.Package{ID: id, Name: id}}
	}
	return ranked
}

func TestSelect_SingleSurvivorIsAutoSelected(t *testing.T) {
	criteria := &model.EligibilityCriteria{FunderType: model.FunderNonNDIS}

	decision := NewSelector(ModeSingle).Select(SelectionState{}, criteria, rankedOf("A"), 2)

	assert.Equal(t, "A", decision.State.SelectedPackageID)
	assert.True(t, decision.State.AutoSelected)
	assert.Equal(t, criteria.Key(), decision.State.CriteriaKey)
	assert.True(t, decision.Changed)
	assert.Nil(t, decision.NoMatch)
}

func TestSelect_MultipleSurvivorsNeedAChoice(t *testing.T) {
	criteria := &model.EligibilityCriteria{}

	decision := NewSelector(ModeSingle).Select(SelectionState{}, criteria, rankedOf("A", "B"), 2)

	assert.False(t, decision.State.HasSelection())
	assert.False(t, decision.State.AutoSelected)
	assert.Len(t, decision.Visible, 2)
}

func TestSelect_ExistingSelectionIsKept(t *testing.T) {
	criteria := &model.EligibilityCriteria{CareHours: 3}
	state := SelectionState{SelectedPackageID: "B", CriteriaKey: criteria.Key()}

	decision := NewSelector(ModeSingle).Select(state, criteria, rankedOf("B"), 4)

	assert.Equal(t, state, decision.State)
	assert.False(t, decision.Changed)
}

func TestSelect_BestMatchPicksTopAndHidesRest(t *testing.T) {
	criteria := &model.EligibilityCriteria{FunderType: model.FunderNDIS}

	decision := NewSelector(ModeBestMatch).Select(SelectionState{}, criteria, rankedOf("top", "second", "third"), 3)

	assert.Equal(t, "top", decision.State.SelectedPackageID)
	assert.True(t, decision.State.AutoSelected)
	assert.Equal(t, []string{"top"}, IDs(decision.Visible))
}

func TestSelect_MaterialChangeResetsAutoSelection(t *testing.T) {
	before := &model.EligibilityCriteria{FunderType: model.FunderNDIS, NDISPackageType: model.NDISPackageSTA}
	after := &model.EligibilityCriteria{FunderType: model.FunderNDIS, NDISPackageType: model.NDISPackageHoliday}
	selector := NewSelector(ModeSingle)

	first := selector.Select(SelectionState{}, before, rankedOf("sta"), 5)
	require.True(t, first.State.AutoSelected)

	second := selector.Select(first.State, after, rankedOf("sta", "holiday"), 5)

	assert.False(t, second.State.HasSelection())
	assert.False(t, second.State.AutoSelected)
	assert.Equal(t, after.Key(), second.State.CriteriaKey)
	assert.True(t, second.Changed)
}

func TestSelect_StaleSelectionIsCleared(t *testing.T) {
	criteria := &model.EligibilityCriteria{CareHours: 2}
	state := SelectionState{SelectedPackageID: "gone", CriteriaKey: criteria.Key()}

	decision := NewSelector(ModeSingle).Select(state, criteria, rankedOf("A", "B"), 3)

	assert.False(t, decision.State.HasSelection())
	assert.True(t, decision.Changed)
}

func TestSelect_IsIdempotent(t *testing.T) {
	criteria := &model.EligibilityCriteria{FunderType: model.FunderNDIS, CareHours: 8, HasCourse: true}

	for _, mode := range []Mode{ModeSingle, ModeBestMatch} {
		selector := NewSelector(mode)
		for _, ranked := range [][]RankedPackage{rankedOf("A"), rankedOf("A", "B"), nil} {
			first := selector.Select(SelectionState{}, criteria, ranked, 3)
			second := selector.Select(first.State, criteria, ranked, 3)

			assert.Equal(t, first.State, second.State, "mode %s", mode)
			assert.Equal(t, first.Visible, second.Visible, "mode %s", mode)
			assert.Equal(t, first.NoMatch, second.NoMatch, "mode %s", mode)
			assert.False(t, second.Changed, "mode %s", mode)
		}
	}
}

func TestSelect_NoEligiblePackages(t *testing.T) {
	criteria := &model.EligibilityCriteria{FunderType: model.FunderNDIS, CareHours: 6, CourseOffered: true}

	decision := NewSelector(ModeSingle).Select(SelectionState{}, criteria, nil, 4)

	require.NotNil(t, decision.NoMatch)
	assert.Equal(t, model.CarePatternModerate, decision.NoMatch.CarePattern)
	assert.True(t, decision.NoMatch.HasCourse)
	assert.False(t, decision.NoMatch.CatalogEmpty)
	assert.Equal(t, "No packages match a NDIS stay for a guest with moderate-care needs (with a course).",
		decision.NoMatch.Message())
	assert.False(t, decision.State.HasSelection())
}

func TestSelect_EmptyCatalog(t *testing.T) {
	decision := NewSelector(ModeBestMatch).Select(SelectionState{}, &model.EligibilityCriteria{}, nil, 0)

	require.NotNil(t, decision.NoMatch)
	assert.True(t, decision.NoMatch.CatalogEmpty)
	assert.Equal(t, "No packages are currently available.", decision.NoMatch.Message())
}

func TestMode_IsValid(t *testing.T) {
	assert.True(t, ModeSingle.IsValid())
	assert.True(t, ModeBestMatch.IsValid())
	assert.False(t, Mode("first").IsValid())
}
