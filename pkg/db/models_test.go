package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

func TestFunderMatchKey_AgreesWithParseFunder(t *testing.T) {
	variants := map[model.Funder][]string{
		model.FunderNDIS:    {"NDIS", "ndis", " Ndis "},
		model.FunderNonNDIS: {"Non-NDIS", "non-ndis", "non_ndis", "nonndis", "NON_NDIS"},
	}

	for funder, spellings := range variants {
		for _, s := range spellings {
			assert.Equal(t, funder, model.ParseFunder(s), s)
			assert.Equal(t, FunderMatchKey(string(funder)), FunderMatchKey(s), s)
		}
	}

	assert.NotEqual(t, FunderMatchKey("NDIS"), FunderMatchKey("Non-NDIS"))
}
