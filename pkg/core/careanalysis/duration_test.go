package careanalysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"30 minutes", 0.5},
		{"90 Minutes", 1.5},
		{"45 mins", 0.75},
		{"1 hour", 1},
		{"2 hours", 2},
		{"1.5 hrs", 1.5},
		{"3h", 3},
		{"2", 2},
		{"0.25", 0.25},
		{"  4 hours  ", 4},
		{"", 0},
		{"a while", 0},
		{"about 2 hours", 0},
		{"2 days", 0},
		{"-1", 0},
		{"1 hour 30 minutes", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDuration(tt.input), 1e-9)
		})
	}
}
