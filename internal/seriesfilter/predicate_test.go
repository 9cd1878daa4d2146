package seriesfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPredicate(t *testing.T) {
	p := Default()

	tests := []struct {
		name        string
		description string
		number      string
		want        bool
	}{
		{"number wrong digit", "T1_MPRAGE", "3", false},
		{"number ends in one", "T2_FLAIR", "11", true},
		{"description without keyword", "LOCALIZER", "1", false},
		{"lowercase description matches", "ax t2 flair", "1", true},
		{"flair keyword", "SAG_FLAIR_3D", "21", true},
		{"empty number", "T1_MPRAGE", "", false},
		{"empty description", "", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.description, tt.number))
		})
	}
}

func TestCustomPredicate(t *testing.T) {
	p := Predicate{Digit: "2", Substrings: []string{"dwi"}}

	assert.True(t, p.Match("ep2d_DWI_b1000", "2"))
	assert.False(t, p.Match("ep2d_DWI_b1000", "1"))
	assert.False(t, p.Match("T2_TSE", "2"))
}
