package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFragment(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"empty", "", "", false},
		{"plain", "#/dashboard", "#/dashboard", false},
		{"encoded", "#%2Fdashboard%3Fday%3D3", "#/dashboard?day=3", true},
		{"encoded hash", "%23%2Fdashboard", "#/dashboard", true},
		{"malformed", "#%zz", "#%zz", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := DecodeFragment(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.changed, changed)
		})
	}
}

func TestNormalizeLocationNilIsNoop(t *testing.T) {
	assert.False(t, NormalizeLocation(nil))
}

func TestURLLocationReplace(t *testing.T) {
	loc, err := NewURLLocation("https://covid.example/app#%2Fdashboard%3Fday%3D3")
	require.NoError(t, err)

	require.True(t, NormalizeLocation(loc))
	assert.Equal(t, "https://covid.example/app#/dashboard?day=3", loc.String())
	assert.False(t, NormalizeLocation(loc))

	loc.Replace("")
	assert.Equal(t, "", loc.Hash())
}
