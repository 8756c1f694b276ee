package square

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	cases := map[string]Square{
		"A1": {File: 0, Rank: 0},
		"H8": {File: 7, Rank: 7},
		"E4": {File: 4, Rank: 3},
		"D1": {File: 3, Rank: 0},
	}
	for name, want := range cases {
		got := Parse(name)
		require.True(t, got.Valid(), "expected %q to parse", name)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}
}

func TestParseInvalid(t *testing.T) {
	for _, name := range []string{"", "A", "A9", "I1", "a1", "11", "A0", "ZZZ"} {
		got := Parse(name)
		assert.False(t, got.Valid(), "expected %q to be invalid, got %+v", name, got)
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 1.0, Distance(Parse("A1"), Parse("A2")))
	assert.Equal(t, 0.0, Distance(Parse("A1"), Parse("A1")))
	assert.InDelta(t, 1.4142135, Distance(Parse("A1"), Parse("B2")), 1e-6)
}

func TestColorOpposite(t *testing.T) {
	assert.Equal(t, Black, White.Opposite())
	assert.Equal(t, White, Black.Opposite())
}
