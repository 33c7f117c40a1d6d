package cpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandIPv4SplitsByOriginalLength(t *testing.T) {
	prefixes := []Prefix4{
		{Key: 0x0A000000, Length: 8, NextHop: 1},  // 10.0.0.0/8 -> dla
		{Key: 0xC0A80000, Length: 22, NextHop: 2}, // -> dla (<=20? no, 22>20 -> g1)
		{Key: 0xC0A80000, Length: 24, NextHop: 3}, // -> g1 exactly
		{Key: 0x08080800, Length: 28, NextHop: 4}, // -> g2
		{Key: 0, Length: 0, NextHop: 9},           // default route
	}

	dla, g1, g2, def := ExpandIPv4(prefixes, 20, 24)

	require.NotEmpty(t, dla)
	for _, p := range dla {
		assert.EqualValues(t, 20, p.Length)
	}

	require.NotEmpty(t, g1)
	for _, p := range g1 {
		assert.EqualValues(t, 24, p.Length)
	}

	require.NotEmpty(t, g2)
	for _, p := range g2 {
		assert.EqualValues(t, 32, p.Length)
	}

	require.Len(t, def, 1)
	assert.EqualValues(t, 9, def[0].NextHop)
}

func TestExpandIPv4CountMatches2ToTheK(t *testing.T) {
	prefixes := []Prefix4{{Key: 0x0A000000, Length: 8, NextHop: 1}}
	dla, _, _, _ := ExpandIPv4(prefixes, 20, 24)
	assert.Len(t, dla, 1<<(20-8))
}

func TestExpandIPv4LongerPrefixWins(t *testing.T) {
	prefixes := []Prefix4{
		{Key: 0x0A000000, Length: 8, NextHop: 1},
		{Key: 0x0A0A0000, Length: 16, NextHop: 2},
	}
	dla, _, _, _ := ExpandIPv4(prefixes, 20, 24)

	target := uint32(0x0A0A0000) >> (32 - 20)
	var got uint64
	var found bool
	for _, p := range dla {
		if p.Key == target {
			got, found = p.NextHop, true
		}
	}
	require.True(t, found)
	assert.EqualValues(t, 2, got)
}

func TestDistributionCountsByLength(t *testing.T) {
	prefixes := []Prefix4{
		{Key: 1, Length: 24},
		{Key: 2, Length: 24},
		{Key: 3, Length: 32},
	}
	dist := Distribution(prefixes)

	counts := map[uint8]uint32{}
	for _, d := range dist {
		counts[d.Length] = d.Count
	}
	assert.Equal(t, uint32(2), counts[24])
	assert.Equal(t, uint32(1), counts[32])
}
