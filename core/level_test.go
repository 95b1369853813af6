package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelOrderingTotal(t *testing.T) {
	levels := []EnforcementLevel{LevelNone, LevelLow, LevelModerate, LevelHigh, LevelAll}
	for i := 1; i < len(levels); i++ {
		require.Less(t, int(levels[i-1]), int(levels[i]))
	}
}

func TestCovers(t *testing.T) {
	require.True(t, LevelModerate.Covers(LevelModerate))
	require.True(t, LevelHigh.Covers(LevelModerate))
	require.True(t, LevelAll.Covers(LevelHigh))
	require.False(t, LevelLow.Covers(LevelModerate))
	require.False(t, LevelNone.Covers(LevelLow))

	// All menyalakan semuanya, None tidak menyalakan apa pun
	for _, min := range []EnforcementLevel{LevelNone, LevelLow, LevelModerate, LevelHigh, LevelAll} {
		require.True(t, LevelAll.Covers(min))
		if min > LevelNone {
			require.False(t, LevelNone.Covers(min))
		}
	}
}

// Monotonicity: kalau gate di L1 menyalakan unit, gate di L2 >= L1 juga.
func TestGateMonotonic(t *testing.T) {
	levels := []EnforcementLevel{LevelNone, LevelLow, LevelModerate, LevelHigh, LevelAll}
	for _, min := range levels {
		p := newFakePolicy("M-900", "probe", min)
		for i, l1 := range levels {
			for _, l2 := range levels[i:] { // l2 >= l1
				p.SetEnforcedByLevel(l1)
				if !p.IsEnforced() {
					continue
				}
				p.SetEnforcedByLevel(l2)
				require.True(t, p.IsEnforced(),
					"min=%s: enabled at %s but not at higher %s", min, l1, l2)
			}
		}
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]EnforcementLevel{
		"none": LevelNone, "low": LevelLow, "moderate": LevelModerate,
		"high": LevelHigh, "all": LevelAll,
		"  HIGH ": LevelHigh, "Moderate": LevelModerate,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ParseLevel("extreme")
	require.Error(t, err)
	_, err = ParseLevel("")
	require.Error(t, err)
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "moderate", LevelModerate.String())
	require.Equal(t, "all", LevelAll.String())

	// round-trip lewat text marshalling (dipakai di JSON report)
	b, err := LevelHigh.MarshalText()
	require.NoError(t, err)
	var l EnforcementLevel
	require.NoError(t, l.UnmarshalText(b))
	require.Equal(t, LevelHigh, l)
}
