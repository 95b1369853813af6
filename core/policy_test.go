package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessorsStableAcrossSetEnforced(t *testing.T) {
	p := newFakePolicy("M-101", "Disable Thing", LevelHigh)

	p.SetEnforcedByLevel(LevelAll)
	p.SetEnforced(false)
	p.SetEnforcedByLevel(LevelNone)
	p.SetEnforced(true)

	require.Equal(t, "M-101", p.PolicyID())
	require.Equal(t, "Disable Thing", p.PolicyName())
	require.Equal(t, LevelHigh, p.EnforcementLevel())
}

func TestOverrideWinsOverLastGateCall(t *testing.T) {
	p := newFakePolicy("M-102", "probe", LevelLow)

	p.SetEnforcedByLevel(LevelAll)
	require.True(t, p.IsEnforced())

	p.SetEnforced(false)
	require.False(t, p.IsEnforced())

	p.SetEnforcedByLevel(LevelNone)
	p.SetEnforced(true)
	require.True(t, p.IsEnforced())
}

// Skenario dari katalog: unit Moderate di bawah gate Low/Moderate, lalu
// override off yang bertahan tanpa gate call baru.
func TestAnonymousPipesScenario(t *testing.T) {
	p := newFakePolicy("M-004", "Disable Anonymous Pipes", LevelModerate)

	p.SetEnforcedByLevel(LevelLow)
	require.False(t, p.IsEnforced())

	p.SetEnforcedByLevel(LevelModerate)
	require.True(t, p.IsEnforced())

	p.SetEnforced(false)
	require.False(t, p.IsEnforced(), "override must stand until a fresh gate call")
}

func TestDescriptionPresentVsAbsent(t *testing.T) {
	abs := NewBasePolicy("M-103", "no desc", LevelLow)
	_, ok := abs.Description()
	require.False(t, ok)

	// string kosong yang DIBERIKAN tetap dihitung "ada"
	empty := NewBasePolicyWithDescription("M-104", "empty desc", LevelLow, "")
	d, ok := empty.Description()
	require.True(t, ok)
	require.Equal(t, "", d)

	full := NewBasePolicyWithDescription("M-105", "full", LevelLow, "why this matters")
	d, ok = full.Description()
	require.True(t, ok)
	require.Equal(t, "why this matters", d)
}

func TestConstructionRejectsEmptyIdentity(t *testing.T) {
	require.Panics(t, func() { NewBasePolicy("", "name", LevelLow) })
	require.Panics(t, func() { NewBasePolicy("M-106", "", LevelLow) })
}

func TestIsEnforcedDefaultsFalse(t *testing.T) {
	p := NewBasePolicy("M-107", "fresh", LevelLow)
	require.False(t, p.IsEnforced(), "flag must be a concrete false before any gate call")
}
