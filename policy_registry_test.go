//go:build windows
// +build windows

package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows/registry"

	"corp/OSharden/core"
)

// tempKeyPath membuat path key uji unik di HKCU (tidak butuh admin) dan
// membereskannya setelah test.
func tempKeyPath(t *testing.T) string {
	t.Helper()
	path := fmt.Sprintf(`Software\OShardenTest\%s-%d`, t.Name(), time.Now().UnixNano())
	t.Cleanup(func() {
		_ = registry.DeleteKey(registry.CURRENT_USER, path)
		_ = registry.DeleteKey(registry.CURRENT_USER, `Software\OShardenTest`)
	})
	return path
}

func TestRegistryPolicyEnforceRoundTrip(t *testing.T) {
	path := tempKeyPath(t)

	p := NewRegistryPolicy(
		core.NewBasePolicy("M-901", "test dword policy", core.LevelLow),
		DWORDValue(registry.CURRENT_USER, path, "Hardened", 1),
	)

	// key belum ada → belum sesuai
	require.False(t, p.MatchesSystem())

	require.True(t, p.Enforce())
	require.True(t, p.MatchesSystem())

	// idempotent: panggilan kedua no-op dan tetap sukses
	require.True(t, p.Enforce())
	require.True(t, p.MatchesSystem())

	cur, _, err := func() (uint64, uint32, error) {
		k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE)
		if err != nil {
			return 0, 0, err
		}
		defer k.Close()
		return k.GetIntegerValue("Hardened")
	}()
	require.NoError(t, err)
	require.EqualValues(t, 1, cur)
}

func TestRegistryPolicyDetectsDrift(t *testing.T) {
	path := tempKeyPath(t)

	p := NewRegistryPolicy(
		core.NewBasePolicy("M-902", "drift policy", core.LevelLow),
		DWORDValue(registry.CURRENT_USER, path, "Hardened", 1),
	)
	require.True(t, p.Enforce())

	// simulasi drift: nilai diubah pihak lain
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	require.NoError(t, err)
	require.NoError(t, k.SetDWordValue("Hardened", 0))
	k.Close()

	require.False(t, p.MatchesSystem())
	require.True(t, p.Enforce())
	require.True(t, p.MatchesSystem())
}

func TestRegistryPolicyEmptyMultiSZ(t *testing.T) {
	path := tempKeyPath(t)

	p := NewRegistryPolicy(
		core.NewBasePolicy("M-903", "multi-sz policy", core.LevelLow),
		EmptyMultiSZValue(registry.CURRENT_USER, path, "NullSessionPipes"),
	)

	// absen dianggap kosong
	require.True(t, p.MatchesSystem())

	// isi daftar pipe → jadi tidak sesuai
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	require.NoError(t, err)
	require.NoError(t, k.SetStringsValue("NullSessionPipes", []string{"netlogon", "browser"}))
	k.Close()
	require.False(t, p.MatchesSystem())

	// enforce mengosongkan daftar
	require.True(t, p.Enforce())
	require.True(t, p.MatchesSystem())
}

func TestRegistryPolicyUnsupportedBuild(t *testing.T) {
	path := tempKeyPath(t)

	p := NewRegistryPolicy(
		core.NewBasePolicy("M-904", "future policy", core.LevelLow),
		DWORDValue(registry.CURRENT_USER, path, "Hardened", 1),
	).RequireBuild(1 << 30) // build yang tidak mungkin ada

	// host tidak didukung: dua-duanya false, tanpa menyentuh sistem
	require.False(t, p.MatchesSystem())
	require.False(t, p.Enforce())

	_, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE)
	require.Error(t, err, "unsupported policy must not create keys")
}

func TestDefaultCatalogIsWellFormed(t *testing.T) {
	catalog := DefaultCatalog()
	require.NotEmpty(t, catalog)

	seen := make(map[string]bool)
	for _, p := range catalog {
		id := p.PolicyID()
		require.False(t, seen[id], "duplicate policy id %s", id)
		seen[id] = true
		require.NotEmpty(t, p.PolicyName())
		_, ok := p.Description()
		require.True(t, ok, "%s: catalog entries ship with a rationale", id)
		require.False(t, p.IsEnforced(), "%s: fresh unit must start disabled", id)
	}
}
