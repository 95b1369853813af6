package core

import (
	"fmt"
	"strings"
)

// EnforcementLevel adalah tingkat agresivitas hardening. Urutannya total:
// None < Low < Moderate < High < All. Perbandingan >= dipakai untuk gating.
type EnforcementLevel int

const (
	LevelNone     EnforcementLevel = 0 // tidak ada policy yang aktif by default
	LevelLow      EnforcementLevel = 1 // perubahan aman, minim efek samping
	LevelModerate EnforcementLevel = 2
	LevelHigh     EnforcementLevel = 3 // bisa mengganggu aplikasi legacy
	LevelAll      EnforcementLevel = 4 // aktifkan semuanya, apapun level policy
)

// String mengembalikan nama level huruf kecil (dipakai di JSON & CLI).
func (l EnforcementLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelLow:
		return "low"
	case LevelModerate:
		return "moderate"
	case LevelHigh:
		return "high"
	case LevelAll:
		return "all"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// Covers menjawab: kalau operator memilih level l, apakah policy dengan
// minimum level min ikut aktif? (aturan gate: l >= min)
func (l EnforcementLevel) Covers(min EnforcementLevel) bool {
	return l >= min
}

// ParseLevel mem-parse nama level dari CLI/config (case-insensitive).
func ParseLevel(s string) (EnforcementLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return LevelNone, nil
	case "low":
		return LevelLow, nil
	case "moderate":
		return LevelModerate, nil
	case "high":
		return LevelHigh, nil
	case "all":
		return LevelAll, nil
	default:
		return LevelNone, fmt.Errorf("unknown enforcement level %q (want none|low|moderate|high|all)", s)
	}
}

// MarshalText supaya level tampil sebagai string di JSON report.
func (l EnforcementLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText dipakai yaml/json config.
func (l *EnforcementLevel) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
