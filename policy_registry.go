//go:build windows
// +build windows

package main

import (
	"golang.org/x/sys/windows/registry"

	"corp/OSharden/core"
)

/*
   =========================
   RegistryPolicy: policy kind untuk nilai registry
   - Satu policy = daftar nilai yang diinginkan (DWORD, SZ, atau
     MULTI_SZ yang harus kosong)
   - MatchesSystem: buka key QUERY_VALUE, bandingkan semua nilai
   - Enforce: CreateKey + SET_VALUE, tulis nilai yang belum sesuai
   =========================
*/

type valueKind int

const (
	kindDWORD        valueKind = iota // nilai DWORD harus persis
	kindString                        // nilai REG_SZ harus persis
	kindEmptyMultiSZ                  // MULTI_SZ harus kosong/absen
)

// DesiredValue adalah satu nilai registry yang diinginkan policy.
type DesiredValue struct {
	Root  registry.Key // registry.LOCAL_MACHINE / registry.CURRENT_USER
	Path  string       // path key di bawah root
	Name  string       // nama value
	Kind  valueKind
	DWORD uint32 // dipakai kindDWORD
	Str   string // dipakai kindString
}

// DWORDValue membuat DesiredValue DWORD (bentuk yang paling umum).
func DWORDValue(root registry.Key, path, name string, want uint32) DesiredValue {
	return DesiredValue{Root: root, Path: path, Name: name, Kind: kindDWORD, DWORD: want}
}

// StringValue membuat DesiredValue REG_SZ.
func StringValue(root registry.Key, path, name, want string) DesiredValue {
	return DesiredValue{Root: root, Path: path, Name: name, Kind: kindString, Str: want}
}

// EmptyMultiSZValue: MULTI_SZ yang harus kosong (absen juga dianggap kosong).
func EmptyMultiSZValue(root registry.Key, path, name string) DesiredValue {
	return DesiredValue{Root: root, Path: path, Name: name, Kind: kindEmptyMultiSZ}
}

// matches mengecek satu nilai terhadap sistem (read-only).
func (v DesiredValue) matches() bool {
	k, err := registry.OpenKey(v.Root, v.Path, registry.QUERY_VALUE)
	if err != nil {
		// key tidak ada: MULTI_SZ kosong terpenuhi, sisanya tidak
		return v.Kind == kindEmptyMultiSZ
	}
	defer k.Close()

	switch v.Kind {
	case kindDWORD:
		cur, _, err := k.GetIntegerValue(v.Name)
		return err == nil && uint32(cur) == v.DWORD
	case kindString:
		cur, _, err := k.GetStringValue(v.Name)
		return err == nil && cur == v.Str
	case kindEmptyMultiSZ:
		vals, _, err := k.GetStringsValue(v.Name)
		if err != nil {
			return true // value absen = kosong
		}
		for _, s := range vals {
			if s != "" {
				return false
			}
		}
		return true
	}
	return false
}

// apply menulis satu nilai ke sistem. Key yang belum ada dibuat dulu.
func (v DesiredValue) apply() error {
	k, _, err := registry.CreateKey(v.Root, v.Path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	switch v.Kind {
	case kindDWORD:
		return k.SetDWordValue(v.Name, v.DWORD)
	case kindString:
		return k.SetStringValue(v.Name, v.Str)
	case kindEmptyMultiSZ:
		return k.SetStringsValue(v.Name, nil)
	}
	return nil
}

// RegistryPolicy adalah MitigationPolicy berbasis nilai registry.
type RegistryPolicy struct {
	core.BasePolicy
	values []DesiredValue

	// minBuild > 0 = policy hanya berlaku mulai build Windows tertentu
	// (mis. RunAsPPL butuh 9600+). Di bawahnya, Enforce dan MatchesSystem
	// sama-sama return false: "tidak bisa dipenuhi di host ini".
	minBuild int
}

// NewRegistryPolicy merakit policy registry dari bookkeeping + nilai-nilai.
func NewRegistryPolicy(base core.BasePolicy, values ...DesiredValue) *RegistryPolicy {
	return &RegistryPolicy{BasePolicy: base, values: values}
}

// RequireBuild menandai build minimum Windows untuk policy ini.
func (p *RegistryPolicy) RequireBuild(build int) *RegistryPolicy {
	p.minBuild = build
	return p
}

func (p *RegistryPolicy) supported() bool {
	return p.minBuild <= 0 || osBuildNumber() >= p.minBuild
}

// MatchesSystem: true iff semua nilai yang diinginkan sudah terpasang.
func (p *RegistryPolicy) MatchesSystem() bool {
	if !p.supported() {
		return false
	}
	for _, v := range p.values {
		if !v.matches() {
			return false
		}
	}
	return true
}

// Enforce menulis nilai yang belum sesuai. Idempotent: nilai yang sudah
// benar dilewati. true iff setelah call semua nilai terpasang.
func (p *RegistryPolicy) Enforce() bool {
	if !p.supported() {
		return false
	}
	for _, v := range p.values {
		if v.matches() {
			continue
		}
		if err := v.apply(); err != nil {
			return false // akses ditolak / hive read-only; lapor, jangan panic
		}
	}
	return p.MatchesSystem()
}
