//go:build windows
// +build windows

package main

import (
	"encoding/csv"
	"os/exec"
	"strings"

	"corp/OSharden/core"
)

/*
   =========================
   AuditPolicy: policy kind untuk audit subcategory
   - Windows tidak punya API publik yang enak untuk audit policy,
     jadi pakai auditpol.exe (set + get /r dalam format CSV)
   - MatchesSystem: auditpol /get /subcategory:"X" /r → kolom
     "Inclusion Setting"
   - Enforce: auditpol /set /subcategory:"X" /success:... /failure:...
   =========================
*/

// AuditPolicy adalah MitigationPolicy untuk satu audit subcategory.
type AuditPolicy struct {
	core.BasePolicy
	subcategory string
	success     bool
	failure     bool
}

// NewAuditPolicy merakit policy audit.
func NewAuditPolicy(base core.BasePolicy, subcategory string, success, failure bool) *AuditPolicy {
	return &AuditPolicy{BasePolicy: base, subcategory: subcategory, success: success, failure: failure}
}

// inclusionWanted: representasi auditpol untuk kombinasi success/failure.
func (p *AuditPolicy) inclusionWanted() string {
	switch {
	case p.success && p.failure:
		return "Success and Failure"
	case p.success:
		return "Success"
	case p.failure:
		return "Failure"
	default:
		return "No Auditing"
	}
}

// MatchesSystem membaca setting saat ini lewat `auditpol /get ... /r`.
func (p *AuditPolicy) MatchesSystem() bool {
	out, err := exec.Command("auditpol", "/get",
		"/subcategory:"+p.subcategory, "/r").Output()
	if err != nil {
		return false // auditpol butuh admin / tidak ada: tidak terverifikasi
	}

	// Format /r: CSV dengan header; kolom terakhir-1 = Inclusion Setting.
	// Machine Name,Policy Target,Subcategory,Subcategory GUID,Inclusion Setting,Exclusion Setting
	r := csv.NewReader(strings.NewReader(string(out)))
	r.FieldsPerRecord = -1 // baris kosong/pendek jangan bikin error
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 {
		return false
	}
	for _, row := range rows[1:] { // skip header
		if len(row) < 5 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[2]), p.subcategory) {
			return strings.EqualFold(strings.TrimSpace(row[4]), p.inclusionWanted())
		}
	}
	return false
}

// Enforce men-set audit subcategory lalu verifikasi ulang lewat /get.
func (p *AuditPolicy) Enforce() bool {
	onOff := func(b bool) string {
		if b {
			return "enable"
		}
		return "disable"
	}
	err := exec.Command("auditpol", "/set",
		"/subcategory:"+p.subcategory,
		"/success:"+onOff(p.success),
		"/failure:"+onOff(p.failure)).Run()
	if err != nil {
		return false
	}
	return p.MatchesSystem()
}
