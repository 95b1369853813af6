//go:build windows
// +build windows

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"corp/OSharden/core"
)

/*
   =========================
   ServicePolicy: policy kind untuk state service Windows
   - Desired state = start type (umumnya Disabled) + opsi stop bila
     sedang jalan
   - MatchesSystem: query Win32_Service lewat WMI (read-only, tanpa
     handle SCM)
   - Enforce: SCM via svc/mgr — UpdateConfig + Control(Stop)
   - Service yang tidak terpasang dianggap compliant: tidak ada yang
     perlu dimatikan
   =========================
*/

// wmi class: Win32_Service (subset)
type wmiService struct {
	Name      *string
	StartMode *string // "Auto" | "Manual" | "Disabled" | "Boot" | "System"
	State     *string // "Running" | "Stopped" | ...
}

// ServicePolicy adalah MitigationPolicy untuk satu service.
type ServicePolicy struct {
	core.BasePolicy
	service   string
	startType uint32 // mgr.StartDisabled / mgr.StartManual / mgr.StartAutomatic
	stop      bool   // true = service juga harus berhenti
}

// NewServicePolicy merakit policy service.
func NewServicePolicy(base core.BasePolicy, service string, startType uint32, stop bool) *ServicePolicy {
	return &ServicePolicy{BasePolicy: base, service: service, startType: startType, stop: stop}
}

// startModeWanted memetakan start type SCM ke string StartMode milik WMI.
func (p *ServicePolicy) startModeWanted() string {
	switch p.startType {
	case mgr.StartDisabled:
		return "Disabled"
	case mgr.StartManual:
		return "Manual"
	case mgr.StartAutomatic:
		return "Auto"
	default:
		return ""
	}
}

// MatchesSystem membaca state service dari WMI tanpa menyentuh SCM.
func (p *ServicePolicy) MatchesSystem() bool {
	var rows []wmiService
	q := fmt.Sprintf("SELECT Name,StartMode,State FROM Win32_Service WHERE Name='%s'", p.service)
	if err := wmi.QueryNamespace(q, &rows, `root\cimv2`); err != nil {
		return false // WMI mati = state tidak bisa diverifikasi sekarang
	}
	if len(rows) == 0 {
		return true // service tidak terpasang
	}

	row := rows[0]
	if !strings.EqualFold(safeS(row.StartMode), p.startModeWanted()) {
		return false
	}
	if p.stop && !strings.EqualFold(safeS(row.State), "Stopped") {
		return false
	}
	return true
}

// Enforce mengubah start type dan (opsional) menghentikan service.
// Idempotent: bagian yang sudah sesuai tidak disentuh.
func (p *ServicePolicy) Enforce() bool {
	m, err := mgr.Connect()
	if err != nil {
		return false // butuh admin; lapor gagal, scan lanjut
	}
	defer m.Disconnect()

	s, err := m.OpenService(p.service)
	if err != nil {
		// tidak terpasang = tidak ada yang di-enforce
		return true
	}
	defer s.Close()

	cfg, err := s.Config()
	if err != nil {
		return false
	}
	if cfg.StartType != p.startType {
		cfg.StartType = p.startType
		if err := s.UpdateConfig(cfg); err != nil {
			return false
		}
	}

	if p.stop {
		status, err := s.Query()
		if err != nil {
			return false
		}
		if status.State != svc.Stopped {
			if _, err := s.Control(svc.Stop); err != nil {
				return false
			}
			// tunggu sebentar sampai benar-benar berhenti
			deadline := time.Now().Add(10 * time.Second)
			for status.State != svc.Stopped {
				if time.Now().After(deadline) {
					return false
				}
				time.Sleep(300 * time.Millisecond)
				if status, err = s.Query(); err != nil {
					return false
				}
			}
		}
	}

	return true
}
