//go:build windows
// +build windows

package main

import (
	"strconv"
	"sync"

	"github.com/yusufpapurcu/wmi"
)

// wmi class: Win32_OperatingSystem (subset yang kita butuhkan)
type wmiOS struct {
	Caption     *string // mis. "Microsoft Windows 11 Pro"
	Version     *string // mis. "10.0.26100"
	BuildNumber *string // mis. "26100"
}

var (
	osInfoOnce sync.Once
	osInfoRow  wmiOS
)

func queryOSInfo() wmiOS {
	osInfoOnce.Do(func() {
		var rows []wmiOS
		// bila query gagal, row kosong → build 0 (policy ber-minBuild
		// akan menganggap host tidak didukung)
		_ = wmi.QueryNamespace(
			`SELECT Caption,Version,BuildNumber FROM Win32_OperatingSystem`,
			&rows, `root\cimv2`,
		)
		if len(rows) > 0 {
			osInfoRow = rows[0]
		}
	})
	return osInfoRow
}

// osBuildNumber mengembalikan build number Windows (0 bila tidak terbaca).
func osBuildNumber() int {
	row := queryOSInfo()
	n, err := strconv.Atoi(safeS(row.BuildNumber))
	if err != nil {
		return 0
	}
	return n
}

// osCaption untuk metadata report ("Microsoft Windows 11 Pro (build 26100)").
func osCaption() string {
	row := queryOSInfo()
	caption := safeS(row.Caption)
	if b := safeS(row.BuildNumber); b != "" {
		return caption + " (build " + b + ")"
	}
	return caption
}
