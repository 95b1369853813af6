//go:build windows
// +build windows

package main

// safeS: deref *string -> "" jika nil (baris WMI memakai field pointer)
func safeS(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
