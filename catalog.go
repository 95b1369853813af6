//go:build windows
// +build windows

package main

import (
	"golang.org/x/sys/windows/registry"
	"golang.org/x/sys/windows/svc/mgr"

	"corp/OSharden/core"
)

/*
   =========================
   Katalog mitigasi default (M-001 .. M-013)
   - Satu factory per mitigasi, dirangkai DefaultCatalog()
   - Mitigasi baru: tambah factory + daftarkan di DefaultCatalog,
     pakai policy kind yang sudah ada (RegistryPolicy / ServicePolicy /
     AuditPolicy) bila memungkinkan
   =========================
*/

// path registry yang dipakai beberapa mitigasi
const (
	pInstaller    = `SOFTWARE\Policies\Microsoft\Windows\Installer`
	pUACSystem    = `SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\System`
	pLsa          = `SYSTEM\CurrentControlSet\Control\Lsa`
	pWDigest      = `SYSTEM\CurrentControlSet\Control\SecurityProviders\WDigest`
	pLanmanServer = `SYSTEM\CurrentControlSet\Services\LanmanServer\Parameters`
	pLanmanWks    = `SYSTEM\CurrentControlSet\Services\LanmanWorkstation\Parameters`
	pRDPTcp       = `SYSTEM\CurrentControlSet\Control\Terminal Server\WinStations\RDP-Tcp`
	pMrxSmb10     = `SYSTEM\CurrentControlSet\Services\mrxsmb10`
	pExplorerPol  = `SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\Explorer`
	pScriptBlock  = `SOFTWARE\Policies\Microsoft\Windows\PowerShell\ScriptBlockLogging`
	pWinlogon     = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Winlogon`
)

// DefaultCatalog merakit seluruh mitigasi bawaan, urut berdasarkan id.
func DefaultCatalog() []core.MitigationPolicy {
	return []core.MitigationPolicy{
		NewAlwaysInstallElevatedPolicy(),
		NewUACPolicy(),
		NewLSAProtectionPolicy(),
		NewAnonymousPipesPolicy(),
		NewRDPNLAPolicy(),
		NewSMB1Policy(),
		NewSMBSigningPolicy(),
		NewWDigestPolicy(),
		NewRemoteRegistryPolicy(),
		NewAutoRunPolicy(),
		NewScriptBlockLoggingPolicy(),
		NewLogonAuditPolicy(),
		NewAutoAdminLogonPolicy(),
	}
}

// M-001: AlwaysInstallElevated membuat MSI jalan sebagai SYSTEM untuk user
// biasa — matikan di HKLM dan HKCU sekaligus (dua-duanya harus 0).
func NewAlwaysInstallElevatedPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-001", "Disable AlwaysInstallElevated", core.LevelLow,
		"MSI packages must not install with SYSTEM privileges for unprivileged users.")
	base.SetCategory("privilege_escalation")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pInstaller, "AlwaysInstallElevated", 0),
		DWORDValue(registry.CURRENT_USER, pInstaller, "AlwaysInstallElevated", 0),
	)
}

// M-002: UAC harus aktif dan prompt di secure desktop.
func NewUACPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-002", "Enable UAC", core.LevelLow,
		"User Account Control must be on (EnableLUA=1) and prompt on the secure desktop.")
	base.SetCategory("defense_evasion")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pUACSystem, "EnableLUA", 1),
		DWORDValue(registry.LOCAL_MACHINE, pUACSystem, "PromptOnSecureDesktop", 1),
	)
}

// M-003: RunAsPPL memproteksi LSASS dari credential dumping.
// Hanya berlaku di build 9600+ (Win 8.1 / Server 2012 R2 ke atas).
func NewLSAProtectionPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-003", "Enable LSA Protection", core.LevelModerate,
		"Run LSASS as a protected process (RunAsPPL=1) to block credential dumping tooling.")
	base.SetCategory("credential_access")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pLsa, "RunAsPPL", 1),
	).RequireBuild(9600)
}

// M-004: named pipe / share anonim adalah jalur lateral movement klasik.
func NewAnonymousPipesPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-004", "Disable Anonymous Named Pipes", core.LevelModerate,
		"Null-session access to named pipes and shares must be off and both lists empty.")
	base.SetCategory("lateral_movement")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pLanmanServer, "RestrictNullSessAccess", 1),
		EmptyMultiSZValue(registry.LOCAL_MACHINE, pLanmanServer, "NullSessionPipes"),
		EmptyMultiSZValue(registry.LOCAL_MACHINE, pLanmanServer, "NullSessionShares"),
	)
}

// M-005: RDP tanpa NLA menerima koneksi sebelum autentikasi.
func NewRDPNLAPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-005", "Require RDP Network Level Authentication", core.LevelModerate,
		"RDP sessions must authenticate before connecting (UserAuthentication=1, SecurityLayer=2/TLS).")
	base.SetCategory("lateral_movement")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pRDPTcp, "UserAuthentication", 1),
		DWORDValue(registry.LOCAL_MACHINE, pRDPTcp, "SecurityLayer", 2),
	)
}

// M-006: SMBv1 (EternalBlue dkk). Matikan di server + driver client.
// Start=4 pada mrxsmb10 = StartDisabled; cukup lewat registry, tidak perlu
// SCM karena driver boot-time tidak bisa di-stop runtime.
func NewSMB1Policy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-006", "Disable SMBv1", core.LevelLow,
		"SMBv1 server and client driver must be disabled.")
	base.SetCategory("lateral_movement")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pLanmanServer, "SMB1", 0),
		DWORDValue(registry.LOCAL_MACHINE, pMrxSmb10, "Start", 4),
	)
}

// M-007: SMB signing wajib dua arah. High: bisa mengganggu device legacy.
func NewSMBSigningPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-007", "Require SMB Signing", core.LevelHigh,
		"Both SMB server and workstation must require security signatures (relay mitigation).")
	base.SetCategory("lateral_movement")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pLanmanServer, "RequireSecuritySignature", 1),
		DWORDValue(registry.LOCAL_MACHINE, pLanmanWks, "RequireSecuritySignature", 1),
	)
}

// M-008: WDigest menyimpan kredensial plaintext di memori kalau aktif.
func NewWDigestPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-008", "Disable WDigest Credential Caching", core.LevelLow,
		"WDigest must not keep logon credentials in memory (UseLogonCredential=0).")
	base.SetCategory("credential_access")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pWDigest, "UseLogonCredential", 0),
	)
}

// M-009: RemoteRegistry memberi akses registry dari jarak jauh; host yang
// tidak dikelola lewat itu sebaiknya mematikannya. High: beberapa tooling
// manajemen masih memakainya.
func NewRemoteRegistryPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-009", "Disable RemoteRegistry Service", core.LevelHigh,
		"The RemoteRegistry service must be stopped and its start type set to disabled.")
	base.SetCategory("lateral_movement")
	return NewServicePolicy(base, "RemoteRegistry", mgr.StartDisabled, true)
}

// M-010: AutoRun dari media lepasan.
func NewAutoRunPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-010", "Disable AutoRun", core.LevelLow,
		"AutoRun must be off for all drive types (NoDriveTypeAutoRun=0xFF).")
	base.SetCategory("persistence")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pExplorerPol, "NoDriveTypeAutoRun", 0xFF),
		DWORDValue(registry.LOCAL_MACHINE, pExplorerPol, "NoAutorun", 1),
	)
}

// M-011: script block logging merekam PowerShell yang benar-benar dieksekusi
// (termasuk yang di-obfuscate).
func NewScriptBlockLoggingPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-011", "Enable PowerShell Script Block Logging", core.LevelModerate,
		"PowerShell script block logging must be enabled for post-incident visibility.")
	base.SetCategory("configuration")
	return NewRegistryPolicy(base,
		DWORDValue(registry.LOCAL_MACHINE, pScriptBlock, "EnableScriptBlockLogging", 1),
	)
}

// M-012: audit logon success+failure, prasyarat deteksi brute force /
// lateral movement di event log.
func NewLogonAuditPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-012", "Audit Logon Events", core.LevelHigh,
		"The Logon audit subcategory must record both success and failure.")
	base.SetCategory("configuration")
	return NewAuditPolicy(base, "Logon", true, true)
}

// M-013: autologon menaruh kredensial di Winlogon dan membuat mesin login
// sendiri tanpa autentikasi. AutoAdminLogon adalah REG_SZ, bukan DWORD.
func NewAutoAdminLogonPolicy() core.MitigationPolicy {
	base := core.NewBasePolicyWithDescription(
		"M-013", "Disable Automatic Logon", core.LevelLow,
		"Winlogon AutoAdminLogon must be \"0\"; automatic logon stores credentials in the registry.")
	base.SetCategory("credential_access")
	return NewRegistryPolicy(base,
		StringValue(registry.LOCAL_MACHINE, pWinlogon, "AutoAdminLogon", "0"),
	)
}
