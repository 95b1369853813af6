package core

// MitigationPolicy adalah kontrak seragam untuk satu unit hardening.
// Setiap policy merepresentasikan SATU perubahan konfigurasi (registry value,
// start type service, audit subcategory, dst) yang bisa di-apply dan
// diverifikasi secara independen.
//
// Kontrak operasi:
//   - Enforce harus idempotent: kalau sistem sudah sesuai, no-op dan tetap
//     return true. Return false = perubahan gagal diterapkan (akses ditolak,
//     OS tidak support, API error) — bukan panic/fatal, karena scan atas
//     banyak policy independen harus jalan terus.
//   - MatchesSystem read-only, tanpa efek samping, aman dipanggil kapan pun
//     (termasuk sebelum Enforce pernah dipanggil). false = sistem belum
//     sesuai ATAU state tidak bisa dibaca; dua-duanya berarti "belum
//     compliant sekarang".
type MitigationPolicy interface {
	// Enforce menerapkan perubahan ke sistem. true iff setelah call
	// sistem berada di desired state.
	Enforce() bool

	// MatchesSystem mengecek apakah state sistem saat ini sudah sesuai
	// policy, terlepas dari flag isEnforced.
	MatchesSystem() bool

	PolicyID() string
	PolicyName() string

	// Description mengembalikan penjelasan opsional. ok=false artinya
	// policy memang tidak punya deskripsi (beda dengan string kosong).
	Description() (desc string, ok bool)

	Category() string

	IsEnforced() bool

	// SetEnforced adalah override manual: set flag tanpa peduli level.
	SetEnforced(enforced bool)

	// SetEnforcedByLevel adalah jalur gate: isEnforced = level >= minimum
	// level policy. Dipanggil sekali per scan untuk semua unit, SEBELUM
	// override manual apapun (lihat Engine.Run).
	SetEnforcedByLevel(level EnforcementLevel)

	// EnforcementLevel mengembalikan minimum level yang di-declare saat
	// konstruksi; tidak pernah berubah selama lifetime unit.
	EnforcementLevel() EnforcementLevel
}

// BasePolicy menyimpan bookkeeping yang sama untuk semua policy: identitas,
// deskripsi opsional, minimum level (immutable), dan flag isEnforced
// (mutable). Concrete policy meng-embed BasePolicy dan tinggal
// mengimplementasikan Enforce + MatchesSystem.
//
// BasePolicy sendiri bukan policy utuh — tanpa Enforce/MatchesSystem dia
// tidak memenuhi interface MitigationPolicy.
type BasePolicy struct {
	id          string
	name        string
	description string
	hasDesc     bool
	category    string
	level       EnforcementLevel
	isEnforced  bool
}

// NewBasePolicy membuat bookkeeping untuk sebuah policy. id dan name wajib
// non-empty: policy tanpa identitas merusak katalog & report, jadi fail fast.
func NewBasePolicy(id, name string, level EnforcementLevel) BasePolicy {
	if id == "" {
		panic("core: mitigation policy id must not be empty")
	}
	if name == "" {
		panic("core: mitigation policy name must not be empty")
	}
	return BasePolicy{id: id, name: name, level: level}
}

// NewBasePolicyWithDescription sama seperti NewBasePolicy plus deskripsi.
// Deskripsi disimpan eksplisit sebagai "ada", termasuk string kosong —
// absent dan empty adalah dua hal berbeda.
func NewBasePolicyWithDescription(id, name string, level EnforcementLevel, description string) BasePolicy {
	p := NewBasePolicy(id, name, level)
	p.description = description
	p.hasDesc = true
	return p
}

func (p *BasePolicy) PolicyID() string   { return p.id }
func (p *BasePolicy) PolicyName() string { return p.name }

func (p *BasePolicy) Description() (string, bool) {
	return p.description, p.hasDesc
}

// Category default kosong; concrete policy yang peduli kategori
// (privilege_escalation, credential_access, ...) meng-override lewat
// SetCategory di konstruksinya.
func (p *BasePolicy) Category() string { return p.category }

// SetCategory dipanggil dari konstruktor concrete policy, bukan dari driver.
func (p *BasePolicy) SetCategory(c string) { p.category = c }

func (p *BasePolicy) IsEnforced() bool { return p.isEnforced }

func (p *BasePolicy) SetEnforced(enforced bool) { p.isEnforced = enforced }

func (p *BasePolicy) SetEnforcedByLevel(level EnforcementLevel) {
	p.isEnforced = level.Covers(p.level)
}

func (p *BasePolicy) EnforcementLevel() EnforcementLevel { return p.level }
