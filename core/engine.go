package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunMode menentukan aksi engine terhadap policy yang aktif.
type RunMode string

const (
	// ModeAudit hanya memanggil MatchesSystem (tidak ada perubahan sistem).
	ModeAudit RunMode = "audit"
	// ModeEnforce memanggil MatchesSystem, lalu Enforce bila belum sesuai,
	// lalu verifikasi ulang.
	ModeEnforce RunMode = "enforce"
)

// Status hasil per policy.
const (
	StatusCompliant    = "compliant"    // sudah sesuai sebelum apa-apa
	StatusEnforced     = "enforced"     // baru diterapkan dan terverifikasi
	StatusNoncompliant = "noncompliant" // audit mode: belum sesuai
	StatusFailed       = "failed"       // Enforce gagal / verifikasi gagal
	StatusSkipped      = "skipped"      // tidak aktif (gate/override/filter)
	StatusError        = "error"        // panic / timeout di dalam policy
)

// PolicyResult adalah hasil eksekusi satu policy.
type PolicyResult struct {
	PolicyID      string           `json:"policy_id"`
	PolicyName    string           `json:"policy_name"`
	Category      string           `json:"category,omitempty"`
	Description   string           `json:"description,omitempty"`
	MinimumLevel  EnforcementLevel `json:"minimum_level"`
	Enforced      bool             `json:"enforced"` // flag isEnforced saat run
	Status        string           `json:"status"`
	MatchedBefore bool             `json:"matched_before"`
	MatchedAfter  bool             `json:"matched_after"`
	Error         string           `json:"error,omitempty"`
	Duration      time.Duration    `json:"duration"`
	StartTime     time.Time        `json:"-"`
}

// EngineConfig untuk engine.
type EngineConfig struct {
	Timeout    time.Duration
	MaxWorkers int
	Mode       RunMode
}

// Engine adalah orchestrator utama: memegang katalog policy, menerapkan
// gate level + override, lalu menjalankan unit yang aktif.
//
// Protokol urutan (WAJIB, tidak dijaga oleh unit itu sendiri): Run memanggil
// SetEnforcedByLevel untuk SEMUA unit dulu (default dari level global), baru
// override eksplisit (disable dulu, lalu enable). Gate tidak pernah
// dipanggil lagi setelah override, jadi override selalu menang sampai run
// berikutnya. Memanggil SetEnforcedByLevel secara manual setelah override
// akan menimpa override tersebut — driver lain yang memakai unit langsung
// harus menjaga disiplin urutan yang sama.
type Engine struct {
	policies []MitigationPolicy
	byID     map[string]MitigationPolicy
	config   EngineConfig
	progress *ProgressReporter
	mu       sync.Mutex
}

// NewEngine membuat engine baru dengan default yang masuk akal.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeAudit
	}

	return &Engine{
		policies: make([]MitigationPolicy, 0),
		byID:     make(map[string]MitigationPolicy),
		config:   cfg,
		progress: NewProgressReporter(),
	}
}

// Register menambahkan policy ke katalog. ID harus unik — katalog dirakit
// runtime dari config, jadi duplikat dilaporkan sebagai error, bukan panic.
func (e *Engine) Register(p MitigationPolicy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := p.PolicyID()
	if _, dup := e.byID[id]; dup {
		return fmt.Errorf("duplicate policy id %q (already registered as %q)", id, e.byID[id].PolicyName())
	}
	e.byID[id] = p
	e.policies = append(e.policies, p)
	return nil
}

// RunOptions adalah keputusan operator untuk satu run.
type RunOptions struct {
	Level     EnforcementLevel
	FilterIDs []string // kosong = semua policy di katalog
	Enable    []string // override: paksa aktif, apapun levelnya
	Disable   []string // override: paksa non-aktif
}

// Run menjalankan satu scan: gate → override → eksekusi paralel terbatas.
// Policy yang tidak aktif tetap muncul di hasil dengan status skipped,
// supaya report selalu utuh.
func (e *Engine) Run(ctx context.Context, opts RunOptions) []PolicyResult {
	selected := e.filterPolicies(opts.FilterIDs)
	if len(selected) == 0 {
		return []PolicyResult{}
	}

	// (1) Gate: default isEnforced dari level global, untuk SEMUA unit.
	for _, p := range selected {
		p.SetEnforcedByLevel(opts.Level)
	}

	// (2) Override eksplisit. Disable dulu baru enable: kalau operator
	// menyebut id yang sama di dua daftar, enable yang menang.
	for _, id := range opts.Disable {
		if p, ok := e.byID[id]; ok {
			p.SetEnforced(false)
		}
	}
	for _, id := range opts.Enable {
		if p, ok := e.byID[id]; ok {
			p.SetEnforced(true)
		}
	}

	// (3) Pisahkan aktif vs skipped.
	active := make([]MitigationPolicy, 0, len(selected))
	results := make([]PolicyResult, 0, len(selected))
	for _, p := range selected {
		if p.IsEnforced() {
			active = append(active, p)
			continue
		}
		r := newResult(p)
		r.Status = StatusSkipped
		results = append(results, r)
	}

	if len(active) == 0 {
		return results
	}

	e.progress.SetTotal(len(active))
	e.progress.Start()
	defer e.progress.Stop()

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	resultsCh := make(chan PolicyResult, len(active))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.config.MaxWorkers)

	for _, p := range active {
		p := p
		eg.Go(func() error {
			resultsCh <- e.runSinglePolicy(ctx, p)
			return nil
		})
	}

	_ = eg.Wait()
	close(resultsCh)

	for r := range resultsCh {
		results = append(results, r)
		e.progress.Increment(r.PolicyID, r.Status)
	}

	return results
}

// runSinglePolicy mengeksekusi satu policy aktif dengan panic recovery.
// Satu policy yang meledak tidak boleh menghentikan sisanya.
func (e *Engine) runSinglePolicy(ctx context.Context, p MitigationPolicy) (result PolicyResult) {
	result = newResult(p)

	defer func() {
		if r := recover(); r != nil {
			result.Status = StatusError
			result.Error = fmt.Sprintf("panic: %v", r)
			result.Duration = time.Since(result.StartTime)
		}
	}()

	select {
	case <-ctx.Done():
		result.Status = StatusError
		result.Error = "context cancelled or timeout"
		result.Duration = time.Since(result.StartTime)
		return result
	default:
	}

	result.MatchedBefore = p.MatchesSystem()

	switch {
	case result.MatchedBefore:
		// Sudah sesuai — di kedua mode tidak ada yang perlu diubah.
		result.MatchedAfter = true
		result.Status = StatusCompliant

	case e.config.Mode == ModeAudit:
		result.Status = StatusNoncompliant

	default: // ModeEnforce
		if !p.Enforce() {
			result.Status = StatusFailed
			result.Error = "enforce reported failure"
			break
		}
		// Verifikasi ulang: Enforce true tapi MatchesSystem false berarti
		// policy-nya sendiri inkonsisten; laporkan sebagai failed.
		result.MatchedAfter = p.MatchesSystem()
		if result.MatchedAfter {
			result.Status = StatusEnforced
		} else {
			result.Status = StatusFailed
			result.Error = "post-enforce verification failed"
		}
	}

	result.Duration = time.Since(result.StartTime)
	return result
}

// filterPolicies memfilter katalog berdasarkan ID (kosong = semua).
func (e *Engine) filterPolicies(ids []string) []MitigationPolicy {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(ids) == 0 {
		out := make([]MitigationPolicy, len(e.policies))
		copy(out, e.policies)
		return out
	}

	idMap := make(map[string]bool, len(ids))
	for _, id := range ids {
		idMap[id] = true
	}

	filtered := make([]MitigationPolicy, 0, len(ids))
	for _, p := range e.policies {
		if idMap[p.PolicyID()] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func newResult(p MitigationPolicy) PolicyResult {
	r := PolicyResult{
		PolicyID:     p.PolicyID(),
		PolicyName:   p.PolicyName(),
		Category:     p.Category(),
		MinimumLevel: p.EnforcementLevel(),
		Enforced:     p.IsEnforced(),
		StartTime:    time.Now(),
	}
	if desc, ok := p.Description(); ok {
		r.Description = desc
	}
	return r
}
