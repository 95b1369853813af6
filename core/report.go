package core

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RunReport adalah laporan lengkap satu run (audit maupun enforce).
type RunReport struct {
	Metadata Metadata       `json:"metadata"`
	Summary  Summary        `json:"summary"`
	Results  []PolicyResult `json:"results"`
}

// Metadata informasi run
type Metadata struct {
	Tool     string           `json:"tool"`
	Version  string           `json:"version"`
	RunID    string           `json:"run_id"`
	Mode     RunMode          `json:"mode"`
	Level    EnforcementLevel `json:"level"`
	RunTime  time.Time        `json:"run_time"`
	Duration string           `json:"duration"`
	Hostname string           `json:"hostname,omitempty"`
	Username string           `json:"username,omitempty"`
	OS       string           `json:"os,omitempty"`
	IsAdmin  bool             `json:"is_admin"`
}

// NewMetadata mengisi identitas run; run_id unik per eksekusi supaya report
// yang disimpan berdampingan bisa dibedakan.
func NewMetadata(tool, version string, mode RunMode, level EnforcementLevel) Metadata {
	return Metadata{
		Tool:    tool,
		Version: version,
		RunID:   uuid.NewString(),
		Mode:    mode,
		Level:   level,
		RunTime: time.Now(),
	}
}

// Summary ringkasan hasil run
type Summary struct {
	TotalPolicies int            `json:"total_policies"`
	Compliant     int            `json:"compliant"`
	Enforced      int            `json:"enforced"`
	Noncompliant  int            `json:"noncompliant"`
	Failed        int            `json:"failed"`
	Skipped       int            `json:"skipped"`
	Errors        int            `json:"errors"`
	ByLevel       map[string]int `json:"by_level"`
	ByCategory    map[string]int `json:"by_category"`
}

// GenerateReport membuat laporan dari hasil run
func GenerateReport(results []PolicyResult, metadata Metadata) RunReport {
	summary := Summary{
		TotalPolicies: len(results),
		ByLevel:       make(map[string]int),
		ByCategory:    make(map[string]int),
	}

	for _, r := range results {
		switch r.Status {
		case StatusCompliant:
			summary.Compliant++
		case StatusEnforced:
			summary.Enforced++
		case StatusNoncompliant:
			summary.Noncompliant++
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		case StatusError:
			summary.Errors++
		}

		// ByLevel/ByCategory hanya menghitung policy yang butuh perhatian
		// (belum sesuai atau gagal), bukan yang sudah beres.
		if r.Status == StatusNoncompliant || r.Status == StatusFailed {
			summary.ByLevel[r.MinimumLevel.String()]++
			if r.Category != "" {
				summary.ByCategory[r.Category]++
			}
		}
	}

	// Sort results by PolicyID
	sort.Slice(results, func(i, j int) bool {
		return results[i].PolicyID < results[j].PolicyID
	})

	return RunReport{
		Metadata: metadata,
		Summary:  summary,
		Results:  results,
	}
}

// WriteJSON menulis report ke JSON
func WriteJSON(w io.Writer, report RunReport, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if pretty {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(report)
}

// PrintSummaryTable mencetak tabel ringkasan ke terminal (user-friendly)
func PrintSummaryTable(report RunReport, w io.Writer) {
	fmt.Fprintln(w, "\n"+Colorize("═══════════════════════════════════════════════════════════", ColorCyan))
	fmt.Fprintln(w, Colorize("                    HARDENING SUMMARY", ColorCyan))
	fmt.Fprintln(w, Colorize("═══════════════════════════════════════════════════════════", ColorCyan))

	fmt.Fprintf(w, "\n%-25s: %s\n", "Run Time", report.Metadata.RunTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "%-25s: %s\n", "Duration", report.Metadata.Duration)
	fmt.Fprintf(w, "%-25s: %s\n", "Mode", report.Metadata.Mode)
	fmt.Fprintf(w, "%-25s: %s\n", "Enforcement Level", report.Metadata.Level)
	fmt.Fprintf(w, "%-25s: %s\n", "Hostname", report.Metadata.Hostname)
	fmt.Fprintf(w, "%-25s: %s\n", "User", report.Metadata.Username)
	fmt.Fprintf(w, "%-25s: %v\n", "Admin Privileges", report.Metadata.IsAdmin)

	fmt.Fprintln(w, "\n"+Colorize("───────────────────────────────────────────────────────────", ColorGray))
	fmt.Fprintln(w, Colorize("  Policy Results", ColorCyan))
	fmt.Fprintln(w, Colorize("───────────────────────────────────────────────────────────", ColorGray))

	fmt.Fprintf(w, "  %-20s: %d\n", "Total Policies", report.Summary.TotalPolicies)
	fmt.Fprintf(w, "  %-20s: %s\n", "Compliant", Colorize(fmt.Sprintf("%d", report.Summary.Compliant), ColorGreen))
	fmt.Fprintf(w, "  %-20s: %s\n", "Enforced", Colorize(fmt.Sprintf("%d", report.Summary.Enforced), ColorGreen))
	fmt.Fprintf(w, "  %-20s: %s\n", "Noncompliant", Colorize(fmt.Sprintf("%d", report.Summary.Noncompliant), ColorYellow))
	fmt.Fprintf(w, "  %-20s: %s\n", "Failed", Colorize(fmt.Sprintf("%d", report.Summary.Failed), ColorRed))
	fmt.Fprintf(w, "  %-20s: %d\n", "Skipped", report.Summary.Skipped)
	fmt.Fprintf(w, "  %-20s: %d\n", "Errors", report.Summary.Errors)

	if len(report.Summary.ByLevel) > 0 {
		fmt.Fprintln(w, "\n"+Colorize("───────────────────────────────────────────────────────────", ColorGray))
		fmt.Fprintln(w, Colorize("  Outstanding by Minimum Level", ColorCyan))
		fmt.Fprintln(w, Colorize("───────────────────────────────────────────────────────────", ColorGray))

		levelOrder := []string{"low", "moderate", "high"}
		for _, lvl := range levelOrder {
			if count, ok := report.Summary.ByLevel[lvl]; ok && count > 0 {
				fmt.Fprintf(w, "  %-20s: %d\n", lvl, count)
			}
		}
	}

	if len(report.Summary.ByCategory) > 0 {
		fmt.Fprintln(w, "\n"+Colorize("───────────────────────────────────────────────────────────", ColorGray))
		fmt.Fprintln(w, Colorize("  Outstanding by Category", ColorCyan))
		fmt.Fprintln(w, Colorize("───────────────────────────────────────────────────────────", ColorGray))

		for cat, count := range report.Summary.ByCategory {
			fmt.Fprintf(w, "  %-30s: %d\n", cat, count)
		}
	}

	fmt.Fprintln(w, "\n"+Colorize("═══════════════════════════════════════════════════════════", ColorCyan))
}
