//go:build windows
// +build windows

package main

import (
	"bufio" // untuk interactive shell
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec" // jalankan ulang exe sendiri dengan argumen user
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/windows"

	"corp/OSharden/core"
)

const (
	toolName    = "OSharden"
	toolVersion = "1.2.0"
)

func main() {
	// ===== [Mode interaktif] =====
	// Jika double-click (tidak ada argumen), buka interactive shell.
	if len(os.Args) == 1 {
		startInteractiveShell()
		return
	}

	// ===== Flags =====
	shellFlag := flag.Bool("shell", false, "start interactive shell (banner + prompt)")
	levelFlag := flag.String("level", "moderate", "Enforcement level: none|low|moderate|high|all")
	enforceFlag := flag.Bool("enforce", false, "Apply mitigations (default: audit only, no system changes)")
	policiesFlag := flag.String("policies", "", "Comma-separated policy IDs to run (e.g. M-001,M-004). Empty = all.")
	enableFlag := flag.String("enable", "", "Comma-separated policy IDs to force-enable regardless of level")
	disableFlag := flag.String("disable", "", "Comma-separated policy IDs to force-disable regardless of level")
	configFlag := flag.String("config", "", "YAML run config (flags override file values)")
	pretty := flag.Bool("pretty", false, "Pretty-print JSON output")
	summary := flag.Bool("summary", false, "Print human-readable summary table to stderr")
	timeout := flag.Int("timeout", 45, "Global timeout in seconds")
	outputFile := flag.String("output", "", "Output report to JSON file (e.g. -output report.json)")
	flag.Parse()

	// Jika user minta shell lewat flag
	if *shellFlag {
		startInteractiveShell()
		return
	}

	// ===== Config file (optional) + merge dengan flags =====
	// Urutan: default < file < flag yang di-set eksplisit.
	level, err := core.ParseLevel(*levelFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	mode := core.ModeAudit
	if *enforceFlag {
		mode = core.ModeEnforce
	}
	filterIDs := splitIDs(*policiesFlag)
	enableIDs := splitIDs(*enableFlag)
	disableIDs := splitIDs(*disableFlag)
	timeoutSec := *timeout
	maxWorkers := 0 // 0 = default engine

	if *configFlag != "" {
		cfg, err := core.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if cfg.Level != nil && !flagWasSet("level") {
			level = *cfg.Level
		}
		if cfg.Enforce != nil && !flagWasSet("enforce") {
			if *cfg.Enforce {
				mode = core.ModeEnforce
			} else {
				mode = core.ModeAudit
			}
		}
		if cfg.TimeoutSeconds != nil && !flagWasSet("timeout") {
			timeoutSec = *cfg.TimeoutSeconds
		}
		if cfg.MaxWorkers != nil {
			maxWorkers = *cfg.MaxWorkers
		}
		if len(cfg.Policies) > 0 && len(filterIDs) == 0 {
			filterIDs = normalizeIDs(cfg.Policies)
		}
		enableIDs = append(normalizeIDs(cfg.Overrides.Enable), enableIDs...)
		disableIDs = append(normalizeIDs(cfg.Overrides.Disable), disableIDs...)
	}

	if mode == core.ModeEnforce {
		fmt.Fprintf(os.Stderr, "%s - enforcing mitigations at level %s...\n", toolName, level)
	} else {
		fmt.Fprintf(os.Stderr, "%s - auditing mitigations at level %s (no changes)...\n", toolName, level)
	}

	// ===== Rakit engine + katalog =====
	engine := core.NewEngine(core.EngineConfig{
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxWorkers: maxWorkers,
		Mode:       mode,
	})
	for _, p := range DefaultCatalog() {
		if err := engine.Register(p); err != nil {
			fmt.Fprintln(os.Stderr, "catalog error:", err)
			os.Exit(1)
		}
	}

	// ===== Jalankan: gate -> override -> eksekusi =====
	start := time.Now()
	results := engine.Run(context.Background(), core.RunOptions{
		Level:     level,
		FilterIDs: filterIDs,
		Enable:    enableIDs,
		Disable:   disableIDs,
	})

	// ===== Report =====
	meta := core.NewMetadata(toolName, toolVersion, mode, level)
	meta.Duration = time.Since(start).Round(time.Millisecond).String()
	meta.Hostname, _ = os.Hostname()
	meta.Username = currentUsername()
	meta.OS = osCaption()
	meta.IsAdmin = isElevated()

	report := core.GenerateReport(results, meta)

	// ===== Emit output =====
	var outputWriter *os.File
	var shouldCloseFile bool

	if *outputFile != "" {
		file, err := os.Create(*outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output file '%s': %v\n", *outputFile, err)
			os.Exit(1)
		}
		outputWriter = file
		shouldCloseFile = true
		fmt.Fprintf(os.Stderr, "Writing report to file: %s\n", *outputFile)
	} else {
		outputWriter = os.Stdout
		shouldCloseFile = false
	}

	if shouldCloseFile {
		defer func() {
			if err := outputWriter.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close output file: %v\n", err)
			}
		}()
	}

	if err := core.WriteJSON(outputWriter, report, *pretty); err != nil {
		fmt.Fprintln(os.Stderr, "failed to emit report:", err)
		os.Exit(1)
	}

	if *summary {
		core.PrintSummaryTable(report, os.Stderr)
	}

	if *outputFile != "" {
		fmt.Fprintf(os.Stderr, "Report successfully written to: %s\n", *outputFile)
	}

	// exit code 3 = drift / kegagalan enforcement, biar gampang dipakai
	// dari task scheduler / pipeline
	if report.Summary.Noncompliant > 0 || report.Summary.Failed > 0 || report.Summary.Errors > 0 {
		os.Exit(3)
	}
}

// flagWasSet: true bila user menyebut flag itu eksplisit di command line.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// splitIDs parse CSV policy id, normalisasi ke upper-case.
func splitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return normalizeIDs(strings.Split(s, ","))
}

func normalizeIDs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		id := strings.ToUpper(strings.TrimSpace(r))
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// currentUsername: DOMAIN\user kalau bisa, fallback env.
func currentUsername() string {
	if u := os.Getenv("USERDOMAIN"); u != "" {
		if n := os.Getenv("USERNAME"); n != "" {
			return u + `\` + n
		}
	}
	return os.Getenv("USERNAME")
}

// isElevated: apakah proses jalan dengan token elevated (admin).
func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

/* ======================= Interactive shell helpers ======================= */

// startInteractiveShell menampilkan banner & prompt, lalu menjalankan
// OSharden.exe sebagai subprocess dengan argumen yang diketik user.
func startInteractiveShell() {
	printBanner()

	exe, _ := os.Executable()
	exe = filepath.Clean(exe)
	rd := bufio.NewScanner(os.Stdin)

	fmt.Println("Type commands below (same as CLI flags). Examples:")
	fmt.Println("  -level low")
	fmt.Println("  -level moderate -enforce")
	fmt.Println("  -policies M-001,M-004 -pretty")
	fmt.Println("  -level high -disable M-007 -enforce -output report.json")
	fmt.Println("Built-ins: help, exit, quit")
	fmt.Println()

	for {
		fmt.Print("\x1b[38;2;0;255;204mOSHARDEN\x1b[0m> ")

		if !rd.Scan() {
			// EOF (Ctrl+Z / Ctrl+D) -> keluar
			fmt.Println()
			return
		}
		line := strings.TrimSpace(rd.Text())
		if line == "" {
			continue
		}

		// Built-in commands
		low := strings.ToLower(line)
		switch low {
		case "exit", "quit":
			return
		case "help", "-h", "--help":
			printHelp()
			continue
		}

		// Izinkan user ketik: "OSharden.exe -level ..." -> buang token pertama
		args := splitCommandLine(line)
		if len(args) > 0 {
			a0 := strings.ToLower(filepath.Base(args[0]))
			if a0 == "osharden" || a0 == "osharden.exe" {
				args = args[1:]
			}
		}
		if len(args) == 0 {
			continue
		}

		// Jalankan ulang executable sendiri dengan argumen user
		cmd := exec.Command(exe, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "[error] %v\n", err)
		}
		fmt.Println() // spasi antar-run
	}
}

// printBanner menampilkan ASCII logo sederhana
func printBanner() {
	const banner = `
   ____  _____ __  _____    ____  ____  _______   __
  / __ \/ ___// / / /   |  / __ \/ __ \/ ____/ | / /
 / / / /\__ \/ /_/ / /| | / /_/ / / / / __/ /  |/ /
/ /_/ /___/ / __  / ___ |/ _, _/ /_/ / /___/ /|  /
\____//____/_/ /_/_/  |_/_/ |_/_____/_____/_/ |_/

`

	fmt.Print(banner)
	fmt.Println(strings.Repeat("*", 70))
	fmt.Println("  OSHARDEN (defensive)              Windows mitigation engine")
	fmt.Println(strings.Repeat("*", 70))
}

// printHelp menjelaskan cara pakai dari dalam shell
func printHelp() {
	fmt.Println("Usage inside shell:")
	fmt.Println("  -level low|moderate|high|all     select enforcement level")
	fmt.Println("  -enforce                         apply changes (default: audit only)")
	fmt.Println("  -policies M-001,M-004            run only these policies")
	fmt.Println("  -enable M-009                    force a policy on regardless of level")
	fmt.Println("  -disable M-007                   force a policy off regardless of level")
	fmt.Println("  -config hardening.yaml           load run config from YAML")
	fmt.Println("Built-ins: help, exit, quit")
	fmt.Println("")
	fmt.Println("Output options:")
	fmt.Println("  -output [report.json]    Save report to JSON file (sorted by policy id)")
	fmt.Println("  -pretty                  Format JSON with indentation")
	fmt.Println("  -summary                 Print summary table to stderr")
	fmt.Println("  (no flags)               Display compact JSON to terminal")
}

// splitCommandLine memecah input menjadi argumen (mendukung kutip "…").
func splitCommandLine(s string) []string {
	args := []string{}
	cur := strings.Builder{}
	inQuote := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			inQuote = !inQuote
		case ' ', '\t':
			if inQuote {
				cur.WriteByte(c)
			} else if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args
}
