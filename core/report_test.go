package core

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateReportCounts(t *testing.T) {
	results := []PolicyResult{
		{PolicyID: "M-003", Status: StatusCompliant, MinimumLevel: LevelModerate},
		{PolicyID: "M-001", Status: StatusEnforced, MinimumLevel: LevelLow},
		{PolicyID: "M-004", Status: StatusNoncompliant, MinimumLevel: LevelModerate, Category: "lateral_movement"},
		{PolicyID: "M-007", Status: StatusFailed, MinimumLevel: LevelHigh, Category: "lateral_movement"},
		{PolicyID: "M-009", Status: StatusSkipped, MinimumLevel: LevelHigh},
		{PolicyID: "M-002", Status: StatusError, MinimumLevel: LevelLow},
	}

	report := GenerateReport(results, NewMetadata("OSharden", "test", ModeEnforce, LevelModerate))

	require.Equal(t, 6, report.Summary.TotalPolicies)
	require.Equal(t, 1, report.Summary.Compliant)
	require.Equal(t, 1, report.Summary.Enforced)
	require.Equal(t, 1, report.Summary.Noncompliant)
	require.Equal(t, 1, report.Summary.Failed)
	require.Equal(t, 1, report.Summary.Skipped)
	require.Equal(t, 1, report.Summary.Errors)

	// hanya yang outstanding (noncompliant/failed) yang dihitung per level
	require.Equal(t, 1, report.Summary.ByLevel["moderate"])
	require.Equal(t, 1, report.Summary.ByLevel["high"])
	require.Zero(t, report.Summary.ByLevel["low"])
	require.Equal(t, 2, report.Summary.ByCategory["lateral_movement"])

	// hasil terurut policy id
	for i := 1; i < len(report.Results); i++ {
		require.Less(t, report.Results[i-1].PolicyID, report.Results[i].PolicyID)
	}
}

func TestMetadataHasUniqueRunID(t *testing.T) {
	a := NewMetadata("OSharden", "test", ModeAudit, LevelLow)
	b := NewMetadata("OSharden", "test", ModeAudit, LevelLow)
	require.NotEmpty(t, a.RunID)
	require.NotEqual(t, a.RunID, b.RunID)
}

func TestWriteJSONLevelAsString(t *testing.T) {
	report := GenerateReport(
		[]PolicyResult{{PolicyID: "M-001", Status: StatusSkipped, MinimumLevel: LevelHigh}},
		NewMetadata("OSharden", "test", ModeAudit, LevelModerate),
	)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report, false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	meta := decoded["metadata"].(map[string]any)
	require.Equal(t, "moderate", meta["level"])

	rows := decoded["results"].([]any)
	first := rows[0].(map[string]any)
	require.Equal(t, "high", first["minimum_level"])
}

func TestPrintSummaryTableSmoke(t *testing.T) {
	report := GenerateReport(
		[]PolicyResult{
			{PolicyID: "M-004", Status: StatusNoncompliant, MinimumLevel: LevelModerate, Category: "lateral_movement"},
		},
		NewMetadata("OSharden", "test", ModeAudit, LevelModerate),
	)

	var buf bytes.Buffer
	PrintSummaryTable(report, &buf)
	out := buf.String()
	require.Contains(t, out, "HARDENING SUMMARY")
	require.Contains(t, out, "Noncompliant")
	require.Contains(t, out, "lateral_movement")
}
