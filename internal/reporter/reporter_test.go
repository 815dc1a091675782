package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/audit"
	"rj-nightaudit-service/internal/sd"
	"rj-nightaudit-service/internal/validator"
)

func createTestResult() *audit.Result {
	checks := []validator.BalanceCheck{
		{Label: "GEAC Visa card", Cell: "geac!E13", Actual: decimal.Zero, Severity: validator.SeverityOK},
		{Label: "Transelect master balance", Cell: "transelect!X20", Actual: decimal.NewFromFloat(5.25),
			Severity: validator.SeverityWarning, Detail: "minor discrepancy, review the terminal rows"},
		{Label: "Recap final balance", Cell: "recap!D23", Actual: decimal.NewFromInt(-120),
			Severity: validator.SeverityError},
	}
	return &audit.Result{
		CellsLoaded:        42,
		FormulasApplied:    31,
		Checks:             checks,
		CrossCheckWarnings: []string{"Row 10 (B): should be the sum of rows 6-9 (expected 100, got 90)"},
		Summary:            validator.Summarize(checks),
		MasterBalance:      decimal.NewFromFloat(5.25),
		FinalBalance:       decimal.NewFromInt(-120),
		SDEntries:          2,
		SetDVariances: []sd.Variance{
			{Nom: "JEAN PHILIPPE", Variance: decimal.NewFromInt(10), Column: "H"},
		},
		UnmatchedNames: []string{"INCONNU"},
		Duration:       125 * time.Millisecond,
	}
}

func TestReportConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ReportConfig
		wantErr bool
	}{
		{name: "console", config: ReportConfig{Format: FormatConsole}},
		{name: "json", config: ReportConfig{Format: FormatJSON}},
		{name: "unknown format", config: ReportConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportGenerator_ConsoleReport(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{Format: FormatConsole, IncludeOKChecks: true})
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(createTestResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"NIGHT AUDIT REPORT",
		"Checks run:       3 (OK: 1, warnings: 1, errors: 1)",
		"GEAC Visa card",
		"transelect!X20 = 5.25",
		"minor discrepancy",
		"Row 10 (B)",
		"JEAN PHILIPPE",
		"column H",
		"INCONNU",
		"not in the personnel table",
		"DAY NOT BALANCED",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("console output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\033[") {
		t.Error("console output contains ANSI codes with colors disabled")
	}
}

func TestReportGenerator_ConsoleReport_SkipsOKChecks(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{Format: FormatConsole})
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(createTestResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	if strings.Contains(buf.String(), "GEAC Visa card") {
		t.Error("OK check rendered despite IncludeOKChecks=false")
	}
}

func TestReportGenerator_ConsoleReport_Colors(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{Format: FormatConsole, UseColors: true, IncludeOKChecks: true})
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(createTestResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{colorGreen + "OK  " + colorReset, colorYellow + "WARN" + colorReset, colorRed + "FAIL" + colorReset} {
		if !strings.Contains(output, want) {
			t.Errorf("colored output missing %q", want)
		}
	}
}

func TestReportGenerator_JSONReport(t *testing.T) {
	generator, err := NewReportGenerator(&ReportConfig{Format: FormatJSON, IncludeOKChecks: true})
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateReport(createTestResult(), &buf); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	var report struct {
		Summary            validator.Summary `json:"summary"`
		Checks             []json.RawMessage `json:"checks"`
		CrossCheckWarnings []string          `json:"crosscheck_warnings"`
		Balanced           bool              `json:"balanced"`
		MasterBalance      string            `json:"master_balance"`
		SetDVariances      []sd.Variance     `json:"setd_variances"`
		UnmatchedNames     []string          `json:"unmatched_names"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, buf.String())
	}

	if report.Summary.Total != 3 || report.Summary.Errors != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if len(report.Checks) != 3 {
		t.Errorf("checks = %d, want 3", len(report.Checks))
	}
	if len(report.CrossCheckWarnings) != 1 {
		t.Errorf("crosscheck_warnings = %v", report.CrossCheckWarnings)
	}
	if report.Balanced {
		t.Error("balanced = true, want false")
	}
	if report.MasterBalance != "5.25" {
		t.Errorf("master_balance = %s, want 5.25", report.MasterBalance)
	}
	if len(report.SetDVariances) != 1 || report.SetDVariances[0].Column != "H" {
		t.Errorf("setd_variances = %+v", report.SetDVariances)
	}
	if len(report.UnmatchedNames) != 1 || report.UnmatchedNames[0] != "INCONNU" {
		t.Errorf("unmatched_names = %v", report.UnmatchedNames)
	}
}

func TestReportGenerator_NilResult(t *testing.T) {
	generator, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator failed: %v", err)
	}
	if err := generator.GenerateReport(nil, &bytes.Buffer{}); err == nil {
		t.Error("GenerateReport accepted a nil result")
	}
}
