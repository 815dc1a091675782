// Package reporter renders audit results for people and for machines.
//
// Two formats are supported:
//   - Console: human-readable output for the night auditor's terminal
//   - JSON: structured output for downstream tooling
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"rj-nightaudit-service/internal/audit"
	"rj-nightaudit-service/internal/validator"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON:
		return true
	default:
		return false
	}
}

// ReportConfig holds report generation options
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Console options
	UseColors bool `json:"use_colors"`

	// Detail level options
	IncludeOKChecks bool `json:"include_ok_checks"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:          FormatConsole,
		UseColors:       true,
		IncludeOKChecks: true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// ReportGenerator renders audit results
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the given
// configuration. A nil configuration means defaults.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the audit result to the writer
func (rg *ReportGenerator) GenerateReport(result *audit.Result, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("audit result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

func (rg *ReportGenerator) severityTag(severity validator.Severity) string {
	tag, color := "OK  ", colorGreen
	switch severity {
	case validator.SeverityWarning:
		tag, color = "WARN", colorYellow
	case validator.SeverityError:
		tag, color = "FAIL", colorRed
	}
	if !rg.config.UseColors {
		return tag
	}
	return color + tag + colorReset
}

func (rg *ReportGenerator) generateConsoleReport(result *audit.Result, writer io.Writer) error {
	fmt.Fprintf(writer, "NIGHT AUDIT REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "Duration: %v\n\n", result.Duration)

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	fmt.Fprintf(writer, "Cells loaded:     %d\n", result.CellsLoaded)
	fmt.Fprintf(writer, "Formulas applied: %d\n", result.FormulasApplied)
	fmt.Fprintf(writer, "Checks run:       %d (OK: %d, warnings: %d, errors: %d)\n",
		result.Summary.Total, result.Summary.OK, result.Summary.Warnings, result.Summary.Errors)
	fmt.Fprintf(writer, "Master balance:   %s\n", result.MasterBalance.StringFixed(2))
	fmt.Fprintf(writer, "Final balance:    %s\n\n", result.FinalBalance.StringFixed(2))

	fmt.Fprintf(writer, "=== BALANCE CHECKS ===\n")
	for _, check := range result.Checks {
		if check.Severity == validator.SeverityOK && !rg.config.IncludeOKChecks {
			continue
		}
		fmt.Fprintf(writer, "[%s] %-28s %s = %s",
			rg.severityTag(check.Severity), check.Label, check.Cell, check.Actual.StringFixed(2))
		if check.Detail != "" {
			fmt.Fprintf(writer, " (%s)", check.Detail)
		}
		fmt.Fprintf(writer, "\n")
	}
	fmt.Fprintf(writer, "\n")

	if len(result.CrossCheckWarnings) > 0 {
		fmt.Fprintf(writer, "=== RECAP CROSS-CHECK ===\n")
		for _, warning := range result.CrossCheckWarnings {
			fmt.Fprintf(writer, "[%s] %s\n", rg.severityTag(validator.SeverityWarning), warning)
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(result.SetDVariances) > 0 || len(result.UnmatchedNames) > 0 {
		fmt.Fprintf(writer, "=== SETD VARIANCES ===\n")
		for _, v := range result.SetDVariances {
			fmt.Fprintf(writer, "[%s] %-28s column %-3s %s\n",
				rg.severityTag(validator.SeverityOK), v.Nom, v.Column, v.Variance.StringFixed(2))
		}
		for _, nom := range result.UnmatchedNames {
			fmt.Fprintf(writer, "[%s] %-28s not in the personnel table\n",
				rg.severityTag(validator.SeverityWarning), nom)
		}
		fmt.Fprintf(writer, "\n")
	}

	verdict := "DAY BALANCED"
	if !result.Balanced() {
		verdict = "DAY NOT BALANCED"
	}
	fmt.Fprintf(writer, "%s\n", verdict)
	return nil
}

func (rg *ReportGenerator) generateJSONReport(result *audit.Result, writer io.Writer) error {
	checks := result.Checks
	if !rg.config.IncludeOKChecks {
		filtered := make([]validator.BalanceCheck, 0, len(checks))
		for _, check := range checks {
			if check.Severity != validator.SeverityOK {
				filtered = append(filtered, check)
			}
		}
		checks = filtered
	}

	output := map[string]interface{}{
		"generated_at":     time.Now().Format(time.RFC3339),
		"duration":         result.Duration.String(),
		"cells_loaded":     result.CellsLoaded,
		"formulas_applied": result.FormulasApplied,
		"summary":          result.Summary,
		"master_balance":   result.MasterBalance,
		"final_balance":    result.FinalBalance,
		"checks":           checks,
		"balanced":         result.Balanced(),
	}
	if len(result.CrossCheckWarnings) > 0 {
		output["crosscheck_warnings"] = result.CrossCheckWarnings
	}
	if len(result.SetDVariances) > 0 {
		output["setd_variances"] = result.SetDVariances
	}
	if len(result.UnmatchedNames) > 0 {
		output["unmatched_names"] = result.UnmatchedNames
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
