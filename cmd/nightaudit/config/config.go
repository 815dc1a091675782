// Package config assembles the component configurations the CLI needs
// from flag values.
package config

import (
	"time"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/audit"
	"rj-nightaudit-service/internal/backend"
	"rj-nightaudit-service/internal/personnel"
	"rj-nightaudit-service/internal/reporter"
	"rj-nightaudit-service/internal/validator"
	"rj-nightaudit-service/pkg/logger"
)

// CreateValidatorConfig creates a validator configuration with the
// CLI tolerance override.
func CreateValidatorConfig(tolerance float64) *validator.Config {
	config := validator.DefaultConfig()
	if tolerance > 0 {
		config.Tolerance = decimal.NewFromFloat(tolerance)
	}
	return config
}

// CreateAuditConfig creates the audit service configuration. A nil
// personnel table means the built-in roster.
func CreateAuditConfig(snapshotPath string, tolerance float64, table personnel.Table) *audit.Config {
	return &audit.Config{
		SnapshotPath: snapshotPath,
		Validator:    CreateValidatorConfig(tolerance),
		Personnel:    table,
	}
}

// CreateReportConfig creates a report configuration for the specified
// output format.
func CreateReportConfig(format string, noColor bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "json":
		config.Format = reporter.FormatJSON
		config.UseColors = false
	default:
		config.Format = reporter.FormatConsole
		config.UseColors = !noColor
	}
	return config
}

// CreateBackendConfig creates a backend client configuration
func CreateBackendConfig(baseURL string, timeout time.Duration) *backend.Config {
	config := backend.DefaultConfig()
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.Timeout = timeout
	}
	return config
}

// CreateLoggerConfig creates the logger configuration for CLI runs.
// Reports go to stdout, logs stay on stderr.
func CreateLoggerConfig(verbose bool) *logger.Config {
	config := logger.DefaultConfig()
	config.Output = logger.StderrOutput
	if verbose {
		config.Level = logger.DebugLevel
	} else {
		config.Level = logger.WarnLevel
	}
	return config
}
