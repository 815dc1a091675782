// Package validator derives balance checks from the cell store. Checks
// are recomputed on demand and never stored back into the sheets.
package validator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/sheets"
	"rj-nightaudit-service/pkg/logger"
)

// Severity of a balance check result
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// BalanceCheck is one derived check result
type BalanceCheck struct {
	Label    string          `json:"label"`
	Cell     string          `json:"cell"`
	Actual   decimal.Decimal `json:"actual"`
	Severity Severity        `json:"severity"`
	Detail   string          `json:"detail,omitempty"`
}

// Config holds validation thresholds
type Config struct {
	// Tolerance under which a variance counts as balanced
	Tolerance decimal.Decimal
	// MasterWarningBand is the band between a minor and a major
	// master balance discrepancy
	MasterWarningBand decimal.Decimal
}

// DefaultConfig returns the standard thresholds: one cent for balances,
// ten dollars for the master balance warning band.
func DefaultConfig() *Config {
	return &Config{
		Tolerance:         decimal.NewFromFloat(0.01),
		MasterWarningBand: decimal.NewFromInt(10),
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Tolerance.IsNegative() {
		return fmt.Errorf("tolerance cannot be negative")
	}
	if c.MasterWarningBand.LessThan(c.Tolerance) {
		return fmt.Errorf("master warning band cannot be below the tolerance")
	}
	return nil
}

// Validator runs balance checks over a cell store
type Validator struct {
	store  *cells.Store
	config *Config
	logger logger.Logger
}

// NewValidator creates a validator with the given configuration
func NewValidator(store *cells.Store, config *Config) (*Validator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Validator{
		store:  store,
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("validator"),
	}, nil
}

// Classify applies the two-tier rule: balanced within tolerance,
// otherwise an error.
func (v *Validator) Classify(actual decimal.Decimal) Severity {
	if actual.Abs().LessThan(v.config.Tolerance) {
		return SeverityOK
	}
	return SeverityError
}

// ClassifyMaster applies the three-tier master balance rule: perfect
// within tolerance, minor within the warning band, major beyond it.
func (v *Validator) ClassifyMaster(actual decimal.Decimal) Severity {
	abs := actual.Abs()
	if abs.LessThan(v.config.Tolerance) {
		return SeverityOK
	}
	if abs.LessThan(v.config.MasterWarningBand) {
		return SeverityWarning
	}
	return SeverityError
}

// CheckAll runs every balance check: the GEAC variances, the Transelect
// master balance and the Recap final balance.
func (v *Validator) CheckAll() []BalanceCheck {
	var checks []BalanceCheck

	geacCells := sheets.GEACVarianceCells()
	labels := make([]string, 0, len(geacCells))
	for label := range geacCells {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		addr := geacCells[label]
		actual := v.store.Number(addr)
		checks = append(checks, BalanceCheck{
			Label:    label,
			Cell:     addr.String(),
			Actual:   actual,
			Severity: v.Classify(actual),
		})
	}

	master := v.store.Number(sheets.MasterBalanceCell)
	masterCheck := BalanceCheck{
		Label:    "Transelect master balance",
		Cell:     sheets.MasterBalanceCell.String(),
		Actual:   master,
		Severity: v.ClassifyMaster(master),
	}
	switch masterCheck.Severity {
	case SeverityWarning:
		masterCheck.Detail = "minor discrepancy, review the terminal rows"
	case SeverityError:
		masterCheck.Detail = "major discrepancy, the day does not balance"
	}
	checks = append(checks, masterCheck)

	final := v.store.Number(sheets.FinalBalanceCell)
	checks = append(checks, BalanceCheck{
		Label:    "Recap final balance",
		Cell:     sheets.FinalBalanceCell.String(),
		Actual:   final,
		Severity: v.Classify(final),
	})

	v.logger.WithFields(logger.Fields{
		"checks": len(checks),
	}).Debug("Balance checks evaluated")
	return checks
}

// Summary aggregates check results by severity
type Summary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Summarize counts check results by severity
func Summarize(checks []BalanceCheck) Summary {
	s := Summary{Total: len(checks)}
	for _, check := range checks {
		switch check.Severity {
		case SeverityOK:
			s.OK++
		case SeverityWarning:
			s.Warnings++
		case SeverityError:
			s.Errors++
		}
	}
	return s
}
