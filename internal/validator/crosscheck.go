package validator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/sheets"
)

// crossCheckTolerance is tighter than the balance tolerance: the
// cross-check compares stored totals against an independent
// recomputation, so any real difference means a stale cell.
var crossCheckTolerance = decimal.NewFromFloat(0.001)

// CrossCheckRecap recomputes every Recap total independently of the
// formula registry and reports cells whose stored value diverges. A
// non-empty result means the displayed totals are stale or were
// tampered with; warnings name the row and column in plain language.
func (v *Validator) CrossCheckRecap() []string {
	var warnings []string

	num := func(col string, row int) decimal.Decimal {
		return v.store.Number(cells.Addr(cells.SheetRecap, fmt.Sprintf("%s%d", col, row)))
	}
	diverges := func(stored, expected decimal.Decimal) bool {
		return stored.Sub(expected).Abs().GreaterThan(crossCheckTolerance)
	}

	// D = B + C on every detail row
	for _, row := range sheets.RecapDetailRows {
		expected := num("B", row).Add(num("C", row))
		if diverges(num("D", row), expected) {
			warnings = append(warnings, fmt.Sprintf(
				"Row %d (D): should equal B + C (expected %s, got %s)",
				row, expected, num("D", row)))
		}
	}

	for _, col := range sheets.RecapColumns {
		total := decimal.Zero
		for _, row := range sheets.RecapCashRows {
			total = total.Add(num(col, row))
		}
		if diverges(num(col, 10), total) {
			warnings = append(warnings, fmt.Sprintf(
				"Row 10 (%s): should be the sum of rows 6-9 (expected %s, got %s)",
				col, total, num(col, 10)))
		}

		afterRemb := total.Sub(num(col, 11).Abs()).Sub(num(col, 12).Abs())
		if diverges(num(col, 14), afterRemb) {
			warnings = append(warnings, fmt.Sprintf(
				"Row 14 (%s): should be row 10 - |row 11| - |row 12| (expected %s, got %s)",
				col, afterRemb, num(col, 14)))
		}

		toDeposit := afterRemb.Add(num(col, 16)).Add(num(col, 17))
		if diverges(num(col, 18), toDeposit) {
			warnings = append(warnings, fmt.Sprintf(
				"Row 18 (%s): should be row 14 + row 16 + row 17 (expected %s, got %s)",
				col, toDeposit, num(col, 18)))
		}

		netDeposit := toDeposit.Add(num(col, 19))
		if diverges(num(col, 20), netDeposit) {
			warnings = append(warnings, fmt.Sprintf(
				"Row 20 (%s): should be row 18 + row 19 (expected %s, got %s)",
				col, netDeposit, num(col, 20)))
		}
	}

	if len(warnings) > 0 {
		v.logger.WithField("warnings", len(warnings)).Warn("Recap cross-check diverged")
	}
	return warnings
}
