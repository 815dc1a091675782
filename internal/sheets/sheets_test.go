package sheets

import (
	"testing"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/engine"
)

func createTestEngine(t *testing.T) (*engine.Engine, *cells.Store) {
	t.Helper()
	store := cells.NewStore()
	registry := engine.NewRegistry()
	RegisterGEAC(registry)
	RegisterTranselect(registry)
	RegisterRecap(registry)
	return engine.New(store, registry), store
}

func setNum(store *cells.Store, sheet cells.Sheet, ref string, value float64) {
	store.SetNumber(cells.Addr(sheet, ref), decimal.NewFromFloat(value))
}

func num(store *cells.Store, sheet cells.Sheet, ref string) decimal.Decimal {
	return store.Number(cells.Addr(sheet, ref))
}

func assertCell(t *testing.T, store *cells.Store, sheet cells.Sheet, ref string, want float64) {
	t.Helper()
	got := num(store, sheet, ref)
	if !got.Equal(decimal.NewFromFloat(want)) {
		t.Errorf("%s!%s = %s, want %v", sheet, ref, got, want)
	}
}

func TestGEAC_CardReconciliation(t *testing.T) {
	eng, store := createTestEngine(t)

	// amex balances, visa is over by 5
	setNum(store, cells.SheetGEAC, "B6", 100)
	setNum(store, cells.SheetGEAC, "B12", 100)
	setNum(store, cells.SheetGEAC, "E6", 50)
	setNum(store, cells.SheetGEAC, "E12", 45)

	eng.RecomputeSheet(cells.SheetGEAC)

	assertCell(t, store, cells.SheetGEAC, "B10", 100)
	assertCell(t, store, cells.SheetGEAC, "B13", 0)
	assertCell(t, store, cells.SheetGEAC, "E10", 50)
	assertCell(t, store, cells.SheetGEAC, "E13", 5)

	// untouched card types read zero variance
	assertCell(t, store, cells.SheetGEAC, "C13", 0)
}

func TestGEAC_BalanceSheet(t *testing.T) {
	eng, store := createTestEngine(t)

	setNum(store, cells.SheetGEAC, "B32", 10)
	setNum(store, cells.SheetGEAC, "E32", 10)
	setNum(store, cells.SheetGEAC, "B37", 5)
	setNum(store, cells.SheetGEAC, "E37", 3)
	setNum(store, cells.SheetGEAC, "B41", 7)
	setNum(store, cells.SheetGEAC, "G41", 7)
	setNum(store, cells.SheetGEAC, "B44", 2)
	setNum(store, cells.SheetGEAC, "J44", 1)

	eng.RecomputeSheet(cells.SheetGEAC)

	assertCell(t, store, cells.SheetGEAC, "F32", 0)
	assertCell(t, store, cells.SheetGEAC, "F37", 2)
	assertCell(t, store, cells.SheetGEAC, "H41", 0)
	assertCell(t, store, cells.SheetGEAC, "K44", 1)
	assertCell(t, store, cells.SheetGEAC, "B53", 24)
	assertCell(t, store, cells.SheetGEAC, "E53", 21)
	assertCell(t, store, cells.SheetGEAC, "F53", 3)
}

func TestTranselect_RestaurantRow(t *testing.T) {
	eng, store := createTestEngine(t)

	setNum(store, cells.SheetTranselect, "B9", 10)
	setNum(store, cells.SheetTranselect, "C9", 20)
	setNum(store, cells.SheetTranselect, "W9", 5)
	setNum(store, cells.SheetTranselect, "X9", 20)
	setNum(store, cells.SheetTranselect, "Z9", 10)

	eng.RecomputeSheet(cells.SheetTranselect)

	assertCell(t, store, cells.SheetTranselect, "V9", 30)
	// net = (30 + 5) - 20
	assertCell(t, store, cells.SheetTranselect, "Y9", 15)
	// tips = 35 * 10%
	assertCell(t, store, cells.SheetTranselect, "AA9", 3.5)
	assertCell(t, store, cells.SheetTranselect, "AB9", 31.5)
}

func TestTranselect_RestaurantTotalsSkipPercentageColumn(t *testing.T) {
	eng, store := createTestEngine(t)

	setNum(store, cells.SheetTranselect, "B9", 10)
	setNum(store, cells.SheetTranselect, "B10", 15)
	setNum(store, cells.SheetTranselect, "Z9", 10)
	setNum(store, cells.SheetTranselect, "Z10", 15)

	eng.RecomputeSheet(cells.SheetTranselect)

	assertCell(t, store, cells.SheetTranselect, "B14", 25)
	if store.Has(cells.Addr(cells.SheetTranselect, "Z14")) {
		t.Error("Z14 should stay unset, the percentage column has no total")
	}
}

func TestTranselect_ReceptionRowAndTotals(t *testing.T) {
	eng, store := createTestEngine(t)

	setNum(store, cells.SheetTranselect, "B20", 10)
	setNum(store, cells.SheetTranselect, "C20", 20)
	setNum(store, cells.SheetTranselect, "D20", 30)
	setNum(store, cells.SheetTranselect, "P20", 55)
	setNum(store, cells.SheetTranselect, "R20", 10)

	setNum(store, cells.SheetTranselect, "B24", 40)

	// Row 23 is not a terminal row and must stay out of row 25
	setNum(store, cells.SheetTranselect, "B23", 999)

	eng.RecomputeSheet(cells.SheetTranselect)

	assertCell(t, store, cells.SheetTranselect, "I20", 60)
	assertCell(t, store, cells.SheetTranselect, "Q20", 5)
	assertCell(t, store, cells.SheetTranselect, "S20", 6)
	assertCell(t, store, cells.SheetTranselect, "T20", 54)

	assertCell(t, store, cells.SheetTranselect, "B25", 50)
	assertCell(t, store, cells.SheetTranselect, "I25", 100)
}

func TestTranselect_MasterBalance(t *testing.T) {
	eng, store := createTestEngine(t)

	// Restaurant nets +15, reception nets -15: the day balances.
	setNum(store, cells.SheetTranselect, "B9", 35)
	setNum(store, cells.SheetTranselect, "X9", 20)
	setNum(store, cells.SheetTranselect, "B20", 10)
	setNum(store, cells.SheetTranselect, "P20", 25)

	eng.RecomputeSheet(cells.SheetTranselect)

	assertCell(t, store, cells.SheetTranselect, "Y14", 15)
	assertCell(t, store, cells.SheetTranselect, "Q25", -15)
	if got := store.Number(MasterBalanceCell); !got.IsZero() {
		t.Errorf("master balance = %s, want 0", got)
	}
}

func TestRecap_NetsAndTotals(t *testing.T) {
	eng, store := createTestEngine(t)

	setNum(store, cells.SheetRecap, "B6", 100)
	setNum(store, cells.SheetRecap, "C6", 50)
	setNum(store, cells.SheetRecap, "B7", 25)
	setNum(store, cells.SheetRecap, "B16", 10)
	setNum(store, cells.SheetRecap, "B19", -5)

	eng.RecomputeSheet(cells.SheetRecap)

	assertCell(t, store, cells.SheetRecap, "D6", 150)
	assertCell(t, store, cells.SheetRecap, "B10", 125)
	assertCell(t, store, cells.SheetRecap, "C10", 50)
	assertCell(t, store, cells.SheetRecap, "D10", 175)
	assertCell(t, store, cells.SheetRecap, "B14", 125)
	assertCell(t, store, cells.SheetRecap, "B18", 135)
	assertCell(t, store, cells.SheetRecap, "B20", 130)
	assertCell(t, store, cells.SheetRecap, "B23", 130)
	assertCell(t, store, cells.SheetRecap, "D23", 180)
}

func TestRecap_ReimbursementsDeductRegardlessOfSign(t *testing.T) {
	tests := []struct {
		name string
		b11  float64
	}{
		{name: "entered negative", b11: -20},
		{name: "entered positive", b11: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, store := createTestEngine(t)
			setNum(store, cells.SheetRecap, "B6", 100)
			setNum(store, cells.SheetRecap, "B11", tt.b11)

			eng.RecomputeSheet(cells.SheetRecap)

			assertCell(t, store, cells.SheetRecap, "B14", 80)
		})
	}
}

func TestRecap_EditPropagatesToFinalBalance(t *testing.T) {
	eng, store := createTestEngine(t)

	setNum(store, cells.SheetRecap, "B6", 100)
	eng.RecomputeSheet(cells.SheetRecap)
	assertCell(t, store, cells.SheetRecap, "D23", 100)

	setNum(store, cells.SheetRecap, "C6", 11)
	eng.RecomputeFrom(cells.Addr(cells.SheetRecap, "C6"))

	assertCell(t, store, cells.SheetRecap, "D6", 111)
	assertCell(t, store, cells.SheetRecap, "D23", 111)
}
