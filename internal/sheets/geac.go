// Package sheets declares the formula sets of the audit workbook sheets.
// Each Register function wires one sheet's formulas into a registry in
// evaluation order, producers before consumers.
package sheets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/engine"
)

// Card reconciliation columns, one per card type.
var GEACCards = []struct {
	Name   string
	Column string
}{
	{"amex", "B"},
	{"diners", "C"},
	{"master", "D"},
	{"visa", "E"},
	{"discover", "F"},
}

// Card reconciliation rows
const (
	geacRowCashOut  = 6
	geacRowTotal    = 10
	geacRowDailyRev = 12
	geacRowVariance = 13
)

func geacAddr(column string, row int) cells.Address {
	return cells.Addr(cells.SheetGEAC, fmt.Sprintf("%s%d", column, row))
}

// RegisterGEAC wires the GEAC/UX card reconciliation and balance sheet
// formulas into the registry.
func RegisterGEAC(r *engine.Registry) {
	for _, card := range GEACCards {
		registerGEACCard(r, card.Name, card.Column)
	}
	registerGEACBalance(r)
}

func registerGEACCard(r *engine.Registry, name, column string) {
	cashOut := geacAddr(column, geacRowCashOut)
	total := geacAddr(column, geacRowTotal)
	dailyRev := geacAddr(column, geacRowDailyRev)
	variance := geacAddr(column, geacRowVariance)

	// TOTAL carries the cash out amount. Rows 7-9 are reserved for
	// future components and are declared as inputs so filling them in
	// later only changes this formula.
	reserved := []cells.Address{
		geacAddr(column, 7),
		geacAddr(column, 8),
		geacAddr(column, 9),
	}
	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("geac_total_%s", name),
		Sheet:   cells.SheetGEAC,
		Inputs:  append([]cells.Address{cashOut}, reserved...),
		Outputs: []cells.Address{total},
		Apply: func(s *cells.Store) {
			s.SetNumber(total, s.Number(cashOut))
		},
	})

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("geac_variance_%s", name),
		Sheet:   cells.SheetGEAC,
		Inputs:  []cells.Address{total, dailyRev},
		Outputs: []cells.Address{variance},
		Apply: func(s *cells.Store) {
			s.SetNumber(variance, s.Number(total).Sub(s.Number(dailyRev)))
		},
	})
}

func registerGEACBalance(r *engine.Registry) {
	addr := func(ref string) cells.Address { return cells.Addr(cells.SheetGEAC, ref) }

	// Per-line variances: daily column minus ledger/applied column.
	lines := []struct {
		name     string
		daily    string
		ledger   string
		variance string
	}{
		{"balance_prev", "B32", "E32", "F32"},
		{"balance_today", "B37", "E37", "F37"},
		{"facture_direct", "B41", "G41", "H41"},
		{"adv_deposit", "B44", "J44", "K44"},
	}

	for _, line := range lines {
		daily, ledger, variance := addr(line.daily), addr(line.ledger), addr(line.variance)
		r.MustRegister(engine.Formula{
			Name:    fmt.Sprintf("geac_balance_%s", line.name),
			Sheet:   cells.SheetGEAC,
			Inputs:  []cells.Address{daily, ledger},
			Outputs: []cells.Address{variance},
			Apply: func(s *cells.Store) {
				s.SetNumber(variance, s.Number(daily).Sub(s.Number(ledger)))
			},
		})
	}

	// New balance: the four daily amounts and the four ledger amounts
	// roll up into B53/E53, with F53 their variance.
	dailyIn := []cells.Address{addr("B32"), addr("B37"), addr("B41"), addr("B44")}
	ledgerIn := []cells.Address{addr("E32"), addr("E37"), addr("G41"), addr("J44")}
	r.MustRegister(engine.Formula{
		Name:    "geac_new_balance",
		Sheet:   cells.SheetGEAC,
		Inputs:  append(append([]cells.Address{}, dailyIn...), ledgerIn...),
		Outputs: []cells.Address{addr("B53"), addr("E53"), addr("F53")},
		Apply: func(s *cells.Store) {
			daily := decimal.Zero
			for _, in := range dailyIn {
				daily = daily.Add(s.Number(in))
			}
			ledger := decimal.Zero
			for _, in := range ledgerIn {
				ledger = ledger.Add(s.Number(in))
			}
			s.SetNumber(addr("B53"), daily)
			s.SetNumber(addr("E53"), ledger)
			s.SetNumber(addr("F53"), daily.Sub(ledger))
		},
	})
}

// GEACVarianceCells returns the variance cells the balance validator
// checks against zero, labelled for reporting.
func GEACVarianceCells() map[string]cells.Address {
	out := map[string]cells.Address{
		"GEAC balance previous": cells.Addr(cells.SheetGEAC, "F32"),
		"GEAC balance today":    cells.Addr(cells.SheetGEAC, "F37"),
		"GEAC facture direct":   cells.Addr(cells.SheetGEAC, "H41"),
		"GEAC advance deposit":  cells.Addr(cells.SheetGEAC, "K44"),
		"GEAC new balance":      cells.Addr(cells.SheetGEAC, "F53"),
	}
	for _, card := range GEACCards {
		label := fmt.Sprintf("GEAC %s variance", card.Name)
		out[label] = geacAddr(card.Column, geacRowVariance)
	}
	return out
}
