package sheets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/engine"
)

// Transelect layout. The restaurant section reconciles 20 payment
// terminals (columns B through U) over rows 9-13 with totals in row 14;
// the reception section reconciles three terminals over rows 20, 21, 22
// and 24 with totals in row 25. Row 23 is a non-terminal line and stays
// out of the totals.
var (
	transelectRestaurantRows = []int{9, 10, 11, 12, 13}
	transelectReceptionRows  = []int{20, 21, 22, 24}
)

const (
	transelectRestaurantTotalRow = 14
	transelectReceptionTotalRow  = 25
)

// MasterBalanceCell is where the restaurant and reception nets meet.
// At the end of a clean audit it reads zero.
var MasterBalanceCell = cells.Addr(cells.SheetTranselect, "X20")

func tsAddr(column string, row int) cells.Address {
	return cells.Addr(cells.SheetTranselect, fmt.Sprintf("%s%d", column, row))
}

// terminalColumns returns the restaurant terminal columns B through U
func terminalColumns() []string {
	cols := make([]string, 0, 20)
	for c := byte('B'); c <= 'U'; c++ {
		cols = append(cols, string(c))
	}
	return cols
}

// RegisterTranselect wires the Transelect terminal reconciliation
// formulas into the registry.
func RegisterTranselect(r *engine.Registry) {
	for _, row := range transelectRestaurantRows {
		registerRestaurantRow(r, row)
	}
	registerRestaurantTotals(r)
	for _, row := range transelectReceptionRows {
		registerReceptionRow(r, row)
	}
	registerReceptionTotals(r)
	registerMasterBalance(r)
}

// Restaurant row: V sums the terminals, Y nets the POS reading against
// the gross, AA takes the tip percentage out and AB is what remains.
func registerRestaurantRow(r *engine.Registry, row int) {
	terminals := make([]cells.Address, 0, 20)
	for _, col := range terminalColumns() {
		terminals = append(terminals, tsAddr(col, row))
	}
	v := tsAddr("V", row)
	w := tsAddr("W", row)
	x := tsAddr("X", row)
	y := tsAddr("Y", row)
	z := tsAddr("Z", row)
	aa := tsAddr("AA", row)
	ab := tsAddr("AB", row)

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("transelect_restaurant_sum_%d", row),
		Sheet:   cells.SheetTranselect,
		Inputs:  terminals,
		Outputs: []cells.Address{v},
		Apply: func(s *cells.Store) {
			sum := decimal.Zero
			for _, t := range terminals {
				sum = sum.Add(s.Number(t))
			}
			s.SetNumber(v, sum)
		},
	})

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("transelect_restaurant_net_%d", row),
		Sheet:   cells.SheetTranselect,
		Inputs:  []cells.Address{v, w, x},
		Outputs: []cells.Address{y},
		Apply: func(s *cells.Store) {
			gross := s.Number(v).Add(s.Number(w))
			s.SetNumber(y, gross.Sub(s.Number(x)))
		},
	})

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("transelect_restaurant_tips_%d", row),
		Sheet:   cells.SheetTranselect,
		Inputs:  []cells.Address{v, w, z},
		Outputs: []cells.Address{aa, ab},
		Apply: func(s *cells.Store) {
			gross := s.Number(v).Add(s.Number(w))
			tips := gross.Mul(s.Number(z).Div(decimal.NewFromInt(100)))
			s.SetNumber(aa, tips)
			s.SetNumber(ab, gross.Sub(tips))
		},
	})
}

// Row 14 sums rows 9-13 column by column. The Z column holds a
// percentage, not an amount, so it has no total.
func registerRestaurantTotals(r *engine.Registry) {
	cols := append(terminalColumns(), "V", "W", "X", "Y", "AA", "AB")

	var inputs []cells.Address
	var outputs []cells.Address
	for _, col := range cols {
		for _, row := range transelectRestaurantRows {
			inputs = append(inputs, tsAddr(col, row))
		}
		outputs = append(outputs, tsAddr(col, transelectRestaurantTotalRow))
	}

	r.MustRegister(engine.Formula{
		Name:    "transelect_restaurant_totals",
		Sheet:   cells.SheetTranselect,
		Inputs:  inputs,
		Outputs: outputs,
		Apply: func(s *cells.Store) {
			for _, col := range cols {
				sum := decimal.Zero
				for _, row := range transelectRestaurantRows {
					sum = sum.Add(s.Number(tsAddr(col, row)))
				}
				s.SetNumber(tsAddr(col, transelectRestaurantTotalRow), sum)
			}
		},
	})
}

// Reception row: I sums the three terminals, Q nets against the POS
// reading, S takes the tip percentage out and T is what remains.
func registerReceptionRow(r *engine.Registry, row int) {
	b := tsAddr("B", row)
	c := tsAddr("C", row)
	d := tsAddr("D", row)
	i := tsAddr("I", row)
	p := tsAddr("P", row)
	q := tsAddr("Q", row)
	rr := tsAddr("R", row)
	sCell := tsAddr("S", row)
	tCell := tsAddr("T", row)

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("transelect_reception_sum_%d", row),
		Sheet:   cells.SheetTranselect,
		Inputs:  []cells.Address{b, c, d},
		Outputs: []cells.Address{i},
		Apply: func(s *cells.Store) {
			s.SetNumber(i, s.Number(b).Add(s.Number(c)).Add(s.Number(d)))
		},
	})

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("transelect_reception_net_%d", row),
		Sheet:   cells.SheetTranselect,
		Inputs:  []cells.Address{i, p},
		Outputs: []cells.Address{q},
		Apply: func(s *cells.Store) {
			s.SetNumber(q, s.Number(i).Sub(s.Number(p)))
		},
	})

	r.MustRegister(engine.Formula{
		Name:    fmt.Sprintf("transelect_reception_tips_%d", row),
		Sheet:   cells.SheetTranselect,
		Inputs:  []cells.Address{i, rr},
		Outputs: []cells.Address{sCell, tCell},
		Apply: func(s *cells.Store) {
			total := s.Number(i)
			tips := total.Mul(s.Number(rr).Div(decimal.NewFromInt(100)))
			s.SetNumber(sCell, tips)
			s.SetNumber(tCell, total.Sub(tips))
		},
	})
}

// Row 25 sums the reception rows column by column, skipping row 23.
func registerReceptionTotals(r *engine.Registry) {
	cols := []string{"B", "C", "D", "I", "P", "Q", "S", "T"}

	var inputs []cells.Address
	var outputs []cells.Address
	for _, col := range cols {
		for _, row := range transelectReceptionRows {
			inputs = append(inputs, tsAddr(col, row))
		}
		outputs = append(outputs, tsAddr(col, transelectReceptionTotalRow))
	}

	r.MustRegister(engine.Formula{
		Name:    "transelect_reception_totals",
		Sheet:   cells.SheetTranselect,
		Inputs:  inputs,
		Outputs: outputs,
		Apply: func(s *cells.Store) {
			for _, col := range cols {
				sum := decimal.Zero
				for _, row := range transelectReceptionRows {
					sum = sum.Add(s.Number(tsAddr(col, row)))
				}
				s.SetNumber(tsAddr(col, transelectReceptionTotalRow), sum)
			}
		},
	})
}

func registerMasterBalance(r *engine.Registry) {
	restaurantNet := tsAddr("Y", transelectRestaurantTotalRow)
	receptionNet := tsAddr("Q", transelectReceptionTotalRow)

	r.MustRegister(engine.Formula{
		Name:    "transelect_master_balance",
		Sheet:   cells.SheetTranselect,
		Inputs:  []cells.Address{restaurantNet, receptionNet},
		Outputs: []cells.Address{MasterBalanceCell},
		Apply: func(s *cells.Store) {
			s.SetNumber(MasterBalanceCell, s.Number(restaurantNet).Add(s.Number(receptionNet)))
		},
	})
}
