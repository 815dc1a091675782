package sheets

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/engine"
)

// Recap layout. Column B is cash CDN, column C cash US, column D the
// net of the two. Detail rows feed the total rows 10, 14, 18 and 20;
// row 23 is the final balance.
var (
	// RecapDetailRows are the rows where D = B + C
	RecapDetailRows = []int{6, 7, 8, 9, 11, 12, 16, 17, 19}

	// RecapCashRows feed the row 10 total
	RecapCashRows = []int{6, 7, 8, 9}

	// RecapColumns in display order
	RecapColumns = []string{"B", "C", "D"}
)

// FinalBalanceCell is the Recap bottom line. A clean audit reads zero.
var FinalBalanceCell = cells.Addr(cells.SheetRecap, "D23")

func recapAddr(column string, row int) cells.Address {
	return cells.Addr(cells.SheetRecap, fmt.Sprintf("%s%d", column, row))
}

// RegisterRecap wires the Recap cash summary formulas into the registry.
func RegisterRecap(r *engine.Registry) {
	registerRecapNets(r)
	registerRecapTotals(r)
}

// D = B + C on every detail row
func registerRecapNets(r *engine.Registry) {
	for _, row := range RecapDetailRows {
		b := recapAddr("B", row)
		c := recapAddr("C", row)
		d := recapAddr("D", row)
		r.MustRegister(engine.Formula{
			Name:    fmt.Sprintf("recap_net_%d", row),
			Sheet:   cells.SheetRecap,
			Inputs:  []cells.Address{b, c},
			Outputs: []cells.Address{d},
			Apply: func(s *cells.Store) {
				s.SetNumber(d, s.Number(b).Add(s.Number(c)))
			},
		})
	}
}

// Total rows per column:
//
//	row 10 = rows 6+7+8+9          (total cash and checks)
//	row 14 = row 10 - |11| - |12|  (after reimbursements, always deducted)
//	row 18 = row 14 + 16 + 17      (to deposit; row 15 Exchange-US reserved)
//	row 20 = row 18 + 19           (net deposit)
//	row 23 = row 20                (final balance; deposit offset rows 21
//	                                and 22 are reserved and read zero)
func registerRecapTotals(r *engine.Registry) {
	var inputs []cells.Address
	var outputs []cells.Address
	for _, col := range RecapColumns {
		for _, row := range []int{10, 11, 12, 16, 17, 19} {
			if row == 10 {
				for _, cashRow := range RecapCashRows {
					inputs = append(inputs, recapAddr(col, cashRow))
				}
				continue
			}
			inputs = append(inputs, recapAddr(col, row))
		}
		for _, row := range []int{10, 14, 18, 20, 23} {
			outputs = append(outputs, recapAddr(col, row))
		}
	}

	r.MustRegister(engine.Formula{
		Name:    "recap_totals",
		Sheet:   cells.SheetRecap,
		Inputs:  inputs,
		Outputs: outputs,
		Apply: func(s *cells.Store) {
			for _, col := range RecapColumns {
				num := func(row int) decimal.Decimal { return s.Number(recapAddr(col, row)) }

				total := decimal.Zero
				for _, row := range RecapCashRows {
					total = total.Add(num(row))
				}
				afterRemb := total.Sub(num(11).Abs()).Sub(num(12).Abs())
				toDeposit := afterRemb.Add(num(16)).Add(num(17))
				netDeposit := toDeposit.Add(num(19))

				s.SetNumber(recapAddr(col, 10), total)
				s.SetNumber(recapAddr(col, 14), afterRemb)
				s.SetNumber(recapAddr(col, 18), toDeposit)
				s.SetNumber(recapAddr(col, 20), netDeposit)
				s.SetNumber(recapAddr(col, 23), netDeposit)
			}
		},
	})
}
