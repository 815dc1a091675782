package sd

import (
	"fmt"
	"strings"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/personnel"
)

// SD sheet layout: entry rows start at row 8. Column A holds the
// department, B the name, C the currency, D the counted amount, E the
// verified amount and F the reimbursement.
const (
	sheetFirstRow     = 8
	sheetEmptyRowStop = 3
)

func sdAddr(column string, row int) cells.Address {
	return cells.Addr(cells.SheetSD, fmt.Sprintf("%s%d", column, row))
}

// EntriesFromStore reads the SD sheet rows out of the cell store.
// Scanning stops after three consecutive rows with neither a department
// nor a name; the TOTAL and SIGNATURE rows are not entries and are
// skipped.
func EntriesFromStore(store *cells.Store) []Entry {
	var entries []Entry
	empty := 0
	for row := sheetFirstRow; empty < sheetEmptyRowStop; row++ {
		departement := strings.TrimSpace(store.Text(sdAddr("A", row)))
		nom := strings.TrimSpace(store.Text(sdAddr("B", row)))

		if departement == "" && nom == "" {
			empty++
			continue
		}
		empty = 0

		if strings.EqualFold(departement, "TOTAL") ||
			strings.Contains(strings.ToUpper(nom), "SIGNATURE") {
			continue
		}

		devise := DeviseCDN
		if strings.EqualFold(strings.TrimSpace(store.Text(sdAddr("C", row))), string(DeviseUS)) {
			devise = DeviseUS
		}

		entries = append(entries, Entry{
			Departement:    departement,
			Nom:            nom,
			Devise:         devise,
			Montant:        store.Number(sdAddr("D", row)),
			MontantVerifie: store.Number(sdAddr("E", row)),
			Remboursement:  store.Number(sdAddr("F", row)),
		})
	}
	return entries
}

// LoadFromStore replaces the day's lines with the SD sheet rows from
// the store. Each name goes through the resolver's commit pass, so a
// resolvable free-text spelling lands canonical and everything else
// stays as written. Returns the number of lines loaded.
func (m *Manager) LoadFromStore(store *cells.Store) int {
	entries := EntriesFromStore(store)
	for i := range entries {
		if entries[i].Nom == "" {
			continue
		}
		if match := m.resolver.Commit(entries[i].Nom); match.Status == personnel.StatusExact {
			entries[i].Nom = match.Name
		}
	}
	m.Replace(entries)
	return len(entries)
}
