// Package ledger keeps the rotating deposit ledger. Deposits go to one
// of two bank accounts and only the last seven deposit dates of each
// account are retained; older dates are evicted when a rotation runs,
// never during entry.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/pkg/logger"
)

// Account identifies one of the two deposit accounts
type Account string

const (
	AccountClient6 Account = "client6"
	AccountClient8 Account = "client8"
)

// MaxDistinctDates is how many deposit dates an account retains
const MaxDistinctDates = 7

// Entry is one deposit line
type Entry struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// DateGroup is the entries of one deposit date with their subtotal
type DateGroup struct {
	Date     string          `json:"date"`
	Entries  []Entry         `json:"entries"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Ledger holds the deposit entries of both accounts
type Ledger struct {
	mu      sync.Mutex
	entries map[Account][]Entry
	nextID  int
	logger  logger.Logger
}

// NewLedger creates an empty deposit ledger
func NewLedger() *Ledger {
	return &Ledger{
		entries: map[Account][]Entry{
			AccountClient6: {},
			AccountClient8: {},
		},
		logger: logger.GetGlobalLogger().WithComponent("ledger"),
	}
}

// AddEntry appends a deposit to the account. Adding never evicts; the
// distinct-date cap is only enforced by Rotate.
func (l *Ledger) AddEntry(account Account, amount decimal.Decimal, date string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	entry := Entry{
		ID:     fmt.Sprintf("dep-%d", l.nextID),
		Amount: amount,
		Date:   date,
	}
	l.entries[account] = append(l.entries[account], entry)
	return entry
}

// RemoveEntry deletes one deposit by ID
func (l *Ledger) RemoveEntry(account Account, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries[account]
	for i, e := range entries {
		if e.ID == id {
			l.entries[account] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns a copy of the account's deposits in entry order
func (l *Ledger) Entries(account Account) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries[account]))
	copy(out, l.entries[account])
	return out
}

// DistinctDates returns the account's deposit dates, oldest first
func (l *Ledger) DistinctDates(account Account) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.distinctDatesLocked(account)
}

func (l *Ledger) distinctDatesLocked(account Account) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, e := range l.entries[account] {
		if e.Date != "" && !seen[e.Date] {
			seen[e.Date] = true
			dates = append(dates, e.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dateLess(dates[i], dates[j]) })
	return dates
}

// CountDistinctDates returns how many deposit dates the account holds
func (l *Ledger) CountDistinctDates(account Account) int {
	return len(l.DistinctDates(account))
}

// ChooseAccount picks the account with fewer distinct deposit dates,
// client6 on a tie.
func (l *Ledger) ChooseAccount() Account {
	if l.CountDistinctDates(AccountClient6) <= l.CountDistinctDates(AccountClient8) {
		return AccountClient6
	}
	return AccountClient8
}

// Rotate evicts the account's oldest deposit dates until at most
// MaxDistinctDates remain. Every entry of an evicted date goes with it.
// Returns the number of entries removed.
func (l *Ledger) Rotate(account Account) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	dates := l.distinctDatesLocked(account)
	if len(dates) <= MaxDistinctDates {
		return 0
	}

	evict := make(map[string]bool)
	for _, date := range dates[:len(dates)-MaxDistinctDates] {
		evict[date] = true
	}

	kept := l.entries[account][:0]
	removed := 0
	for _, e := range l.entries[account] {
		if evict[e.Date] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.entries[account] = kept

	if removed > 0 {
		l.logger.WithFields(logger.Fields{
			"account": account,
			"removed": removed,
		}).Info("Old deposit dates rotated out")
	}
	return removed
}

// RotateAll rotates both accounts and returns the total removed
func (l *Ledger) RotateAll() int {
	return l.Rotate(AccountClient6) + l.Rotate(AccountClient8)
}

// Total sums the account's deposit amounts
func (l *Ledger) Total(account Account) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := decimal.Zero
	for _, e := range l.entries[account] {
		total = total.Add(e.Amount)
	}
	return total
}

// GeneralTotal sums both accounts
func (l *Ledger) GeneralTotal() decimal.Decimal {
	return l.Total(AccountClient6).Add(l.Total(AccountClient8))
}

// EntriesByDate groups the account's deposits by date, oldest date
// first, with per-date subtotals.
func (l *Ledger) EntriesByDate(account Account) []DateGroup {
	dates := l.DistinctDates(account)
	entries := l.Entries(account)

	groups := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		group := DateGroup{Date: date, Subtotal: decimal.Zero}
		for _, e := range entries {
			if e.Date == date {
				group.Entries = append(group.Entries, e)
				group.Subtotal = group.Subtotal.Add(e.Amount)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
