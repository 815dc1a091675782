// Package sd manages the SD cash-variance sheet: per-person envelope
// counts, their variances, the SetD export preparation and the deposit
// auto-fill.
package sd

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/ledger"
	"rj-nightaudit-service/internal/personnel"
	apperrors "rj-nightaudit-service/pkg/errors"
	"rj-nightaudit-service/pkg/logger"
)

// Devise is the currency of an SD line
type Devise string

const (
	DeviseCDN Devise = "CDN"
	DeviseUS  Devise = "US"
)

// Entry is one SD line. Variance is derived and recomputed on every
// amount edit: what was counted minus what was verified, plus any
// reimbursement handed back.
type Entry struct {
	ID             string          `json:"id"`
	Departement    string          `json:"departement"`
	Nom            string          `json:"nom"`
	Devise         Devise          `json:"devise"`
	Montant        decimal.Decimal `json:"montant"`
	MontantVerifie decimal.Decimal `json:"montant_verifie"`
	Remboursement  decimal.Decimal `json:"remboursement"`
	Variance       decimal.Decimal `json:"variance"`
}

// Totals aggregates the SD columns
type Totals struct {
	Montant       decimal.Decimal `json:"montant"`
	Verifie       decimal.Decimal `json:"verifie"`
	Remboursement decimal.Decimal `json:"remboursement"`
	Variance      decimal.Decimal `json:"variance"`
}

// Variance is one SetD export line: a matched person and their variance
type Variance struct {
	Nom      string          `json:"nom"`
	Variance decimal.Decimal `json:"variance"`
	Column   string          `json:"column"`
}

// GapStatus is the live assignment state of the SD variances
type GapStatus string

const (
	// GapPending means no line has data yet
	GapPending GapStatus = "pending"
	// GapBalanced means there is no variance at all
	GapBalanced GapStatus = "balanced"
	// GapAssigned means every variance is matched to a person
	GapAssigned GapStatus = "assigned"
	// GapUnassigned means some variance has no matched person
	GapUnassigned GapStatus = "unassigned"
)

var gapTolerance = decimal.NewFromFloat(0.01)

// Manager holds the SD lines for the current day
type Manager struct {
	mu       sync.Mutex
	entries  []Entry
	nextID   int
	resolver *personnel.Resolver
	ledger   *ledger.Ledger
	logger   logger.Logger
}

// NewManager creates an SD manager backed by the given resolver and
// deposit ledger.
func NewManager(resolver *personnel.Resolver, led *ledger.Ledger) *Manager {
	if resolver == nil {
		resolver = personnel.NewResolver(nil)
	}
	return &Manager{
		resolver: resolver,
		ledger:   led,
		logger:   logger.GetGlobalLogger().WithComponent("sd"),
	}
}

// AddEntry appends an empty SD line and returns it
func (m *Manager) AddEntry() Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	entry := Entry{
		ID:     fmt.Sprintf("sd-%d", m.nextID),
		Devise: DeviseCDN,
	}
	m.entries = append(m.entries, entry)
	return entry
}

// RemoveEntry deletes one SD line by ID
func (m *Manager) RemoveEntry(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateEntry applies an edit to one line and rederives its variance.
// Returns the updated entry.
func (m *Manager) UpdateEntry(id string, apply func(*Entry)) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == id {
			apply(&m.entries[i])
			m.entries[i].Variance = m.entries[i].Montant.
				Sub(m.entries[i].MontantVerifie).
				Add(m.entries[i].Remboursement)
			return m.entries[i], true
		}
	}
	return Entry{}, false
}

// CommitNom resolves a typed name on blur and stores the outcome: an
// exact or single-candidate match stores the canonical spelling, an
// ambiguous or unknown name stays as typed so nothing is dropped.
func (m *Manager) CommitNom(id string, text string) (personnel.Match, bool) {
	match := m.resolver.Commit(text)

	stored := text
	if match.Status == personnel.StatusExact {
		stored = match.Name
	}
	_, ok := m.UpdateEntry(id, func(e *Entry) { e.Nom = stored })
	return match, ok
}

// Entries returns a copy of every SD line in entry order
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Replace swaps in a full entry set, rederiving every variance. Used
// when a day's lines come back from the backend.
func (m *Manager) Replace(entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make([]Entry, len(entries))
	for i, e := range entries {
		e.Variance = e.Montant.Sub(e.MontantVerifie).Add(e.Remboursement)
		if e.ID == "" {
			m.nextID++
			e.ID = fmt.Sprintf("sd-%d", m.nextID)
		}
		m.entries[i] = e
	}
}

// Totals sums every SD column
func (m *Manager) Totals() Totals {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := Totals{
		Montant:       decimal.Zero,
		Verifie:       decimal.Zero,
		Remboursement: decimal.Zero,
		Variance:      decimal.Zero,
	}
	for _, e := range m.entries {
		t.Montant = t.Montant.Add(e.Montant)
		t.Verifie = t.Verifie.Add(e.MontantVerifie)
		t.Remboursement = t.Remboursement.Add(e.Remboursement)
		t.Variance = t.Variance.Add(e.Variance)
	}
	return t
}

// VariancesForSetD collects the lines worth exporting: a named person
// with a non-zero variance. Names spelled exactly as in the personnel
// table are matched to their column; the rest land in unmatched and are
// reported, never silently dropped.
func (m *Manager) VariancesForSetD() (variances []Variance, unmatched []string) {
	for _, e := range m.Entries() {
		if e.Nom == "" || e.Variance.IsZero() {
			continue
		}
		if column, ok := m.resolver.Column(e.Nom); ok {
			variances = append(variances, Variance{
				Nom:      e.Nom,
				Variance: e.Variance,
				Column:   column,
			})
		} else {
			unmatched = append(unmatched, e.Nom)
		}
	}
	if len(unmatched) > 0 {
		m.logger.WithField("unmatched", unmatched).Warn("SD names not in the personnel table")
	}
	return variances, unmatched
}

// AssignmentGap reports the variance left unassigned: the SD variance
// total minus what the matched SetD lines account for.
func (m *Manager) AssignmentGap() (decimal.Decimal, GapStatus) {
	totals := m.Totals()
	variances, _ := m.VariancesForSetD()

	assigned := decimal.Zero
	for _, v := range variances {
		assigned = assigned.Add(v.Variance)
	}
	gap := totals.Variance.Sub(assigned)

	hasData := false
	for _, e := range m.Entries() {
		if e.Nom != "" || !e.Montant.IsZero() || !e.MontantVerifie.IsZero() {
			hasData = true
			break
		}
	}

	switch {
	case !hasData:
		return gap, GapPending
	case gap.Abs().LessThan(gapTolerance) && totals.Variance.Abs().LessThan(gapTolerance):
		return gap, GapBalanced
	case gap.Abs().LessThan(gapTolerance):
		return gap, GapAssigned
	default:
		return gap, GapUnassigned
	}
}

// DepotFill is the outcome of a deposit auto-fill
type DepotFill struct {
	Account     ledger.Account  `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Rotated     int             `json:"rotated"`
	Client6Days int             `json:"client6_days"`
	Client8Days int             `json:"client8_days"`
}

// FillDepotFromSD deposits the verified SD total into the account with
// more room. The target is rotated before the insert so the new date
// never pushes the account past its retention window mid-entry.
func (m *Manager) FillDepotFromSD(now time.Time) (*DepotFill, error) {
	if m.ledger == nil {
		return nil, apperrors.InternalError(apperrors.CodeUnexpectedError, "deposit fill without a ledger", nil)
	}

	verified := m.Totals().Verifie
	if !verified.IsPositive() {
		return nil, apperrors.ExportError(apperrors.CodeNothingToSend,
			"no verified amount to deposit", nil).
			WithSuggestion("enter verified amounts on the SD lines first")
	}

	account := m.ledger.ChooseAccount()
	rotated := m.ledger.Rotate(account)
	date := ledger.DateString(now)
	m.ledger.AddEntry(account, verified, date)

	fill := &DepotFill{
		Account:     account,
		Amount:      verified,
		Date:        date,
		Rotated:     rotated,
		Client6Days: m.ledger.CountDistinctDates(ledger.AccountClient6),
		Client8Days: m.ledger.CountDistinctDates(ledger.AccountClient8),
	}
	m.logger.WithFields(logger.Fields{
		"account": account,
		"amount":  verified.String(),
		"rotated": rotated,
	}).Info("Deposit filled from SD")
	return fill, nil
}

// DepotMatchesSD reports whether the deposit ledger's general total
// agrees with the SD verified total within a cent.
func (m *Manager) DepotMatchesSD() bool {
	if m.ledger == nil {
		return false
	}
	diff := m.Totals().Verifie.Sub(m.ledger.GeneralTotal())
	return diff.Abs().LessThan(gapTolerance)
}
