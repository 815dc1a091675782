package cells

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Store holds every cell value of the audit workbook, keyed by address.
// Reads of missing cells return the empty Value, which is numeric zero.
type Store struct {
	mu     sync.RWMutex
	values map[Address]Value
}

// NewStore creates an empty cell store
func NewStore() *Store {
	return &Store{values: make(map[Address]Value)}
}

// Set stores a value at the given address
func (s *Store) Set(addr Address, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.IsEmpty() {
		delete(s.values, addr)
		return
	}
	s.values[addr] = v
}

// SetNumber stores a numeric value at the given address
func (s *Store) SetNumber(addr Address, d decimal.Decimal) {
	s.Set(addr, NumberValue(d))
}

// SetText stores a text value at the given address
func (s *Store) SetText(addr Address, text string) {
	s.Set(addr, TextValue(text))
}

// Get returns the value at the given address, empty if unset
func (s *Store) Get(addr Address) Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[addr]
}

// Number returns the numeric value at the given address.
// Missing, empty and text cells all read as zero.
func (s *Store) Number(addr Address) decimal.Decimal {
	return s.Get(addr).Number()
}

// Text returns the text at the given address, "" if unset
func (s *Store) Text(addr Address) string {
	return s.Get(addr).Text()
}

// Has reports whether the address holds a value
func (s *Store) Has(addr Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[addr]
	return ok
}

// Delete removes the value at the given address
func (s *Store) Delete(addr Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, addr)
}

// SheetValues returns a copy of all set cells of one sheet, keyed by ref
func (s *Store) SheetValues(sheet Sheet) map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Value)
	for addr, v := range s.values {
		if addr.Sheet == sheet {
			out[addr.Ref] = v
		}
	}
	return out
}

// SheetRefs returns the sorted refs of all set cells of one sheet
func (s *Store) SheetRefs(sheet Sheet) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []string
	for addr := range s.values {
		if addr.Sheet == sheet {
			refs = append(refs, addr.Ref)
		}
	}
	sort.Strings(refs)
	return refs
}

// Len returns the number of set cells across all sheets
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Clear removes every value from the store
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[Address]Value)
}
