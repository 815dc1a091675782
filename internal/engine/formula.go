// Package engine implements the dependency-driven recompute engine that
// keeps every derived cell of the audit workbook consistent with its inputs.
package engine

import (
	"fmt"

	"rj-nightaudit-service/internal/cells"
)

// Formula is a pure, deterministic computation over the cell store.
// Inputs and Outputs are declared statically so the engine can decide
// which formulas a given edit affects without running them.
type Formula struct {
	Name    string
	Sheet   cells.Sheet
	Inputs  []cells.Address
	Outputs []cells.Address
	Apply   func(store *cells.Store)
}

// Validate checks the formula declaration
func (f Formula) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("formula name is required")
	}
	if f.Sheet == "" {
		return fmt.Errorf("formula %s: sheet is required", f.Name)
	}
	if len(f.Outputs) == 0 {
		return fmt.Errorf("formula %s: at least one output is required", f.Name)
	}
	if f.Apply == nil {
		return fmt.Errorf("formula %s: apply function is required", f.Name)
	}
	for _, addr := range f.Inputs {
		if !cells.ValidRef(addr.Ref) {
			return fmt.Errorf("formula %s: invalid input ref %q", f.Name, addr.Ref)
		}
	}
	for _, addr := range f.Outputs {
		if !cells.ValidRef(addr.Ref) {
			return fmt.Errorf("formula %s: invalid output ref %q", f.Name, addr.Ref)
		}
	}
	return nil
}

// Registry holds all registered formulas. Registration order per sheet
// is the evaluation order; formula sets declare their formulas so that
// every formula appears after the formulas producing its inputs.
type Registry struct {
	formulas []Formula
	bySheet  map[cells.Sheet][]int
	byName   map[string]int
}

// NewRegistry creates an empty formula registry
func NewRegistry() *Registry {
	return &Registry{
		bySheet: make(map[cells.Sheet][]int),
		byName:  make(map[string]int),
	}
}

// Register adds a formula to the registry
func (r *Registry) Register(f Formula) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if _, exists := r.byName[f.Name]; exists {
		return fmt.Errorf("formula %s already registered", f.Name)
	}
	idx := len(r.formulas)
	r.formulas = append(r.formulas, f)
	r.bySheet[f.Sheet] = append(r.bySheet[f.Sheet], idx)
	r.byName[f.Name] = idx
	return nil
}

// MustRegister registers a formula and panics on a bad declaration.
// Formula sets are wired at startup, so a bad declaration is a programming
// error rather than a runtime condition.
func (r *Registry) MustRegister(f Formula) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// SheetFormulas returns the formulas of one sheet in evaluation order
func (r *Registry) SheetFormulas(sheet cells.Sheet) []Formula {
	indexes := r.bySheet[sheet]
	out := make([]Formula, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, r.formulas[idx])
	}
	return out
}

// Formulas returns every registered formula in registration order
func (r *Registry) Formulas() []Formula {
	out := make([]Formula, len(r.formulas))
	copy(out, r.formulas)
	return out
}

// Lookup returns the formula with the given name
func (r *Registry) Lookup(name string) (Formula, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Formula{}, false
	}
	return r.formulas[idx], true
}

// Len returns the number of registered formulas
func (r *Registry) Len() int {
	return len(r.formulas)
}
