package engine

import (
	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/pkg/logger"
)

// Engine evaluates registered formulas against a cell store
type Engine struct {
	store    *cells.Store
	registry *Registry
	logger   logger.Logger
}

// New creates an engine over the given store and registry
func New(store *cells.Store, registry *Registry) *Engine {
	return &Engine{
		store:    store,
		registry: registry,
		logger:   logger.GetGlobalLogger().WithComponent("engine"),
	}
}

// Store returns the engine's cell store
func (e *Engine) Store() *cells.Store {
	return e.store
}

// Registry returns the engine's formula registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// RecomputeSheet evaluates every formula of one sheet in declared order.
// Declared order places each formula after its producers, so a single
// pass settles the sheet. Returns the number of formulas applied.
func (e *Engine) RecomputeSheet(sheet cells.Sheet) int {
	formulas := e.registry.SheetFormulas(sheet)
	for _, f := range formulas {
		f.Apply(e.store)
	}
	e.logger.WithFields(logger.Fields{
		"sheet":    sheet,
		"formulas": len(formulas),
	}).Debug("Sheet recomputed")
	return len(formulas)
}

// RecomputeAll evaluates every registered formula, sheet by sheet
func (e *Engine) RecomputeAll() int {
	applied := 0
	for _, sheet := range cells.AllSheets() {
		applied += e.RecomputeSheet(sheet)
	}
	return applied
}

// RecomputeFrom propagates a set of edited cells to a fixpoint: formulas
// reading a dirty cell are applied in declared order, outputs whose values
// actually changed join the dirty set, and passes repeat until a pass
// applies nothing new. Applying it twice for the same edits is a no-op
// the second time since formulas are pure.
func (e *Engine) RecomputeFrom(changed ...cells.Address) int {
	dirty := make(map[cells.Address]bool, len(changed))
	for _, addr := range changed {
		dirty[addr] = true
	}

	formulas := e.registry.Formulas()
	applied := 0

	// Each pass can only add formula outputs to the dirty set, so the
	// number of useful passes is bounded by the formula count.
	for pass := 0; pass <= len(formulas); pass++ {
		progressed := false
		for _, f := range formulas {
			if !readsAny(f, dirty) {
				continue
			}
			before := snapshotOutputs(e.store, f)
			f.Apply(e.store)
			applied++
			for _, out := range f.Outputs {
				if !e.store.Get(out).Number().Equal(before[out].Number()) ||
					e.store.Get(out).Text() != before[out].Text() {
					if !dirty[out] {
						dirty[out] = true
						progressed = true
					}
				}
			}
			// A formula already triggered stays triggered; drop its
			// inputs' dirtiness only implicitly by the progress check.
		}
		if !progressed {
			break
		}
	}

	e.logger.WithFields(logger.Fields{
		"edited":  len(changed),
		"applied": applied,
	}).Debug("Dependent cells recomputed")
	return applied
}

func readsAny(f Formula, dirty map[cells.Address]bool) bool {
	for _, in := range f.Inputs {
		if dirty[in] {
			return true
		}
	}
	return false
}

func snapshotOutputs(store *cells.Store, f Formula) map[cells.Address]cells.Value {
	out := make(map[cells.Address]cells.Value, len(f.Outputs))
	for _, addr := range f.Outputs {
		out[addr] = store.Get(addr)
	}
	return out
}
