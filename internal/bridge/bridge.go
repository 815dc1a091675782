// Package bridge moves computed values between sheets. Transfers only
// run on explicit request, write every mapped pair, then recompute the
// target sheet so its dependent cells settle.
package bridge

import (
	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/engine"
	"rj-nightaudit-service/pkg/logger"
)

// Mapping is one source-to-target cell pair
type Mapping struct {
	Source cells.Address `json:"source"`
	Target cells.Address `json:"target"`
}

// RecapToJour maps the Recap net column onto the Jour deposit columns.
func RecapToJour() []Mapping {
	pairs := []struct{ source, target string }{
		{"D14", "BU19"},
		{"D16", "BV19"},
		{"D17", "BW19"},
		{"D18", "BX19"},
		{"D19", "BY19"},
		{"D20", "BZ19"},
		{"D23", "CA19"},
	}
	mappings := make([]Mapping, 0, len(pairs))
	for _, p := range pairs {
		mappings = append(mappings, Mapping{
			Source: cells.Addr(cells.SheetRecap, p.source),
			Target: cells.Addr(cells.SheetJour, p.target),
		})
	}
	return mappings
}

// Bridge sends values across sheets through the recompute engine
type Bridge struct {
	engine *engine.Engine
	logger logger.Logger
}

// NewBridge creates a bridge over the given engine
func NewBridge(eng *engine.Engine) *Bridge {
	return &Bridge{
		engine: eng,
		logger: logger.GetGlobalLogger().WithComponent("bridge"),
	}
}

// Send copies every mapped source value to its target, then recomputes
// the target sheets. All pairs are written before any recompute runs,
// so the caller sees either the full transfer or none of it.
func (b *Bridge) Send(mappings []Mapping) int {
	store := b.engine.Store()

	targets := make(map[cells.Sheet]bool)
	for _, m := range mappings {
		store.SetNumber(m.Target, store.Number(m.Source))
		targets[m.Target.Sheet] = true
	}

	for sheet := range targets {
		b.engine.RecomputeSheet(sheet)
	}

	b.logger.WithFields(logger.Fields{
		"pairs":  len(mappings),
		"sheets": len(targets),
	}).Info("Values sent across sheets")
	return len(mappings)
}

// SendRecapToJour runs the standard Recap to Jour transfer
func (b *Bridge) SendRecapToJour() int {
	return b.Send(RecapToJour())
}
