// Package audit orchestrates a full night-audit cycle: load the day
// snapshot, recompute every sheet, run the balance checks and compile
// the result.
package audit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/engine"
	"rj-nightaudit-service/internal/parsers"
	"rj-nightaudit-service/internal/personnel"
	"rj-nightaudit-service/internal/sd"
	"rj-nightaudit-service/internal/sheets"
	"rj-nightaudit-service/internal/validator"
	apperrors "rj-nightaudit-service/pkg/errors"
	"rj-nightaudit-service/pkg/logger"
)

// Config holds the audit run settings
type Config struct {
	SnapshotPath string
	Validator    *validator.Config
	// Personnel overrides the built-in roster for SetD name matching
	Personnel personnel.Table
}

// Validate checks the audit configuration
func (c *Config) Validate() error {
	if c.SnapshotPath == "" {
		return apperrors.ValidationError(apperrors.CodeMissingField, "snapshot", "", nil)
	}
	if c.Validator != nil {
		if err := c.Validator.Validate(); err != nil {
			return apperrors.ValidationError(apperrors.CodeInvalidConfig, "validator", err.Error(), err)
		}
	}
	return nil
}

// Progress reports an orchestration stage to the caller
type Progress struct {
	Stage   string
	Message string
}

// ProgressCallback receives progress updates during a run
type ProgressCallback func(Progress)

// Result is the outcome of one audit cycle
type Result struct {
	CellsLoaded        int                      `json:"cells_loaded"`
	FormulasApplied    int                      `json:"formulas_applied"`
	Checks             []validator.BalanceCheck `json:"checks"`
	CrossCheckWarnings []string                 `json:"crosscheck_warnings,omitempty"`
	Summary            validator.Summary        `json:"summary"`
	SDEntries          int                      `json:"sd_entries,omitempty"`
	SetDVariances      []sd.Variance            `json:"setd_variances,omitempty"`
	UnmatchedNames     []string                 `json:"unmatched_names,omitempty"`
	MasterBalance      decimal.Decimal          `json:"master_balance"`
	FinalBalance       decimal.Decimal          `json:"final_balance"`
	Duration           time.Duration            `json:"duration"`
}

// Balanced reports whether the cycle produced no errors and no
// cross-check divergence.
func (r *Result) Balanced() bool {
	return r.Summary.Errors == 0 && len(r.CrossCheckWarnings) == 0
}

// Service runs audit cycles
type Service struct {
	config    *Config
	store     *cells.Store
	engine    *engine.Engine
	validator *validator.Validator
	loader    *parsers.SnapshotLoader
	sd        *sd.Manager
	progress  ProgressCallback
	logger    logger.Logger
}

// NewService creates an audit service with every sheet's formulas
// registered.
func NewService(config *Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store := cells.NewStore()
	registry := engine.NewRegistry()
	sheets.RegisterGEAC(registry)
	sheets.RegisterTranselect(registry)
	sheets.RegisterRecap(registry)
	eng := engine.New(store, registry)

	v, err := validator.NewValidator(store, config.Validator)
	if err != nil {
		return nil, apperrors.ValidationError(apperrors.CodeInvalidConfig, "validator", err.Error(), err)
	}

	resolver := personnel.NewResolver(config.Personnel)

	return &Service{
		config:    config,
		store:     store,
		engine:    eng,
		validator: v,
		loader:    parsers.NewSnapshotLoader(),
		sd:        sd.NewManager(resolver, nil),
		logger:    logger.GetGlobalLogger().WithComponent("audit"),
	}, nil
}

// SetProgressCallback installs a callback for run progress
func (s *Service) SetProgressCallback(cb ProgressCallback) {
	s.progress = cb
}

// Store returns the service's cell store
func (s *Service) Store() *cells.Store {
	return s.store
}

// Engine returns the service's recompute engine
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// Run executes one audit cycle
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	s.logger.WithField("snapshot", s.config.SnapshotPath).Info("Starting audit cycle")

	s.report("load", "Loading day snapshot")
	loaded, err := s.loader.Load(s.config.SnapshotPath, s.store)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryInternal, apperrors.CodeUnexpectedError, "audit cancelled")
	}

	s.report("recompute", "Recomputing every sheet")
	applied := s.engine.RecomputeAll()

	s.report("validate", "Running balance checks")
	checks := s.validator.CheckAll()
	warnings := s.validator.CrossCheckRecap()

	result := &Result{
		CellsLoaded:        loaded,
		FormulasApplied:    applied,
		Checks:             checks,
		CrossCheckWarnings: warnings,
		Summary:            validator.Summarize(checks),
		MasterBalance:      s.store.Number(sheets.MasterBalanceCell),
		FinalBalance:       s.store.Number(sheets.FinalBalanceCell),
	}

	if len(s.store.SheetRefs(cells.SheetSD)) > 0 {
		s.report("setd", "Preparing SetD variances")
		result.SDEntries = s.sd.LoadFromStore(s.store)
		result.SetDVariances, result.UnmatchedNames = s.sd.VariancesForSetD()
	}

	result.Duration = time.Since(start)

	s.logger.WithFields(logger.Fields{
		"cells":    result.CellsLoaded,
		"checks":   result.Summary.Total,
		"errors":   result.Summary.Errors,
		"warnings": result.Summary.Warnings,
		"duration": result.Duration,
	}).Info("Audit cycle complete")
	return result, nil
}

func (s *Service) report(stage, message string) {
	if s.progress != nil {
		s.progress(Progress{Stage: stage, Message: message})
	}
}
