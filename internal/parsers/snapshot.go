// Package parsers loads day snapshots: JSON files holding the typed
// cell values of every sheet, keyed by sheet then by cell address.
package parsers

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	apperrors "rj-nightaudit-service/pkg/errors"
	"rj-nightaudit-service/pkg/logger"
)

// SnapshotLoader reads day-snapshot files into a cell store
type SnapshotLoader struct {
	logger logger.Logger
}

// NewSnapshotLoader creates a snapshot loader
func NewSnapshotLoader() *SnapshotLoader {
	return &SnapshotLoader{
		logger: logger.GetGlobalLogger().WithComponent("snapshot"),
	}
}

// Load reads a snapshot file and fills the store with its values.
// Returns the number of cells loaded. Structural problems (unreadable
// file, unknown sheets, malformed addresses) fail the load; malformed
// numeric values do not, they are kept as text and read as zero.
func (l *SnapshotLoader) Load(path string, store *cells.Store) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, apperrors.FileError(apperrors.CodeFileNotFound, path, err)
		}
		return 0, apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, apperrors.ParseError(apperrors.CodeInvalidFormat, "", "", "", err)
	}

	loaded := 0
	for sheetName, fields := range raw {
		sheet, err := cells.ParseSheet(sheetName)
		if err != nil {
			return loaded, apperrors.ParseError(apperrors.CodeUnknownSheet, sheetName, "", "", err)
		}
		for ref, rawValue := range fields {
			if !cells.ValidRef(ref) {
				return loaded, apperrors.ParseError(apperrors.CodeInvalidAddress, sheetName, ref, "", nil)
			}
			value, err := l.parseValue(sheet, ref, rawValue)
			if err != nil {
				return loaded, err
			}
			if value.IsEmpty() {
				continue
			}
			store.Set(cells.Addr(sheet, ref), value)
			loaded++
		}
	}

	l.logger.WithFields(logger.Fields{
		"path":  path,
		"cells": loaded,
	}).Info("Day snapshot loaded")
	return loaded, nil
}

func (l *SnapshotLoader) parseValue(sheet cells.Sheet, ref string, raw json.RawMessage) (cells.Value, error) {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		d, err := decimal.NewFromString(number.String())
		if err != nil {
			return cells.Value{}, apperrors.ParseError(apperrors.CodeInvalidNumeric,
				string(sheet), ref, number.String(), err)
		}
		return cells.NumberValue(d), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return cells.Value{}, apperrors.ParseError(apperrors.CodeInvalidFormat,
			string(sheet), ref, string(raw), err)
	}

	value := cells.ParseValue(text)
	if !value.IsNumeric() && !value.IsEmpty() {
		l.logger.WithFields(logger.Fields{
			"cell":  fmt.Sprintf("%s!%s", sheet, ref),
			"value": text,
		}).Debug("Non-numeric cell value reads as zero")
	}
	return value, nil
}
