package parsers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"rj-nightaudit-service/internal/cells"
	apperrors "rj-nightaudit-service/pkg/errors"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "day.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSnapshotLoader_Load(t *testing.T) {
	path := writeSnapshot(t, `{
		"geac": {"B6": 100, "B12": 100.50},
		"recap": {"B6": 25, "C6": "12,75"},
		"depot": {"A1": "23 DECEMBRE"}
	}`)

	store := cells.NewStore()
	loaded, err := NewSnapshotLoader().Load(path, store)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != 5 {
		t.Errorf("loaded %d cells, want 5", loaded)
	}

	if got := store.Number(cells.Addr(cells.SheetGEAC, "B12")); !got.Equal(decimal.NewFromFloat(100.50)) {
		t.Errorf("geac!B12 = %s, want 100.5", got)
	}
	// Comma decimal separator
	if got := store.Number(cells.Addr(cells.SheetRecap, "C6")); !got.Equal(decimal.NewFromFloat(12.75)) {
		t.Errorf("recap!C6 = %s, want 12.75", got)
	}
	// Text cells keep their text and read as numeric zero
	date := store.Get(cells.Addr(cells.SheetDepot, "A1"))
	if date.Text() != "23 DECEMBRE" || !date.Number().IsZero() {
		t.Errorf("depot!A1 = %q / %s, want text reading zero", date.Text(), date.Number())
	}
}

func TestSnapshotLoader_EmptyValuesSkipped(t *testing.T) {
	path := writeSnapshot(t, `{"geac": {"B6": "", "B7": "  "}}`)

	store := cells.NewStore()
	loaded, err := NewSnapshotLoader().Load(path, store)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != 0 {
		t.Errorf("loaded %d cells, want 0 for empty values", loaded)
	}
}

func TestSnapshotLoader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "unknown sheet",
			content:  `{"weather": {"A1": 1}}`,
			wantCode: apperrors.CodeUnknownSheet,
		},
		{
			name:     "bad address",
			content:  `{"geac": {"6B": 1}}`,
			wantCode: apperrors.CodeInvalidAddress,
		},
		{
			name:     "not an object",
			content:  `[1, 2, 3]`,
			wantCode: apperrors.CodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSnapshot(t, tt.content)
			_, err := NewSnapshotLoader().Load(path, cells.NewStore())
			if err == nil {
				t.Fatal("expected an error")
			}
			auditErr, ok := apperrors.AsAuditError(err)
			if !ok {
				t.Fatalf("error is not an AuditError: %v", err)
			}
			if auditErr.Code != tt.wantCode {
				t.Errorf("code = %v, want %v", auditErr.Code, tt.wantCode)
			}
		})
	}
}

func TestSnapshotLoader_MissingFile(t *testing.T) {
	_, err := NewSnapshotLoader().Load(filepath.Join(t.TempDir(), "absent.json"), cells.NewStore())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	auditErr, _ := apperrors.AsAuditError(err)
	if auditErr == nil || auditErr.Code != apperrors.CodeFileNotFound {
		t.Errorf("error = %v, want file_not_found", err)
	}
}
