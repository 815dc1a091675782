package cells

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseSheet(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Sheet
		wantErr bool
	}{
		{name: "geac lowercase", input: "geac", want: SheetGEAC},
		{name: "transelect mixed case", input: "Transelect", want: SheetTranselect},
		{name: "recap with spaces", input: " recap ", want: SheetRecap},
		{name: "jour", input: "jour", want: SheetJour},
		{name: "sd", input: "sd", want: SheetSD},
		{name: "depot", input: "depot", want: SheetDepot},
		{name: "unknown sheet", input: "weather", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSheet(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSheet(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSheet(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSheet(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"B6", true},
		{"X20", true},
		{"AA14", true},
		{"BU19", true},
		{"", false},
		{"6B", false},
		{"B", false},
		{"14", false},
		{"b6", false},
		{"B6x", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := ValidRef(tt.ref); got != tt.want {
				t.Errorf("ValidRef(%q) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestAddress_String(t *testing.T) {
	addr := Addr(SheetRecap, "D14")
	if got := addr.String(); got != "recap!D14" {
		t.Errorf("Address.String() = %q, want %q", got, "recap!D14")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantNumeric bool
		wantNumber  string
	}{
		{name: "plain integer", input: "42", wantNumeric: true, wantNumber: "42"},
		{name: "decimal point", input: "12.34", wantNumeric: true, wantNumber: "12.34"},
		{name: "comma separator", input: "12,34", wantNumeric: true, wantNumber: "12.34"},
		{name: "negative", input: "-7.50", wantNumeric: true, wantNumber: "-7.5"},
		{name: "internal space", input: "1 234.56", wantNumeric: true, wantNumber: "1234.56"},
		{name: "empty reads as zero", input: "", wantNumeric: false, wantNumber: "0"},
		{name: "whitespace only", input: "   ", wantNumeric: false, wantNumber: "0"},
		{name: "text reads as zero", input: "abc", wantNumeric: false, wantNumber: "0"},
		{name: "date text", input: "23 DECEMBRE", wantNumeric: false, wantNumber: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseValue(tt.input)
			if v.IsNumeric() != tt.wantNumeric {
				t.Errorf("ParseValue(%q).IsNumeric() = %v, want %v", tt.input, v.IsNumeric(), tt.wantNumeric)
			}
			want, _ := decimal.NewFromString(tt.wantNumber)
			if !v.Number().Equal(want) {
				t.Errorf("ParseValue(%q).Number() = %s, want %s", tt.input, v.Number(), want)
			}
		})
	}
}

func TestStore_MissingCellReadsZero(t *testing.T) {
	store := NewStore()

	got := store.Number(Addr(SheetGEAC, "B6"))
	if !got.IsZero() {
		t.Errorf("missing cell Number() = %s, want 0", got)
	}
	if store.Has(Addr(SheetGEAC, "B6")) {
		t.Error("Has() on missing cell = true, want false")
	}
}

func TestStore_SetAndGet(t *testing.T) {
	store := NewStore()
	addr := Addr(SheetTranselect, "B9")

	store.SetNumber(addr, decimal.NewFromFloat(125.50))

	if got := store.Number(addr); !got.Equal(decimal.NewFromFloat(125.50)) {
		t.Errorf("Number() = %s, want 125.5", got)
	}
	if !store.Has(addr) {
		t.Error("Has() = false after Set")
	}

	store.Delete(addr)
	if store.Has(addr) {
		t.Error("Has() = true after Delete")
	}
}

func TestStore_SetEmptyClearsCell(t *testing.T) {
	store := NewStore()
	addr := Addr(SheetSD, "A1")

	store.SetText(addr, "hello")
	store.Set(addr, Value{})

	if store.Has(addr) {
		t.Error("setting an empty value should clear the cell")
	}
}

func TestStore_SheetValues(t *testing.T) {
	store := NewStore()
	store.SetNumber(Addr(SheetRecap, "B6"), decimal.NewFromInt(10))
	store.SetNumber(Addr(SheetRecap, "C6"), decimal.NewFromInt(20))
	store.SetNumber(Addr(SheetGEAC, "B6"), decimal.NewFromInt(99))

	values := store.SheetValues(SheetRecap)
	if len(values) != 2 {
		t.Fatalf("SheetValues(recap) returned %d cells, want 2", len(values))
	}
	if !values["B6"].Number().Equal(decimal.NewFromInt(10)) {
		t.Errorf("recap B6 = %s, want 10", values["B6"].Number())
	}

	refs := store.SheetRefs(SheetRecap)
	if len(refs) != 2 || refs[0] != "B6" || refs[1] != "C6" {
		t.Errorf("SheetRefs(recap) = %v, want [B6 C6]", refs)
	}
}
