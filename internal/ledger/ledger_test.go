package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDay   int
		wantMonth time.Month
		wantOK    bool
	}{
		{name: "accented month", input: "23 DÉCEMBRE", wantDay: 23, wantMonth: time.December, wantOK: true},
		{name: "plain month", input: "23 DECEMBRE", wantDay: 23, wantMonth: time.December, wantOK: true},
		{name: "lowercase", input: "5 aout", wantDay: 5, wantMonth: time.August, wantOK: true},
		{name: "accented august", input: "5 AOÛT", wantDay: 5, wantMonth: time.August, wantOK: true},
		{name: "february no accent", input: "14 FEVRIER", wantDay: 14, wantMonth: time.February, wantOK: true},
		{name: "leading spaces", input: "  1 MAI ", wantDay: 1, wantMonth: time.May, wantOK: true},
		{name: "missing month", input: "23", wantOK: false},
		{name: "unknown month", input: "23 SMARCH", wantOK: false},
		{name: "day out of range", input: "32 MAI", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, month, ok := ParseDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if day != tt.wantDay || month != tt.wantMonth {
				t.Errorf("ParseDate(%q) = %d %v, want %d %v", tt.input, day, month, tt.wantDay, tt.wantMonth)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	d := time.Date(2026, time.December, 23, 0, 0, 0, 0, time.UTC)
	if got := DateString(d); got != "23 DÉCEMBRE" {
		t.Errorf("DateString() = %q, want %q", got, "23 DÉCEMBRE")
	}
}

func TestLedger_AddEntryNeverEvicts(t *testing.T) {
	l := NewLedger()

	// Nine distinct dates: adding alone must keep all of them.
	for day := 1; day <= 9; day++ {
		l.AddEntry(AccountClient6, decimal.NewFromInt(100), fmt.Sprintf("%d MAI", day))
	}

	if got := l.CountDistinctDates(AccountClient6); got != 9 {
		t.Errorf("distinct dates after adds = %d, want 9", got)
	}
	if got := len(l.Entries(AccountClient6)); got != 9 {
		t.Errorf("entries after adds = %d, want 9", got)
	}
}

func TestLedger_RotateEvictsOldestDates(t *testing.T) {
	l := NewLedger()

	// Eight distinct dates; the oldest carries two entries.
	l.AddEntry(AccountClient6, decimal.NewFromInt(10), "1 MAI")
	l.AddEntry(AccountClient6, decimal.NewFromInt(20), "1 MAI")
	for day := 2; day <= 8; day++ {
		l.AddEntry(AccountClient6, decimal.NewFromInt(100), fmt.Sprintf("%d MAI", day))
	}

	removed := l.Rotate(AccountClient6)

	if removed != 2 {
		t.Errorf("Rotate removed %d entries, want 2", removed)
	}
	if got := l.CountDistinctDates(AccountClient6); got != MaxDistinctDates {
		t.Errorf("distinct dates after rotate = %d, want %d", got, MaxDistinctDates)
	}
	for _, e := range l.Entries(AccountClient6) {
		if e.Date == "1 MAI" {
			t.Error("oldest date still present after rotation")
		}
	}
}

func TestLedger_RotateUnderCapIsNoop(t *testing.T) {
	l := NewLedger()
	for day := 1; day <= 7; day++ {
		l.AddEntry(AccountClient8, decimal.NewFromInt(50), fmt.Sprintf("%d JUIN", day))
	}

	if removed := l.Rotate(AccountClient8); removed != 0 {
		t.Errorf("Rotate removed %d entries under the cap, want 0", removed)
	}
	if got := len(l.Entries(AccountClient8)); got != 7 {
		t.Errorf("entries after no-op rotate = %d, want 7", got)
	}
}

func TestLedger_RotateOrdersAcrossMonths(t *testing.T) {
	l := NewLedger()

	// 30 AVRIL is older than any MAI date despite sorting last as a string.
	l.AddEntry(AccountClient6, decimal.NewFromInt(1), "30 AVRIL")
	for day := 1; day <= 7; day++ {
		l.AddEntry(AccountClient6, decimal.NewFromInt(1), fmt.Sprintf("%d MAI", day))
	}

	l.Rotate(AccountClient6)

	for _, e := range l.Entries(AccountClient6) {
		if e.Date == "30 AVRIL" {
			t.Error("April date should have been evicted before the May dates")
		}
	}
}

func TestLedger_ChooseAccount(t *testing.T) {
	tests := []struct {
		name        string
		client6Days int
		client8Days int
		want        Account
	}{
		{name: "both empty ties to client6", client6Days: 0, client8Days: 0, want: AccountClient6},
		{name: "equal load ties to client6", client6Days: 3, client8Days: 3, want: AccountClient6},
		{name: "client8 has fewer days", client6Days: 5, client8Days: 2, want: AccountClient8},
		{name: "client6 has fewer days", client6Days: 1, client8Days: 4, want: AccountClient6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger()
			for day := 1; day <= tt.client6Days; day++ {
				l.AddEntry(AccountClient6, decimal.NewFromInt(1), fmt.Sprintf("%d MAI", day))
			}
			for day := 1; day <= tt.client8Days; day++ {
				l.AddEntry(AccountClient8, decimal.NewFromInt(1), fmt.Sprintf("%d MAI", day))
			}
			if got := l.ChooseAccount(); got != tt.want {
				t.Errorf("ChooseAccount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLedger_RemoveEntry(t *testing.T) {
	l := NewLedger()
	entry := l.AddEntry(AccountClient6, decimal.NewFromInt(75), "3 MARS")

	if !l.RemoveEntry(AccountClient6, entry.ID) {
		t.Fatal("RemoveEntry returned false for an existing entry")
	}
	if l.RemoveEntry(AccountClient6, entry.ID) {
		t.Error("RemoveEntry returned true for a removed entry")
	}
	if got := len(l.Entries(AccountClient6)); got != 0 {
		t.Errorf("entries after removal = %d, want 0", got)
	}
}

func TestLedger_Totals(t *testing.T) {
	l := NewLedger()
	l.AddEntry(AccountClient6, decimal.NewFromFloat(100.25), "1 MAI")
	l.AddEntry(AccountClient6, decimal.NewFromFloat(49.75), "2 MAI")
	l.AddEntry(AccountClient8, decimal.NewFromInt(200), "1 MAI")

	if got := l.Total(AccountClient6); !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Total(client6) = %s, want 150", got)
	}
	if got := l.GeneralTotal(); !got.Equal(decimal.NewFromInt(350)) {
		t.Errorf("GeneralTotal() = %s, want 350", got)
	}
}

func TestLedger_EntriesByDate(t *testing.T) {
	l := NewLedger()
	l.AddEntry(AccountClient6, decimal.NewFromInt(10), "2 MAI")
	l.AddEntry(AccountClient6, decimal.NewFromInt(20), "1 MAI")
	l.AddEntry(AccountClient6, decimal.NewFromInt(30), "2 MAI")

	groups := l.EntriesByDate(AccountClient6)
	if len(groups) != 2 {
		t.Fatalf("got %d date groups, want 2", len(groups))
	}
	if groups[0].Date != "1 MAI" {
		t.Errorf("first group date = %q, want oldest first", groups[0].Date)
	}
	if !groups[1].Subtotal.Equal(decimal.NewFromInt(40)) {
		t.Errorf("2 MAI subtotal = %s, want 40", groups[1].Subtotal)
	}
}
