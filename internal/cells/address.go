package cells

import (
	"fmt"
	"strings"
)

// Sheet identifies one of the audit workbook sheets
type Sheet string

const (
	SheetGEAC       Sheet = "geac"
	SheetTranselect Sheet = "transelect"
	SheetRecap      Sheet = "recap"
	SheetJour       Sheet = "jour"
	SheetSD         Sheet = "sd"
	SheetDepot      Sheet = "depot"
)

// AllSheets lists every known sheet in workbook order
func AllSheets() []Sheet {
	return []Sheet{SheetGEAC, SheetTranselect, SheetRecap, SheetJour, SheetSD, SheetDepot}
}

// ParseSheet converts a string to a known Sheet
func ParseSheet(s string) (Sheet, error) {
	switch Sheet(strings.ToLower(strings.TrimSpace(s))) {
	case SheetGEAC:
		return SheetGEAC, nil
	case SheetTranselect:
		return SheetTranselect, nil
	case SheetRecap:
		return SheetRecap, nil
	case SheetJour:
		return SheetJour, nil
	case SheetSD:
		return SheetSD, nil
	case SheetDepot:
		return SheetDepot, nil
	default:
		return "", fmt.Errorf("unknown sheet: %s", s)
	}
}

// Address identifies a single cell: a sheet plus an A1-style reference
type Address struct {
	Sheet Sheet  `json:"sheet"`
	Ref   string `json:"ref"`
}

// Addr is a shorthand constructor for Address
func Addr(sheet Sheet, ref string) Address {
	return Address{Sheet: sheet, Ref: ref}
}

// String returns the address in "sheet!Ref" form
func (a Address) String() string {
	return fmt.Sprintf("%s!%s", a.Sheet, a.Ref)
}

// ValidRef reports whether ref looks like an A1-style cell reference:
// one or more column letters followed by one or more row digits.
func ValidRef(ref string) bool {
	if ref == "" {
		return false
	}
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(ref) {
		return false
	}
	for j := i; j < len(ref); j++ {
		if ref[j] < '0' || ref[j] > '9' {
			return false
		}
	}
	return true
}
