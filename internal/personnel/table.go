// Package personnel resolves the free-text names typed on SD lines
// against the SetD personnel table, which maps each person to their
// column in the SetD workbook.
package personnel

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "rj-nightaudit-service/pkg/errors"
)

// Table maps canonical personnel names to SetD columns. The table is
// injected at startup and never mutated at runtime; payroll changes
// ship as a new table file.
type Table map[string]string

// DefaultTable returns the built-in personnel table. Names keep the
// exact casing used in the SetD workbook headers.
func DefaultTable() Table {
	return Table{
		"Martine Breton": "C", "Petite Caisse": "E", "Conc. Banc.": "F", "Corr. Mois suivant": "G",
		"JEAN PHILIPPE": "H", "Tristan Tremblay": "I", "Mandy Le": "J", "Frederic Dupont": "K",
		"Florence Roy": "L", "Marie Carlesso": "M", "Patrick Caron": "N", "KARL LECLERC": "O",
		"Stéphane Latulippe": "P", "natalie rousseau": "Q", "DAVID GIORGI": "R", "YOUSSIF GANNI": "S",
		"MYRLENE BELIVEAU": "T", "EMMANUELLE LUSSIER": "U", "DANIELLE BELANGER": "V", "VALERIE GUERIN": "W",
		"Youri Georges": "X", "Alexandre Thifault": "Y", "Julie Dagenais": "Z", "PATRICK MARTEL": "AA",
		"Nelson Dacosta": "AB", "NAOMIE COLIN": "AC", "SOPHIE CHIARUCCI": "AD", "CHRISTOS MORENTZOS": "AE",
		"WOODS John": "AF", "MARCO Sabourin": "AG", "sachetti francois": "AH", "caouette Phillipe": "AI",
		"Caron Patrick": "AJ", "MIXOLOGUE": "AK", "GIOVANNI TOMANELLI": "AL", "Mathieu Guerit": "AN",
		"Marie Eve": "AO", "CARL Tourangeau": "AP", "MAUDE GAUTHIER": "AQ", "Stephane Bernachez": "AR",
		"Jonathan Samedy": "AS", "NICOLAS Bernatchez": "AT", "JULIEN BAZAGLE": "AU", "Panayota Lappas": "AV",
		"PLINIO TESTA Campos": "AW", "spiro Katsenis": "AX", "Isabelle Leclair": "AY", "ANAIS BESETTE": "AZ",
		"DRAGAN MILOVIC": "BA", "LIDA RAMASAN": "BB", "RAFFI OYAN": "BC", "CECIL PATRICIA": "BD",
		"QUENTIN BRUNET": "BE", "Sabrina Gagnon": "BF", "NOEMY ROY": "BG", "Melanie Guilemette": "BH",
		"Pierre-luc Lapointe": "BI", "Adelaide Rancourt": "BJ", "theriault emilie": "BK", "Sandra Tremblay": "BL",
		"DAVID DFAUCHER": "BM", "LINDA": "BN", "olivier lamothe": "BO", "gozzi alexandra": "BP",
		"Sarah Vesnaver": "BQ", "Forget Caroline": "BR", "ANDREW STEPHANE": "BS", "Tremblay Caroline": "BT",
		"jessica simon": "BU", "Francis Latour": "BV", "Constantino Difruschia": "BW", "Cuong Tran": "BX",
		"MATHIEU GUERIT": "BY", "Youri George": "BZ", "Arnaud Duguay": "CA", "JOSE LATUPLIPPE": "CB",
		"Mixologue 2.0": "CC", "MIXOLOGUE 3.0": "CE", "Dany Prouxl-Rivard": "CF", "JONNI LANGLOIS": "CG",
		"Laurence": "CH", "Morgane Muffait": "CI", "NICOLE": "CJ", "VICTOR GUEFAELLY": "CK",
		"Emma Heguy": "CL", "MANON RINGROSE": "CM", "lethicia heinmeyer": "CN", "Stephanie desjardins": "CO",
		"Elisabetta Lungarini": "CP", "France bergeron": "CR", "kalena Caticchio": "CS", "Nicolle Blanchard": "CT",
		"DRAGANA RADOVANOVIC": "CU", "elena kaltsoudas": "CV", "Jean-Seb. Pitre": "CW", "CHARLES R": "CX",
		"Pier Audrey Belanger": "CY", "GINO MOURIN": "CZ", "Sophie c": "DA", "Philippe Caouette": "DB",
		"Marly Innocent": "DC", "MOHAMED ELSABER": "DD", "SOULEYMANE CAMARA": "DE", "KHALIL MOUATARIF": "DF",
		"MANOLO C": "DG", "Laeticia Nader": "DH", "Sylvie Pierre": "DI", "Debbie Fleurant-Rioux": "DJ",
		"Debby Araujo": "DK", "Isabelle Caron": "DL", "Rose-Delande Mompremier": "DM", "ANGELO JOSEPH": "DN",
		"ANNIE": "DO", "JEAN-MICHEL CYR": "DP", "damal Kelly": "DQ", "JESSICA SIMON": "DR",
		"levesque MAUDE": "DS", "Josée Latulippe": "DT", "SARAH MADITUKA": "DU", "LEO SCARPA": "DV",
		"Schneidine": "DX", "thaneekan": "DY", "AYA BACHARI": "DZ", "SEDDIK ZAYEN": "EA",
		"VALERIE KRAY": "EB", "sarah": "EC", "OPPONG ZANETA": "ED", "guylaine": "EE",
		"pierre cindy": "EF", "Cristancho Natalia": "EH", "Durocher Stéphanie": "EI",
	}
}

// LoadTable reads a personnel table from a JSON file mapping names to
// column letters.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.FileError(apperrors.CodeFileNotFound, path, err)
		}
		return nil, apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryParse, apperrors.CodeInvalidFormat,
			fmt.Sprintf("personnel table %s is not a JSON name-to-column map", path))
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// Validate checks every table entry
func (t Table) Validate() error {
	if len(t) == 0 {
		return apperrors.ValidationError(apperrors.CodeMissingField, "personnel_table",
			"empty table", nil)
	}
	for name, column := range t {
		if name == "" || column == "" {
			return apperrors.ValidationError(apperrors.CodeMissingField, "personnel_table",
				fmt.Sprintf("%q -> %q", name, column), nil)
		}
		for i := 0; i < len(column); i++ {
			if column[i] < 'A' || column[i] > 'Z' {
				return apperrors.ValidationError(apperrors.CodeInvalidConfig, "personnel_table",
					fmt.Sprintf("column %q for %q", column, name), nil)
			}
		}
	}
	return nil
}
