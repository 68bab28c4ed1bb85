package nutrition

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"food-recognizer/domain"
)

// Column names of the USDA SR "ABBREV" spreadsheet. Values are per 100 g.
const (
	ColumnDescription  = "Shrt_Desc"
	ColumnEnergy       = "Energ_Kcal"
	ColumnProtein      = "Protein_(g)"
	ColumnCarbohydrate = "Carbohydrt_(g)"
	ColumnFat          = "Lipid_Tot_(g)"

	// WeightBasis is the serving size every table value is expressed per.
	WeightBasis = 100.0
)

var nutrientColumns = []string{ColumnEnergy, ColumnProtein, ColumnCarbohydrate, ColumnFat}

type (
	Record struct {
		Description   string
		WeightBasis   float64
		Calories      float64
		Protein       float64
		Carbohydrates float64
		Fat           float64
	}

	// Table is loaded once and never mutated afterwards.
	Table struct {
		columns map[string]struct{}
		records []Record
	}
)

// NewTable builds a well-formed table holding the given records in order.
func NewTable(records ...Record) *Table {
	t := &Table{
		columns: map[string]struct{}{ColumnDescription: {}},
		records: make([]Record, 0, len(records)),
	}
	for _, c := range nutrientColumns {
		t.columns[c] = struct{}{}
	}
	for _, r := range records {
		if r.WeightBasis == 0 {
			r.WeightBasis = WeightBasis
		}
		t.records = append(t.records, r)
	}
	return t
}

// FromRows maps a header row onto the spreadsheet columns. Unknown columns are
// ignored; absent or unparseable numeric cells become NaN.
func FromRows(header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	columns := make(map[string]struct{}, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := index[name]; seen || name == "" {
			continue
		}
		index[name] = i
		columns[name] = struct{}{}
	}

	cell := func(row []string, column string) (string, bool) {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}
	number := func(row []string, column string) float64 {
		raw, ok := cell(row, column)
		if !ok || raw == "" {
			return math.NaN()
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}

	t := &Table{columns: columns, records: make([]Record, 0, len(rows))}
	for _, row := range rows {
		desc, _ := cell(row, ColumnDescription)
		t.records = append(t.records, Record{
			Description:   desc,
			WeightBasis:   WeightBasis,
			Calories:      number(row, ColumnEnergy),
			Protein:       number(row, ColumnProtein),
			Carbohydrates: number(row, ColumnCarbohydrate),
			Fat:           number(row, ColumnFat),
		})
	}
	return t
}

// BuiltinTable is the stand-in dataset used when no spreadsheet is available.
// Its rows are keyed by category label instead of the USDA short description,
// so every estimate against it degrades to FallbackNutrition.
func BuiltinTable() *Table {
	header := []string{"label", "weight", "calories", "protein", "carbohydrates", "fats", "fiber", "sugars", "sodium"}
	rows := [][]string{
		{"pizza", "100.0", "266.0", "11.0", "33.0", "10.0", "2.0", "3.0", "600.0"},
		{"hamburger", "100.0", "295.0", "17.0", "29.0", "14.0", "1.0", "5.0", "480.0"},
		{"apple_pie", "100.0", "237.0", "2.0", "34.0", "11.0", "2.0", "15.0", "320.0"},
	}
	return FromRows(header, rows)
}

func (t *Table) Len() int {
	return len(t.records)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Descriptions returns the unique, non-empty, lowercased descriptions in
// table order.
func (t *Table) Descriptions() ([]string, error) {
	if !t.HasColumn(ColumnDescription) {
		return nil, fmt.Errorf("%w: missing column %q", domain.ErrNutritionTableMalformed, ColumnDescription)
	}

	seen := make(map[string]struct{}, len(t.records))
	out := make([]string, 0, len(t.records))
	for _, r := range t.records {
		d := strings.ToLower(r.Description)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// Find returns the first record whose lowercased description equals
// description.
func (t *Table) Find(description string) (Record, bool) {
	for _, r := range t.records {
		if r.Description != "" && strings.ToLower(r.Description) == description {
			return r, true
		}
	}
	return Record{}, false
}

func (t *Table) missingNutrientColumns() []string {
	var missing []string
	for _, c := range nutrientColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
