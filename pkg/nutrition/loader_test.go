package nutrition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var abbrevHeader = []string{"NDB_No", ColumnDescription, "Water_(g)", ColumnEnergy, ColumnProtein, ColumnFat, ColumnCarbohydrate}

func TestLoadTable_MissingFileUsesBuiltin(t *testing.T) {
	table, err := LoadTable(filepath.Join(t.TempDir(), "ABBREV.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.False(t, table.HasColumn(ColumnDescription))
}

func TestLoadTable_EmptyPathUsesBuiltin(t *testing.T) {
	table, err := LoadTable("")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestLoadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbrev.csv")
	content := "NDB_No,Shrt_Desc,Water_(g),Energ_Kcal,Protein_(g),Lipid_Tot_(g),Carbohydrt_(g)\n" +
		"21299,\"PIZZA HUT 12\"\" CHEESE PIZZA,HAND-TOSSED CRUST\",45.5,266,11,10,33\n" +
		"21089,\"HAMBURGER,SINGLE,REG PATTY,PLN\",44.3,295,17,14,29\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	n, err := NewCalculator(table).Lookup("hamburger", 200)
	require.NoError(t, err)
	assert.Equal(t, 590.0, n.Calories)
	assert.Equal(t, 34.0, n.Protein)
	assert.Equal(t, 58.0, n.Carbs)
	assert.Equal(t, 28.0, n.Fat)
}

func TestLoadTable_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ABBREV.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &abbrevHeader))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"21299", "PIZZA,CHEESE TOPPING,REG CRUST", 45.5, 266, 11, 10, 33}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"09003", "APPLES,RAW,WITH SKIN", 85.6, 52, 0.26, 0.17, 13.81}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := LoadTable(path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	n, err := NewCalculator(table).Lookup("pizza", 100)
	require.NoError(t, err)
	assert.Equal(t, 266.0, n.Calories)
	assert.Equal(t, 33.0, n.Carbs)
}

func TestLoadTable_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbrev.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := LoadTable(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
