package nutrition

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported nutrition table format")

// LoadTable reads the nutrition spreadsheet at path. A missing file is not an
// error: the built-in table is returned instead.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		log.Warn("nutrition table path not configured, using built-in nutrition data")
		return BuiltinTable(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warnf("nutrition table %s not found, using built-in nutrition data", path)
			return BuiltinTable(), nil
		}
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		rows, err = readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read nutrition table %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read nutrition table %s: no header row", path)
	}

	table := FromRows(rows[0], rows[1:])
	log.Infof("loaded %d nutrition records from %s", table.Len(), path)
	return table, nil
}

// readWorkbook returns the rows of the first sheet.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}
