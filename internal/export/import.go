package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one parsed line of an imported file. Line is the 1-based line
// or row number in the source file, used in error reports.
type Record struct {
	English     string
	Translation string
	Category    string
	Line        int
}

// Result summarizes an import run.
type Result struct {
	TotalProcessed    int      `json:"total_processed"`
	Created           int      `json:"created"`
	Skipped           int      `json:"skipped"`
	CategoriesCreated int      `json:"categories_created"`
	Errors            []string `json:"errors"`
}

// ReadCSV parses word records from CSV. A leading header row is skipped;
// blank rows are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []Record
	line := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		line++
		if rec, ok := toRecord(fields, line); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// ReadXLSX parses word records from the first sheet of an Excel workbook.
func ReadXLSX(r io.Reader) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var records []Record
	for i, fields := range rows {
		if rec, ok := toRecord(fields, i+1); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// toRecord maps a raw row to a Record. Header and blank rows are dropped.
func toRecord(fields []string, line int) (Record, bool) {
	rec := Record{Line: line}
	if len(fields) > 0 {
		rec.English = strings.TrimSpace(fields[0])
	}
	if len(fields) > 1 {
		rec.Translation = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		rec.Category = strings.TrimSpace(fields[2])
	}

	if rec.English == "" && rec.Translation == "" {
		return Record{}, false
	}
	if line == 1 && strings.EqualFold(rec.English, "english") {
		return Record{}, false
	}
	return rec, true
}
