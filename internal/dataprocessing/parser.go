// Package dataprocessing reads raw Schengen visa statistics workbooks and
// selects them into the pipeline's record shape. Everything past column
// selection (cleaning, derivation, aggregation) lives in internal/visa.
package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"visacli/internal/visa"
)

// Candidate sheet names tried before falling back to content scanning.
var preferredSheets = []string{"Data", "data", "Consulates", "Sheet1"}

// ParseWorkbook reads a yearly consulate statistics Excel file and selects
// the five required columns into SourceRows. Header names are matched
// loosely because the source spreadsheets are human-authored and vary in
// case and punctuation between years. A required column that cannot be
// located is a fatal *visa.SchemaError.
func ParseWorkbook(filePath string) ([]visa.SourceRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, sheetName, err := findDataSheet(f)
	if err != nil {
		return nil, err
	}

	slog.Info("found consulate data sheet",
		slog.String("file", filePath),
		slog.String("sheet", sheetName),
		slog.Int("total_rows", len(rows)))

	records, err := SelectRows(rows)
	if err != nil {
		return nil, err
	}

	slog.Info("workbook parsed",
		slog.String("file", filePath),
		slog.Int("records", len(records)))

	return records, nil
}

// SelectRows performs column selection over an in-memory sheet: locate the header
// row, map the five semantic columns, and select the data rows. Exposed
// separately from ParseWorkbook so the selection contract is testable
// without workbook fixtures.
func SelectRows(rows [][]string) ([]visa.SourceRow, error) {
	headerRow, columnMap := mapColumns(rows)
	if headerRow == -1 {
		return nil, fmt.Errorf("could not find header row in sheet")
	}
	for _, col := range visa.RequiredColumns {
		if _, ok := columnMap[col]; !ok {
			return nil, &visa.SchemaError{Column: col}
		}
	}

	var records []visa.SourceRow
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row, columnMap) {
			continue
		}
		// Grand-total and per-state subtotal rows are not consulate data.
		if isTotalsRow(row) {
			continue
		}

		records = append(records, visa.SourceRow{
			SchengenState:    cellString(row, columnMap, visa.ColSchengenState),
			ConsulateCountry: cellString(row, columnMap, visa.ColConsulateCountry),
			ConsulateCity:    cellString(row, columnMap, visa.ColConsulateCity),
			Issued:           cellCount(row, columnMap, visa.ColIssued),
			NotIssued:        cellCount(row, columnMap, visa.ColNotIssued),
		})
	}
	return records, nil
}

// findDataSheet locates the sheet holding consulate rows, preferring the
// usual names and falling back to scanning every sheet for the expected
// headers.
func findDataSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range preferredSheets {
		if rows, err := f.GetRows(name); err == nil && sheetLooksLikeData(rows) {
			return rows, name, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if sheetLooksLikeData(rows) {
			return rows, name, nil
		}
	}

	return nil, "", fmt.Errorf("could not find consulate data sheet in workbook")
}

// sheetLooksLikeData checks the first few rows for the characteristic
// Schengen statistics headers.
func sheetLooksLikeData(rows [][]string) bool {
	if len(rows) <= 1 {
		return false
	}
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for _, row := range rows[:limit] {
		text := normalizeHeader(strings.Join(row, " "))
		if strings.Contains(text, "schengen") && strings.Contains(text, "consulate") {
			return true
		}
	}
	return false
}

// mapColumns finds the header row and maps the five semantic columns by
// normalized header text. Returns -1 when no header row is present.
func mapColumns(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		text := normalizeHeader(strings.Join(row, " "))
		if !strings.Contains(text, "schengen") || !strings.Contains(text, "consulate") {
			continue
		}

		columnMap := make(map[string]int)
		for j, header := range row {
			h := normalizeHeader(header)
			if h == "" {
				continue
			}
			switch {
			case strings.Contains(h, "schengen") && strings.Contains(h, "state"):
				setColumn(columnMap, visa.ColSchengenState, j)
			case strings.Contains(h, "country"):
				setColumn(columnMap, visa.ColConsulateCountry, j)
			case strings.Contains(h, "consulate") || h == "city":
				setColumn(columnMap, visa.ColConsulateCity, j)
			case strings.Contains(h, "not issued"):
				setColumn(columnMap, visa.ColNotIssued, j)
			case strings.Contains(h, "issued") && !strings.Contains(h, "applied"):
				setColumn(columnMap, visa.ColIssued, j)
			}
		}
		return i, columnMap
	}
	return -1, nil
}

// setColumn keeps the first header matching a role; later columns with
// similar wording (share-of-total and airport-transit variants) must not
// override it.
func setColumn(columnMap map[string]int, role string, index int) {
	if _, ok := columnMap[role]; !ok {
		columnMap[role] = index
	}
}

// normalizeHeader lowercases a header and collapses punctuation and
// whitespace so "Not  issued", "not-issued" and "NOT ISSUED:" all match.
func normalizeHeader(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func isEmptyRow(row []string, columnMap map[string]int) bool {
	for _, idx := range columnMap {
		if idx < len(row) && strings.TrimSpace(row[idx]) != "" {
			return false
		}
	}
	return true
}

func isTotalsRow(row []string) bool {
	for _, cell := range row {
		c := strings.ToLower(strings.TrimSpace(cell))
		if c == "" {
			continue
		}
		return strings.Contains(c, "total") || strings.Contains(c, "grand")
	}
	return false
}

func cellString(row []string, columnMap map[string]int, role string) string {
	idx, ok := columnMap[role]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// cellCount parses a count cell. Blank cells return nil so the pipeline's
// zero-default policy can see them; unparseable and negative cells are
// treated the same way and logged, since the source sheets occasionally
// carry footnote markers in count columns and a visa count can never be
// below zero.
func cellCount(row []string, columnMap map[string]int, role string) *int64 {
	idx, ok := columnMap[role]
	if !ok || idx >= len(row) {
		return nil
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return nil
	}
	cleaned := strings.ReplaceAll(strings.ReplaceAll(raw, ",", ""), " ", "")
	value, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		// Some sheets store counts as floats ("80.0").
		fv, ferr := strconv.ParseFloat(cleaned, 64)
		if ferr != nil {
			slog.Debug("unparseable count cell treated as missing",
				slog.String("column", role),
				slog.String("value", raw))
			return nil
		}
		value = int64(fv)
	}
	if value < 0 {
		slog.Debug("negative count cell treated as missing",
			slog.String("column", role),
			slog.String("value", raw))
		return nil
	}
	return &value
}
