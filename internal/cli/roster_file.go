package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"vila-timesheet/internal/domain"
	apperrors "vila-timesheet/internal/errors"
)

// maxRosterFileRows bounds how many rows are read from a legacy .xls file
const maxRosterFileRows = 10000

// ReadRosterFile reads employees from the first sheet of an .xlsx, .xls or
// .csv file. The first row must name a Name and a PIN column.
func ReadRosterFile(path string) ([]domain.RosterEntry, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewInvalidInputError("file", path, "worksheet is empty")
	}

	nameIdx, pinIdx := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "name":
			nameIdx = i
		case "pin":
			pinIdx = i
		}
	}
	if nameIdx < 0 || pinIdx < 0 {
		return nil, apperrors.NewInvalidInputError("file", path, "header row must contain Name and PIN columns")
	}

	var entries []domain.RosterEntry
	for _, row := range rows[1:] {
		name, pin := cellValue(row, nameIdx), cellValue(row, pinIdx)
		if name == "" && pin == "" {
			continue
		}
		entries = append(entries, domain.NewRosterEntry(name, pin))
	}
	return entries, nil
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		workbook, err := xls.Open(path, "utf-8")
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		if workbook.NumSheets() == 0 {
			return nil, apperrors.NewInvalidInputError("file", path, "no worksheet found")
		}
		return workbook.ReadAllCells(maxRosterFileRows), nil

	case ".xlsx", ".xlsm":
		file, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, apperrors.NewInvalidInputError("file", path, "no worksheet found")
		}
		return file.GetRows(sheetName)

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		return reader.ReadAll()
	}
	return nil, apperrors.NewInvalidInputError("file", path, "expected an .xlsx, .xls or .csv file")
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
