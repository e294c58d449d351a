package source

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/midscope/internal/model"
)

// ReadXLSX parses the first worksheet of an Office Open XML workbook. The
// first non-empty row is the header. Missing cells become "", numeric cells
// become float64 and boolean cells become bool.
func ReadXLSX(ctx context.Context, r io.Reader) ([]model.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, parseError(err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(fmt.Errorf("workbook has no worksheets"))
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseError(err)
	}

	var (
		header  []string
		records []model.RawRecord
	)
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if header == nil {
			header = trimHeader(row)
			continue
		}

		values := make([]any, len(row))
		for col, raw := range row {
			values[col] = cellValue(f, sheet, col+1, i+1, raw)
		}
		records = append(records, buildRecord(header, values, true, ""))

		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return records, nil
}

// cellValue types a raw cell value using the cell's declared type.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return ""
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return raw
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
		return raw
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t
		}
		return raw
	default:
		return raw
	}
}
