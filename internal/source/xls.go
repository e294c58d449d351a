package source

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/extrame/xls"

	"github.com/Veraticus/midscope/internal/model"
)

// ReadXLS parses the first worksheet of a legacy BIFF workbook. The decoder
// yields text only; cells whose text is a number in canonical form become
// float64 so date serials and amounts read like their XLSX counterparts.
func ReadXLS(ctx context.Context, r io.ReadSeeker) (records []model.RawRecord, err error) {
	// The decoder panics on some malformed workbooks.
	defer func() {
		if p := recover(); p != nil {
			records, err = nil, parseError(fmt.Errorf("malformed workbook: %v", p))
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, parseError(err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, parseError(fmt.Errorf("workbook has no worksheets"))
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, parseError(fmt.Errorf("workbook has no worksheets"))
	}

	var header []string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cells, ok := xlsRow(sheet, i)
		if !ok || blank(cells) {
			continue
		}
		if header == nil {
			header = trimHeader(cells)
			continue
		}

		values := make([]any, len(cells))
		for c, cell := range cells {
			values[c] = xlsValue(cell)
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

// xlsRow returns the cells of row i from column 0. Rows absent from the
// sheet report false.
func xlsRow(sheet *xls.WorkSheet, i int) (cells []string, ok bool) {
	defer func() {
		if recover() != nil {
			cells, ok = nil, false
		}
	}()

	row := sheet.Row(i)
	if row == nil {
		return nil, false
	}
	last := row.LastCol()
	cells = make([]string, 0, last+1)
	for c := 0; c <= last; c++ {
		cells = append(cells, row.Col(c))
	}
	return cells, true
}

// xlsValue recovers the number behind a numeric cell. The decoder prints
// NUMBER and RK cells in strconv's shortest form, so text that survives a
// parse and reformat unchanged is taken as a number. "0042" and "1e5" stay
// text.
func xlsValue(cell string) any {
	n, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return cell
	}
	if strconv.FormatFloat(n, 'f', -1, 64) != cell {
		return cell
	}
	return n
}
