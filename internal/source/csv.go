package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Veraticus/midscope/internal/model"
)

const utf8BOM = "\ufeff"

// ReadCSV parses comma-separated text with a header row. Rows shorter than
// the header omit the missing fields; blank lines are skipped.
func ReadCSV(ctx context.Context, r io.Reader, encoding string) ([]model.RawRecord, error) {
	decoded, err := decode(r, encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bufio.NewReader(decoded))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		header  []string
		records []model.RawRecord
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}

		if header == nil {
			if blank(row) {
				continue
			}
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
			header = trimHeader(row)
			continue
		}
		if blank(row) && len(row) == 1 {
			continue
		}

		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = cell
		}
		records = append(records, buildRecord(header, values, false, nil))

		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return records, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingWindows1252, "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
	}
}
