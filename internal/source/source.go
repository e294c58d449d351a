// Package source reads merchant transaction spreadsheets (CSV, XLSX and
// legacy XLS) into raw records keyed by their header row.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/midscope/internal/model"
)

var (
	// ErrUnsupportedFileType is returned for extensions other than Accepted.
	ErrUnsupportedFileType = errors.New("unsupported file type: please upload CSV/XLSX/XLS")
	// ErrParse wraps structural failures of the underlying file parser.
	ErrParse = errors.New("failed to parse file")
	// ErrUnknownEncoding is returned for CSV encodings other than utf-8 and windows-1252.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

// Accepted lists the file extensions the readers understand.
var Accepted = []string{".csv", ".xls", ".xlsx"}

// Format identifies a spreadsheet file format.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatCSV
	FormatXLSX
	FormatXLS
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	default:
		return "unknown"
	}
}

// CSV text encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// Options configures reading.
type Options struct {
	Logger *slog.Logger
	// Encoding applies to CSV input only. Empty means UTF-8.
	Encoding string
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Detect returns the format implied by the file extension of name.
// Matching is case-insensitive.
func Detect(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filepath.Base(name))
	}
}

// Open reads the spreadsheet at path. The extension is checked before the
// file is opened.
func Open(ctx context.Context, path string, opts Options) ([]model.RawRecord, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			opts.logger().Warn("Failed to close input file", "path", path, "error", closeErr)
		}
	}()

	return read(ctx, format, filepath.Base(path), f, opts)
}

// Read parses r as the format implied by name.
func Read(ctx context.Context, name string, r io.ReadSeeker, opts Options) ([]model.RawRecord, error) {
	format, err := Detect(name)
	if err != nil {
		return nil, err
	}
	return read(ctx, format, name, r, opts)
}

func read(ctx context.Context, format Format, name string, r io.ReadSeeker, opts Options) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		records []model.RawRecord
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = ReadCSV(ctx, r, opts.Encoding)
	case FormatXLSX:
		records, err = ReadXLSX(ctx, r)
	case FormatXLS:
		records, err = ReadXLS(ctx, r)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, err
	}

	opts.logger().Info("Parsed file",
		"file", name,
		"format", format.String(),
		"rows", len(records))

	return records, nil
}

// buildRecord pairs header names with cell values. Cells beyond the header
// are ignored; missing trailing cells take fill when fillMissing is set.
func buildRecord(header []string, values []any, fillMissing bool, fill any) model.RawRecord {
	rec := make(model.RawRecord, 0, len(header))
	for i, name := range header {
		if i < len(values) {
			rec = append(rec, model.RawField{Name: name, Value: values[i]})
			continue
		}
		if fillMissing {
			rec = append(rec, model.RawField{Name: name, Value: fill})
		}
	}
	return rec
}

// trimHeader drops trailing unnamed columns.
func trimHeader(header []string) []string {
	end := len(header)
	for end > 0 && strings.TrimSpace(header[end-1]) == "" {
		end--
	}
	return header[:end]
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseError(err error) error {
	return fmt.Errorf("%w: %w", ErrParse, err)
}
