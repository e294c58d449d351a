package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/source"
)

// Configuration keys.
const (
	KeyLogLevel    = "logging.level"
	KeyLogFormat   = "logging.format"
	KeyTimezone    = "timezone"
	KeyCSVEncoding = "csv.encoding"
	KeyReportTop   = "report.top"
	KeyReportRows  = "report.rows"
	KeyExportDir   = "export.dir"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Location    *time.Location
	LogFormat   string
	CSVEncoding string
	ExportDir   string
	LogLevel    slog.Level
	TopN        int
	TableRows   int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyTimezone, "")
	v.SetDefault(KeyCSVEncoding, source.EncodingUTF8)
	v.SetDefault(KeyReportTop, analytics.DefaultTopN)
	v.SetDefault(KeyReportRows, analytics.MainTableLimit)
	v.SetDefault(KeyExportDir, ".")
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	level, err := common.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Settings{}, err
	}

	format := strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat)))
	switch format {
	case "", "console", "text":
		format = "console"
	case "json":
	default:
		return Settings{}, fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, format)
	}

	loc := time.Local
	if name := strings.TrimSpace(v.GetString(KeyTimezone)); name != "" {
		loc, err = time.LoadLocation(name)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: timezone %q: %w", common.ErrInvalidConfig, name, err)
		}
	}

	encoding := strings.ToLower(strings.TrimSpace(v.GetString(KeyCSVEncoding)))
	switch encoding {
	case "", "utf8", source.EncodingUTF8:
		encoding = source.EncodingUTF8
	case "cp1252", source.EncodingWindows1252:
		encoding = source.EncodingWindows1252
	default:
		return Settings{}, fmt.Errorf("%w: csv encoding %q", common.ErrInvalidConfig, encoding)
	}

	top := v.GetInt(KeyReportTop)
	if top <= 0 {
		return Settings{}, fmt.Errorf("%w: report.top must be positive", common.ErrInvalidConfig)
	}
	rows := v.GetInt(KeyReportRows)
	if rows <= 0 {
		return Settings{}, fmt.Errorf("%w: report.rows must be positive", common.ErrInvalidConfig)
	}

	return Settings{
		Location:    loc,
		LogLevel:    level,
		LogFormat:   format,
		CSVEncoding: encoding,
		TopN:        top,
		TableRows:   rows,
		ExportDir:   ExpandPath(v.GetString(KeyExportDir)),
	}, nil
}

// SourceOptions returns the reader options implied by s.
func (s Settings) SourceOptions(logger *slog.Logger) source.Options {
	return source.Options{Logger: logger, Encoding: s.CSVEncoding}
}

// ReportOptions returns the table sizes implied by s.
func (s Settings) ReportOptions() analytics.Options {
	return analytics.Options{TopN: s.TopN, TableRows: s.TableRows}
}
