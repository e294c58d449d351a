package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/config"
	"github.com/Veraticus/midscope/internal/normalize"
	"github.com/Veraticus/midscope/internal/session"
)

// newLoader builds a session loader from the resolved settings.
func newLoader(logger *slog.Logger) *session.Loader {
	return session.NewLoader(
		session.WithNormalizer(normalize.New(
			normalize.WithLocation(settings.Location),
			normalize.WithLogger(logger),
		)),
		session.WithSourceOptions(settings.SourceOptions(logger)),
		session.WithLogger(logger),
	)
}

// loadSession reads path into a session. A file that cannot be read is
// reported once, as a user error.
func loadSession(ctx context.Context, path string) (session.Session, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return session.Empty(), common.ErrNoFile
	}

	s := newLoader(slog.Default()).LoadFile(ctx, config.ExpandPath(path))
	if s.Err != nil {
		return s, common.NewUserError(fmt.Sprintf("Could not read %s", s.FileName), s.Err)
	}
	return s, nil
}

// requireMID returns the trimmed --mid flag.
func requireMID(cmd *cobra.Command) (string, error) {
	mid, err := cmd.Flags().GetString("mid")
	if err != nil {
		return "", err
	}
	mid = strings.TrimSpace(mid)
	if mid == "" {
		return "", common.NewUserError("Pass the merchant to inspect with --mid", common.ErrMIDRequired)
	}
	return mid, nil
}

// requireRows fails when the file held no row with a MID.
func requireRows(s session.Session) error {
	if s.NormalizedCount() == 0 {
		columns := normalize.DefaultSchema().Synonyms(normalize.MID)
		return common.NewUserError(
			fmt.Sprintf("%s has %d rows but none with a MID (looked for columns %s)",
				s.FileName, s.RawCount, strings.Join(columns, ", ")),
			common.ErrEmptyDataset)
	}
	return nil
}

// reportOptions applies the --top and --rows overrides to the configured
// table sizes.
func reportOptions(cmd *cobra.Command) (analytics.Options, error) {
	opts := settings.ReportOptions()
	for name, dst := range map[string]*int{"top": &opts.TopN, "rows": &opts.TableRows} {
		if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
			continue
		}
		n, err := cmd.Flags().GetInt(name)
		if err != nil {
			return opts, err
		}
		if n <= 0 {
			return opts, common.NewUserError(fmt.Sprintf("--%s must be positive", name), common.ErrInvalidConfig)
		}
		*dst = n
	}
	return opts, nil
}
