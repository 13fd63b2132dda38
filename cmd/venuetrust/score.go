package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/venuetrust/internal/fixture"
	"github.com/dshills/venuetrust/internal/logging"
	"github.com/dshills/venuetrust/internal/publish"
	"github.com/dshills/venuetrust/internal/redact"
	"github.com/dshills/venuetrust/internal/render"
	"github.com/dshills/venuetrust/internal/schema"
	"github.com/dshills/venuetrust/internal/snapshot"
	"github.com/dshills/venuetrust/internal/store"
	"github.com/dshills/venuetrust/internal/trust"
)

// snapshotLoader is the part of store.Repository the score command needs.
type snapshotLoader interface {
	LoadSnapshot(ctx context.Context, venueID string) (*trust.Snapshot, error)
}

type scoreFlags struct {
	builtin     string
	venue       string
	now         string
	format      string
	out         string
	strict      bool
	redact      bool
	failBelow   string
	publish     string
	verbose     bool
	logLevel    string
	databaseURL string
	s3Region    string

	// Collaborators; resolved from the flags above when nil.
	store     snapshotLoader
	publisher publish.Publisher
	clock     trust.Clock
	stdout    io.Writer
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score [snapshot-file]",
		Short: "Score one venue snapshot and produce a trust report",
		Long: `Score one venue snapshot and produce a trust report.

The snapshot comes from exactly one of: a JSON or YAML file ("-" reads
stdin), a built-in fixture (--builtin), or the venue database (--venue).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"redact":       "redact",
				"publish":      "publish",
				"database_url": "database-url",
				"s3_region":    "s3-region",
			})
			if err != nil {
				return exitError(3, "failed to load config: %v", err)
			}
			f.redact = cfg.Redact
			f.publish = cfg.Publish
			f.databaseURL = cfg.DatabaseURL
			f.s3Region = cfg.S3Region
			f.logLevel = cfg.LogLevel

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runScore(cmd.Context(), path, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.builtin, "builtin", "", "Score a built-in fixture (see 'venuetrust fixtures')")
	flags.StringVar(&f.venue, "venue", "", "Score a venue loaded from the database by ID")
	flags.StringVar(&f.now, "now", "", "Evaluation time (RFC 3339); defaults to the snapshot's as_of, then the current time")
	flags.StringVar(&f.format, "format", "json", "Output format: json or md")
	flags.StringVar(&f.out, "out", "", "Output file path (default: stdout)")
	flags.BoolVar(&f.strict, "strict", false, "Reject out-of-range values instead of clamping them")
	flags.Bool("redact", true, "Redact contact details in the report")
	flags.StringVar(&f.failBelow, "fail-below", "", "Exit 2 if the level ranks below this level")
	flags.String("publish", "", "Publish the report to kafka://brokers/topic or s3://bucket/prefix")
	flags.String("database-url", "", "PostgreSQL URL used by --venue")
	flags.String("s3-region", "", "AWS region for s3:// publish targets")
	flags.BoolVar(&f.verbose, "verbose", false, "Print processing steps to stderr")

	return cmd
}

func runScore(ctx context.Context, path string, f *scoreFlags) error {
	level := f.logLevel
	if f.verbose {
		level = "debug"
	}
	logger := logging.New("venuetrust", level)

	// 1. Check options before touching any input
	if f.format != "json" && f.format != "md" {
		return exitError(3, "unknown format: %s", f.format)
	}
	var threshold trust.TrustLevel
	if f.failBelow != "" {
		t, err := parseLevel(f.failBelow)
		if err != nil {
			return exitError(3, "invalid --fail-below: %v", err)
		}
		threshold = t
	}
	var override *time.Time
	if f.now != "" {
		t, err := time.Parse(time.RFC3339, f.now)
		if err != nil {
			return exitError(3, "invalid --now %q: must be RFC 3339", f.now)
		}
		override = &t
	}

	// 2. Load snapshot
	snap, input, err := loadInput(ctx, logger, path, f)
	if err != nil {
		return err
	}
	input.Strict = f.strict

	// 3. Validate and normalize
	warnings, errs := schema.Prepare(snap, f.strict)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Snapshot validation errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return exitError(3, "snapshot failed validation (%d errors)", len(errs))
	}
	for _, w := range warnings {
		logger.Warn("snapshot normalized", slog.String("detail", w))
	}

	// 4. Score
	clock := f.clock
	if clock == nil {
		clock = trust.SystemClock{}
	}
	now := trust.EvaluationTime(override, *snap, clock)
	logger.Debug("scoring snapshot", slog.String("venue_id", snap.Venue.ID), slog.Time("now", now))

	rep := trust.BuildReport(*snap, now)
	rep.Tool = trust.ToolName
	rep.Version = version
	rep.Input = input
	rep.Meta.Warnings = warnings
	if f.redact {
		redact.Report(&rep)
	}
	logger.Debug("scored",
		slog.Int("total", rep.Score.Total),
		slog.String("level", string(rep.Score.Level)),
	)

	// 5. Output
	var output string
	switch f.format {
	case "json":
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return exitError(5, "failed to marshal output: %v", err)
		}
		output = string(data) + "\n"
	case "md":
		output = render.Markdown(&rep)
	}

	if f.out != "" {
		logger.Debug("writing output", slog.String("path", f.out))
		if err := os.WriteFile(f.out, []byte(output), 0644); err != nil {
			return exitError(5, "failed to write output: %v", err)
		}
	} else {
		stdout := f.stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := io.WriteString(stdout, output); err != nil {
			return exitError(5, "failed to write output: %v", err)
		}
	}

	// 6. Publish
	pub := f.publisher
	if pub == nil && f.publish != "" {
		pub, err = publish.Resolve(ctx, f.publish, f.s3Region)
		if err != nil {
			return exitError(4, "publisher error: %v", err)
		}
	}
	if pub != nil {
		defer pub.Close()
		logger.Debug("publishing report", slog.String("sink", pub.Name()))
		if err := pub.Publish(ctx, &rep); err != nil {
			return exitError(4, "publish failed: %v", err)
		}
	}

	// 7. Exit code based on --fail-below
	if threshold != "" && trust.LevelBelow(rep.Score.Level, threshold) {
		return exitError(2, "level %s is below %s", rep.Score.Level, threshold)
	}
	return nil
}

// loadInput reads the snapshot from whichever single source the flags name.
func loadInput(ctx context.Context, logger *slog.Logger, path string, f *scoreFlags) (*trust.Snapshot, trust.Input, error) {
	sources := 0
	for _, s := range []string{path, f.builtin, f.venue} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, trust.Input{}, exitError(3, "exactly one of a snapshot file, --builtin or --venue is required")
	}

	switch {
	case f.builtin != "":
		logger.Debug("loading fixture", slog.String("name", f.builtin))
		fx, err := fixture.LoadBuiltin(f.builtin)
		if err != nil {
			return nil, trust.Input{}, exitError(3, "failed to load fixture: %v", err)
		}
		return &fx.Snapshot, trust.Input{Source: "builtin:" + fx.Name, SnapshotHash: fx.Hash}, nil

	case f.venue != "":
		loader := f.store
		if loader == nil {
			if f.databaseURL == "" {
				return nil, trust.Input{}, exitError(3, "--venue requires a database URL (--database-url or VENUETRUST_DATABASE_URL)")
			}
			logger.Debug("connecting to database")
			pool, err := store.Connect(ctx, f.databaseURL)
			if err != nil {
				return nil, trust.Input{}, exitError(4, "database error: %v", err)
			}
			defer pool.Close()
			loader = store.NewRepository(pool)
		}
		logger.Debug("loading venue", slog.String("venue_id", f.venue))
		snap, err := loader.LoadSnapshot(ctx, f.venue)
		if err != nil {
			if errors.Is(err, store.ErrVenueNotFound) {
				return nil, trust.Input{}, exitError(3, "venue %q not found", f.venue)
			}
			return nil, trust.Input{}, exitError(4, "failed to load venue: %v", err)
		}
		return snap, trust.Input{Source: "store:" + f.venue}, nil

	default:
		logger.Debug("loading snapshot", slog.String("path", path))
		file, err := snapshot.Load(path)
		if err != nil {
			return nil, trust.Input{}, exitError(3, "failed to load snapshot: %v", err)
		}
		source := filepath.Base(path)
		if path == "-" {
			source = "stdin"
		}
		return &file.Snapshot, trust.Input{Source: source, SnapshotHash: file.Hash}, nil
	}
}

// parseLevel accepts a level name with either underscores or hyphens.
func parseLevel(s string) (trust.TrustLevel, error) {
	l := trust.TrustLevel(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q (want unverified, use_caution, community_safe or verified)", s)
	}
	return l, nil
}
