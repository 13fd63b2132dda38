package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dshills/venuetrust/internal/synth"
	"github.com/dshills/venuetrust/internal/trust"
)

type generateFlags struct {
	count  int
	seed   int64
	outDir string
	now    string

	clock    trust.Clock
	progress io.Writer
}

func newGenerateCmd() *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic venue snapshots as JSON files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.count, "count", 10, "Number of snapshots to generate")
	flags.Int64Var(&f.seed, "seed", 1, "Random seed")
	flags.StringVar(&f.outDir, "out-dir", ".", "Directory to write snapshots into")
	flags.StringVar(&f.now, "now", "", "Reference time (RFC 3339) for generated history; defaults to the current time")

	return cmd
}

func runGenerate(f *generateFlags) error {
	if f.count < 1 {
		return exitError(3, "--count must be at least 1, got %d", f.count)
	}

	clock := f.clock
	if clock == nil {
		clock = trust.SystemClock{}
	}
	now := clock.Now()
	if f.now != "" {
		t, err := time.Parse(time.RFC3339, f.now)
		if err != nil {
			return exitError(3, "invalid --now %q: must be RFC 3339", f.now)
		}
		now = t
	}

	if err := os.MkdirAll(f.outDir, 0755); err != nil {
		return exitError(5, "failed to create %s: %v", f.outDir, err)
	}

	progress := f.progress
	if progress == nil {
		progress = os.Stderr
	}
	bar := progressbar.NewOptions(f.count,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("generating snapshots"),
		progressbar.OptionShowCount(),
	)

	gen := synth.New(f.seed)
	for i := 0; i < f.count; i++ {
		s := gen.Venue(now)
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return exitError(5, "failed to marshal snapshot: %v", err)
		}
		path := filepath.Join(f.outDir, fmt.Sprintf("%04d-%s.json", i+1, s.Venue.ID))
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return exitError(5, "failed to write snapshot: %v", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(progress)
	return nil
}
