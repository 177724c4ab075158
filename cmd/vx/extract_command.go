package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vx/internal/deps"
	"vx/internal/extraction"
	"vx/internal/journal"
	"vx/internal/logging"
	"vx/internal/mkvtoolnix"
	"vx/internal/planner"
	"vx/internal/preflight"
)

type extractFlags struct {
	dir      string
	itemType string
	dryRun   bool
	timeout  time.Duration
	workers  int
	output   string
}

func newTracksCommand(ctx *commandContext) *cobra.Command {
	flags := &extractFlags{}
	cmd := &cobra.Command{
		Use:     "tracks [flags] VIDEO...",
		Aliases: []string{"t"},
		Short:   "Extract subtitle tracks",
		Long: "Extract every subtitle track of each video into <dir>/<name>.<ext>.\n" +
			"When a video has several subtitle tracks, the track id is appended: <name>_<id>.<ext>.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := planner.ModeFor(mkvtoolnix.ModeTracks, flags.itemType)
			if err != nil {
				return fmt.Errorf("invalid --type: %w", err)
			}
			return runExtraction(cmd, ctx, mode, args, flags)
		},
	}
	addExtractFlags(cmd, flags, planner.NewTrackExtraction("").DefaultDir())
	cmd.Flags().StringVar(&flags.itemType, "type", planner.DefaultItemType, "Track type to extract (only subtitles is supported)")
	return cmd
}

func newAttachmentsCommand(ctx *commandContext) *cobra.Command {
	flags := &extractFlags{}
	cmd := &cobra.Command{
		Use:     "attachments [flags] VIDEO...",
		Aliases: []string{"a"},
		Short:   "Extract attached files",
		Long:    "Extract every attachment of each video into <dir>/<name>/<attachment file name>.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := planner.ModeFor(mkvtoolnix.ModeAttachments, "")
			if err != nil {
				return err
			}
			return runExtraction(cmd, ctx, mode, args, flags)
		},
	}
	addExtractFlags(cmd, flags, planner.AttachmentExtraction{}.DefaultDir())
	return cmd
}

func addExtractFlags(cmd *cobra.Command, flags *extractFlags, defaultDir string) {
	cmd.Flags().StringVar(&flags.dir, "dir", "", fmt.Sprintf("Output base directory; --dir alone means %q (use --dir=DIR for a custom one)", defaultDir))
	cmd.Flags().Lookup("dir").NoOptDefVal = defaultDir
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Plan and print the instructions without extracting")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Per-call tool timeout, e.g. 2m (default from tools.timeout_seconds)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "Videos processed concurrently (default from extraction.workers)")
	addOutputFlag(cmd, &flags.output)
}

func runExtraction(cmd *cobra.Command, ctx *commandContext, mode planner.Mode, videos []string, flags *extractFlags) error {
	format, err := normalizeOutput(flags.output)
	if err != nil {
		return err
	}
	tc, err := ctx.toolchain()
	if err != nil {
		return err
	}
	cfg := tc.cfg

	opts := extraction.Options{
		BaseDir: flags.dir,
		DryRun:  flags.dryRun,
		Workers: cfg.Extraction.Workers,
		Timeout: cfg.ToolTimeout(),
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = flags.workers
	}
	if cmd.Flags().Changed("timeout") {
		opts.Timeout = flags.timeout
		tc = tc.withTimeout(opts.Timeout)
	}

	runnerOpts := []extraction.Option{
		extraction.WithLockPath(cfg.LockPath()),
		extraction.WithRequirements(func(dryRun bool) []deps.Requirement {
			return preflight.Requirements(cfg, dryRun)
		}),
	}
	if cfg.Journal.Enabled {
		store, err := journal.Open(cmd.Context(), cfg.Journal.Path)
		if err != nil {
			logging.WarnWithContext(tc.logger, "run journal unavailable", "journal_open_failed",
				logging.String(logging.FieldImpact, "run will not appear in vx history"),
				logging.String(logging.FieldErrorHint, "check journal.path"),
				logging.Error(err),
			)
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, extraction.WithRecorder(store))
		}
	}

	runner := extraction.NewRunner(tc.gate, tc.inspector, tc.client, tc.logger, runnerOpts...)
	report, err := runner.Run(cmd.Context(), mode, videos, opts)
	if err != nil {
		return err
	}

	if format != outputText {
		if err := writeStructured(cmd, format, report); err != nil {
			return err
		}
	} else {
		renderReport(cmd, mode, report)
	}
	if code := report.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func renderReport(cmd *cobra.Command, mode planner.Mode, report extraction.Report) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	labels := make([]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		labels = append(labels, filepath.Base(o.Video))
	}
	width := labelWidth(labels)

	for i, o := range report.Outcomes {
		kind, message := outcomeStatus(o, report.DryRun)
		fmt.Fprintln(out, renderStatusLine(labels[i], width, kind, message, colorize))
		if report.DryRun || o.State == extraction.StateDone {
			for _, spec := range o.Specs {
				fmt.Fprintf(out, "%s    %s\n", statusIndent, spec.Token())
			}
		}
	}

	verb := "Extracted"
	if report.DryRun {
		verb = "Planned"
	}
	fmt.Fprintf(out, "\n%s %s from %s of %s videos in %s\n",
		verb,
		mode.Items(),
		humanize.Comma(int64(report.Succeeded)),
		humanize.Comma(int64(len(report.Outcomes))),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)
}

func outcomeStatus(o extraction.Outcome, dryRun bool) (statusKind, string) {
	if o.State == extraction.StateFailed {
		return statusError, fmt.Sprintf("%s: %s", o.Kind, o.Error)
	}
	noun := "files"
	if len(o.Specs) == 1 {
		noun = "file"
	}
	if dryRun {
		return statusInfo, fmt.Sprintf("%d %s planned", len(o.Specs), noun)
	}
	return statusOK, fmt.Sprintf("%d %s written", len(o.Specs), noun)
}
