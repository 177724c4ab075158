package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vx/internal/journal"
)

type historyView struct {
	Run     journal.Run     `json:"run" yaml:"run"`
	Entries []journal.Entry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var output string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent extraction batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := normalizeOutput(output)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return errors.New("run journal is disabled; set journal.enabled = true in the config file")
			}
			store, err := journal.Open(cmd.Context(), cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			if runID != "" {
				entries, err := store.Entries(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return fmt.Errorf("no run %q in %s", runID, store.Path())
				}
				if format != outputText {
					return writeStructured(cmd, format, entries)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderEntries(runID, entries))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if format != outputText {
				views := make([]historyView, 0, len(runs))
				for _, run := range runs {
					views = append(views, historyView{Run: run})
				}
				return writeStructured(cmd, format, views)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", journal.DefaultLimit, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the per-video outcomes of one run")
	addOutputFlag(cmd, &output)
	return cmd
}

func renderRuns(runs []journal.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := run.Mode
		if run.DryRun {
			mode += " (dry run)"
		}
		rows = append(rows, []string{
			run.ID,
			humanize.Time(run.StartedAt),
			mode,
			strconv.Itoa(run.Videos),
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.Failed),
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	return renderTable("", []string{"Run", "Started", "Mode", "Videos", "OK", "Failed", "Took"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight})
}

func renderEntries(runID string, entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Position + 1),
			e.Video,
			e.State,
			strconv.Itoa(e.Outputs),
			fallback(e.ErrorKind, "-"),
			e.ErrorMessage,
		})
	}
	return renderTable("Run "+runID, []string{"#", "Video", "State", "Outputs", "Kind", "Error"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight})
}
