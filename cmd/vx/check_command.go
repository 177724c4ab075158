package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vx/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var baseDir string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify MKVToolNix and the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := ctx.toolchain()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), tc.cfg, tc.gate, preflight.Options{BaseDir: baseDir, DryRun: dryRun})

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			labels := make([]string, 0, len(results))
			for _, r := range results {
				labels = append(labels, r.Name)
			}
			width := labelWidth(labels)
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, width, kind, r.Detail, colorize))
			}
			if failed := preflight.Failed(results); len(failed) > 0 {
				fmt.Fprintf(out, "\n%d of %d checks failed\n", len(failed), len(results))
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseDir, "dir", "", "Output base directory to check")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only check what a dry run needs")
	return cmd
}
