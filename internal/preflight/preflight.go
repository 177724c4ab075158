package preflight

import (
	"context"

	"vx/internal/config"
	"vx/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options selects which checks RunAll performs.
type Options struct {
	// BaseDir is the output base directory; blank means the working directory.
	BaseDir string
	// DryRun skips the extraction tool, which a dry run never invokes.
	DryRun bool
}

// Requirements lists the tools an operation needs. Inspection always needs
// mkvmerge; extraction additionally needs mkvextract.
func Requirements(cfg *config.Config, dryRun bool) []deps.Requirement {
	mkvmerge, mkvextract := "mkvmerge", "mkvextract"
	if cfg != nil {
		mkvmerge, mkvextract = cfg.Tools.Mkvmerge, cfg.Tools.Mkvextract
	}
	reqs := []deps.Requirement{{
		Name:        "mkvmerge",
		Command:     mkvmerge,
		Description: "Required to identify container contents",
		MinVersion:  deps.MinimumMKVToolNix,
	}}
	if !dryRun {
		reqs = append(reqs, deps.Requirement{
			Name:        "mkvextract",
			Command:     mkvextract,
			Description: "Required to write extracted files",
			MinVersion:  deps.MinimumMKVToolNix,
		})
	}
	return reqs
}

// RunAll executes the tool and directory checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, gate *deps.Gate, opts Options) []Result {
	if cfg == nil || gate == nil {
		return nil
	}

	statuses, _ := gate.CheckAll(ctx, Requirements(cfg, opts.DryRun))
	results := make([]Result, 0, len(statuses)+2)
	for _, status := range statuses {
		results = append(results, Result{Name: status.Name, Passed: status.Err == nil, Detail: status.Detail})
	}

	if !opts.DryRun {
		results = append(results, CheckOutputDir("Output directory", opts.BaseDir))
	}
	if cfg.Journal.Enabled {
		results = append(results, CheckOutputDir("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
