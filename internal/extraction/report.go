package extraction

import (
	"time"

	"vx/internal/journal"
	"vx/internal/planner"
	"vx/internal/services"
)

// Outcome is the result of one video.
type Outcome struct {
	Video string `json:"video" yaml:"video"`
	State State  `json:"state" yaml:"state"`
	// FailedIn is the state the video was in when it failed.
	FailedIn State                    `json:"failed_in,omitempty" yaml:"failed_in,omitempty"`
	Kind     services.Kind            `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Error    string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Err      error                    `json:"-" yaml:"-"`
	Specs    []planner.ExtractionSpec `json:"specs" yaml:"specs"`
	Duration time.Duration            `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the video finished with at least one output.
func (o Outcome) Succeeded() bool {
	return o.State == StateDone && len(o.Specs) > 0
}

// Report summarizes a batch.
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Mode       string    `json:"mode" yaml:"mode"`
	BaseDir    string    `json:"base_dir" yaml:"base_dir"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Outcomes   []Outcome `json:"outcomes" yaml:"outcomes"`
	Succeeded  int       `json:"succeeded" yaml:"succeeded"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// ExitCode is 0 when every video produced output and 1 otherwise.
func (r Report) ExitCode() int {
	if len(r.Outcomes) == 0 || r.Failed > 0 || r.Succeeded != len(r.Outcomes) {
		return 1
	}
	return 0
}

func (r *Report) tally() {
	r.Succeeded, r.Failed = 0, 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			r.Succeeded++
		} else {
			r.Failed++
		}
	}
}

// Journal converts the report into journal rows.
func (r Report) Journal() (journal.Run, []journal.Entry) {
	run := journal.Run{
		ID:         r.RunID,
		Mode:       r.Mode,
		BaseDir:    r.BaseDir,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Videos:     len(r.Outcomes),
		Succeeded:  r.Succeeded,
		Failed:     r.Failed,
	}
	entries := make([]journal.Entry, 0, len(r.Outcomes))
	for i, o := range r.Outcomes {
		entries = append(entries, journal.Entry{
			RunID:        r.RunID,
			Position:     i,
			Video:        o.Video,
			State:        string(o.State),
			ErrorKind:    string(o.Kind),
			ErrorMessage: o.Error,
			Outputs:      len(o.Specs),
			Duration:     o.Duration,
		})
	}
	return run, entries
}
