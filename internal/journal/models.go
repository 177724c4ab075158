package journal

import "time"

// Run is one recorded batch.
type Run struct {
	ID         string    `json:"id" yaml:"id"`
	Mode       string    `json:"mode" yaml:"mode"`
	BaseDir    string    `json:"base_dir" yaml:"base_dir"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Videos     int       `json:"videos" yaml:"videos"`
	Succeeded  int       `json:"succeeded" yaml:"succeeded"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Entry is the recorded outcome of one video within a run.
type Entry struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Position     int           `json:"position" yaml:"position"`
	Video        string        `json:"video" yaml:"video"`
	State        string        `json:"state" yaml:"state"`
	ErrorKind    string        `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Outputs      int           `json:"outputs" yaml:"outputs"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}
