package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"vx/internal/container"
	"vx/internal/deps"
	"vx/internal/journal"
	"vx/internal/logging"
	"vx/internal/mkvtoolnix"
	"vx/internal/planner"
	"vx/internal/preflight"
	"vx/internal/services"
)

// Gate verifies tool requirements.
type Gate interface {
	CheckAll(ctx context.Context, reqs []deps.Requirement) ([]deps.Status, error)
}

// Inspector produces container structure for a video.
type Inspector interface {
	Inspect(ctx context.Context, videoPath string) (container.ContainerInfo, error)
}

// Executor writes the planned outputs.
type Executor interface {
	Extract(ctx context.Context, mode, source string, instructions []mkvtoolnix.Instruction) error
}

// Recorder persists finished batches.
type Recorder interface {
	Record(ctx context.Context, run journal.Run, entries []journal.Entry) error
}

// Options tunes a single batch.
type Options struct {
	// BaseDir is prepended to every output path; blank means the working directory.
	BaseDir string
	// DryRun plans without invoking the extractor.
	DryRun bool
	// Workers bounds concurrent videos. Values below 1 mean 1.
	Workers int
	// Timeout bounds each inspection and extraction call. Zero disables it.
	Timeout time.Duration
}

// Runner executes batches.
type Runner struct {
	gate         Gate
	inspector    Inspector
	executor     Executor
	recorder     Recorder
	requirements func(dryRun bool) []deps.Requirement
	lockPath     string
	logger       *slog.Logger
	newRunID     func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRecorder stores every finished batch.
func WithRecorder(r Recorder) Option {
	return func(rn *Runner) { rn.recorder = r }
}

// WithLockPath enables the cross-process batch lock.
func WithLockPath(path string) Option {
	return func(rn *Runner) { rn.lockPath = path }
}

// WithRequirements overrides the tool requirements checked before a batch.
func WithRequirements(fn func(dryRun bool) []deps.Requirement) Option {
	return func(rn *Runner) {
		if fn != nil {
			rn.requirements = fn
		}
	}
}

// NewRunner constructs a Runner.
func NewRunner(gate Gate, inspector Inspector, executor Executor, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		gate:      gate,
		inspector: inspector,
		executor:  executor,
		requirements: func(dryRun bool) []deps.Requirement {
			return preflight.Requirements(nil, dryRun)
		},
		logger:   logging.NewComponentLogger(logger, "extraction"),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes videos with mode. The returned error is non-nil only when the
// batch could not start: a failed tool gate or a held batch lock. Per-video
// failures are reported in the Report.
func (r *Runner) Run(ctx context.Context, mode planner.Mode, videos []string, opts Options) (Report, error) {
	if mode == nil {
		return Report{}, errors.New("extraction mode is required")
	}
	if len(videos) == 0 {
		return Report{}, errors.New("at least one video is required")
	}

	report := Report{
		RunID:   r.newRunID(),
		Mode:    mode.Name(),
		BaseDir: opts.BaseDir,
		DryRun:  opts.DryRun,
	}
	ctx = services.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)

	gateCtx, cancel := withTimeout(ctx, opts.Timeout)
	_, err := r.gate.CheckAll(gateCtx, r.requirements(opts.DryRun))
	cancel()
	if err != nil {
		hint := "install MKVToolNix 9.2.0 or newer, or set tools.mkvmerge/tools.mkvextract"
		if services.KindOf(err) == services.KindToolTimeout {
			hint = hintFor(services.KindToolTimeout)
		}
		logging.ErrorWithContext(logger, "tool check failed", "tool_gate_failed",
			logging.String(logging.FieldErrorKind, string(services.KindOf(err))),
			logging.String(logging.FieldErrorHint, hint),
			logging.Error(err),
		)
		return report, err
	}

	if !opts.DryRun {
		unlock, err := acquireLock(r.lockPath)
		if err != nil {
			return report, err
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Warn("failed to release batch lock", logging.Error(err))
			}
		}()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(videos) {
		workers = len(videos)
	}

	report.StartedAt = time.Now()
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("mode", mode.Name()),
		logging.Int("videos", len(videos)),
		logging.Int("workers", workers),
		logging.Bool("dry_run", opts.DryRun),
	)

	report.Outcomes = make([]Outcome, len(videos))
	for i, video := range videos {
		report.Outcomes[i] = Outcome{Video: video, State: StatePending}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report.Outcomes[i] = r.process(ctx, mode, videos[i], opts)
			}
		}()
	}
dispatch:
	for i := range videos {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := range report.Outcomes {
		if !report.Outcomes[i].State.Terminal() {
			report.Outcomes[i] = r.canceled(ctx, report.Outcomes[i], StatePending)
		}
	}

	report.FinishedAt = time.Now()
	report.tally()
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)

	r.record(ctx, logger, report)
	return report, nil
}

func (r *Runner) process(ctx context.Context, mode planner.Mode, video string, opts Options) Outcome {
	start := time.Now()
	out := Outcome{Video: video, State: StatePending}
	vctx := services.WithVideo(ctx, filepath.Base(video))
	logger := logging.WithContext(vctx, r.logger)

	fail := func(err error) Outcome {
		if ctx.Err() != nil {
			out = r.canceled(ctx, out, out.State)
			out.Duration = time.Now().Sub(start)
			return out
		}
		out.FailedIn = out.State
		out.State = StateFailed
		out.Err = err
		out.Error = err.Error()
		out.Kind = services.KindOf(err)
		out.Duration = time.Now().Sub(start)
		logging.WarnWithContext(logger, "video failed", "video_failed",
			logging.String(logging.FieldState, string(out.FailedIn)),
			logging.String(logging.FieldErrorKind, string(out.Kind)),
			logging.String(logging.FieldErrorHint, hintFor(out.Kind)),
			logging.Error(err),
		)
		return out
	}
	enter := func(state State) {
		out.State = state
		logger.Debug("video state changed", logging.String(logging.FieldState, string(state)))
	}

	if ctx.Err() != nil {
		return fail(ctx.Err())
	}

	enter(StateInspecting)
	callCtx, cancel := withTimeout(vctx, opts.Timeout)
	info, err := r.inspector.Inspect(callCtx, video)
	err = asTimeout(callCtx, ctx, err, "mkvmerge", video, opts.Timeout)
	cancel()
	if err != nil {
		return fail(err)
	}

	enter(StatePlanning)
	specs, err := planner.Plan(mode, info, opts.BaseDir)
	if err != nil {
		return fail(err)
	}
	if len(specs) == 0 {
		return fail(services.Wrap(services.ErrNothingFound, info.SourceFilename, mode.Name(), "no "+mode.Items()+" to extract", nil))
	}
	out.Specs = specs

	if opts.DryRun {
		enter(StateDone)
		out.Duration = time.Now().Sub(start)
		logger.Info("video planned",
			logging.String(logging.FieldEventType, "video_planned"),
			logging.Int("outputs", len(specs)),
			logging.Bool("dry_run", true),
		)
		return out
	}

	enter(StateInvoking)
	if err := prepareOutputDirs(specs); err != nil {
		return fail(services.Wrap(services.ErrExecutionFailed, info.SourceFilename, "prepare output", "", err))
	}
	callCtx, cancel = withTimeout(vctx, opts.Timeout)
	err = r.executor.Extract(callCtx, mode.Name(), video, specs)
	err = asTimeout(callCtx, ctx, err, "mkvextract", video, opts.Timeout)
	cancel()
	if err != nil {
		return fail(err)
	}

	enter(StateDone)
	out.Duration = time.Now().Sub(start)
	logger.Info("video extracted",
		logging.String(logging.FieldEventType, "video_complete"),
		logging.Int("outputs", len(specs)),
		logging.Duration("duration", out.Duration),
	)
	return out
}

// canceled marks an outcome as failed because the batch context ended.
func (r *Runner) canceled(ctx context.Context, out Outcome, state State) Outcome {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	err := services.Wrap(services.ErrExecutionFailed, filepath.Base(out.Video), "batch canceled", "", cause)
	out.FailedIn = state
	out.State = StateFailed
	out.Err = err
	out.Error = err.Error()
	out.Kind = services.KindOf(err)
	out.Specs = nil
	return out
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, report Report) {
	if r.recorder == nil {
		return
	}
	run, entries := report.Journal()
	if err := r.recorder.Record(context.WithoutCancel(ctx), run, entries); err != nil {
		logging.WarnWithContext(logger, "failed to record batch in journal", "journal_write_failed",
			logging.String(logging.FieldErrorHint, "check journal.path permissions or delete the journal file"),
			logging.String(logging.FieldImpact, "run missing from vx history"),
			logging.Error(err),
		)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// asTimeout reclassifies a failure caused by the call's own deadline.
func asTimeout(callCtx, parent context.Context, err error, tool, video string, d time.Duration) error {
	if err == nil || parent.Err() != nil {
		return err
	}
	if !errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, services.ErrToolTimeout) {
		return err
	}
	return services.Wrap(services.ErrToolTimeout, tool, filepath.Base(video), fmt.Sprintf("no result within %s", d), err)
}

func prepareOutputDirs(specs []planner.ExtractionSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		dir := filepath.Dir(spec.OutputPath)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func hintFor(kind services.Kind) string {
	switch kind {
	case services.KindProbeFailed:
		return "check that the file exists and is readable"
	case services.KindUnsupportedContainer:
		return "only Matroska files can be extracted"
	case services.KindUnsupportedCodec:
		return "run vx inspect to see the track codecs"
	case services.KindNothingFound:
		return "run vx inspect to list the file's contents"
	case services.KindToolTimeout:
		return "raise tools.timeout_seconds or --timeout"
	default:
		return "check logs for details"
	}
}
