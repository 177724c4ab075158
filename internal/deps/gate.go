package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"vx/internal/logging"
	"vx/internal/services"
)

// VersionReporter runs a binary's version report and returns its output.
type VersionReporter func(ctx context.Context, command string) (string, error)

// Gate verifies tools before any operation that depends on them runs.
type Gate struct {
	logger   *slog.Logger
	lookPath func(string) (string, error)
	report   VersionReporter
	timeout  time.Duration
}

// versionWaitDelay bounds how long a killed version report may hold its pipes.
const versionWaitDelay = 500 * time.Millisecond

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithVersionReporter replaces the subprocess-backed version report (for tests).
func WithVersionReporter(r VersionReporter) GateOption {
	return func(g *Gate) {
		if r != nil {
			g.report = r
		}
	}
}

// WithLookPath replaces exec.LookPath (for tests).
func WithLookPath(fn func(string) (string, error)) GateOption {
	return func(g *Gate) {
		if fn != nil {
			g.lookPath = fn
		}
	}
}

// WithTimeout bounds each version report. Zero disables the bound.
func WithTimeout(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGate constructs a Gate that shells out to "<tool> -V".
func NewGate(logger *slog.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		logger:   logging.NewComponentLogger(logger, "deps"),
		lookPath: exec.LookPath,
		report:   runVersionReport,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check verifies a single requirement. The returned status always carries the
// detail shown to users; the error is non-nil when the tool is unusable.
func (g *Gate) Check(ctx context.Context, req Requirement) (Status, error) {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: req.Description,
		Required:    req.MinVersion,
	}

	if status.Command == "" {
		status.Err = services.Wrap(services.ErrToolNotFound, req.Name, "", "command not configured", nil)
		status.Detail = "command not configured"
		return status, status.Err
	}
	if _, err := g.lookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found (requires %s or newer)", status.Command, req.MinVersion)
		status.Err = services.Wrap(services.ErrToolNotFound, req.Name, "", status.Detail, nil)
		return status, status.Err
	}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if g.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
	}
	output, err := g.report(callCtx, status.Command)
	ctxErr := callCtx.Err()
	cancel()
	if ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			status.Detail = fmt.Sprintf("no version report from %q before the deadline", status.Command)
			status.Err = services.Wrap(services.ErrToolTimeout, req.Name, "version report", status.Detail, ctxErr)
		} else {
			status.Detail = "version check canceled"
			status.Err = services.Wrap(services.ErrExecutionFailed, req.Name, "version report", status.Detail, context.Cause(ctx))
		}
		return status, status.Err
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			status.Detail = fmt.Sprintf("binary %q could not be executed (requires %s or newer)", status.Command, req.MinVersion)
			status.Err = services.Wrap(services.ErrToolNotFound, req.Name, "", status.Detail, err)
			return status, status.Err
		}
		// Some builds exit non-zero after printing the version; parse whatever came back.
		g.logger.Debug("version report exited with error",
			logging.String("tool", req.Name),
			logging.Error(err),
		)
	}

	found, ok := ParseVersion(output)
	status.Found = found
	if !ok || !found.AtLeast(req.MinVersion) {
		status.Detail = fmt.Sprintf("found %s, requires %s or newer", found, req.MinVersion)
		status.Err = services.Wrap(services.ErrToolTooOld, req.Name, "", status.Detail, nil)
		return status, status.Err
	}

	status.Available = true
	status.Detail = found.String()
	g.logger.Debug("tool verified",
		logging.String("tool", req.Name),
		logging.String("version", found.String()),
	)
	return status, nil
}

// CheckAll verifies every requirement, even after a failure, so users see
// every missing tool at once. The returned error joins all failures.
func (g *Gate) CheckAll(ctx context.Context, reqs []Requirement) ([]Status, error) {
	statuses := make([]Status, 0, len(reqs))
	var errs []error
	for _, req := range reqs {
		status, err := g.Check(ctx, req)
		statuses = append(statuses, status)
		if err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return statuses, errors.Join(errs...)
}

func runVersionReport(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, command, "-V")
	cmd.WaitDelay = versionWaitDelay
	output, err := cmd.CombinedOutput()
	return string(output), err
}
