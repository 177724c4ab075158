package mkvtoolnix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vx/internal/logging"
	"vx/internal/services"
)

const (
	defaultMkvmerge   = "mkvmerge"
	defaultMkvextract = "mkvextract"
)

// Extraction modes understood by mkvextract.
const (
	ModeTracks      = "tracks"
	ModeAttachments = "attachments"
)

// Instruction pairs an item id with its destination path.
type Instruction struct {
	ID         int    `json:"id" yaml:"id"`
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// Token renders the instruction in mkvextract's "<id>:<path>" form.
func (i Instruction) Token() string {
	return strconv.Itoa(i.ID) + ":" + i.OutputPath
}

// Client runs mkvmerge and mkvextract.
type Client struct {
	mkvmerge   string
	mkvextract string
	timeout    time.Duration
	run        CommandRunner
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBinaries overrides the tool locations. Blank values keep the defaults.
func WithBinaries(mkvmerge, mkvextract string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(mkvmerge); s != "" {
			c.mkvmerge = s
		}
		if s := strings.TrimSpace(mkvextract); s != "" {
			c.mkvextract = s
		}
	}
}

// WithTimeout bounds every tool invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Client) {
		if r != nil {
			c.run = r
		}
	}
}

// NewClient constructs a Client.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		mkvmerge:   defaultMkvmerge,
		mkvextract: defaultMkvextract,
		run:        defaultCommandRunner,
		logger:     logging.NewComponentLogger(logger, "mkvtoolnix"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Identify runs the JSON identification of path. mkvmerge exits non-zero for
// unrecognized files while still printing a valid document, so the output is
// parsed before the exit status is considered.
func (c *Client) Identify(ctx context.Context, path string) (Identification, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Identification{}, services.Wrap(services.ErrProbeFailed, "", "identify", "empty path", nil)
	}
	subject := filepath.Base(path)

	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	stdout, stderr, runErr := c.run(callCtx, c.mkvmerge, "-i", "-F", "json", path)
	if timeoutErr := c.timeoutError(callCtx, c.mkvmerge, subject); timeoutErr != nil {
		return Identification{}, timeoutErr
	}

	id, parseErr := ParseIdentification(stdout)
	if parseErr == nil {
		if runErr != nil {
			c.logger.Debug("mkvmerge identification exited non-zero",
				logging.String("path", path),
				logging.Int("exit_code", exitCode(runErr)),
				logging.Bool("recognized", id.Container.Recognized),
			)
		}
		return id, nil
	}
	if runErr != nil {
		return Identification{}, services.Wrap(services.ErrProbeFailed, subject, "mkvmerge identify", condense(stderr, stdout), runErr)
	}
	return Identification{}, services.Wrap(services.ErrProbeFailed, subject, "mkvmerge identify", "malformed output", parseErr)
}

// Extract runs mkvextract in the given mode. Exit status 1 means the tool
// finished with warnings; the output was written and the call succeeds.
func (c *Client) Extract(ctx context.Context, mode, source string, instructions []Instruction) error {
	subject := filepath.Base(source)
	switch mode {
	case ModeTracks, ModeAttachments:
	default:
		return services.Wrap(services.ErrExecutionFailed, subject, "mkvextract", fmt.Sprintf("unknown mode %q", mode), nil)
	}
	if len(instructions) == 0 {
		return services.Wrap(services.ErrExecutionFailed, subject, "mkvextract", "no instructions", nil)
	}

	args := BuildExtractArgs(mode, source, instructions)

	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	c.logger.Debug("executing mkvextract",
		logging.String("mode", mode),
		logging.String("source", source),
		logging.Int("instructions", len(instructions)),
	)
	stdout, stderr, err := c.run(callCtx, c.mkvextract, args...)
	if timeoutErr := c.timeoutError(callCtx, c.mkvextract, subject); timeoutErr != nil {
		return timeoutErr
	}
	if err == nil {
		return nil
	}
	if exitCode(err) == 1 {
		logging.WarnWithContext(c.logger, "mkvextract finished with warnings", "mkvextract_warnings",
			logging.String("source", source),
			logging.String("output", condense(stderr, stdout)),
			logging.String(logging.FieldImpact, "extracted files may be incomplete"),
		)
		return nil
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return services.Wrap(services.ErrExecutionFailed, subject, "mkvextract", "canceled", ctx.Err())
	}
	return services.Wrap(services.ErrExecutionFailed, subject, "mkvextract", condense(stderr, stdout), err)
}

// BuildExtractArgs constructs the mkvextract arguments:
// "<mode> <source> <id>:<path>...".
func BuildExtractArgs(mode, source string, instructions []Instruction) []string {
	args := make([]string, 0, len(instructions)+2)
	args = append(args, mode, source)
	for _, inst := range instructions {
		args = append(args, inst.Token())
	}
	return args
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// timeoutError reports a ToolTimeout when the call's own deadline fired.
func (c *Client) timeoutError(callCtx context.Context, tool, subject string) error {
	if !errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return nil
	}
	return services.Wrap(services.ErrToolTimeout, tool, subject, fmt.Sprintf("no result within %s", c.timeout), callCtx.Err())
}

// condense returns the last meaningful line of tool output for error messages.
func condense(outputs ...[]byte) string {
	for _, out := range outputs {
		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			if line := strings.TrimSpace(lines[i]); line != "" {
				return line
			}
		}
	}
	return "no output"
}
