package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolNotFound         = errors.New("tool not found")
	ErrToolTooOld           = errors.New("tool too old")
	ErrProbeFailed          = errors.New("probe failed")
	ErrUnsupportedContainer = errors.New("unsupported container")
	ErrUnsupportedCodec     = errors.New("unsupported codec")
	ErrNothingFound         = errors.New("nothing found")
	ErrToolTimeout          = errors.New("tool timeout")
	ErrExecutionFailed      = errors.New("execution failed")
)

// Kind names an error category in reports and structured logs.
type Kind string

const (
	KindNone                 Kind = ""
	KindToolNotFound         Kind = "ToolNotFound"
	KindToolTooOld           Kind = "ToolTooOld"
	KindProbeFailed          Kind = "ProbeFailed"
	KindUnsupportedContainer Kind = "UnsupportedContainer"
	KindUnsupportedCodec     Kind = "UnsupportedCodec"
	KindNothingFound         Kind = "NothingFound"
	KindToolTimeout          Kind = "ToolTimeout"
	KindExecutionFailed      Kind = "ExecutionFailed"
)

var kindMarkers = []struct {
	marker error
	kind   Kind
}{
	{ErrToolNotFound, KindToolNotFound},
	{ErrToolTooOld, KindToolTooOld},
	{ErrToolTimeout, KindToolTimeout},
	{ErrProbeFailed, KindProbeFailed},
	{ErrUnsupportedContainer, KindUnsupportedContainer},
	{ErrUnsupportedCodec, KindUnsupportedCodec},
	{ErrNothingFound, KindNothingFound},
	{ErrExecutionFailed, KindExecutionFailed},
}

// Wrap builds an error message that names the tool or file involved while
// tagging it with the provided marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, subject, operation, message string, err error) error {
	detail := buildDetail(subject, operation, message)
	if marker == nil {
		marker = ErrExecutionFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps an error to its category. Errors carrying no marker are
// reported as execution failures; nil maps to KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, km := range kindMarkers {
		if errors.Is(err, km.marker) {
			return km.kind
		}
	}
	return KindExecutionFailed
}

// IsPrecondition reports whether err should abort a whole batch rather than
// a single video.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrToolNotFound) || errors.Is(err, ErrToolTooOld)
}

func buildDetail(subject, operation, message string) string {
	parts := make([]string, 0, 3)
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, subject)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "tool failure"
	}
	return strings.Join(parts, ": ")
}
