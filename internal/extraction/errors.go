package extraction

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind identifies why extraction failed after every strategy ran.
type FailureKind string

const (
	// FailureDocumentUnreadable means no stage produced any extractable text,
	// e.g. a scanned PDF with no text layer.
	FailureDocumentUnreadable FailureKind = "DocumentUnreadable"
	// FailureBackendUnavailable means the remote extraction capability was
	// unconfigured or unreachable.
	FailureBackendUnavailable FailureKind = "BackendUnavailable"
	// FailureInsufficientContent means stages ran but output stayed below the
	// applicable minimum thresholds.
	FailureInsufficientContent FailureKind = "InsufficientContent"
)

// ErrBackendUnavailable is returned by the remote strategy when no
// document-to-text backend has been configured.
var ErrBackendUnavailable = errors.New("document-to-text backend unavailable")

// StageAttempt records the outcome of one strategy for error reporting.
type StageAttempt struct {
	Stage  string
	Chars  int
	Reason string
}

// ExtractionError is the fatal error surfaced when all strategies are
// exhausted. It names every attempted stage and why each failed.
type ExtractionError struct {
	Kind     FailureKind
	Attempts []StageAttempt
}

func (e *ExtractionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "extraction failed (%s):", e.Kind)
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, " [%s: %s]", a.Stage, a.Reason)
	}
	return sb.String()
}
