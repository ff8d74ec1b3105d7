package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
	"github.com/njorogek/screenplay-ingest-api/internal/utils"
)

const (
	MethodLocal  = "local"
	MethodRemote = "remote-paginated"
	MethodFailed = "failed"
)

// Result is the outcome of a successful extraction.
type Result struct {
	Text      string
	CharCount int
	Method    string
}

// Strategy is one stage in the orchestrator's fallback chain. Its output is
// accepted only when it strictly exceeds MinChars.
type Strategy interface {
	Name() string
	MinChars() int
	Extract(ctx context.Context, doc models.Document) (string, error)
}

// Orchestrator walks an ordered list of extraction strategies and returns the
// first output that clears its stage's minimum-content threshold. Stages are
// never retried.
type Orchestrator struct {
	strategies []Strategy
	logger     *utils.Logger
}

func NewOrchestrator(logger *utils.Logger, strategies ...Strategy) *Orchestrator {
	return &Orchestrator{
		strategies: strategies,
		logger:     logger,
	}
}

// Extract tries each strategy in order. A stage error or an output at or
// below the stage threshold falls through to the next strategy; exhaustion
// surfaces an ExtractionError naming every attempt.
func (o *Orchestrator) Extract(ctx context.Context, doc models.Document) (Result, error) {
	var attempts []StageAttempt
	var backendDown bool
	var sawText bool

	for _, s := range o.strategies {
		text, err := s.Extract(ctx, doc)
		if err != nil {
			if errors.Is(err, ErrBackendUnavailable) {
				backendDown = true
			}
			o.logger.Warn("Extraction stage failed, falling back",
				"stage", s.Name(), "error", err)
			attempts = append(attempts, StageAttempt{Stage: s.Name(), Reason: err.Error()})
			continue
		}
		if len(text) > 0 {
			sawText = true
		}
		if len(text) <= s.MinChars() {
			o.logger.Warn("Extraction stage below minimum content threshold, falling back",
				"stage", s.Name(), "chars", len(text), "threshold", s.MinChars())
			attempts = append(attempts, StageAttempt{
				Stage: s.Name(),
				Chars: len(text),
				Reason: fmt.Sprintf("insufficient content: %d chars, need more than %d",
					len(text), s.MinChars()),
			})
			continue
		}

		o.logger.Info("Extraction succeeded",
			"stage", s.Name(), "chars", len(text))
		return Result{Text: text, CharCount: len(text), Method: s.Name()}, nil
	}

	kind := FailureInsufficientContent
	switch {
	case backendDown && !sawText:
		kind = FailureBackendUnavailable
	case !sawText:
		kind = FailureDocumentUnreadable
	}

	return Result{Method: MethodFailed}, &ExtractionError{Kind: kind, Attempts: attempts}
}
