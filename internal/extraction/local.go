package extraction

import (
	"context"
	"fmt"

	"github.com/njorogek/screenplay-ingest-api/internal/extractor"
	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

// LocalStrategy is the fast, deterministic, network-free extraction stage.
type LocalStrategy struct {
	minChars int
}

func NewLocalStrategy(minChars int) *LocalStrategy {
	if minChars <= 0 {
		minChars = 100
	}
	return &LocalStrategy{minChars: minChars}
}

func (s *LocalStrategy) Name() string { return MethodLocal }

func (s *LocalStrategy) MinChars() int { return s.minChars }

// Extract runs the local extractor synchronously. Any internal failure,
// including a parser panic on a malformed file, is converted into an error
// so the orchestrator simply falls through to the next stage.
func (s *LocalStrategy) Extract(ctx context.Context, doc models.Document) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("local extraction panicked: %v", r)
		}
	}()
	return extractor.ExtractLocal(doc)
}
