package extraction

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
	"github.com/njorogek/screenplay-ingest-api/internal/utils"
)

const (
	// targetSegmentCount is the rough number of page-range segments a
	// document is partitioned into.
	targetSegmentCount = 8
	// maxSegmentPages caps how many pages a single segment request covers.
	maxSegmentPages = 15
)

const pageRangePromptTemplate = `You are given a screenplay document. Extract the plain text of pages %d through %d only.
Return the text exactly as it appears, preserving line breaks and the blank lines between scene elements.
Do not include page numbers, headers, footers, or any commentary of your own.
If the requested range is beyond the end of the document, return nothing.`

// Backend is the pluggable document-to-text capability. Any implementation
// satisfying this request/response contract is interchangeable.
type Backend interface {
	Generate(ctx context.Context, doc models.Document, prompt string, maxOutputTokens int) (string, error)
}

// Segment is one extracted page range. Segments are ephemeral to a single
// paginated call and are reassembled in start-page order.
type Segment struct {
	StartPage int
	EndPage   int
	Text      string
	CharCount int
}

// RemoteConfig carries the injected knobs for the paginated remote stage.
type RemoteConfig struct {
	// MinChars is the acceptance threshold for the combined output. It is
	// deliberately much higher than the local stage's: remote extraction is
	// only reached for large documents.
	MinChars int
	// SegmentMinChars is the floor below which a single segment is dropped.
	SegmentMinChars int
	// MaxConcurrent caps simultaneous in-flight segment requests.
	MaxConcurrent int
	// BatchPause is the fixed pause between batches, to respect upstream
	// rate limits.
	BatchPause time.Duration
	// MaxOutputTokens is the per-request output budget handed to the backend.
	MaxOutputTokens int
	// BytesPerPage is the page-count heuristic divisor.
	BytesPerPage int
}

func (c *RemoteConfig) defaults() {
	if c.MinChars <= 0 {
		c.MinChars = 50000
	}
	if c.SegmentMinChars <= 0 {
		c.SegmentMinChars = 100
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 8192
	}
	if c.BytesPerPage <= 0 {
		c.BytesPerPage = 2000
	}
}

// RemoteStrategy extracts text by fanning page-range requests out to a
// document-to-text backend and reassembling the results in page order.
type RemoteStrategy struct {
	backend Backend
	cfg     RemoteConfig
	logger  *utils.Logger
}

func NewRemoteStrategy(backend Backend, cfg RemoteConfig, logger *utils.Logger) *RemoteStrategy {
	cfg.defaults()
	return &RemoteStrategy{backend: backend, cfg: cfg, logger: logger}
}

func (s *RemoteStrategy) Name() string { return MethodRemote }

func (s *RemoteStrategy) MinChars() int { return s.cfg.MinChars }

func (s *RemoteStrategy) Extract(ctx context.Context, doc models.Document) (string, error) {
	if s.backend == nil {
		return "", ErrBackendUnavailable
	}
	return s.extractPaginated(ctx, doc, s.estimatePages(doc))
}

// estimatePages guesses the page count from the byte length.
func (s *RemoteStrategy) estimatePages(doc models.Document) int {
	pages := len(doc.Data) / s.cfg.BytesPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// extractPaginated partitions 1..estimatedPages into contiguous segments and
// requests each range from the backend under a bounded worker pool. Requests
// run in fixed-size batches with a pause between batches. Failed or
// undersized segments are dropped, never retried, and never cancel their
// siblings; partial coverage is an accepted outcome.
func (s *RemoteStrategy) extractPaginated(ctx context.Context, doc models.Document, estimatedPages int) (string, error) {
	ranges := partitionPages(estimatedPages)

	var (
		mu       sync.Mutex
		segments []Segment
	)

	batchSize := s.cfg.MaxConcurrent
	for start := 0; start < len(ranges); start += batchSize {
		end := start + batchSize
		if end > len(ranges) {
			end = len(ranges)
		}

		var eg errgroup.Group
		eg.SetLimit(s.cfg.MaxConcurrent)
		for _, r := range ranges[start:end] {
			r := r
			eg.Go(func() error {
				prompt := fmt.Sprintf(pageRangePromptTemplate, r.start, r.end)
				text, err := s.backend.Generate(ctx, doc, prompt, s.cfg.MaxOutputTokens)
				if err != nil {
					s.logger.Warn("Segment extraction failed, dropping segment",
						"pageStart", r.start, "pageEnd", r.end, "error", err)
					return nil
				}
				if len(text) < s.cfg.SegmentMinChars {
					s.logger.Warn("Segment below minimum floor, dropping segment",
						"pageStart", r.start, "pageEnd", r.end, "chars", len(text))
					return nil
				}
				mu.Lock()
				segments = append(segments, Segment{
					StartPage: r.start,
					EndPage:   r.end,
					Text:      text,
					CharCount: len(text),
				})
				mu.Unlock()
				return nil
			})
		}
		// Workers absorb their own failures, so Wait never reports one.
		_ = eg.Wait()

		if end < len(ranges) && s.cfg.BatchPause > 0 {
			time.Sleep(s.cfg.BatchPause)
		}
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("no usable text from any of %d segment requests", len(ranges))
	}

	// Reassemble by original page order, not completion order.
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].StartPage < segments[j].StartPage
	})

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	combined := strings.Join(parts, "\n\n")

	s.logger.Info("Paginated extraction reassembled",
		"segmentsOK", len(segments),
		"segmentsAttempted", len(ranges),
		"chars", len(combined))
	return combined, nil
}

type pageRange struct {
	start int
	end   int
}

// partitionPages splits 1..totalPages into contiguous ranges of
// min(15, ceil(totalPages/8)) pages each.
func partitionPages(totalPages int) []pageRange {
	if totalPages < 1 {
		totalPages = 1
	}
	segmentSize := (totalPages + targetSegmentCount - 1) / targetSegmentCount
	if segmentSize > maxSegmentPages {
		segmentSize = maxSegmentPages
	}
	if segmentSize < 1 {
		segmentSize = 1
	}

	var ranges []pageRange
	for start := 1; start <= totalPages; start += segmentSize {
		end := start + segmentSize - 1
		if end > totalPages {
			end = totalPages
		}
		ranges = append(ranges, pageRange{start: start, end: end})
	}
	return ranges
}
