package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
	"github.com/njorogek/screenplay-ingest-api/internal/utils"
)

type fakeStrategy struct {
	name     string
	minChars int
	text     string
	err      error
	calls    int
}

func (f *fakeStrategy) Name() string  { return f.name }
func (f *fakeStrategy) MinChars() int { return f.minChars }
func (f *fakeStrategy) Extract(ctx context.Context, doc models.Document) (string, error) {
	f.calls++
	return f.text, f.err
}

func testLogger() *utils.Logger {
	return utils.NewLogger("error")
}

func testDoc() models.Document {
	return models.Document{Data: []byte("payload"), ContentType: "text/plain", Size: 7}
}

func TestExtractFirstStageWins(t *testing.T) {
	first := &fakeStrategy{name: "first", minChars: 100, text: strings.Repeat("a", 101)}
	second := &fakeStrategy{name: "second", minChars: 100, text: strings.Repeat("b", 200)}

	o := NewOrchestrator(testLogger(), first, second)
	result, err := o.Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result.Method != "first" {
		t.Errorf("Method = %q, want %q", result.Method, "first")
	}
	if result.CharCount != 101 {
		t.Errorf("CharCount = %d, want 101", result.CharCount)
	}
	if second.calls != 0 {
		t.Errorf("second stage was called %d times, want 0", second.calls)
	}
}

func TestExtractThresholdIsStrict(t *testing.T) {
	// Output at or below the threshold must fall through.
	for _, chars := range []int{99, 100} {
		first := &fakeStrategy{name: "first", minChars: 100, text: strings.Repeat("a", chars)}
		fallback := &fakeStrategy{name: "second", minChars: 50, text: strings.Repeat("b", 51)}

		o := NewOrchestrator(testLogger(), first, fallback)
		result, err := o.Extract(context.Background(), testDoc())
		if err != nil {
			t.Fatalf("Extract(%d chars) returned error: %v", chars, err)
		}
		if result.Method != "second" {
			t.Errorf("Extract(%d chars) Method = %q, want fallback %q", chars, result.Method, "second")
		}
	}
}

func TestExtractJustAboveThreshold(t *testing.T) {
	s := &fakeStrategy{name: "only", minChars: 100, text: strings.Repeat("a", 101)}

	o := NewOrchestrator(testLogger(), s)
	result, err := o.Extract(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if result.Text != s.text {
		t.Errorf("Text not passed through unchanged")
	}
}

func TestExtractStagesNeverRetried(t *testing.T) {
	failing := &fakeStrategy{name: "first", minChars: 10, err: errors.New("boom")}
	ok := &fakeStrategy{name: "second", minChars: 10, text: strings.Repeat("x", 11)}

	o := NewOrchestrator(testLogger(), failing, ok)
	if _, err := o.Extract(context.Background(), testDoc()); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if failing.calls != 1 {
		t.Errorf("failing stage called %d times, want exactly 1", failing.calls)
	}
}

func TestExtractAllStagesExhausted(t *testing.T) {
	first := &fakeStrategy{name: "local", minChars: 100, text: strings.Repeat("a", 40)}
	second := &fakeStrategy{name: "remote", minChars: 100, err: errors.New("network down")}

	o := NewOrchestrator(testLogger(), first, second)
	_, err := o.Extract(context.Background(), testDoc())
	if err == nil {
		t.Fatal("expected error when every stage fails")
	}

	var extErr *ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("error is %T, want *ExtractionError", err)
	}
	if extErr.Kind != FailureInsufficientContent {
		t.Errorf("Kind = %q, want %q", extErr.Kind, FailureInsufficientContent)
	}
	if len(extErr.Attempts) != 2 {
		t.Fatalf("Attempts = %d, want 2", len(extErr.Attempts))
	}
	if extErr.Attempts[0].Stage != "local" || extErr.Attempts[1].Stage != "remote" {
		t.Errorf("attempts out of stage order: %+v", extErr.Attempts)
	}
}

func TestExtractFailureKinds(t *testing.T) {
	tests := []struct {
		name       string
		strategies []Strategy
		want       FailureKind
	}{
		{
			name: "no text anywhere",
			strategies: []Strategy{
				&fakeStrategy{name: "local", minChars: 100, err: errors.New("no text layer")},
				&fakeStrategy{name: "remote", minChars: 100, err: errors.New("timeout")},
			},
			want: FailureDocumentUnreadable,
		},
		{
			name: "backend unconfigured and nothing readable",
			strategies: []Strategy{
				&fakeStrategy{name: "local", minChars: 100, err: errors.New("no text layer")},
				&fakeStrategy{name: "remote", minChars: 100, err: ErrBackendUnavailable},
			},
			want: FailureBackendUnavailable,
		},
		{
			name: "some text but below thresholds",
			strategies: []Strategy{
				&fakeStrategy{name: "local", minChars: 100, text: "short"},
				&fakeStrategy{name: "remote", minChars: 100, err: ErrBackendUnavailable},
			},
			want: FailureInsufficientContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(testLogger(), tt.strategies...)
			_, err := o.Extract(context.Background(), testDoc())

			var extErr *ExtractionError
			if !errors.As(err, &extErr) {
				t.Fatalf("error is %T, want *ExtractionError", err)
			}
			if extErr.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", extErr.Kind, tt.want)
			}
		})
	}
}
