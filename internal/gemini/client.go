// Package gemini implements the document-to-text backend contract on top of
// Vertex AI.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

const systemPrompt = "You are a screenplay text extraction engine. " +
	"You return only the raw text of the requested pages, preserving the original line breaks and blank lines. " +
	"You never add commentary, summaries, or markdown formatting."

type Config struct {
	ProjectID string
	Region    string
	Model     string
}

// Client holds a preconfigured generative model used for page-range text
// extraction.
type Client struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("gemini.NewClient: project ID and region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		// Deterministic output: extraction, not generation.
		Temperature: genai.Ptr[float32](0.0),
	}

	return &Client{model: model, baseClient: baseClient}, nil
}

// Generate sends the whole document payload plus the instruction prompt and
// returns the model's text output.
func (c *Client) Generate(ctx context.Context, doc models.Document, prompt string, maxOutputTokens int) (string, error) {
	// Copy the shared model so the per-request output budget doesn't race
	// with concurrent segment requests.
	model := *c.model
	model.GenerationConfig.MaxOutputTokens = genai.Ptr(int32(maxOutputTokens))

	payload := genai.Blob{
		MIMEType: doc.ContentType,
		Data:     doc.Data,
	}

	resp, err := model.GenerateContent(ctx, payload, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}
	return extractText(resp), nil
}

func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// extractText concatenates the text parts of the first candidate and strips
// any stray markdown fences.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	out := strings.TrimSpace(sb.String())
	out = strings.TrimPrefix(out, "```text")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
