package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
)

const (
	assistantModel  = "gemini-2.5-flash"
	maxPostingChars = 20000
)

var ErrEmptyExtraction = errors.New("assistant returned no posting fields")

// PostingAssistant turns pasted posting text into a prefilled job form.
type PostingAssistant struct {
	Client llms.Model
}

// NewPostingAssistant connects to Gemini. Callers skip the assistant
// entirely when no key is configured.
func NewPostingAssistant(ctx context.Context, apiKey string) (*PostingAssistant, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(assistantModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &PostingAssistant{Client: llm}, nil
}

const postingExtractionPrompt = `
You are a Job Posting Extraction Agent for a university job board. Analyze the text a recruiter pasted and extract the posting.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Teaching Assistant, Research Intern)",
    "description": "A clean plain-text summary of responsibilities and requirements",
    "location": "Campus building, city, or 'Remote'"
}

### CONSTRAINT:
If a field is missing, set it to null. Do not guess.

### RAW CONTENT:
%s
`

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (s *PostingAssistant) ExtractPosting(ctx context.Context, raw string) (dtos.JobForm, error) {
	raw = truncateUTF8(raw, maxPostingChars)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(postingExtractionPrompt, raw))
	if err != nil {
		return dtos.JobForm{}, fmt.Errorf("extract posting: %w", err)
	}
	return parsePosting(resp)
}

// parsePosting tolerates a markdown fence around the JSON and null fields.
func parsePosting(resp string) (dtos.JobForm, error) {
	cleaned := strings.TrimSpace(resp)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var out struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Location    *string `json:"location"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return dtos.JobForm{}, fmt.Errorf("decode assistant output: %w", err)
	}

	form := dtos.JobForm{
		Title:       deref(out.Title),
		Description: deref(out.Description),
		Location:    deref(out.Location),
	}
	if form.Title == "" && form.Description == "" && form.Location == "" {
		return dtos.JobForm{}, ErrEmptyExtraction
	}
	return form, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
