package summary

import (
	"context"

	"github.com/transcribeia/transcribeia/internal/meeting"
)

// Input is the transcript slice handed to the generator.
type Input struct {
	Text      string
	WordCount int
	Duration  int
}

// Request is the wire payload sent to a summarization backend.
type Request struct {
	Transcript  string          `json:"transcript"`
	Metadata    RequestMetadata `json:"metadata"`
	Model       string          `json:"model,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

// RequestMetadata carries the meeting context for the backend.
type RequestMetadata struct {
	MeetingName  string   `json:"meetingName"`
	Participants []string `json:"participants"`
	Type         string   `json:"type"`
	Duration     int      `json:"duration,omitempty"`
	WordCount    int      `json:"wordCount,omitempty"`
}

// Usage is best-effort backend accounting.
type Usage struct {
	TokensUsed     int    `json:"tokensUsed"`
	ProcessingTime int    `json:"processingTime"`
	Model          string `json:"model"`
}

// Outcome is the result of a generation request. A fallback-rendered
// summary is still a success: the pipeline's terminal safety net never
// fails, only violated input preconditions do.
type Outcome struct {
	Success bool
	Summary string
	Usage   *Usage
	Error   string
}

// Backend performs a single delivery attempt against a summarization
// provider. The pipeline owns timeouts, retries and fallback.
type Backend interface {
	Summarize(ctx context.Context, req Request) (string, *Usage, error)
}

// Service generates executive summaries with retry and deterministic
// local fallback.
type Service interface {
	Generate(ctx context.Context, in Input, meta meeting.Metadata) Outcome
}
