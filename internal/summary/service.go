package summary

import (
	"context"
	"strings"
	"time"

	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/pkg/retry"
)

const errNoTranscript = "No hay texto para procesar"

type attemptResult struct {
	text  string
	usage *Usage
}

// Generate runs the full pipeline: precondition check, bounded delivery
// attempts with exponential backoff, and the deterministic local fallback
// as the terminal safety net. An empty transcript fails immediately with
// zero network attempts; everything else resolves to a summary.
func (s *implService) Generate(ctx context.Context, in Input, meta meeting.Metadata) (outcome Outcome) {
	if strings.TrimSpace(in.Text) == "" {
		return Outcome{Success: false, Error: errNoTranscript}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "Summary pipeline panicked, using fallback: %v", r)
			outcome = Fallback(in, meta)
		}
	}()

	meta = meta.Normalized()
	req := Request{
		Transcript: in.Text,
		Metadata: RequestMetadata{
			MeetingName:  meta.Name,
			Participants: meta.Participants,
			Type:         string(meta.Type),
			Duration:     in.Duration,
			WordCount:    in.WordCount,
		},
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	}

	result, err := retry.Do(ctx, s.retry, func(ctx context.Context) (attemptResult, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()

		text, usage, err := s.backend.Summarize(attemptCtx, req)
		if err != nil {
			return attemptResult{}, err
		}
		return attemptResult{text: text, usage: usage}, nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		s.logger.Warn(ctx, "Summary attempt %d failed, retrying in %s: %v", attempt, nextDelay, err)
	})
	if err != nil {
		s.logger.Warn(ctx, "Summary backend exhausted, rendering local fallback: %v", err)
		return Fallback(in, meta)
	}

	return Outcome{Success: true, Summary: result.text, Usage: result.usage}
}
