package summary

import (
	"time"

	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/pkg/retry"
)

// Options tunes the generation pipeline.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	// Timeout bounds each delivery attempt. Defaults to 30s.
	Timeout time.Duration
	// MaxAttempts is the total number of delivery attempts before the
	// local fallback takes over. Defaults to 3.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff. Defaults to 1s.
	BaseDelay time.Duration
}

type implService struct {
	backend Backend
	logger  logger.Logger
	opts    Options
	retry   retry.Config
}

// New creates a Service over the given backend.
func New(backend Backend, log logger.Logger, opts Options) Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.Model == "" {
		opts.Model = "gpt-4-turbo"
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1500
	}
	return &implService{
		backend: backend,
		logger:  log,
		opts:    opts,
		retry: retry.Config{
			MaxAttempts:  opts.MaxAttempts,
			InitialDelay: opts.BaseDelay,
		},
	}
}
