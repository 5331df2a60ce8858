package app

import (
	"context"
	"fmt"
	"time"

	"github.com/transcribeia/transcribeia/internal/config"
	"github.com/transcribeia/transcribeia/internal/history"
	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/internal/persist"
	"github.com/transcribeia/transcribeia/internal/recognition"
	"github.com/transcribeia/transcribeia/internal/session"
	"github.com/transcribeia/transcribeia/internal/store"
	"github.com/transcribeia/transcribeia/internal/summary"
)

// demoScript feeds the stub recognizer so the whole pipeline can be
// exercised without a capture device or network.
var demoScript = []recognition.ScriptStep{
	{IsFinal: false, Text: "buenos días"},
	{IsFinal: true, Text: "buenos días equipo"},
	{IsFinal: false, Text: "ayer terminé"},
	{IsFinal: true, Text: "ayer terminé la integración de pagos"},
	{IsFinal: true, Text: "hoy sigo con las pruebas de la pasarela"},
	{IsFinal: true, Text: "tengo un bloqueador con las credenciales del entorno de staging"},
	{IsFinal: true, Text: "necesito acceso antes del mediodía para no perder el día"},
}

// App assembles the full pipeline from configuration.
type App struct {
	Config      *config.Config
	Logger      logger.Logger
	Store       *store.Store
	Recognition recognition.Service
	Controller  *session.Controller
	Sync        *persist.Sync
	Summary     summary.Service
	Trigger     *summary.Trigger
	History     *history.Store
}

// New wires every component. Subscriptions between the controller, store
// and trigger are left to the caller, since they must be registered before
// the controller's event loop starts.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Logging.Level)
	st := store.New()

	svc, err := buildRecognition(cfg, log)
	if err != nil {
		return nil, err
	}

	backend, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}
	summarySvc := summary.New(backend, log, summary.Options{
		Model:       cfg.Summary.Model,
		Temperature: cfg.Summary.Temperature,
		MaxTokens:   cfg.Summary.MaxTokens,
		Timeout:     time.Duration(cfg.Summary.TimeoutSeconds) * time.Second,
		MaxAttempts: cfg.Summary.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Summary.BaseDelayMS) * time.Millisecond,
	})

	ctrl := session.NewController(session.ControllerConfig{
		Service:  svc,
		Logger:   log,
		Language: cfg.Recognition.Language,
	})

	sync := persist.NewSync(
		st,
		persist.NewFileStore(cfg.Persistence.SnapshotPath),
		log,
		time.Duration(cfg.Persistence.DraftDebounceMS)*time.Millisecond,
		time.Duration(cfg.Persistence.PropagateDebounceMS)*time.Millisecond,
	)

	hist, err := history.Open(cfg.History.Path, cfg.History.TranscriptCap, cfg.History.SummaryCap)
	if err != nil {
		sync.Close()
		return nil, fmt.Errorf("open history: %w", err)
	}

	return &App{
		Config:      cfg,
		Logger:      log,
		Store:       st,
		Recognition: svc,
		Controller:  ctrl,
		Sync:        sync,
		Summary:     summarySvc,
		Trigger:     summary.NewTrigger(st, summarySvc, log),
		History:     hist,
	}, nil
}

// Close releases persistent resources.
func (a *App) Close() {
	a.Sync.Close()
	if err := a.History.Close(); err != nil {
		a.Logger.Warn(context.Background(), "close history: %v", err)
	}
}

func buildRecognition(cfg *config.Config, log logger.Logger) (recognition.Service, error) {
	switch cfg.Recognition.Mode {
	case config.RecognitionModeStub:
		return recognition.NewStub(log, demoScript, 0, false), nil
	case config.RecognitionModeFile:
		return recognition.NewFileWatch(cfg.Recognition.FragmentsDir, log), nil
	case config.RecognitionModeWebsocket:
		return recognition.NewWebsocket(cfg.Recognition.Endpoint, cfg.Recognition.APIKey, log), nil
	default:
		return nil, fmt.Errorf("unknown recognition mode %q", cfg.Recognition.Mode)
	}
}

func buildBackend(cfg *config.Config) (summary.Backend, error) {
	switch cfg.Summary.Provider {
	case config.SummaryProviderWebhook:
		return summary.NewWebhookBackend(cfg.Summary.Endpoint, cfg.Summary.APIKey), nil
	case config.SummaryProviderGemini:
		return summary.NewGeminiBackend(cfg.Summary.GeminiAPIKeys, cfg.Summary.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown summary provider %q", cfg.Summary.Provider)
	}
}
