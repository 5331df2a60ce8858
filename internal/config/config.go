package config

import "fmt"

// Recognition modes supported by the session controller.
const (
	RecognitionModeStub      = "stub"
	RecognitionModeFile      = "file"
	RecognitionModeWebsocket = "websocket"
)

// Summary providers.
const (
	SummaryProviderWebhook = "webhook"
	SummaryProviderGemini  = "gemini"
)

type Config struct {
	Recognition RecognitionConfig `yaml:"recognition"`
	Summary     SummaryConfig     `yaml:"summary"`
	Persistence PersistenceConfig `yaml:"persistence"`
	History     HistoryConfig     `yaml:"history"`
	Meeting     MeetingConfig     `yaml:"meeting"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type RecognitionConfig struct {
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	FragmentsDir string `yaml:"fragments_dir"`
	Endpoint     string `yaml:"endpoint"`
	APIKey       string `yaml:"api_key"`
}

type SummaryConfig struct {
	Provider       string   `yaml:"provider"`
	Endpoint       string   `yaml:"endpoint"`
	APIKey         string   `yaml:"api_key"`
	Model          string   `yaml:"model"`
	Temperature    float64  `yaml:"temperature"`
	MaxTokens      int      `yaml:"max_tokens"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxAttempts    int      `yaml:"max_attempts"`
	BaseDelayMS    int      `yaml:"base_delay_ms"`
	GeminiAPIKeys  []string `yaml:"gemini_api_keys"`
	GeminiModel    string   `yaml:"gemini_model"`
}

type PersistenceConfig struct {
	SnapshotPath        string `yaml:"snapshot_path"`
	DraftDebounceMS     int    `yaml:"draft_debounce_ms"`
	PropagateDebounceMS int    `yaml:"propagate_debounce_ms"`
}

type HistoryConfig struct {
	Path           string `yaml:"path"`
	TranscriptCap  int    `yaml:"transcript_cap"`
	SummaryCap     int    `yaml:"summary_cap"`
	PreviewMaxLen  int    `yaml:"preview_max_len"`
}

type MeetingConfig struct {
	Name         string   `yaml:"name"`
	Participants []string `yaml:"participants"`
	Type         string   `yaml:"type"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func (c *Config) Validate() error {
	switch c.Recognition.Mode {
	case "":
		c.Recognition.Mode = RecognitionModeStub
	case RecognitionModeStub, RecognitionModeFile, RecognitionModeWebsocket:
	default:
		return fmt.Errorf("recognition.mode must be one of stub, file, websocket: got %q", c.Recognition.Mode)
	}
	if c.Recognition.Mode == RecognitionModeFile && c.Recognition.FragmentsDir == "" {
		return fmt.Errorf("recognition.fragments_dir is required in file mode")
	}
	if c.Recognition.Mode == RecognitionModeWebsocket && c.Recognition.Endpoint == "" {
		return fmt.Errorf("recognition.endpoint is required in websocket mode")
	}
	if c.Recognition.Language == "" {
		c.Recognition.Language = "es-ES"
	}

	switch c.Summary.Provider {
	case "":
		c.Summary.Provider = SummaryProviderWebhook
	case SummaryProviderWebhook, SummaryProviderGemini:
	default:
		return fmt.Errorf("summary.provider must be webhook or gemini: got %q", c.Summary.Provider)
	}
	if c.Summary.Provider == SummaryProviderGemini && len(c.Summary.GeminiAPIKeys) == 0 {
		return fmt.Errorf("summary.gemini_api_keys is required with the gemini provider")
	}
	if c.Summary.Endpoint == "" {
		c.Summary.Endpoint = "https://vps.torremotomex.com/webhook/summary"
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gpt-4-turbo"
	}
	if c.Summary.Temperature == 0 {
		c.Summary.Temperature = 0.3
	}
	if c.Summary.MaxTokens == 0 {
		c.Summary.MaxTokens = 1500
	}
	if c.Summary.TimeoutSeconds == 0 {
		c.Summary.TimeoutSeconds = 30
	}
	if c.Summary.MaxAttempts == 0 {
		c.Summary.MaxAttempts = 3
	}
	if c.Summary.BaseDelayMS == 0 {
		c.Summary.BaseDelayMS = 1000
	}
	if c.Summary.GeminiModel == "" {
		c.Summary.GeminiModel = "gemini-2.5-flash"
	}

	if c.Persistence.SnapshotPath == "" {
		c.Persistence.SnapshotPath = "data/session.json"
	}
	if c.Persistence.DraftDebounceMS == 0 {
		c.Persistence.DraftDebounceMS = 500
	}
	if c.Persistence.PropagateDebounceMS == 0 {
		c.Persistence.PropagateDebounceMS = 300
	}

	if c.History.Path == "" {
		c.History.Path = "data/history.sqlite"
	}
	if c.History.TranscriptCap == 0 {
		c.History.TranscriptCap = 10
	}
	if c.History.SummaryCap == 0 {
		c.History.SummaryCap = 5
	}
	if c.History.PreviewMaxLen == 0 {
		c.History.PreviewMaxLen = 120
	}

	if c.Meeting.Type == "" {
		c.Meeting.Type = "daily"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
