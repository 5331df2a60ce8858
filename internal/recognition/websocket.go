package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/transcribeia/transcribeia/internal/logger"
)

// Wire messages for the streaming transcription gateway. The shapes follow
// the AssemblyAI realtime protocol: a Begin on session open, Turn messages
// carrying transcripts, and a Termination when the server ends the stream.
type beginMessage struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type turnMessage struct {
	Type            string `json:"type"`
	Transcript      string `json:"transcript"`
	TurnIsFormatted bool   `json:"turn_is_formatted"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type terminateMessage struct {
	Type string `json:"type"`
}

type implWebsocket struct {
	logger   logger.Logger
	endpoint string
	apiKey   string
	dialer   *websocket.Dialer

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers Handlers
	cancel   context.CancelFunc
	running  bool
}

// NewWebsocket creates a Service backed by a streaming STT gateway.
func NewWebsocket(endpoint, apiKey string, log logger.Logger) Service {
	return &implWebsocket{
		logger:   log,
		endpoint: endpoint,
		apiKey:   apiKey,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (s *implWebsocket) header() http.Header {
	h := http.Header{}
	if s.apiKey != "" {
		h.Set("Authorization", s.apiKey)
	}
	return h
}

// RequestAccess probes the gateway with a short handshake. An auth
// rejection is surfaced as a permission denial.
func (s *implWebsocket) RequestAccess(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, resp, err := s.dialer.DialContext(probeCtx, s.endpoint, s.header())
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return fmt.Errorf("gateway rejected credentials (HTTP %d)", resp.StatusCode)
		}
		return fmt.Errorf("gateway not reachable: %w", err)
	}
	_ = conn.WriteJSON(terminateMessage{Type: "Terminate"})
	return conn.Close()
}

func (s *implWebsocket) Open(ctx context.Context, opts Options, h Handlers) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("websocket session already open")
	}
	s.mu.Unlock()

	conn, _, err := s.dialer.DialContext(ctx, s.endpoint, s.header())
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.conn = conn
	s.handlers = h
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	go s.readLoop(runCtx, conn, opts, h)
	return nil
}

func (s *implWebsocket) readLoop(ctx context.Context, conn *websocket.Conn, opts Options, h Handlers) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.mu.Lock()
			wasRunning := s.running
			s.running = false
			s.mu.Unlock()
			if wasRunning && h.OnError != nil {
				h.OnError(CodeNetwork, fmt.Sprintf("gateway stream closed: %v", err))
			}
			return
		}
		s.handleMessage(ctx, data, opts, h)
	}
}

func (s *implWebsocket) handleMessage(ctx context.Context, data []byte, opts Options, h Handlers) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.logger.Warn(ctx, "Unparseable gateway message: %v", err)
		return
	}

	switch envelope.Type {
	case "Begin":
		var msg beginMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			s.logger.Info(ctx, "Gateway session started: %s", msg.ID)
		}
		if h.OnSessionStarted != nil {
			h.OnSessionStarted()
		}

	case "Turn":
		var msg turnMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		if msg.Transcript == "" {
			return
		}
		if !msg.TurnIsFormatted && !opts.InterimResults {
			return
		}
		if h.OnFragment != nil {
			h.OnFragment(msg.TurnIsFormatted, msg.Transcript)
		}

	case "Error":
		var msg errorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
		if h.OnError != nil {
			h.OnError(Normalize(msg.Code), msg.Error)
		}

	case "Termination":
		s.markStopped()
		if h.OnSessionEnded != nil {
			h.OnSessionEnded()
		}

	default:
		s.logger.Debug(ctx, "Ignoring gateway message type %q", envelope.Type)
	}
}

// Restart asks the gateway to resume listening after a silence timeout.
func (s *implWebsocket) Restart(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("no open session")
	}
	return conn.WriteJSON(map[string]string{"type": "Resume"})
}

func (s *implWebsocket) RequestStop() error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	// The gateway answers with a Termination message, which the read
	// loop turns into OnSessionEnded.
	return conn.WriteJSON(terminateMessage{Type: "Terminate"})
}

func (s *implWebsocket) ForceTerminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *implWebsocket) markStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}
