package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/internal/session"
)

// TranscriptData is the session projection shared with collaborators.
type TranscriptData struct {
	Text        string `json:"text"`
	WordCount   int    `json:"wordCount"`
	Duration    int    `json:"duration"`
	IsRecording bool   `json:"isRecording"`
}

// SummaryData is the executive summary slice of the state.
// IsLoading and a non-empty Error are mutually exclusive.
type SummaryData struct {
	Content   string `json:"content"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// Change classifies a store mutation for subscribers.
type Change int

const (
	ChangeMeeting Change = iota
	ChangeTranscript
	ChangeSummary
	ChangeSession
)

// Store is the explicitly constructed state container holding the meeting,
// transcript and summary slices plus the session identifier. Components
// receive a handle instead of reaching into globals; all reads and writes
// are synchronized here.
type Store struct {
	mu        sync.RWMutex
	sessionID string

	meetingData    meeting.Metadata
	transcriptData TranscriptData
	summaryData    SummaryData

	subs []func(Change)
}

// New creates a Store with a fresh session identifier.
func New() *Store {
	return &Store{
		sessionID:   uuid.NewString(),
		meetingData: meeting.Metadata{Type: meeting.TypeDaily},
	}
}

// Subscribe registers a change listener. Must be called before the store is
// shared across goroutines.
func (s *Store) Subscribe(fn func(Change)) {
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(c Change) {
	for _, fn := range s.subs {
		fn(c)
	}
}

// SessionID returns the current session identifier.
func (s *Store) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// Meeting returns the canonical meeting metadata.
func (s *Store) Meeting() meeting.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meetingData
}

// SetMeeting replaces the canonical meeting metadata.
func (s *Store) SetMeeting(md meeting.Metadata) {
	s.mu.Lock()
	s.meetingData = md
	s.mu.Unlock()
	s.notify(ChangeMeeting)
}

// Transcript returns the transcript projection.
func (s *Store) Transcript() TranscriptData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcriptData
}

// SetTranscript replaces the transcript projection.
func (s *Store) SetTranscript(td TranscriptData) {
	s.mu.Lock()
	s.transcriptData = td
	s.mu.Unlock()
	s.notify(ChangeTranscript)
}

// ApplySessionState projects a controller snapshot into the store.
func (s *Store) ApplySessionState(st session.State) {
	s.SetTranscript(TranscriptData{
		Text:        st.TranscriptText,
		WordCount:   st.WordCount,
		Duration:    st.DurationSeconds,
		IsRecording: st.Status == session.StatusRecording,
	})
}

// Summary returns the summary slice.
func (s *Store) Summary() SummaryData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryData
}

// BeginSummary marks a generation attempt as started. It returns false if a
// generation is already in flight: IsLoading is the sole concurrency gate,
// and a second request while loading is a no-op. Starting an attempt clears
// previous content and error.
func (s *Store) BeginSummary() bool {
	s.mu.Lock()
	if s.summaryData.IsLoading {
		s.mu.Unlock()
		return false
	}
	s.summaryData = SummaryData{IsLoading: true}
	s.mu.Unlock()
	s.notify(ChangeSummary)
	return true
}

// FinishSummary records the outcome of a generation attempt.
func (s *Store) FinishSummary(content, errMsg string) {
	s.mu.Lock()
	s.summaryData = SummaryData{Content: content, Error: errMsg}
	s.mu.Unlock()
	s.notify(ChangeSummary)
}

// StartNewSession atomically reinitializes all three slices and generates a
// fresh session identifier.
func (s *Store) StartNewSession() {
	s.mu.Lock()
	s.sessionID = uuid.NewString()
	s.meetingData = meeting.Metadata{Type: meeting.TypeDaily}
	s.transcriptData = TranscriptData{}
	s.summaryData = SummaryData{}
	s.mu.Unlock()
	s.notify(ChangeSession)
}

// Rehydrate merges a persisted snapshot into the store. The recording flag
// is always forced off: no recognition session survives a process restart.
func (s *Store) Rehydrate(sessionID string, md meeting.Metadata, td TranscriptData, sd SummaryData) {
	s.mu.Lock()
	if sessionID != "" {
		s.sessionID = sessionID
	}
	s.meetingData = md
	td.IsRecording = false
	s.transcriptData = td
	sd.IsLoading = false
	s.summaryData = sd
	s.mu.Unlock()
	s.notify(ChangeSession)
}
