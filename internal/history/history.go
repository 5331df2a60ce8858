package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/transcribeia/transcribeia/internal/meeting"
)

const (
	// DefaultTranscriptCap caps retained completed transcripts.
	DefaultTranscriptCap = 10
	// DefaultSummaryCap caps retained summaries.
	DefaultSummaryCap = 5
	// DefaultPreviewLen bounds the list-view preview in runes.
	DefaultPreviewLen = 120
)

// TranscriptEntry is one archived transcript.
type TranscriptEntry struct {
	ID          int64
	SessionID   string
	MeetingName string
	MeetingType meeting.Type
	Text        string
	WordCount   int
	Duration    int
	CreatedAt   time.Time
}

// SummaryEntry is one archived summary.
type SummaryEntry struct {
	ID          int64
	SessionID   string
	MeetingName string
	Content     string
	Model       string
	CreatedAt   time.Time
}

// Store archives completed transcripts and summaries in SQLite, capped and
// listed newest-first.
type Store struct {
	db            *sql.DB
	transcriptCap int
	summaryCap    int
}

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sessionId TEXT NOT NULL,
	meetingName TEXT NOT NULL,
	meetingType TEXT NOT NULL,
	text TEXT NOT NULL,
	wordCount INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	createdAt INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sessionId TEXT NOT NULL,
	meetingName TEXT NOT NULL,
	content TEXT NOT NULL,
	model TEXT NOT NULL,
	createdAt INTEGER NOT NULL
);
`

// Open opens (or creates) the history database at path. Use ":memory:" for
// an ephemeral store. Caps at or below zero fall back to the defaults.
func Open(path string, transcriptCap, summaryCap int) (*Store, error) {
	if transcriptCap <= 0 {
		transcriptCap = DefaultTranscriptCap
	}
	if summaryCap <= 0 {
		summaryCap = DefaultSummaryCap
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, transcriptCap: transcriptCap, summaryCap: summaryCap}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddTranscript archives a completed transcript, evicting the oldest
// entries beyond the retention cap.
func (s *Store) AddTranscript(ctx context.Context, e TranscriptEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transcripts (sessionId, meetingName, meetingType, text, wordCount, duration, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.MeetingName, string(e.MeetingType), e.Text, e.WordCount, e.Duration, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM transcripts
		WHERE id NOT IN (SELECT id FROM transcripts ORDER BY id DESC LIMIT ?)
	`, s.transcriptCap)
	if err != nil {
		return fmt.Errorf("trim transcripts: %w", err)
	}
	return nil
}

// AddSummary archives a generated summary, evicting the oldest entries
// beyond the retention cap.
func (s *Store) AddSummary(ctx context.Context, e SummaryEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summaries (sessionId, meetingName, content, model, createdAt)
		VALUES (?, ?, ?, ?, ?)
	`, e.SessionID, e.MeetingName, e.Content, e.Model, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM summaries
		WHERE id NOT IN (SELECT id FROM summaries ORDER BY id DESC LIMIT ?)
	`, s.summaryCap)
	if err != nil {
		return fmt.Errorf("trim summaries: %w", err)
	}
	return nil
}

// Transcripts returns archived transcripts, newest first.
func (s *Store) Transcripts(ctx context.Context) ([]TranscriptEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sessionId, meetingName, meetingType, text, wordCount, duration, createdAt
		FROM transcripts
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var e TranscriptEntry
		var mtype string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.MeetingName, &mtype,
			&e.Text, &e.WordCount, &e.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		e.MeetingType = meeting.Type(mtype)
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summaries returns archived summaries, newest first.
func (s *Store) Summaries(ctx context.Context) ([]SummaryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sessionId, meetingName, content, model, createdAt
		FROM summaries
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var entries []SummaryEntry
	for rows.Next() {
		var e SummaryEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.MeetingName,
			&e.Content, &e.Model, &createdAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Preview truncates content to maxRunes for list views. The ellipsis is
// appended only when something was actually cut. maxRunes at or below zero
// falls back to the default.
func Preview(content string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultPreviewLen
	}
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	return string(runes[:maxRunes]) + "…"
}
