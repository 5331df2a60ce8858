package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/internal/store"
)

// Snapshot is the on-disk session image. The recording and loading flags
// are persisted as-is but forced off on rehydration.
type Snapshot struct {
	MeetingData    meeting.Metadata     `json:"meetingData"`
	TranscriptData store.TranscriptData `json:"transcriptData"`
	SummaryData    store.SummaryData    `json:"summaryData"`
	SessionID      string               `json:"sessionId"`
	LastSaved      time.Time            `json:"lastSaved"`
}

// SnapshotStore loads and saves session snapshots.
type SnapshotStore interface {
	Save(snap Snapshot) error
	// Load returns the persisted snapshot, or found=false when none exists.
	Load() (snap Snapshot, found bool, err error)
}

type implFileStore struct {
	path string
}

// NewFileStore creates a SnapshotStore over a single JSON file. Saves are
// atomic: write to a temp file in the same directory, then rename.
func NewFileStore(path string) SnapshotStore {
	return &implFileStore{path: path}
}

func (f *implFileStore) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *implFileStore) Load() (Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}
