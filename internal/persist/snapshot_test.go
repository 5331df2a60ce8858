package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/internal/store"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := NewFileStore(path)

	snap := Snapshot{
		MeetingData: meeting.Metadata{
			Name:         "Daily equipo",
			Participants: []string{"Ana", "Luis"},
			Type:         meeting.TypeDaily,
		},
		TranscriptData: store.TranscriptData{Text: "hablamos de tareas", WordCount: 3, Duration: 120, IsRecording: true},
		SummaryData:    store.SummaryData{Content: "## Resumen"},
		SessionID:      "sess-1",
		LastSaved:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, fs.Save(snap))

	got, found, err := fs.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, snap, got)
}

func TestFileStoreMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope", "session.json"))

	_, found, err := fs.Load()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save(Snapshot{SessionID: "s"}))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, found, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.False(t, found)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save(Snapshot{SessionID: "first"}))
	require.NoError(t, fs.Save(Snapshot{SessionID: "second"}))

	got, found, err := fs.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", got.SessionID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
