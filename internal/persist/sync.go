package persist

import (
	"context"
	"sync"
	"time"

	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/internal/store"
	"github.com/transcribeia/transcribeia/pkg/debounce"
)

const (
	// DefaultDraftDelay coalesces form edits before the snapshot write.
	DefaultDraftDelay = 500 * time.Millisecond
	// DefaultPropagateDelay coalesces form edits before promoting the
	// draft into the store.
	DefaultPropagateDelay = 300 * time.Millisecond
)

// Sync keeps the store and the on-disk snapshot in agreement. It runs two
// independent debounce windows over meeting form edits: the snapshot write
// (which persists the draft even when invalid, so half-typed forms survive
// a restart) and the store propagation (which only promotes structurally
// valid metadata). Store mutations from other components also schedule a
// snapshot write. Persistence failures are logged and swallowed.
type Sync struct {
	store  *store.Store
	snaps  SnapshotStore
	logger logger.Logger

	saver      *debounce.Debouncer
	propagator *debounce.Debouncer

	mu         sync.Mutex
	draft      meeting.Metadata
	draftDirty bool
}

// NewSync creates a Sync and subscribes it to the store. Must be called
// before the store is shared across goroutines.
func NewSync(st *store.Store, snaps SnapshotStore, log logger.Logger, draftDelay, propagateDelay time.Duration) *Sync {
	if draftDelay <= 0 {
		draftDelay = DefaultDraftDelay
	}
	if propagateDelay <= 0 {
		propagateDelay = DefaultPropagateDelay
	}

	s := &Sync{
		store:  st,
		snaps:  snaps,
		logger: log,
	}
	s.saver = debounce.New(draftDelay, s.writeSnapshot)
	s.propagator = debounce.New(propagateDelay, s.propagateDraft)

	st.Subscribe(func(store.Change) {
		s.saver.Trigger()
	})
	return s
}

// SetDraftMeeting records an in-progress form edit. The draft is snapshot
// after the draft window and promoted into the store after the propagation
// window if it passes validation.
func (s *Sync) SetDraftMeeting(md meeting.Metadata) {
	s.mu.Lock()
	s.draft = md
	s.draftDirty = true
	s.mu.Unlock()

	s.saver.Trigger()
	s.propagator.Trigger()
}

// Rehydrate loads the persisted snapshot into the store. Recording and
// loading flags are forced off by the store. Returns false when no
// snapshot exists.
func (s *Sync) Rehydrate(ctx context.Context) bool {
	snap, found, err := s.snaps.Load()
	if err != nil {
		s.logger.Warn(ctx, "Failed to load snapshot, starting fresh: %v", err)
		return false
	}
	if !found {
		return false
	}

	s.store.Rehydrate(snap.SessionID, snap.MeetingData, snap.TranscriptData, snap.SummaryData)
	s.logger.Info(ctx, "Session %s rehydrated (saved %s)", snap.SessionID, snap.LastSaved.Format(time.RFC3339))
	return true
}

// Flush runs any pending propagation and snapshot write synchronously.
// Propagation may mutate the store, which re-arms the saver; flushing the
// saver last guarantees the final state reaches disk.
func (s *Sync) Flush() {
	s.propagator.Flush()
	s.saver.Flush()
}

// Close flushes pending work and stops both windows.
func (s *Sync) Close() {
	s.Flush()
	s.propagator.Stop()
	s.saver.Stop()
}

func (s *Sync) propagateDraft() {
	s.mu.Lock()
	md := s.draft
	s.mu.Unlock()

	if !md.Valid() {
		return
	}
	s.store.SetMeeting(md.Normalized())
}

func (s *Sync) writeSnapshot() {
	s.mu.Lock()
	md := s.draft
	dirty := s.draftDirty
	s.draftDirty = false
	s.mu.Unlock()

	if !dirty {
		md = s.store.Meeting()
	}

	snap := Snapshot{
		MeetingData:    md,
		TranscriptData: s.store.Transcript(),
		SummaryData:    s.store.Summary(),
		SessionID:      s.store.SessionID(),
		LastSaved:      time.Now(),
	}
	if err := s.snaps.Save(snap); err != nil {
		s.logger.Warn(context.Background(), "Failed to persist snapshot: %v", err)
	}
}
