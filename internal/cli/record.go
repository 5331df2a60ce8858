package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/transcribeia/transcribeia/internal/app"
	"github.com/transcribeia/transcribeia/internal/history"
	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/internal/session"
	"github.com/transcribeia/transcribeia/internal/store"
	"github.com/transcribeia/transcribeia/internal/summary"
)

func NewRecordCmd(a *app.App) *cobra.Command {
	var name string
	var participants string
	var meetingType string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a meeting and generate its summary",
		Long:  "Starts a recording session, streams the live transcript, and on Ctrl+C stops gracefully, generates the summary and archives both.",
		RunE: func(cmd *cobra.Command, args []string) error {
			md := meeting.Metadata{
				Name:         name,
				Participants: meeting.ParseParticipants(participants),
				Type:         meeting.Type(meetingType),
			}
			// Flags win; the config's meeting section fills the gaps.
			if md.Name == "" {
				md.Name = a.Config.Meeting.Name
			}
			if len(md.Participants) == 0 {
				md.Participants = a.Config.Meeting.Participants
			}
			if !md.Type.Known() {
				md.Type = meeting.Type(a.Config.Meeting.Type)
			}
			return runRecord(cmd.Context(), a, md)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Meeting name")
	cmd.Flags().StringVarP(&participants, "participants", "p", "", "Comma-separated participant names")
	cmd.Flags().StringVarP(&meetingType, "type", "t", string(meeting.TypeDaily), "Meeting type: daily, planning or retrospective")

	return cmd
}

func runRecord(ctx context.Context, a *app.App, md meeting.Metadata) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	a.Sync.Rehydrate(ctx)
	if md.Name != "" {
		a.Sync.SetDraftMeeting(md)
	}

	a.Controller.Subscribe(func(st session.State) {
		a.Store.ApplySessionState(st)
		a.Trigger.OnSessionState(ctx, st)
	})
	a.Controller.SubscribeNotices(func(n session.Notice) {
		switch n.Level {
		case session.NoticeAdvisory:
			fmt.Printf("  aviso: %s\n", n.Message)
		case session.NoticeTerminal:
			fmt.Printf("  error: %s\n", n.Message)
		}
	})

	go a.Controller.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	a.Controller.Start()
	fmt.Println("Grabando... (Ctrl+C para detener)")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastShown string
	for {
		select {
		case <-sigChan:
			fmt.Println("\nDeteniendo la grabación...")
			a.Controller.Stop()
			return finishRecording(ctx, a)

		case <-ticker.C:
			st := a.Controller.State()
			if st.Status == session.StatusError {
				a.Sync.Flush()
				return fmt.Errorf("la sesión terminó con error: %s", st.LastError.Message)
			}
			if st.TranscriptText != lastShown {
				lastShown = st.TranscriptText
				fmt.Printf("  [%3ds, %d palabras] %s\n", st.DurationSeconds, st.WordCount, history.Preview(st.TranscriptText, a.Config.History.PreviewMaxLen))
			}
		}
	}
}

// finishRecording waits for the session to settle, then for the summary,
// and archives both before the final snapshot flush.
func finishRecording(ctx context.Context, a *app.App) error {
	st, ok := waitStatus(a, session.StatusCompleted, 10*time.Second)
	if !ok {
		return fmt.Errorf("la sesión no terminó de procesar a tiempo (estado %s)", st.Status)
	}

	fmt.Printf("Transcripción completada: %d palabras en %d segundos.\n", st.WordCount, st.DurationSeconds)

	md := a.Store.Meeting()
	if st.WordCount > 0 {
		err := a.History.AddTranscript(ctx, history.TranscriptEntry{
			SessionID:   a.Store.SessionID(),
			MeetingName: md.Name,
			MeetingType: md.Type,
			Text:        st.TranscriptText,
			WordCount:   st.WordCount,
			Duration:    st.DurationSeconds,
		})
		if err != nil {
			a.Logger.Warn(ctx, "archive transcript: %v", err)
		}
	}

	if st.WordCount >= summary.DefaultAutoThreshold {
		fmt.Println("Generando resumen...")
		sd, ok := waitSummary(a, time.Minute)
		switch {
		case ok && sd.Content != "":
			fmt.Println()
			fmt.Println(sd.Content)
			archiveSummary(ctx, a, sd.Content)
		case sd.Error != "":
			fmt.Printf("No se pudo generar el resumen: %s\n", sd.Error)
		}
	}

	a.Sync.Flush()
	return nil
}

func waitStatus(a *app.App, want session.Status, timeout time.Duration) (session.State, bool) {
	deadline := time.Now().Add(timeout)
	for {
		st := a.Controller.State()
		if st.Status == want {
			return st, true
		}
		if time.Now().After(deadline) {
			return st, false
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func waitSummary(a *app.App, timeout time.Duration) (store.SummaryData, bool) {
	deadline := time.Now().Add(timeout)
	for {
		sd := a.Store.Summary()
		if !sd.IsLoading && (sd.Content != "" || sd.Error != "") {
			return sd, true
		}
		if time.Now().After(deadline) {
			return sd, false
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func archiveSummary(ctx context.Context, a *app.App, content string) {
	err := a.History.AddSummary(ctx, history.SummaryEntry{
		SessionID:   a.Store.SessionID(),
		MeetingName: a.Store.Meeting().Name,
		Content:     content,
		Model:       a.Config.Summary.Model,
	})
	if err != nil {
		a.Logger.Warn(ctx, "archive summary: %v", err)
	}
}
