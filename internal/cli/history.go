package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transcribeia/transcribeia/internal/app"
	"github.com/transcribeia/transcribeia/internal/history"
)

func NewHistoryCmd(a *app.App) *cobra.Command {
	var summaries bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived transcripts and summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer a.Close()

			previewLen := a.Config.History.PreviewMaxLen

			if summaries {
				entries, err := a.History.Summaries(ctx)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No hay resúmenes archivados.")
					return nil
				}
				for _, e := range entries {
					fmt.Printf("%s  %-24s %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.MeetingName, history.Preview(e.Content, previewLen))
				}
				return nil
			}

			entries, err := a.History.Transcripts(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No hay transcripciones archivadas.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %-24s %4d palabras  %s\n",
					e.CreatedAt.Format("2006-01-02 15:04"), e.MeetingName, e.WordCount, history.Preview(e.Text, previewLen))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&summaries, "summaries", "s", false, "List archived summaries instead of transcripts")
	return cmd
}
