package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/transcribeia/transcribeia/internal/app"
)

func NewSummarizeCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Generate a summary for the persisted session",
		Long:  "Loads the last persisted session snapshot and generates an executive summary from its transcript, regardless of length.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer a.Close()

			if !a.Sync.Rehydrate(ctx) {
				return fmt.Errorf("no hay ninguna sesión guardada")
			}

			td := a.Store.Transcript()
			if td.WordCount == 0 {
				return fmt.Errorf("la sesión guardada no tiene transcripción")
			}

			fmt.Printf("Generando resumen de %d palabras...\n", td.WordCount)
			if !a.Trigger.GenerateNow(ctx) {
				sd := a.Store.Summary()
				if sd.Error != "" {
					return fmt.Errorf("no se pudo generar el resumen: %s", sd.Error)
				}
				return fmt.Errorf("ya hay una generación en curso")
			}

			content := a.Store.Summary().Content
			fmt.Println()
			fmt.Println(content)
			archiveSummary(ctx, a, content)
			a.Sync.Flush()
			return nil
		},
	}
}
