package cli

import (
	"github.com/spf13/cobra"

	"github.com/transcribeia/transcribeia/internal/app"
	"github.com/transcribeia/transcribeia/internal/version"
)

func NewRootCmd(a *app.App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transcribeia",
		Short: "Record meetings, transcribe, and summarize",
		Long:  "Captures a meeting transcript from a speech recognizer, keeps it crash-safe on disk, and generates an executive summary in Spanish.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(a))
	rootCmd.AddCommand(NewSummarizeCmd(a))
	rootCmd.AddCommand(NewHistoryCmd(a))

	return rootCmd
}
