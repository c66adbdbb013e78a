package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Local flashcard and quiz study aid",
	Long: `studyctl manages a local study profile: register an account, build
flashcard sets and quizzes, and run interactive study sessions.

All data lives in a local profile directory (or a MinIO bucket when
STORAGE_BACKEND=minio). Nothing leaves the machine.

Examples:
  studyctl register --name "Ana" --email ana@example.com
  studyctl set create --file capitals.json
  studyctl study flashcards <set-id>
  studyctl study quiz <quiz-id>`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
