package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fretlab/auralis/logging"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "auralis",
	Short: "Audio analysis for instrument practice",
	Long: `Auralis analyzes instrument recordings: it tracks pitch, recognizes
chords, estimates tempo, and detects the key of a performance.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel(logging.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
