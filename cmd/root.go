package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Activity suggestions for daycare students",
	Long: "Sprout suggests age-appropriate learning activities for each student and keeps\n" +
		"track of what was saved, discarded and done, never repeating a suggestion\n" +
		"within a session. Without a configured AI provider it runs on built-in templates.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPROUT_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./sprout.yaml or the user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then SPROUT_DB or the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
