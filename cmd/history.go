package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/activity"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Log and list activities a student has done",
}

var historyAddCmd = &cobra.Command{
	Use:   "add <student-id>",
	Short: "Log a past activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := activityFromFlags(cmd)
		if err != nil {
			return err
		}
		if date, _ := cmd.Flags().GetString("date"); date != "" {
			at, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				return fmt.Errorf("--date: expected YYYY-MM-DD: %w", err)
			}
			a.Timestamp = at
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		out, err := d.lifecycle().AppendHistory(cmd.Context(), args[0], a)
		if err != nil {
			return err
		}
		printActivity(cmd.OutOrStdout(), *out, 0)
		return nil
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list <student-id>",
	Short: "List past activities, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return listCollection(cmd, args[0], activity.StateHistorical, limit)
	},
}

func init() {
	addActivityFlags(historyAddCmd)
	historyAddCmd.Flags().String("date", "", "When it happened (YYYY-MM-DD, default now)")

	historyListCmd.Flags().IntP("limit", "n", 20, "Maximum activities to show (0 = all)")

	historyCmd.AddCommand(historyAddCmd)
	historyCmd.AddCommand(historyListCmd)
}
