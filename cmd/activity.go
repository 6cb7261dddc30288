package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/skills"
	"github.com/sproutcare/sprout/internal/ui/theme"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Save, discard, restore and remove a student's activities",
}

var activitySaveCmd = &cobra.Command{
	Use:   "save <student-id>",
	Short: "Save an activity to the student's saved list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runManualTransition(cmd, args[0], activity.StateSaved)
	},
}

var activityDiscardCmd = &cobra.Command{
	Use:   "discard <student-id>",
	Short: "Discard an activity so it is not suggested again this session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runManualTransition(cmd, args[0], activity.StateDiscarded)
	},
}

// runManualTransition saves or discards an activity described by flags.
func runManualTransition(cmd *cobra.Command, studentID string, to activity.State) error {
	a, err := activityFromFlags(cmd)
	if err != nil {
		return err
	}
	a.Source = activity.SourceManual
	a.State = activity.StateSuggested

	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	lc := d.lifecycle()

	var out *activity.Activity
	if to == activity.StateSaved {
		out, err = lc.Save(ctx, studentID, a)
	} else {
		sessionID, _ := cmd.Flags().GetString("session")
		mgr, serr := d.sessions(ctx)
		if serr != nil {
			return serr
		}
		sess, serr := mgr.Resume(ctx, studentID, sessionID)
		if serr != nil {
			return serr
		}
		out, err = lc.Discard(ctx, sess, studentID, a)
	}
	if err != nil {
		return err
	}
	printActivity(cmd.OutOrStdout(), *out, 0)
	return nil
}

// activityFromFlags reads --title, --why, --skills and --notes. Skills are
// "Category: name[, name]" entries and must normalize.
func activityFromFlags(cmd *cobra.Command) (activity.Activity, error) {
	title, _ := cmd.Flags().GetString("title")
	why, _ := cmd.Flags().GetString("why")
	notes, _ := cmd.Flags().GetString("notes")
	rawSkills, _ := cmd.Flags().GetStringArray("skills")

	a := activity.Activity{Title: strings.TrimSpace(title), Rationale: why, Notes: notes}
	if a.Title == "" {
		return a, fmt.Errorf("--title is required")
	}
	if len(rawSkills) > 0 {
		sk, err := skills.Normalize(skills.FromText(strings.Join(rawSkills, "\n")))
		if err != nil {
			return a, err
		}
		a.Skills = sk
	}
	return a, nil
}

var activityRestoreCmd = &cobra.Command{
	Use:   "restore <student-id> <activity-id>",
	Short: "Move a discarded activity back to saved",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := d.lifecycle().Restore(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printActivity(cmd.OutOrStdout(), *a, 0)
		return nil
	},
}

var activityRemoveCmd = &cobra.Command{
	Use:   "remove <student-id> <activity-id>",
	Short: "Delete a saved or discarded activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.lifecycle().Remove(cmd.Context(), args[0], args[1], activity.State(from)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s.\n", args[1], from)
		return nil
	},
}

var activityListCmd = &cobra.Command{
	Use:   "list <student-id>",
	Short: "List a student's saved or discarded activities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, _ := cmd.Flags().GetString("state")
		limit, _ := cmd.Flags().GetInt("limit")
		return listCollection(cmd, args[0], activity.State(state), limit)
	},
}

var activityShowCmd = &cobra.Command{
	Use:   "show <student-id> <activity-id>",
	Short: "Show one stored activity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := d.lifecycle().Get(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printActivity(cmd.OutOrStdout(), *a, 0)
		return nil
	},
}

func listCollection(cmd *cobra.Command, studentID string, state activity.State, limit int) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	acts, err := d.lifecycle().List(cmd.Context(), studentID, state, limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(acts) == 0 {
		fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("No %s activities.", state)))
		return nil
	}
	printList(out, acts)
	return nil
}

func addActivityFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Activity title")
	cmd.Flags().String("why", "", "Why the activity suits the student")
	cmd.Flags().StringArray("skills", nil, `Skills as "Category: name[, name]"; repeatable`)
	cmd.Flags().String("notes", "", "Free-form notes")
}

func init() {
	addActivityFlags(activitySaveCmd)
	addActivityFlags(activityDiscardCmd)
	activityDiscardCmd.Flags().String("session", "", "Session whose exclusion set records the rejection")

	activityRemoveCmd.Flags().String("from", string(activity.StateSaved), "Collection to remove from: saved or discarded")

	activityListCmd.Flags().String("state", string(activity.StateSaved), "Collection: saved, discarded or historical")
	activityListCmd.Flags().IntP("limit", "n", 0, "Maximum activities to show (0 = all)")

	activityCmd.AddCommand(activitySaveCmd)
	activityCmd.AddCommand(activityDiscardCmd)
	activityCmd.AddCommand(activityRestoreCmd)
	activityCmd.AddCommand(activityRemoveCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityShowCmd)
}
