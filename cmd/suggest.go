package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/fallback"
	"github.com/sproutcare/sprout/internal/session"
	"github.com/sproutcare/sprout/internal/suggest"
	"github.com/sproutcare/sprout/internal/ui/theme"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <student-id>",
	Short: "Suggest new activities for a student",
	Long: `Suggest new activities for a student.

Each round returns titles not shown earlier in the same session. Use --rounds to
ask for more within one run, and --save / --discard with the numbers printed
for the last round to keep or reject suggestions. With Redis configured
(SPROUT_REDIS_ADDR), pass --session to continue a session across runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID := args[0]
		count, _ := cmd.Flags().GetInt("count")
		rounds, _ := cmd.Flags().GetInt("rounds")
		supName, _ := cmd.Flags().GetString("supervision")
		outdoor, _ := cmd.Flags().GetBool("outdoor")
		materials, _ := cmd.Flags().GetStringSlice("materials")
		sessionID, _ := cmd.Flags().GetString("session")
		saveIdx, _ := cmd.Flags().GetIntSlice("save")
		discardIdx, _ := cmd.Flags().GetIntSlice("discard")

		sup, err := fallback.ParseSupervision(supName)
		if err != nil {
			return err
		}
		if rounds < 1 {
			return fmt.Errorf("--rounds must be at least 1")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		mgr, err := d.sessions(ctx)
		if err != nil {
			return err
		}
		sess, err := mgr.Resume(ctx, studentID, sessionID)
		if err != nil {
			return err
		}

		svc := d.suggester(ctx)
		opts := suggest.Options{
			Supervision:        sup,
			Outdoor:            outdoor,
			AvailableMaterials: materials,
			Count:              count,
		}

		out := cmd.OutOrStdout()
		var last *suggest.Batch
		for r := 1; r <= rounds; r++ {
			batch, err := svc.RequestSuggestions(ctx, sess, opts)
			if err != nil {
				if activity.KindOf(err) == activity.KindMissingPrecondition {
					return fmt.Errorf("%w\nrecord one first: sprout student recent %s --name ... --result ... --difficulty ... --observations ...", err, studentID)
				}
				return err
			}
			printBatch(out, r, rounds, batch)
			last = batch
		}

		if err := applyChoices(cmd, d, sess, studentID, last.Activities, saveIdx, discardIdx); err != nil {
			return err
		}

		fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("Session %s · %d titles excluded", sess.ID, sess.Tracker().Len())))
		return nil
	},
}

func printBatch(w io.Writer, round, rounds int, b *suggest.Batch) {
	if rounds > 1 {
		fmt.Fprintln(w, theme.Label.Render(fmt.Sprintf("Round %d", round)))
	}
	if b.Backup {
		msg := "Some suggestions were generated via backup"
		if b.Cause != "" {
			msg += ": " + b.Cause
		}
		if b.Degraded {
			msg += " (templates exhausted, combined activity included)"
		}
		fmt.Fprintln(w, theme.Backup.Render(msg))
	}
	for i, a := range b.Activities {
		printActivity(w, a, i+1)
	}
}

// applyChoices saves and discards activities of the last batch by their
// 1-based position.
func applyChoices(cmd *cobra.Command, d *deps, sess *session.Session, studentID string, acts []activity.Activity, save, discard []int) error {
	if err := checkIndexes(len(acts), save, discard); err != nil {
		return err
	}
	if len(save) == 0 && len(discard) == 0 {
		return nil
	}

	ctx := cmd.Context()
	lc := d.lifecycle()
	out := cmd.OutOrStdout()
	for _, i := range save {
		a, err := lc.Save(ctx, studentID, acts[i-1])
		if err != nil {
			return fmt.Errorf("save %d: %w", i, err)
		}
		fmt.Fprintf(out, "%s %s\n", theme.Saved.Render("saved"), a.Title)
	}
	for _, i := range discard {
		a, err := lc.Discard(ctx, sess, studentID, acts[i-1])
		if err != nil {
			return fmt.Errorf("discard %d: %w", i, err)
		}
		fmt.Fprintf(out, "%s %s\n", theme.Discarded.Render("discarded"), a.Title)
	}
	return nil
}

// checkIndexes validates 1-based positions into a batch of n.
func checkIndexes(n int, save, discard []int) error {
	chosen := make(map[int]string)
	for _, set := range []struct {
		name string
		idx  []int
	}{{"save", save}, {"discard", discard}} {
		for _, i := range set.idx {
			if i < 1 || i > n {
				return fmt.Errorf("--%s %d: choose a number from 1 to %d", set.name, i, n)
			}
			if prev, ok := chosen[i]; ok {
				if prev == set.name {
					return fmt.Errorf("activity %d listed twice in --%s", i, prev)
				}
				return fmt.Errorf("activity %d given to both --%s and --%s", i, prev, set.name)
			}
			chosen[i] = set.name
		}
	}
	return nil
}

func init() {
	suggestCmd.Flags().IntP("count", "n", 0, "Activities per round (default from config, 3)")
	suggestCmd.Flags().Int("rounds", 1, "Generation rounds to run in this session")
	suggestCmd.Flags().String("supervision", "minimal", "Adult supervision: none, minimal or full")
	suggestCmd.Flags().Bool("outdoor", false, "The activity will take place outdoors")
	suggestCmd.Flags().StringSlice("materials", nil, "Comma-separated materials on hand")
	suggestCmd.Flags().String("session", "", "Continue an earlier session by id")
	suggestCmd.Flags().IntSlice("save", nil, "Save activities from the last round by number")
	suggestCmd.Flags().IntSlice("discard", nil, "Discard activities from the last round by number")
}
