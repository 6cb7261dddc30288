package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/fallback"
	"github.com/sproutcare/sprout/internal/skills"
	"github.com/sproutcare/sprout/internal/ui/theme"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill taxonomy and backup activity templates",
}

var skillCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the skill categories",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, c := range skills.Categories() {
			fmt.Fprintln(out, c)
		}
	},
}

var skillNormalizeCmd = &cobra.Command{
	Use:   "normalize <text>",
	Short: `Check skill text such as "Cognitive: sorting, counting; Physical: balance"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := skills.Normalize(skills.FromText(args[0]))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range sk {
			fmt.Fprintf(out, "%-18s  %s\n", s.Category, s.Name)
		}
		return nil
	},
}

var skillTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the backup activity templates for an age and supervision level",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetInt("age")
		supName, _ := cmd.Flags().GetString("supervision")

		sup, err := fallback.ParseSupervision(supName)
		if err != nil {
			return err
		}
		band := fallback.BandForAge(age)
		cands := fallback.DefaultCatalog().Materialize(band, sup, "the child")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("Templates for %s, supervision %s", band, sup)))
		fmt.Fprintf(out, "%-14s  %-36s  %s\n", "Theme", "Title", "Independent")
		fmt.Fprintln(out, theme.Rule.Render(strings.Repeat("─", 66)))
		shown := 0
		for _, c := range cands {
			if sup == fallback.SupervisionNone && !c.SafeForIndependentPlay {
				continue
			}
			indep := "no"
			if c.SafeForIndependentPlay {
				indep = "yes"
			}
			fmt.Fprintf(out, "%-14s  %-36s  %s\n", c.ThemeLabel, truncate(c.Title, 36), indep)
			shown++
		}
		fmt.Fprintf(out, "\n%d templates\n", shown)
		return nil
	},
}

func init() {
	skillTemplatesCmd.Flags().Int("age", 4, "Age in years")
	skillTemplatesCmd.Flags().String("supervision", "minimal", "Adult supervision: none, minimal or full")

	skillCmd.AddCommand(skillCategoriesCmd)
	skillCmd.AddCommand(skillNormalizeCmd)
	skillCmd.AddCommand(skillTemplatesCmd)
}
