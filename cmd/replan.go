package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/engine"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var replanCmd = &cobra.Command{
	Use:   "replan <plan>",
	Short: "Repair the schedule after missed sessions or priority changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		priority, _ := cmd.Flags().GetBool("priority-change")
		preview, _ := cmd.Flags().GetBool("preview")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.ReplanSchedule(cmd.Context(), planID, e.userID,
			engine.ReplanOptions{PriorityChange: priority, Preview: preview})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		verb := "Applied"
		if res.Preview {
			verb = "Would apply"
		}
		fmt.Fprintf(out, "%s %s (%d overdue)\n", verb, res.Strategy, res.Report.OverdueCount())
		if res.Empty() {
			fmt.Fprintln(out, p.Paint(theme.Done, "Schedule already up to date."))
			return nil
		}
		fmt.Fprintf(out, "  deleted: %d\n  updated: %d\n  created: %d\n",
			len(res.Deleted), len(res.Updated), len(res.Created))
		if n := len(res.Unplaced); n > 0 {
			fmt.Fprintln(out, p.Paint(theme.Warning, fmt.Sprintf("  %d topics did not fit before the exam", n)))
		}
		if n := len(res.Unmoved); n > 0 {
			fmt.Fprintln(out, p.Paint(theme.Warning, fmt.Sprintf("  %d sessions found no free day", n)))
		}
		if res.Preview {
			fmt.Fprintln(out, p.Paint(theme.Hint, "Nothing was written. Run without --preview to apply."))
		}
		return nil
	},
}

func init() {
	replanCmd.Flags().Bool("priority-change", false, "Subject weights or topics changed since generation")
	replanCmd.Flags().Bool("preview", false, "Show the changes without writing them")
}
