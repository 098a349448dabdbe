package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/engine"
	"github.com/abhisek/studyplan/internal/scheduler"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate <plan>",
	Short: "Build the plan's schedule, replacing any existing sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return generate(cmd, e, planID)
	},
}

func generate(cmd *cobra.Command, e *env, planID int64) error {
	skip, _ := cmd.Flags().GetBool("no-rehearsals")
	final, _ := cmd.Flags().GetBool("final-stretch")
	res, err := e.svc.GenerateSchedule(cmd.Context(), planID, e.userID,
		engine.GenerateOptions{SkipRehearsals: skip, FinalStretch: final})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := theme.NewPainter(out)
	fmt.Fprintf(out, "Generated %d sessions over %d study days\n", res.TotalSessions, res.StudyDays)
	fmt.Fprintf(out, "Coverage:  %s %.0f%%\n", p.ProgressBar(res.Coverage, 20), res.Coverage*100)
	if res.Replaced > 0 {
		fmt.Fprintln(out, p.Paint(theme.Hint, fmt.Sprintf("Replaced %d existing sessions", res.Replaced)))
	}
	if n := len(res.Excluded); n > 0 {
		fmt.Fprintln(out, p.Paint(theme.Warning,
			fmt.Sprintf("Final stretch: %d topics left out, see 'studyplan exclusions %d'", n, planID)))
		return nil
	}
	if res.Infeasible {
		fmt.Fprintln(out, p.Paint(theme.Warning, scheduler.InfeasibleMessage(res.Topics, res.Slots)))
	}
	for _, t := range res.Unplaced {
		fmt.Fprintln(out, p.Paint(theme.Warning, "Not scheduled: "+t.Name))
	}
	return nil
}

func init() {
	generateCmd.Flags().Bool("no-rehearsals", false, "Leave out simulated exams")
	planImportCmd.Flags().Bool("no-rehearsals", false, "Leave out simulated exams when generating")
	generateCmd.Flags().Bool("final-stretch", false, "Record the topics that do not fit before the exam")
	planImportCmd.Flags().Bool("final-stretch", false, "Record the topics that do not fit when generating")
}
