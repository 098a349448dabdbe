package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/session"
	"github.com/abhisek/studyplan/internal/spacedrep"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var completeCmd = &cobra.Command{
	Use:   "complete <plan> <session>",
	Short: "Record a finished session and schedule its reviews",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		f := cmd.Flags()
		minutes, _ := f.GetInt("time")
		confidence, _ := f.GetInt("confidence")
		difficulty, _ := f.GetInt("difficulty")
		solved, _ := f.GetInt("solved")
		correct, _ := f.GetInt("correct")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.CompleteSession(cmd.Context(), planID, e.userID, args[1], spacedrep.Completion{
			TimeStudiedSeconds: minutes * 60,
			QuestionsSolved:    solved,
			QuestionsCorrect:   correct,
			ConfidenceRating:   confidence,
			DifficultyRating:   difficulty,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		fmt.Fprintln(out, p.Paint(theme.Done, fmt.Sprintf("Completed %s session %s", res.Session.Kind, res.Session.ID)))
		if r := res.Reinforcement; r != nil {
			fmt.Fprintf(out, "Performance %.2f (%s): %d reviews scheduled\n", r.Score, r.Tier, len(r.Sessions))
			for _, s := range r.Sessions {
				fmt.Fprintf(out, "  %s  %-10s %3d min\n", plan.FormatDate(s.Date), s.Kind, s.DurationMinutes)
			}
			if len(r.Skipped) > 0 {
				fmt.Fprintln(out, p.Paint(theme.Hint, fmt.Sprintf("  skipped intervals (days): %v", r.Skipped)))
			}
		}
		return nil
	},
}

var postponeCmd = &cobra.Command{
	Use:   "postpone <plan> <session>",
	Short: "Move a session to a later study day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		target, _ := cmd.Flags().GetString("to")
		reason, _ := cmd.Flags().GetString("reason")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.svc.PostponeSession(cmd.Context(), planID, e.userID, args[1],
			session.Request{Reason: reason, Target: target})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		fmt.Fprintf(out, "Moved session from %s to %s (postponed %d times)\n",
			plan.FormatDate(res.PreviousDate), plan.FormatDate(res.NewDate), res.PostponementCount)
		if !res.CanPostpone {
			fmt.Fprintln(out, p.Paint(theme.Warning, "This session has reached the postponement limit."))
		}
		style := theme.Hint
		if res.Analysis.Recommendation == session.RecommendHigh {
			style = theme.Warning
		}
		fmt.Fprintln(out, p.Paint(style, fmt.Sprintf("Postponement rate %d%%: %s",
			res.Analysis.Rate, res.Analysis.Recommendation)))
		return nil
	},
}

var reinforceCmd = &cobra.Command{
	Use:   "reinforce <plan> <session>",
	Short: "Add a short reinforcement session for a completed session",
	Args:  cobra.ExactArgs(2),
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

		s, err := e.svc.Reinforce(cmd.Context(), planID, e.userID, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reinforcement %s on %s, %d min\n",
			s.ID, plan.FormatDate(s.Date), s.DurationMinutes)
		return nil
	},
}

func init() {
	f := completeCmd.Flags()
	f.Int("time", 0, "Minutes studied")
	f.Int("confidence", 0, "Confidence rating (1-5)")
	f.Int("difficulty", 0, "Perceived difficulty (1-5)")
	f.Int("solved", 0, "Questions solved")
	f.Int("correct", 0, "Questions answered correctly")
	_ = completeCmd.MarkFlagRequired("time")

	postponeCmd.Flags().String("to", "", "New date (YYYY-MM-DD); default is the next free study day")
	postponeCmd.Flags().String("reason", "", "Why the session is postponed")
}
