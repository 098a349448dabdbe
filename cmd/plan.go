package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/planfile"
	"github.com/abhisek/studyplan/internal/ui/table"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage study plans",
}

var planCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty plan (add subjects with 'subject add')",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		name, _ := f.GetString("name")
		hours, _ := f.GetFloat64("hours")
		days, _ := f.GetInt("days")
		perDay, _ := f.GetInt("questions-per-day")
		perWeek, _ := f.GetInt("questions-per-week")
		exam, err := dateFlag(cmd, "exam")
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.CreatePlan(cmd.Context(), e.userID, &planfile.Definition{
			Name:             name,
			ExamDate:         exam,
			DailyHours:       hours,
			DaysPerWeek:      days,
			QuestionsPerDay:  perDay,
			QuestionsPerWeek: perWeek,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created plan %d %q (exam %s)\n", p.ID, p.Name, plan.FormatDate(p.ExamDate))
		return nil
	},
}

var planImportCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Create a plan with its subjects and topics from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := planfile.Load(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.CreatePlan(cmd.Context(), e.userID, def)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported plan %d %q: %d subjects, %d topics\n",
			p.ID, p.Name, len(def.Subjects), def.TopicCount())

		if gen, _ := cmd.Flags().GetBool("generate"); gen {
			return generate(cmd, e, p.ID)
		}
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		plans, err := e.svc.ListPlans(cmd.Context(), e.userID)
		if err != nil {
			return fmt.Errorf("list plans: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(plans) == 0 {
			fmt.Fprintln(out, "No plans yet. Create one with 'studyplan plan create' or 'studyplan plan import'.")
			return nil
		}

		today := e.svc.Today()
		tb := &table.Table{
			Columns: []table.Column{
				{Title: "ID", Align: table.Right},
				{Title: "Name", Flex: true},
				{Title: "Exam"},
				{Title: "Days left", Align: table.Right},
				{Title: "Hours/day", Align: table.Right},
			},
			MaxWidth: theme.TerminalWidth(out, 100),
		}
		for _, p := range plans {
			style := theme.Body
			left := plan.DaysBetween(today, p.ExamDate)
			if left <= 0 {
				style = theme.Review
			}
			tb.Append(style,
				fmt.Sprint(p.ID), p.Name, plan.FormatDate(p.ExamDate),
				fmt.Sprint(left), fmt.Sprintf("%.1f", p.DailyHours))
		}
		return tb.Render(out, theme.NewPainter(out))
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan>",
	Short: "Show a plan's syllabus and progress",
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

		ctx := cmd.Context()
		detail, err := e.svc.GetPlan(ctx, planID, e.userID)
		if err != nil {
			return err
		}
		report, err := e.svc.Progress(ctx, planID, e.userID)
		if err != nil {
			return err
		}
		analysis, err := e.svc.PostponementAnalysis(ctx, planID, e.userID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		pl := detail.Plan
		fmt.Fprintln(out, p.Paint(theme.Title, pl.Name))
		fmt.Fprintf(out, "Exam:      %s (%d days left)\n", plan.FormatDate(pl.ExamDate), report.DaysUntilExam)
		fmt.Fprintf(out, "Study:     %.1f h/day, pattern %d\n", pl.DailyHours, pl.DaysPerWeek)
		fmt.Fprintf(out, "Progress:  %s %.0f%% (%d/%d topics)\n",
			p.ProgressBar(report.ProgressPercentage/100, 20), report.ProgressPercentage,
			report.CompletedTopics, report.TotalTopics)
		fmt.Fprintf(out, "Pace:      %.2f topics/day, need %.2f\n", report.CurrentPace, report.RequiredPace)
		if !report.OnTrack {
			fmt.Fprintln(out, p.Paint(theme.Warning, "           behind the required pace"))
		}
		if n := report.OverdueCount(); n > 0 {
			fmt.Fprintln(out, p.Paint(theme.Overdue, fmt.Sprintf("Overdue:   %d sessions", n)))
		}
		fmt.Fprintf(out, "Postponed: %d of %d sessions (%d%%) %s\n", analysis.Postponements, analysis.TotalSessions, analysis.Rate,
			p.Paint(theme.Hint, analysis.Recommendation))
		fmt.Fprintln(out)

		subjects := make(map[int64]string, len(detail.Subjects))
		for _, s := range detail.Subjects {
			subjects[s.ID] = fmt.Sprintf("%s (w%g)", s.Name, s.Weight)
		}
		tb := &table.Table{
			Columns: []table.Column{
				{Title: "Subject", Flex: true},
				{Title: "Topic", Flex: true},
				{Title: "Diff", Align: table.Right},
				{Title: "Questions", Align: table.Right},
				{Title: "Priority", Align: table.Right},
				{Title: "Done"},
			},
			MaxWidth: theme.TerminalWidth(out, 100),
		}
		for _, t := range detail.Topics {
			style, done := theme.Body, ""
			if report.CompletedTopicIDs[t.ID] {
				style, done = theme.Done, "yes"
			}
			tb.Append(style, subjects[t.SubjectID], t.Name,
				fmt.Sprint(t.Difficulty), fmt.Sprint(t.QuestionCount),
				fmt.Sprintf("%.1f", t.CalculatedPriority), done)
		}
		return tb.Render(out, p)
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan>",
	Short: "Delete a plan and all of its sessions",
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

		if err := e.svc.DeletePlan(cmd.Context(), planID, e.userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %d\n", planID)
		return nil
	},
}

func init() {
	f := planCreateCmd.Flags()
	f.String("name", "", "Plan name")
	f.String("exam", "", "Exam date (YYYY-MM-DD)")
	f.Float64("hours", 4, "Study hours per day")
	f.Int("days", 5, "Weekday pattern: 1 Mon, 2 Mon/Thu, 3 Mon/Wed/Fri, 4 Mon/Tue/Thu/Fri, 5 weekdays, 6 Mon-Sat, 7 every day")
	f.Int("questions-per-day", 0, "Daily question goal")
	f.Int("questions-per-week", 0, "Weekly question goal")
	_ = planCreateCmd.MarkFlagRequired("name")
	_ = planCreateCmd.MarkFlagRequired("exam")

	planImportCmd.Flags().Bool("generate", false, "Generate the schedule after importing")

	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planImportCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planDeleteCmd)
}
