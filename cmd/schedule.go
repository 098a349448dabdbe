package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/ui/table"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <plan>",
	Short: "Show the plan's sessions by day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		from, err := dateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := dateFlag(cmd, "to")
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		days, err := e.svc.Schedule(ctx, planID, e.userID, from, to)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(days) == 0 {
			fmt.Fprintln(out, "No sessions scheduled. Run 'studyplan generate' first.")
			return nil
		}
		names, err := topicNames(ctx, e, planID)
		if err != nil {
			return err
		}

		p := theme.NewPainter(out)
		today := e.svc.Today()
		for i, d := range days {
			if i > 0 {
				fmt.Fprintln(out)
			}
			minutes := 0
			for _, s := range d.Sessions {
				minutes += s.DurationMinutes
			}
			fmt.Fprintln(out, p.Paint(theme.Title, fmt.Sprintf("%s %s  (%d min)",
				plan.FormatDate(d.Date), d.Date.Weekday().String()[:3], minutes)))
			if err := sessionTable(d.Sessions, names, today, out).Render(out, p); err != nil {
				return err
			}
		}
		return nil
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue <plan>",
	Short: "List pending sessions dated before today",
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
		report, err := e.svc.CheckOverdue(ctx, planID, e.userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		if report.Count == 0 {
			fmt.Fprintln(out, p.Paint(theme.Done, "Nothing overdue."))
			return nil
		}
		names, err := topicNames(ctx, e, planID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p.Paint(theme.Overdue, fmt.Sprintf("%d overdue sessions", report.Count)))
		if err := sessionTable(report.Sessions, names, e.svc.Today(), out).Render(out, p); err != nil {
			return err
		}
		if report.NeedsReplanning {
			fmt.Fprintln(out)
			fmt.Fprintln(out, p.Paint(theme.Hint,
				fmt.Sprintf("Run 'studyplan replan %d' (strategy: %s)", planID, report.Strategy)))
		}
		return nil
	},
}

func topicNames(ctx context.Context, e *env, planID int64) (map[int64]string, error) {
	detail, err := e.svc.GetPlan(ctx, planID, e.userID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(detail.Topics))
	for _, t := range detail.Topics {
		names[t.ID] = t.Name
	}
	return names, nil
}

func sessionTable(sessions []plan.Session, names map[int64]string, today time.Time, out io.Writer) *table.Table {
	tb := &table.Table{
		Columns: []table.Column{
			{Title: "Date"},
			{Title: "Kind"},
			{Title: "Subject", Flex: true},
			{Title: "Topic", Flex: true},
			{Title: "Min", Align: table.Right},
			{Title: "Prio", Align: table.Right},
			{Title: "Status"},
			{Title: "ID"},
		},
		MaxWidth: theme.TerminalWidth(out, 160),
	}
	for _, s := range sessions {
		topic := ""
		if s.TopicID != nil {
			topic = names[*s.TopicID]
		}
		status := string(s.Status)
		if s.IsOverdue(today) {
			status = "overdue"
		}
		if s.Postponements > 0 {
			status += fmt.Sprintf(" (+%d)", s.Postponements)
		}
		tb.Append(theme.SessionStyle(s, today),
			plan.FormatDate(s.Date), string(s.Kind), s.Subject, topic,
			fmt.Sprint(s.DurationMinutes), fmt.Sprintf("%.1f", s.Priority), status, s.ID)
	}
	return tb
}

func init() {
	scheduleCmd.Flags().String("from", "", "First date to show (YYYY-MM-DD)")
	scheduleCmd.Flags().String("to", "", "Last date to show (YYYY-MM-DD)")
}
