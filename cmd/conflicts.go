package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/progress"
	"github.com/abhisek/studyplan/internal/ui/table"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <plan>",
	Short: "Find overloaded days, repeated first studies and long gaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		resolve, _ := cmd.Flags().GetBool("resolve")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		if !resolve {
			c, err := e.svc.Conflicts(ctx, planID, e.userID)
			if err != nil {
				return err
			}
			return printConflicts(out, p, c)
		}

		res, err := e.svc.ResolveConflicts(ctx, planID, e.userID)
		if err != nil {
			return err
		}
		if res.Empty() {
			fmt.Fprintln(out, p.Paint(theme.Done, "Nothing to resolve."))
		} else {
			fmt.Fprintf(out, "Resolved conflicts\n  deleted: %d\n  moved:   %d\n", len(res.Deleted), len(res.Updated))
		}
		for _, d := range res.Unresolved {
			fmt.Fprintln(out, p.Paint(theme.Warning, "  no room to relieve "+plan.FormatDate(d)))
		}
		if res.Remaining.Total() > 0 {
			fmt.Fprintln(out)
			return printConflicts(out, p, res.Remaining)
		}
		return nil
	},
}

func printConflicts(out io.Writer, p theme.Painter, c *progress.Conflicts) error {
	if c.Total() == 0 {
		fmt.Fprintln(out, p.Paint(theme.Done, "No conflicts."))
		return nil
	}
	fmt.Fprintln(out, p.Paint(theme.Title, fmt.Sprintf("%d conflicts", c.Total())))
	tb := &table.Table{
		Columns: []table.Column{
			{Title: "Kind"},
			{Title: "When"},
			{Title: "Detail", Flex: true},
			{Title: "Severity"},
		},
		MaxWidth: theme.TerminalWidth(out, 120),
	}
	for _, d := range c.Overloaded {
		tb.Append(severityStyle(d.Severity), "overloaded", plan.FormatDate(d.Date),
			fmt.Sprintf("%d sessions, %d min", d.Sessions, d.Minutes), string(d.Severity))
	}
	for _, d := range c.Duplicates {
		tb.Append(theme.Warning, "duplicate", plan.FormatDate(d.Sessions[0].Date),
			fmt.Sprintf("%s topic %d studied %d times", d.Subject, d.TopicID, len(d.Sessions)), string(progress.SeverityWarning))
	}
	for _, g := range c.Gaps {
		tb.Append(severityStyle(g.Severity), "gap", plan.FormatDate(g.From)+" .. "+plan.FormatDate(g.To),
			fmt.Sprintf("%d days without sessions", g.Days), string(g.Severity))
	}
	if err := tb.Render(out, p); err != nil {
		return err
	}
	if c.Critical() {
		fmt.Fprintln(out, p.Paint(theme.Hint, "Run with --resolve to repair overloaded days and duplicates."))
	}
	return nil
}

func severityStyle(s progress.Severity) lipgloss.Style {
	if s == progress.SeverityCritical {
		return theme.Overdue
	}
	return theme.Warning
}

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions <plan>",
	Short: "List the topics left out by final stretch generation",
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
		excluded, err := e.svc.Exclusions(ctx, planID, e.userID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := theme.NewPainter(out)
		if len(excluded) == 0 {
			fmt.Fprintln(out, p.Paint(theme.Done, "No topics excluded."))
			return nil
		}
		names, err := topicNames(ctx, e, planID)
		if err != nil {
			return err
		}
		tb := &table.Table{
			Columns: []table.Column{
				{Title: "Topic", Flex: true},
				{Title: "Prio", Align: table.Right},
				{Title: "Reason", Flex: true},
			},
			MaxWidth: theme.TerminalWidth(out, 160),
		}
		for _, x := range excluded {
			tb.Append(theme.Body, names[x.TopicID], fmt.Sprintf("%.1f", x.Priority), x.Reason)
		}
		fmt.Fprintln(out, p.Paint(theme.Warning, fmt.Sprintf("%d topics left out", len(excluded))))
		return tb.Render(out, p)
	},
}

func init() {
	conflictsCmd.Flags().Bool("resolve", false, "Delete duplicate first studies and move reviews off overloaded days")
}
