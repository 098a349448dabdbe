package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/ui/table"
	"github.com/abhisek/studyplan/internal/ui/theme"
)

var eventsCmd = &cobra.Command{
	Use:   "events <plan>",
	Short: "List the recorded history of a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		after, _ := cmd.Flags().GetInt64("after")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.svc.Events(cmd.Context(), planID, e.userID, store.QueryOpts{Limit: limit, After: after})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events recorded.")
			return nil
		}

		tb := &table.Table{
			Columns: []table.Column{
				{Title: "Seq", Align: table.Right},
				{Title: "Time"},
				{Title: "Action"},
				{Title: "Detail", Flex: true},
			},
			MaxWidth: theme.TerminalWidth(out, 160),
		}
		for _, ev := range events {
			tb.Append(theme.Body, fmt.Sprint(ev.Sequence),
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Action, ev.Detail)
		}
		return tb.Render(out, theme.NewPainter(out))
	},
}

func init() {
	eventsCmd.Flags().Int("limit", 50, "Maximum number of events (0 = all)")
	eventsCmd.Flags().Int64("after", 0, "Only events with a sequence above this")
}
