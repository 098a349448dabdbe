package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/plan"
	"github.com/abhisek/studyplan/internal/planfile"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage a plan's subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add <plan>",
	Short: "Add a subject with its topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		f := cmd.Flags()
		name, _ := f.GetString("name")
		weight, _ := f.GetFloat64("weight")
		topicList, _ := f.GetString("topics")
		difficulty, _ := f.GetInt("difficulty")
		questions, _ := f.GetInt("questions")

		sub := planfile.Subject{Name: name, Weight: weight}
		for _, t := range strings.Split(topicList, ";") {
			if t = strings.TrimSpace(t); t != "" {
				sub.Topics = append(sub.Topics, planfile.Topic{Name: t, Difficulty: difficulty, Questions: questions})
			}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, topics, err := e.svc.AddSubject(cmd.Context(), planID, e.userID, sub)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added subject %d %q with %d topics\n", s.ID, s.Name, len(topics))
		return nil
	},
}

var subjectWeightCmd = &cobra.Command{
	Use:   "set-weight <plan> <subject> <weight>",
	Short: "Change a subject's weight (1-5)",
	Long:  "Change a subject's weight (1-5). Run 'replan --priority-change' to apply it to the schedule.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID, err := parsePlanID(args[0])
		if err != nil {
			return err
		}
		subjectID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return &plan.ValidationError{Field: "subject", Value: args[1], Reason: "must be a subject id"}
		}
		weight, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return &plan.ValidationError{Field: "weight", Value: args[2], Reason: "must be a number"}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.SetSubjectWeight(cmd.Context(), planID, e.userID, subjectID, weight); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Subject %d weight set to %g\n", subjectID, weight)
		return nil
	},
}

func init() {
	f := subjectAddCmd.Flags()
	f.String("name", "", "Subject name")
	f.Float64("weight", 1, "Subject weight (1-5, higher is more important)")
	f.String("topics", "", "Topic names separated by ';'")
	f.Int("difficulty", 0, "Difficulty of every topic (1 easy, 2 medium, 3 hard)")
	f.Int("questions", 0, "Question count of every topic")
	_ = subjectAddCmd.MarkFlagRequired("name")

	subjectCmd.AddCommand(subjectAddCmd)
	subjectCmd.AddCommand(subjectWeightCmd)
}
