package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/spf13/cobra"
)

func newEvalCmd(a *app) *cobra.Command {
	evalCmd := &cobra.Command{
		Use:     "eval",
		Aliases: []string{"evaluation"},
		Short:   "Manage judging evaluations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireSession()
		},
	}

	var (
		name   string
		scores map[string]string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := map[string]any{"name": name}
			if len(scores) > 0 {
				parsed := make(map[string]any, len(scores))
				for k, v := range scores {
					f, err := strconv.ParseFloat(v, 64)
					if err != nil {
						return fmt.Errorf("score %s: %q is not a number", k, v)
					}
					parsed[k] = f
				}
				raw["scores"] = parsed
			}
			e, err := a.board.CreateEvaluation(raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created evaluation: %s\n", e.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Evaluation name (required)")
	addCmd.Flags().StringToStringVar(&scores, "score", nil, "Criterion scores, e.g. tema=7,clareza=9")
	addCmd.MarkFlagRequired("name")

	var clearScore bool
	scoreCmd := &cobra.Command{
		Use:   "score [evaluation-id] [criterion] [value]",
		Short: "Set or clear one criterion score (0 to 10)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.evaluationID(args[0])
			if err != nil {
				return err
			}
			key := models.CriterionKey(args[1])

			var e *models.Evaluation
			switch {
			case clearScore && len(args) == 2:
				e, err = a.board.ClearScore(id, key)
			case !clearScore && len(args) == 3:
				v, perr := strconv.ParseFloat(args[2], 64)
				if perr != nil {
					return fmt.Errorf("score %q is not a number", args[2])
				}
				e, err = a.board.SetScore(id, key, v)
			default:
				return fmt.Errorf("give a value, or --clear without one")
			}
			if err != nil {
				return err
			}
			printEvaluation(cmd, e)
			return nil
		},
	}
	scoreCmd.Flags().BoolVar(&clearScore, "clear", false, "Mark the criterion unscored")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List evaluations with totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.board.ListEvaluations()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No evaluations found")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSCORED\tTOTAL\tAVERAGE")
			for _, e := range list {
				avg := "-"
				if v, ok := e.Average(); ok {
					avg = strconv.FormatFloat(v, 'f', 2, 64)
				}
				fmt.Fprintf(w, "%s\t%s\t%d/%d\t%g\t%s\n",
					truncateID(e.ID), truncate(e.Name, 40), len(e.Scores), len(models.Criteria()), e.Total(), avg)
			}
			return w.Flush()
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [evaluation-id]",
		Short: "Show every criterion of an evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.evaluationID(args[0])
			if err != nil {
				return err
			}
			e, err := a.board.GetEvaluation(id)
			if err != nil {
				return err
			}
			printEvaluation(cmd, e)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [evaluation-id]",
		Short: "Delete an evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.evaluationID(args[0])
			if err != nil {
				return err
			}
			if err := a.board.DeleteEvaluation(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted evaluation %s\n", truncateID(id))
			return nil
		},
	}

	evalCmd.AddCommand(addCmd, scoreCmd, listCmd, showCmd, deleteCmd)
	return evalCmd
}

func printEvaluation(cmd *cobra.Command, e *models.Evaluation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:   %s\n", e.ID)
	fmt.Fprintf(out, "Name: %s\n", e.Name)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, c := range models.Criteria() {
		score := "-"
		if v, ok := e.Scores[c.Key]; ok {
			score = strconv.FormatFloat(v, 'g', -1, 64)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", c.Key, c.Label, score)
	}
	w.Flush()
	summary := fmt.Sprintf("Total: %g", e.Total())
	if avg, ok := e.Average(); ok {
		summary += fmt.Sprintf("  Average: %.2f", avg)
	}
	if e.Complete() {
		summary += "  (complete)"
	}
	fmt.Fprintln(out, strings.TrimSpace(summary))
}

func (a *app) evaluationID(prefix string) (string, error) {
	list, err := a.board.ListEvaluations()
	if err != nil {
		return "", err
	}
	ids := make([]string, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	return resolveID("evaluation", prefix, ids)
}
