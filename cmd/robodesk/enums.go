package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/spf13/cobra"
)

func newEnumsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "enums",
		Short:       "List priorities, areas, board columns and judging criteria",
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Priorities:")
			for _, p := range models.Priorities() {
				fmt.Fprintf(w, "  %s\n", p)
			}
			fmt.Fprintln(w, "Areas:")
			for _, a := range models.Areas() {
				fmt.Fprintf(w, "  %s\n", a)
			}
			fmt.Fprintln(w, "Columns:")
			for _, c := range models.Columns() {
				fmt.Fprintf(w, "  %s\t%s\n", c.ID, c.Title)
			}
			fmt.Fprintf(w, "Criteria (%d to %d):\n", models.MinScore, models.MaxScore)
			for _, c := range models.Criteria() {
				fmt.Fprintf(w, "  %s\t%s\n", c.Key, c.Label)
			}
			return w.Flush()
		},
	}
}
