package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/spf13/cobra"
)

type taskFlags struct {
	name     string
	priority string
	areas    []string
	start    string
	due      string
	column   string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Task name")
	cmd.Flags().StringVar(&f.priority, "priority", string(models.PriorityMedium), "Priority (Low, Medium, High)")
	cmd.Flags().StringSliceVar(&f.areas, "area", nil, "Area tags, comma separated or repeated")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD); empty clears on edit")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD); empty clears on edit")
	cmd.Flags().StringVar(&f.column, "column", "", "Board column id")
}

// record returns the fields set on the command line. With all set, every flag counts.
func (f *taskFlags) record(cmd *cobra.Command, all bool) map[string]any {
	rec := map[string]any{}
	set := func(flag, field string, v any) {
		if all || cmd.Flags().Changed(flag) {
			rec[field] = v
		}
	}
	set("name", "name", f.name)
	set("priority", "priority", f.priority)
	set("area", "area", f.areas)
	set("start", "startDate", f.start)
	set("due", "dueDate", f.due)
	if f.column != "" || cmd.Flags().Changed("column") {
		rec["columnId"] = f.column
	}
	return rec
}

func newTaskCmd(a *app) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage board tasks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireSession()
		},
	}

	var add taskFlags
	taskAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.board.CreateTask(add.record(cmd, true))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s\n", task.ID)
			return nil
		},
	}
	add.register(taskAddCmd)
	taskAddCmd.MarkFlagRequired("name")
	taskAddCmd.MarkFlagRequired("area")

	var listColumn string
	taskListCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var column models.ColumnID
			if listColumn != "" {
				c, ok := models.ParseColumn(listColumn)
				if !ok {
					return fmt.Errorf("unknown column %q", listColumn)
				}
				column = c
			}
			tasks, err := a.board.ListTasks(column)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	taskListCmd.Flags().StringVar(&listColumn, "column", "", "Filter by column (planning, todo, doing, done, review, improvement)")

	taskShowCmd := &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.taskID(args[0])
			if err != nil {
				return err
			}
			task, err := a.board.GetTask(id)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		},
	}

	var next, prev bool
	taskMoveCmd := &cobra.Command{
		Use:   "move [task-id] [column]",
		Short: "Move a task to a column, or one step with --next/--prev",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.taskID(args[0])
			if err != nil {
				return err
			}
			var task *models.Task
			switch {
			case len(args) == 2 && !next && !prev:
				task, err = a.board.MoveTask(id, models.ColumnID(args[1]))
			case len(args) == 1 && next && !prev:
				task, err = a.board.ShiftTask(id, 1)
			case len(args) == 1 && prev && !next:
				task, err = a.board.ShiftTask(id, -1)
			default:
				return fmt.Errorf("give either a column or one of --next/--prev")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", truncateID(task.ID), task.ColumnID.Title())
			return nil
		},
	}
	taskMoveCmd.Flags().BoolVar(&next, "next", false, "Move one column right")
	taskMoveCmd.Flags().BoolVar(&prev, "prev", false, "Move one column left")

	var edit taskFlags
	taskEditCmd := &cobra.Command{
		Use:   "edit [task-id]",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := edit.record(cmd, false)
			if len(patch) == 0 {
				return fmt.Errorf("nothing to change")
			}
			id, err := a.taskID(args[0])
			if err != nil {
				return err
			}
			task, err := a.board.UpdateTask(id, patch)
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), task)
			return nil
		},
	}
	edit.register(taskEditCmd)

	taskDeleteCmd := &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.taskID(args[0])
			if err != nil {
				return err
			}
			if err := a.board.DeleteTask(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", truncateID(id))
			return nil
		},
	}

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskMoveCmd, taskEditCmd, taskDeleteCmd)
	return taskCmd
}

func printTasks(out io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tCOLUMN\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", truncateID(t.ID), truncate(t.Name, 40), t.Priority, t.ColumnID.Title(), formatDate(t.DueDate))
	}
	w.Flush()
}

func printTask(out io.Writer, t *models.Task) {
	areas := make([]string, len(t.Area))
	for i, a := range t.Area {
		areas[i] = string(a)
	}
	fmt.Fprintf(out, "ID:       %s\n", t.ID)
	fmt.Fprintf(out, "Name:     %s\n", t.Name)
	fmt.Fprintf(out, "Priority: %s\n", t.Priority)
	fmt.Fprintf(out, "Area:     %s\n", strings.Join(areas, ", "))
	fmt.Fprintf(out, "Column:   %s\n", t.ColumnID.Title())
	fmt.Fprintf(out, "Start:    %s\n", formatDate(t.StartDate))
	fmt.Fprintf(out, "Due:      %s\n", formatDate(t.DueDate))
}

// --- Helpers ---

// resolveID expands a unique ID prefix, as printed by the list commands.
func resolveID(kind, prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%s id %q is ambiguous", kind, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return prefix, nil
	}
	return match, nil
}

func (a *app) taskID(prefix string) (string, error) {
	tasks, err := a.board.ListTasks("")
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", prefix, ids)
}

func formatDate(d *models.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
