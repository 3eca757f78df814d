package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type attachmentFlags struct {
	name      string
	runExit   string
	missions  string
	points    float64
	avgTime   float64
	swapTime  float64
	precision float64
	imageURL  string
}

func (f *attachmentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Attachment name")
	cmd.Flags().StringVar(&f.runExit, "run-exit", "", "Launch area the run leaves from")
	cmd.Flags().StringVar(&f.missions, "missions", "", "Missions solved by the run")
	cmd.Flags().Float64Var(&f.points, "points", 0, "Points scored (>= 0)")
	cmd.Flags().Float64Var(&f.avgTime, "avg-time", 0, "Average run time in seconds (>= 0)")
	cmd.Flags().Float64Var(&f.swapTime, "swap-time", 0, "Attachment swap time in seconds (>= 0)")
	cmd.Flags().Float64Var(&f.precision, "precision", 0, "Success rate, 0 to 100")
	cmd.Flags().StringVar(&f.imageURL, "image", "", "Image URL")
}

func (f *attachmentFlags) record(cmd *cobra.Command, all bool) map[string]any {
	rec := map[string]any{}
	set := func(flag, field string, v any) {
		if all || cmd.Flags().Changed(flag) {
			rec[field] = v
		}
	}
	set("name", "name", f.name)
	set("run-exit", "runExit", f.runExit)
	set("missions", "missions", f.missions)
	set("points", "points", f.points)
	set("avg-time", "avgTime", f.avgTime)
	set("swap-time", "swapTime", f.swapTime)
	set("precision", "precision", f.precision)
	set("image", "imageUrl", f.imageURL)
	return rec
}

func newAttachmentCmd(a *app) *cobra.Command {
	attachmentCmd := &cobra.Command{
		Use:     "attachment",
		Aliases: []string{"att"},
		Short:   "Manage robot run attachments",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.requireSession()
		},
	}

	var add attachmentFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an attachment",
		RunE: func(cmd *cobra.Command, args []string) error {
			att, err := a.board.CreateAttachment(add.record(cmd, true))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created attachment: %s\n", att.ID)
			return nil
		},
	}
	add.register(addCmd)
	for _, name := range []string{"name", "run-exit", "missions", "points", "avg-time", "swap-time", "precision"} {
		addCmd.MarkFlagRequired(name)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List attachments",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.board.ListAttachments()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No attachments found")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEXIT\tMISSIONS\tPOINTS\tAVG\tSWAP\tPRECISION")
			for _, at := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%gs\t%gs\t%g%%\n",
					truncateID(at.ID), truncate(at.Name, 30), at.RunExit, truncate(at.Missions, 30),
					at.Points, at.AvgTime, at.SwapTime, at.Precision)
			}
			return w.Flush()
		},
	}

	var edit attachmentFlags
	editCmd := &cobra.Command{
		Use:   "edit [attachment-id]",
		Short: "Edit attachment fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := edit.record(cmd, false)
			if len(patch) == 0 {
				return fmt.Errorf("nothing to change")
			}
			id, err := a.attachmentID(args[0])
			if err != nil {
				return err
			}
			att, err := a.board.UpdateAttachment(id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated attachment %s\n", truncateID(att.ID))
			return nil
		},
	}
	edit.register(editCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete [attachment-id]",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.attachmentID(args[0])
			if err != nil {
				return err
			}
			if err := a.board.DeleteAttachment(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted attachment %s\n", truncateID(id))
			return nil
		},
	}

	attachmentCmd.AddCommand(addCmd, listCmd, editCmd, deleteCmd)
	return attachmentCmd
}

func (a *app) attachmentID(prefix string) (string, error) {
	list, err := a.board.ListAttachments()
	if err != nil {
		return "", err
	}
	ids := make([]string, len(list))
	for i, at := range list {
		ids[i] = at.ID
	}
	return resolveID("attachment", prefix, ids)
}
