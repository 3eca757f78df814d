package main

import (
	"fmt"
	"path/filepath"

	"github.com/fentz26/robodesk/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Launch the interactive board",
		Annotations: map[string]string{asyncRestore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would corrupt the alternate screen.
			dbPath, err := a.cfg.DatabasePath()
			if err != nil {
				return err
			}
			f, err := openLogFile(filepath.Join(filepath.Dir(dbPath), "robodesk.log"))
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			a.setLogOutput(f)

			app := tui.New(a.manager, a.board, a.router)
			a.manager.Start()
			if err := app.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}
			return nil
		},
	}
}
