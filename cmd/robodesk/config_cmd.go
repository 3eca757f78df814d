package main

import (
	"fmt"
	"os"

	"github.com/fentz26/robodesk/internal/auth"
	"github.com/fentz26/robodesk/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect or create the configuration file",
		Annotations: map[string]string{skipSetup: "true"},
	}

	showCmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			redacted := *cfg
			redacted.Roster = nil
			for _, m := range cfg.Roster {
				m.Password = "********"
				redacted.Roster = append(redacted.Roster, m)
			}
			data, err := yaml.Marshal(&redacted)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				p, err := config.HomePath()
				if err != nil {
					return err
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg := config.DefaultConfig()
			cfg.Roster = auth.DefaultMembers()
			if err := config.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(showCmd, initCmd)
	return configCmd
}
