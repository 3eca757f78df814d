package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/robodesk/internal/auth"
	"github.com/fentz26/robodesk/internal/models"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a roster member",
		Long:  "Sign in as a roster member. Without --password the password is read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if err := a.manager.Authenticate(username, password); err != nil {
				if errors.Is(err, auth.ErrInvalidCredentials) {
					return fmt.Errorf("login failed: %w", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := a.manager.Username()
			a.manager.Logout()
			if user == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", user)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			role := "member"
			if a.manager.IsAdmin() {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", a.manager.Username(), role)
			return nil
		},
	}
}

func newActivityCmd(a *app) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show login and logout history, newest first",
		Long:  "Show login and logout history, newest first. Admins see every member; others see only their own entries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			me := a.manager.Username()

			var (
				entries []models.ActivityEntry
				err     error
			)
			switch {
			case a.manager.IsAdmin() && user == "":
				entries, err = a.activity.Entries()
			case a.manager.IsAdmin():
				entries, err = a.activity.ForUser(user)
			case user != "" && user != me:
				return fmt.Errorf("only admins can view another member's activity")
			default:
				entries, err = a.activity.ForUser(me)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tUSER\tACTION")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Username, e.Action)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Only show entries for this member")
	return cmd
}
