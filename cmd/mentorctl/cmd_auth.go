package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *cliApp) *cobra.Command {
	var flags struct {
		name     string
		role     string
		password string
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Long:  "Log in with name, role and password. Without --password the password is read from stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := model.ParseRole(flags.role)
			if err != nil {
				return err
			}

			password := flags.password
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			user, err := a.auth.Login(cmd.Context(), cliScope, flags.name, role, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.name, "name", "", "User name (required)")
	f.StringVar(&flags.role, "role", "", "Admin, Mentor or Mentee (required)")
	f.StringVar(&flags.password, "password", "", "Password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newLogoutCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context(), cliScope); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.auth.CurrentUser(cmd.Context(), cliScope)
			if err != nil {
				return fmt.Errorf("read session: %w", err)
			}
			out := cmd.OutOrStdout()
			if user == nil {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "ID:    %s\n", user.ID)
			fmt.Fprintf(out, "Name:  %s\n", user.Name)
			fmt.Fprintf(out, "Role:  %s\n", user.Role)
			return nil
		},
	}
}
