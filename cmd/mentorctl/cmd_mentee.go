package main

import (
	"fmt"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/spf13/cobra"
)

func newMenteeCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentee",
		Short: "Mentee commands: mentor, todos, resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireRole(cmd.Context(), model.RoleMentee)
			if err != nil {
				return err
			}
			d := a.dash.Mentee(cmd.Context(), cliScope, user)
			out := cmd.OutOrStdout()
			switch {
			case d.Mentor.Err != nil:
				fmt.Fprintf(out, "Mentor:    error: %v\n", d.Mentor.Err)
			case d.Mentor.Data == nil:
				fmt.Fprintln(out, "Mentor:    (not assigned)")
			default:
				fmt.Fprintf(out, "Mentor:    %s\n", d.Mentor.Data.MentorName)
				fmt.Fprintf(out, "Meet link: %s\n", orNone(d.Mentor.Data.MeetLink))
			}
			fmt.Fprintf(out, "Todos:     %s\n", countOrErr(len(d.Todos.Data), d.Todos.Err))
			fmt.Fprintf(out, "Resources: %s\n", countOrErr(len(d.Resources.Data), d.Resources.Err))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "mentor",
			Short: "Show your mentor and meet link",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := a.requireRole(cmd.Context(), model.RoleMentee)
				if err != nil {
					return err
				}
				info, err := a.conn().GetMentorForMentee(cmd.Context(), user.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if info == nil {
					fmt.Fprintln(out, "No mentor assigned yet")
					return nil
				}
				fmt.Fprintf(out, "Mentor:    %s\n", info.MentorName)
				fmt.Fprintf(out, "Meet link: %s\n", orNone(info.MeetLink))
				return nil
			},
		},
		&cobra.Command{
			Use:   "todos",
			Short: "List your todos",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := a.requireRole(cmd.Context(), model.RoleMentee)
				if err != nil {
					return err
				}
				todos, err := a.conn().ListTodos(cmd.Context(), user.ID)
				if err != nil {
					return err
				}
				return printTodos(cmd.OutOrStdout(), todos)
			},
		},
		&cobra.Command{
			Use:   "toggle <todo-id>",
			Short: "Toggle a todo between done and not done",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := a.requireRole(cmd.Context(), model.RoleMentee); err != nil {
					return err
				}
				todo, err := a.conn().ToggleTodo(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("toggle todo: %w", err)
				}
				status := "not done"
				if todo.Completed {
					status = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Todo %s %q is now %s\n", todo.ID, todo.Title, status)
				return nil
			},
		},
		&cobra.Command{
			Use:   "resources",
			Short: "List learning resources",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if _, err := a.requireRole(cmd.Context(), model.RoleMentee); err != nil {
					return err
				}
				resources, err := a.conn().ListMenteeResources(cmd.Context())
				if err != nil {
					return err
				}
				return printResources(cmd.OutOrStdout(), resources)
			},
		},
	)
	return cmd
}
