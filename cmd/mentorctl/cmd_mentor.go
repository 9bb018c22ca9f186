package main

import (
	"fmt"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/spf13/cobra"
)

func newMentorCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentor",
		Short: "Mentor commands: mentees, meet link, sessions, todos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireRole(cmd.Context(), model.RoleMentor)
			if err != nil {
				return err
			}
			d := a.dash.Mentor(cmd.Context(), cliScope, user)
			out := cmd.OutOrStdout()
			if d.MeetLink.Err != nil {
				fmt.Fprintf(out, "Meet link: error: %v\n", d.MeetLink.Err)
			} else {
				fmt.Fprintf(out, "Meet link: %s\n", orNone(d.MeetLink.Data))
			}
			fmt.Fprintf(out, "Mentees:   %s\n", countOrErr(len(d.Mentees.Data), d.Mentees.Err))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "mentees",
			Short: "List your assigned mentees",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				user, err := a.requireRole(cmd.Context(), model.RoleMentor)
				if err != nil {
					return err
				}
				mentees, err := a.conn().ListAssignedMentees(cmd.Context(), user.ID)
				if err != nil {
					return err
				}
				return printUsers(cmd.OutOrStdout(), mentees)
			},
		},
		newMeetLinkCmd(a),
		newLogSessionCmd(a),
		newAssignTodoCmd(a),
	)
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func newMeetLinkCmd(a *cliApp) *cobra.Command {
	var flags struct {
		set   string
		clear bool
	}

	cmd := &cobra.Command{
		Use:   "meet-link",
		Short: "Show, set (--set) or remove (--clear) your meet link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireRole(cmd.Context(), model.RoleMentor)
			if err != nil {
				return err
			}

			conn := a.conn()
			var link string
			switch {
			case flags.clear:
				link, err = conn.SetMeetLink(cmd.Context(), user.ID, "")
			case flags.set != "":
				link, err = conn.SetMeetLink(cmd.Context(), user.ID, flags.set)
			default:
				link, err = conn.GetMeetLink(cmd.Context(), user.ID)
			}
			if err != nil {
				return fmt.Errorf("meet link: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), orNone(link))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.set, "set", "", "New http(s) meet link")
	f.BoolVar(&flags.clear, "clear", false, "Remove the meet link")
	cmd.MarkFlagsMutuallyExclusive("set", "clear")
	return cmd
}

func newLogSessionCmd(a *cliApp) *cobra.Command {
	var rec model.NewSessionRecord

	cmd := &cobra.Command{
		Use:   "log-session",
		Short: "Log a session with a mentee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleMentor); err != nil {
				return err
			}
			saved, err := a.conn().LogSession(cmd.Context(), rec)
			if err != nil {
				return fmt.Errorf("log session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged session %s with %s on %s\n", saved.ID, saved.MenteeName, saved.Date)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&rec.MenteeID, "mentee", "", "Mentee ID (required)")
	f.StringVar(&rec.Date, "date", "", "Session date YYYY-MM-DD (default today)")
	f.IntVar(&rec.FluencyScore, "fluency", 0, "Fluency score 1-10 (required)")
	f.IntVar(&rec.ConfidenceScore, "confidence", 0, "Confidence score 1-10 (required)")
	f.StringVar(&rec.Notes, "notes", "", "Session notes (required)")
	f.StringVar(&rec.NextSteps, "next-steps", "", "Next steps (required)")
	for _, name := range []string{"mentee", "fluency", "confidence", "notes", "next-steps"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newAssignTodoCmd(a *cliApp) *cobra.Command {
	var todo model.NewTodo

	cmd := &cobra.Command{
		Use:   "assign-todo",
		Short: "Assign a task to a mentee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleMentor); err != nil {
				return err
			}
			created, err := a.conn().AssignTodo(cmd.Context(), todo)
			if err != nil {
				return fmt.Errorf("assign todo: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned todo %s %q due %s\n", created.ID, created.Title, created.DueDate)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&todo.MenteeID, "mentee", "", "Mentee ID (required)")
	f.StringVar(&todo.Title, "title", "", "Task title (required)")
	f.StringVar(&todo.Description, "description", "", "Task description (required)")
	f.StringVar(&todo.DueDate, "due", "", "Due date YYYY-MM-DD (required)")
	for _, name := range []string{"mentee", "title", "description", "due"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
