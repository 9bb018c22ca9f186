package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
	"github.com/spf13/cobra"
)

func newAdminCmd(a *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin commands: users, mappings, resources, sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			d := a.dash.Admin(cmd.Context(), cliScope)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Resources: %s\n", countOrErr(len(d.Resources.Data), d.Resources.Err))
			fmt.Fprintf(out, "Sessions:  %s\n", countOrErr(len(d.Sessions.Data), d.Sessions.Err))
			fmt.Fprintf(out, "Mappings:  %s\n", countOrErr(len(d.Mappings.Data), d.Mappings.Err))
			return nil
		},
	}

	cmd.AddCommand(
		newCreateUserCmd(a),
		newMapCmd(a),
		adminListCmd(a, "mappings", "List mentor/mentee mappings", func(cmd *cobra.Command) error {
			mappings, err := a.conn().ListMappings(cmd.Context())
			if err != nil {
				return err
			}
			return printMappings(cmd.OutOrStdout(), mappings)
		}),
		adminListCmd(a, "mentors", "List mentors", func(cmd *cobra.Command) error {
			users, err := a.conn().ListMentors(cmd.Context())
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), users)
		}),
		adminListCmd(a, "mentees", "List mentees", func(cmd *cobra.Command) error {
			users, err := a.conn().ListMentees(cmd.Context())
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), users)
		}),
		adminListCmd(a, "resources", "List uploaded resources", func(cmd *cobra.Command) error {
			resources, err := a.conn().ListResources(cmd.Context())
			if err != nil {
				return err
			}
			return printResources(cmd.OutOrStdout(), resources)
		}),
		adminListCmd(a, "sessions", "List session records", func(cmd *cobra.Command) error {
			records, err := a.conn().ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), records)
		}),
		newUploadCmd(a),
	)
	return cmd
}

func countOrErr(n int, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return fmt.Sprint(n)
}

// adminListCmd подкоманда без флагов, доступная только администратору
func adminListCmd(a *cliApp, use, short string, run func(cmd *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			return run(cmd)
		},
	}
}

func newCreateUserCmd(a *cliApp) *cobra.Command {
	var flags struct {
		name     string
		role     string
		password string
	}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a Mentor or Mentee account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			role, err := model.ParseRole(flags.role)
			if err != nil {
				return err
			}
			user, err := a.conn().CreateUser(cmd.Context(), flags.name, role, flags.password)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (id %s)\n", user.Role, user.Name, user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.name, "name", "", "User name (required)")
	f.StringVar(&flags.role, "role", "", "Mentor or Mentee (required)")
	f.StringVar(&flags.password, "password", "", "Initial password, at least 6 characters (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newMapCmd(a *cliApp) *cobra.Command {
	var flags struct {
		mentorID string
		menteeID string
	}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Assign a mentor to a mentee (replaces the mentee's current mentor)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			res, err := a.conn().MapMentor(cmd.Context(), flags.mentorID, flags.menteeID)
			if err != nil {
				return fmt.Errorf("map mentor: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (mentor %s, mentee %s)\n", res.Message, res.MentorID, res.MenteeID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.mentorID, "mentor", "", "Mentor ID (required)")
	f.StringVar(&flags.menteeID, "mentee", "", "Mentee ID (required)")
	_ = cmd.MarkFlagRequired("mentor")
	_ = cmd.MarkFlagRequired("mentee")
	return cmd
}

func newUploadCmd(a *cliApp) *cobra.Command {
	var flags struct {
		title string
		file  string
	}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a PDF resource",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireRole(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}

			file, err := os.Open(flags.file)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer file.Close()

			title := flags.title
			if title == "" {
				title = filepath.Base(flags.file)
			}

			resource, err := a.conn().UploadResource(cmd.Context(), title, filepath.Base(flags.file), file)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %q (id %s): %s\n", resource.Title, resource.ID, resource.URL)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.title, "title", "", "Resource title (defaults to the file name)")
	f.StringVarP(&flags.file, "file", "f", "", "Path to the PDF file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
