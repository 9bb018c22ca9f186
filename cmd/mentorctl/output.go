package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Freeeeeet/mentor_connect_bot/internal/model"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func printUsers(out io.Writer, users []*model.User) error {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Name, u.Role)
	}
	return w.Flush()
}

func printResources(out io.Writer, resources []*model.Resource) error {
	if len(resources) == 0 {
		fmt.Fprintln(out, "No resources")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTITLE\tUPLOADED\tURL")
	for _, r := range resources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Title, r.UploadedAt, r.URL)
	}
	return w.Flush()
}

func printMappings(out io.Writer, mappings []*model.MentorMenteeMapping) error {
	if len(mappings) == 0 {
		fmt.Fprintln(out, "No mappings")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "MENTOR ID\tMENTOR\tMENTEE ID\tMENTEE")
	for _, m := range mappings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.MentorID, m.MentorName, m.MenteeID, m.MenteeName)
	}
	return w.Flush()
}

func printSessions(out io.Writer, records []*model.SessionRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(out, "No sessions")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tDATE\tMENTOR\tMENTEE\tFLUENCY\tCONFIDENCE\tNOTES\tNEXT STEPS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.ID, r.Date, r.MentorName, r.MenteeName, r.FluencyScore, r.ConfidenceScore, r.Notes, r.NextSteps)
	}
	return w.Flush()
}

func printTodos(out io.Writer, todos []*model.Todo) error {
	if len(todos) == 0 {
		fmt.Fprintln(out, "No todos")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tDONE\tDUE\tTITLE\tDESCRIPTION")
	for _, t := range todos {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\n", t.ID, done, t.DueDate, t.Title, t.Description)
	}
	return w.Flush()
}
