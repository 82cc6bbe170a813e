// ABOUTME: Linked-account commands for the webtop CLI
// ABOUTME: Lists linked students and aggregates inbox messages across them

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/schoolkit/webtop/internal/styles"
	"github.com/schoolkit/webtop/webtop"
)

// maxAggregatedMessages caps the messages shown per student by accounts inbox.
const maxAggregatedMessages = 20

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List student accounts linked to this login",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			return runAccounts(ctx, c, cmd.OutOrStdout())
		})
	},
}

var accountsInboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Show inbox messages for every linked student",
	Long: `Switch the session to each linked student in turn and print the first
page of that student's inbox. Failures for one student are reported and the
remaining students are still processed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			return runAccountsInbox(ctx, c, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsInboxCmd)
}

func runAccounts(ctx context.Context, c *webtop.Client, w io.Writer) error {
	students, err := c.GetLinkedStudents(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		out := "[]"
		for _, s := range students {
			out, _ = sjson.SetRaw(out, "-1", s.Raw.Raw)
		}
		return printPayload(w, out)
	}

	session, _ := c.Session()
	rows := make([][]string, 0, len(students))
	current := make(map[int]bool)
	for i, s := range students {
		rows = append(rows, []string{s.StudentID, s.StudentLogin, s.SchoolName})
		if s.StudentID != "" && s.StudentID == session.StudentID {
			current[i] = true
		}
	}
	fmt.Fprintf(w, "Found %d students linked to this account.\n", len(students))
	if len(rows) > 0 {
		fmt.Fprintln(w, styles.Table([]string{"Student ID", "Login", "School"}, rows, current))
	}
	return nil
}

// studentInbox is the aggregated inbox of one linked student.
type studentInbox struct {
	Student  webtop.LinkedStudent
	Name     string
	School   string
	Messages []gjson.Result
	Err      error
}

func runAccountsInbox(ctx context.Context, c *webtop.Client, w io.Writer) error {
	if _, err := c.Login(ctx); err != nil {
		return err
	}
	students, err := c.GetLinkedStudents(ctx)
	if err != nil {
		return err
	}

	inboxes, err := collectStudentInboxes(ctx, c, students)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printPayload(w, inboxesJSON(inboxes))
	}
	fmt.Fprintln(w, formatInboxesHuman(inboxes))
	return nil
}

// collectStudentInboxes visits linked students one at a time, since switching replaces the session.
// Per-student failures are kept in the result; a cancelled context aborts the whole run.
func collectStudentInboxes(ctx context.Context, c *webtop.Client, students []webtop.LinkedStudent) ([]studentInbox, error) {
	inboxes := make([]studentInbox, 0, len(students))
	for _, student := range students {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inbox := fetchStudentInbox(ctx, c, student)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inboxes = append(inboxes, inbox)
	}
	return inboxes, nil
}

func fetchStudentInbox(ctx context.Context, c *webtop.Client, student webtop.LinkedStudent) studentInbox {
	inbox := studentInbox{Student: student, Name: student.StudentLogin, School: student.SchoolName}

	session, err := c.SwitchStudent(ctx, student.StudentID, "")
	if err != nil {
		slog.Warn("Failed to switch student", "student_id", student.StudentID, "error", err)
		inbox.Err = fmt.Errorf("switch to %s: %w", student.SchoolName, err)
		return inbox
	}
	if session.SchoolName != "" {
		inbox.School = session.SchoolName
	}

	// The switched session may still carry the parent's name; the dashboard names the child.
	if dashboard, err := c.GetStudents(ctx); err == nil {
		if name := dashboardChildName(dashboard); name != "" {
			inbox.Name = name
		}
	} else {
		slog.Warn("Failed to load dashboard", "student_id", student.StudentID, "error", err)
	}

	result, err := c.GetMessagesInbox(ctx, webtop.WithPage(1))
	if err != nil {
		inbox.Err = fmt.Errorf("fetch messages: %w", err)
		return inbox
	}
	inbox.Messages = result.Get("data").Array()
	return inbox
}

func inboxesJSON(inboxes []studentInbox) string {
	out := "[]"
	for i, inbox := range inboxes {
		prefix := fmt.Sprintf("%d.", i)
		out, _ = sjson.Set(out, prefix+"studentId", inbox.Student.StudentID)
		out, _ = sjson.Set(out, prefix+"name", inbox.Name)
		out, _ = sjson.Set(out, prefix+"school", inbox.School)
		if inbox.Err != nil {
			out, _ = sjson.Set(out, prefix+"error", inbox.Err.Error())
			continue
		}
		out, _ = sjson.SetRaw(out, prefix+"messages", gjson.Get(messagesJSON(inbox.Messages), "data").Raw)
	}
	return out
}

func formatInboxesHuman(inboxes []studentInbox) string {
	if len(inboxes) == 0 {
		return styles.Subtitle.Render("No linked students.")
	}

	var sections []string
	for i, inbox := range inboxes {
		name := inbox.Name
		if name == "" {
			name = "Unknown"
		}
		header := styles.Title.Render(fmt.Sprintf("Linked account %d: %s", i+1, name)) +
			" " + styles.Subtitle.Render("("+inbox.School+")")

		if inbox.Err != nil {
			sections = append(sections, header+"\n"+styles.StatusError.Render("Failed: "+inbox.Err.Error()))
			continue
		}

		messages := inbox.Messages
		if len(messages) > maxAggregatedMessages {
			messages = messages[:maxAggregatedMessages]
		}
		summary := styles.StatusOK.Render(fmt.Sprintf("Found %d messages.", len(inbox.Messages)))
		sections = append(sections, header+"\n"+summary+"\n"+formatMessagesHuman(messages))
	}
	return strings.Join(sections, "\n\n")
}
