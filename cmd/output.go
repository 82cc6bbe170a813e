// ABOUTME: Output helpers shared by webtop commands
// ABOUTME: Renders opaque portal payloads as JSON and sessions/messages as text

package cmd

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/schoolkit/webtop/internal/styles"
	"github.com/schoolkit/webtop/webtop"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printPayload writes an opaque portal payload as indented JSON, colored on terminals.
func printPayload(w io.Writer, raw string) error {
	out := pretty.Pretty([]byte(raw))
	if !jsonOutput && isTerminal(w) {
		out = pretty.Color(out, nil)
	}
	_, err := w.Write(out)
	return err
}

// sessionJSON renders the session without its token.
func sessionJSON(s webtop.Session) string {
	out := "{}"
	for _, kv := range [][2]string{
		{"userId", s.UserID},
		{"studentId", s.StudentID},
		{"encryptedId", s.EncryptedID},
		{"schoolId", s.SchoolID},
		{"schoolName", s.SchoolName},
		{"firstName", s.FirstName},
		{"lastName", s.LastName},
	} {
		out, _ = sjson.Set(out, kv[0], kv[1])
	}
	return out
}

// formatSessionHuman formats a session for human readability
func formatSessionHuman(s webtop.Session) string {
	lines := []string{
		styles.Title.Render("Logged in"),
		styles.Field("Name:", s.FullName()),
		styles.Field("School:", s.SchoolName),
		styles.Field("User ID:", s.UserID),
		styles.Field("Student ID:", s.StudentID),
	}
	if s.EncryptedID != "" {
		lines = append(lines, styles.Field("Encrypted ID:", s.EncryptedID))
	}
	return strings.Join(lines, "\n")
}

// messageSender picks the most specific sender name a message carries.
func messageSender(msg gjson.Result) string {
	name := strings.TrimSpace(msg.Get("student_F_name").String() + " " + msg.Get("student_L_name").String())
	if name != "" {
		return name
	}
	if sender := msg.Get("senderName").String(); sender != "" {
		return sender
	}
	return "Unknown"
}

// messageDate prefers the sending date over the message time.
func messageDate(msg gjson.Result) string {
	if date := msg.Get("sendingDate").String(); date != "" {
		return date
	}
	return msg.Get("msgTime").String()
}

// messageSubject falls back to a placeholder for subject-less messages.
func messageSubject(msg gjson.Result) string {
	if subject := msg.Get("subject").String(); subject != "" {
		return subject
	}
	return "No Subject"
}

// formatMessagesHuman renders messages as a table, unread ones in bold.
func formatMessagesHuman(messages []gjson.Result) string {
	if len(messages) == 0 {
		return styles.Subtitle.Render("No messages.")
	}

	rows := make([][]string, 0, len(messages))
	unread := make(map[int]bool)
	for i, msg := range messages {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			messageDate(msg),
			messageSender(msg),
			messageSubject(msg),
		})
		if read := msg.Get("isRead"); read.Exists() && !read.Bool() {
			unread[i] = true
		}
	}
	return styles.Table([]string{"#", "Date", "From", "Subject"}, rows, unread)
}

// messagesJSON wraps messages in a {"data": [...]} document.
func messagesJSON(messages []gjson.Result) string {
	out := `{"data":[]}`
	for _, msg := range messages {
		out, _ = sjson.SetRaw(out, "data.-1", msg.Raw)
	}
	return out
}
