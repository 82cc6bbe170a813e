// ABOUTME: Dashboard and notification commands for the webtop CLI
// ABOUTME: Print the portal payloads for the dashboard and the notification endpoints

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/schoolkit/webtop/internal/styles"
	"github.com/schoolkit/webtop/webtop"
)

var notificationStudentID string

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"students"},
	Short:   "Show the dashboard and its students",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			return runDashboard(ctx, c, cmd.OutOrStdout())
		})
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Preview unread notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			result, err := c.GetPreviewUnreadNotifications(ctx)
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), result.Raw)
		})
	},
}

var notificationSettingsCmd = &cobra.Command{
	Use:   "notification-settings",
	Short: "Show notification settings for a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			id, err := encryptedID(ctx, c, notificationStudentID)
			if err != nil {
				return err
			}
			result, err := c.GetNotificationSettings(ctx, id)
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), result.Raw)
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(notificationSettingsCmd)
	notificationSettingsCmd.Flags().StringVar(&notificationStudentID, "student-id", "", "Encrypted student id (default: from the session)")
}

func runDashboard(ctx context.Context, c *webtop.Client, w io.Writer) error {
	result, err := c.GetStudents(ctx)
	if err != nil {
		return err
	}

	children := result.Get("data.childrens")
	if IsJSONOutput() || !children.IsArray() {
		return printPayload(w, result.Raw)
	}
	fmt.Fprintln(w, formatChildrenHuman(children.Array()))
	return nil
}

// formatChildrenHuman lists the dashboard children, one per line
func formatChildrenHuman(children []gjson.Result) string {
	if len(children) == 0 {
		return styles.Subtitle.Render("No students on this dashboard.")
	}
	lines := []string{styles.Title.Render("Students")}
	for _, child := range children {
		name := strings.TrimSpace(child.Get("firstName").String() + " " + child.Get("lastName").String())
		lines = append(lines, "  "+name)
	}
	return strings.Join(lines, "\n")
}

// dashboardChildName returns the name of the first child on the dashboard, if any.
func dashboardChildName(dashboard gjson.Result) string {
	child := dashboard.Get("data.childrens.0")
	if !child.Exists() {
		return ""
	}
	return strings.TrimSpace(child.Get("firstName").String() + " " + child.Get("lastName").String())
}

// encryptedID returns explicit when set, otherwise the session's encrypted student id.
func encryptedID(ctx context.Context, c *webtop.Client, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if err := c.EnsureLoggedIn(ctx); err != nil {
		return "", err
	}
	session, err := c.Session()
	if err != nil {
		return "", err
	}
	if session.EncryptedID == "" {
		return "", &ConfigError{Err: fmt.Errorf("the session has no encrypted student id, pass --student-id")}
	}
	return session.EncryptedID, nil
}
