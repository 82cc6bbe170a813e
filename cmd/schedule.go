// ABOUTME: Schedule command for the webtop CLI
// ABOUTME: Shows a student's weekly timetable

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/schoolkit/webtop/webtop"
)

var (
	scheduleStudentID string
	scheduleYear      int
	scheduleClassCode int
	scheduleWeek      int
	scheduleView      int
	scheduleModule    int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the weekly timetable",
	Long: `Show a student's timetable for a week.

Example:
  webtop schedule --class-code 5 --week 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			id, err := encryptedID(ctx, c, scheduleStudentID)
			if err != nil {
				return err
			}
			result, err := c.GetPupilSchedule(ctx, scheduleYear, id, scheduleClassCode,
				webtop.WithWeekIndex(scheduleWeek),
				webtop.WithViewType(scheduleView),
				webtop.WithModuleID(scheduleModule),
			)
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), result.Raw)
		})
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleStudentID, "student-id", "", "Encrypted student id (default: from the session)")
	scheduleCmd.Flags().IntVar(&scheduleYear, "study-year", currentStudyYear(time.Now()), "Study year, e.g. 2026")
	scheduleCmd.Flags().IntVar(&scheduleClassCode, "class-code", 0, "Class code")
	scheduleCmd.Flags().IntVar(&scheduleWeek, "week", 0, "Week offset (0 = current week)")
	scheduleCmd.Flags().IntVar(&scheduleView, "view", 0, "View type")
	scheduleCmd.Flags().IntVar(&scheduleModule, "module", 10, "Module id")
	scheduleCmd.MarkFlagRequired("class-code")
}

// currentStudyYear names a school year by the calendar year it ends in; years roll over in September.
func currentStudyYear(now time.Time) int {
	if now.Month() >= time.September {
		return now.Year() + 1
	}
	return now.Year()
}
