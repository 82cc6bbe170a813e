// ABOUTME: Homework and discipline commands for the webtop CLI
// ABOUTME: Query class-scoped student data by encrypted student id and class code

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/schoolkit/webtop/webtop"
)

var (
	classStudentID string
	classCode      int
	classNumber    int
)

var homeworkCmd = &cobra.Command{
	Use:   "homework",
	Short: "Show homework for a class",
	Long: `Show homework assigned to a student's class.

Example:
  webtop homework --class-code 5 --class-number 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			id, err := encryptedID(ctx, c, classStudentID)
			if err != nil {
				return err
			}
			result, err := c.GetHomework(ctx, id, classCode, classNumber)
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), result.Raw)
		})
	},
}

var disciplineCmd = &cobra.Command{
	Use:   "discipline",
	Short: "Show discipline events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			id, err := encryptedID(ctx, c, classStudentID)
			if err != nil {
				return err
			}
			result, err := c.GetDisciplineEvents(ctx, id, classCode)
			if err != nil {
				return err
			}
			return printPayload(cmd.OutOrStdout(), result.Raw)
		})
	},
}

func init() {
	rootCmd.AddCommand(homeworkCmd)
	rootCmd.AddCommand(disciplineCmd)

	for _, c := range []*cobra.Command{homeworkCmd, disciplineCmd} {
		c.Flags().StringVar(&classStudentID, "student-id", "", "Encrypted student id (default: from the session)")
		c.Flags().IntVar(&classCode, "class-code", 0, "Class code")
		c.MarkFlagRequired("class-code")
	}
	homeworkCmd.Flags().IntVar(&classNumber, "class-number", 0, "Class number")
	homeworkCmd.MarkFlagRequired("class-number")
}
