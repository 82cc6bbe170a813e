// ABOUTME: Login command for the webtop CLI
// ABOUTME: Verifies credentials and shows the resulting session

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/schoolkit/webtop/webtop"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and show the session",
	Long:  `Log in to the portal with the configured credentials and print the session identifiers, including the encrypted student id other commands need.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			return runLogin(ctx, c, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, c *webtop.Client, w io.Writer) error {
	session, err := c.Login(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		_, err := w.Write(pretty.Pretty([]byte(sessionJSON(session))))
		return err
	}
	fmt.Fprintln(w, formatSessionHuman(session))
	return nil
}
