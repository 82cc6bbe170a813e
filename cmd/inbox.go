// ABOUTME: Inbox command for the webtop CLI
// ABOUTME: Lists messages, fetching several pages in parallel when asked

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/schoolkit/webtop/webtop"
)

// maxPageFetches bounds parallel page requests against the portal.
const maxPageFetches = 4

var (
	inboxPage   int
	inboxPages  int
	inboxLabel  int
	inboxUnread bool
	inboxRead   bool
	inboxSearch string
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List inbox messages",
	Long: `List messages from the portal message box.

Example:
  webtop inbox --unread --pages 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inboxRead && inboxUnread {
			return &ConfigError{Err: fmt.Errorf("--read and --unread are mutually exclusive")}
		}
		if inboxPage < 1 || inboxPages < 1 {
			return &ConfigError{Err: fmt.Errorf("--page and --pages must be at least 1")}
		}
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			return runInbox(ctx, c, cmd.OutOrStdout(), inboxPage, inboxPages, inboxOptions()...)
		})
	},
}

func init() {
	rootCmd.AddCommand(inboxCmd)
	inboxCmd.Flags().IntVar(&inboxPage, "page", 1, "First page to fetch (1-based)")
	inboxCmd.Flags().IntVar(&inboxPages, "pages", 1, "Number of pages to fetch")
	inboxCmd.Flags().IntVar(&inboxLabel, "label", 0, "Message label id")
	inboxCmd.Flags().BoolVar(&inboxUnread, "unread", false, "Only unread messages")
	inboxCmd.Flags().BoolVar(&inboxRead, "read", false, "Only read messages")
	inboxCmd.Flags().StringVar(&inboxSearch, "search", "", "Free-text search")
}

func inboxOptions() []webtop.InboxOption {
	opts := []webtop.InboxOption{
		webtop.WithLabel(inboxLabel),
		webtop.WithSearchQuery(inboxSearch),
	}
	switch {
	case inboxUnread:
		opts = append(opts, webtop.WithReadFilter(false))
	case inboxRead:
		opts = append(opts, webtop.WithReadFilter(true))
	}
	return opts
}

func runInbox(ctx context.Context, c *webtop.Client, w io.Writer, first, count int, opts ...webtop.InboxOption) error {
	messages, err := fetchInboxPages(ctx, c, first, count, opts...)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printPayload(w, messagesJSON(messages))
	}
	fmt.Fprintln(w, formatMessagesHuman(messages))
	return nil
}

// fetchInboxPages loads pages first..first+count-1 and concatenates their messages in page order.
func fetchInboxPages(ctx context.Context, c *webtop.Client, first, count int, opts ...webtop.InboxOption) ([]gjson.Result, error) {
	// Log in once up front so parallel page requests share a session.
	if err := c.EnsureLoggedIn(ctx); err != nil {
		return nil, err
	}

	pages := make([][]gjson.Result, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPageFetches)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			pageOpts := append(append([]webtop.InboxOption{}, opts...), webtop.WithPage(first+i))
			result, err := c.GetMessagesInbox(gctx, pageOpts...)
			if err != nil {
				return fmt.Errorf("page %d: %w", first+i, err)
			}
			pages[i] = result.Get("data").Array()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var messages []gjson.Result
	for _, page := range pages {
		messages = append(messages, page...)
	}
	return messages, nil
}
