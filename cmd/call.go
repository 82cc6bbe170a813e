// ABOUTME: Generic authenticated request command for the webtop CLI
// ABOUTME: Builds a JSON body from --field flags and prints the raw response

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/schoolkit/webtop/webtop"
)

var (
	callMethod      string
	callFields      []string
	callTypedFields []string
	callHeaders     []string
)

var callCmd = &cobra.Command{
	Use:   "call <path>",
	Short: "Send an authenticated request to any portal endpoint",
	Long: `Send an authenticated request to a portal path and print the response.

String fields are set with -f, typed fields (numbers, booleans, null, JSON) with -F.
Dotted keys create nested objects.

Example:
  webtop call /server/api/messageBox/GetMessagesInbox -F PageId=2 -F LabelId=0 -F HasRead=null -f SearchQuery=`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := buildCallBody(callFields, callTypedFields)
		if err != nil {
			return &ConfigError{Err: err}
		}
		opts, err := headerOptions(callHeaders)
		if err != nil {
			return &ConfigError{Err: err}
		}
		return withClient(cmd, func(ctx context.Context, c *webtop.Client) error {
			return runCall(ctx, c, cmd.OutOrStdout(), strings.ToUpper(callMethod), args[0], body, opts...)
		})
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVarP(&callMethod, "method", "X", http.MethodPost, "HTTP method")
	callCmd.Flags().StringArrayVarP(&callFields, "field", "f", nil, "String field key=value")
	callCmd.Flags().StringArrayVarP(&callTypedFields, "typed-field", "F", nil, "Typed field key=value")
	callCmd.Flags().StringArrayVarP(&callHeaders, "header", "H", nil, "Extra header key:value")
}

// buildCallBody assembles a JSON object from string and typed key=value pairs.
func buildCallBody(fields, typed []string) (string, error) {
	body := "{}"
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return "", fmt.Errorf("invalid field %q, expected key=value", f)
		}
		var err error
		if body, err = sjson.Set(body, key, value); err != nil {
			return "", fmt.Errorf("set field %q: %w", key, err)
		}
	}
	for _, f := range typed {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return "", fmt.Errorf("invalid field %q, expected key=value", f)
		}
		var err error
		if gjson.Valid(value) {
			body, err = sjson.SetRaw(body, key, value)
		} else {
			body, err = sjson.Set(body, key, value)
		}
		if err != nil {
			return "", fmt.Errorf("set field %q: %w", key, err)
		}
	}
	return body, nil
}

func headerOptions(headers []string) ([]webtop.RequestOption, error) {
	opts := make([]webtop.RequestOption, 0, len(headers))
	for _, h := range headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q, expected key:value", h)
		}
		opts = append(opts, webtop.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}
	return opts, nil
}

func runCall(ctx context.Context, c *webtop.Client, w io.Writer, method, path, body string, opts ...webtop.RequestOption) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var payload any
	if method != http.MethodGet {
		payload = json.RawMessage(body)
	}

	resp, err := c.Request(ctx, method, path, payload, opts...)
	if err != nil {
		return err
	}

	if result, err := resp.JSON(); err == nil {
		return printPayload(w, result.Raw)
	}
	_, err = w.Write(resp.Body)
	return err
}
