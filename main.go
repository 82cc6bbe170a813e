// ABOUTME: Entry point for the webtop CLI
// ABOUTME: Command-line client for the Webtop school portal

package main

import (
	"fmt"
	"os"

	"github.com/schoolkit/webtop/cmd"
	"github.com/schoolkit/webtop/logger"
)

func main() {
	logger.Init()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cmd.ExitCode(err))
	}
}
