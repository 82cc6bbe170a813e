// ABOUTME: Interactive password prompt for the webtop CLI
// ABOUTME: Only runs when stdin is a terminal so pipelines fail fast instead of hanging

package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// passwordPrompt is replaced in tests.
var passwordPrompt = promptPassword

func promptPassword(username string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("WEBTOP_PASSWORD is required when stdin is not a terminal")
	}

	var password string
	err := huh.NewInput().
		Title("Portal password").
		Description("Signing in as " + username).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("password cannot be empty")
			}
			return nil
		}).
		Value(&password).
		Run()
	if err != nil {
		return "", err
	}
	return password, nil
}
