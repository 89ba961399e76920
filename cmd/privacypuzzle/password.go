package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/term"

	"github.com/0xlayout/privacypuzzle/internal/config"
)

// resolvePassword picks the flag value, then the environment, then prompts.
func resolvePassword(flagValue string, confirm bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(config.PasswordEnv); env != "" {
		return env, nil
	}

	pw, err := readPassword("Enter password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(pw) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	if confirm {
		again, err := readPassword("Confirm password: ")
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if !bytes.Equal(pw, again) {
			return "", fmt.Errorf("passwords do not match")
		}
	}
	return string(pw), nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	if term.IsTerminal(int(syscall.Stdin)) {
		return term.ReadPassword(int(syscall.Stdin))
	}

	// STDIN is piped; fall back to the controlling terminal.
	tty, err := os.Open("/dev/tty")
	if err != nil {
		if runtime.GOOS == "windows" {
			return nil, fmt.Errorf("password must be given with -p or %s when STDIN is piped", config.PasswordEnv)
		}
		return nil, fmt.Errorf("STDIN is piped and /dev/tty is not available; set %s", config.PasswordEnv)
	}
	defer tty.Close()
	return term.ReadPassword(int(tty.Fd()))
}
