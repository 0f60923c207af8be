// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ReadPassword reads a password. When path is "-" or empty and stdin
// is a terminal, it prompts with echo disabled; when path names a
// file, it reads the file and strips trailing newlines (common with
// echo/printf pipelines).
func ReadPassword(path string) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading password file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}

	descriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(descriptor) {
		return "", fmt.Errorf("stdin is not a terminal; pass --password-file")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(descriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
