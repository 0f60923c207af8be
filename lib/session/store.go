// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// FilePath returns the path of the session file. Checks the
// JIRALITE_SESSION_FILE environment variable first, then falls back to
// $XDG_CONFIG_HOME/jiralite/session.json (or ~/.config/jiralite/
// session.json).
func FilePath() string {
	if envPath := os.Getenv("JIRALITE_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "jiralite-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "jiralite", "session.json")
}

// Store persists a single Session to a file. The file is written with
// mode 0600 since it contains live tokens.
type Store struct {
	path string
}

// NewStore creates a Store writing to the given path. An empty path
// uses FilePath().
func NewStore(path string) *Store {
	if path == "" {
		path = FilePath()
	}
	return &Store{path: path}
}

// Path returns the file path this store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the persisted session. Returns (nil, nil) when no session
// file exists — a missing session is the normal logged-out state, not
// an error.
func (s *Store) Load() (*schema.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file %s: %w", s.path, err)
	}

	var session schema.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", s.path, err)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access token", s.path)
	}
	return &session, nil
}

// Save writes the session, creating the parent directory with mode
// 0700 if needed.
func (s *Store) Save(session *schema.Session) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	return nil
}

// Remove deletes the session file. Removing an absent file is not an
// error.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}
