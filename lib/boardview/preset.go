// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// Preset is a saved submission filter, loaded from a hand-edited
// JSONC file: plain JSON extended with // line comments, /* block
// comments */, and trailing commas. Empty fields are inactive.
type Preset struct {
	// Name identifies the preset on the command line.
	Name string `json:"name"`

	// Text is a case-insensitive substring filter over file name,
	// note, and ticket title.
	Text string `json:"text,omitempty"`

	// ProjectKey restricts to one project by key.
	ProjectKey string `json:"projectKey,omitempty"`

	// MemberID restricts to one submitter.
	MemberID string `json:"memberId,omitempty"`

	// From and To bound the submission day, inclusive, as
	// "2026-02-09" dates.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// LoadPresets reads a JSONC preset file. A missing file is an empty
// preset list, not an error: the file exists only once the user
// writes one.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading presets %s: %w", path, err)
	}

	var presets []Preset
	if err := json.Unmarshal(jsonc.ToJSON(data), &presets); err != nil {
		return nil, fmt.Errorf("parsing presets %s: %w", path, err)
	}
	for i, preset := range presets {
		if preset.Name == "" {
			return nil, fmt.Errorf("parsing presets %s: preset %d has no name", path, i)
		}
	}
	return presets, nil
}

// FindPreset returns the named preset from the list.
func FindPreset(presets []Preset, name string) (Preset, error) {
	for _, preset := range presets {
		if preset.Name == name {
			return preset, nil
		}
	}
	return Preset{}, fmt.Errorf("no preset named %q", name)
}

// Predicates converts the preset into submission predicates. The
// project key is resolved against the current project list; an
// unknown key matches nothing rather than silently matching all.
func (p Preset) Predicates(projects []schema.Project) ([]SubmissionPredicate, error) {
	var predicates []SubmissionPredicate
	if p.Text != "" {
		predicates = append(predicates, SubmissionText(p.Text))
	}
	if p.ProjectKey != "" {
		projectID := ""
		for _, project := range projects {
			if project.Key == p.ProjectKey {
				projectID = project.ID
				break
			}
		}
		predicates = append(predicates, SubmissionInProject(projectID))
	}
	if p.MemberID != "" {
		predicates = append(predicates, SubmissionBy(p.MemberID))
	}

	var from, to time.Time
	var err error
	if p.From != "" {
		if from, err = time.ParseInLocation(time.DateOnly, p.From, time.Local); err != nil {
			return nil, fmt.Errorf("preset %q: invalid from date: %w", p.Name, err)
		}
	}
	if p.To != "" {
		if to, err = time.ParseInLocation(time.DateOnly, p.To, time.Local); err != nil {
			return nil, fmt.Errorf("preset %q: invalid to date: %w", p.Name, err)
		}
	}
	if !from.IsZero() || !to.IsZero() {
		predicates = append(predicates, SubmissionBetween(from, to))
	}
	return predicates, nil
}
