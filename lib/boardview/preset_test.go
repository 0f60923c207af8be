// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

func TestLoadPresetsParsesJSONC(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "presets.jsonc")
	content := `[
	// weekly report for the core project
	{
		"name": "core-week",
		"projectKey": "CORE",
		"from": "2026-02-09",
		"to": "2026-02-15", // inclusive
	},
	{"name": "ada", "memberId": "m1"},
]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("presets = %d, want 2", len(presets))
	}

	preset, err := FindPreset(presets, "core-week")
	if err != nil {
		t.Fatal(err)
	}
	projects := []schema.Project{{ID: "p1", Key: "CORE"}}
	predicates, err := preset.Predicates(projects)
	if err != nil {
		t.Fatalf("Predicates: %v", err)
	}
	if len(predicates) != 2 {
		t.Fatalf("predicates = %d, want project + date range", len(predicates))
	}

	if _, err := FindPreset(presets, "absent"); err == nil {
		t.Fatal("FindPreset found a preset that does not exist")
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	t.Parallel()

	presets, err := LoadPresets(filepath.Join(t.TempDir(), "absent.jsonc"))
	if err != nil || presets != nil {
		t.Fatalf("LoadPresets(missing) = (%v, %v), want (nil, nil)", presets, err)
	}
}

func TestLoadPresetsRejectsNamelessPreset(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "presets.jsonc")
	if err := os.WriteFile(path, []byte(`[{"text": "x"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Fatal("LoadPresets accepted a nameless preset")
	}
}

func TestPresetRejectsBadDate(t *testing.T) {
	t.Parallel()

	preset := Preset{Name: "bad", From: "02/09/2026"}
	if _, err := preset.Predicates(nil); err == nil {
		t.Fatal("Predicates accepted a malformed date")
	}
}
