// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"fmt"
	"slices"
	"strings"
)

// WeekBucket is a count of submissions in one ISO-8601 calendar week.
type WeekBucket struct {
	// Key identifies the week as "<isoYear>-W<week>", week
	// zero-padded to two digits (e.g., "2026-W07").
	Key   string
	Count int
}

// WeekKey returns the ISO-8601 week bucket key for a submission
// timestamp. The timestamp is truncated to its UTC calendar day; the
// ISO year and week are those of the Thursday of that day's week
// (weeks start Monday), which is exactly the ISO 8601 week-date rule
// implemented by time.Time.ISOWeek. Around new year, the ISO year
// differs from the calendar year: 2023-01-01 falls in 2022-W52.
func WeekKey(entry *SubmissionEntry) string {
	year, week := entry.Submission.CreatedAt.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeeklyCounts buckets submissions by ISO week and returns the
// observed buckets sorted ascending by key, truncated to the most
// recent limit weeks. A non-positive limit keeps every bucket.
func WeeklyCounts(entries []SubmissionEntry, limit int) []WeekBucket {
	counts := make(map[string]int)
	for i := range entries {
		counts[WeekKey(&entries[i])]++
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	// Keys are fixed-width per year segment ("YYYY-Wnn"), so string
	// order is chronological order.
	slices.SortFunc(keys, strings.Compare)

	if limit > 0 && len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	buckets := make([]WeekBucket, len(keys))
	for i, key := range keys {
		buckets[i] = WeekBucket{Key: key, Count: counts[key]}
	}
	return buckets
}
