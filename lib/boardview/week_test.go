// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"testing"
	"time"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

func entryAt(stamp string) SubmissionEntry {
	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		panic(err)
	}
	return SubmissionEntry{Submission: schema.Submission{CreatedAt: ts}}
}

func TestWeekKeyISOBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stamp string
		want  string
	}{
		// The first days of January can belong to the previous ISO
		// year when the week's Thursday falls in it.
		{"2023-01-01T00:00:00Z", "2022-W52"},
		{"2024-01-01T00:00:00Z", "2024-W01"},
		{"2021-01-04T00:00:00Z", "2021-W01"},
		{"2026-02-09T10:00:00Z", "2026-W07"},
		// Dec 31 can belong to week 1 of the next ISO year.
		{"2024-12-31T23:59:59Z", "2025-W01"},
	}
	for _, tc := range tests {
		entry := entryAt(tc.stamp)
		if got := WeekKey(&entry); got != tc.want {
			t.Errorf("WeekKey(%s) = %q, want %q", tc.stamp, got, tc.want)
		}
	}
}

func TestWeeklyCountsSortedAndTruncated(t *testing.T) {
	t.Parallel()

	entries := []SubmissionEntry{
		entryAt("2026-02-16T09:00:00Z"), // W08
		entryAt("2026-02-09T10:00:00Z"), // W07
		entryAt("2026-02-12T18:30:00Z"), // W07
		entryAt("2026-01-05T00:00:00Z"), // W02
	}

	buckets := WeeklyCounts(entries, 0)
	if len(buckets) != 3 {
		t.Fatalf("buckets = %d, want 3", len(buckets))
	}
	want := []WeekBucket{
		{Key: "2026-W02", Count: 1},
		{Key: "2026-W07", Count: 2},
		{Key: "2026-W08", Count: 1},
	}
	for i, bucket := range buckets {
		if bucket != want[i] {
			t.Errorf("bucket[%d] = %+v, want %+v", i, bucket, want[i])
		}
	}

	// A limit keeps the most recent weeks.
	buckets = WeeklyCounts(entries, 2)
	if len(buckets) != 2 || buckets[0].Key != "2026-W07" || buckets[1].Key != "2026-W08" {
		t.Fatalf("limited buckets = %+v, want W07 then W08", buckets)
	}
}
