// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package boardview

import (
	"path/filepath"
	"strings"
)

// FileTypeLabel classifies a submission file name by extension for
// display badges. Unrecognized extensions (and names with none) fall
// back to the generic FILE label.
func FileTypeLabel(fileName string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")) {
	case "pdf":
		return "PDF"
	case "doc", "docx":
		return "DOC"
	case "ppt", "pptx":
		return "PPT"
	default:
		return "FILE"
	}
}
