// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/zeebo/blake3"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
)

// UploadRequest describes a submission upload.
type UploadRequest struct {
	// SubmittedByID is the member handing in the file.
	SubmittedByID string
	// Note is an optional free-text note.
	Note string
	// FileName is the name the file is stored under.
	FileName string
	// File is the file content. Read fully while building the form —
	// the body must be rebuildable for the gateway's 401 retry.
	File io.Reader
}

// UploadSubmission uploads a file against a ticket as a multipart
// form. A BLAKE3 checksum of the content travels with the form so the
// server can verify the upload end to end.
func (c *Client) UploadSubmission(ctx context.Context, ticketID string, request UploadRequest) (*schema.Submission, error) {
	content, err := io.ReadAll(request.File)
	if err != nil {
		return nil, fmt.Errorf("upload submission: reading file: %w", err)
	}
	checksum := blake3.Sum256(content)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	if err := writer.WriteField("submittedById", request.SubmittedByID); err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}
	if request.Note != "" {
		if err := writer.WriteField("note", request.Note); err != nil {
			return nil, fmt.Errorf("upload submission: %w", err)
		}
	}
	if err := writer.WriteField("checksum", hex.EncodeToString(checksum[:])); err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}
	part, err := writer.CreateFormFile("file", request.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}

	path := "/tickets/" + url.PathEscape(ticketID) + "/submissions"
	body, err := c.doRaw(ctx, http.MethodPost, path, nil, form.Bytes(), writer.FormDataContentType(), true, true)
	if err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}

	var submission schema.Submission
	if err := decode(body, &submission); err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}
	c.logger.Info("submission uploaded",
		"ticket", ticketID,
		"file", request.FileName,
		"bytes", len(content),
		"checksum", hex.EncodeToString(checksum[:8]),
	)
	return &submission, nil
}

// DownloadSubmission fetches a submission's file content.
func (c *Client) DownloadSubmission(ctx context.Context, submissionID string) ([]byte, error) {
	path := "/tickets/submissions/" + url.PathEscape(submissionID) + "/download"
	body, err := c.doRaw(ctx, http.MethodGet, path, nil, nil, "", true, true)
	if err != nil {
		return nil, fmt.Errorf("download submission %s: %w", submissionID, err)
	}
	return body, nil
}
