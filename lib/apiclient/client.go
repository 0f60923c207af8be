// Copyright 2026 The Jira-Lite Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/schema"
	"github.com/conny0506/Jira-Lite-Ticket-System-sub001/lib/session"
)

// MaxResponseSize bounds API response body reads: 64 MB. Legitimate
// JSON responses are orders of magnitude smaller; the limit only
// protects against a pathological server exhausting memory. Submission
// downloads share the bound — the server caps uploads well below it.
const MaxResponseSize int64 = 64 << 20

// Tokens supplies the gateway with credentials. Implemented by
// session.Manager. Current returns the live session or nil; Refresh
// performs a (single-flight) token exchange and returns the new
// session.
type Tokens interface {
	Current() *schema.Session
	Refresh(ctx context.Context) (*schema.Session, error)
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the remote API root (e.g., "https://api.example.com").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is the typed HTTP client for the Jira-Lite API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	tokens    Tokens
	onFailure func(error)
}

// New creates a Client. The token source is attached afterwards via
// SetTokens — the session manager needs the client for its refresh
// exchange, so the two are wired together by the caller.
func New(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("apiclient: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("apiclient: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetTokens attaches the credential source used by authenticated
// calls.
func (c *Client) SetTokens(tokens Tokens) { c.tokens = tokens }

// SetFailureObserver registers a callback invoked exactly once per
// unrecoverably failed call (the toast channel). The first 401 of a
// call that is about to be retried does not count as a failure.
func (c *Client) SetFailureObserver(observer func(error)) { c.onFailure = observer }

// notifyFailure reports err to the failure observer, if any, and
// returns err unchanged.
func (c *Client) notifyFailure(err error) error {
	if c.onFailure != nil {
		c.onFailure(err)
	}
	return err
}

// do performs an API request and returns the response body. On 2xx the
// body is returned verbatim for the caller to decode; a 204 yields an
// empty body. On any other status the body becomes an *APIError.
//
// When authenticated is true the current access token is attached and
// the single 401-refresh-retry protocol applies.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, requestBody any, authenticated bool) ([]byte, error) {
	var encoded []byte
	contentType := ""
	if requestBody != nil {
		var err error
		encoded, err = json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encoding request body: %w", err)
		}
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, query, encoded, contentType, authenticated, true)
}

// doUnobserved is do for internal exchanges (the refresh leg of the
// 401 retry) whose failure surfaces through the outer call; it never
// reports to the failure observer.
func (c *Client) doUnobserved(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("apiclient: encoding request body: %w", err)
	}
	return c.doRaw(ctx, method, path, nil, encoded, "application/json", false, false)
}

// doRaw is the gateway body shared by JSON and multipart calls. The
// request body is a byte slice so the single 401 retry can resend it.
// When observed is false, failures are returned without reporting to
// the failure observer.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, requestBody []byte, contentType string, authenticated, observed bool) ([]byte, error) {
	fail := func(err error) error {
		if observed {
			return c.notifyFailure(err)
		}
		return err
	}

	token := ""
	if authenticated {
		if c.tokens == nil {
			return nil, fail(fmt.Errorf("apiclient: no token source configured for %s %s", method, path))
		}
		if current := c.tokens.Current(); current != nil {
			token = current.AccessToken
		}
	}

	body, statusCode, err := c.send(ctx, method, path, query, requestBody, contentType, token)
	if err != nil {
		return nil, fail(fmt.Errorf("apiclient: %s %s: %w", method, path, err))
	}

	// Reactive credential recovery: refresh and retry exactly once.
	// This branch is the only retry in the gateway; a second 401
	// falls through to the failure path below.
	if statusCode == http.StatusUnauthorized && authenticated {
		refreshed, refreshErr := c.tokens.Refresh(ctx)
		if refreshErr != nil {
			wrapped := fmt.Errorf("apiclient: %s %s: %w", method, path, refreshErr)
			if errors.Is(refreshErr, session.ErrSessionInvalid) {
				// The token manager already cleared the session and
				// signalled its invalid-session handler, which is the
				// one user-visible report of this failure.
				return nil, wrapped
			}
			return nil, fail(wrapped)
		}
		c.logger.Debug("retrying request with refreshed token", "method", method, "path", path)
		body, statusCode, err = c.send(ctx, method, path, query, requestBody, contentType, refreshed.AccessToken)
		if err != nil {
			return nil, fail(fmt.Errorf("apiclient: %s %s: %w", method, path, err))
		}
	}

	if statusCode >= 200 && statusCode < 300 {
		if statusCode == http.StatusNoContent {
			return nil, nil
		}
		return body, nil
	}

	apiErr := &APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
	return nil, fail(apiErr)
}

// send performs one HTTP round trip. Transport-level failures are
// returned as errors; HTTP-level failures are returned through the
// status code for the gateway to classify.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, requestBody []byte, contentType, token string) ([]byte, int, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		bodyReader = bytes.NewReader(requestBody)
	}
	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("reading response body: %w", err)
	}
	return body, response.StatusCode, nil
}

// decode unmarshals a response body into v with a consistent error
// message.
func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("apiclient: parsing response: %w", err)
	}
	return nil
}
