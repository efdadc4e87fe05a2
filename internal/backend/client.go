// Package backend talks to the game server's text and command endpoints.
//
// Two contracts are supported:
//   - GET <url> returning {"text": "..."} (the out and command_out streams)
//   - POST <url> with the raw command as body, acknowledged by the literal
//     body "Success"
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Acknowledgement is the exact body the command endpoint returns on success.
const Acknowledgement = "Success"

// Client issues requests against the backend. Safe for concurrent use.
type Client struct {
	http *http.Client
}

// NewClient creates a Client. A nil httpClient means http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

type textPayload struct {
	Text *string `json:"text"`
}

// FetchText GETs url and returns the "text" field of the JSON body.
// Transport failures and non-2xx statuses return *FetchError; bodies that
// are not JSON or lack a string "text" field return *ParseError.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	var payload textPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &ParseError{URL: url, Err: err}
	}
	if payload.Text == nil {
		return "", &ParseError{URL: url, Err: errMissingText}
	}
	return *payload.Text, nil
}

// Submit POSTs command as the raw request body and waits for the full
// response body. Anything other than "Success" is a *SubmitError; the HTTP
// status is not inspected.
func (c *Client) Submit(ctx context.Context, url, command string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(command))
	if err != nil {
		return &SubmitError{URL: url, Command: command, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &SubmitError{URL: url, Command: command, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &SubmitError{URL: url, Command: command, Err: fmt.Errorf("read body: %w", err)}
	}
	if string(body) != Acknowledgement {
		return &SubmitError{URL: url, Command: command, Body: string(body)}
	}
	return nil
}
