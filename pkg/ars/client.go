// Package ars talks to the upstream autonomous reasoning system: query
// submission, the per-query status endpoint and the result payload endpoint.
package ars

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"translator/pkg/common"
)

// API is the subset of the reasoning system the poller depends on.
type API interface {
	Status(ctx context.Context, queryID string) (*QueryStatus, error)
	Result(ctx context.Context, queryID string) (*common.ResultSet, error)
}

// QueryStatus is the status payload of a running query.
type QueryStatus struct {
	Status string `json:"status"`
	Data   struct {
		ARAs      []string `json:"aras"`
		Timestamp string   `json:"timestamp"`
	} `json:"data"`
}

// QuerySubmission is the payload of a new query: the curie and type of the
// anchor node plus the query direction.
type QuerySubmission struct {
	Type      string `json:"type"`
	Curie     string `json:"curie"`
	Direction string `json:"direction,omitempty"`
}

// Client is an HTTP client for the reasoning API.
type Client struct {
	prefix string
	http   *http.Client
}

// NewClient creates a client for the API at the given prefix, e.g.
// "https://example.org/api/v1".
func NewClient(prefix string) *Client {
	return &Client{
		prefix: prefix,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Submit posts a new query and returns its primary key.
func (c *Client) Submit(ctx context.Context, submission QuerySubmission) (string, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return "", fmt.Errorf("failed to encode query submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.prefix+"/query", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		Status string `json:"status"`
		Data   string `json:"data"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", fmt.Errorf("failed to submit query: %w", err)
	}
	if payload.Data == "" {
		return "", fmt.Errorf("query submission returned no id")
	}
	return payload.Data, nil
}

// Status fetches the current status of a query.
func (c *Client) Status(ctx context.Context, queryID string) (*QueryStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.prefix+"/query/"+queryID+"/status", nil)
	if err != nil {
		return nil, err
	}

	status := &QueryStatus{}
	if err := c.do(req, status); err != nil {
		return nil, fmt.Errorf("failed to fetch query status: %w", err)
	}
	return status, nil
}

// Result fetches the full result payload of a query.
func (c *Client) Result(ctx context.Context, queryID string) (*common.ResultSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.prefix+"/query/"+queryID+"/result", nil)
	if err != nil {
		return nil, err
	}

	set := &common.ResultSet{}
	if err := c.do(req, set); err != nil {
		return nil, fmt.Errorf("failed to fetch query result: %w", err)
	}
	return set, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
