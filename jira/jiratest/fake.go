// Package jiratest provides an in-memory jira.Client for tests.
package jiratest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/owlhub/owlflow-jira/jira"
)

type Call struct {
	Method   string
	IssueKey string
	Body     map[string]any
}

// Client answers GetIssue from Issues and fails any call whose method has an
// entry in Errors.
type Client struct {
	mu     sync.Mutex
	Issues map[string]map[string]any
	Errors map[string]error
	Calls  []Call
}

var _ jira.Client = new(Client)

func NewClient() *Client {
	return &Client{
		Issues: make(map[string]map[string]any),
		Errors: make(map[string]error),
	}
}

func (c *Client) record(method, issueKey string, body map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, Call{Method: method, IssueKey: issueKey, Body: body})
	return c.Errors[method]
}

func (c *Client) GetIssue(ctx context.Context, creds jira.Credentials, issueKey string) (map[string]any, error) {
	if err := c.record("GetIssue", issueKey, nil); err != nil {
		return nil, err
	}
	issue, ok := c.Issues[issueKey]
	if !ok {
		return nil, jira.RemoteError{
			Method:        "GET",
			URI:           "/issue/" + issueKey,
			StatusCode:    404,
			ErrorMessages: []string{"Issue does not exist or you do not have permission to see it."},
		}
	}
	return deepCopy(issue), nil
}

func (c *Client) UpdateAssignee(ctx context.Context, creds jira.Credentials, issueKey string, body map[string]any) error {
	return c.record("UpdateAssignee", issueKey, body)
}

func (c *Client) AddTransition(ctx context.Context, creds jira.Credentials, issueKey string, body map[string]any) error {
	return c.record("AddTransition", issueKey, body)
}

func (c *Client) Methods() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.Calls))
	for _, call := range c.Calls {
		out = append(out, call.Method)
	}
	return out
}

func deepCopy(in map[string]any) map[string]any {
	data, _ := json.Marshal(in)
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	return out
}
