package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/owlhub/owlflow-jira/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const API_PATH = "/rest/api/3"

// Credentials address one Jira Cloud site.
type Credentials struct {
	SiteURL  string
	Username string
	Password string
}

// Client is the part of the Jira Cloud REST v3 API the actions use.
type Client interface {
	GetIssue(ctx context.Context, creds Credentials, issueKey string) (map[string]any, error)
	UpdateAssignee(ctx context.Context, creds Credentials, issueKey string, body map[string]any) error
	AddTransition(ctx context.Context, creds Credentials, issueKey string, body map[string]any) error
}

// RemoteError is returned for any Jira call that did not succeed, including
// calls that never reached Jira.
type RemoteError struct {
	Method        string
	URI           string
	StatusCode    int
	ErrorMessages []string
	Err           error
}

func (e RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jira %s %s failed: %v", e.Method, e.URI, e.Err)
	}
	if len(e.ErrorMessages) > 0 {
		return fmt.Sprintf("jira %s %s returned %d: %s", e.Method, e.URI, e.StatusCode, strings.Join(e.ErrorMessages, "; "))
	}
	return fmt.Sprintf("jira %s %s returned %d", e.Method, e.URI, e.StatusCode)
}

func (e RemoteError) Unwrap() error {
	return e.Err
}

type HttpClient struct {
	client *http.Client
	scheme string
}

var _ Client = new(HttpClient)

func NewHttpClient(timeout time.Duration) *HttpClient {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &HttpClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		scheme: "https",
	}
}

// WithScheme overrides the https default, used against local test servers.
func (c *HttpClient) WithScheme(scheme string) *HttpClient {
	c.scheme = scheme
	return c
}

func (c *HttpClient) GetIssue(ctx context.Context, creds Credentials, issueKey string) (map[string]any, error) {
	var issue map[string]any
	if err := c.do(ctx, http.MethodGet, creds, "/issue/"+url.PathEscape(issueKey), nil, &issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (c *HttpClient) UpdateAssignee(ctx context.Context, creds Credentials, issueKey string, body map[string]any) error {
	return c.do(ctx, http.MethodPut, creds, "/issue/"+url.PathEscape(issueKey)+"/assignee", body, nil)
}

func (c *HttpClient) AddTransition(ctx context.Context, creds Credentials, issueKey string, body map[string]any) error {
	return c.do(ctx, http.MethodPost, creds, "/issue/"+url.PathEscape(issueKey)+"/transitions", body, nil)
}

func (c *HttpClient) do(ctx context.Context, method string, creds Credentials, path string, body map[string]any, out any) error {
	uri := fmt.Sprintf("%s://%s%s%s", c.scheme, strings.TrimSuffix(creds.SiteURL, "/"), API_PATH, path)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return RemoteError{Method: method, URI: uri, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, reqBody)
	if err != nil {
		return RemoteError{Method: method, URI: uri, Err: err}
	}
	req.SetBasicAuth(creds.Username, creds.Password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("calling jira", zap.String("method", method), zap.String("uri", uri))
	resp, err := c.client.Do(req)
	if err != nil {
		return RemoteError{Method: method, URI: uri, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return RemoteError{Method: method, URI: uri, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RemoteError{
			Method:        method,
			URI:           uri,
			StatusCode:    resp.StatusCode,
			ErrorMessages: errorMessages(respBody),
		}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return RemoteError{Method: method, URI: uri, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

// errorMessages reads Jira's error body: {"errorMessages": [...], "errors": {...}}.
func errorMessages(body []byte) []string {
	if !gjson.ValidBytes(body) {
		return nil
	}
	var msgs []string
	for _, m := range gjson.GetBytes(body, "errorMessages").Array() {
		msgs = append(msgs, m.String())
	}
	gjson.GetBytes(body, "errors").ForEach(func(key, value gjson.Result) bool {
		msgs = append(msgs, key.String()+": "+value.String())
		return true
	})
	return msgs
}
