package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/owlhub/owlflow-jira/jira"
	"github.com/owlhub/owlflow-jira/model"
)

const RESULT_ISSUE_EXISTS = "is_issue_exists"
const RESULT_ISSUE = "issue"
const RESULT_ISSUE_EXISTS_ERRORS = "is_issue_exists_errors"

var _ Action = new(LookupAction)

// LookupAction fetches an issue. A remote failure is recovered: it is
// recorded as is_issue_exists=false plus the error summary.
type LookupAction struct {
	baseAction
	config LookupConfig
}

func (a *LookupAction) Config() LookupConfig {
	return a.config
}

func (a *LookupAction) Execute(ctx context.Context, env *Env, result model.ActionResult) error {
	issueKey, ok := env.Data.String(a.config.IssueKey)
	if !ok || issueKey == "" {
		return a.recover(result, RecoverableActionError{
			Action: a.name,
			Err:    fmt.Errorf("issue key %q not present in flow data", a.config.IssueKey),
		})
	}

	issue, err := env.Client.GetIssue(ctx, env.Creds, issueKey)
	if err != nil {
		rerr := RecoverableActionError{Action: a.name, IssueKey: issueKey, Err: err}
		var remote jira.RemoteError
		if errors.As(err, &remote) {
			rerr.Messages = remote.ErrorMessages
		}
		return a.recover(result, rerr)
	}

	stripComments(issue)
	result[RESULT_ISSUE_EXISTS] = true
	result[RESULT_ISSUE] = issue
	return nil
}

func (a *LookupAction) recover(result model.ActionResult, rerr RecoverableActionError) error {
	result[RESULT_ISSUE_EXISTS] = false
	result[RESULT_ISSUE_EXISTS_ERRORS] = rerr.Summary()
	return rerr
}

// stripComments drops fields.comment.comments, which can be arbitrarily large
// and is never read downstream.
func stripComments(issue map[string]any) {
	fields, ok := issue["fields"].(map[string]any)
	if !ok {
		return
	}
	comment, ok := fields["comment"].(map[string]any)
	if !ok {
		return
	}
	delete(comment, "comments")
}
