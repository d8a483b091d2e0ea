package action

import (
	"context"
	"fmt"

	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/util"
)

const ROOT_ISSUE_KEY_FIELD = "issue_key"

var _ Action = new(AssigneeUpdateAction)

// AssigneeUpdateAction changes an issue's assignee. Without an issueKey in its
// config it uses the key the root node recorded as "<rootId>_issue_key".
type AssigneeUpdateAction struct {
	baseAction
	config MutationConfig
}

func (a *AssigneeUpdateAction) Config() MutationConfig {
	return a.config
}

func (a *AssigneeUpdateAction) Execute(ctx context.Context, env *Env, result model.ActionResult) error {
	contextKey := a.config.IssueKey
	if contextKey == "" {
		contextKey = env.Node.RootID + "_" + ROOT_ISSUE_KEY_FIELD
	}
	issueKey, err := issueKeyFrom(env.Data, a.name, contextKey)
	if err != nil {
		return err
	}
	body := util.ResolveParams(env.Data, a.config.Body)
	if err := env.Client.UpdateAssignee(ctx, env.Creds, issueKey, body); err != nil {
		return FatalActionError{Action: a.name, IssueKey: issueKey, Err: err}
	}
	return nil
}

func issueKeyFrom(data model.DataContext, actionName string, contextKey string) (string, error) {
	issueKey, ok := data.String(contextKey)
	if !ok || issueKey == "" {
		return "", FatalActionError{
			Action: actionName,
			Err:    fmt.Errorf("issue key %q not present in flow data", contextKey),
		}
	}
	return issueKey, nil
}
