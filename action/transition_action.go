package action

import (
	"context"

	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/util"
)

var _ Action = new(TransitionUpdateAction)

// TransitionUpdateAction moves an issue through a workflow transition.
type TransitionUpdateAction struct {
	baseAction
	config MutationConfig
}

func (a *TransitionUpdateAction) Config() MutationConfig {
	return a.config
}

func (a *TransitionUpdateAction) Execute(ctx context.Context, env *Env, result model.ActionResult) error {
	issueKey, err := issueKeyFrom(env.Data, a.name, a.config.IssueKey)
	if err != nil {
		return err
	}
	body := util.ResolveParams(env.Data, a.config.Body)
	if err := env.Client.AddTransition(ctx, env.Creds, issueKey, body); err != nil {
		return FatalActionError{Action: a.name, IssueKey: issueKey, Err: err}
	}
	return nil
}
