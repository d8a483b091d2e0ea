package action

import (
	"context"

	"github.com/owlhub/owlflow-jira/jira"
	"github.com/owlhub/owlflow-jira/model"
)

// Kind is the exact action name a node lists in its actions.
type Kind string

const IS_ISSUE_EXISTS Kind = "isIssueExists"
const GET_ISSUE Kind = "getIssue"
const UPDATE_ASSIGNEE Kind = "updateAssignee"
const UPDATE_TRANSITIONS Kind = "updateTransitions"

// Env is what an action may read while it runs.
type Env struct {
	Client jira.Client
	Creds  jira.Credentials
	Node   *model.FlowNode
	Data   model.DataContext
}

// Action is one of LookupAction, AssigneeUpdateAction or
// TransitionUpdateAction. Execute writes into result only when it succeeds
// or recovers; a RecoverableActionError leaves the run going, any other
// error stops it.
type Action interface {
	GetName() string
	GetKind() Kind
	Execute(ctx context.Context, env *Env, result model.ActionResult) error
}

type baseAction struct {
	name string
	kind Kind
}

func (ba baseAction) GetName() string {
	return ba.name
}

func (ba baseAction) GetKind() Kind {
	return ba.kind
}

// Build selects the action variant for name by exact match and decodes its
// entry of the node meta. ok is false for names no variant answers to.
func Build(name string, node *model.FlowNode) (act Action, ok bool, err error) {
	kind := Kind(name)
	base := baseAction{name: name, kind: kind}
	switch kind {
	case IS_ISSUE_EXISTS, GET_ISSUE:
		var conf LookupConfig
		if err := decodeMeta(node.Meta[name], &conf); err != nil {
			return nil, true, err
		}
		return &LookupAction{baseAction: base, config: conf}, true, nil
	case UPDATE_ASSIGNEE:
		var conf MutationConfig
		if err := decodeMeta(node.Meta[name], &conf); err != nil {
			return nil, true, err
		}
		return &AssigneeUpdateAction{baseAction: base, config: conf}, true, nil
	case UPDATE_TRANSITIONS:
		var conf MutationConfig
		if err := decodeMeta(node.Meta[name], &conf); err != nil {
			return nil, true, err
		}
		return &TransitionUpdateAction{baseAction: base, config: conf}, true, nil
	}
	return nil, false, nil
}
