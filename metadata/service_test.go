package metadata

import (
	"testing"

	"github.com/owlhub/owlflow-jira/model"
	"github.com/stretchr/testify/require"
)

func TestValidateFlow(t *testing.T) {
	s := NewMetadataService(nil)
	require.NoError(t, s.ValidateFlow(model.Flow{ID: "f1", OrganizationID: "org1", WebhookID: "wh1", ParentNodeID: "n1"}))
	require.Error(t, s.ValidateFlow(model.Flow{ID: "f1", OrganizationID: "org1", ParentNodeID: "n1"}))
	require.Error(t, s.ValidateFlow(model.Flow{OrganizationID: "org1", WebhookID: "wh1", ParentNodeID: "n1"}))
}

func TestValidateNode(t *testing.T) {
	s := NewMetadataService(nil)
	for scenario, tc := range map[string]struct {
		node  model.FlowNode
		valid bool
	}{
		"webhook node": {
			node:  model.FlowNode{ID: "n1", FlowID: "f1", Actions: []string{"issue_created"}, ChildrenIDs: []string{"n2", "n3"}},
			valid: true,
		},
		"jira node": {
			node: model.FlowNode{ID: "n2", FlowID: "f1", Actions: []string{"isIssueExists"}, Meta: map[string]any{
				"siteUrl":       "owlhub.atlassian.net",
				"isIssueExists": map[string]any{"issueKey": "n1_issue_key"},
			}},
			valid: true,
		},
		"jira node without site": {
			node:  model.FlowNode{ID: "n2", FlowID: "f1", Actions: []string{"getIssue"}},
			valid: false,
		},
		"invalid action config": {
			node: model.FlowNode{ID: "n2", FlowID: "f1", Actions: []string{"updateTransitions"}, Meta: map[string]any{
				"siteUrl":           "owlhub.atlassian.net",
				"updateTransitions": "not a map",
			}},
			valid: false,
		},
		"missing flow id": {
			node:  model.FlowNode{ID: "n1"},
			valid: false,
		},
		"self child": {
			node:  model.FlowNode{ID: "n1", FlowID: "f1", ChildrenIDs: []string{"n1"}},
			valid: false,
		},
		"duplicate child": {
			node:  model.FlowNode{ID: "n1", FlowID: "f1", ChildrenIDs: []string{"n2", "n2"}},
			valid: false,
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			err := s.ValidateNode(tc.node)
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
