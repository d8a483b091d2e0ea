package flow

import "github.com/owlhub/owlflow-jira/model"

func CheckNode(node *model.FlowNode) error {
	if node.RootPaused {
		return InactiveWorkflowError{Kind: "root", ID: node.RootID}
	}
	if node.Paused {
		return InactiveWorkflowError{Kind: "node", ID: node.ID}
	}
	return nil
}

func CheckFlow(flow *model.Flow) error {
	if flow.Paused {
		return InactiveWorkflowError{Kind: "flow", ID: flow.ID}
	}
	return nil
}
