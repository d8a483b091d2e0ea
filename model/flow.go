package model

// Flow is a workflow instance. Externally triggered flows are addressed by
// their webhook id.
type Flow struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Paused         bool   `json:"paused"`
	ParentNodeID   string `json:"parentNodeId"`
	WebhookID      string `json:"webhookId,omitempty"`
}

// ConsumerAPI names the service that consumes trigger events for a node.
type ConsumerAPI struct {
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// FlowNode is one step of a flow's execution graph.
type FlowNode struct {
	ID          string         `json:"id"`
	FlowID      string         `json:"flowId"`
	RootID      string         `json:"rootId"`
	Paused      bool           `json:"paused"`
	RootPaused  bool           `json:"rootPaused"`
	Actions     []string       `json:"actions"`
	Meta        map[string]any `json:"meta"`
	ChildrenIDs []string       `json:"childrenIds"`
	API         ConsumerAPI    `json:"api"`
}

func (n *FlowNode) HasAction(name string) bool {
	for _, a := range n.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// Namespaced returns the DataContext key a node owns for field.
func (n *FlowNode) Namespaced(field string) string {
	return n.ID + "_" + field
}
