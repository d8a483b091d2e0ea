package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence"
)

type memoryRepo struct {
	nodes map[string]model.FlowNode
	flows map[string]model.Flow
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		nodes: make(map[string]model.FlowNode),
		flows: make(map[string]model.Flow),
	}
}

func (r *memoryRepo) addNode(node model.FlowNode) {
	r.nodes[node.FlowID+"/"+node.ID] = node
}

func (r *memoryRepo) addFlow(flow model.Flow) {
	r.flows[flow.OrganizationID+"/"+flow.WebhookID] = flow
}

func (r *memoryRepo) GetNode(ctx context.Context, flowId string, nodeId string) (*model.FlowNode, error) {
	node, ok := r.nodes[flowId+"/"+nodeId]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "node", Key: flowId + "/" + nodeId}
	}
	return &node, nil
}

func (r *memoryRepo) GetFlowByWebhookID(ctx context.Context, organizationId string, webhookId string) (*model.Flow, error) {
	flow, ok := r.flows[organizationId+"/"+webhookId]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "flow", Key: organizationId + "/" + webhookId}
	}
	return &flow, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []*model.Envelope
	failFor   map[string]bool
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{failFor: make(map[string]bool)}
}

func (p *recordingPublisher) Publish(ctx context.Context, envelope *model.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFor[envelope.Detail.NodeDetail.ID] {
		return errors.New("bus unavailable")
	}
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func (p *recordingPublisher) children() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.envelopes))
	for _, e := range p.envelopes {
		out = append(out, e.Detail.NodeDetail.ID)
	}
	return out
}
