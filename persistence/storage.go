package persistence

import (
	"context"
	"fmt"

	"github.com/owlhub/owlflow-jira/model"
)

type StorageLayerError struct {
	Message string
	Err     error
}

func (e StorageLayerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage layer error %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("storage layer error %s", e.Message)
}

func (e StorageLayerError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Kind string
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// NodeRepository resolves the Flow and FlowNode records the handlers read.
type NodeRepository interface {
	GetNode(ctx context.Context, flowId string, nodeId string) (*model.FlowNode, error)
	GetFlowByWebhookID(ctx context.Context, organizationId string, webhookId string) (*model.Flow, error)
}

// NodeStorage is a NodeRepository that can also be written to.
type NodeStorage interface {
	NodeRepository
	SaveFlow(ctx context.Context, flow model.Flow) error
	SaveNode(ctx context.Context, node model.FlowNode) error
}
