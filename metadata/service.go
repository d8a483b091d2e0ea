package metadata

import (
	"fmt"

	"github.com/owlhub/owlflow-jira/action"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence"
)

// MetadataService validates Flow and FlowNode definitions before they reach
// the node repository.
type MetadataService interface {
	ValidateFlow(fl model.Flow) error
	ValidateNode(node model.FlowNode) error
	GetMetadataStorage() persistence.NodeStorage
}

type MetadataServiceImpl struct {
	storage persistence.NodeStorage
}

func NewMetadataService(storage persistence.NodeStorage) MetadataService {
	return &MetadataServiceImpl{
		storage: storage,
	}
}

func (s *MetadataServiceImpl) ValidateFlow(fl model.Flow) error {
	if fl.ID == "" {
		return fmt.Errorf("flow id is required")
	}
	if fl.OrganizationID == "" {
		return fmt.Errorf("flow %s: organizationId is required", fl.ID)
	}
	if fl.WebhookID == "" {
		return fmt.Errorf("flow %s: webhookId is required", fl.ID)
	}
	if fl.ParentNodeID == "" {
		return fmt.Errorf("flow %s: parentNodeId is required", fl.ID)
	}
	return nil
}

func (s *MetadataServiceImpl) ValidateNode(node model.FlowNode) error {
	if node.ID == "" || node.FlowID == "" {
		return fmt.Errorf("node id and flowId are required")
	}
	seen := make(map[string]bool, len(node.ChildrenIDs))
	for _, child := range node.ChildrenIDs {
		if child == node.ID {
			return fmt.Errorf("node %s lists itself as a child", node.ID)
		}
		if seen[child] {
			return fmt.Errorf("node %s: child %s is duplicate", node.ID, child)
		}
		seen[child] = true
	}

	known := false
	for _, name := range node.Actions {
		_, ok, err := action.Build(name, &node)
		if err != nil {
			return fmt.Errorf("node %s, action %s: %w", node.ID, name, err)
		}
		known = known || ok
	}
	if !known {
		return nil
	}
	creds, err := action.Credentials(&node)
	if err != nil {
		return fmt.Errorf("node %s: %w", node.ID, err)
	}
	if creds.SiteURL == "" {
		return fmt.Errorf("node %s: meta.siteUrl is required for jira actions", node.ID)
	}
	return nil
}

func (s *MetadataServiceImpl) GetMetadataStorage() persistence.NodeStorage {
	return s.storage
}
