package persistence

import (
	"context"
	"time"

	"github.com/owlhub/owlflow-jira/model"
	c "github.com/patrickmn/go-cache"
)

var _ NodeStorage = new(CachedNodeStorage)

// CachedNodeStorage keeps resolved records in memory for ttl. Writes go
// through to the underlying storage and refresh the cache.
type CachedNodeStorage struct {
	storage NodeStorage
	cache   *c.Cache
	ttl     time.Duration
}

func NewCachedNodeStorage(storage NodeStorage, ttl time.Duration) *CachedNodeStorage {
	return &CachedNodeStorage{
		storage: storage,
		cache:   c.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

func nodeCacheKey(flowId, nodeId string) string {
	return "node:" + flowId + ":" + nodeId
}

func webhookCacheKey(organizationId, webhookId string) string {
	return "webhook:" + organizationId + ":" + webhookId
}

func (cs *CachedNodeStorage) GetNode(ctx context.Context, flowId string, nodeId string) (*model.FlowNode, error) {
	key := nodeCacheKey(flowId, nodeId)
	if v, found := cs.cache.Get(key); found {
		node := v.(model.FlowNode)
		return &node, nil
	}
	node, err := cs.storage.GetNode(ctx, flowId, nodeId)
	if err != nil {
		return nil, err
	}
	cs.cache.Set(key, *node, cs.ttl)
	return node, nil
}

func (cs *CachedNodeStorage) GetFlowByWebhookID(ctx context.Context, organizationId string, webhookId string) (*model.Flow, error) {
	key := webhookCacheKey(organizationId, webhookId)
	if v, found := cs.cache.Get(key); found {
		flow := v.(model.Flow)
		return &flow, nil
	}
	flow, err := cs.storage.GetFlowByWebhookID(ctx, organizationId, webhookId)
	if err != nil {
		return nil, err
	}
	cs.cache.Set(key, *flow, cs.ttl)
	return flow, nil
}

func (cs *CachedNodeStorage) SaveFlow(ctx context.Context, flow model.Flow) error {
	if err := cs.storage.SaveFlow(ctx, flow); err != nil {
		return err
	}
	if flow.WebhookID != "" {
		cs.cache.Set(webhookCacheKey(flow.OrganizationID, flow.WebhookID), flow, cs.ttl)
	}
	return nil
}

func (cs *CachedNodeStorage) SaveNode(ctx context.Context, node model.FlowNode) error {
	if err := cs.storage.SaveNode(ctx, node); err != nil {
		return err
	}
	cs.cache.Set(nodeCacheKey(node.FlowID, node.ID), node, cs.ttl)
	return nil
}
