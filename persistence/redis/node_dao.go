package redis

import (
	"context"
	"errors"

	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence"
	"github.com/owlhub/owlflow-jira/util"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const NODE_KEY string = "NODE"
const WEBHOOK_KEY string = "WEBHOOK"

var _ persistence.NodeStorage = new(redisNodeDao)

// redisNodeDao keeps nodes in one hash per flow (field: node id) and flows
// in one hash per organization (field: webhook id).
type redisNodeDao struct {
	*baseDao
	nodeEncoderDecoder util.EncoderDecoder[model.FlowNode]
	flowEncoderDecoder util.EncoderDecoder[model.Flow]
}

func NewRedisNodeDao(conf Config) *redisNodeDao {
	return &redisNodeDao{
		baseDao:            newBaseDao(conf),
		nodeEncoderDecoder: util.NewJsonEncoderDecoder[model.FlowNode](),
		flowEncoderDecoder: util.NewJsonEncoderDecoder[model.Flow](),
	}
}

func (nd *redisNodeDao) SaveNode(ctx context.Context, node model.FlowNode) error {
	data, err := nd.nodeEncoderDecoder.Encode(node)
	if err != nil {
		return err
	}
	key := nd.getNamespaceKey(NODE_KEY, node.FlowID)
	if err := nd.redisClient.HSet(ctx, key, node.ID, string(data)).Err(); err != nil {
		logger.Error("error in saving flow node", zap.String("flowId", node.FlowID), zap.String("nodeId", node.ID), zap.Error(err))
		return persistence.StorageLayerError{Message: "save node", Err: err}
	}
	return nil
}

func (nd *redisNodeDao) GetNode(ctx context.Context, flowId string, nodeId string) (*model.FlowNode, error) {
	key := nd.getNamespaceKey(NODE_KEY, flowId)
	val, err := nd.redisClient.HGet(ctx, key, nodeId).Result()
	if errors.Is(err, rd.Nil) {
		return nil, persistence.NotFoundError{Kind: "node", Key: flowId + "/" + nodeId}
	}
	if err != nil {
		logger.Error("error in getting flow node", zap.String("flowId", flowId), zap.String("nodeId", nodeId), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: "get node", Err: err}
	}
	return nd.nodeEncoderDecoder.Decode([]byte(val))
}

func (nd *redisNodeDao) SaveFlow(ctx context.Context, flow model.Flow) error {
	if flow.WebhookID == "" {
		return persistence.StorageLayerError{Message: "flow " + flow.ID + " has no webhook id"}
	}
	data, err := nd.flowEncoderDecoder.Encode(flow)
	if err != nil {
		return err
	}
	key := nd.getNamespaceKey(WEBHOOK_KEY, flow.OrganizationID)
	if err := nd.redisClient.HSet(ctx, key, flow.WebhookID, string(data)).Err(); err != nil {
		logger.Error("error in saving flow", zap.String("organizationId", flow.OrganizationID), zap.String("flowId", flow.ID), zap.Error(err))
		return persistence.StorageLayerError{Message: "save flow", Err: err}
	}
	return nil
}

func (nd *redisNodeDao) GetFlowByWebhookID(ctx context.Context, organizationId string, webhookId string) (*model.Flow, error) {
	key := nd.getNamespaceKey(WEBHOOK_KEY, organizationId)
	val, err := nd.redisClient.HGet(ctx, key, webhookId).Result()
	if errors.Is(err, rd.Nil) {
		return nil, persistence.NotFoundError{Kind: "flow", Key: organizationId + "/" + webhookId}
	}
	if err != nil {
		logger.Error("error in getting flow", zap.String("organizationId", organizationId), zap.String("webhookId", webhookId), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: "get flow", Err: err}
	}
	return nd.flowEncoderDecoder.Decode([]byte(val))
}
