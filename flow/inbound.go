package flow

import (
	"context"

	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/util"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ActionExecutor interface {
	Execute(ctx context.Context, node *model.FlowNode, data model.DataContext) (model.ActionResult, error)
}

// InboundHandler runs the node carried by a trigger event and forwards the
// enriched context to the node's children.
type InboundHandler struct {
	executor   ActionExecutor
	propagator *Propagator
}

func NewInboundHandler(executor ActionExecutor, propagator *Propagator) *InboundHandler {
	return &InboundHandler{
		executor:   executor,
		propagator: propagator,
	}
}

func (h *InboundHandler) Handle(ctx context.Context, event *model.TriggerEvent) (err error) {
	node := &event.NodeDetail
	ctx, span := tracer.Start(ctx, "flow.inbound")
	span.SetAttributes(
		attribute.String("organization.id", event.OrganizationID),
		attribute.String("flow.id", event.FlowID),
		attribute.String("node.id", node.ID),
	)
	defer func() {
		endSpan(span, err)
		span.End()
	}()

	if err := CheckNode(node); err != nil {
		return err
	}

	result, err := h.executor.Execute(ctx, node, event.FlattenData)
	if err != nil {
		return err
	}

	data := model.MergeContext(event.FlattenData, util.Flatten(result, node.ID))
	logger.Info("node executed", zap.String("organizationId", event.OrganizationID), zap.String("flowId", event.FlowID), zap.String("nodeId", node.ID), zap.Int("contextSize", len(data)))
	return h.propagator.Propagate(ctx, event.OrganizationID, event.FlowID, node, data)
}
