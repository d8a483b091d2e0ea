package flow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Publisher puts one envelope on the event bus and waits for the bus to
// accept it.
type Publisher interface {
	Publish(ctx context.Context, envelope *model.Envelope) error
}

// Propagator hands a node's context to each of its children as a new
// trigger event.
type Propagator struct {
	repo         persistence.NodeRepository
	publisher    Publisher
	eventBusName string
	now          func() time.Time
}

func NewPropagator(repo persistence.NodeRepository, publisher Publisher, eventBusName string) *Propagator {
	return &Propagator{
		repo:         repo,
		publisher:    publisher,
		eventBusName: eventBusName,
		now:          time.Now,
	}
}

// Propagate publishes one envelope per child, in the order the node lists
// them. A child that cannot be resolved or published to does not stop the
// others; all failures are returned together as PublishErrors.
func (p *Propagator) Propagate(ctx context.Context, organizationId string, flowId string, node *model.FlowNode, data model.DataContext) error {
	ctx, span := tracer.Start(ctx, "flow.propagate")
	defer span.End()
	span.SetAttributes(
		attribute.String("flow.id", flowId),
		attribute.String("node.id", node.ID),
		attribute.Int("node.children", len(node.ChildrenIDs)),
	)

	snapshot := data.Clone()
	var errs error
	for _, childId := range node.ChildrenIDs {
		if err := p.publishChild(ctx, organizationId, flowId, childId, snapshot); err != nil {
			logger.Error("error in propagating to child", zap.String("flowId", flowId), zap.String("nodeId", node.ID), zap.String("child", childId), zap.Error(err))
			errs = multierr.Append(errs, PublishError{ChildID: childId, Err: err})
		}
	}
	endSpan(span, errs)
	return errs
}

func (p *Propagator) publishChild(ctx context.Context, organizationId string, flowId string, childId string, data model.DataContext) error {
	child, err := p.repo.GetNode(ctx, flowId, childId)
	if err != nil {
		return err
	}
	envelope := &model.Envelope{
		ID:           uuid.NewString(),
		DetailType:   model.ENVELOPE_DETAIL_TYPE,
		Source:       model.ENVELOPE_SOURCE,
		EventBusName: p.eventBusName,
		Resources:    []string{model.FlowResource(organizationId, flowId)},
		Time:         p.now().UTC(),
		Detail: model.TriggerEvent{
			Event:          model.TRIGGER_EVENT,
			EventSource:    model.TRIGGER_EVENT_SOURCE,
			EventVersion:   model.TRIGGER_EVENT_VERSION,
			ConsumerAPI:    child.API,
			OrganizationID: organizationId,
			FlowID:         flowId,
			NodeDetail:     *child,
			FlattenData:    data,
		},
	}
	if err := p.publisher.Publish(ctx, envelope); err != nil {
		return err
	}
	logger.Info("published trigger event", zap.String("flowId", flowId), zap.String("child", childId), zap.String("envelopeId", envelope.ID))
	return nil
}
