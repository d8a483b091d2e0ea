package flow

import (
	"context"
	"fmt"

	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/persistence"
	"github.com/owlhub/owlflow-jira/util"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const DEFAULT_WEBHOOK_USER_AGENT = "Atlassian Webhook HTTP Client"

const WEBHOOK_EVENT_FIELD = "webhookEvent"
const JIRA_EVENT_FIELD = "jira_event"

type WebhookRequest struct {
	OrganizationID string
	WebhookID      string
	UserAgent      string
	Body           []byte
}

// WebhookHandler starts a flow from an external Jira webhook. The payload
// itself becomes the context handed to the parent node's children.
type WebhookHandler struct {
	repo       persistence.NodeRepository
	propagator *Propagator
	userAgents map[string]struct{}
	decoder    util.EncoderDecoder[map[string]any]
}

func NewWebhookHandler(repo persistence.NodeRepository, propagator *Propagator, userAgents []string) *WebhookHandler {
	if len(userAgents) == 0 {
		userAgents = []string{DEFAULT_WEBHOOK_USER_AGENT}
	}
	allowed := make(map[string]struct{}, len(userAgents))
	for _, ua := range userAgents {
		allowed[ua] = struct{}{}
	}
	return &WebhookHandler{
		repo:       repo,
		propagator: propagator,
		userAgents: allowed,
		decoder:    util.NewJsonEncoderDecoder[map[string]any](),
	}
}

func (h *WebhookHandler) Handle(ctx context.Context, req *WebhookRequest) (err error) {
	ctx, span := tracer.Start(ctx, "flow.webhook")
	span.SetAttributes(
		attribute.String("organization.id", req.OrganizationID),
		attribute.String("webhook.id", req.WebhookID),
	)
	defer func() {
		endSpan(span, err)
		span.End()
	}()

	if _, ok := h.userAgents[req.UserAgent]; !ok {
		return UnauthorizedCallerError{UserAgent: req.UserAgent}
	}

	flow, err := h.repo.GetFlowByWebhookID(ctx, req.OrganizationID, req.WebhookID)
	if err != nil {
		return err
	}
	if err := CheckFlow(flow); err != nil {
		return err
	}

	node, err := h.repo.GetNode(ctx, flow.ID, flow.ParentNodeID)
	if err != nil {
		return err
	}
	if err := CheckNode(node); err != nil {
		return err
	}

	parsed := gjson.ParseBytes(req.Body)
	if !gjson.ValidBytes(req.Body) || !parsed.IsObject() {
		return fmt.Errorf("webhook %s: payload is not a JSON object", req.WebhookID)
	}
	// Only a string event type is checked; anything else is recorded as "".
	var event string
	if field := parsed.Get(WEBHOOK_EVENT_FIELD); field.Type == gjson.String {
		event = field.Str
	}
	if event != "" && !node.HasAction(event) {
		return UnrecognizedWebhookEventError{NodeID: node.ID, Event: event}
	}

	payload, err := h.decoder.Decode(req.Body)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", req.WebhookID, err)
	}
	data := util.Flatten(*payload, node.ID)
	data[node.Namespaced(JIRA_EVENT_FIELD)] = event

	logger.Info("webhook accepted", zap.String("organizationId", flow.OrganizationID), zap.String("flowId", flow.ID), zap.String("nodeId", node.ID), zap.String("event", event))
	return h.propagator.Propagate(ctx, flow.OrganizationID, flow.ID, node, data)
}
