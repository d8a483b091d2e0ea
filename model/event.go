package model

import (
	"fmt"
	"time"
)

const (
	TRIGGER_EVENT         = "owlflow.hooks"
	TRIGGER_EVENT_SOURCE  = "hooks.owlflow.io"
	TRIGGER_EVENT_VERSION = "1.0"

	ENVELOPE_DETAIL_TYPE = "owlflow"
	ENVELOPE_SOURCE      = "owlhub.owlflow"
)

// TriggerEvent starts or continues the execution of the node in NodeDetail.
type TriggerEvent struct {
	Event          string      `json:"event"`
	EventSource    string      `json:"eventSource"`
	EventVersion   string      `json:"eventVersion"`
	ConsumerAPI    ConsumerAPI `json:"consumerAPI"`
	OrganizationID string      `json:"organizationId"`
	FlowID         string      `json:"flowId"`
	NodeDetail     FlowNode    `json:"nodeDetail"`
	FlattenData    DataContext `json:"flattenData"`
}

// Envelope is what goes on the event bus; Detail carries the trigger.
type Envelope struct {
	ID           string       `json:"id"`
	DetailType   string       `json:"detailType"`
	Source       string       `json:"source"`
	EventBusName string       `json:"eventBusName,omitempty"`
	Resources    []string     `json:"resources"`
	Time         time.Time    `json:"time"`
	Detail       TriggerEvent `json:"detail"`
}

// FlowResource is the resource identifier an envelope is addressed to.
func FlowResource(organizationID, flowID string) string {
	return fmt.Sprintf("orn:owlhub:owlflow:%s:flows/%s", organizationID, flowID)
}

// WebhookEvent is the inbound webhook request as seen by the HTTP boundary.
// It is echoed back to the caller unchanged.
type WebhookEvent struct {
	PathParameters map[string]string `json:"pathParameters"`
	Headers        map[string]string `json:"headers"`
	Body           string            `json:"body"`
}
