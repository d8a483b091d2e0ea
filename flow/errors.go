package flow

import "fmt"

// InactiveWorkflowError is returned when a flow, a node or the node's root
// is paused.
type InactiveWorkflowError struct {
	Kind string
	ID   string
}

func (e InactiveWorkflowError) Error() string {
	return fmt.Sprintf("owlflow %s %s is inactive", e.Kind, e.ID)
}

type UnauthorizedCallerError struct {
	UserAgent string
}

func (e UnauthorizedCallerError) Error() string {
	return fmt.Sprintf("caller with user agent %q is not allowed", e.UserAgent)
}

type UnrecognizedWebhookEventError struct {
	NodeID string
	Event  string
}

func (e UnrecognizedWebhookEventError) Error() string {
	return fmt.Sprintf("webhook event %q is not enabled on node %s", e.Event, e.NodeID)
}

// PublishError is the failure to hand one child its trigger event. It covers
// resolving the child as well as publishing.
type PublishError struct {
	ChildID string
	Err     error
}

func (e PublishError) Error() string {
	return fmt.Sprintf("publish to child %s failed: %v", e.ChildID, e.Err)
}

func (e PublishError) Unwrap() error {
	return e.Err
}
