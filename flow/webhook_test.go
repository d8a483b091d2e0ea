package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence"
	"github.com/stretchr/testify/require"
)

const issueCreatedPayload = `{
	"timestamp": 1525698237764,
	"webhookEvent": "issue_created",
	"user": {"accountId": "acc-9", "displayName": "Ana"},
	"issue": {"key": "OWL-12", "fields": {"labels": ["bug", "ui"], "assignee": null}}
}`

type webhookFixture struct {
	repo    *memoryRepo
	pub     *recordingPublisher
	handler *WebhookHandler
}

func webhookRequest(body string) *WebhookRequest {
	return &WebhookRequest{
		OrganizationID: "org1",
		WebhookID:      "wh1",
		UserAgent:      DEFAULT_WEBHOOK_USER_AGENT,
		Body:           []byte(body),
	}
}

func TestWebhookHandler(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, f *webhookFixture){
		"issue created reaches both children":  testWebhookIssueCreated,
		"issue deleted is rejected":            testWebhookIssueDeleted,
		"unknown caller is rejected":           testWebhookUnknownCaller,
		"paused flow is rejected":              testWebhookPausedFlow,
		"paused parent node is rejected":       testWebhookPausedNode,
		"unknown webhook":                      testWebhookUnknown,
		"missing event type":                   testWebhookWithoutEvent,
		"payload must be an object":            testWebhookNotObject,
		"non string event type is not checked": testWebhookNonStringEvent,
	} {
		t.Run(scenario, func(t *testing.T) {
			f := &webhookFixture{
				repo: newMemoryRepo(),
				pub:  newRecordingPublisher(),
			}
			f.repo.addFlow(model.Flow{ID: "flow1", OrganizationID: "org1", ParentNodeID: "n1", WebhookID: "wh1"})
			f.repo.addNode(model.FlowNode{
				ID:          "n1",
				FlowID:      "flow1",
				RootID:      "n1",
				Actions:     []string{"issue_created"},
				ChildrenIDs: []string{"c1", "c2"},
			})
			f.repo.addNode(model.FlowNode{ID: "c1", FlowID: "flow1", API: model.ConsumerAPI{Service: "jira"}})
			f.repo.addNode(model.FlowNode{ID: "c2", FlowID: "flow1", API: model.ConsumerAPI{Service: "slack"}})
			f.handler = NewWebhookHandler(f.repo, NewPropagator(f.repo, f.pub, "owlhub-bus"), nil)
			fn(t, f)
		})
	}
}

func testWebhookIssueCreated(t *testing.T, f *webhookFixture) {
	require.NoError(t, f.handler.Handle(context.Background(), webhookRequest(issueCreatedPayload)))
	require.Equal(t, []string{"c1", "c2"}, f.pub.children())

	for _, env := range f.pub.envelopes {
		data := env.Detail.FlattenData
		require.Equal(t, "issue_created", data["n1_jira_event"])
		require.Equal(t, "issue_created", data["n1_webhookEvent"])
		require.EqualValues(t, 1525698237764, data["n1_timestamp"])
		require.Equal(t, "acc-9", data["n1_user_accountId"])
		require.Equal(t, "OWL-12", data["n1_issue_key"])
		require.Equal(t, "bug", data["n1_issue_fields_labels_0"])
		require.Equal(t, "ui", data["n1_issue_fields_labels_1"])
		require.Contains(t, data, "n1_issue_fields_assignee")
		require.Nil(t, data["n1_issue_fields_assignee"])
		require.Equal(t, "org1", env.Detail.OrganizationID)
		require.Equal(t, "flow1", env.Detail.FlowID)
	}
	require.Equal(t, f.pub.envelopes[0].Detail.FlattenData, f.pub.envelopes[1].Detail.FlattenData)
}

func testWebhookIssueDeleted(t *testing.T, f *webhookFixture) {
	err := f.handler.Handle(context.Background(), webhookRequest(`{"webhookEvent": "issue_deleted"}`))
	require.Equal(t, UnrecognizedWebhookEventError{NodeID: "n1", Event: "issue_deleted"}, err)
	require.Empty(t, f.pub.children())
}

func testWebhookUnknownCaller(t *testing.T, f *webhookFixture) {
	req := webhookRequest(issueCreatedPayload)
	req.UserAgent = "curl/8.4.0"

	err := f.handler.Handle(context.Background(), req)
	var unauthorized UnauthorizedCallerError
	require.True(t, errors.As(err, &unauthorized))
	require.Empty(t, f.pub.children())
}

func testWebhookPausedFlow(t *testing.T, f *webhookFixture) {
	f.repo.addFlow(model.Flow{ID: "flow1", OrganizationID: "org1", ParentNodeID: "n1", WebhookID: "wh1", Paused: true})

	err := f.handler.Handle(context.Background(), webhookRequest(issueCreatedPayload))
	require.Equal(t, InactiveWorkflowError{Kind: "flow", ID: "flow1"}, err)
	require.Empty(t, f.pub.children())
}

func testWebhookPausedNode(t *testing.T, f *webhookFixture) {
	f.repo.addNode(model.FlowNode{ID: "n1", FlowID: "flow1", RootID: "n1", Paused: true, Actions: []string{"issue_created"}, ChildrenIDs: []string{"c1"}})

	err := f.handler.Handle(context.Background(), webhookRequest(issueCreatedPayload))
	require.Equal(t, InactiveWorkflowError{Kind: "node", ID: "n1"}, err)
	require.Empty(t, f.pub.children())
}

func testWebhookUnknown(t *testing.T, f *webhookFixture) {
	req := webhookRequest(issueCreatedPayload)
	req.WebhookID = "other"

	err := f.handler.Handle(context.Background(), req)
	var notFound persistence.NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Empty(t, f.pub.children())
}

func testWebhookWithoutEvent(t *testing.T, f *webhookFixture) {
	require.NoError(t, f.handler.Handle(context.Background(), webhookRequest(`{"issue": {"key": "OWL-3"}}`)))
	require.Len(t, f.pub.envelopes, 2)

	data := f.pub.envelopes[0].Detail.FlattenData
	require.Equal(t, "", data["n1_jira_event"])
	require.Equal(t, "OWL-3", data["n1_issue_key"])
}

func testWebhookNotObject(t *testing.T, f *webhookFixture) {
	require.Error(t, f.handler.Handle(context.Background(), webhookRequest(`["issue_created"]`)))
	require.Error(t, f.handler.Handle(context.Background(), webhookRequest(`not json`)))
	require.Empty(t, f.pub.children())
}

func testWebhookNonStringEvent(t *testing.T, f *webhookFixture) {
	for _, body := range []string{
		`{"webhookEvent": false, "issue": {"key": "OWL-4"}}`,
		`{"webhookEvent": 0, "issue": {"key": "OWL-4"}}`,
		`{"webhookEvent": null, "issue": {"key": "OWL-4"}}`,
	} {
		require.NoError(t, f.handler.Handle(context.Background(), webhookRequest(body)))
	}
	require.Len(t, f.pub.envelopes, 6)
	for _, env := range f.pub.envelopes {
		require.Equal(t, "", env.Detail.FlattenData["n1_jira_event"])
		require.Equal(t, "OWL-4", env.Detail.FlattenData["n1_issue_key"])
	}
}
