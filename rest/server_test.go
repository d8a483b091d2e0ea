package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/owlhub/owlflow-jira/flow"
	"github.com/owlhub/owlflow-jira/metadata"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence/redis"
	"github.com/stretchr/testify/require"
)

type recordingWebhookHandler struct {
	requests []*flow.WebhookRequest
	err      error
}

func (h *recordingWebhookHandler) Handle(ctx context.Context, req *flow.WebhookRequest) error {
	h.requests = append(h.requests, req)
	return h.err
}

func TestServer(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *Server, h *recordingWebhookHandler){
		"webhook echoes the request":     testWebhookEcho,
		"webhook answers 200 on failure": testWebhookFailure,
		"flow metadata round trip":       testFlowMetadata,
		"node metadata round trip":       testNodeMetadata,
		"missing metadata is 404":        testMissingMetadata,
		"invalid metadata is rejected":   testInvalidMetadata,
		"health":                         testHealth,
		"oversized webhook is dropped":   testWebhookTooLarge,
	} {
		t.Run(scenario, func(t *testing.T) {
			srv := miniredis.RunT(t)
			dao := redis.NewRedisNodeDao(redis.Config{Addrs: []string{srv.Addr()}, Namespace: "test"})
			t.Cleanup(func() { dao.Close() })
			h := &recordingWebhookHandler{}
			s, err := NewServer(0, metadata.NewMetadataService(dao), h)
			require.NoError(t, err)
			fn(t, s, h)
		})
	}
}

func do(s *Server, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func testWebhookEcho(t *testing.T, s *Server, h *recordingWebhookHandler) {
	body := `{"webhookEvent":"issue_created"}`
	rec := do(s, http.MethodPost, "/webhooks/org1/wh1", body, map[string]string{"User-Agent": flow.DEFAULT_WEBHOOK_USER_AGENT})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var event model.WebhookEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	require.Equal(t, map[string]string{"organizationId": "org1", "webhookId": "wh1"}, event.PathParameters)
	require.Equal(t, flow.DEFAULT_WEBHOOK_USER_AGENT, event.Headers["User-Agent"])
	require.Equal(t, body, event.Body)

	require.Len(t, h.requests, 1)
	require.Equal(t, "org1", h.requests[0].OrganizationID)
	require.Equal(t, "wh1", h.requests[0].WebhookID)
	require.Equal(t, flow.DEFAULT_WEBHOOK_USER_AGENT, h.requests[0].UserAgent)
	require.Equal(t, []byte(body), h.requests[0].Body)
}

func testWebhookFailure(t *testing.T, s *Server, h *recordingWebhookHandler) {
	h.err = flow.UnauthorizedCallerError{UserAgent: "curl"}
	rec := do(s, http.MethodPost, "/webhooks/org1/wh1", `{}`, map[string]string{"User-Agent": "curl"})
	require.Equal(t, http.StatusOK, rec.Code)

	h.err = errors.New("redis down")
	rec = do(s, http.MethodPost, "/webhooks/org1/wh1", `{}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, h.requests, 2)
}

func testFlowMetadata(t *testing.T, s *Server, h *recordingWebhookHandler) {
	body := `{"id":"flow1","organizationId":"org1","parentNodeId":"n1","webhookId":"wh1"}`
	rec := do(s, http.MethodPost, "/metadata/flow", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/metadata/flow/org1/wh1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fl model.Flow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fl))
	require.Equal(t, model.Flow{ID: "flow1", OrganizationID: "org1", ParentNodeID: "n1", WebhookID: "wh1"}, fl)
}

func testNodeMetadata(t *testing.T, s *Server, h *recordingWebhookHandler) {
	body := `{"id":"n1","flowId":"flow1","rootId":"n1","actions":["issue_created"],"childrenIds":["n2"],"api":{"service":"jira"}}`
	rec := do(s, http.MethodPost, "/metadata/node", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodGet, "/metadata/node/flow1/n1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var node model.FlowNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &node))
	require.Equal(t, []string{"issue_created"}, node.Actions)
	require.Equal(t, []string{"n2"}, node.ChildrenIDs)
	require.Equal(t, "jira", node.API.Service)
}

func testMissingMetadata(t *testing.T, s *Server, h *recordingWebhookHandler) {
	require.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/metadata/flow/org1/nope", "", nil).Code)
	require.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/metadata/node/flow1/nope", "", nil).Code)
}

func testInvalidMetadata(t *testing.T, s *Server, h *recordingWebhookHandler) {
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodPost, "/metadata/flow", `{"id":"flow1"}`, nil).Code)
	require.Equal(t, http.StatusBadRequest, do(s, http.MethodPost, "/metadata/node", `not json`, nil).Code)
}

func testHealth(t *testing.T, s *Server, h *recordingWebhookHandler) {
	rec := do(s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func testWebhookTooLarge(t *testing.T, s *Server, h *recordingWebhookHandler) {
	body := `{"webhookEvent":"issue_created","pad":"` + strings.Repeat("x", int(MAX_WEBHOOK_BODY_BYTES)) + `"}`
	rec := do(s, http.MethodPost, "/webhooks/org1/wh1", body, map[string]string{"User-Agent": flow.DEFAULT_WEBHOOK_USER_AGENT})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, h.requests)
}
