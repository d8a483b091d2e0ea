package rest

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/owlhub/owlflow-jira/flow"
	"github.com/owlhub/owlflow-jira/model"
)

const MAX_WEBHOOK_BODY_BYTES int64 = 10 << 20

// HandleWebhook always answers 200 with the request echoed back. Failures
// are only logged so Jira never retries a delivery.
func (s *Server) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MAX_WEBHOOK_BODY_BYTES))
	defer r.Body.Close()

	event := model.WebhookEvent{
		PathParameters: vars,
		Headers:        make(map[string]string, len(r.Header)),
		Body:           string(body),
	}
	for name := range r.Header {
		event.Headers[name] = r.Header.Get(name)
	}

	if err == nil {
		err = s.webhookHandler.Handle(r.Context(), &flow.WebhookRequest{
			OrganizationID: vars["organizationId"],
			WebhookID:      vars["webhookId"],
			UserAgent:      r.UserAgent(),
			Body:           body,
		})
	}
	flow.Acknowledge(flow.Outcome{Source: "webhook", Err: err})
	respondWithJSON(w, http.StatusOK, event)
}
