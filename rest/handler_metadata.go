package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"github.com/owlhub/owlflow-jira/persistence"
)

func (s *Server) HandleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var fl model.Flow
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&fl); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid flow")
		return
	}
	if err := s.metadataService.ValidateFlow(fl); err != nil {
		logger.Error("error validating flow", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.metadataService.GetMetadataStorage().SaveFlow(r.Context(), fl); err != nil {
		logger.Error("error creating flow", zap.String("flowId", fl.ID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating flow")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

func (s *Server) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fl, err := s.metadataService.GetMetadataStorage().GetFlowByWebhookID(r.Context(), vars["organizationId"], vars["webhookId"])
	if err != nil {
		respondWithStorageError(w, err, "flow")
		return
	}
	respondWithJSON(w, http.StatusOK, fl)
}

func respondWithStorageError(w http.ResponseWriter, err error, kind string) {
	var notFound persistence.NotFoundError
	if errors.As(err, &notFound) {
		logger.Info(kind+" does not exist", zap.String("key", notFound.Key))
		respondWithError(w, http.StatusNotFound, kind+" does not exist")
		return
	}
	logger.Error("error reading "+kind, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "error reading "+kind)
}
