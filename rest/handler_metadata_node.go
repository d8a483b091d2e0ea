package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/model"
	"go.uber.org/zap"
)

func (s *Server) HandleCreateNode(w http.ResponseWriter, r *http.Request) {
	var node model.FlowNode
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid node")
		return
	}
	if err := s.metadataService.ValidateNode(node); err != nil {
		logger.Error("error validating node", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.metadataService.GetMetadataStorage().SaveNode(r.Context(), node); err != nil {
		logger.Error("error creating node", zap.String("flowId", node.FlowID), zap.String("nodeId", node.ID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating node")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

func (s *Server) HandleGetNode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	node, err := s.metadataService.GetMetadataStorage().GetNode(r.Context(), vars["flowId"], vars["nodeId"])
	if err != nil {
		respondWithStorageError(w, err, "node")
		return
	}
	respondWithJSON(w, http.StatusOK, node)
}
