package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/owlhub/owlflow-jira/flow"
	"github.com/owlhub/owlflow-jira/logger"
	"github.com/owlhub/owlflow-jira/metadata"
	"go.uber.org/zap"
)

type WebhookHandler interface {
	Handle(ctx context.Context, req *flow.WebhookRequest) error
}

type Server struct {
	http.Server
	Port            int
	metadataService metadata.MetadataService
	webhookHandler  WebhookHandler
}

func NewServer(httpPort int, metadataService metadata.MetadataService, webhookHandler WebhookHandler) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		metadataService: metadataService,
		webhookHandler:  webhookHandler,
		Port:            httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/webhooks/{organizationId}/{webhookId}", s.HandleWebhook).Methods(http.MethodPost)

	router.HandleFunc("/metadata/flow", s.HandleCreateFlow).Methods(http.MethodPost)
	router.HandleFunc("/metadata/flow/{organizationId}/{webhookId}", s.HandleGetFlow).Methods(http.MethodGet)

	router.HandleFunc("/metadata/node", s.HandleCreateNode).Methods(http.MethodPost)
	router.HandleFunc("/metadata/node/{flowId}/{nodeId}", s.HandleGetNode).Methods(http.MethodGet)

	router.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI, zap.String("method", r.Method))
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	respondWithJSON(w, http.StatusOK, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
