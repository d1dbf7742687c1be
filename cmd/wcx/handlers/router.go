package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Store          evaluation.Store
	Runner         Runner
	MetricsHandler http.Handler
	APITokenHash   string
	Version        string
	Logger         logger.Logger
}

// NewRouter wires the public and token protected routes.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(cfg.Logger))

	healthHandler := NewHealthHandler(cfg.Store, cfg.Version, cfg.Logger)
	router.HandleFunc("/health", healthHandler.Check).Methods("GET")
	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler).Methods("GET")
	}

	evaluationHandler := NewEvaluationHandler(cfg.Store, cfg.Runner, cfg.Logger)
	tokenMiddleware := NewTokenMiddleware(cfg.APITokenHash, cfg.Logger)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(tokenMiddleware.Handler)

	apiRouter.HandleFunc("/evaluations", evaluationHandler.List).Methods("GET")
	apiRouter.HandleFunc("/evaluations", evaluationHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/evaluations/{id}", evaluationHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/evaluations/{id}/scores", evaluationHandler.ListScores).Methods("GET")
	apiRouter.HandleFunc("/apps/{app_id}/scores", evaluationHandler.ListAppScores).Methods("GET")

	return router
}
