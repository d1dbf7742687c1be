package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
)

// Runner runs one evaluation of the configured applications.
type Runner interface {
	Evaluate(ctx context.Context) (*evaluation.Run, []pipeline.Result, error)
}

// EvaluationResponse is returned after an evaluation finishes.
type EvaluationResponse struct {
	Run     *evaluation.Run   `json:"run"`
	Results []pipeline.Result `json:"results"`
}

// RunDetailResponse is a run together with its scores.
type RunDetailResponse struct {
	Run    *evaluation.Run     `json:"run"`
	Scores []*evaluation.Score `json:"scores"`
}

// EvaluationHandler handles evaluation run requests.
type EvaluationHandler struct {
	store  evaluation.Store
	runner Runner
	logger logger.Logger

	// mu serialises evaluations.
	mu sync.Mutex
}

// NewEvaluationHandler creates a new evaluation handler.
func NewEvaluationHandler(store evaluation.Store, runner Runner, log logger.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		store:  store,
		runner: runner,
		logger: log,
	}
}

// Create runs an evaluation and returns its results.
func (h *EvaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	run, results, err := h.runner.Evaluate(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "evaluation failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "evaluation failed: "+err.Error())
		return
	}

	if results == nil {
		results = []pipeline.Result{}
	}
	respondJSON(w, http.StatusCreated, EvaluationResponse{Run: run, Results: results})
}

// List returns recorded runs, newest first.
func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	runs, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list evaluations")
		return
	}
	total, err := h.store.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count evaluations")
		return
	}

	if runs == nil {
		runs = []*evaluation.Run{}
	}
	respondJSON(w, http.StatusOK, NewPaginatedResponse(runs, int(total), limit, offset))
}

// GetByID returns one run with its scores.
func (h *EvaluationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "evaluation")
	if !ok {
		return
	}

	run, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	scores, err := h.store.ListScores(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, RunDetailResponse{Run: run, Scores: nonNilScores(scores)})
}

// ListScores returns the scores of one run.
func (h *EvaluationHandler) ListScores(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDOrRespond(w, r, "id", "evaluation")
	if !ok {
		return
	}

	if _, err := h.store.GetByID(r.Context(), id); err != nil {
		h.respondStoreError(w, err)
		return
	}
	scores, err := h.store.ListScores(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNilScores(scores))
}

// ListAppScores returns an application's scores across runs, newest first.
func (h *EvaluationHandler) ListAppScores(w http.ResponseWriter, r *http.Request) {
	appID := mux.Vars(r)["app_id"]
	limit, _ := parsePagination(r)

	scores, err := h.store.ListScoresByApp(r.Context(), appID, limit)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNilScores(scores))
}

func (h *EvaluationHandler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, evaluation.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "evaluation not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "failed to load evaluation")
}

func nonNilScores(scores []*evaluation.Score) []*evaluation.Score {
	if scores == nil {
		return []*evaluation.Score{}
	}
	return scores
}
