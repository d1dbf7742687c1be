package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

func newTestRouter(t *testing.T, runner *fakeRunner, tokenHash string) http.Handler {
	t.Helper()
	if runner.store == nil {
		runner.store = setupTestStore(t)
	}
	return NewRouter(RouterConfig{
		Store:          runner.store,
		Runner:         runner,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("wcx_evaluations_total 1\n")) }),
		APITokenHash:   tokenHash,
		Version:        "1.2.3",
		Logger:         logger.NewTestLogger(),
	})
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, &fakeRunner{}, "")

	w := serve(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"wcx","version":"1.2.3","database":"ok"}`, w.Body.String())

	w = serve(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wcx_evaluations_total")
}

func TestEvaluationHandler_Create(t *testing.T) {
	t.Run("runs an evaluation", func(t *testing.T) {
		runner := &fakeRunner{apps: []string{"shop", "blog"}}
		router := newTestRouter(t, runner, "")

		w := serve(router, http.MethodPost, "/api/v1/evaluations", nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp EvaluationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Run)
		assert.Equal(t, evaluation.StatusCompleted, resp.Run.Status)
		assert.Equal(t, 2, resp.Run.AppCount)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "shop", resp.Results[0].AppID)
		assert.Equal(t, 1, runner.calls)
	})

	t.Run("runner failure", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("export failed")}
		router := newTestRouter(t, runner, "")

		w := serve(router, http.MethodPost, "/api/v1/evaluations", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "export failed")
	})
}

func TestEvaluationHandler_ListAndGet(t *testing.T) {
	runner := &fakeRunner{apps: []string{"shop"}}
	router := newTestRouter(t, runner, "")

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/v1/evaluations", nil).Code)
	}

	t.Run("paginated list", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/evaluations?limit=2&offset=0", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items  []evaluation.Run `json:"items"`
			Total  int              `json:"total"`
			Limit  int              `json:"limit"`
			Offset int              `json:"offset"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, 2, resp.Limit)
	})

	t.Run("invalid pagination falls back to defaults", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/evaluations?limit=abc&offset=-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, defaultLimit, resp.Limit)
		assert.Equal(t, 0, resp.Offset)
	})

	runs, err := runner.store.List(t.Context(), 1, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	id := runs[0].ID.String()

	t.Run("get run with scores", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/evaluations/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp RunDetailResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, id, resp.Run.ID.String())
		require.Len(t, resp.Scores, 1)
		assert.Equal(t, "shop", resp.Scores[0].AppID)
	})

	t.Run("run scores", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/evaluations/"+id+"/scores", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var scores []evaluation.Score
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scores))
		assert.Len(t, scores, 1)
	})

	t.Run("app scores across runs", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/apps/shop/scores?limit=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var scores []evaluation.Score
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scores))
		assert.Len(t, scores, 2)
	})

	t.Run("unknown app returns empty list", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/apps/nope/scores", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("invalid id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/evaluations/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/v1/evaluations/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = serve(router, http.MethodGet, "/api/v1/evaluations/"+uuid.NewString()+"/scores", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
