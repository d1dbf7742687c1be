package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/testutil"
)

// fakeRunner records a completed run with one score per app id.
type fakeRunner struct {
	store evaluation.Store
	apps  []string
	err   error
	calls int
}

func (f *fakeRunner) Evaluate(ctx context.Context) (*evaluation.Run, []pipeline.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}

	run := &evaluation.Run{ProjectName: "lab"}
	if err := f.store.Create(ctx, run); err != nil {
		return nil, nil, err
	}
	if err := f.store.Start(ctx, run.ID); err != nil {
		return nil, nil, err
	}

	results := make([]pipeline.Result, 0, len(f.apps))
	scores := make([]*evaluation.Score, 0, len(f.apps))
	for _, id := range f.apps {
		r := pipeline.Result{AppID: id}
		r.Indices.AppID = id
		r.Indices.WCS = 0.5
		results = append(results, r)

		s, err := evaluation.NewScore(run.ID, r)
		if err != nil {
			return nil, nil, err
		}
		scores = append(scores, s)
	}
	if err := f.store.AddScores(ctx, run.ID, scores); err != nil {
		return nil, nil, err
	}
	if err := f.store.Complete(ctx, run.ID, len(results)); err != nil {
		return nil, nil, err
	}

	run, err := f.store.GetByID(ctx, run.ID)
	return run, results, err
}

// setupTestStore creates an in-memory history store.
func setupTestStore(t *testing.T) evaluation.Store {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &evaluation.Run{}, &evaluation.Score{})
	return evaluation.NewSQLStore(db, logger.NewTestLogger())
}

// serve sends a request through the handler and returns the recorder.
func serve(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
