package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

func TestTokenMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-token"), bcrypt.MinCost)
	require.NoError(t, err)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		hash       string
		header     string
		wantStatus int
	}{
		{name: "no hash configured passes", hash: "", wantStatus: http.StatusOK},
		{name: "valid token passes", hash: string(hash), header: "Bearer s3cret-token", wantStatus: http.StatusOK},
		{name: "wrong token rejected", hash: string(hash), header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header rejected", hash: string(hash), wantStatus: http.StatusUnauthorized},
		{name: "non bearer scheme rejected", hash: string(hash), header: "Basic abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := logger.NewTestLogger()
			handler := NewTokenMiddleware(tc.hash, log).Handler(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/evaluations", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusUnauthorized {
				assert.Len(t, log.EntriesAt("warn"), 1)
			}
		})
	}
}

func TestRouter_ProtectsAPIOnly(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("tok"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newTestRouter(t, &fakeRunner{}, string(hash))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/evaluations", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/evaluations",
		map[string]string{"Authorization": "Bearer tok"}).Code)
}

func TestLoggingMiddleware(t *testing.T) {
	log := logger.NewTestLogger()
	handler := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := log.EntriesAt("info")
	require.Len(t, entries, 1)
	assert.Equal(t, "request handled", entries[0].Message)
	assert.Equal(t, http.StatusTeapot, entries[0].Fields["status"])
	assert.Equal(t, "/health", entries[0].Fields["path"])
}
