package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureID(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	var id string
	rec := httptest.NewRecorder()
	RequestID(captureID(&id)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, id)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Header().Get(HeaderRequestID))
}

func TestRequestID_PreservesValidID(t *testing.T) {
	var id string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "custom-id-123")
	rec := httptest.NewRecorder()
	RequestID(captureID(&id)).ServeHTTP(rec, req)

	assert.Equal(t, "custom-id-123", id)
	assert.Equal(t, "custom-id-123", rec.Header().Get(HeaderRequestID))
}

func TestRequestID_ReplacesInvalidID(t *testing.T) {
	for _, bad := range []string{strings.Repeat("a", 200), "has space", "new\nline"} {
		var id string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, bad)
		RequestID(captureID(&id)).ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, bad, id)
		assert.Len(t, id, 36)
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := RequestID(AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	req.Header.Set(HeaderRequestID, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/v1/projects")
	assert.Contains(t, out, "request_id=abc")
}
