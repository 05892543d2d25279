package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pdf-archiver/internal/middleware"
)

const webOrigin = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func preflight(method, headers string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/documents/1", nil)
	req.Header.Set("Origin", webOrigin)
	req.Header.Set("Access-Control-Request-Method", method)
	if headers != "" {
		// Browsers send these lowercase and rs/cors compares them verbatim.
		req.Header.Set("Access-Control-Request-Headers", headers)
	}
	return req
}

func TestCORSHandler_AllowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/export?format=csv", nil)
	req.Header.Set("Origin", webOrigin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))

	exposed := rec.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Content-Disposition")
	assert.Contains(t, exposed, "X-Request-Id")
}

func TestCORSHandler_DisallowedOrigin(t *testing.T) {
	h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// The body still goes out; the browser blocks it for lack of the header.
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHandler_Preflight(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		headers string
		allowed bool
	}{
		{name: "patch document", method: http.MethodPatch, headers: "content-type", allowed: true},
		{name: "detach tag", method: http.MethodDelete, allowed: true},
		{name: "request id header", method: http.MethodPost, headers: "x-request-id", allowed: true},
		{name: "put is not used", method: http.MethodPut, allowed: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.NewCORSHandler([]string{webOrigin})(okHandler)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, preflight(tc.method, tc.headers))

			if tc.allowed {
				assert.Equal(t, webOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
