package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"investor-backend/internal/shared/config"
)

func TestRouterBaseRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}}})

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/", http.StatusOK, `"message":"Investor API running"`},
		{"/api/v1/health", http.StatusOK, `"database":"memory"`},
		{"/metrics", http.StatusOK, "extraction"},
		{"/api/v1/unknown", http.StatusNotFound, ""},
	}
	for _, tc := range tests {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, resp.Code)
		}
		if tc.contains != "" && !strings.Contains(resp.Body.String(), tc.contains) {
			t.Fatalf("%s: body %q missing %q", tc.path, resp.Body.String(), tc.contains)
		}
		if resp.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: expected request id header", tc.path)
		}
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
