package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name       string
		checks     map[string]DependencyCheck
		wantCode   int
		wantStatus string
	}{
		{"all up", map[string]DependencyCheck{"mongodb": ok, "redis": ok}, http.StatusOK, "ok"},
		{"redis down", map[string]DependencyCheck{"mongodb": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		e := newEcho()
		c, rec := newJSONContext(e, http.MethodGet, "/health/ready", "", nil)
		if err := NewReadinessHandler(tc.checks, zerolog.Nop()).Readiness(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.wantCode, rec.Code)
		}

		var resp readinessResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.name, err)
		}
		if resp.Status != tc.wantStatus || len(resp.Dependencies) != 2 {
			t.Fatalf("%s: unexpected response: %+v", tc.name, resp)
		}
		if strings.Contains(rec.Body.String(), "connection refused") {
			t.Fatalf("%s: dependency error leaked: %s", tc.name, rec.Body.String())
		}
	}
}
