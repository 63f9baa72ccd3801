package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/campusdesk/accounts/internal/api/handler"
	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

// tokenSessions resolves "<role>-token" to an identity with that role.
type tokenSessions struct{}

func (tokenSessions) Issue(context.Context, *domain.Identity) (string, *domain.Session, error) {
	return "", nil, nil
}

func (tokenSessions) Resolve(_ context.Context, token string) (*domain.Session, *domain.Identity, error) {
	role, ok := strings.CutSuffix(token, "-token")
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	identity := &domain.Identity{ID: role + "-1", Role: domain.Role(role), IsActive: true}
	return &domain.Session{ID: "sid", IdentityID: identity.ID, Role: identity.Role}, identity, nil
}

func (tokenSessions) Destroy(context.Context, string) error    { return nil }
func (tokenSessions) DestroyAll(context.Context, string) error { return nil }

type routerAccount struct{ ports.AccountService }

func (routerAccount) Dashboard(_ context.Context, identity *domain.Identity) (*ports.DashboardView, error) {
	variant, err := domain.RouteDashboard(identity)
	if err != nil {
		return nil, err
	}
	return &ports.DashboardView{Variant: variant, Identity: identity}, nil
}

type routerAdmin struct{ ports.AdminService }

func (routerAdmin) Overview(context.Context, *domain.Identity) (map[domain.Role]int64, error) {
	return map[domain.Role]int64{domain.RoleStudent: 0, domain.RoleLecturer: 0, domain.RoleAdmin: 1}, nil
}

func newTestRouter() http.Handler {
	return NewRouter(Dependencies{
		Account:  routerAccount{},
		Admin:    routerAdmin{},
		Sessions: tokenSessions{},
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": func(context.Context) error { return nil },
		},
		Metrics: prometheus.NewRegistry(),
	}, zerolog.Nop())
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"dashboard without token", http.MethodGet, "/api/dashboard", "", http.StatusUnauthorized},
		{"dashboard with stale token", http.MethodGet, "/api/dashboard", "stale", http.StatusUnauthorized},
		{"student dashboard", http.MethodGet, "/api/dashboard", "student-token", http.StatusOK},
		{"dashboard with unknown role", http.MethodGet, "/api/dashboard", "guest-token", http.StatusBadRequest},
		{"student on admin route", http.MethodGet, "/api/admin/overview", "student-token", http.StatusForbidden},
		{"lecturer on admin route", http.MethodGet, "/api/admin/overview", "lecturer-token", http.StatusForbidden},
		{"admin on admin route", http.MethodGet, "/api/admin/overview", "admin-token", http.StatusOK},
		{"admin route without token", http.MethodGet, "/api/admin/overview", "", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_DashboardVariants(t *testing.T) {
	router := newTestRouter()

	for token, want := range map[string]string{
		"student-token":  `"variant":"student_view"`,
		"lecturer-token": `"variant":"lecturer_view"`,
		"admin-token":    `"variant":"admin_overview"`,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("%s: expected %s in %s", token, want, rec.Body.String())
		}
	}
}
