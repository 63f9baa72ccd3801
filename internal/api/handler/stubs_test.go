package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusdesk/accounts/internal/api/middleware"
	"github.com/campusdesk/accounts/internal/core/domain"
	"github.com/campusdesk/accounts/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegistrationInput) (*domain.Identity, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, session *domain.Session) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, session *domain.Session) error {
	return s.logoutFn(ctx, session)
}

type stubAccountService struct {
	ports.AccountService
	dashboardFn     func(ctx context.Context, identity *domain.Identity) (*ports.DashboardView, error)
	profileFn       func(ctx context.Context, id string) (*domain.Identity, error)
	updateProfileFn func(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.Identity, error)
	requestResetFn  func(ctx context.Context, email string) error
	confirmResetFn  func(ctx context.Context, token, p1, p2 string) error
}

func (s *stubAccountService) Dashboard(ctx context.Context, identity *domain.Identity) (*ports.DashboardView, error) {
	return s.dashboardFn(ctx, identity)
}

func (s *stubAccountService) Profile(ctx context.Context, id string) (*domain.Identity, error) {
	return s.profileFn(ctx, id)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, id string, update ports.ProfileUpdate) (*domain.Identity, error) {
	return s.updateProfileFn(ctx, id, update)
}

func (s *stubAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestResetFn(ctx, email)
}

func (s *stubAccountService) ConfirmPasswordReset(ctx context.Context, token, p1, p2 string) error {
	return s.confirmResetFn(ctx, token, p1, p2)
}

type stubAdminService struct {
	ports.AdminService
	searchFn func(ctx context.Context, actor *domain.Identity, query string, page, pageSize int) (*ports.IdentityPage, error)
	updateFn func(ctx context.Context, actor *domain.Identity, id string, update ports.IdentityUpdate) (*domain.Identity, error)
	deleteFn func(ctx context.Context, actor *domain.Identity, id string) error
}

func (s *stubAdminService) Search(ctx context.Context, actor *domain.Identity, query string, page, pageSize int) (*ports.IdentityPage, error) {
	return s.searchFn(ctx, actor, query, page, pageSize)
}

func (s *stubAdminService) Update(ctx context.Context, actor *domain.Identity, id string, update ports.IdentityUpdate) (*domain.Identity, error) {
	return s.updateFn(ctx, actor, id, update)
}

func (s *stubAdminService) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds a request context carrying body as JSON, with the
// given identity injected as if Auth had run.
func newJSONContext(e *echo.Echo, method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.ContextIdentity, identity)
		c.Set(middleware.ContextSession, &domain.Session{ID: "sid-1", IdentityID: identity.ID, Role: identity.Role})
	}
	return c, rec
}
