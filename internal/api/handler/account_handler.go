package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusdesk/accounts/internal/api/metrics"
	"github.com/campusdesk/accounts/internal/core/ports"
)

type AccountHandler struct {
	accountService ports.AccountService
}

func NewAccountHandler(accountService ports.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Dashboard returns the dashboard variant for the caller's role.
//
// @Summary      Role-routed dashboard
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/dashboard [get]
func (h *AccountHandler) Dashboard(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.accountService.Dashboard(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Variant:  view.Variant,
		Identity: toIdentityResponse(view.Identity),
		Overview: view.RoleCounts,
	})
}

// Me returns the caller's own identity as currently stored.
//
// @Summary      Current identity
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	current, err := h.accountService.Profile(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(current))
}

// UpdateMe edits the caller's profile.
//
// @Summary      Update profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Profile fields"
// @Success      200   {object}  identityResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/me [patch]
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req profileUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.accountService.UpdateProfile(c.Request().Context(), identity.ID, toProfileUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(updated))
}

// ChangePassword replaces the caller's password. All sessions of the caller
// end, including the current one.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/me/password [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accountService.ChangePassword(c.Request().Context(), identity.ID, req.CurrentPassword, req.NewPassword1, req.NewPassword2); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Your password has been changed. Please log in again."})
}

// RequestPasswordReset starts the reset flow. The response does not reveal
// whether the email belongs to an account.
//
// @Summary      Request a password reset
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequest  true  "Account email"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /api/password-reset [post]
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accountService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("requested", "rejected").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested", "ok").Inc()
	return c.JSON(http.StatusAccepted, messageResponse{
		Message: "If an account exists for that email, a reset link has been sent.",
	})
}

// ConfirmPasswordReset redeems a reset token.
//
// @Summary      Confirm a password reset
// @Tags         password-reset
// @Accept       json
// @Produce      json
// @Param        body  body      resetConfirmRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /api/password-reset/confirm [post]
func (h *AccountHandler) ConfirmPasswordReset(c echo.Context) error {
	var req resetConfirmRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accountService.ConfirmPasswordReset(c.Request().Context(), req.Token, req.NewPassword1, req.NewPassword2); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("confirmed", "rejected").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("confirmed", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Your password has been reset. You can now log in."})
}
