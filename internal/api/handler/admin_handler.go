package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusdesk/accounts/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Overview returns identity counts per role.
//
// @Summary      Admin overview
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Failure      403  {object}  ErrorResponse
// @Router       /api/admin/overview [get]
func (h *AdminHandler) Overview(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	counts, err := h.adminService.Overview(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

// Search lists identities, optionally filtered by a name or email substring.
//
// @Summary      Search identities
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q          query     string  false  "Substring of first name, last name or email"
// @Param        page       query     int     false  "Page number, clamped to the valid range"
// @Param        page_size  query     int     false  "Page size (default 20, max 100)"
// @Success      200        {object}  identityPageResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Router       /api/admin/identities [get]
func (h *AdminHandler) Search(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	page, err := h.adminService.Search(c.Request().Context(), actor, req.Query, req.Page, req.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityPageResponse(page))
}

// Get returns a single identity.
//
// @Summary      Get identity
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Identity ID"
// @Success      200  {object}  identityResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/admin/identities/{id} [get]
func (h *AdminHandler) Get(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	identity, err := h.adminService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity))
}

// Create registers an identity with any role, including admin.
//
// @Summary      Create identity
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/admin/identities [post]
func (h *AdminHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	created, err := h.adminService.Create(c.Request().Context(), actor, toRegistrationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toIdentityResponse(created))
}

// Update edits an identity.
//
// @Summary      Update identity
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Identity ID"
// @Param        body  body      identityUpdateRequest  true  "Fields to change"
// @Success      200   {object}  identityResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/admin/identities/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req identityUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.adminService.Update(c.Request().Context(), actor, c.Param("id"), toIdentityUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(updated))
}

// Delete removes an identity and ends its sessions.
//
// @Summary      Delete identity
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Identity ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/admin/identities/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.adminService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ApprovalQueue opens one of the admin approval queues.
//
// @Summary      Approval queue
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        queue  path      string  true  "courses, results or payments"
// @Success      200    {object}  approvalQueueResponse
// @Failure      403    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /api/admin/approvals/{queue} [get]
func (h *AdminHandler) ApprovalQueue(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	view, err := h.adminService.ApprovalQueue(c.Request().Context(), actor, c.Param("queue"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, approvalQueueResponse{Queue: view.Queue, Items: view.Items})
}
