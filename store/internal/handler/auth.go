package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

// Me godoc
// @Summary Profile of the authenticated requester
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 403 {object} map[string]string
// @Router /auth/ [get]
func (h *Handler) Me(c echo.Context) error {
	user, err := h.svc.Me(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Register godoc
// @Summary Create a user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body model.RegisterRequest true "credentials and names"
// @Success 201 {object} model.User
// @Failure 400 {object} map[string][]string
// @Router /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return h.httpError(err)
	}
	user, err := h.svc.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Authorize godoc
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.AuthRequest true "username and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} map[string]string
// @Router /auth/authorize [post]
func (h *Handler) Authorize(c echo.Context) error {
	var req model.AuthRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return h.httpError(err)
	}
	resp, err := h.svc.Authorize(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
