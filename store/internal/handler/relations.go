package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

// UpdateRelation godoc
// @Summary Set like, bookmark or rate of the requester for a book
// @Tags book-relation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book path int true "book id"
// @Param relation body model.RelationRequest true "fields to change; rate null clears the rating"
// @Success 200 {object} model.UserBookRelation
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book-relation/{book}/ [patch]
func (h *Handler) UpdateRelation(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.FromContext(ctx).IsAuthenticated() {
		return h.httpError(errs.ErrUnauthenticated)
	}
	bookID, err := pathID(c, "book")
	if err != nil {
		return err
	}
	var req model.RelationRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return h.httpError(err)
	}
	rel, err := h.svc.UpdateRelation(ctx, bookID, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, rel)
}
