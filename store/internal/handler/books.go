package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

// ListBooks godoc
// @Summary List books
// @Tags book
// @Produce json
// @Param price query string false "exact price"
// @Param search query string false "terms matched against name and author_name"
// @Param ordering query string false "comma separated: price, author_name, prefixed with - for descending"
// @Param page query int false "page number, starting at 1"
// @Param size query int false "page size"
// @Success 200 {array} model.Book
// @Failure 400 {object} map[string][]string
// @Router /book/ [get]
func (h *Handler) ListBooks(c echo.Context) error {
	filter, err := bookFilter(c)
	if err != nil {
		return err
	}
	books, err := h.svc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// CreateBook godoc
// @Summary Create a book owned by the requester
// @Tags book
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param book body model.BookRequest true "book"
// @Success 201 {object} model.Book
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Router /book/ [post]
func (h *Handler) CreateBook(c echo.Context) error {
	if !auth.FromContext(c.Request().Context()).IsAuthenticated() {
		return h.httpError(errs.ErrUnauthenticated)
	}
	var req model.BookRequest
	if err := h.bindBook(c, &req, false); err != nil {
		return err
	}
	book, err := h.svc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// GetBook godoc
// @Summary Get a book
// @Tags book
// @Produce json
// @Param id path int true "book id"
// @Success 200 {object} model.Book
// @Failure 404 {object} map[string]string
// @Router /book/{id}/ [get]
func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.svc.GetBook(c.Request().Context(), id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// UpdateBook godoc
// @Summary Replace a book
// @Tags book
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "book id"
// @Param book body model.BookRequest true "book"
// @Success 200 {object} model.Book
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book/{id}/ [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	return h.updateBook(c, false)
}

// PatchBook godoc
// @Summary Update some fields of a book
// @Tags book
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "book id"
// @Param book body model.BookRequest true "fields to change"
// @Success 200 {object} model.Book
// @Failure 400 {object} map[string][]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book/{id}/ [patch]
func (h *Handler) PatchBook(c echo.Context) error {
	return h.updateBook(c, true)
}

func (h *Handler) updateBook(c echo.Context, partial bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.svc.CheckBookWrite(ctx, id); err != nil {
		return h.httpError(err)
	}
	var req model.BookRequest
	if err := h.bindBook(c, &req, partial); err != nil {
		return err
	}
	book, err := h.svc.UpdateBook(ctx, id, req, partial)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags book
// @Security BearerAuth
// @Param id path int true "book id"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book/{id}/ [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBook(c.Request().Context(), id); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) bindBook(c echo.Context, req *model.BookRequest, partial bool) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return bindError(err)
	}
	var err error
	if partial {
		err = h.validator.ValidatePartial(req, req.Present()...)
	} else {
		err = c.Validate(req)
	}
	if len(req.Nulls) > 0 {
		verr := errs.ValidationError{}
		if !errors.As(err, &verr) {
			verr = errs.ValidationError{}
		}
		for _, field := range req.Nulls {
			verr[field] = []string{"This field may not be null."}
		}
		err = verr
	}
	if err != nil {
		return h.httpError(err)
	}
	return nil
}

// pathID parses a numeric path parameter; anything else can't name a row.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	}
	return id, nil
}

func bookFilter(c echo.Context) (model.BookFilter, error) {
	var (
		filter model.BookFilter
		err    error
	)
	if p := c.QueryParam("price"); p != "" {
		price, err := model.ParseDecimal(p)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errs.NewValidationError("price", "Enter a number."))
		}
		filter.Price = &price
	}
	filter.Search = c.QueryParam("search")
	if o := c.QueryParam("ordering"); o != "" {
		filter.Ordering = strings.Split(o, ",")
	}
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if filter.Page, err = strconv.Atoi(pageParam); err != nil || filter.Page < 1 {
			return filter, echo.NewHTTPError(http.StatusNotFound, "Invalid page.")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if filter.Size, err = strconv.Atoi(sizeParam); err != nil || filter.Size < 1 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errs.NewValidationError("size", "A valid integer is required."))
		}
	}
	return filter, nil
}
