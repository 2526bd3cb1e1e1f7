package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	md "github.com/Astemirdum/bookstore-service/pkg/middleware"
	"github.com/Astemirdum/bookstore-service/pkg/validate"
	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
	_ "github.com/Astemirdum/bookstore-service/swagger"
)

type Handler struct {
	svc       StoreService
	tokens    md.TokenParser
	validator *validate.CustomValidator
	log       *zap.Logger
}

func New(svc StoreService, tokens md.TokenParser, log *zap.Logger) *Handler {
	return &Handler{
		svc:       svc,
		tokens:    tokens,
		validator: NewValidator(),
		log:       log.Named("handler"),
	}
}

// @title Bookstore API
// @version 1.0
// @description Book catalog with likes, bookmarks and ratings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = errorHandler
	e.Validator = h.validator

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.Authenticate(h.tokens),
	)

	api.GET("/book/", h.ListBooks)
	api.POST("/book/", h.CreateBook)
	api.GET("/book/:id/", h.GetBook)
	api.PUT("/book/:id/", h.UpdateBook)
	api.PATCH("/book/:id/", h.PatchBook)
	api.DELETE("/book/:id/", h.DeleteBook)

	api.PATCH("/book-relation/:book/", h.UpdateRelation)

	api.GET("/auth/", h.Me)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/authorize", h.Authorize)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// NewValidator knows the store's custom tags on top of the shared ones.
func NewValidator() *validate.CustomValidator {
	return validate.NewCustomValidator(
		validate.Rule{
			Tag: "price",
			Fn: func(fl validator.FieldLevel) bool {
				_, err := model.ParseDecimal(fl.Field().String())
				return err == nil
			},
			Message: func(fe validator.FieldError) string {
				_, err := model.ParseDecimal(fmt.Sprint(fe.Value()))
				if err == nil {
					return model.ErrDecimalInvalid.Error()
				}
				return err.Error()
			},
		},
		validate.Rule{
			Tag: "rating",
			Fn: func(fl validator.FieldLevel) bool {
				r := fl.Field().Int()
				return r >= 1 && r <= 5
			},
			Message: func(fe validator.FieldError) string {
				return errs.InvalidChoice(fe.Value())
			},
		},
	)
}

// httpError maps service errors to responses.
func (h *Handler) httpError(err error) error {
	var verr errs.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr)
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	case errors.Is(err, errs.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrUnauthenticated.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrInvalidCredentials.Error())
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// bindError turns json type mismatches into field errors.
func bindError(err error) error {
	var ute *json.UnmarshalTypeError
	if !errors.As(err, &ute) || ute.Field == "" {
		return err
	}
	msg := "Invalid value."
	switch ute.Type.Kind() {
	case reflect.String:
		msg = "Not a valid string."
	case reflect.Bool:
		msg = "Must be a valid boolean."
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		msg = "A valid integer is required."
	}
	return echo.NewHTTPError(http.StatusBadRequest, errs.NewValidationError(ute.Field, msg))
}

// errorHandler renders {"detail": msg}, or the field map for validation errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he := &echo.HTTPError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
	if !errors.As(err, &he) {
		c.Logger().Error(err)
	}

	var body interface{}
	switch m := he.Message.(type) {
	case errs.ValidationError:
		body = m
	case string:
		body = echo.Map{"detail": m}
	case error:
		body = echo.Map{"detail": m.Error()}
	default:
		body = echo.Map{"detail": m}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
