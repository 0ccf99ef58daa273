package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	md "github.com/Astemirdum/library-circulation/pkg/middleware"
	"github.com/Astemirdum/library-circulation/pkg/validate"
	_ "github.com/Astemirdum/library-circulation/swagger"
)

type Handler struct {
	circulationSvc CirculationService
	authMW         echo.MiddlewareFunc
	log            *zap.Logger
}

type Option func(h *Handler)

// WithAuthMiddleware replaces the gateway header identity with mw.
func WithAuthMiddleware(mw echo.MiddlewareFunc) Option {
	return func(h *Handler) {
		h.authMW = mw
	}
}

func New(circulationSvc CirculationService, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		circulationSvc: circulationSvc,
		authMW:         md.AuthContext,
		log:            log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
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

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		h.authMW,
	)

	api.POST("/loans", h.Borrow)
	api.GET("/loans", h.ListLoans)
	api.GET("/loans/:id", h.GetLoan)
	api.PATCH("/loans/:id", h.UpdateLoan)
	api.DELETE("/loans/:id", h.DeleteLoan)

	api.POST("/reservations", h.Reserve)
	api.GET("/reservations", h.ListReservations)
	api.GET("/reservations/:id", h.GetReservation)
	api.PATCH("/reservations/:id", h.UpdateReservation)
	api.DELETE("/reservations/:id", h.DeleteReservation)

	api.POST("/works", h.CreateWork)
	api.GET("/works/:id", h.GetWork)
	api.POST("/works/:id/copies", h.ManageCopies)
	api.GET("/copies/:id", h.GetCopy)
	api.PATCH("/copies/:id", h.MarkCopy)

	api.GET("/statistics", h.Statistics)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Statistics godoc
// @Summary  circulation counters
// @Tags     statistics
// @Produce  json
// @Success  200 {object} model.Statistics
// @Failure  403 {object} echo.HTTPError
// @Router   /statistics [get]
func (h *Handler) Statistics(c echo.Context) error {
	actor, err := identity(c)
	if err != nil {
		return err
	}
	st, err := h.circulationSvc.Statistics(c.Request().Context(), actor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, st)
}

func identity(c echo.Context) (auth.Identity, error) {
	actor, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return auth.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return actor, nil
}

func (h *Handler) httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInsufficientAvailability):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	h.log.Error("request failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}

func queryInt64(c echo.Context, name string) (int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return n, nil
}

const (
	maxPage     = 100000
	maxPageSize = 100
)

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 0 || page > maxPage {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size < 0 || size > maxPageSize {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	return page, size, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
