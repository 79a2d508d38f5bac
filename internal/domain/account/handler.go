package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gobarber/gobarber/internal/platform/auth"
	"github.com/gobarber/gobarber/pkg/pagination"
)

// Handler exposes account endpoints.
type Handler struct {
	service *Service
	logger  zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// RegisterPublicRoutes mounts the unauthenticated account routes.
func (h *Handler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/accounts", h.Register)
}

// RegisterRoutes mounts the authenticated account routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.PUT("/accounts/me", h.UpdateProfile)
	g.GET("/providers", h.ListProviders)
}

// Register handles POST /accounts.
func (h *Handler) Register(c echo.Context) error {
	var input RegisterInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.service.Register(c.Request().Context(), input)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

// UpdateProfile handles PUT /accounts/me.
func (h *Handler) UpdateProfile(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.service.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// ListProviders handles GET /providers.
func (h *Handler) ListProviders(c echo.Context) error {
	params := pagination.FromContext(c)
	providers, total, err := h.service.ListProviders(c.Request().Context(), params.Page, params.PageSize)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(providers, params, total))
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusBadRequest, "email already in use")
	case errors.Is(err, ErrWrongPassword):
		return echo.NewHTTPError(http.StatusUnauthorized, "old password does not match")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	default:
		h.logger.Error().Err(err).Msg("unexpected error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
