package notification

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gobarber/gobarber/internal/platform/auth"
)

// Handler exposes the notification inbox endpoints.
type Handler struct {
	service *Service
	logger  zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// RegisterRoutes mounts the authenticated notification routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/notifications", h.List)
	g.PUT("/notifications/:id/read", h.MarkRead)
}

// List handles GET /notifications.
func (h *Handler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	items, err := h.service.ListForProvider(c.Request().Context(), userID)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// MarkRead handles PUT /notifications/:id/read.
func (h *Handler) MarkRead(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	n, err := h.service.MarkRead(c.Request().Context(), userID, notificationID)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotAProvider), errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	default:
		h.logger.Error().Err(err).Msg("unexpected error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
