package booking

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gobarber/gobarber/internal/platform/auth"
	"github.com/gobarber/gobarber/pkg/pagination"
)

// Handler exposes the booking endpoints.
type Handler struct {
	service *Service
	logger  zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With().Str("component", "booking_handler").Logger(),
	}
}

// RegisterRoutes mounts the authenticated booking routes.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/appointments", h.Book)
	g.DELETE("/appointments/:id", h.Cancel)
	g.GET("/appointments", h.List)
	g.GET("/schedule", h.DaySchedule)
}

// Book handles POST /appointments.
func (h *Handler) Book(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var input BookInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := h.service.Book(c.Request().Context(), userID, input)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

// Cancel handles DELETE /appointments/:id.
func (h *Handler) Cancel(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	a, err := h.service.Cancel(c.Request().Context(), userID, appointmentID)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// List handles GET /appointments.
func (h *Handler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	params := pagination.FromContext(c)
	items, total, err := h.service.ListForUser(c.Request().Context(), userID, params.Page)
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, params, total))
}

// DaySchedule handles GET /schedule.
func (h *Handler) DaySchedule(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	items, err := h.service.DaySchedule(c.Request().Context(), userID, c.QueryParam("date"))
	if err != nil {
		return h.mapError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) mapError(err error) error {
	switch KindOf(err) {
	case KindValidation, KindPastDate, KindSlotUnavailable:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case KindNotAProvider, KindSelfBooking, KindForbidden, KindCancellationWindow:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("unexpected error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
