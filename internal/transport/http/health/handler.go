package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/presentation/http/response"
)

// Handler reports process and database liveness.
type Handler struct {
	conns *database.Connections
}

// NewHandler constructs a health Handler.
func NewHandler(conns *database.Connections) *Handler {
	return &Handler{conns: conns}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/health", h.check)
}

func (h *Handler) check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.conns.Reader.PingContext(ctx); err != nil {
		response.Logger(c).Warn("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
