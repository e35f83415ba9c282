package stats

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/Additional-Code/gridlock/internal/presentation/http/response"
	service "github.com/Additional-Code/gridlock/internal/service/stats"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/gridlock/transport/http/stats")

// Handler exposes the dashboard aggregate.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a stats Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/stats", h.get)
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "stats.get")
	defer span.End()

	stats, err := h.svc.Get(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(stats).Build()
}
