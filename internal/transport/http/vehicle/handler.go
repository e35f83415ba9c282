package vehicle

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/presentation/filter"
	"github.com/Additional-Code/gridlock/internal/presentation/http/request"
	"github.com/Additional-Code/gridlock/internal/presentation/http/response"
	service "github.com/Additional-Code/gridlock/internal/service/vehicle"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/gridlock/transport/http/vehicle")

// Handler exposes vehicle endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a vehicle Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/vehicles")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	f := filter.Vehicles{
		Search:    c.QueryParam("search"),
		Status:    c.QueryParam("status"),
		Condition: c.QueryParam("condition"),
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "vehicles.list")
	defer span.End()

	vehicles, err := h.svc.List(ctx, f)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(vehicles).WithMeta("count", len(vehicles)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := request.ID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "vehicles.getByID", trace.WithAttributes(attribute.Int64("vehicle.id", id)))
	defer span.End()

	vehicle, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(vehicle).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateVehicleRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "vehicles.create", trace.WithAttributes(
		attribute.String("vehicle.make", payload.Make),
		attribute.String("vehicle.model", payload.Model),
	))
	defer span.End()

	vehicle, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(vehicle).Build()
}
