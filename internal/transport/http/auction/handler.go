package auction

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
	service "github.com/Additional-Code/gridlock/internal/service/auction"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/gridlock/transport/http/auction")

// Handler exposes auction endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an auction Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/auctions")
	g.GET("", h.list)
	g.GET("/summary", h.summary)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PATCH("/:id/status", h.transition)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	f := filter.Auctions{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auctions.list")
	defer span.End()

	auctions, err := h.svc.List(ctx, f)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(auctions).WithMeta("count", len(auctions)).Build()
}

func (h *Handler) summary(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "auctions.summary")
	defer span.End()

	summary, err := h.svc.Summary(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(summary).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := request.ID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auctions.getByID", trace.WithAttributes(attribute.Int64("auction.id", id)))
	defer span.End()

	auction, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(auction).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateAuctionRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auctions.create", trace.WithAttributes(attribute.Int64("vehicle.id", payload.VehicleID)))
	defer span.End()

	auction, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(auction).Build()
}

func (h *Handler) transition(c echo.Context) error {
	b := response.New(c)

	id, err := request.ID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload dto.TransitionRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "auctions.transition", trace.WithAttributes(
		attribute.Int64("auction.id", id),
		attribute.String("auction.to", payload.Status),
	))
	defer span.End()

	auction, err := h.svc.Transition(ctx, id, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(auction).Build()
}
