package bid

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/presentation/http/request"
	"github.com/Additional-Code/gridlock/internal/presentation/http/response"
	service "github.com/Additional-Code/gridlock/internal/service/bid"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/gridlock/transport/http/bid")

// Handler exposes bid endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a bid Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.POST("/bids", h.place)
	e.GET("/bids/:id/verify", h.verify)
	e.GET("/auctions/:id/bids", h.listByAuction)
}

// place answers every rejected bid with 400, including a missing or closed
// auction.
func (h *Handler) place(c echo.Context) error {
	b := response.New(c)

	var payload dto.PlaceBidRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "bids.place", trace.WithAttributes(
		attribute.Int64("auction.id", payload.AuctionID),
		attribute.Int64("user.id", payload.UserID),
	))
	defer span.End()

	bid, err := h.svc.Place(ctx, payload)
	if err != nil {
		if !errorbank.Is(err, errorbank.KindInternal) {
			b.WithStatus(http.StatusBadRequest)
		}
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(bid).Build()
}

func (h *Handler) listByAuction(c echo.Context) error {
	b := response.New(c)

	id, err := request.ID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "bids.listByAuction", trace.WithAttributes(attribute.Int64("auction.id", id)))
	defer span.End()

	bids, err := h.svc.List(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(bids).WithMeta("count", len(bids)).Build()
}

func (h *Handler) verify(c echo.Context) error {
	b := response.New(c)

	id, err := request.ID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "bids.verify", trace.WithAttributes(attribute.Int64("bid.id", id)))
	defer span.End()

	receipt, err := h.svc.Verify(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(receipt).Build()
}
