package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/presentation/http/request"
	"github.com/Additional-Code/gridlock/internal/presentation/http/response"
	service "github.com/Additional-Code/gridlock/internal/service/user"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/gridlock/transport/http/user")

// Handler exposes user endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a user Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/users")
	g.GET("", h.list)
	g.POST("", h.register)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "users.list")
	defer span.End()

	users, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(users).WithMeta("count", len(users)).Build()
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var payload dto.RegisterUserRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "users.register", trace.WithAttributes(attribute.String("user.username", payload.Username)))
	defer span.End()

	user, err := h.svc.Register(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(user).Build()
}
