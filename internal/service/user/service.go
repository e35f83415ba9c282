package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/metrics"
	"github.com/Additional-Code/gridlock/internal/presentation/view"
	repo "github.com/Additional-Code/gridlock/internal/repository/user"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/gridlock/service/user")

// Service registers and lists users.
type Service struct {
	repo      *repo.Repository
	cache     cache.Store
	validator *validation.Validator
	metrics   *metrics.Recorder
	logger    *zap.Logger
	cost      int
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Validator  *validation.Validator
	Metrics    *metrics.Recorder
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		cache:     p.Cache,
		validator: p.Validator,
		metrics:   p.Metrics,
		logger:    p.Logger,
		cost:      bcrypt.DefaultCost,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// HashPassword returns the bcrypt hash stored for a plaintext password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// List returns users newest first.
func (s *Service) List(ctx context.Context) ([]dto.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.List")
	defer span.End()

	rows, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list users", errorbank.WithCause(err))
	}

	out := make([]dto.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, view.User(row))
	}
	return out, nil
}

// Register creates a user with a hashed password. Role defaults to bidder.
func (s *Service) Register(ctx context.Context, req dto.RegisterUserRequest) (dto.User, error) {
	ctx, span := serviceTracer.Start(ctx, "UserService.Register", trace.WithAttributes(attribute.String("user.username", req.Username)))
	defer span.End()

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Validate(&req); err != nil {
		return dto.User{}, err
	}
	if req.Role == "" {
		req.Role = entity.RoleBidder
	}

	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		span.RecordError(err)
		return dto.User{}, errorbank.Internal("failed to hash password", errorbank.WithCause(err))
	}

	u := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         req.Role,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return dto.User{}, errorbank.Conflict("username or email already registered")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.User{}, errorbank.Internal("failed to register user", errorbank.WithCause(err))
	}

	s.metrics.UsersRegistered.Inc()
	cache.Invalidate(ctx, s.cache, s.logger, cache.KeyStats)
	s.logger.Info("user registered", zap.Int64("user_id", u.ID), zap.String("role", u.Role))

	return view.User(*u), nil
}
