package vehicle

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/config"
	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/messaging"
	"github.com/Additional-Code/gridlock/internal/metrics"
	"github.com/Additional-Code/gridlock/internal/presentation/filter"
	"github.com/Additional-Code/gridlock/internal/presentation/view"
	repo "github.com/Additional-Code/gridlock/internal/repository/vehicle"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/gridlock/service/vehicle")

// Service lists and creates vehicles.
type Service struct {
	repo      *repo.Repository
	cache     cache.Store
	cacheTTL  time.Duration
	validator *validation.Validator
	publisher *messaging.Publisher
	metrics   *metrics.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Validator  *validation.Validator
	Publisher  *messaging.Publisher
	Metrics    *metrics.Recorder
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		validator: p.Validator,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		logger:    p.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns vehicles newest first, narrowed by f and decorated for display.
func (s *Service) List(ctx context.Context, f filter.Vehicles) ([]dto.Vehicle, error) {
	ctx, span := serviceTracer.Start(ctx, "VehicleService.List", trace.WithAttributes(
		attribute.String("filter.search", f.Search),
		attribute.String("filter.status", f.Status),
	))
	defer span.End()

	var all []dto.Vehicle
	hit, err := cache.GetJSON(ctx, s.cache, cache.KeyVehicles, &all)
	if err != nil {
		s.logger.Warn("vehicles cache read failed", zap.Error(err))
	}
	if !hit {
		rows, err := s.repo.List(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to list vehicles", errorbank.WithCause(err))
		}
		all = make([]dto.Vehicle, 0, len(rows))
		for _, row := range rows {
			all = append(all, view.VehicleListing(row))
		}
		if err := cache.SetJSON(ctx, s.cache, cache.KeyVehicles, all, s.cacheTTL); err != nil {
			s.logger.Warn("vehicles cache write failed", zap.Error(err))
		}
	}

	out := f.Apply(all)
	view.DecorateVehicles(out, s.now())
	return out, nil
}

// Get fetches one vehicle.
func (s *Service) Get(ctx context.Context, id int64) (dto.Vehicle, error) {
	ctx, span := serviceTracer.Start(ctx, "VehicleService.Get", trace.WithAttributes(attribute.Int64("vehicle.id", id)))
	defer span.End()

	if id <= 0 {
		return dto.Vehicle{}, errorbank.Validation("invalid vehicle id", errorbank.WithDetail("id", "id must be greater than 0"))
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dto.Vehicle{}, errorbank.NotFound("vehicle not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.Vehicle{}, errorbank.Internal("failed to load vehicle", errorbank.WithCause(err))
	}

	out := []dto.Vehicle{view.Vehicle(*v)}
	view.DecorateVehicles(out, s.now())
	return out[0], nil
}

// Create lists a new vehicle as upcoming with its current bid at the starting bid.
func (s *Service) Create(ctx context.Context, req dto.CreateVehicleRequest) (dto.Vehicle, error) {
	ctx, span := serviceTracer.Start(ctx, "VehicleService.Create", trace.WithAttributes(
		attribute.String("vehicle.make", req.Make),
		attribute.String("vehicle.model", req.Model),
	))
	defer span.End()

	if err := s.validator.Validate(&req); err != nil {
		return dto.Vehicle{}, err
	}
	if !req.StartingBid.IsPositive() {
		return dto.Vehicle{}, errorbank.Validation("startingBid must be greater than 0",
			errorbank.WithDetail("startingBid", "startingBid must be greater than 0"))
	}
	if req.ReservePrice != nil && req.ReservePrice.IsNegative() {
		return dto.Vehicle{}, errorbank.Validation("reservePrice must not be negative",
			errorbank.WithDetail("reservePrice", "reservePrice must not be negative"))
	}

	now := s.now()
	v := &entity.Vehicle{
		Make:         req.Make,
		Model:        req.Model,
		Year:         *req.Year,
		Mileage:      *req.Mileage,
		Condition:    req.Condition,
		VIN:          req.VIN,
		Color:        req.Color,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		EngineSize:   req.EngineSize,
		BodyType:     req.BodyType,
		Doors:        req.Doors,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		StartingBid:  *req.StartingBid,
		CurrentBid:   *req.StartingBid,
		Status:       entity.StatusUpcoming,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.ReservePrice != nil {
		v.ReservePrice = decimal.NewNullDecimal(*req.ReservePrice)
	}

	if err := s.repo.Create(ctx, v); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.Vehicle{}, errorbank.Internal("failed to create vehicle", errorbank.WithCause(err))
	}

	cache.Invalidate(ctx, s.cache, s.logger, cache.KeyVehicles, cache.KeyStats)
	s.metrics.VehiclesCreated.Inc()
	s.publisher.Emit(ctx, messaging.EventVehicleCreated, v.ID, messaging.VehicleCreated{
		VehicleID:   v.ID,
		Make:        v.Make,
		Model:       v.Model,
		StartingBid: v.StartingBid,
	})
	s.logger.Info("vehicle created", zap.Int64("vehicle_id", v.ID), zap.String("make", v.Make), zap.String("model", v.Model))

	return view.Vehicle(*v), nil
}
