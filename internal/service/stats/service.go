package stats

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/config"
	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	userrepo "github.com/Additional-Code/gridlock/internal/repository/user"
	vehiclerepo "github.com/Additional-Code/gridlock/internal/repository/vehicle"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/gridlock/service/stats")

// Service computes the dashboard aggregate.
type Service struct {
	vehicles *vehiclerepo.Repository
	users    *userrepo.Repository
	cache    cache.Store
	ttl      time.Duration
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Vehicles *vehiclerepo.Repository
	Users    *userrepo.Repository
	Cache    cache.Store
	Config   config.Config
	Logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		vehicles: p.Vehicles,
		users:    p.Users,
		cache:    p.Cache,
		ttl:      p.Config.Cache.StatsTTL,
		logger:   p.Logger,
	}
}

// Get returns the cached aggregate, computing it on a miss.
func (s *Service) Get(ctx context.Context) (dto.Stats, error) {
	ctx, span := serviceTracer.Start(ctx, "StatsService.Get")
	defer span.End()

	var out dto.Stats
	hit, err := cache.GetJSON(ctx, s.cache, cache.KeyStats, &out)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.Error(err))
	}
	if hit {
		return out, nil
	}

	return s.Refresh(ctx)
}

// Refresh recomputes the aggregate and overwrites the cached copy.
func (s *Service) Refresh(ctx context.Context) (dto.Stats, error) {
	ctx, span := serviceTracer.Start(ctx, "StatsService.Refresh")
	defer span.End()

	out, err := s.compute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute failed")
		return dto.Stats{}, errorbank.Internal("failed to compute stats", errorbank.WithCause(err))
	}

	if err := cache.SetJSON(ctx, s.cache, cache.KeyStats, out, s.ttl); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
	return out, nil
}

func (s *Service) compute(ctx context.Context) (dto.Stats, error) {
	var out dto.Stats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.vehicles.Count(gctx, "")
		out.TotalVehicles = n
		return err
	})
	g.Go(func() error {
		n, err := s.vehicles.Count(gctx, entity.StatusActive)
		out.ActiveAuctions = n
		return err
	})
	g.Go(func() error {
		n, err := s.users.Count(gctx)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		total, err := s.vehicles.SumCurrentBid(gctx, entity.StatusEnded)
		out.TotalRevenue = dto.NewMoney(total)
		return err
	})

	if err := g.Wait(); err != nil {
		return dto.Stats{}, err
	}
	return out, nil
}
