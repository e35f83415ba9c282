package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	repo "github.com/Additional-Code/gridlock/internal/repository/auction"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/gridlock/service/auction")

// Service answers auction queries and owns every status change.
type Service struct {
	repo       *repo.Repository
	cache      cache.Store
	cacheTTL   time.Duration
	summaryTTL time.Duration
	endingSoon time.Duration
	validator  *validation.Validator
	publisher  *messaging.Publisher
	metrics    *metrics.Recorder
	logger     *zap.Logger
	now        func() time.Time
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

// SweepResult counts the transitions applied by one sweep.
type SweepResult struct {
	Activated int
	Ended     int
	Skipped   int
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:       p.Repository,
		cache:      p.Cache,
		cacheTTL:   p.Config.Cache.DefaultTTL,
		summaryTTL: p.Config.Cache.StatsTTL,
		endingSoon: p.Config.Auction.EndingSoon,
		validator:  p.Validator,
		publisher:  p.Publisher,
		metrics:    p.Metrics,
		logger:     p.Logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns joined auction views newest first, narrowed by f.
func (s *Service) List(ctx context.Context, f filter.Auctions) ([]dto.Auction, error) {
	ctx, span := serviceTracer.Start(ctx, "AuctionService.List", trace.WithAttributes(
		attribute.String("filter.search", f.Search),
		attribute.String("filter.status", f.Status),
	))
	defer span.End()

	var all []dto.Auction
	hit, err := cache.GetJSON(ctx, s.cache, cache.KeyAuctions, &all)
	if err != nil {
		s.logger.Warn("auctions cache read failed", zap.Error(err))
	}
	if !hit {
		rows, err := s.repo.List(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to list auctions", errorbank.WithCause(err))
		}
		all = make([]dto.Auction, 0, len(rows))
		for _, row := range rows {
			all = append(all, view.Auction(row))
		}
		if err := cache.SetJSON(ctx, s.cache, cache.KeyAuctions, all, s.cacheTTL); err != nil {
			s.logger.Warn("auctions cache write failed", zap.Error(err))
		}
	}

	out := f.Apply(all)
	view.DecorateAuctions(out, s.now())
	return out, nil
}

// Get returns one joined auction view.
func (s *Service) Get(ctx context.Context, id int64) (dto.Auction, error) {
	ctx, span := serviceTracer.Start(ctx, "AuctionService.Get", trace.WithAttributes(attribute.Int64("auction.id", id)))
	defer span.End()

	if id <= 0 {
		return dto.Auction{}, errorbank.Validation("invalid auction id", errorbank.WithDetail("id", "id must be greater than 0"))
	}

	var cached dto.Auction
	hit, err := cache.GetJSON(ctx, s.cache, cache.AuctionKey(id), &cached)
	if err != nil {
		s.logger.Warn("auction cache read failed", zap.Int64("auction_id", id), zap.Error(err))
	}
	if hit {
		return s.decorate(cached), nil
	}

	out, err := s.detail(ctx, id)
	if err != nil {
		if !errorbank.Is(err, errorbank.KindNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
		}
		return dto.Auction{}, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.AuctionKey(id), out, s.cacheTTL); err != nil {
		s.logger.Warn("auction cache write failed", zap.Int64("auction_id", id), zap.Error(err))
	}
	return s.decorate(out), nil
}

// Create schedules an upcoming auction for a vehicle without an open auction.
func (s *Service) Create(ctx context.Context, req dto.CreateAuctionRequest) (dto.Auction, error) {
	ctx, span := serviceTracer.Start(ctx, "AuctionService.Create", trace.WithAttributes(attribute.Int64("vehicle.id", req.VehicleID)))
	defer span.End()

	if err := s.validator.Validate(&req); err != nil {
		return dto.Auction{}, err
	}
	if !req.EndTime.After(*req.StartTime) {
		return dto.Auction{}, errorbank.Validation("endTime must be after startTime",
			errorbank.WithDetail("endTime", "endTime must be after startTime"))
	}

	now := s.now()
	a := &entity.Auction{
		VehicleID:   req.VehicleID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, repo.ErrVehicleNotFound):
			return dto.Auction{}, errorbank.NotFound("vehicle not found")
		case errors.Is(err, repo.ErrVehicleBusy):
			return dto.Auction{}, errorbank.Conflict("vehicle already has an auction that has not ended",
				errorbank.WithDetail("vehicleId", req.VehicleID))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.Auction{}, errorbank.Internal("failed to create auction", errorbank.WithCause(err))
	}

	s.invalidate(ctx, a.ID)
	s.publisher.Emit(ctx, messaging.EventAuctionCreated, a.ID, messaging.AuctionCreated{
		AuctionID: a.ID,
		VehicleID: a.VehicleID,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
	})
	s.logger.Info("auction created", zap.Int64("auction_id", a.ID), zap.Int64("vehicle_id", a.VehicleID))

	out, err := s.detail(ctx, a.ID)
	if err != nil {
		return dto.Auction{}, err
	}
	return s.decorate(out), nil
}

// Transition moves an auction forward to target. Backward, repeated and
// concurrently lost moves are conflicts.
func (s *Service) Transition(ctx context.Context, id int64, target string) (dto.Auction, error) {
	ctx, span := serviceTracer.Start(ctx, "AuctionService.Transition", trace.WithAttributes(
		attribute.Int64("auction.id", id),
		attribute.String("auction.to", target),
	))
	defer span.End()

	req := dto.TransitionRequest{Status: target}
	if err := s.validator.Validate(&req); err != nil {
		return dto.Auction{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dto.Auction{}, errorbank.NotFound("auction not found")
		}
		span.RecordError(err)
		return dto.Auction{}, errorbank.Internal("failed to load auction", errorbank.WithCause(err))
	}

	if err := s.apply(ctx, current, target); err != nil {
		return dto.Auction{}, err
	}

	out, err := s.detail(ctx, id)
	if err != nil {
		return dto.Auction{}, err
	}
	return s.decorate(out), nil
}

// apply runs one forward transition from the auction's observed status.
func (s *Service) apply(ctx context.Context, a *entity.Auction, target string) error {
	if !entity.CanTransition(a.Status, target) {
		return errorbank.Conflict(fmt.Sprintf("cannot move auction from %s to %s", a.Status, target),
			errorbank.WithDetail("status", a.Status))
	}

	at := s.now()
	updated, err := s.repo.Transition(ctx, a.ID, a.Status, target, at)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return errorbank.NotFound("auction not found")
		case errors.Is(err, repo.ErrStatusChanged):
			return errorbank.Conflict("auction status changed concurrently")
		}
		return errorbank.Internal("failed to transition auction", errorbank.WithCause(err))
	}

	s.metrics.AuctionTransitions.WithLabelValues(a.Status, target).Inc()
	s.invalidate(ctx, a.ID)
	s.publisher.Emit(ctx, messaging.EventAuctionTransitioned, a.ID, messaging.AuctionTransitioned{
		AuctionID: a.ID,
		VehicleID: updated.VehicleID,
		From:      a.Status,
		To:        target,
		At:        at,
	})
	s.logger.Info("auction transitioned",
		zap.Int64("auction_id", a.ID),
		zap.String("from", a.Status),
		zap.String("to", target),
	)
	return nil
}

// Summary returns the overview counters.
func (s *Service) Summary(ctx context.Context) (dto.AuctionSummary, error) {
	ctx, span := serviceTracer.Start(ctx, "AuctionService.Summary")
	defer span.End()

	var out dto.AuctionSummary
	hit, err := cache.GetJSON(ctx, s.cache, cache.KeyAuctionSummary, &out)
	if err != nil {
		s.logger.Warn("auction summary cache read failed", zap.Error(err))
	}
	if hit {
		return out, nil
	}

	summary, err := s.repo.Summary(ctx, s.now(), s.endingSoon)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.AuctionSummary{}, errorbank.Internal("failed to summarise auctions", errorbank.WithCause(err))
	}
	out = dto.AuctionSummary{
		ActiveCount: summary.ActiveCount,
		TotalBids:   summary.TotalBids,
		EndingSoon:  summary.EndingSoon,
	}
	if err := cache.SetJSON(ctx, s.cache, cache.KeyAuctionSummary, out, s.summaryTTL); err != nil {
		s.logger.Warn("auction summary cache write failed", zap.Error(err))
	}
	return out, nil
}

// Sweep applies the transitions implied by time bounds as of now. Auctions
// whose status moved concurrently are skipped.
func (s *Service) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	ctx, span := serviceTracer.Start(ctx, "AuctionService.Sweep")
	defer span.End()

	due, err := s.repo.DueForTransition(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		s.metrics.SweepRuns.WithLabelValues("error").Inc()
		return SweepResult{}, errorbank.Internal("failed to load due auctions", errorbank.WithCause(err))
	}

	var res SweepResult
	for i := range due {
		a := &due[i]
		target := entity.StatusEnded
		if a.Status == entity.StatusUpcoming && a.EndTime.After(now) {
			target = entity.StatusActive
		}

		if err := s.apply(ctx, a, target); err != nil {
			if errorbank.Is(err, errorbank.KindConflict) || errorbank.Is(err, errorbank.KindNotFound) {
				res.Skipped++
				continue
			}
			span.RecordError(err)
			s.metrics.SweepRuns.WithLabelValues("error").Inc()
			return res, err
		}
		if target == entity.StatusActive {
			res.Activated++
		} else {
			res.Ended++
		}
	}

	s.metrics.SweepRuns.WithLabelValues("ok").Inc()
	span.SetAttributes(
		attribute.Int("sweep.activated", res.Activated),
		attribute.Int("sweep.ended", res.Ended),
	)
	return res, nil
}

func (s *Service) detail(ctx context.Context, id int64) (dto.Auction, error) {
	row, err := s.repo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dto.Auction{}, errorbank.NotFound("auction not found")
		}
		return dto.Auction{}, errorbank.Internal("failed to load auction", errorbank.WithCause(err))
	}
	return view.Auction(*row), nil
}

func (s *Service) decorate(a dto.Auction) dto.Auction {
	out := []dto.Auction{a}
	view.DecorateAuctions(out, s.now())
	return out[0]
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	cache.Invalidate(ctx, s.cache, s.logger,
		cache.KeyAuctions,
		cache.KeyAuctionSummary,
		cache.AuctionKey(id),
		cache.KeyVehicles,
		cache.KeyStats,
	)
}
