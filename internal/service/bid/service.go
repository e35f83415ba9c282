package bid

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/messaging"
	"github.com/Additional-Code/gridlock/internal/metrics"
	"github.com/Additional-Code/gridlock/internal/presentation/format"
	"github.com/Additional-Code/gridlock/internal/presentation/view"
	auctionrepo "github.com/Additional-Code/gridlock/internal/repository/auction"
	bidrepo "github.com/Additional-Code/gridlock/internal/repository/bid"
	userrepo "github.com/Additional-Code/gridlock/internal/repository/user"
	vehiclerepo "github.com/Additional-Code/gridlock/internal/repository/vehicle"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/gridlock/service/bid")

// Service places and lists bids.
type Service struct {
	bids      *bidrepo.Repository
	auctions  *auctionrepo.Repository
	users     *userrepo.Repository
	vehicles  *vehiclerepo.Repository
	cache     cache.Store
	validator *validation.Validator
	publisher *messaging.Publisher
	metrics   *metrics.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Bids      *bidrepo.Repository
	Auctions  *auctionrepo.Repository
	Users     *userrepo.Repository
	Vehicles  *vehiclerepo.Repository
	Cache     cache.Store
	Validator *validation.Validator
	Publisher *messaging.Publisher
	Metrics   *metrics.Recorder
	Logger    *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		bids:      p.Bids,
		auctions:  p.Auctions,
		users:     p.Users,
		vehicles:  p.Vehicles,
		cache:     p.Cache,
		validator: p.Validator,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		logger:    p.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Place accepts a bid strictly above the auction's current highest amount.
func (s *Service) Place(ctx context.Context, req dto.PlaceBidRequest) (dto.Bid, error) {
	ctx, span := serviceTracer.Start(ctx, "BidService.Place", trace.WithAttributes(
		attribute.Int64("auction.id", req.AuctionID),
		attribute.Int64("user.id", req.UserID),
	))
	defer span.End()

	out, err := s.place(ctx, req)
	if err != nil {
		s.metrics.BidsRejected.WithLabelValues(rejectReason(err)).Inc()
		if errorbank.Is(err, errorbank.KindInternal) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "place failed")
		}
		return dto.Bid{}, err
	}

	s.metrics.BidsPlaced.Inc()
	return out, nil
}

func (s *Service) place(ctx context.Context, req dto.PlaceBidRequest) (dto.Bid, error) {
	if err := s.validator.Validate(&req); err != nil {
		return dto.Bid{}, err
	}
	if !req.Amount.IsPositive() {
		return dto.Bid{}, errorbank.Validation("invalid bid payload",
			errorbank.WithDetail("amount", "amount must be greater than 0"))
	}
	amount := *req.Amount

	auction, err := s.auctions.GetByID(ctx, req.AuctionID)
	if err != nil {
		if errors.Is(err, auctionrepo.ErrNotFound) {
			return dto.Bid{}, errorbank.NotFound("auction not found or not active")
		}
		return dto.Bid{}, errorbank.Internal("failed to load auction", errorbank.WithCause(err))
	}
	if auction.Status != entity.StatusActive {
		return dto.Bid{}, errorbank.NotFound("auction not found or not active")
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return dto.Bid{}, errorbank.NotFound("user not found")
		}
		return dto.Bid{}, errorbank.Internal("failed to load user", errorbank.WithCause(err))
	}

	highest, ok, err := s.bids.HighestAmount(ctx, auction.ID)
	if err != nil {
		return dto.Bid{}, errorbank.Internal("failed to load highest bid", errorbank.WithCause(err))
	}
	if !ok {
		vehicle, err := s.vehicles.GetByID(ctx, auction.VehicleID)
		if err != nil {
			return dto.Bid{}, errorbank.Internal("failed to load vehicle", errorbank.WithCause(err))
		}
		highest = vehicle.StartingBid
	}
	if amount.LessThanOrEqual(highest) {
		return dto.Bid{}, errorbank.InvalidBid("bid must be higher than current highest bid",
			errorbank.WithDetail("currentHighest", dto.NewMoney(highest)),
			errorbank.WithDetail("minimumNextBid", dto.NewMoney(format.MinimumNextBid(highest))),
		)
	}

	bid := &entity.Bid{
		AuctionID: auction.ID,
		UserID:    req.UserID,
		Amount:    amount,
		PlacedAt:  s.now(),
	}
	if err := s.bids.Place(ctx, bid); err != nil {
		switch {
		case errors.Is(err, bidrepo.ErrSuperseded):
			return dto.Bid{}, errorbank.InvalidBid("bid must be higher than current highest bid", errorbank.WithCause(err))
		case errors.Is(err, bidrepo.ErrAuctionClosed), errors.Is(err, bidrepo.ErrAuctionNotFound):
			return dto.Bid{}, errorbank.NotFound("auction not found or not active")
		}
		return dto.Bid{}, errorbank.Internal("failed to place bid", errorbank.WithCause(err))
	}

	cache.Invalidate(ctx, s.cache, s.logger,
		cache.AuctionKey(auction.ID),
		cache.KeyAuctions,
		cache.KeyAuctionSummary,
		cache.KeyVehicles,
		cache.KeyStats,
	)
	s.publisher.Emit(ctx, messaging.EventBidPlaced, auction.ID, messaging.BidPlaced{
		BidID:       bid.ID,
		AuctionID:   bid.AuctionID,
		UserID:      bid.UserID,
		Amount:      bid.Amount,
		PlacedAt:    bid.PlacedAt,
		ReceiptHash: bid.ReceiptHash,
	})
	s.logger.Info("bid placed",
		zap.Int64("bid_id", bid.ID),
		zap.Int64("auction_id", bid.AuctionID),
		zap.Int64("user_id", bid.UserID),
		zap.String("amount", bid.Amount.String()),
	)

	return view.Bid(*bid), nil
}

// List returns an auction's bids newest first.
func (s *Service) List(ctx context.Context, auctionID int64) ([]dto.Bid, error) {
	ctx, span := serviceTracer.Start(ctx, "BidService.List", trace.WithAttributes(attribute.Int64("auction.id", auctionID)))
	defer span.End()

	if _, err := s.auctions.GetByID(ctx, auctionID); err != nil {
		if errors.Is(err, auctionrepo.ErrNotFound) {
			return nil, errorbank.NotFound("auction not found")
		}
		span.RecordError(err)
		return nil, errorbank.Internal("failed to load auction", errorbank.WithCause(err))
	}

	rows, err := s.bids.ListByAuction(ctx, auctionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list bids", errorbank.WithCause(err))
	}

	out := make([]dto.Bid, 0, len(rows))
	for _, row := range rows {
		out = append(out, view.BidDetail(row))
	}
	return out, nil
}

// Verify recomputes a bid's receipt from its stored fields and reports
// whether it matches the receipt written at commit.
func (s *Service) Verify(ctx context.Context, id int64) (dto.BidReceipt, error) {
	ctx, span := serviceTracer.Start(ctx, "BidService.Verify", trace.WithAttributes(attribute.Int64("bid.id", id)))
	defer span.End()

	if id <= 0 {
		return dto.BidReceipt{}, errorbank.Validation("invalid bid id", errorbank.WithDetail("id", "must be a positive integer"))
	}

	bid, err := s.bids.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bidrepo.ErrNotFound) {
			return dto.BidReceipt{}, errorbank.NotFound("bid not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return dto.BidReceipt{}, errorbank.Internal("failed to load bid", errorbank.WithCause(err))
	}

	out := view.BidReceipt(*bid)
	if !out.Valid {
		s.logger.Warn("bid receipt mismatch", zap.Int64("bid_id", bid.ID), zap.Int64("auction_id", bid.AuctionID))
	}
	span.SetAttributes(attribute.Bool("bid.receipt_valid", out.Valid))
	return out, nil
}

func rejectReason(err error) string {
	if errors.Is(err, bidrepo.ErrSuperseded) {
		return metrics.ReasonSuperseded
	}
	switch errorbank.From(err).Kind() {
	case errorbank.KindValidation:
		return metrics.ReasonValidation
	case errorbank.KindNotFound:
		return metrics.ReasonNotFound
	case errorbank.KindInvalidBid:
		return metrics.ReasonTooLow
	default:
		return "internal"
	}
}
