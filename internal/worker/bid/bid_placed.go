package bid

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/messaging"
	statssvc "github.com/Additional-Code/gridlock/internal/service/stats"
	"github.com/Additional-Code/gridlock/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/gridlock/worker/bid")

// StatsRefresher recomputes the cached dashboard aggregate.
type StatsRefresher interface {
	Refresh(ctx context.Context) (dto.Stats, error)
}

// Module registers bid-related worker handlers.
var Module = fx.Module("worker_bid",
	fx.Provide(
		fx.Annotate(
			NewBidPlacedHandler,
			fx.From(new(*statssvc.Service)),
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewBidPlacedHandler refreshes the stats cache for every committed bid.
func NewBidPlacedHandler(stats StatsRefresher, logger *zap.Logger) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.bids.placed", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event messaging.BidPlaced
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode bid placed", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(attribute.Int64("auction.id", event.AuctionID))

		if _, err := stats.Refresh(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "refresh failed")
			return err
		}

		logger.Info("bid placed event processed",
			zap.Int64("bid_id", event.BidID),
			zap.Int64("auction_id", event.AuctionID),
			zap.String("amount", event.Amount.String()),
		)

		return nil
	}

	return worker.HandlerRegistration{
		Event:   messaging.EventBidPlaced,
		Handler: handler,
	}
}
