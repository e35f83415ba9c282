package auction

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/config"
	auctionsvc "github.com/Additional-Code/gridlock/internal/service/auction"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/gridlock/worker/auction")

// Transitioner applies time-driven auction transitions.
type Transitioner interface {
	Sweep(ctx context.Context, now time.Time) (auctionsvc.SweepResult, error)
}

// Module runs the sweeper for the lifetime of the Fx app.
var Module = fx.Module("worker_auction",
	fx.Provide(
		fx.Annotate(
			NewSweeper,
			fx.From(new(*auctionsvc.Service)),
		),
	),
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, s *Sweeper) {
		if !cfg.Auction.SweepEnabled {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				s.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				s.Stop()
				return nil
			},
		})
	}),
)

// Sweeper periodically moves auctions whose time bounds have passed.
type Sweeper struct {
	auctions Transitioner
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper constructs a Sweeper ticking at the configured interval.
func NewSweeper(auctions Transitioner, cfg config.Config, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		auctions: auctions,
		interval: cfg.Auction.SweepInterval,
		logger:   logger.With(zap.String("component", "auction_sweeper")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs one pass immediately and then one per tick.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("starting auction sweeper", zap.Duration("interval", s.interval))
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the loop and waits for the running pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("auction sweeper stopped")
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single sweep and logs its outcome.
func (s *Sweeper) RunOnce(ctx context.Context) (auctionsvc.SweepResult, error) {
	ctx, span := workerTracer.Start(ctx, "worker.auctions.sweep")
	defer span.End()

	res, err := s.auctions.Sweep(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		s.logger.Error("auction sweep failed", zap.Error(err))
		return res, err
	}
	if res.Activated > 0 || res.Ended > 0 {
		s.logger.Info("auction sweep applied",
			zap.Int("activated", res.Activated),
			zap.Int("ended", res.Ended),
			zap.Int("skipped", res.Skipped),
		)
	}
	return res, nil
}
