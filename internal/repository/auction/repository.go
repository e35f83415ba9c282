package auction

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/gridlock/repository/auction")

var (
	// ErrNotFound is returned when an auction is missing.
	ErrNotFound = errors.New("auction not found")
	// ErrVehicleNotFound is returned when the auctioned vehicle is missing.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrVehicleBusy is returned when the vehicle already has an auction that has not ended.
	ErrVehicleBusy = errors.New("vehicle already has an open auction")
	// ErrStatusChanged is returned when the stored status no longer matches the expected one.
	ErrStatusChanged = errors.New("auction status changed concurrently")
)

// Repository encapsulates read/write access for auctions.
type Repository struct {
	conns  *database.Connections
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		conns:  conns,
		reader: conns.Reader,
	}
}

// Create inserts an upcoming auction for a vehicle that has no open auction and
// resets the vehicle to its starting bid.
func (r *Repository) Create(ctx context.Context, auction *entity.Auction) error {
	if auction == nil {
		return errors.New("nil auction")
	}
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.Create", trace.WithAttributes(attribute.Int64("vehicle.id", auction.VehicleID)))
	defer span.End()

	err := r.conns.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		vehicle := new(entity.Vehicle)
		err := tx.NewSelect().Model(vehicle).Where("v.id = ?", auction.VehicleID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVehicleNotFound
		}
		if err != nil {
			return err
		}

		busy, err := tx.NewSelect().
			Model((*entity.Auction)(nil)).
			Where("a.vehicle_id = ?", auction.VehicleID).
			Where("a.status <> ?", entity.StatusEnded).
			Exists(ctx)
		if err != nil {
			return err
		}
		if busy {
			return ErrVehicleBusy
		}

		auction.Status = entity.StatusUpcoming
		auction.CurrentBid = vehicle.StartingBid
		if _, err := tx.NewInsert().Model(auction).Exec(ctx); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*entity.Vehicle)(nil)).
			Set("status = ?", entity.StatusUpcoming).
			Set("current_bid = starting_bid").
			Set("updated_at = ?", auction.CreatedAt).
			Where("id = ?", auction.VehicleID).
			Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
	}
	return err
}

// GetByID fetches the bare auction row.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Auction, error) {
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.GetByID", trace.WithAttributes(attribute.Int64("auction.id", id)))
	defer span.End()

	auction := new(entity.Auction)
	err := r.reader.NewSelect().Model(auction).Where("a.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return auction, nil
}

// List returns every auction joined with its vehicle, newest first.
func (r *Repository) List(ctx context.Context) ([]entity.AuctionDetail, error) {
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.List")
	defer span.End()

	var rows []entity.AuctionDetail
	err := r.detailQuery(&rows).OrderExpr("a.created_at DESC, a.id DESC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("auction.count", len(rows)))
	return rows, nil
}

// Detail returns one joined auction view.
func (r *Repository) Detail(ctx context.Context, id int64) (*entity.AuctionDetail, error) {
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.Detail", trace.WithAttributes(attribute.Int64("auction.id", id)))
	defer span.End()

	row := new(entity.AuctionDetail)
	err := r.detailQuery(row).Where("a.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return row, nil
}

func (r *Repository) detailQuery(model any) *bun.SelectQuery {
	return r.reader.NewSelect().
		Model(model).
		ColumnExpr("a.*").
		ColumnExpr("v.make AS vehicle_make").
		ColumnExpr("v.model AS vehicle_model").
		ColumnExpr("v.year AS vehicle_year").
		ColumnExpr("v.image_url AS vehicle_image_url").
		ColumnExpr("v.starting_bid AS vehicle_starting_bid").
		ColumnExpr("v.current_bid AS vehicle_current_bid").
		ColumnExpr("(SELECT COUNT(*) FROM bids AS b WHERE b.auction_id = a.id) AS bid_count").
		ColumnExpr("(SELECT u.username FROM bids AS b JOIN users AS u ON u.id = b.user_id WHERE b.auction_id = a.id ORDER BY b.amount DESC, b.id ASC LIMIT 1) AS highest_bidder").
		Join("JOIN vehicles AS v ON v.id = a.vehicle_id")
}

// Transition moves an auction from one status to another and mirrors the new
// status onto its vehicle. The update only applies while the stored status
// still equals from.
func (r *Repository) Transition(ctx context.Context, id int64, from, to string, at time.Time) (*entity.Auction, error) {
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.Transition", trace.WithAttributes(
		attribute.Int64("auction.id", id),
		attribute.String("auction.from", from),
		attribute.String("auction.to", to),
	))
	defer span.End()

	auction := new(entity.Auction)
	err := r.conns.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*entity.Auction)(nil)).
			Set("status = ?", to).
			Set("updated_at = ?", at).
			Where("id = ?", id).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			exists, err := tx.NewSelect().Model((*entity.Auction)(nil)).Where("a.id = ?", id).Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			return ErrStatusChanged
		}

		if err := tx.NewSelect().Model(auction).Where("a.id = ?", id).Scan(ctx); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*entity.Vehicle)(nil)).
			Set("status = ?", to).
			Set("updated_at = ?", at).
			Where("id = ?", auction.VehicleID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrStatusChanged) && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "transition failed")
		return nil, err
	}
	return auction, nil
}

// DueForTransition returns auctions whose time bounds say their status is
// behind: upcoming auctions that have started and active auctions that have
// ended.
func (r *Repository) DueForTransition(ctx context.Context, now time.Time) ([]entity.Auction, error) {
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.DueForTransition")
	defer span.End()

	var auctions []entity.Auction
	err := r.reader.NewSelect().
		Model(&auctions).
		WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("a.status = ?", entity.StatusUpcoming).Where("a.start_time <= ?", now)
		}).
		WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("a.status = ?", entity.StatusActive).Where("a.end_time <= ?", now)
		}).
		OrderExpr("a.id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("auction.due", len(auctions)))
	return auctions, nil
}

// Summary computes overview counters. An auction is ending soon when its end
// time falls within (now, now+window].
func (r *Repository) Summary(ctx context.Context, now time.Time, window time.Duration) (entity.AuctionSummary, error) {
	ctx, span := repoTracer.Start(ctx, "AuctionRepository.Summary")
	defer span.End()

	var summary entity.AuctionSummary
	var err error

	summary.ActiveCount, err = r.reader.NewSelect().
		Model((*entity.Auction)(nil)).
		Where("a.status = ?", entity.StatusActive).
		Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return entity.AuctionSummary{}, err
	}

	summary.TotalBids, err = r.reader.NewSelect().Model((*entity.Bid)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return entity.AuctionSummary{}, err
	}

	summary.EndingSoon, err = r.reader.NewSelect().
		Model((*entity.Auction)(nil)).
		Where("a.end_time > ?", now).
		Where("a.end_time <= ?", now.Add(window)).
		Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return entity.AuctionSummary{}, err
	}

	return summary, nil
}
