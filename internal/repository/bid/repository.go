package bid

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/gridlock/repository/bid")

var (
	// ErrAuctionNotFound is returned when the bid targets a missing auction.
	ErrAuctionNotFound = errors.New("auction not found")
	// ErrAuctionClosed is returned when the auction stopped accepting bids.
	ErrAuctionClosed = errors.New("auction is not active")
	// ErrSuperseded is returned when a higher or equal bid was committed first.
	ErrSuperseded = errors.New("bid superseded by a concurrent bid")
	// ErrNotFound is returned when a bid does not exist.
	ErrNotFound = errors.New("bid not found")
)

// Repository encapsulates bid persistence.
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

// Place commits a bid in one transaction. The auction's current_bid is raised
// with a compare-and-swap that only matches an active auction whose current
// bid is still below the new amount; the bid row and the vehicle's current
// bid are written only when the swap succeeds, and the bid's receipt hash is
// stamped in the same transaction.
func (r *Repository) Place(ctx context.Context, bid *entity.Bid) error {
	if bid == nil {
		return errors.New("nil bid")
	}
	ctx, span := repoTracer.Start(ctx, "BidRepository.Place", trace.WithAttributes(
		attribute.Int64("auction.id", bid.AuctionID),
		attribute.Int64("user.id", bid.UserID),
		attribute.String("bid.amount", bid.Amount.String()),
	))
	defer span.End()

	bid.PlacedAt = bid.PlacedAt.Truncate(time.Microsecond)

	err := r.conns.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*entity.Auction)(nil)).
			Set("current_bid = ?", bid.Amount).
			Set("updated_at = ?", bid.PlacedAt).
			Where("id = ?", bid.AuctionID).
			Where("status = ?", entity.StatusActive).
			Where("current_bid < ?", bid.Amount).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return explainMiss(ctx, tx, bid.AuctionID)
		}

		if _, err := tx.NewInsert().Model(bid).Exec(ctx); err != nil {
			return err
		}
		if err := StampReceipt(ctx, &tx, bid); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model((*entity.Vehicle)(nil)).
			Set("current_bid = ?", bid.Amount).
			Set("updated_at = ?", bid.PlacedAt).
			Where("id = (SELECT vehicle_id FROM auctions WHERE id = ?)", bid.AuctionID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if !isRejection(err) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "place failed")
	}
	return err
}

// StampReceipt computes the receipt of an inserted bid and stores it.
func StampReceipt(ctx context.Context, db bun.IDB, bid *entity.Bid) error {
	bid.ReceiptHash = bid.Receipt()
	_, err := db.NewUpdate().
		Model(bid).
		Column("receipt_hash").
		WherePK().
		Exec(ctx)
	return err
}

func explainMiss(ctx context.Context, tx bun.Tx, auctionID int64) error {
	var status string
	err := tx.NewSelect().
		Model((*entity.Auction)(nil)).
		Column("status").
		Where("a.id = ?", auctionID).
		Scan(ctx, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAuctionNotFound
	}
	if err != nil {
		return err
	}
	if status != entity.StatusActive {
		return ErrAuctionClosed
	}
	return ErrSuperseded
}

func isRejection(err error) bool {
	return errors.Is(err, ErrAuctionNotFound) || errors.Is(err, ErrAuctionClosed) || errors.Is(err, ErrSuperseded)
}

// GetByID fetches a bid by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Bid, error) {
	ctx, span := repoTracer.Start(ctx, "BidRepository.GetByID", trace.WithAttributes(attribute.Int64("bid.id", id)))
	defer span.End()

	bid := new(entity.Bid)
	err := r.reader.NewSelect().Model(bid).Where("b.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return bid, nil
}

// HighestAmount returns the largest bid on an auction; ok is false when the
// auction has no bids.
func (r *Repository) HighestAmount(ctx context.Context, auctionID int64) (amount decimal.Decimal, ok bool, err error) {
	ctx, span := repoTracer.Start(ctx, "BidRepository.HighestAmount", trace.WithAttributes(attribute.Int64("auction.id", auctionID)))
	defer span.End()

	var highest decimal.NullDecimal
	err = r.reader.NewSelect().
		Model((*entity.Bid)(nil)).
		ColumnExpr("MAX(b.amount)").
		Where("b.auction_id = ?", auctionID).
		Scan(ctx, &highest)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return decimal.Zero, false, err
	}
	return highest.Decimal, highest.Valid, nil
}

// ListByAuction returns an auction's bids newest first with bidder usernames.
func (r *Repository) ListByAuction(ctx context.Context, auctionID int64) ([]entity.BidDetail, error) {
	ctx, span := repoTracer.Start(ctx, "BidRepository.ListByAuction", trace.WithAttributes(attribute.Int64("auction.id", auctionID)))
	defer span.End()

	var rows []entity.BidDetail
	err := r.reader.NewSelect().
		Model(&rows).
		ColumnExpr("b.*").
		ColumnExpr("u.username AS username").
		Join("JOIN users AS u ON u.id = b.user_id").
		Where("b.auction_id = ?", auctionID).
		OrderExpr("b.id DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return rows, nil
}
