package bid_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/database/databasetest"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/repository/bid"
)

type fixture struct {
	conns   *database.Connections
	repo    *bid.Repository
	user    *entity.User
	vehicle *entity.Vehicle
	auction *entity.Auction
}

func newFixture(t *testing.T, status string) fixture {
	t.Helper()
	ctx := context.Background()
	conns := databasetest.New(t)
	now := time.Now().UTC()

	user := &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: entity.RoleBidder, CreatedAt: now}
	_, err := conns.Writer.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	vehicle := &entity.Vehicle{
		Make: "Toyota", Model: "Camry", Year: 2020, Mileage: 45000, Condition: "Excellent",
		StartingBid: decimal.NewFromInt(100), CurrentBid: decimal.NewFromInt(100),
		Status: status, CreatedAt: now,
	}
	_, err = conns.Writer.NewInsert().Model(vehicle).Exec(ctx)
	require.NoError(t, err)

	auction := &entity.Auction{
		VehicleID: vehicle.ID, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
		Status: status, CurrentBid: decimal.NewFromInt(100), CreatedAt: now,
	}
	_, err = conns.Writer.NewInsert().Model(auction).Exec(ctx)
	require.NoError(t, err)

	return fixture{conns: conns, repo: bid.NewRepository(conns), user: user, vehicle: vehicle, auction: auction}
}

func (f fixture) bid(amount int64) *entity.Bid {
	return &entity.Bid{AuctionID: f.auction.ID, UserID: f.user.ID, Amount: decimal.NewFromInt(amount), PlacedAt: time.Now().UTC()}
}

func TestPlace_CommitsBidAndRaisesCurrentBids(t *testing.T) {
	f := newFixture(t, entity.StatusActive)
	ctx := context.Background()

	b := f.bid(150)
	require.NoError(t, f.repo.Place(ctx, b))
	require.NotZero(t, b.ID)

	vehicle := new(entity.Vehicle)
	require.NoError(t, f.conns.Reader.NewSelect().Model(vehicle).Where("v.id = ?", f.vehicle.ID).Scan(ctx))
	require.True(t, vehicle.CurrentBid.Equal(decimal.NewFromInt(150)))

	auction := new(entity.Auction)
	require.NoError(t, f.conns.Reader.NewSelect().Model(auction).Where("a.id = ?", f.auction.ID).Scan(ctx))
	require.True(t, auction.CurrentBid.Equal(decimal.NewFromInt(150)))

	highest, ok, err := f.repo.HighestAmount(ctx, f.auction.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, highest.Equal(decimal.NewFromInt(150)))
}

func TestPlace_SecondBidAtSameAmountIsSuperseded(t *testing.T) {
	f := newFixture(t, entity.StatusActive)
	ctx := context.Background()

	// Both callers read 100 as the current highest before either commits.
	require.NoError(t, f.repo.Place(ctx, f.bid(150)))
	require.ErrorIs(t, f.repo.Place(ctx, f.bid(150)), bid.ErrSuperseded)

	rows, err := f.repo.ListByAuction(ctx, f.auction.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alice", rows[0].Username)
}

func TestPlace_RejectsLowerThanCommitted(t *testing.T) {
	f := newFixture(t, entity.StatusActive)
	ctx := context.Background()

	require.NoError(t, f.repo.Place(ctx, f.bid(200)))
	require.ErrorIs(t, f.repo.Place(ctx, f.bid(180)), bid.ErrSuperseded)

	vehicle := new(entity.Vehicle)
	require.NoError(t, f.conns.Reader.NewSelect().Model(vehicle).Where("v.id = ?", f.vehicle.ID).Scan(ctx))
	require.True(t, vehicle.CurrentBid.Equal(decimal.NewFromInt(200)))
}

func TestPlace_ClosedAndMissingAuctions(t *testing.T) {
	f := newFixture(t, entity.StatusEnded)
	ctx := context.Background()

	require.ErrorIs(t, f.repo.Place(ctx, f.bid(500)), bid.ErrAuctionClosed)

	missing := f.bid(500)
	missing.AuctionID = f.auction.ID + 100
	require.ErrorIs(t, f.repo.Place(ctx, missing), bid.ErrAuctionNotFound)

	_, ok, err := f.repo.HighestAmount(ctx, f.auction.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListByAuction_NewestFirst(t *testing.T) {
	f := newFixture(t, entity.StatusActive)
	ctx := context.Background()

	for _, amount := range []int64{19000, 20500, 22500} {
		require.NoError(t, f.repo.Place(ctx, f.bid(amount)))
	}

	rows, err := f.repo.ListByAuction(ctx, f.auction.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.True(t, rows[0].Amount.Equal(decimal.NewFromInt(22500)))
	require.True(t, rows[2].Amount.Equal(decimal.NewFromInt(19000)))
}

func TestPlace_StampsReceipt(t *testing.T) {
	f := newFixture(t, entity.StatusActive)
	ctx := context.Background()

	b := f.bid(150)
	require.NoError(t, f.repo.Place(ctx, b))
	require.Equal(t, b.Receipt(), b.ReceiptHash)

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ReceiptHash, stored.ReceiptHash)
	require.True(t, stored.VerifyReceipt())

	_, err = f.repo.GetByID(ctx, b.ID+1)
	require.ErrorIs(t, err, bid.ErrNotFound)
}

func TestPlace_RejectedBidHasNoRow(t *testing.T) {
	f := newFixture(t, entity.StatusActive)
	ctx := context.Background()

	b := f.bid(100)
	require.ErrorIs(t, f.repo.Place(ctx, b), bid.ErrSuperseded)
	require.Empty(t, b.ReceiptHash)

	_, err := f.repo.GetByID(ctx, 1)
	require.ErrorIs(t, err, bid.ErrNotFound)
}
