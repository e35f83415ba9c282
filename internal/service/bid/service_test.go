package bid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/database/databasetest"
	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/messaging"
	"github.com/Additional-Code/gridlock/internal/metrics"
	auctionrepo "github.com/Additional-Code/gridlock/internal/repository/auction"
	bidrepo "github.com/Additional-Code/gridlock/internal/repository/bid"
	userrepo "github.com/Additional-Code/gridlock/internal/repository/user"
	vehiclerepo "github.com/Additional-Code/gridlock/internal/repository/vehicle"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

type fixture struct {
	svc     *Service
	conns   *database.Connections
	alice   *entity.User
	bob     *entity.User
	vehicle *entity.Vehicle
	auction *entity.Auction
}

func newFixture(t *testing.T, client messaging.Client, startingBid int64) fixture {
	t.Helper()
	conns := databasetest.New(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(model any) {
		_, err := conns.Writer.NewInsert().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	f := fixture{conns: conns}
	f.alice = &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: entity.RoleBidder, CreatedAt: now}
	f.bob = &entity.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: entity.RoleBidder, CreatedAt: now}
	insert(f.alice)
	insert(f.bob)

	f.vehicle = &entity.Vehicle{
		Make: "Tesla", Model: "Model 3", Year: 2022, Mileage: 15000, Condition: "Excellent",
		StartingBid: decimal.NewFromInt(startingBid), CurrentBid: decimal.NewFromInt(startingBid),
		Status: entity.StatusActive, CreatedAt: now,
	}
	insert(f.vehicle)

	f.auction = &entity.Auction{
		VehicleID: f.vehicle.ID, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
		Status: entity.StatusActive, CurrentBid: decimal.NewFromInt(startingBid), CreatedAt: now,
	}
	insert(f.auction)

	f.svc = NewService(Params{
		Bids:      bidrepo.NewRepository(conns),
		Auctions:  auctionrepo.NewRepository(conns),
		Users:     userrepo.NewRepository(conns),
		Vehicles:  vehiclerepo.NewRepository(conns),
		Cache:     cache.NoopStore{},
		Validator: validation.New(),
		Publisher: messaging.NewPublisher(client, zap.NewNop()),
		Metrics:   metrics.Nop(),
		Logger:    zap.NewNop(),
	})
	return f
}

func quietClient(t *testing.T) messaging.Client {
	client := messaging.NewMockClient(gomock.NewController(t))
	client.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return client
}

func request(auctionID, userID int64, amount int64) dto.PlaceBidRequest {
	a := decimal.NewFromInt(amount)
	return dto.PlaceBidRequest{AuctionID: auctionID, UserID: userID, Amount: &a}
}

func TestPlace_StrictlyAboveHighest(t *testing.T) {
	f := newFixture(t, quietClient(t), 18000)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, request(f.auction.ID, f.alice.ID, 22500))
	require.NoError(t, err)

	_, err = f.svc.Place(ctx, request(f.auction.ID, f.bob.ID, 22500))
	require.True(t, errorbank.Is(err, errorbank.KindInvalidBid))
	details := errorbank.From(err).Details()
	require.Equal(t, "22500", details["currentHighest"].(dto.Money).String())

	got, err := f.svc.Place(ctx, request(f.auction.ID, f.bob.ID, 22501))
	require.NoError(t, err)
	require.NotZero(t, got.ID)
	require.Equal(t, f.auction.ID, got.AuctionID)
	require.Equal(t, f.bob.ID, got.UserID)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(22501)))
	require.False(t, got.Timestamp.IsZero())

	stored := new(entity.Vehicle)
	require.NoError(t, f.conns.Reader.NewSelect().Model(stored).Where("v.id = ?", f.vehicle.ID).Scan(ctx))
	require.True(t, stored.CurrentBid.Equal(decimal.NewFromInt(22501)))

	require.Equal(t, 2.0, testutil.ToFloat64(f.svc.metrics.BidsPlaced))
	require.Equal(t, 1.0, testutil.ToFloat64(f.svc.metrics.BidsRejected.WithLabelValues(metrics.ReasonTooLow)))
}

func TestPlace_StartingBidIsTheFloor(t *testing.T) {
	f := newFixture(t, quietClient(t), 100)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, request(f.auction.ID, f.alice.ID, 100))
	require.True(t, errorbank.Is(err, errorbank.KindInvalidBid))

	_, err = f.svc.Place(ctx, request(f.auction.ID, f.alice.ID, 101))
	require.NoError(t, err)
}

func TestPlace_Rejections(t *testing.T) {
	f := newFixture(t, quietClient(t), 100)
	ctx := context.Background()

	zero := decimal.Zero
	tests := []struct {
		name string
		req  dto.PlaceBidRequest
		kind errorbank.Kind
	}{
		{name: "missing_amount", req: dto.PlaceBidRequest{AuctionID: f.auction.ID, UserID: f.alice.ID}, kind: errorbank.KindValidation},
		{name: "zero_amount", req: dto.PlaceBidRequest{AuctionID: f.auction.ID, UserID: f.alice.ID, Amount: &zero}, kind: errorbank.KindValidation},
		{name: "missing_auction_id", req: request(0, f.alice.ID, 200), kind: errorbank.KindValidation},
		{name: "unknown_auction", req: request(f.auction.ID+10, f.alice.ID, 200), kind: errorbank.KindNotFound},
		{name: "unknown_user", req: request(f.auction.ID, f.bob.ID+10, 200), kind: errorbank.KindNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Place(ctx, tc.req)
			require.Error(t, err)
			require.True(t, errorbank.Is(err, tc.kind), "got %v", err)
		})
	}
}

func TestPlace_EndedAuctionIsNotFound(t *testing.T) {
	f := newFixture(t, quietClient(t), 100)
	ctx := context.Background()

	_, err := f.conns.Writer.NewUpdate().Model((*entity.Auction)(nil)).
		Set("status = ?", entity.StatusEnded).Where("id = ?", f.auction.ID).Exec(ctx)
	require.NoError(t, err)

	_, err = f.svc.Place(ctx, request(f.auction.ID, f.alice.ID, 5000))
	require.True(t, errorbank.Is(err, errorbank.KindNotFound))
}

func TestPlace_ConcurrentEqualBidsAcceptOnce(t *testing.T) {
	f := newFixture(t, quietClient(t), 100)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []error
	)
	for _, user := range []*entity.User{f.alice, f.bob} {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.svc.Place(ctx, request(f.auction.ID, userID, 150))
			mu.Lock()
			results = append(results, err)
			mu.Unlock()
		}(user.ID)
	}
	wg.Wait()

	accepted := 0
	for _, err := range results {
		if err == nil {
			accepted++
			continue
		}
		require.True(t, errorbank.Is(err, errorbank.KindInvalidBid), "got %v", err)
	}
	require.Equal(t, 1, accepted)

	bids, err := f.svc.List(ctx, f.auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
}

func TestPlace_PublishesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := messaging.NewMockClient(ctrl)
	client.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ []byte, headers map[string]string) error {
			require.Equal(t, messaging.EventBidPlaced, headers[messaging.HeaderEvent])
			require.NotEmpty(t, key)
			return nil
		})
	f := newFixture(t, client, 100)

	_, err := f.svc.Place(context.Background(), request(f.auction.ID, f.alice.ID, 250))
	require.NoError(t, err)
}

func TestList_NewestFirstWithUsernames(t *testing.T) {
	f := newFixture(t, quietClient(t), 100)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, request(f.auction.ID, f.alice.ID, 200))
	require.NoError(t, err)
	_, err = f.svc.Place(ctx, request(f.auction.ID, f.bob.ID, 300))
	require.NoError(t, err)

	bids, err := f.svc.List(ctx, f.auction.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	require.Equal(t, "bob", bids[0].Username)
	require.Equal(t, "alice", bids[1].Username)

	_, err = f.svc.List(ctx, f.auction.ID+1)
	require.True(t, errorbank.Is(err, errorbank.KindNotFound))
}

func TestVerify_DetectsTampering(t *testing.T) {
	f := newFixture(t, quietClient(t), 18000)
	ctx := context.Background()

	placed, err := f.svc.Place(ctx, request(f.auction.ID, f.alice.ID, 19000))
	require.NoError(t, err)
	require.Len(t, placed.ReceiptHash, 64)

	receipt, err := f.svc.Verify(ctx, placed.ID)
	require.NoError(t, err)
	require.True(t, receipt.Valid)
	require.Equal(t, placed.ReceiptHash, receipt.ReceiptHash)
	require.Equal(t, "19000", receipt.Amount.String())

	_, err = f.conns.Writer.NewUpdate().
		Model((*entity.Bid)(nil)).
		Set("amount = ?", decimal.NewFromInt(18500)).
		Where("id = ?", placed.ID).
		Exec(ctx)
	require.NoError(t, err)

	receipt, err = f.svc.Verify(ctx, placed.ID)
	require.NoError(t, err)
	require.False(t, receipt.Valid)

	_, err = f.svc.Verify(ctx, placed.ID+100)
	require.True(t, errorbank.Is(err, errorbank.KindNotFound))

	_, err = f.svc.Verify(ctx, 0)
	require.True(t, errorbank.Is(err, errorbank.KindValidation))
}
