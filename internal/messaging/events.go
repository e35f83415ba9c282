package messaging

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Header names attached to every published event.
const (
	HeaderEvent   = "event"
	HeaderEventID = "event_id"
)

// Event names routed by the worker.
const (
	EventBidPlaced           = "bid.placed"
	EventVehicleCreated      = "vehicle.created"
	EventAuctionCreated      = "auction.created"
	EventAuctionTransitioned = "auction.transitioned"
)

// BidPlaced is emitted after a bid commits.
type BidPlaced struct {
	BidID       int64           `json:"bidId"`
	AuctionID   int64           `json:"auctionId"`
	UserID      int64           `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	PlacedAt    time.Time       `json:"placedAt"`
	ReceiptHash string          `json:"receiptHash"`
}

// VehicleCreated is emitted after a vehicle is listed.
type VehicleCreated struct {
	VehicleID   int64           `json:"vehicleId"`
	Make        string          `json:"make"`
	Model       string          `json:"model"`
	StartingBid decimal.Decimal `json:"startingBid"`
}

// AuctionCreated is emitted after an auction is scheduled.
type AuctionCreated struct {
	AuctionID int64     `json:"auctionId"`
	VehicleID int64     `json:"vehicleId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// AuctionTransitioned is emitted after an auction changes status.
type AuctionTransitioned struct {
	AuctionID int64     `json:"auctionId"`
	VehicleID int64     `json:"vehicleId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	At        time.Time `json:"at"`
}

// Publisher encodes domain events and hands them to the Client. Delivery is
// best effort: failures are logged and never surface to the caller.
type Publisher struct {
	client Client
	logger *zap.Logger
}

// NewPublisher wraps a messaging client.
func NewPublisher(client Client, logger *zap.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Emit publishes payload as event, keyed by the entity id.
func (p *Publisher) Emit(ctx context.Context, event string, id int64, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("encode event failed", zap.String("event", event), zap.Error(err))
		return
	}

	headers := map[string]string{
		HeaderEvent:   event,
		HeaderEventID: uuid.NewString(),
	}
	if err := p.client.Publish(ctx, []byte(strconv.FormatInt(id, 10)), value, headers); err != nil {
		p.logger.Warn("publish event failed",
			zap.String("event", event),
			zap.Int64("id", id),
			zap.String("topic", p.client.Topic()),
			zap.Error(err),
		)
	}
}
