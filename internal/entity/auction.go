package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Auction is a time-bounded bidding window against one vehicle.
type Auction struct {
	bun.BaseModel `bun:"table:auctions,alias:a"`

	ID          int64           `bun:",pk,autoincrement"`
	VehicleID   int64           `bun:"vehicle_id,notnull"`
	Title       string          `bun:"title"`
	Description string          `bun:"description"`
	StartTime   time.Time       `bun:"start_time,notnull"`
	EndTime     time.Time       `bun:"end_time,notnull"`
	Status      string          `bun:"status,notnull"`
	CurrentBid  decimal.Decimal `bun:"current_bid,notnull"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero"`
}

// AuctionDetail joins an auction with its vehicle and bid aggregates.
type AuctionDetail struct {
	Auction `bun:",extend"`

	VehicleMake        string          `bun:"vehicle_make"`
	VehicleModel       string          `bun:"vehicle_model"`
	VehicleYear        int             `bun:"vehicle_year"`
	VehicleImageURL    string          `bun:"vehicle_image_url"`
	VehicleStartingBid decimal.Decimal `bun:"vehicle_starting_bid"`
	VehicleCurrentBid  decimal.Decimal `bun:"vehicle_current_bid"`
	BidCount           int             `bun:"bid_count"`
	HighestBidder      sql.NullString  `bun:"highest_bidder"`
}

// AuctionSummary holds the overview counters shown above auction listings.
type AuctionSummary struct {
	ActiveCount int
	TotalBids   int
	EndingSoon  int
}
