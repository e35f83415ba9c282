package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Vehicle is a car offered through one or more auctions.
type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles,alias:v"`

	ID           int64               `bun:",pk,autoincrement"`
	Make         string              `bun:"make,notnull"`
	Model        string              `bun:"model,notnull"`
	Year         int                 `bun:"year,notnull"`
	Mileage      int                 `bun:"mileage,notnull"`
	Condition    string              `bun:"condition,notnull"`
	VIN          string              `bun:"vin"`
	Color        string              `bun:"color"`
	Transmission string              `bun:"transmission"`
	FuelType     string              `bun:"fuel_type"`
	EngineSize   string              `bun:"engine_size"`
	BodyType     string              `bun:"body_type"`
	Doors        int                 `bun:"doors"`
	Description  string              `bun:"description"`
	ImageURL     string              `bun:"image_url"`
	StartingBid  decimal.Decimal     `bun:"starting_bid,notnull"`
	CurrentBid   decimal.Decimal     `bun:"current_bid,notnull"`
	ReservePrice decimal.NullDecimal `bun:"reserve_price"`
	Status       string              `bun:"status,notnull"`
	CreatedAt    time.Time           `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time           `bun:"updated_at,nullzero"`
}

// VehicleListing is a vehicle decorated with the end time of its latest auction.
type VehicleListing struct {
	Vehicle `bun:",extend"`

	AuctionEndTime bun.NullTime `bun:"auction_end_time"`
}
