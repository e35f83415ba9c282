package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is the public view of a vehicle.
type Vehicle struct {
	ID             int64           `json:"id"`
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	Mileage        int             `json:"mileage"`
	Condition      string          `json:"condition"`
	VIN            string          `json:"vin,omitempty"`
	Color          string          `json:"color,omitempty"`
	Transmission   string          `json:"transmission,omitempty"`
	FuelType       string          `json:"fuelType,omitempty"`
	EngineSize     string          `json:"engineSize,omitempty"`
	BodyType       string          `json:"bodyType,omitempty"`
	Doors          int             `json:"doors,omitempty"`
	Description    string          `json:"description,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	StartingBid    Money           `json:"startingBid"`
	CurrentBid     Money           `json:"currentBid"`
	ReservePrice   *Money          `json:"reservePrice,omitempty"`
	Status         string          `json:"status"`
	AuctionEndTime *time.Time      `json:"auctionEndTime"`
	CreatedAt      time.Time       `json:"createdAt"`
	Display        *VehicleDisplay `json:"display,omitempty"`
}

// VehicleDisplay carries preformatted strings for listings.
type VehicleDisplay struct {
	StartingBid   string `json:"startingBid"`
	CurrentBid    string `json:"currentBid"`
	TimeRemaining string `json:"timeRemaining,omitempty"`
}

// CreateVehicleRequest lists every field accepted when listing a vehicle.
type CreateVehicleRequest struct {
	Make         string           `json:"make" validate:"required"`
	Model        string           `json:"model" validate:"required"`
	Year         *int             `json:"year" validate:"required,gte=1886,lte=2100"`
	Mileage      *int             `json:"mileage" validate:"required,gte=0"`
	Condition    string           `json:"condition" validate:"required"`
	VIN          string           `json:"vin" validate:"omitempty,max=17"`
	Color        string           `json:"color"`
	Transmission string           `json:"transmission"`
	FuelType     string           `json:"fuelType"`
	EngineSize   string           `json:"engineSize"`
	BodyType     string           `json:"bodyType"`
	Doors        int              `json:"doors" validate:"gte=0,lte=8"`
	Description  string           `json:"description"`
	ImageURL     string           `json:"imageUrl" validate:"omitempty,url"`
	StartingBid  *decimal.Decimal `json:"startingBid" validate:"required"`
	ReservePrice *decimal.Decimal `json:"reservePrice"`
}
