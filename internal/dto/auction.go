package dto

import "time"

// AuctionVehicle is the vehicle excerpt embedded in auction views.
type AuctionVehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Image string `json:"image"`
}

// Auction is the joined auction view.
type Auction struct {
	ID            int64           `json:"id"`
	VehicleID     int64           `json:"vehicleId"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	Vehicle       AuctionVehicle  `json:"vehicle"`
	StartingBid   Money           `json:"startingBid"`
	CurrentBid    Money           `json:"currentBid"`
	BidCount      int             `json:"bidCount"`
	HighestBidder *string         `json:"highestBidder"`
	StartTime     time.Time       `json:"startTime"`
	EndTime       time.Time       `json:"endTime"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	Display       *AuctionDisplay `json:"display,omitempty"`
}

// AuctionDisplay carries preformatted strings for auction cards.
type AuctionDisplay struct {
	CurrentBid     string `json:"currentBid"`
	TimeRemaining  string `json:"timeRemaining"`
	MinimumNextBid Money  `json:"minimumNextBid"`
}

// AuctionSummary holds the overview counters.
type AuctionSummary struct {
	ActiveCount int `json:"activeCount"`
	TotalBids   int `json:"totalBids"`
	EndingSoon  int `json:"endingSoon"`
}

// CreateAuctionRequest schedules an auction for a vehicle.
type CreateAuctionRequest struct {
	VehicleID   int64      `json:"vehicleId" validate:"required,gt=0"`
	StartTime   *time.Time `json:"startTime" validate:"required"`
	EndTime     *time.Time `json:"endTime" validate:"required"`
	Title       string     `json:"title" validate:"max=255"`
	Description string     `json:"description"`
}

// TransitionRequest asks for a status change.
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=upcoming active ended"`
}
