// Package view maps stored records onto API views and decorates them with
// display strings.
package view

import (
	"time"

	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/presentation/format"
)

// PlaceholderImage is shown for vehicles listed without a photo.
const PlaceholderImage = "/placeholder.svg?height=200&width=300"

// Vehicle maps a stored vehicle.
func Vehicle(v entity.Vehicle) dto.Vehicle {
	out := dto.Vehicle{
		ID:           v.ID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		Mileage:      v.Mileage,
		Condition:    v.Condition,
		VIN:          v.VIN,
		Color:        v.Color,
		Transmission: v.Transmission,
		FuelType:     v.FuelType,
		EngineSize:   v.EngineSize,
		BodyType:     v.BodyType,
		Doors:        v.Doors,
		Description:  v.Description,
		ImageURL:     v.ImageURL,
		StartingBid:  dto.NewMoney(v.StartingBid),
		CurrentBid:   dto.NewMoney(v.CurrentBid),
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
	}
	if v.ReservePrice.Valid {
		reserve := dto.NewMoney(v.ReservePrice.Decimal)
		out.ReservePrice = &reserve
	}
	return out
}

// VehicleListing maps a vehicle together with its latest auction end time.
func VehicleListing(v entity.VehicleListing) dto.Vehicle {
	out := Vehicle(v.Vehicle)
	if !v.AuctionEndTime.IsZero() {
		end := v.AuctionEndTime.Time
		out.AuctionEndTime = &end
	}
	return out
}

// Auction maps a joined auction row.
func Auction(a entity.AuctionDetail) dto.Auction {
	image := a.VehicleImageURL
	if image == "" {
		image = PlaceholderImage
	}
	out := dto.Auction{
		ID:          a.ID,
		VehicleID:   a.VehicleID,
		Title:       a.Title,
		Description: a.Description,
		Vehicle: dto.AuctionVehicle{
			Make:  a.VehicleMake,
			Model: a.VehicleModel,
			Year:  a.VehicleYear,
			Image: image,
		},
		StartingBid: dto.NewMoney(a.VehicleStartingBid),
		CurrentBid:  dto.NewMoney(a.CurrentBid),
		BidCount:    a.BidCount,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
	if a.HighestBidder.Valid {
		bidder := a.HighestBidder.String
		out.HighestBidder = &bidder
	}
	return out
}

// Bid maps a committed bid.
func Bid(b entity.Bid) dto.Bid {
	return dto.Bid{
		ID:          b.ID,
		AuctionID:   b.AuctionID,
		UserID:      b.UserID,
		Amount:      dto.NewMoney(b.Amount),
		Timestamp:   b.PlacedAt,
		ReceiptHash: b.ReceiptHash,
	}
}

// BidReceipt maps a bid and the outcome of checking its receipt.
func BidReceipt(b entity.Bid) dto.BidReceipt {
	return dto.BidReceipt{
		BidID:       b.ID,
		AuctionID:   b.AuctionID,
		UserID:      b.UserID,
		Amount:      dto.NewMoney(b.Amount),
		Timestamp:   b.PlacedAt,
		ReceiptHash: b.ReceiptHash,
		Valid:       b.VerifyReceipt(),
	}
}

// BidDetail maps a bid carrying the bidder's username.
func BidDetail(b entity.BidDetail) dto.Bid {
	out := Bid(b.Bid)
	out.Username = b.Username
	return out
}

// User maps a user without its password hash.
func User(u entity.User) dto.User {
	return dto.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// DecorateVehicles attaches display strings relative to now.
func DecorateVehicles(vs []dto.Vehicle, now time.Time) {
	for i := range vs {
		d := &dto.VehicleDisplay{
			StartingBid: format.Currency(vs[i].StartingBid.Decimal),
			CurrentBid:  format.Currency(vs[i].CurrentBid.Decimal),
		}
		if vs[i].AuctionEndTime != nil {
			d.TimeRemaining = format.TimeRemaining(*vs[i].AuctionEndTime, now)
		}
		vs[i].Display = d
	}
}

// DecorateAuctions attaches display strings relative to now.
func DecorateAuctions(as []dto.Auction, now time.Time) {
	for i := range as {
		as[i].Display = &dto.AuctionDisplay{
			CurrentBid:     format.Currency(as[i].CurrentBid.Decimal),
			TimeRemaining:  format.TimeRemaining(as[i].EndTime, now),
			MinimumNextBid: dto.NewMoney(format.MinimumNextBid(as[i].CurrentBid.Decimal)),
		}
	}
}
