package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is the public view of a committed bid.
type Bid struct {
	ID          int64     `json:"id"`
	AuctionID   int64     `json:"auctionId"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username,omitempty"`
	Amount      Money     `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
	ReceiptHash string    `json:"receiptHash,omitempty"`
}

// BidReceipt is the result of GET /bids/:id/verify.
type BidReceipt struct {
	BidID       int64     `json:"bidId"`
	AuctionID   int64     `json:"auctionId"`
	UserID      int64     `json:"userId"`
	Amount      Money     `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
	ReceiptHash string    `json:"receiptHash"`
	Valid       bool      `json:"valid"`
}

// PlaceBidRequest is the body of POST /bids.
type PlaceBidRequest struct {
	AuctionID int64            `json:"auctionId" validate:"required,gt=0"`
	UserID    int64            `json:"userId" validate:"required,gt=0"`
	Amount    *decimal.Decimal `json:"amount" validate:"required"`
}
