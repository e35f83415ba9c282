package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Bid is an append-only offer by a user against an auction.
type Bid struct {
	bun.BaseModel `bun:"table:bids,alias:b"`

	ID        int64           `bun:",pk,autoincrement"`
	AuctionID int64           `bun:"auction_id,notnull"`
	UserID    int64           `bun:"user_id,notnull"`
	Amount    decimal.Decimal `bun:"amount,notnull"`
	PlacedAt  time.Time       `bun:"placed_at,notnull"`

	// ReceiptHash is the SHA-256 receipt written when the bid commits.
	ReceiptHash string `bun:"receipt_hash,notnull"`
}

// Receipt returns the hex SHA-256 digest over the bid's committed fields.
// The amount is taken at cent scale and the timestamp at microseconds so the
// digest survives a round trip through any supported store.
func (b Bid) Receipt() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%d:%d:%s:%d",
		b.ID, b.AuctionID, b.UserID, b.Amount.StringFixed(2), b.PlacedAt.UnixMicro()))
	return hex.EncodeToString(sum[:])
}

// VerifyReceipt reports whether the stored receipt matches the bid's fields.
func (b Bid) VerifyReceipt() bool {
	return b.ReceiptHash != "" && b.ReceiptHash == b.Receipt()
}

// BidDetail is a bid with the bidder's username.
type BidDetail struct {
	Bid `bun:",extend"`

	Username string `bun:"username"`
}
