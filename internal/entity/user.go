package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// User roles.
const (
	RoleBidder     = "bidder"
	RoleAuctioneer = "auctioneer"
	RoleAdmin      = "admin"
)

// User is a registered participant.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:",pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	FirstName    string    `bun:"first_name"`
	LastName     string    `bun:"last_name"`
	Phone        string    `bun:"phone"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
