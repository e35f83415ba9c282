package dto

import "time"

// User is the public view of a user. The password hash is never included.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72,password"`
	Role      string `json:"role" validate:"omitempty,oneof=bidder auctioneer admin"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=32"`
}
