package domain

import (
	"time"

	"github.com/google/uuid"
)

// Auction represents a listed item accepting bids until closed
type Auction struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	StartingBid float64    `json:"starting_bid" db:"starting_bid"`
	CurrentBid  float64    `json:"current_bid" db:"current_bid"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	SellerID    uuid.UUID  `json:"seller_id" db:"seller_id"`
	Active      bool       `json:"active" db:"active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Category represents an auction category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Bid represents a single accepted bid on an auction. Bids are immutable
// once created.
type Bid struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuctionID uuid.UUID `json:"auction_id" db:"auction_id"`
	BidderID  uuid.UUID `json:"bidder_id" db:"bidder_id"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment represents a comment left on an auction's detail page
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuctionID uuid.UUID `json:"auction_id" db:"auction_id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WatchlistItem links a user to an auction they are watching. At most one
// entry exists per (user, auction) pair.
type WatchlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	AuctionID uuid.UUID `json:"auction_id" db:"auction_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
