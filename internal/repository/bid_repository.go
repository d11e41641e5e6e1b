package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wsrn829/EbayClone/internal/domain"

	"github.com/google/uuid"
)

var ErrNoBids = errors.New("no bids found")

// BidRepository defines the interface for bid data access. Bids are written
// through AuctionRepository.PlaceBid; this repository only reads them.
type BidRepository interface {
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error)
	FindHighest(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error)
}

type bidRepository struct {
	db *sql.DB
}

// NewBidRepository creates a new instance of BidRepository
func NewBidRepository(db *sql.DB) BidRepository {
	return &bidRepository{db: db}
}

// ListByAuction retrieves all bids for an auction, highest first
func (r *bidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, created_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	bids := []*domain.Bid{}
	for rows.Next() {
		bid := &domain.Bid{}
		err := rows.Scan(
			&bid.ID,
			&bid.AuctionID,
			&bid.BidderID,
			&bid.Amount,
			&bid.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, bid)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}

	return bids, nil
}

// FindHighest retrieves the highest bid for an auction
func (r *bidRepository) FindHighest(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, created_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT 1
	`

	bid := &domain.Bid{}
	err := r.db.QueryRowContext(ctx, query, auctionID).Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.BidderID,
		&bid.Amount,
		&bid.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoBids
		}
		return nil, fmt.Errorf("failed to find highest bid: %w", err)
	}

	return bid, nil
}
