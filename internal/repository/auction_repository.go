package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wsrn829/EbayClone/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrAuctionNotActive is returned when a bid reaches the store after
	// the auction was closed.
	ErrAuctionNotActive = errors.New("auction is not active")
)

// AuctionRepository defines the interface for auction data access
type AuctionRepository interface {
	Create(ctx context.Context, auction *domain.Auction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error)
	ListActive(ctx context.Context) ([]*domain.Auction, error)
	ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Auction, error)
	Close(ctx context.Context, id uuid.UUID) (*domain.Auction, error)
	PlaceBid(ctx context.Context, bid *domain.Bid) error
}

type auctionRepository struct {
	db *sql.DB
}

// NewAuctionRepository creates a new instance of AuctionRepository
func NewAuctionRepository(db *sql.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

const auctionColumns = `id, title, description, starting_bid, current_bid, image_url, category_id, seller_id, active, created_at, updated_at`

// prefixedAuctionColumns qualifies the auction column list with a table
// alias for use in joins.
func prefixedAuctionColumns(alias string) string {
	cols := strings.Split(auctionColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func scanAuction(row interface{ Scan(...any) error }) (*domain.Auction, error) {
	auction := &domain.Auction{}
	err := row.Scan(
		&auction.ID,
		&auction.Title,
		&auction.Description,
		&auction.StartingBid,
		&auction.CurrentBid,
		&auction.ImageURL,
		&auction.CategoryID,
		&auction.SellerID,
		&auction.Active,
		&auction.CreatedAt,
		&auction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return auction, nil
}

// Create inserts a new auction
func (r *auctionRepository) Create(ctx context.Context, auction *domain.Auction) error {
	query := `
		INSERT INTO auctions (id, title, description, starting_bid, current_bid, image_url, category_id, seller_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		auction.ID,
		auction.Title,
		auction.Description,
		auction.StartingBid,
		auction.CurrentBid,
		auction.ImageURL,
		auction.CategoryID,
		auction.SellerID,
		auction.Active,
		auction.CreatedAt,
		auction.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}

	return nil
}

// FindByID retrieves an auction by ID
func (r *auctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := fmt.Sprintf(`SELECT %s FROM auctions WHERE id = $1`, auctionColumns)

	auction, err := scanAuction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to find auction by ID: %w", err)
	}

	return auction, nil
}

// ListActive retrieves all active auctions, newest first
func (r *auctionRepository) ListActive(ctx context.Context) ([]*domain.Auction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM auctions
		WHERE active = TRUE
		ORDER BY created_at DESC
	`, auctionColumns)

	return r.queryAuctions(ctx, query)
}

// ListActiveByCategory retrieves active auctions in a category, newest first
func (r *auctionRepository) ListActiveByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Auction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM auctions
		WHERE active = TRUE AND category_id = $1
		ORDER BY created_at DESC
	`, auctionColumns)

	return r.queryAuctions(ctx, query, categoryID)
}

func (r *auctionRepository) queryAuctions(ctx context.Context, query string, args ...any) ([]*domain.Auction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer rows.Close()

	auctions := []*domain.Auction{}
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auction: %w", err)
		}
		auctions = append(auctions, auction)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auctions: %w", err)
	}

	return auctions, nil
}

// Close marks an auction inactive and returns the updated row. Closing an
// already-closed auction succeeds and leaves the row unchanged.
func (r *auctionRepository) Close(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	query := fmt.Sprintf(`
		UPDATE auctions
		SET active = FALSE
		WHERE id = $1
		RETURNING %s
	`, auctionColumns)

	auction, err := scanAuction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to close auction: %w", err)
	}

	return auction, nil
}

// PlaceBid records a bid and advances the auction's current_bid inside a
// single transaction. The auction row is locked first, so simultaneous
// bids serialize: each valid bid's row is retained, and the price only
// moves upward, ending at the highest amount. Two concurrent bids of
// 200 and 201 against a price of 100 therefore both persist and the
// final price is 201, whichever lands first.
func (r *auctionRepository) PlaceBid(ctx context.Context, bid *domain.Bid) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	lockQuery := `SELECT active, current_bid FROM auctions WHERE id = $1 FOR UPDATE`

	var active bool
	var currentBid float64
	err = tx.QueryRowContext(ctx, lockQuery, bid.AuctionID).Scan(&active, &currentBid)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrAuctionNotFound
		}
		return fmt.Errorf("failed to lock auction row: %w", err)
	}

	if !active {
		return ErrAuctionNotActive
	}

	insertQuery := `
		INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		bid.ID,
		bid.AuctionID,
		bid.BidderID,
		bid.Amount,
		bid.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	if bid.Amount > currentBid {
		updateQuery := `UPDATE auctions SET current_bid = $2 WHERE id = $1`

		if _, err := tx.ExecContext(ctx, updateQuery, bid.AuctionID, bid.Amount); err != nil {
			return fmt.Errorf("failed to update auction price: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bid transaction: %w", err)
	}

	return nil
}
