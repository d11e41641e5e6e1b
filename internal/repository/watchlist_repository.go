package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wsrn829/EbayClone/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrWatchlistItemNotFound = errors.New("watchlist item not found")
	ErrAlreadyWatching       = errors.New("auction is already on the watchlist")
)

// WatchlistRepository defines the interface for watchlist data access. The
// unique constraint on (user_id, auction_id) guarantees at most one entry
// per pair.
type WatchlistRepository interface {
	Add(ctx context.Context, item *domain.WatchlistItem) error
	Remove(ctx context.Context, userID, auctionID uuid.UUID) error
	ListAuctions(ctx context.Context, userID uuid.UUID) ([]*domain.Auction, error)
}

type watchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new instance of WatchlistRepository
func NewWatchlistRepository(db *sql.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

// Add inserts a watchlist entry for (user, auction)
func (r *watchlistRepository) Add(ctx context.Context, item *domain.WatchlistItem) error {
	query := `
		INSERT INTO watchlist_items (id, user_id, auction_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.AuctionID,
		item.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyWatching
		}
		return fmt.Errorf("failed to add watchlist item: %w", err)
	}

	return nil
}

// Remove deletes the watchlist entry for (user, auction)
func (r *watchlistRepository) Remove(ctx context.Context, userID, auctionID uuid.UUID) error {
	query := `DELETE FROM watchlist_items WHERE user_id = $1 AND auction_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, auctionID)
	if err != nil {
		return fmt.Errorf("failed to remove watchlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrWatchlistItemNotFound
	}

	return nil
}

// ListAuctions retrieves the auctions on a user's watchlist, most recently
// watched first
func (r *watchlistRepository) ListAuctions(ctx context.Context, userID uuid.UUID) ([]*domain.Auction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM auctions a
		JOIN watchlist_items w ON w.auction_id = a.id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, prefixedAuctionColumns("a"))

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
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
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return auctions, nil
}
