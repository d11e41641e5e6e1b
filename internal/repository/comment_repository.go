package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wsrn829/EbayClone/internal/domain"

	"github.com/google/uuid"
)

// CommentRepository defines the interface for comment data access. Comments
// are immutable once created.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Comment, error)
}

type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, auction_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.AuctionID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByAuction retrieves all comments on an auction, oldest first
func (r *commentRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*domain.Comment, error) {
	query := `
		SELECT id, auction_id, author_id, content, created_at
		FROM comments
		WHERE auction_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		comment := &domain.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.AuctionID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
