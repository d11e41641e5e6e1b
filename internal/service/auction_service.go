package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wsrn829/EbayClone/internal/domain"
	"github.com/wsrn829/EbayClone/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidStartingBid = errors.New("starting bid must be a non-negative amount")
	ErrBidTooLow          = errors.New("bid must be greater than the current bid")
	ErrAuctionClosed      = errors.New("auction is no longer accepting bids")
	ErrNotSeller          = errors.New("only the seller may close this auction")
	ErrEmptyComment       = errors.New("comment must not be empty")
)

// CreateAuctionInput carries the attributes of a new listing
type CreateAuctionInput struct {
	Title       string
	Description string
	StartingBid float64
	ImageURL    string
	CategoryID  *uuid.UUID
}

// AuctionDetail bundles an auction with its bids and comments
type AuctionDetail struct {
	Auction  *domain.Auction   `json:"auction"`
	Bids     []*domain.Bid     `json:"bids"`
	Comments []*domain.Comment `json:"comments"`
}

// AuctionService defines the auction lifecycle business logic. Every
// operation takes the acting user's identity as an explicit parameter.
type AuctionService interface {
	CreateAuction(ctx context.Context, sellerID uuid.UUID, in CreateAuctionInput) (*domain.Auction, error)
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionDetail, error)
	ListActiveAuctions(ctx context.Context) ([]*domain.Auction, error)
	PlaceBid(ctx context.Context, bidderID, auctionID uuid.UUID, amount float64) (*domain.Bid, error)
	CloseAuction(ctx context.Context, userID, auctionID uuid.UUID) (*domain.Auction, error)
	AddComment(ctx context.Context, authorID, auctionID uuid.UUID, content string) (*domain.Comment, error)
	AddToWatchlist(ctx context.Context, userID, auctionID uuid.UUID) error
	RemoveFromWatchlist(ctx context.Context, userID, auctionID uuid.UUID) error
	ListWatchlist(ctx context.Context, userID uuid.UUID) ([]*domain.Auction, error)
}

type auctionService struct {
	auctionRepo   repository.AuctionRepository
	bidRepo       repository.BidRepository
	commentRepo   repository.CommentRepository
	watchlistRepo repository.WatchlistRepository
	categoryRepo  repository.CategoryRepository
}

// NewAuctionService creates a new instance of AuctionService
func NewAuctionService(
	auctionRepo repository.AuctionRepository,
	bidRepo repository.BidRepository,
	commentRepo repository.CommentRepository,
	watchlistRepo repository.WatchlistRepository,
	categoryRepo repository.CategoryRepository,
) AuctionService {
	return &auctionService{
		auctionRepo:   auctionRepo,
		bidRepo:       bidRepo,
		commentRepo:   commentRepo,
		watchlistRepo: watchlistRepo,
		categoryRepo:  categoryRepo,
	}
}

// CreateAuction creates a new active listing with current_bid initialized
// to the starting bid. A category, when given, must exist.
func (s *auctionService) CreateAuction(ctx context.Context, sellerID uuid.UUID, in CreateAuctionInput) (*domain.Auction, error) {
	if in.StartingBid < 0 {
		return nil, ErrInvalidStartingBid
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	auction := &domain.Auction{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		StartingBid: in.StartingBid,
		CurrentBid:  in.StartingBid,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		SellerID:    sellerID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	return auction, nil
}

// GetAuction retrieves an auction together with its bids and comments
func (s *auctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionDetail, error) {
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	bids, err := s.bidRepo.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}

	comments, err := s.commentRepo.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	return &AuctionDetail{
		Auction:  auction,
		Bids:     bids,
		Comments: comments,
	}, nil
}

// ListActiveAuctions retrieves all auctions still open to bids
func (s *auctionService) ListActiveAuctions(ctx context.Context) ([]*domain.Auction, error) {
	return s.auctionRepo.ListActive(ctx)
}

// PlaceBid validates and records a bid. The bid must exceed the auction's
// current bid and the auction must still be active; on success the bid row
// and the current_bid update land atomically under a row lock, so
// simultaneous valid bids are all retained and the highest one sets the
// price. After any successful bid, current_bid equals the maximum of the
// starting bid and every accepted amount. Rejected bids leave no state
// behind.
func (s *auctionService) PlaceBid(ctx context.Context, bidderID, auctionID uuid.UUID, amount float64) (*domain.Bid, error) {
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	if !auction.Active {
		return nil, ErrAuctionClosed
	}
	if amount <= auction.CurrentBid {
		return nil, ErrBidTooLow
	}

	bid := &domain.Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: time.Now(),
	}

	if err := s.auctionRepo.PlaceBid(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrAuctionNotActive) {
			return nil, ErrAuctionClosed
		}
		return nil, fmt.Errorf("failed to place bid: %w", err)
	}

	return bid, nil
}

// CloseAuction transitions an auction to its terminal closed state. Only
// the seller may close. Closing an already-closed auction succeeds without
// changing anything.
func (s *auctionService) CloseAuction(ctx context.Context, userID, auctionID uuid.UUID) (*domain.Auction, error) {
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	if auction.SellerID != userID {
		return nil, ErrNotSeller
	}

	if !auction.Active {
		return auction, nil
	}

	return s.auctionRepo.Close(ctx, auctionID)
}

// AddComment appends an immutable comment to an auction
func (s *auctionService) AddComment(ctx context.Context, authorID, auctionID uuid.UUID, content string) (*domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	if _, err := s.auctionRepo.FindByID(ctx, auctionID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		AuctionID: auctionID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// AddToWatchlist puts an auction on the user's watchlist. Watching an
// auction twice reports ErrAlreadyWatching.
func (s *auctionService) AddToWatchlist(ctx context.Context, userID, auctionID uuid.UUID) error {
	if _, err := s.auctionRepo.FindByID(ctx, auctionID); err != nil {
		return err
	}

	item := &domain.WatchlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		AuctionID: auctionID,
		CreatedAt: time.Now(),
	}

	return s.watchlistRepo.Add(ctx, item)
}

// RemoveFromWatchlist takes an auction off the user's watchlist
func (s *auctionService) RemoveFromWatchlist(ctx context.Context, userID, auctionID uuid.UUID) error {
	return s.watchlistRepo.Remove(ctx, userID, auctionID)
}

// ListWatchlist retrieves the auctions the user is watching
func (s *auctionService) ListWatchlist(ctx context.Context, userID uuid.UUID) ([]*domain.Auction, error) {
	return s.watchlistRepo.ListAuctions(ctx, userID)
}
