package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wsrn829/EbayClone/internal/domain"

	"github.com/google/uuid"
)

func createTestUser(t *testing.T, email string) *domain.User {
	t.Helper()
	repo := NewUserRepository(testDB)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

func createTestAuction(t *testing.T, sellerID uuid.UUID, startingBid float64) *domain.Auction {
	t.Helper()
	repo := NewAuctionRepository(testDB)
	now := time.Now()
	auction := &domain.Auction{
		ID:          uuid.New(),
		Title:       "Test item",
		Description: "An item under test",
		StartingBid: startingBid,
		CurrentBid:  startingBid,
		SellerID:    sellerID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(context.Background(), auction); err != nil {
		t.Fatalf("failed to create test auction: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM bids WHERE auction_id = $1", auction.ID)
		_, _ = testDB.Exec("DELETE FROM watchlist_items WHERE auction_id = $1", auction.ID)
		_, _ = testDB.Exec("DELETE FROM comments WHERE auction_id = $1", auction.ID)
		_, _ = testDB.Exec("DELETE FROM auctions WHERE id = $1", auction.ID)
	})
	return auction
}

func placeTestBid(t *testing.T, auctionID, bidderID uuid.UUID, amount float64) error {
	t.Helper()
	repo := NewAuctionRepository(testDB)
	return repo.PlaceBid(context.Background(), &domain.Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
}

func TestAuctionRepository_PlaceBidAdvancesPrice(t *testing.T) {
	seller := createTestUser(t, "seller-advance@example.com")
	bidder := createTestUser(t, "bidder-advance@example.com")
	auction := createTestAuction(t, seller.ID, 100.00)

	if err := placeTestBid(t, auction.ID, bidder.ID, 150.00); err != nil {
		t.Fatalf("unexpected error placing bid: %v", err)
	}

	repo := NewAuctionRepository(testDB)
	stored, err := repo.FindByID(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("failed to reload auction: %v", err)
	}
	if stored.CurrentBid != 150.00 {
		t.Fatalf("expected current_bid 150.00, got %v", stored.CurrentBid)
	}

	bids, err := NewBidRepository(testDB).ListByAuction(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("failed to list bids: %v", err)
	}
	if len(bids) != 1 {
		t.Fatalf("expected 1 bid, got %d", len(bids))
	}
}

func TestAuctionRepository_PlaceBidOnClosedAuction(t *testing.T) {
	seller := createTestUser(t, "seller-closed@example.com")
	bidder := createTestUser(t, "bidder-closed@example.com")
	auction := createTestAuction(t, seller.ID, 100.00)

	repo := NewAuctionRepository(testDB)
	if _, err := repo.Close(context.Background(), auction.ID); err != nil {
		t.Fatalf("failed to close auction: %v", err)
	}

	err := placeTestBid(t, auction.ID, bidder.ID, 150.00)
	if err != ErrAuctionNotActive {
		t.Fatalf("expected ErrAuctionNotActive, got %v", err)
	}
}

func TestAuctionRepository_PlaceBidUnknownAuction(t *testing.T) {
	bidder := createTestUser(t, "bidder-unknown@example.com")

	err := placeTestBid(t, uuid.New(), bidder.ID, 150.00)
	if err != ErrAuctionNotFound {
		t.Fatalf("expected ErrAuctionNotFound, got %v", err)
	}
}

// Two simultaneous bids against the same auction both persist, and the
// price ends at the higher amount regardless of commit order.
func TestAuctionRepository_ConcurrentBids(t *testing.T) {
	seller := createTestUser(t, "seller-concurrent@example.com")
	bidderA := createTestUser(t, "bidder-a@example.com")
	bidderB := createTestUser(t, "bidder-b@example.com")
	auction := createTestAuction(t, seller.ID, 100.00)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = placeTestBid(t, auction.ID, bidderA.ID, 200.00)
	}()
	go func() {
		defer wg.Done()
		errs[1] = placeTestBid(t, auction.ID, bidderB.ID, 201.00)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("bid %d failed: %v", i, err)
		}
	}

	repo := NewAuctionRepository(testDB)
	stored, err := repo.FindByID(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("failed to reload auction: %v", err)
	}
	if stored.CurrentBid != 201.00 {
		t.Fatalf("expected final current_bid 201.00, got %v", stored.CurrentBid)
	}

	bids, err := NewBidRepository(testDB).ListByAuction(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("failed to list bids: %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("expected both bids persisted, got %d", len(bids))
	}

	highest, err := NewBidRepository(testDB).FindHighest(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("failed to find highest bid: %v", err)
	}
	if highest.Amount != 201.00 {
		t.Fatalf("expected highest bid 201.00, got %v", highest.Amount)
	}
}

func TestAuctionRepository_CloseIsIdempotent(t *testing.T) {
	seller := createTestUser(t, "seller-idempotent@example.com")
	auction := createTestAuction(t, seller.ID, 50.00)

	repo := NewAuctionRepository(testDB)

	first, err := repo.Close(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("failed to close auction: %v", err)
	}
	if first.Active {
		t.Fatal("expected auction to be inactive after close")
	}

	second, err := repo.Close(context.Background(), auction.ID)
	if err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if second.Active {
		t.Fatal("expected auction to stay inactive")
	}
}

func TestAuctionRepository_ListActiveExcludesClosed(t *testing.T) {
	seller := createTestUser(t, "seller-list@example.com")
	open := createTestAuction(t, seller.ID, 10.00)
	closed := createTestAuction(t, seller.ID, 10.00)

	repo := NewAuctionRepository(testDB)
	if _, err := repo.Close(context.Background(), closed.ID); err != nil {
		t.Fatalf("failed to close auction: %v", err)
	}

	auctions, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("failed to list active auctions: %v", err)
	}

	var sawOpen, sawClosed bool
	for _, a := range auctions {
		if a.ID == open.ID {
			sawOpen = true
		}
		if a.ID == closed.ID {
			sawClosed = true
		}
	}
	if !sawOpen {
		t.Fatal("expected open auction in active listing")
	}
	if sawClosed {
		t.Fatal("closed auction must not appear in active listing")
	}
}

func TestWatchlistRepository_UniquenessAndRemoval(t *testing.T) {
	user := createTestUser(t, "watcher@example.com")
	seller := createTestUser(t, "seller-watch@example.com")
	auction := createTestAuction(t, seller.ID, 10.00)

	repo := NewWatchlistRepository(testDB)
	ctx := context.Background()

	item := &domain.WatchlistItem{
		ID:        uuid.New(),
		UserID:    user.ID,
		AuctionID: auction.ID,
		CreatedAt: time.Now(),
	}
	if err := repo.Add(ctx, item); err != nil {
		t.Fatalf("failed to add watchlist item: %v", err)
	}

	duplicate := &domain.WatchlistItem{
		ID:        uuid.New(),
		UserID:    user.ID,
		AuctionID: auction.ID,
		CreatedAt: time.Now(),
	}
	if err := repo.Add(ctx, duplicate); err != ErrAlreadyWatching {
		t.Fatalf("expected ErrAlreadyWatching, got %v", err)
	}

	watched, err := repo.ListAuctions(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list watched auctions: %v", err)
	}
	if len(watched) != 1 || watched[0].ID != auction.ID {
		t.Fatalf("expected exactly the watched auction, got %d entries", len(watched))
	}

	if err := repo.Remove(ctx, user.ID, auction.ID); err != nil {
		t.Fatalf("failed to remove watchlist item: %v", err)
	}
	if err := repo.Remove(ctx, user.ID, auction.ID); err != ErrWatchlistItemNotFound {
		t.Fatalf("expected ErrWatchlistItemNotFound, got %v", err)
	}
}
