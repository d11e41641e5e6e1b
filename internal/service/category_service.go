package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wsrn829/EbayClone/internal/domain"
	"github.com/wsrn829/EbayClone/internal/repository"

	"github.com/google/uuid"
)

// CategoryDetail bundles a category with its active auctions
type CategoryDetail struct {
	Category *domain.Category  `json:"category"`
	Auctions []*domain.Auction `json:"auctions"`
}

// CategoryService defines the category business logic
type CategoryService interface {
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDetail, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	auctionRepo  repository.AuctionRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, auctionRepo repository.AuctionRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		auctionRepo:  auctionRepo,
	}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories retrieves all categories
func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategory retrieves a category together with its active auctions
func (s *categoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDetail, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	auctions, err := s.auctionRepo.ListActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category auctions: %w", err)
	}

	return &CategoryDetail{
		Category: category,
		Auctions: auctions,
	}, nil
}
