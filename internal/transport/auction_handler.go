package transport

import (
	"net/http"

	"github.com/wsrn829/EbayClone/internal/middleware"
	"github.com/wsrn829/EbayClone/internal/repository"
	"github.com/wsrn829/EbayClone/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateAuctionRequest represents the auction creation payload
type CreateAuctionRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	StartingBid float64 `json:"starting_bid" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
}

// PlaceBidRequest represents the bid placement payload
type PlaceBidRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// AddCommentRequest represents the comment payload
type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// AuctionHandler handles HTTP requests for auction operations
type AuctionHandler struct {
	auctionService service.AuctionService
	logger         *zap.Logger
}

// NewAuctionHandler creates a new AuctionHandler
func NewAuctionHandler(auctionService service.AuctionService, logger *zap.Logger) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		logger:         logger,
	}
}

// RegisterRoutes registers all auction routes. Bid placement additionally
// goes through the rate limiter.
func (h *AuctionHandler) RegisterRoutes(r chi.Router, authMiddleware, bidRateLimit func(http.Handler) http.Handler) {
	r.Route("/api/auctions", func(r chi.Router) {
		// Public routes
		r.Get("/", h.ListActive)
		r.Get("/{id}", h.GetAuction)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.CreateAuction)
			r.With(bidRateLimit).Post("/{id}/bids", h.PlaceBid)
			r.Post("/{id}/close", h.CloseAuction)
			r.Post("/{id}/comments", h.AddComment)
			r.Put("/{id}/watchlist", h.AddToWatchlist)
			r.Delete("/{id}/watchlist", h.RemoveFromWatchlist)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/api/watchlist", h.ListWatchlist)
	})
}

// currentUserID extracts the authenticated user's ID from the request
// context set by the auth middleware.
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// auctionIDParam parses the {id} URL parameter
func auctionIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// ListActive handles listing all active auctions
func (h *AuctionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	auctions, err := h.auctionService.ListActiveAuctions(r.Context())
	if err != nil {
		h.logger.Error("Failed to list active auctions", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list auctions")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, auctions)
}

// GetAuction handles the auction detail view with bids and comments
func (h *AuctionHandler) GetAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid auction ID")
		return
	}

	detail, err := h.auctionService.GetAuction(r.Context(), auctionID)
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "auction not found")
			return
		}
		h.logger.Error("Failed to get auction", zap.Error(err), zap.String("auction_id", auctionID.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get auction")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// CreateAuction handles creating a new listing
func (h *AuctionHandler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateAuctionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Auction creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateAuctionInput{
		Title:       req.Title,
		Description: req.Description,
		StartingBid: req.StartingBid,
		ImageURL:    req.ImageURL,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		input.CategoryID = &categoryID
	}

	auction, err := h.auctionService.CreateAuction(r.Context(), sellerID, input)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		if err == service.ErrInvalidStartingBid {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create auction", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create auction")
		return
	}

	h.logger.Info("Auction created",
		zap.String("auction_id", auction.ID.String()),
		zap.String("seller_id", sellerID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, auction)
}

// PlaceBid handles bid placement
func (h *AuctionHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	bidderID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auctionID, err := auctionIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid auction ID")
		return
	}

	var req PlaceBidRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Bid validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bid, err := h.auctionService.PlaceBid(r.Context(), bidderID, auctionID, req.Amount)
	if err != nil {
		switch err {
		case repository.ErrAuctionNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "auction not found")
		case service.ErrBidTooLow:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case service.ErrAuctionClosed:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to place bid",
				zap.Error(err),
				zap.String("auction_id", auctionID.String()),
				zap.String("bidder_id", bidderID.String()),
			)
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place bid")
		}
		return
	}

	h.logger.Info("Bid placed",
		zap.String("bid_id", bid.ID.String()),
		zap.String("auction_id", auctionID.String()),
		zap.Float64("amount", bid.Amount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, bid)
}

// CloseAuction handles closing a listing. Only the seller may close.
func (h *AuctionHandler) CloseAuction(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auctionID, err := auctionIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid auction ID")
		return
	}

	auction, err := h.auctionService.CloseAuction(r.Context(), userID, auctionID)
	if err != nil {
		switch err {
		case repository.ErrAuctionNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "auction not found")
		case service.ErrNotSeller:
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		default:
			h.logger.Error("Failed to close auction", zap.Error(err), zap.String("auction_id", auctionID.String()))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to close auction")
		}
		return
	}

	h.logger.Info("Auction closed", zap.String("auction_id", auction.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, auction)
}

// AddComment handles commenting on an auction
func (h *AuctionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	authorID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auctionID, err := auctionIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid auction ID")
		return
	}

	var req AddCommentRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Comment validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.auctionService.AddComment(r.Context(), authorID, auctionID, req.Content)
	if err != nil {
		switch err {
		case repository.ErrAuctionNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "auction not found")
		case service.ErrEmptyComment:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to add comment", zap.Error(err), zap.String("auction_id", auctionID.String()))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add comment")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, comment)
}

// AddToWatchlist handles adding an auction to the user's watchlist
func (h *AuctionHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auctionID, err := auctionIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid auction ID")
		return
	}

	if err := h.auctionService.AddToWatchlist(r.Context(), userID, auctionID); err != nil {
		switch err {
		case repository.ErrAuctionNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "auction not found")
		case repository.ErrAlreadyWatching:
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to add to watchlist", zap.Error(err), zap.String("auction_id", auctionID.String()))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to watchlist")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "added to watchlist"})
}

// RemoveFromWatchlist handles removing an auction from the user's watchlist
func (h *AuctionHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auctionID, err := auctionIDParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid auction ID")
		return
	}

	if err := h.auctionService.RemoveFromWatchlist(r.Context(), userID, auctionID); err != nil {
		if err == repository.ErrWatchlistItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "watchlist item not found")
			return
		}
		h.logger.Error("Failed to remove from watchlist", zap.Error(err), zap.String("auction_id", auctionID.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove from watchlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "removed from watchlist"})
}

// ListWatchlist handles listing the user's watched auctions
func (h *AuctionHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	auctions, err := h.auctionService.ListWatchlist(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list watchlist", zap.Error(err), zap.String("user_id", userID.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list watchlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, auctions)
}
