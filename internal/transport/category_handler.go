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

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes. Creation is admin-only.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminOnly)
			r.Post("/", h.CreateCategory)
		})
	})
}

// ListCategories handles listing all categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// GetCategory handles the category detail view with its active auctions
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	detail, err := h.categoryService.GetCategory(r.Context(), categoryID)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err), zap.String("category_id", categoryID.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// CreateCategory handles creating a new category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}
