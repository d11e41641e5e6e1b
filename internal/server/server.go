package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/wsrn829/EbayClone/internal/config"
	custommiddleware "github.com/wsrn829/EbayClone/internal/middleware"
	"github.com/wsrn829/EbayClone/internal/repository"
	"github.com/wsrn829/EbayClone/internal/service"
	"github.com/wsrn829/EbayClone/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Redis client backs the bid rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	bidRepo := repository.NewBidRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT.Secret)
	auctionService := service.NewAuctionService(auctionRepo, bidRepo, commentRepo, watchlistRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo, auctionRepo)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	auctionHandler := transport.NewAuctionHandler(auctionService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)

	// Create route middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminOnly := custommiddleware.RequireAdmin(logger)
	bidRateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.BidsPerMinute,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:bids",
	}, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	auctionHandler.RegisterRoutes(router, authMiddleware, bidRateLimit)
	categoryHandler.RegisterRoutes(router, authMiddleware, adminOnly)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
