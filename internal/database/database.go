package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wsrn829/EbayClone/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service wraps the database connection pool
type Service struct {
	db *sql.DB
}

// New opens a connection pool to the configured postgres database
func New(cfg *config.Config) (*Service, error) {
	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Service{db: db}, nil
}

// DB returns the underlying sql.DB instance
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports connection pool statistics and reachability
func (s *Service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the connection pool
func (s *Service) Close() error {
	return s.db.Close()
}
