package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"menu-signage/logging"
)

// DB holds the database connection
var DB *sql.DB

// InitDB opens the Postgres connection described by dsn and pings it
func InitDB(ctx context.Context, dsn string) error {
	var err error
	DB, err = sql.Open("pgx", dsn)
	if err != nil {
		DB = nil
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Serverless Postgres drops idle connections aggressively
	DB.SetMaxOpenConns(10)
	DB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := DB.PingContext(pingCtx); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Log.Infof("✓ Database connection established successfully")
	return nil
}

// Connected reports whether InitDB succeeded
func Connected() bool {
	return DB != nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
