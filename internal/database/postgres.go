package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

const (
	minConns        = 2
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// ConnectDB opens the shared pool. maxConns comes from config; the
// remaining knobs are fixed since nothing in this service needs to vary
// them per deployment.
func ConnectDB(dbUrl string, maxConns int32) error {
	config, err := pgxpool.ParseConfig(dbUrl)
	if err != nil {
		return fmt.Errorf("parse database config: %w", err)
	}

	if maxConns < minConns {
		maxConns = minConns
	}
	config.MaxConns = maxConns
	config.MinConns = minConns
	config.MaxConnLifetime = connMaxLifetime
	config.MaxConnIdleTime = connMaxIdleTime

	DB, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := DB.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	log.Println("Connected to PostgreSQL")
	return nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}
