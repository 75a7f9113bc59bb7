// internal/db/db.go
package db

import (
    "context"
    "database/sql"
    _ "embed"
    "fmt"
    "time"

    _ "github.com/lib/pq"
    "go.uber.org/zap"
)

//go:embed schema.sql
var Schema string

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
    conn, err := sql.Open("postgres", dsn)
    if err != nil {
        return nil, fmt.Errorf("failed to connect to DB: %w", err)
    }

    conn.SetMaxOpenConns(20)
    conn.SetMaxIdleConns(5)
    conn.SetConnMaxLifetime(30 * time.Minute)

    pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := conn.PingContext(pingCtx); err != nil {
        conn.Close()
        return nil, fmt.Errorf("failed to ping DB: %w", err)
    }

    zap.L().Info("connected to database")
    return conn, nil
}

// Migrate applies the embedded schema. Statements are idempotent.
func Migrate(ctx context.Context, conn *sql.DB) error {
    if _, err := conn.ExecContext(ctx, Schema); err != nil {
        return fmt.Errorf("failed to apply schema: %w", err)
    }
    return nil
}
