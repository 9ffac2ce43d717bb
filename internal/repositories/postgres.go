package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/auction-live/internal/logger"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		surname VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS items (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		start_price DOUBLE PRECISION NOT NULL,
		start_date TIMESTAMPTZ NOT NULL,
		finish_date TIMESTAMPTZ NOT NULL,
		reserved_price DOUBLE PRECISION NOT NULL,
		city VARCHAR(255) NOT NULL,
		category VARCHAR(255) NOT NULL,
		images JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS bids (
		seq BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL UNIQUE,
		item_id UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		user_id UUID NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS bids_item_seq_idx ON bids (item_id, seq DESC);

	CREATE TABLE IF NOT EXISTS user_items (
		seq BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		item_id UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		UNIQUE (user_id, item_id)
	);
`

// Migrate creates the auction tables when they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, postgresSchema)

	logger.Log.Infow(
		"query", "migrate",
		"error", err,
	)

	return err
}

func parseUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("parse id %q: %w", id, ErrInvalidID)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// logQuery logs the query in a single line.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}
