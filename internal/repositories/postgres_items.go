package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/auction-live/internal/models"
)

const itemColumns = `id, title, description, start_price, start_date, finish_date, reserved_price, city, category, images, created_at`

type bidRow struct {
	ItemID string `db:"item_id"`
	models.Bid
}

// PostgresItemRepository stores items in PostgreSQL; bids live in their own
// table and are ordered newest first by insertion sequence.
type PostgresItemRepository struct {
	db *sqlx.DB
}

// NewPostgresItemRepository creates an item repository on db.
func NewPostgresItemRepository(db *sqlx.DB) *PostgresItemRepository {
	return &PostgresItemRepository{db: db}
}

// Create inserts a new item without bids.
func (r *PostgresItemRepository) Create(ctx context.Context, item models.Item) (models.Item, error) {
	const query = `
		INSERT INTO items (id, title, description, start_price, start_date, finish_date, reserved_price, city, category, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	item.ID = uuid.NewString()
	item.Bids = []models.Bid{}
	if item.Images == nil {
		item.Images = models.ImageList{}
	}
	item.CreatedAt = time.Now().UTC()

	args := []any{
		item.ID, item.Title, item.Description, item.StartPrice, item.StartDate, item.FinishDate,
		item.ReservedPrice, item.City, item.Category, item.Images, item.CreatedAt,
	}
	_, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
	logQuery(query, args[:2], item.ID, err)

	if err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// GetByID returns the item with its bids, newest first.
func (r *PostgresItemRepository) GetByID(ctx context.Context, id string) (models.Item, error) {
	if err := parseUUID(id); err != nil {
		return models.Item{}, err
	}

	const query = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	var item models.Item
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &item, query, id)
	logQuery(query, []any{id}, item.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Item{}, err
	}

	bids, err := r.bidsFor(ctx, []string{id})
	if err != nil {
		return models.Item{}, err
	}
	item.Bids = bids[id]
	if item.Bids == nil {
		item.Bids = []models.Bid{}
	}
	return item, nil
}

// Search returns the items matching q in insertion order.
func (r *PostgresItemRepository) Search(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q.City != "" {
		add("city = $%d", q.City)
	}
	if q.Category != "" {
		add("category = $%d", q.Category)
	}
	if q.StartDate != nil {
		add("finish_date >= $%d", *q.StartDate)
	}
	if q.EndDate != nil {
		add("finish_date <= $%d", *q.EndDate)
	}
	if q.StartPrice != nil {
		add("start_price >= $%d", *q.StartPrice)
	}
	if q.EndPrice != nil {
		add("start_price <= $%d", *q.EndPrice)
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at, id`

	items := []models.Item{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &items, query, args...)
	logQuery(query, args, len(items), err)

	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	bids, err := r.bidsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Bids = bids[items[i].ID]
		if items[i].Bids == nil {
			items[i].Bids = []models.Bid{}
		}
	}
	return items, nil
}

// bidsFor loads the bids of the given items, newest first, keyed by item id.
func (r *PostgresItemRepository) bidsFor(ctx context.Context, itemIDs []string) (map[string][]models.Bid, error) {
	query, args, err := sqlx.In(`
		SELECT item_id, id, user_id, amount, created_at
		FROM bids
		WHERE item_id IN (?)
		ORDER BY seq DESC
	`, itemIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rows []bidRow
	err = sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...)
	logQuery(query, args, len(rows), err)

	if err != nil {
		return nil, err
	}

	bids := make(map[string][]models.Bid, len(itemIDs))
	for _, row := range rows {
		bids[row.ItemID] = append(bids[row.ItemID], row.Bid)
	}
	return bids, nil
}

// DistinctCities returns every city used by an item, sorted.
func (r *PostgresItemRepository) DistinctCities(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT city FROM items ORDER BY city`)
}

// DistinctCategories returns every category used by an item, sorted.
func (r *PostgresItemRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT category FROM items ORDER BY category`)
}

func (r *PostgresItemRepository) distinct(ctx context.Context, query string) ([]string, error) {
	values := []string{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &values, query)
	logQuery(query, nil, len(values), err)

	if err != nil {
		return nil, err
	}
	return values, nil
}

// PlaceBid locks the item row, re-checks the floor and records the bid and
// the bidder's item in one transaction.
func (r *PostgresItemRepository) PlaceBid(ctx context.Context, itemID string, bid models.Bid) (models.Bid, error) {
	if err := parseUUID(itemID); err != nil {
		return models.Bid{}, err
	}
	if err := parseUUID(bid.UserID); err != nil {
		return models.Bid{}, fmt.Errorf("place bid by user %s: %w", bid.UserID, ErrBidderNotFound)
	}

	bid.ID = uuid.NewString()
	if bid.TimeStamp.IsZero() {
		bid.TimeStamp = time.Now().UTC()
	}

	err := WithTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		const lockQuery = `SELECT start_price FROM items WHERE id = $1 FOR UPDATE`
		var startPrice float64
		err := tx.GetContext(ctx, &startPrice, lockQuery, itemID)
		logQuery(lockQuery, []any{itemID}, startPrice, err)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("place bid on item %s: %w", itemID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		const currentQuery = `SELECT amount FROM bids WHERE item_id = $1 ORDER BY seq DESC LIMIT 1`
		floor := startPrice
		var current float64
		err = tx.GetContext(ctx, &current, currentQuery, itemID)
		logQuery(currentQuery, []any{itemID}, current, err)
		switch {
		case err == nil:
			floor = current
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		if !(bid.Amount > floor) {
			return fmt.Errorf("place bid on item %s: %w", itemID, ErrBidRejected)
		}

		const userQuery = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
		var exists bool
		err = tx.GetContext(ctx, &exists, userQuery, bid.UserID)
		logQuery(userQuery, []any{bid.UserID}, exists, err)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("place bid by user %s: %w", bid.UserID, ErrBidderNotFound)
		}

		const insertBid = `INSERT INTO bids (id, item_id, user_id, amount, created_at) VALUES ($1, $2, $3, $4, $5)`
		args := []any{bid.ID, itemID, bid.UserID, bid.Amount, bid.TimeStamp}
		_, err = tx.ExecContext(ctx, insertBid, args...)
		logQuery(insertBid, args, bid.ID, err)
		if err != nil {
			return err
		}

		const insertUserItem = `
			INSERT INTO user_items (user_id, item_id) VALUES ($1, $2)
			ON CONFLICT (user_id, item_id) DO NOTHING
		`
		_, err = tx.ExecContext(ctx, insertUserItem, bid.UserID, itemID)
		logQuery(insertUserItem, []any{bid.UserID, itemID}, nil, err)
		return err
	})
	if err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}
