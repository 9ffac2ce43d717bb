package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/auction-live/internal/models"
)

const userColumns = `id, name, surname, email, password, role, created_at, updated_at`

// PostgresUserRepository stores users in PostgreSQL.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates a user repository on db.
func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user and assigns its id.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, surname, email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Items = []string{}
	user.CreatedAt = now
	user.UpdatedAt = now

	args := []any{user.ID, user.Name, user.Surname, user.Email, user.Password, user.Role, now}
	_, err := executor(ctx, r.db).ExecContext(ctx, query, args...)
	logQuery(query, args[:4], user.ID, err)

	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByID returns the user with the given id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	if err := parseUUID(id); err != nil {
		return models.User{}, err
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail returns the user registered with the given e-mail.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg string) (models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &user, query, arg)
	logQuery(query, []any{arg}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, fmt.Errorf("get user %s: %w", arg, ErrNotFound)
	}
	if err != nil {
		return models.User{}, err
	}

	if user.Items, err = r.itemIDs(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *PostgresUserRepository) itemIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT item_id FROM user_items WHERE user_id = $1 ORDER BY seq`

	ids := []string{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &ids, query, userID)
	logQuery(query, []any{userID}, len(ids), err)

	return ids, err
}

// GetByIDs returns the existing users among ids, keyed by id, without their items.
// Malformed ids are skipped.
func (r *PostgresUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if parseUUID(id) == nil {
			valid = append(valid, id)
		}
	}

	users := make(map[string]models.User, len(valid))
	if len(valid) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, valid)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rows []models.User
	err = sqlx.SelectContext(ctx, executor(ctx, r.db), &rows, query, args...)
	logQuery(query, args, len(rows), err)

	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// Update overwrites name, surname, e-mail and password of an existing user.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	if err := parseUUID(user.ID); err != nil {
		return models.User{}, err
	}

	const query = `
		UPDATE users
		SET name = $2, surname = $3, email = $4, password = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + userColumns

	args := []any{user.ID, user.Name, user.Surname, user.Email, user.Password, time.Now().UTC()}

	var updated models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &updated, query, args...)
	logQuery(query, []any{user.ID, user.Email}, updated.ID, err)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	case isUniqueViolation(err):
		return models.User{}, fmt.Errorf("update user %s: %w", user.ID, ErrDuplicate)
	case err != nil:
		return models.User{}, err
	}

	if updated.Items, err = r.itemIDs(ctx, updated.ID); err != nil {
		return models.User{}, err
	}
	return updated, nil
}

// Delete removes the user. Bids the user placed stay on their items.
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	if err := parseUUID(id); err != nil {
		return err
	}

	const query = `DELETE FROM users WHERE id = $1`

	res, err := executor(ctx, r.db).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{id}, rowsAffected, err)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	return nil
}
