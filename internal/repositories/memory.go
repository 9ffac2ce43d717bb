package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/auction-live/internal/models"
)

// MemoryDB is a concurrency-safe in-memory store shared by the memory repositories.
type MemoryDB struct {
	mu     sync.RWMutex
	users  map[string]models.User // key: userID -> value: user
	emails map[string]string      // key: email -> value: userID
	items  map[string]models.Item // key: itemID -> value: item
	order  []string               // itemIDs in insertion order
}

// NewMemoryDB creates an empty in-memory store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
		items:  make(map[string]models.Item),
	}
}

func parseMemoryID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("parse id %q: %w", id, ErrInvalidID)
	}
	return nil
}

func copyUser(u models.User) models.User {
	u.Items = append([]string{}, u.Items...)
	return u
}

func copyItem(i models.Item) models.Item {
	i.Images = append(models.ImageList{}, i.Images...)
	i.Bids = append([]models.Bid{}, i.Bids...)
	return i
}

// MemoryUserRepository stores users in a MemoryDB.
type MemoryUserRepository struct {
	db *MemoryDB
}

// NewMemoryUserRepository creates a user repository backed by db.
func NewMemoryUserRepository(db *MemoryDB) *MemoryUserRepository {
	return &MemoryUserRepository{db: db}
}

// Create stores a new user and assigns its id.
func (r *MemoryUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.emails[user.Email]; ok {
		return models.User{}, fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.Items = []string{}
	user.CreatedAt = now
	user.UpdatedAt = now

	r.db.users[user.ID] = user
	r.db.emails[user.Email] = user.ID
	return copyUser(user), nil
}

// GetByID returns the user with the given id.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	if err := parseMemoryID(id); err != nil {
		return models.User{}, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("get user %s: %w", id, ErrNotFound)
	}
	return copyUser(user), nil
}

// GetByEmail returns the user registered with the given e-mail.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.emails[email]
	if !ok {
		return models.User{}, fmt.Errorf("get user by email %s: %w", email, ErrNotFound)
	}
	return copyUser(r.db.users[id]), nil
}

// GetByIDs returns the existing users among ids, keyed by id.
func (r *MemoryUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if user, ok := r.db.users[id]; ok {
			users[id] = copyUser(user)
		}
	}
	return users, nil
}

// Update overwrites name, surname, e-mail and password of an existing user.
func (r *MemoryUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	if err := parseMemoryID(user.ID); err != nil {
		return models.User{}, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.users[user.ID]
	if !ok {
		return models.User{}, fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	}
	if owner, taken := r.db.emails[user.Email]; taken && owner != user.ID {
		return models.User{}, fmt.Errorf("update user %s: %w", user.ID, ErrDuplicate)
	}

	delete(r.db.emails, stored.Email)
	stored.Name = user.Name
	stored.Surname = user.Surname
	stored.Email = user.Email
	stored.Password = user.Password
	stored.UpdatedAt = time.Now().UTC()

	r.db.users[stored.ID] = stored
	r.db.emails[stored.Email] = stored.ID
	return copyUser(stored), nil
}

// Delete removes the user. Bids the user placed stay on their items.
func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error {
	if err := parseMemoryID(id); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[id]
	if !ok {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	delete(r.db.emails, user.Email)
	delete(r.db.users, id)
	return nil
}

// MemoryItemRepository stores items in a MemoryDB.
type MemoryItemRepository struct {
	db *MemoryDB
}

// NewMemoryItemRepository creates an item repository backed by db.
func NewMemoryItemRepository(db *MemoryDB) *MemoryItemRepository {
	return &MemoryItemRepository{db: db}
}

// Create stores a new item without bids.
func (r *MemoryItemRepository) Create(ctx context.Context, item models.Item) (models.Item, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	item.ID = uuid.NewString()
	item.Bids = []models.Bid{}
	if item.Images == nil {
		item.Images = models.ImageList{}
	}
	item.CreatedAt = time.Now().UTC()

	r.db.items[item.ID] = item
	r.db.order = append(r.db.order, item.ID)
	return copyItem(item), nil
}

// GetByID returns the item with its bids, newest first.
func (r *MemoryItemRepository) GetByID(ctx context.Context, id string) (models.Item, error) {
	if err := parseMemoryID(id); err != nil {
		return models.Item{}, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.items[id]
	if !ok {
		return models.Item{}, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}
	return copyItem(item), nil
}

// Search returns the items matching q in insertion order.
func (r *MemoryItemRepository) Search(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]models.Item, 0)
	for _, id := range r.db.order {
		item := r.db.items[id]
		if q.Matches(item) {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}

// DistinctCities returns every city used by an item, sorted.
func (r *MemoryItemRepository) DistinctCities(ctx context.Context) ([]string, error) {
	return r.distinct(func(i models.Item) string { return i.City }), nil
}

// DistinctCategories returns every category used by an item, sorted.
func (r *MemoryItemRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(func(i models.Item) string { return i.Category }), nil
}

func (r *MemoryItemRepository) distinct(field func(models.Item) string) []string {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, item := range r.db.items {
		v := field(item)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// PlaceBid prepends the bid to the item and records the item on the bidder,
// provided the amount still exceeds the item's floor.
func (r *MemoryItemRepository) PlaceBid(ctx context.Context, itemID string, bid models.Bid) (models.Bid, error) {
	if err := parseMemoryID(itemID); err != nil {
		return models.Bid{}, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	item, ok := r.db.items[itemID]
	if !ok {
		return models.Bid{}, fmt.Errorf("place bid on item %s: %w", itemID, ErrNotFound)
	}
	user, ok := r.db.users[bid.UserID]
	if !ok {
		return models.Bid{}, fmt.Errorf("place bid by user %s: %w", bid.UserID, ErrBidderNotFound)
	}
	if !(bid.Amount > item.Floor()) {
		return models.Bid{}, fmt.Errorf("place bid on item %s: %w", itemID, ErrBidRejected)
	}

	bid.ID = uuid.NewString()
	if bid.TimeStamp.IsZero() {
		bid.TimeStamp = time.Now().UTC()
	}
	item.Bids = append([]models.Bid{bid}, item.Bids...)
	r.db.items[itemID] = item

	if !user.HasItem(itemID) {
		user.Items = append(user.Items, itemID)
		r.db.users[user.ID] = user
	}
	return bid, nil
}
