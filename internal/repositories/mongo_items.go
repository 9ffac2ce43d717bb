package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/models"
)

type bidDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Amount    float64            `bson:"amount"`
	TimeStamp time.Time          `bson:"timestamp"`
}

type itemDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	StartPrice    float64            `bson:"start_price"`
	StartDate     time.Time          `bson:"start_date"`
	FinishDate    time.Time          `bson:"finish_date"`
	ReservedPrice float64            `bson:"reserved_price"`
	City          string             `bson:"city"`
	Category      string             `bson:"category"`
	Images        []string           `bson:"images"`
	Bids          []bidDocument      `bson:"bids"`
	CreatedAt     time.Time          `bson:"created_at"`
}

func (d itemDocument) toModel() models.Item {
	bids := make([]models.Bid, 0, len(d.Bids))
	for _, b := range d.Bids {
		bids = append(bids, models.Bid{
			ID:        b.ID.Hex(),
			UserID:    b.UserID.Hex(),
			Amount:    b.Amount,
			TimeStamp: b.TimeStamp,
		})
	}
	images := models.ImageList(d.Images)
	if images == nil {
		images = models.ImageList{}
	}
	return models.Item{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		StartPrice:    d.StartPrice,
		StartDate:     d.StartDate,
		FinishDate:    d.FinishDate,
		ReservedPrice: d.ReservedPrice,
		City:          d.City,
		Category:      d.Category,
		Images:        images,
		Bids:          bids,
		CreatedAt:     d.CreatedAt,
	}
}

// itemFilter translates an ItemQuery into a Mongo filter.
func itemFilter(q models.ItemQuery) bson.M {
	filter := bson.M{}
	if q.City != "" {
		filter["city"] = q.City
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	finish := bson.M{}
	if q.StartDate != nil {
		finish["$gte"] = *q.StartDate
	}
	if q.EndDate != nil {
		finish["$lte"] = *q.EndDate
	}
	if len(finish) > 0 {
		filter["finish_date"] = finish
	}

	price := bson.M{}
	if q.StartPrice != nil {
		price["$gte"] = *q.StartPrice
	}
	if q.EndPrice != nil {
		price["$lte"] = *q.EndPrice
	}
	if len(price) > 0 {
		filter["start_price"] = price
	}
	return filter
}

// illegalOperationCode is returned by standalone servers for transactional commands.
const illegalOperationCode = 20

// MongoItemRepository stores items, with their bids embedded newest first, in the "items" collection.
type MongoItemRepository struct {
	col            *mongo.Collection
	users          *mongo.Collection
	noTransactions atomic.Bool // set once the server rejected a transaction
}

// NewMongoItemRepository creates an item repository on db.
func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{
		col:   db.Collection(itemsCollection),
		users: db.Collection(usersCollection),
	}
}

// Create inserts a new item without bids.
func (r *MongoItemRepository) Create(ctx context.Context, item models.Item) (models.Item, error) {
	images := []string(item.Images)
	if images == nil {
		images = []string{}
	}
	doc := itemDocument{
		Title:         item.Title,
		Description:   item.Description,
		StartPrice:    item.StartPrice,
		StartDate:     item.StartDate,
		FinishDate:    item.FinishDate,
		ReservedPrice: item.ReservedPrice,
		City:          item.City,
		Category:      item.Category,
		Images:        images,
		Bids:          []bidDocument{},
		CreatedAt:     time.Now().UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)

	logger.Log.Infow(
		"command", "insertOne",
		"collection", itemsCollection,
		"args", bson.M{"title": item.Title},
		"error", err,
	)

	if err != nil {
		return models.Item{}, fmt.Errorf("mongo insert: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

// GetByID returns the item with its bids, newest first.
func (r *MongoItemRepository) GetByID(ctx context.Context, id string) (models.Item, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return models.Item{}, err
	}

	filter := bson.M{"_id": oid}
	var doc itemDocument
	err = r.col.FindOne(ctx, filter).Decode(&doc)

	logger.Log.Infow(
		"command", "findOne",
		"collection", itemsCollection,
		"filter", filter,
		"error", err,
	)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Item{}, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("mongo find: %w", err)
	}
	return doc.toModel(), nil
}

// Search returns the items matching q in insertion order.
func (r *MongoItemRepository) Search(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	filter := itemFilter(q)
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)

	logger.Log.Infow(
		"command", "find",
		"collection", itemsCollection,
		"filter", filter,
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}

	items := make([]models.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

// DistinctCities returns every city used by an item, sorted.
func (r *MongoItemRepository) DistinctCities(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "city")
}

// DistinctCategories returns every category used by an item, sorted.
func (r *MongoItemRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

func (r *MongoItemRepository) distinct(ctx context.Context, field string) ([]string, error) {
	raw, err := r.col.Distinct(ctx, field, bson.M{})

	logger.Log.Infow(
		"command", "distinct",
		"collection", itemsCollection,
		"field", field,
		"result", len(raw),
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("mongo distinct: %w", err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

// PlaceBid prepends the bid with a conditional update that only matches while
// the amount exceeds the item's floor, and adds the item to the bidder's set
// of items. Both writes run in one transaction. On a server without
// transactions the bid is pulled back out when the bidder is gone.
func (r *MongoItemRepository) PlaceBid(ctx context.Context, itemID string, bid models.Bid) (models.Bid, error) {
	itemOID, err := parseObjectID(itemID)
	if err != nil {
		return models.Bid{}, err
	}
	userOID, err := primitive.ObjectIDFromHex(bid.UserID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("place bid by user %s: %w", bid.UserID, ErrBidderNotFound)
	}

	if bid.TimeStamp.IsZero() {
		bid.TimeStamp = time.Now().UTC()
	}
	doc := bidDocument{
		ID:        primitive.NewObjectID(),
		UserID:    userOID,
		Amount:    bid.Amount,
		TimeStamp: bid.TimeStamp,
	}

	if r.noTransactions.Load() {
		err = r.placeBidCompensated(ctx, itemID, itemOID, doc)
	} else {
		err = r.placeBidInTransaction(ctx, itemID, itemOID, doc)
		if isTransactionUnsupported(err) {
			logger.Log.Warnw("mongo transactions unsupported, falling back to compensating writes", "error", err)
			r.noTransactions.Store(true)
			err = r.placeBidCompensated(ctx, itemID, itemOID, doc)
		}
	}
	if err != nil {
		return models.Bid{}, err
	}

	bid.ID = doc.ID.Hex()
	return bid, nil
}

func (r *MongoItemRepository) placeBidInTransaction(ctx context.Context, itemID string, itemOID primitive.ObjectID, doc bidDocument) error {
	session, err := r.col.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if err := r.pushBid(sc, itemID, itemOID, doc); err != nil {
			return nil, err
		}
		return nil, r.addUserItem(sc, itemOID, doc.UserID)
	})
	return err
}

func (r *MongoItemRepository) placeBidCompensated(ctx context.Context, itemID string, itemOID primitive.ObjectID, doc bidDocument) error {
	if err := r.pushBid(ctx, itemID, itemOID, doc); err != nil {
		return err
	}
	if err := r.addUserItem(ctx, itemOID, doc.UserID); err != nil {
		if pullErr := r.pullBid(ctx, itemOID, doc.ID); pullErr != nil {
			return errors.Join(err, pullErr)
		}
		return err
	}
	return nil
}

func (r *MongoItemRepository) pushBid(ctx context.Context, itemID string, itemOID primitive.ObjectID, doc bidDocument) error {
	filter := bson.M{
		"_id": itemOID,
		"$or": bson.A{
			bson.M{"bids.0": bson.M{"$exists": false}, "start_price": bson.M{"$lt": doc.Amount}},
			bson.M{"bids.0.amount": bson.M{"$lt": doc.Amount}},
		},
	}
	update := bson.M{"$push": bson.M{"bids": bson.M{"$each": bson.A{doc}, "$position": 0}}}

	res, err := r.col.UpdateOne(ctx, filter, update)

	logger.Log.Infow(
		"command", "updateOne",
		"collection", itemsCollection,
		"filter", filter,
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": itemOID})
	if err != nil {
		return fmt.Errorf("mongo count: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("place bid on item %s: %w", itemID, ErrNotFound)
	}
	return fmt.Errorf("place bid on item %s: %w", itemID, ErrBidRejected)
}

func (r *MongoItemRepository) addUserItem(ctx context.Context, itemOID, userOID primitive.ObjectID) error {
	filter := bson.M{"_id": userOID}
	res, err := r.users.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{"items": itemOID}})

	logger.Log.Infow(
		"command", "updateOne",
		"collection", usersCollection,
		"filter", filter,
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("place bid by user %s: %w", userOID.Hex(), ErrBidderNotFound)
	}
	return nil
}

func (r *MongoItemRepository) pullBid(ctx context.Context, itemOID, bidOID primitive.ObjectID) error {
	filter := bson.M{"_id": itemOID}
	_, err := r.col.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"bids": bson.M{"_id": bidOID}}})

	logger.Log.Infow(
		"command", "updateOne",
		"collection", itemsCollection,
		"filter", filter,
		"pull", bidOID.Hex(),
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("pull bid %s: %w", bidOID.Hex(), err)
	}
	return nil
}

// isTransactionUnsupported reports whether the server rejected a transaction
// because it is a standalone instance.
func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == illegalOperationCode
	}
	return false
}
