package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/models"
)

const (
	usersCollection = "users"
	itemsCollection = "items"
)

type userDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Surname   string               `bson:"surname"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password"`
	Role      string               `bson:"role"`
	Items     []primitive.ObjectID `bson:"items"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func (d userDocument) toModel() models.User {
	items := make([]string, 0, len(d.Items))
	for _, id := range d.Items {
		items = append(items, id.Hex())
	}
	return models.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Surname:   d.Surname,
		Email:     d.Email,
		Password:  d.Password,
		Role:      d.Role,
		Items:     items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parse id %q: %w", id, ErrInvalidID)
	}
	return oid, nil
}

// MongoUserRepository stores users in the "users" collection.
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a user repository on db.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique e-mail index.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	name, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	logger.Log.Infow(
		"command", "createIndex",
		"collection", usersCollection,
		"result", name,
		"error", err,
	)

	return err
}

// Create inserts a new user and assigns its id.
func (r *MongoUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	doc := userDocument{
		Name:      user.Name,
		Surname:   user.Surname,
		Email:     user.Email,
		Password:  user.Password,
		Role:      user.Role,
		Items:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.col.InsertOne(ctx, doc)

	logger.Log.Infow(
		"command", "insertOne",
		"collection", usersCollection,
		"args", bson.M{"email": user.Email},
		"error", err,
	)

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
		}
		return models.User{}, fmt.Errorf("mongo insert: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toModel(), nil
}

// GetByID returns the user with the given id.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return models.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail returns the user registered with the given e-mail.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)

	logger.Log.Infow(
		"command", "findOne",
		"collection", usersCollection,
		"filter", filter,
		"error", err,
	)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("find user: %w", ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("mongo find: %w", err)
	}
	return doc.toModel(), nil
}

// GetByIDs returns the existing users among ids, keyed by id. Malformed ids are skipped.
func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	users := make(map[string]models.User, len(oids))
	if len(oids) == 0 {
		return users, nil
	}

	filter := bson.M{"_id": bson.M{"$in": oids}}
	cur, err := r.col.Find(ctx, filter)

	logger.Log.Infow(
		"command", "find",
		"collection", usersCollection,
		"filter", filter,
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	for _, doc := range docs {
		users[doc.ID.Hex()] = doc.toModel()
	}
	return users, nil
}

// Update overwrites name, surname, e-mail and password; the items list is left alone.
func (r *MongoUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	oid, err := parseObjectID(user.ID)
	if err != nil {
		return models.User{}, err
	}

	filter := bson.M{"_id": oid}
	update := bson.M{"$set": bson.M{
		"name":       user.Name,
		"surname":    user.Surname,
		"email":      user.Email,
		"password":   user.Password,
		"updated_at": time.Now().UTC(),
	}}

	var doc userDocument
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)

	logger.Log.Infow(
		"command", "findOneAndUpdate",
		"collection", usersCollection,
		"filter", filter,
		"error", err,
	)

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, fmt.Errorf("update user %s: %w", user.ID, ErrNotFound)
	case mongo.IsDuplicateKeyError(err):
		return models.User{}, fmt.Errorf("update user %s: %w", user.ID, ErrDuplicate)
	case err != nil:
		return models.User{}, fmt.Errorf("mongo update: %w", err)
	}
	return doc.toModel(), nil
}

// Delete removes the user. Bids the user placed stay on their items.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid}
	res, err := r.col.DeleteOne(ctx, filter)

	logger.Log.Infow(
		"command", "deleteOne",
		"collection", usersCollection,
		"filter", filter,
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	return nil
}
