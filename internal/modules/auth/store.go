package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aicody-snippets/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore is the persistence boundary for accounts.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserModel, error)
	FindByUsername(ctx context.Context, username string) (*models.UserModel, error)
	FindByEmail(ctx context.Context, email string) (*models.UserModel, error)
	Insert(ctx context.Context, u *models.UserModel) error
}

type mongoUserStore struct {
	col *mongo.Collection
}

// NewMongoUserStore returns a UserStore backed by the users collection.
func NewMongoUserStore(db *mongo.Database) UserStore {
	return &mongoUserStore{col: db.Collection(models.UserModel{}.Collection())}
}

func (m *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.UserModel, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoUserStore) FindByUsername(ctx context.Context, username string) (*models.UserModel, error) {
	return m.findOne(ctx, bson.M{"username": username})
}

func (m *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.UserModel, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *mongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.UserModel, error) {
	var u models.UserModel
	err := m.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (m *mongoUserStore) Insert(ctx context.Context, u *models.UserModel) error {
	u.EnsureID(time.Now().UTC())
	if _, err := m.col.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
