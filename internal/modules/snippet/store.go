package snippet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aicody-snippets/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the persistence boundary for snippets. The service receives it
// at construction; tests substitute an in-memory implementation.
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SnippetModel, error)
	Query(ctx context.Context, f ListFilter, sort SortKey) ([]models.SnippetModel, error)
	Insert(ctx context.Context, s *models.SnippetModel) error
	Update(ctx context.Context, s *models.SnippetModel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by the snippets collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{col: db.Collection(models.SnippetModel{}.Collection())}
}

func (m *mongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SnippetModel, error) {
	var s models.SnippetModel
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find snippet: %w", err)
	}
	return &s, nil
}

func (m *mongoStore) Query(ctx context.Context, f ListFilter, sort SortKey) ([]models.SnippetModel, error) {
	cursor, err := m.col.Find(ctx, queryFilter(f), options.Find().SetSort(sortDoc(sort)))
	if err != nil {
		return nil, fmt.Errorf("query snippets: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.SnippetModel{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode snippets: %w", err)
	}
	return items, nil
}

func (m *mongoStore) Insert(ctx context.Context, s *models.SnippetModel) error {
	s.EnsureID(time.Now().UTC())
	if _, err := m.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a fetched snippet. The owner and
// creation timestamp are never part of the write, so they cannot change
// after creation no matter what the caller sent.
func (m *mongoStore) Update(ctx context.Context, s *models.SnippetModel) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := m.col.UpdateByID(ctx, s.ID, bson.M{"$set": bson.M{
		"title":       s.Title,
		"description": s.Description,
		"code":        s.Code,
		"language":    s.Language,
		"tags":        s.Tags,
		"isPublic":    s.IsPublic,
		"updatedAt":   s.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update snippet: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *mongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// queryFilter translates the domain predicate into a bson document.
func queryFilter(f ListFilter) bson.M {
	filter := bson.M{}
	if !f.Owner.IsZero() {
		filter["user"] = f.Owner
	}
	if f.Public != nil {
		filter["isPublic"] = *f.Public
	}
	if f.Language != "" {
		filter["language"] = f.Language
	}
	if f.Search != "" {
		// The text index covers title and description only; matching is
		// case-insensitive and unstemmed (default_language "none").
		filter["$text"] = bson.M{"$search": f.Search}
	}
	return filter
}

// sortDoc translates a SortKey into a sort document. The _id tiebreaker
// keeps the ordering stable across identical timestamps, so repeating a
// query without intervening writes yields the same sequence.
func sortDoc(sort SortKey) bson.D {
	key := string(sort)
	dir := 1
	if key[0] == '-' {
		key = key[1:]
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}
}
