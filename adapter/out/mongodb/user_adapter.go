package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
)

const collectionUsers = "users"

// UserAdapter implements out.UserRepository using MongoDB.
type UserAdapter struct {
	collection *mongo.Collection
}

func NewUserAdapter(db *mongo.Database) *UserAdapter {
	return &UserAdapter{collection: db.Collection(collectionUsers)}
}

var _ out.UserRepository = (*UserAdapter)(nil)

func (a *UserAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
	}
	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (a *UserAdapter) Upsert(ctx context.Context, user *domain.User) error {
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"google_id": user.GoogleID}

	if _, err := a.collection.ReplaceOne(ctx, filter, user, opts); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (a *UserAdapter) Get(ctx context.Context, googleID string) (*domain.User, error) {
	var user domain.User
	err := a.collection.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
