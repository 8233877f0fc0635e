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

const collectionPreferences = "preferences"

// PreferenceAdapter implements out.PreferenceRepository using MongoDB.
type PreferenceAdapter struct {
	collection *mongo.Collection
}

func NewPreferenceAdapter(db *mongo.Database) *PreferenceAdapter {
	return &PreferenceAdapter{collection: db.Collection(collectionPreferences)}
}

var _ out.PreferenceRepository = (*PreferenceAdapter)(nil)

func (a *PreferenceAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (a *PreferenceAdapter) Save(ctx context.Context, prefs *domain.Preferences) error {
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"user_id": prefs.UserID}

	if _, err := a.collection.ReplaceOne(ctx, filter, prefs, opts); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (a *PreferenceAdapter) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	var prefs domain.Preferences
	err := a.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

func (a *PreferenceAdapter) UpdateManualAbsences(ctx context.Context, userID string, absences []string) error {
	update := bson.M{"$set": bson.M{"manual_absences": absences}}
	opts := options.Update().SetUpsert(true)

	if _, err := a.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts); err != nil {
		return fmt.Errorf("failed to update manual absences: %w", err)
	}
	return nil
}
