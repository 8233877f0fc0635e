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

const collectionNotifications = "notifications"

// NotificationAdapter implements out.NotificationRepository using MongoDB.
type NotificationAdapter struct {
	collection *mongo.Collection
}

func NewNotificationAdapter(db *mongo.Database) *NotificationAdapter {
	return &NotificationAdapter{collection: db.Collection(collectionNotifications)}
}

var _ out.NotificationRepository = (*NotificationAdapter)(nil)

func (a *NotificationAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "notification_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "seen", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "source_message_id", Value: 1}},
		},
	}
	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (a *NotificationAdapter) Create(ctx context.Context, n *domain.Notification) error {
	if _, err := a.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (a *NotificationAdapter) ExistsForMessage(ctx context.Context, userID, messageID string) (bool, error) {
	filter := bson.M{"user_id": userID, "source_message_id": messageID}
	count, err := a.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}
	return count > 0, nil
}

func (a *NotificationAdapter) ListUnseen(ctx context.Context, userID string) ([]*domain.Notification, error) {
	filter := bson.M{"user_id": userID, "seen": false}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []*domain.Notification{}
	for cursor.Next(ctx) {
		var n domain.Notification
		if err := cursor.Decode(&n); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, cursor.Err()
}

func (a *NotificationAdapter) MarkAllSeen(ctx context.Context, userID string) error {
	filter := bson.M{"user_id": userID, "seen": false}
	update := bson.M{"$set": bson.M{"seen": true}}

	if _, err := a.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark notifications seen: %w", err)
	}
	return nil
}
