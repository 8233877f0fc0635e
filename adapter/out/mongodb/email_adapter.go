package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mailmind_server/core/domain"
	"mailmind_server/core/port/out"
)

const collectionEmails = "emails"

// EmailAdapter implements out.EmailRepository using MongoDB.
type EmailAdapter struct {
	collection *mongo.Collection
}

func NewEmailAdapter(db *mongo.Database) *EmailAdapter {
	return &EmailAdapter{collection: db.Collection(collectionEmails)}
}

var _ out.EmailRepository = (*EmailAdapter)(nil)

func (a *EmailAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "message_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "received_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "classification.quadrant", Value: 1}},
		},
	}
	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// SaveIfAbsent inserts the email unless the (user, message) pair already
// exists. The unique index makes concurrent inserts safe.
func (a *EmailAdapter) SaveIfAbsent(ctx context.Context, email *domain.Email) (bool, error) {
	_, err := a.collection.InsertOne(ctx, email)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save email: %w", err)
	}
	return true, nil
}

func (a *EmailAdapter) UpdateClassification(ctx context.Context, userID, messageID string, c *domain.Classification) error {
	filter := bson.M{"user_id": userID, "message_id": messageID}
	update := bson.M{"$set": bson.M{
		"classified":     true,
		"classification": c,
	}}

	res, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("email %s not found for user", messageID)
	}
	return nil
}

func (a *EmailAdapter) ListClassified(ctx context.Context, userID string, filter *domain.EmailFilter) ([]*domain.Email, error) {
	query := bson.M{"user_id": userID, "classified": true}
	limit := int64(100)

	if filter != nil {
		if filter.Quadrant != nil {
			query["classification.quadrant"] = *filter.Quadrant
		}
		if filter.Category != nil {
			query["classification.category"] = *filter.Category
		}
		if filter.InformalOnly {
			query["classification.is_informal"] = true
		}
		if filter.Limit > 0 {
			limit = int64(filter.Limit)
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := a.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeEmails(ctx, cursor)
}

// Search matches the query case-insensitively against subject, summary,
// category, and sender.
func (a *EmailAdapter) Search(ctx context.Context, userID, query string, limit int) ([]*domain.Email, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := primitive.Regex{Pattern: regexQuoteMeta(query), Options: "i"}
	filter := bson.M{
		"user_id":    userID,
		"classified": true,
		"$or": []bson.M{
			{"subject": pattern},
			{"classification.summary": pattern},
			{"classification.category": pattern},
			{"sender": pattern},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeEmails(ctx, cursor)
}

func decodeEmails(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Email, error) {
	emails := []*domain.Email{}
	for cursor.Next(ctx) {
		var email domain.Email
		if err := cursor.Decode(&email); err != nil {
			return nil, fmt.Errorf("failed to decode email: %w", err)
		}
		emails = append(emails, &email)
	}
	return emails, cursor.Err()
}

// regexQuoteMeta escapes regex metacharacters so user queries stay literal.
func regexQuoteMeta(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
