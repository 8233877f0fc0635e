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

const collectionCalendarEvents = "calendar_events"

// CalendarAdapter implements out.CalendarEventRepository using MongoDB.
type CalendarAdapter struct {
	collection *mongo.Collection
}

func NewCalendarAdapter(db *mongo.Database) *CalendarAdapter {
	return &CalendarAdapter{collection: db.Collection(collectionCalendarEvents)}
}

var _ out.CalendarEventRepository = (*CalendarAdapter)(nil)

func (a *CalendarAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "event_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "source_message_id", Value: 1}},
		},
	}
	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// UpsertBySource replaces the event that came from the same email, keeping
// the stored attended mark. Events with no source id are plain inserts.
func (a *CalendarAdapter) UpsertBySource(ctx context.Context, event *domain.CalendarEvent) error {
	if event.SourceMessageID == "" {
		if _, err := a.collection.InsertOne(ctx, event); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		return nil
	}

	filter := bson.M{"user_id": event.UserID, "source_message_id": event.SourceMessageID}

	var existing domain.CalendarEvent
	err := a.collection.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == mongo.ErrNoDocuments:
	case err != nil:
		return fmt.Errorf("failed to look up event: %w", err)
	default:
		event.ID = existing.ID
		event.Attended = existing.Attended
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := a.collection.ReplaceOne(ctx, filter, event, opts); err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}
	return nil
}

func (a *CalendarAdapter) List(ctx context.Context, userID, yearMonth string) ([]*domain.CalendarEvent, error) {
	filter := bson.M{"user_id": userID}
	if yearMonth != "" {
		filter["event_date"] = primitive.Regex{Pattern: "^" + regexQuoteMeta(yearMonth), Options: ""}
	}

	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}, {Key: "event_time", Value: 1}})

	cursor, err := a.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*domain.CalendarEvent{}
	for cursor.Next(ctx) {
		var event domain.CalendarEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, &event)
	}
	return events, cursor.Err()
}

func (a *CalendarAdapter) SetAttended(ctx context.Context, userID, eventID string, attended bool) error {
	filter := bson.M{"user_id": userID, "event_id": eventID}
	update := bson.M{"$set": bson.M{"attended": attended}}

	res, err := a.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set attended: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("event %s not found for user", eventID)
	}
	return nil
}
