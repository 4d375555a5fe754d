package eventRepo

import (
	"context"
	"fmt"
	"time"

	"providerhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoEventRepo struct {
	coll *mongo.Collection
}

// eventDoc is the stored shape; bson keys mirror the json ones.
type eventDoc struct {
	ID         string    `bson:"id"`
	Type       string    `bson:"type"`
	BookingID  string    `bson:"bookingId"`
	UserID     string    `bson:"userId"`
	AdminID    string    `bson:"adminId,omitempty"`
	ActorID    string    `bson:"actorId"`
	Reason     string    `bson:"reason,omitempty"`
	State      string    `bson:"state"`
	OccurredAt time.Time `bson:"occurredAt"`
}

func NewMongoEventRepo(db *mongo.Database, logger *zap.Logger) EventRepository {
	repo := &mongoEventRepo{coll: db.Collection("booking_events")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create booking event indexes", zap.Error(err))
	}
	return repo
}

func (r *mongoEventRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "occurredAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoEventRepo) Append(ctx context.Context, e models.LifecycleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := eventDoc{
		ID: e.ID, Type: e.Type, BookingID: e.BookingID, UserID: e.UserID,
		AdminID: e.AdminID, ActorID: e.ActorID, Reason: e.Reason,
		State: string(e.State), OccurredAt: e.OccurredAt,
	}
	// Upsert on id so redelivered tasks do not duplicate entries.
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": e.ID},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", e.ID, err)
	}
	return nil
}

func (r *mongoEventRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.LifecycleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	out := make([]models.LifecycleEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.LifecycleEvent{
			ID: d.ID, Type: d.Type, BookingID: d.BookingID, UserID: d.UserID,
			AdminID: d.AdminID, ActorID: d.ActorID, Reason: d.Reason,
			State: models.LifecycleState(d.State), OccurredAt: d.OccurredAt,
		})
	}
	return out, nil
}
