package mongo

import (
	"context"
	"fmt"

	"github.com/eventbook/server/internal/domain/events"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const eventsCollection = "events"

// EventRepository implements events.Repository on the events collection.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(eventsCollection)}
}

func (r *EventRepository) Insert(ctx context.Context, event events.Event) (primitive.ObjectID, error) {
	result, err := r.col.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

func (r *EventRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]events.Event, error) {
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	found := []events.Event{}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]events.Event, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	found := []events.Event{}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	return found, nil
}
