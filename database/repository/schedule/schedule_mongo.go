package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/database"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	windowColl      *mongo.Collection
	slotColl        *mongo.Collection
	appointmentColl *mongo.Collection
	counterColl     *mongo.Collection
}

// NewMongoScheduleRepo creates a new instance of ScheduleRepository using MongoDB.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database("slotline")
	repo := &MongoScheduleRepo{
		windowColl:      db.Collection("windows"),
		slotColl:        db.Collection("slots"),
		appointmentColl: db.Collection("appointments"),
		counterColl:     db.Collection("counters"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create schedule indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	windowIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "start", Value: 1}}},
	}
	if _, err := r.windowColl.Indexes().CreateMany(ctx, windowIndexes); err != nil {
		return fmt.Errorf("failed to create window indexes: %w", err)
	}

	slotIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "start", Value: 1}}},
		{Keys: bson.D{{Key: "available", Value: 1}}},
	}
	if _, err := r.slotColl.Indexes().CreateMany(ctx, slotIndexes); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}

	appointmentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "start", Value: 1}}},
	}
	if _, err := r.appointmentColl.Indexes().CreateMany(ctx, appointmentIndexes); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}

// dayRange returns the half-open [midnight, next midnight) interval of date.
func dayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}
