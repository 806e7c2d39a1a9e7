package scheduleRepo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/models"
)

// CreateWindow records a provider availability window.
func (r *MongoScheduleRepo) CreateWindow(window *models.AvailabilityWindow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.windowColl.InsertOne(ctx, window); err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	return nil
}

// ListWindows retrieves the windows of a provider that start on the given day.
func (r *MongoScheduleRepo) ListWindows(providerID string, date time.Time) ([]models.AvailabilityWindow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	from, to := dayRange(date)
	filter := bson.M{
		"provider_id": providerID,
		"start":       bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.windowColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.AvailabilityWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode windows: %w", err)
	}
	return windows, nil
}

// InsertSlots persists derived slots as claimable units.
func (r *MongoScheduleRepo) InsertSlots(slots []models.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	docs := make([]interface{}, len(slots))
	for i := range slots {
		docs[i] = slots[i]
	}
	if _, err := r.slotColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert slots: %w", err)
	}
	return nil
}

// GetSlotByID retrieves a slot by its unique ID.
func (r *MongoScheduleRepo) GetSlotByID(id string) (*models.Slot, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var slot models.Slot
	if err := r.slotColl.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("slot with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch slot %s: %w", id, err)
	}
	return &slot, nil
}

// ListAvailableSlots retrieves unclaimed slots of a provider on the given day.
func (r *MongoScheduleRepo) ListAvailableSlots(providerID string, date time.Time) ([]models.Slot, error) {
	from, to := dayRange(date)
	return r.ListAvailableSlotsInRange(providerID, from, to)
}

// ListAvailableSlotsInRange retrieves unclaimed slots with start in [from, to),
// ordered by start time.
func (r *MongoScheduleRepo) ListAvailableSlotsInRange(providerID string, from, to time.Time) ([]models.Slot, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"available":   true,
		"start":       bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.slotColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list available slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

// ClaimSlot atomically transitions a slot from available to claimed. The
// filter matches only available slots, so under concurrent claims MongoDB
// lets exactly one update through; the rest see ErrSlotClaimed.
func (r *MongoScheduleRepo) ClaimSlot(id string) (*models.Slot, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "available": true}
	update := bson.M{"$set": bson.M{"available": false}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.Slot
	if err := r.slotColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSlotClaimed
		}
		return nil, fmt.Errorf("failed to claim slot %s: %w", id, err)
	}
	return &slot, nil
}

// ReleaseSlot flips a claimed slot back to available.
func (r *MongoScheduleRepo) ReleaseSlot(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "available": false}
	update := bson.M{"$set": bson.M{"available": true}}
	if _, err := r.slotColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release slot %s: %w", id, err)
	}
	return nil
}
