package scheduleRepo

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotline/models"
)

// NextBookingReference issues the next reference in the "B042" format from an
// atomic counter. The sequence never wraps: past 999 the references simply
// grow a digit ("B1000"), keeping the unique reference index collision-free.
func (r *MongoScheduleRepo) NextBookingReference() (string, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": "booking_reference"}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := r.counterColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return "", fmt.Errorf("failed to issue booking reference: %w", err)
	}
	return fmt.Sprintf("B%03d", counter.Seq), nil
}

// CreateAppointment inserts a new appointment record.
func (r *MongoScheduleRepo) CreateAppointment(appointment *models.Appointment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	appointment.CreatedAt = time.Now()
	if _, err := r.appointmentColl.InsertOne(ctx, appointment); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetAppointmentByReference retrieves an appointment by booking reference.
func (r *MongoScheduleRepo) GetAppointmentByReference(reference string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appointment models.Appointment
	err := r.appointmentColl.FindOne(ctx, bson.M{"reference": strings.ToUpper(reference)}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", reference, err)
	}
	return &appointment, nil
}

// CancelAppointment marks the referenced appointment cancelled. The underlying
// slot stays claimed; cancelled slots are not re-offered.
func (r *MongoScheduleRepo) CancelAppointment(reference string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"reference": strings.ToUpper(reference)}
	update := bson.M{"$set": bson.M{"status": models.AppointmentCancelled}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appointment models.Appointment
	if err := r.appointmentColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appointment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to cancel appointment %s: %w", reference, err)
	}
	return &appointment, nil
}

// CountAppointments returns the total number of appointments and how many are
// still booked.
func (r *MongoScheduleRepo) CountAppointments() (int64, int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	total, err := r.appointmentColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	booked, err := r.appointmentColl.CountDocuments(ctx, bson.M{"status": models.AppointmentBooked})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count booked appointments: %w", err)
	}
	return total, booked, nil
}
