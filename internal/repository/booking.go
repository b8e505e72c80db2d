package repository

import (
	"time"

	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		db:         db,
		collection: db.Collection("bookings"),
	}
}

func (r *BookingRepository) Create(booking *models.Booking) (*models.Booking, error) {
	id, err := ensureID(r.db, "bookings", booking.ID)
	if err != nil {
		return nil, err
	}
	booking.ID = id
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// FindByID is the authoritative single-row read used before financial
// adjustments: the stored accumulators are read fresh, never from the
// in-memory snapshot.
func (r *BookingRepository) FindByID(id int64) (*models.Booking, error) {
	return findOne[models.Booking](r.collection, bson.M{"_id": id})
}

func (r *BookingRepository) FindAll() ([]*models.Booking, error) {
	return findAll[models.Booking](r.collection, bson.M{})
}

func (r *BookingRepository) Update(id int64, booking *models.Booking) error {
	booking.ID = id
	booking.UpdatedAt = time.Now()
	return updateByID(r.collection, id, bson.M{"$set": booking})
}

// SetStatus flips the lifecycle status and adds the checklist-derived deltas
// onto the stored accumulators. Deltas ride on $inc so concurrent
// adjustments never overwrite each other's totals.
func (r *BookingRepository) SetStatus(id int64, status models.BookingStatus, fineDelta, collectedDelta float64) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}
	if fineDelta != 0 || collectedDelta != 0 {
		update["$inc"] = bson.M{
			"fine_amount":      fineDelta,
			"amount_collected": collectedDelta,
		}
	}
	return updateByID(r.collection, id, update)
}

func (r *BookingRepository) Pause(id int64, reason string, at time.Time) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":       models.BookingPaused,
			"pause_reason": reason,
			"paused_at":    at,
			"updated_at":   time.Now(),
		},
	})
}

func (r *BookingRepository) Resume(id int64, vehicleID int64, batteryID *int64) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":     models.BookingActive,
			"vehicle_id": vehicleID,
			"battery_id": batteryID,
			"updated_at": time.Now(),
		},
	})
}

func (r *BookingRepository) SetBattery(id int64, batteryID int64) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"battery_id": batteryID,
			"updated_at": time.Now(),
		},
	})
}

// SwapVehicle repoints the booking at a new vehicle, records the operator's
// reason for audit display, and adds the agreed fine adjustment.
func (r *BookingRepository) SwapVehicle(id int64, vehicleID int64, reason string, fineDelta float64) error {
	update := bson.M{
		"$set": bson.M{
			"vehicle_id":  vehicleID,
			"swap_reason": reason,
			"updated_at":  time.Now(),
		},
	}
	if fineDelta != 0 {
		update["$inc"] = bson.M{"fine_amount": fineDelta}
	}
	return updateByID(r.collection, id, update)
}

// Extend adds rent and collection onto the accumulators and moves the end
// date forward.
func (r *BookingRepository) Extend(id int64, extraRent, collection float64, newEndDate string) error {
	return updateByID(r.collection, id, bson.M{
		"$inc": bson.M{
			"total_rent":       extraRent,
			"amount_collected": collection,
		},
		"$set": bson.M{
			"end_date":   newEndDate,
			"updated_at": time.Now(),
		},
	})
}

// Settle adds a collected amount, with an optional end-date move and extra
// rent when the settlement also extends the booking.
func (r *BookingRepository) Settle(id int64, amount float64, newEndDate string, extraRent float64) error {
	inc := bson.M{"amount_collected": amount}
	if extraRent != 0 {
		inc["total_rent"] = extraRent
	}
	set := bson.M{"updated_at": time.Now()}
	if newEndDate != "" {
		set["end_date"] = newEndDate
	}
	return updateByID(r.collection, id, bson.M{"$inc": inc, "$set": set})
}

func (r *BookingRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}
