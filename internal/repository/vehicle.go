package repository

import (
	"time"

	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VehicleRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{
		db:         db,
		collection: db.Collection("vehicles"),
	}
}

func (r *VehicleRepository) Create(vehicle *models.Vehicle) (*models.Vehicle, error) {
	id, err := ensureID(r.db, "vehicles", vehicle.ID)
	if err != nil {
		return nil, err
	}
	vehicle.ID = id
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleAvailable
	}
	if vehicle.HealthStatus == "" {
		vehicle.HealthStatus = models.HealthGood
	}

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *VehicleRepository) FindByID(id int64) (*models.Vehicle, error) {
	return findOne[models.Vehicle](r.collection, bson.M{"_id": id})
}

// FindAll returns every vehicle, newest first.
func (r *VehicleRepository) FindAll() ([]*models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	return findAll[models.Vehicle](r.collection, bson.M{}, opts)
}

func (r *VehicleRepository) FindByCity(cityID int64) ([]*models.Vehicle, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	return findAll[models.Vehicle](r.collection, bson.M{"city_id": cityID}, opts)
}

func (r *VehicleRepository) Update(id int64, vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx, cancel := opContext()
	defer cancel()

	vehicle.ID = id
	vehicle.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": vehicle},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Vehicle
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *VehicleRepository) UpdateStatus(id int64, status models.VehicleStatus) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	})
}

// ApplyRental writes a rental-driven status change together with the battery
// reference in one point write. A nil batteryID clears the mount.
func (r *VehicleRepository) ApplyRental(id int64, status models.VehicleStatus, batteryID *int64) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":     status,
			"battery_id": batteryID,
			"updated_at": time.Now(),
		},
	})
}

// SetStatusHealth is used when a workshop job completes and the vehicle
// returns to the rentable pool.
func (r *VehicleRepository) SetStatusHealth(id int64, status models.VehicleStatus, health models.HealthStatus) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":        status,
			"health_status": health,
			"updated_at":    time.Now(),
		},
	})
}

func (r *VehicleRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}
