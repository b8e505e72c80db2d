package repository

import (
	"time"

	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BatteryRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewBatteryRepository(db *mongo.Database) *BatteryRepository {
	return &BatteryRepository{
		db:         db,
		collection: db.Collection("batteries"),
	}
}

func (r *BatteryRepository) Create(battery *models.Battery) (*models.Battery, error) {
	id, err := ensureID(r.db, "batteries", battery.ID)
	if err != nil {
		return nil, err
	}
	battery.ID = id
	battery.CreatedAt = time.Now()
	battery.UpdatedAt = battery.CreatedAt
	if battery.Status == "" {
		battery.Status = models.BatteryAvailable
	}

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, battery); err != nil {
		return nil, err
	}
	return battery, nil
}

func (r *BatteryRepository) FindByID(id int64) (*models.Battery, error) {
	return findOne[models.Battery](r.collection, bson.M{"_id": id})
}

func (r *BatteryRepository) FindAll() ([]*models.Battery, error) {
	return findAll[models.Battery](r.collection, bson.M{})
}

func (r *BatteryRepository) FindByCity(cityID int64) ([]*models.Battery, error) {
	return findAll[models.Battery](r.collection, bson.M{"city_id": cityID})
}

func (r *BatteryRepository) Update(id int64, battery *models.Battery) (*models.Battery, error) {
	ctx, cancel := opContext()
	defer cancel()

	battery.ID = id
	battery.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": battery},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Battery
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *BatteryRepository) UpdateStatus(id int64, status models.BatteryStatus) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	})
}

// ApplyAssignment writes a rental-driven status change together with the
// vehicle the battery is mounted on. A nil vehicleID releases the battery.
func (r *BatteryRepository) ApplyAssignment(id int64, status models.BatteryStatus, vehicleID *int64) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":              status,
			"assigned_vehicle_id": vehicleID,
			"updated_at":          time.Now(),
		},
	})
}

func (r *BatteryRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}
