package repository

import (
	"time"

	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MaintenanceRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMaintenanceRepository(db *mongo.Database) *MaintenanceRepository {
	return &MaintenanceRepository{
		db:         db,
		collection: db.Collection("maintenance_jobs"),
	}
}

func (r *MaintenanceRepository) Create(job *models.MaintenanceJob) (*models.MaintenanceJob, error) {
	id, err := ensureID(r.db, "maintenance_jobs", job.ID)
	if err != nil {
		return nil, err
	}
	job.ID = id
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	if job.Status == "" {
		job.Status = models.JobOpen
	}
	if job.Priority == "" {
		job.Priority = models.PriorityMedium
	}

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *MaintenanceRepository) FindByID(id int64) (*models.MaintenanceJob, error) {
	return findOne[models.MaintenanceJob](r.collection, bson.M{"_id": id})
}

func (r *MaintenanceRepository) FindAll() ([]*models.MaintenanceJob, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	return findAll[models.MaintenanceJob](r.collection, bson.M{}, opts)
}

func (r *MaintenanceRepository) FindByVehicle(vehicleID int64) ([]*models.MaintenanceJob, error) {
	return findAll[models.MaintenanceJob](r.collection, bson.M{"vehicle_id": vehicleID})
}

// SetStatus moves a job through the workshop flow. completedAt is written
// as-is: nil for every status except Completed.
func (r *MaintenanceRepository) SetStatus(id int64, status models.MaintenanceJobStatus, completedAt *time.Time) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{
			"status":       status,
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		},
	})
}

func (r *MaintenanceRepository) Update(id int64, job *models.MaintenanceJob) error {
	job.ID = id
	job.UpdatedAt = time.Now()
	return updateByID(r.collection, id, bson.M{"$set": job})
}

func (r *MaintenanceRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}
