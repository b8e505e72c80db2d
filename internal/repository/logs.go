package repository

import (
	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RefundRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewRefundRepository(db *mongo.Database) *RefundRepository {
	return &RefundRepository{db: db, collection: db.Collection("refund_requests")}
}

func (r *RefundRepository) Create(req *models.RefundRequest) (*models.RefundRequest, error) {
	id, err := ensureID(r.db, "refund_requests", req.ID)
	if err != nil {
		return nil, err
	}
	req.ID = id
	if req.Status == "" {
		req.Status = models.RefundPending
	}

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RefundRepository) FindAll() ([]*models.RefundRequest, error) {
	return findAll[models.RefundRequest](r.collection, bson.M{})
}

func (r *RefundRepository) SetStatus(id int64, status models.RefundRequestStatus) error {
	return updateByID(r.collection, id, bson.M{"$set": bson.M{"status": status}})
}

type VehicleLogRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewVehicleLogRepository(db *mongo.Database) *VehicleLogRepository {
	return &VehicleLogRepository{db: db, collection: db.Collection("vehicle_logs")}
}

func (r *VehicleLogRepository) Create(entry *models.VehicleLog) (*models.VehicleLog, error) {
	id, err := ensureID(r.db, "vehicle_logs", entry.ID)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *VehicleLogRepository) FindAll() ([]*models.VehicleLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	return findAll[models.VehicleLog](r.collection, bson.M{}, opts)
}
