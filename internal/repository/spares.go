package repository

import (
	"time"

	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SparePartRepository struct {
	db        *mongo.Database
	parts     *mongo.Collection
	inventory *mongo.Collection
}

func NewSparePartRepository(db *mongo.Database) *SparePartRepository {
	return &SparePartRepository{
		db:        db,
		parts:     db.Collection("spare_parts_master"),
		inventory: db.Collection("spare_inventory"),
	}
}

func (r *SparePartRepository) CreatePart(part *models.SparePartMaster) (*models.SparePartMaster, error) {
	id, err := ensureID(r.db, "spare_parts_master", part.ID)
	if err != nil {
		return nil, err
	}
	part.ID = id

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.parts.InsertOne(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

func (r *SparePartRepository) FindAllParts() ([]*models.SparePartMaster, error) {
	return findAll[models.SparePartMaster](r.parts, bson.M{})
}

func (r *SparePartRepository) UpdatePart(id int64, part *models.SparePartMaster) error {
	part.ID = id
	return updateByID(r.parts, id, bson.M{"$set": part})
}

func (r *SparePartRepository) DeletePart(id int64) error {
	return deleteByID(r.parts, id)
}

func (r *SparePartRepository) CreateStock(stock *models.SpareInventory) (*models.SpareInventory, error) {
	id, err := ensureID(r.db, "spare_inventory", stock.ID)
	if err != nil {
		return nil, err
	}
	stock.ID = id

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.inventory.InsertOne(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *SparePartRepository) FindAllStock() ([]*models.SpareInventory, error) {
	return findAll[models.SpareInventory](r.inventory, bson.M{})
}

// AdjustStock adds delta onto the stored quantity. Restocks (positive delta)
// also stamp the restock time.
func (r *SparePartRepository) AdjustStock(id int64, delta int) error {
	update := bson.M{"$inc": bson.M{"quantity": delta}}
	if delta > 0 {
		update["$set"] = bson.M{"last_restocked_at": time.Now()}
	}
	return updateByID(r.inventory, id, update)
}

func (r *SparePartRepository) DeleteStock(id int64) error {
	return deleteByID(r.inventory, id)
}
