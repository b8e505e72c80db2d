package repository

import (
	"time"

	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomerRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		db:         db,
		collection: db.Collection("customers"),
	}
}

func (r *CustomerRepository) Create(customer *models.Customer) (*models.Customer, error) {
	id, err := ensureID(r.db, "customers", customer.ID)
	if err != nil {
		return nil, err
	}
	customer.ID = id
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *CustomerRepository) FindByID(id int64) (*models.Customer, error) {
	return findOne[models.Customer](r.collection, bson.M{"_id": id})
}

// FindByName does an exact-match lookup. Name is not a key; when duplicates
// exist the first match wins, which mirrors how the import reconciler
// resolves customers.
func (r *CustomerRepository) FindByName(name string) (*models.Customer, error) {
	return findOne[models.Customer](r.collection, bson.M{"name": name})
}

func (r *CustomerRepository) FindAll() ([]*models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[models.Customer](r.collection, bson.M{}, opts)
}

func (r *CustomerRepository) Update(id int64, customer *models.Customer) error {
	customer.ID = id
	customer.UpdatedAt = time.Now()
	return updateByID(r.collection, id, bson.M{"$set": customer})
}

func (r *CustomerRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}
