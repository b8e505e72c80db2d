package repository

import (
	"rental-ops-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repositories for the small admin-screen tables: cities, rates, users.

type CityRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewCityRepository(db *mongo.Database) *CityRepository {
	return &CityRepository{db: db, collection: db.Collection("cities")}
}

func (r *CityRepository) Create(city *models.City) (*models.City, error) {
	id, err := ensureID(r.db, "cities", city.ID)
	if err != nil {
		return nil, err
	}
	city.ID = id

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, city); err != nil {
		return nil, err
	}
	return city, nil
}

// FindAll returns cities in id order; the first entry doubles as the default
// scope when the selected city disappears.
func (r *CityRepository) FindAll() ([]*models.City, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.City](r.collection, bson.M{}, opts)
}

func (r *CityRepository) Update(id int64, name, hubAddress string) error {
	return updateByID(r.collection, id, bson.M{
		"$set": bson.M{"name": name, "hub_address": hubAddress},
	})
}

type RateRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewRateRepository(db *mongo.Database) *RateRepository {
	return &RateRepository{db: db, collection: db.Collection("rates")}
}

func (r *RateRepository) Create(rate *models.Rate) (*models.Rate, error) {
	id, err := ensureID(r.db, "rates", rate.ID)
	if err != nil {
		return nil, err
	}
	rate.ID = id

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (r *RateRepository) FindAll() ([]*models.Rate, error) {
	return findAll[models.Rate](r.collection, bson.M{})
}

func (r *RateRepository) Update(id int64, rate *models.Rate) error {
	rate.ID = id
	return updateByID(r.collection, id, bson.M{"$set": rate})
}

func (r *RateRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}

type UserRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, collection: db.Collection("users")}
}

func (r *UserRepository) Create(user *models.User) (*models.User, error) {
	id, err := ensureID(r.db, "users", user.ID)
	if err != nil {
		return nil, err
	}
	user.ID = id

	ctx, cancel := opContext()
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindAll() ([]*models.User, error) {
	return findAll[models.User](r.collection, bson.M{})
}

func (r *UserRepository) Delete(id int64) error {
	return deleteByID(r.collection, id)
}
