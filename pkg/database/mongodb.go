package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Connect establishes a connection to MongoDB and prepares the indexes the
// console's query patterns rely on.
func Connect(mongoURI string) (*mongo.Database, error) {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %v", err)
	}

	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	logrus.Info("connected to MongoDB")

	dbName := cs.Database
	if dbName == "" {
		dbName = "rental_ops"
	}

	db := client.Database(dbName)

	if err := createIndexes(db); err != nil {
		logrus.WithError(err).Warn("failed to create indexes")
	}

	return db, nil
}

// createIndexes covers the city-scoped listings and the reference lookups the
// reconciliation writes do. Index creation failures are logged, not fatal:
// queries still work unindexed.
func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	byCollection := map[string][]mongo.IndexModel{
		"bookings": {
			{Keys: map[string]interface{}{"city_id": 1}},
			{Keys: map[string]interface{}{"status": 1}},
			{Keys: map[string]interface{}{"customer_name": 1}},
			{Keys: map[string]interface{}{"vehicle_id": 1}},
		},
		"vehicles": {
			{Keys: map[string]interface{}{"city_id": 1}},
			{Keys: map[string]interface{}{"status": 1}},
		},
		"batteries": {
			{Keys: map[string]interface{}{"city_id": 1}},
			{Keys: map[string]interface{}{"status": 1}},
			{Keys: map[string]interface{}{"assigned_vehicle_id": 1}},
		},
		"customers": {
			{Keys: map[string]interface{}{"name": 1}},
			{Keys: map[string]interface{}{"phone": 1}},
		},
		"maintenance_jobs": {
			{Keys: map[string]interface{}{"vehicle_id": 1}},
			{Keys: map[string]interface{}{"status": 1}},
			{Keys: map[string]interface{}{"city_id": 1}},
		},
		"spare_inventory": {
			{Keys: map[string]interface{}{"part_id": 1}},
			{Keys: map[string]interface{}{"city_id": 1}},
		},
		"refund_requests": {
			{Keys: map[string]interface{}{"booking_id": 1}},
			{Keys: map[string]interface{}{"status": 1}},
		},
		"vehicle_logs": {
			{Keys: map[string]interface{}{"vehicle_id": 1}},
		},
	}

	for name, indexes := range byCollection {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			logrus.WithError(err).Warnf("failed to create %s indexes", name)
		}
	}

	logrus.Info("database indexes ready")
	return nil
}

// Disconnect closes the MongoDB connection.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %v", err)
	}

	logrus.Info("disconnected from MongoDB")
	return nil
}

// Health checks the database connection health.
func Health(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.Client().Ping(ctx, nil)
}
