package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a point read or point write matched no row.
// Callers in the reconciliation core treat it as a dangling reference and
// skip the dependent update instead of failing the operation.
var ErrNotFound = errors.New("record not found")

const opTimeout = 10 * time.Second

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// findAll decodes every document matching filter into a slice of T.
// An empty result is an empty slice, not an error.
func findAll[T any](coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := opContext()
	defer cancel()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []*T{}
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &doc)
	}
	return out, cursor.Err()
}

// findOne decodes a single document, mapping mongo.ErrNoDocuments to ErrNotFound.
func findOne[T any](coll *mongo.Collection, filter bson.M) (*T, error) {
	ctx, cancel := opContext()
	defer cancel()

	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// updateByID applies update to the row with the given id. A write that
// matches no row returns ErrNotFound.
func updateByID(coll *mongo.Collection, id int64, update bson.M) error {
	ctx, cancel := opContext()
	defer cancel()

	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(coll *mongo.Collection, id int64) error {
	ctx, cancel := opContext()
	defer cancel()

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
