package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextID allocates the next integer id for the named table from the shared
// counters collection. The upsert makes first use of a table start at 1.
func nextID(db *mongo.Database, table string) (int64, error) {
	ctx, cancel := opContext()
	defer cancel()

	result := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": table},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := result.Decode(&counter); err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// ensureID fills in a generated id unless the caller supplied an explicit
// one. Explicit ids are honored so historical imports can seed rows under
// their original identifiers.
func ensureID(db *mongo.Database, table string, id int64) (int64, error) {
	if id > 0 {
		return id, nil
	}
	return nextID(db, table)
}
