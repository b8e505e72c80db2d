package realtime

import (
	"context"
	"time"

	"rental-ops-backend/internal/snapshot"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// watchedTables is the set of collections whose changes reach the consoles.
var watchedTables = []string{
	"cities", "vehicles", "rates", "bookings", "batteries", "customers",
	"users", "refund_requests", "vehicle_logs", "maintenance_jobs",
	"spare_parts_master", "spare_inventory",
}

// Watcher tails the database change stream and relays row-level changes to
// the realtime manager. Each relayed change also schedules a snapshot
// refresh, debounced so a burst of writes costs one refetch.
type Watcher struct {
	db       *mongo.Database
	manager  *Manager
	snapshot *snapshot.Store

	refreshDelay time.Duration
	refreshKick  chan struct{}
}

func NewWatcher(db *mongo.Database, manager *Manager, snap *snapshot.Store) *Watcher {
	return &Watcher{
		db:           db,
		manager:      manager,
		snapshot:     snap,
		refreshDelay: 500 * time.Millisecond,
		refreshKick:  make(chan struct{}, 1),
	}
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	Ns            struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
	DocumentKey struct {
		ID int64 `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument bson.M `bson:"fullDocument"`
}

// Run tails the change stream until ctx is cancelled, reopening the stream
// with a backoff after failures. Change streams need a replica set; on
// standalone deployments Run logs the failure and keeps retrying so the rest
// of the server stays up.
func (w *Watcher) Run(ctx context.Context) {
	go w.refreshLoop(ctx)

	backoff := time.Second
	for {
		if err := w.watch(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logrus.WithError(err).Warnf("change stream failed, retrying in %s", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		if ctx.Err() != nil {
			return
		}
	}
}

func (w *Watcher) watch(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace", "delete"}},
			"ns.coll":       bson.M{"$in": watchedTables},
		}}},
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := w.db.Watch(ctx, pipeline, opts)
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	logrus.Info("change stream open")

	for stream.Next(ctx) {
		var event changeEvent
		if err := stream.Decode(&event); err != nil {
			logrus.WithError(err).Warn("undecodable change event skipped")
			continue
		}
		w.relay(event)
	}
	return stream.Err()
}

func (w *Watcher) relay(event changeEvent) {
	action := event.OperationType
	if action == "replace" {
		action = ActionUpdate
	}

	change := TableChange{
		Table:     event.Ns.Coll,
		Action:    action,
		RowID:     event.DocumentKey.ID,
		Timestamp: time.Now(),
	}
	if action != ActionDelete && event.FullDocument != nil {
		change.Row = map[string]interface{}(event.FullDocument)
	}

	if err := w.manager.Broadcast(change); err != nil {
		logrus.WithError(err).Warn("change dropped")
	}

	w.kickRefresh()
}

func (w *Watcher) kickRefresh() {
	select {
	case w.refreshKick <- struct{}{}:
	default:
	}
}

// refreshLoop coalesces refresh kicks: after the first kick it waits out the
// debounce window, absorbing further kicks, then refreshes once.
func (w *Watcher) refreshLoop(ctx context.Context) {
	for {
		select {
		case <-w.refreshKick:
		case <-ctx.Done():
			return
		}

		timer := time.NewTimer(w.refreshDelay)
	drain:
		for {
			select {
			case <-w.refreshKick:
			case <-timer.C:
				break drain
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}

		if err := w.snapshot.Refresh(ctx); err != nil {
			logrus.WithError(err).Warn("snapshot refresh from change feed failed")
		}
	}
}
