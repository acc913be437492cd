package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGateway implements Gateway on top of a MongoDB database. Documents are
// addressed by collection name and hex object id; created/updated timestamps
// are stamped in epoch milliseconds on every write. Mutations notify active
// watches through an in-process change notifier.
type MongoGateway struct {
	db       *mongo.Database
	notifier *changeNotifier
}

// NewMongoGateway creates a gateway over the given database.
func NewMongoGateway(db *mongo.Database) *MongoGateway {
	return &MongoGateway{
		db:       db,
		notifier: newChangeNotifier(),
	}
}

// ReadOne returns the document or (nil, nil) when it does not exist.
func (g *MongoGateway) ReadOne(ctx context.Context, collection, id string) (*Record, error) {
	var doc bson.M
	err := g.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, remoteErr("readOne", collection, err)
	}
	rec := decodeRecord(doc)
	return &rec, nil
}

// ReadMany applies the constraints server-side; an empty list returns the
// whole collection.
func (g *MongoGateway) ReadMany(ctx context.Context, collection string, constraints []Constraint) ([]Record, error) {
	filter, opts := buildQuery(constraints)

	cursor, err := g.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, remoteErr("readMany", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, remoteErr("readMany", collection, err)
	}

	records := make([]Record, len(docs))
	for i, doc := range docs {
		records[i] = decodeRecord(doc)
	}
	return records, nil
}

// Create stores a new document with server-assigned id and timestamps.
func (g *MongoGateway) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	now := time.Now().UnixMilli()
	doc := bson.M{
		"createdAt": now,
		"updatedAt": now,
	}
	for k, v := range fields {
		doc[k] = v
	}

	result, err := g.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", remoteErr("create", collection, err)
	}

	var id string
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		id = oid.Hex()
	}

	g.notifier.emit(collection)
	return id, nil
}

// Update applies a partial field update and resets the updated timestamp.
// Updating an absent document is a silent no-op.
func (g *MongoGateway) Update(ctx context.Context, collection, id string, fields Fields) error {
	set := bson.M{"updatedAt": time.Now().UnixMilli()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := g.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return remoteErr("update", collection, err)
	}

	if result.MatchedCount > 0 {
		g.notifier.emit(collection)
	}
	return nil
}

// Delete removes a document; repeated deletes succeed silently.
func (g *MongoGateway) Delete(ctx context.Context, collection, id string) error {
	result, err := g.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return remoteErr("delete", collection, err)
	}

	if result.DeletedCount > 0 {
		g.notifier.emit(collection)
	}
	return nil
}

// WatchCollection re-runs the query and delivers the full result set on
// subscribe and after every mutation of the collection. Query failures are
// logged and skipped; the subscription stays open.
func (g *MongoGateway) WatchCollection(ctx context.Context, collection string, constraints []Constraint, onChange ChangeFunc) func() {
	w := &watchState{}

	deliver := func() {
		w.deliverMu.Lock()
		defer w.deliverMu.Unlock()

		records, err := g.ReadMany(ctx, collection, constraints)
		if err != nil {
			logrus.WithError(err).WithField("collection", collection).
				Warn("store: collection watch query failed")
			return
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.closed {
			onChange(records)
		}
	}

	go deliver()
	unsubscribe := g.notifier.subscribe(collection, deliver)
	return w.closeFunc(unsubscribe)
}

// WatchDocument is the single-document variant; onChange receives nil once
// the document is deleted.
func (g *MongoGateway) WatchDocument(ctx context.Context, collection, id string, onChange DocChangeFunc) func() {
	w := &watchState{}

	deliver := func() {
		w.deliverMu.Lock()
		defer w.deliverMu.Unlock()

		record, err := g.ReadOne(ctx, collection, id)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"collection": collection,
				"id":         id,
			}).Warn("store: document watch query failed")
			return
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.closed {
			onChange(record)
		}
	}

	go deliver()
	unsubscribe := g.notifier.subscribe(collection, deliver)
	return w.closeFunc(unsubscribe)
}

// watchState guards a single subscription. deliverMu serializes deliveries
// so result sets arrive in query order; mu gates the closed flag so a
// cancelled watch never invokes its callback again.
type watchState struct {
	mu        sync.Mutex
	deliverMu sync.Mutex
	closed    bool
}

func (w *watchState) closeFunc(unsubscribe func()) func() {
	return func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		unsubscribe()
	}
}

// idFilter matches a document by id. Server-generated ids are hex object
// ids; anything else is matched verbatim so fixtures with plain string ids
// keep working.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

var operatorNames = map[Operator]string{
	OpEqual:        "$eq",
	OpNotEqual:     "$ne",
	OpLess:         "$lt",
	OpLessEqual:    "$lte",
	OpGreater:      "$gt",
	OpGreaterEqual: "$gte",
	OpIn:           "$in",
	OpNotIn:        "$nin",
}

// buildQuery translates the constraint list into a find filter and options.
// Filters combine under $and so repeated constraints on one field behave as
// written; orderings apply in list order.
func buildQuery(constraints []Constraint) (interface{}, *options.FindOptions) {
	var clauses []bson.M
	sort := bson.D{}
	opts := options.Find()

	for _, c := range constraints {
		switch c.kind {
		case kindWhere:
			op, ok := operatorNames[c.op]
			if !ok {
				op = "$eq"
			}
			clauses = append(clauses, bson.M{c.field: bson.M{op: c.value}})
		case kindOrder:
			dir := 1
			if c.direction == Descending {
				dir = -1
			}
			sort = append(sort, bson.E{Key: c.field, Value: dir})
		case kindLimit:
			opts.SetLimit(int64(c.limit))
		}
	}

	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	switch len(clauses) {
	case 0:
		return bson.D{}, opts
	case 1:
		return clauses[0], opts
	default:
		return bson.M{"$and": clauses}, opts
	}
}

// decodeRecord splits a raw document into identifier, timestamps and opaque
// fields. Nested documents are normalized to plain maps so callers never see
// driver types.
func decodeRecord(doc bson.M) Record {
	rec := Record{Fields: make(Fields, len(doc))}
	for k, v := range doc {
		switch k {
		case "_id":
			switch id := v.(type) {
			case primitive.ObjectID:
				rec.ID = id.Hex()
			case string:
				rec.ID = id
			}
		case "createdAt":
			rec.CreatedAt, _ = asInt64(v)
		case "updatedAt":
			rec.UpdatedAt, _ = asInt64(v)
		default:
			rec.Fields[k] = normalizeValue(v)
		}
	}
	return rec
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// normalizeValue rewrites BSON container types into plain Go maps and
// slices. Scalar driver types (DateTime, ObjectID) pass through untouched;
// timestamp normalization happens further up the pipeline.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalizeValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
