// internal/app/store/mongostore/mongostore.go

// Package mongostore implements datastore.Store on MongoDB for deployments
// that keep the PG tables as collections. Table names map to collection
// names and the "id" column maps to the document _id (an ObjectID, exposed
// as its hex string).
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

var _ datastore.Store = (*Store)(nil)

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}

func (s *Store) Select(ctx context.Context, q datastore.Query) ([]datastore.Row, error) {
	start := time.Now()
	filter, err := toFilter(q.Filters)
	if err != nil {
		return nil, s.fail("select", q.Table, start, err)
	}

	find := options.Find()
	if proj := projection(q.Columns); proj != nil {
		find.SetProjection(proj)
	}

	cur, err := s.db.Collection(q.Table).Find(ctx, filter, find)
	if err != nil {
		return nil, s.fail("select", q.Table, start, err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, s.fail("select", q.Table, start, err)
	}
	s.log.Debug("data store call",
		zap.String("op", "select"),
		zap.String("table", q.Table),
		zap.Any("filter", filter),
		zap.Int("rows", len(docs)),
		zap.Duration("took", time.Since(start)))
	return toRows(docs), nil
}

func (s *Store) Insert(ctx context.Context, table string, row datastore.Row) ([]datastore.Row, error) {
	start := time.Now()
	doc := bson.M{}
	for k, v := range row {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	oid := primitive.NewObjectID()
	doc["_id"] = oid

	if _, err := s.db.Collection(table).InsertOne(ctx, doc); err != nil {
		return nil, s.fail("insert", table, start, err)
	}
	s.log.Debug("data store call",
		zap.String("op", "insert"),
		zap.String("table", table),
		zap.Any("payload", row),
		zap.Duration("took", time.Since(start)))
	return toRows([]bson.M{doc}), nil
}

// Update applies $set to every matching document and returns them as they
// are afterwards. Matches are resolved to ids first so an update that
// changes a filtered column still returns the rows it touched.
func (s *Store) Update(ctx context.Context, table string, row datastore.Row, filters ...datastore.Filter) ([]datastore.Row, error) {
	start := time.Now()
	ids, err := s.matchIDs(ctx, table, filters)
	if err != nil {
		return nil, s.fail("update", table, start, err)
	}
	if len(ids) == 0 {
		return []datastore.Row{}, nil
	}

	set := bson.M{}
	for k, v := range row {
		if k == "id" {
			continue
		}
		set[k] = v
	}
	byID := bson.M{"_id": bson.M{"$in": ids}}
	if _, err := s.db.Collection(table).UpdateMany(ctx, byID, bson.M{"$set": set}); err != nil {
		return nil, s.fail("update", table, start, err)
	}

	cur, err := s.db.Collection(table).Find(ctx, byID)
	if err != nil {
		return nil, s.fail("update", table, start, err)
	}
	defer cur.Close(ctx)
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, s.fail("update", table, start, err)
	}
	s.log.Debug("data store call",
		zap.String("op", "update"),
		zap.String("table", table),
		zap.Any("payload", row),
		zap.Int("rows", len(docs)),
		zap.Duration("took", time.Since(start)))
	return toRows(docs), nil
}

func (s *Store) Delete(ctx context.Context, table string, filters ...datastore.Filter) ([]datastore.Row, error) {
	start := time.Now()
	filter, err := toFilter(filters)
	if err != nil {
		return nil, s.fail("delete", table, start, err)
	}
	cur, err := s.db.Collection(table).Find(ctx, filter)
	if err != nil {
		return nil, s.fail("delete", table, start, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, s.fail("delete", table, start, err)
	}
	if len(docs) == 0 {
		return []datastore.Row{}, nil
	}
	ids := make([]any, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d["_id"])
	}
	if _, err := s.db.Collection(table).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, s.fail("delete", table, start, err)
	}
	s.log.Debug("data store call",
		zap.String("op", "delete"),
		zap.String("table", table),
		zap.Int("rows", len(docs)),
		zap.Duration("took", time.Since(start)))
	return toRows(docs), nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return &datastore.TransportError{Op: "ping", Table: s.db.Name(), Err: err}
	}
	return nil
}

func (s *Store) matchIDs(ctx context.Context, table string, filters []datastore.Filter) ([]any, error) {
	filter, err := toFilter(filters)
	if err != nil {
		return nil, err
	}
	cur, err := s.db.Collection(table).Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var ids []any
	for cur.Next(ctx) {
		var row struct {
			ID any `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// fail logs and classifies a driver error. Duplicate keys are the one write
// error worth telling apart; everything else is treated as transport.
func (s *Store) fail(op, table string, start time.Time, err error) error {
	s.log.Error("data store call failed",
		zap.String("op", op),
		zap.String("table", table),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))
	if wafflemongo.IsDup(err) {
		return &datastore.APIError{Op: op, Table: table, Status: 409, Body: err.Error()}
	}
	if _, ok := err.(badIDError); ok {
		return &datastore.APIError{Op: op, Table: table, Status: 400, Body: err.Error()}
	}
	return &datastore.TransportError{Op: op, Table: table, Err: err}
}

type badIDError struct{ value string }

func (e badIDError) Error() string { return fmt.Sprintf("invalid id %q", e.value) }

func toFilter(filters []datastore.Filter) (bson.M, error) {
	f := bson.M{}
	for _, flt := range filters {
		if flt.Column == "id" {
			hex := datastore.FormatValue(flt.Value)
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, badIDError{value: hex}
			}
			f["_id"] = oid
			continue
		}
		f[flt.Column] = flt.Value
	}
	return f, nil
}

func projection(columns []string) bson.M {
	if len(columns) == 0 {
		return nil
	}
	p := bson.M{}
	for _, c := range columns {
		if c == "id" || c == "*" {
			continue
		}
		p[c] = 1
	}
	return p
}

func toRows(docs []bson.M) []datastore.Row {
	rows := make([]datastore.Row, 0, len(docs))
	for _, d := range docs {
		row := datastore.Row{}
		for k, v := range d {
			if k == "_id" {
				if oid, ok := v.(primitive.ObjectID); ok {
					row["id"] = oid.Hex()
				} else {
					row["id"] = v
				}
				continue
			}
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows
}
