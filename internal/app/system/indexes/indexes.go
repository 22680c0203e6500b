// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	adminstore "github.com/dalemusser/pghub/internal/app/store/admins"
	"github.com/dalemusser/pghub/internal/app/store/audit"
	buildingstore "github.com/dalemusser/pghub/internal/app/store/buildings"
	paymentstore "github.com/dalemusser/pghub/internal/app/store/payments"
	roomstore "github.com/dalemusser/pghub/internal/app/store/rooms"
	studentstore "github.com/dalemusser/pghub/internal/app/store/students"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup when the data lives in MongoDB. Each
collection's set is idempotent. Errors are aggregated so every problem is
visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	for _, set := range Sets() {
		if err := ensureIndexSet(ctx, db.Collection(set.Collection), set.Models, logger); err != nil {
			problems = append(problems, set.Collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Set is the desired index list for one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

// Sets returns the indexes the repositories' filters rely on.
func Sets() []Set {
	return []Set{
		{buildingstore.Table, []mongo.IndexModel{
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetName("uniq_buildings_code").SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "code", Value: 1}}, Options: options.Index().SetName("idx_buildings_status_code")},
		}},
		{roomstore.Table, []mongo.IndexModel{
			{Keys: bson.D{{Key: "building_code", Value: 1}}, Options: options.Index().SetName("idx_rooms_building")},
		}},
		{studentstore.Table, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("idx_students_status")},
			{Keys: bson.D{{Key: "building_code", Value: 1}}, Options: options.Index().SetName("idx_students_building")},
		}},
		{paymentstore.Table, []mongo.IndexModel{
			{Keys: bson.D{{Key: "month_year", Value: 1}, {Key: "building_code", Value: 1}}, Options: options.Index().SetName("idx_payments_month_building")},
		}},
		{audit.Table, []mongo.IndexModel{
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("idx_audit_category_time")},
		}},
		{adminstore.Table, []mongo.IndexModel{
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("uniq_admin_users_username").SetUnique(true)},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	var errs []string

	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A missing collection lists as an error on some servers; create will make it.
		logger.Debug("list indexes failed", zap.String("collection", coll.Name()), zap.Error(err))
		existing = map[string]existingIndex{}
	}

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()
		fields := []zap.Field{
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
		}

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				logger.Debug("reusing existing index", fields...)
				continue
			}
			// Options or name differ: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				logger.Warn("drop existing index failed", append(fields, zap.Error(err))...)
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", desiredName, desiredSig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", desiredName, err))
			}
			logger.Warn("index ensure failed", append(fields, zap.Error(err))...)
			continue
		}
		logger.Info("index ensured", append(fields, zap.Duration("took", time.Since(start)))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
