package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mongobridge/tool-service/internal/core/docdb"
	"github.com/mongobridge/tool-service/internal/domain/models"
)

// Database implements docdb.Database for MongoDB.
type Database struct {
	database *mongo.Database
}

// ListCollectionNames lists the collections in the database.
func (d *Database) ListCollectionNames(ctx context.Context) ([]string, error) {
	names, err := d.database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// CreateCollection explicitly creates a collection.
func (d *Database) CreateCollection(ctx context.Context, name string) error {
	if err := d.database.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// DropCollection removes a collection.
func (d *Database) DropCollection(ctx context.Context, name string) error {
	if err := d.database.Collection(name).Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// Stats runs the dbStats command for this database.
func (d *Database) Stats(ctx context.Context) (map[string]any, error) {
	var result bson.M
	cmd := bson.D{{Key: "dbStats", Value: 1}}
	if err := d.database.RunCommand(ctx, cmd).Decode(&result); err != nil {
		return nil, fmt.Errorf("dbStats failed: %w", err)
	}
	return normalizeDoc(result), nil
}

// Validate runs the validate command against a collection and returns the
// fields callers care about.
func (d *Database) Validate(ctx context.Context, collection string) (map[string]any, error) {
	var result bson.M
	cmd := bson.D{{Key: "validate", Value: collection}}
	if err := d.database.RunCommand(ctx, cmd).Decode(&result); err != nil {
		return nil, fmt.Errorf("validate failed: %w", err)
	}

	filtered := map[string]any{}
	for _, key := range []string{"ok", "ns", "valid", "warnings", "errors"} {
		if v, found := result[key]; found {
			filtered[key] = normalizeValue(v)
		}
	}
	return filtered, nil
}

// Collection returns a handle to the named collection.
func (d *Database) Collection(name string) docdb.Collection {
	return &Collection{collection: d.database.Collection(name)}
}

// Collection implements docdb.Collection for MongoDB.
type Collection struct {
	collection *mongo.Collection
}

// Find returns up to limit documents matching the filter. The _id field is
// excluded via projection so results stay JSON-serializable.
func (c *Collection) Find(ctx context.Context, filter map[string]any, limit int64) ([]map[string]any, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cursor, err := c.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer cursor.Close(ctx)

	results := []map[string]any{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return results, nil
}

// FindOne returns the first document matching the filter, or (nil, nil)
// when no document matches.
func (c *Collection) FindOne(ctx context.Context, filter map[string]any) (map[string]any, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	opts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 0}})

	var result map[string]any
	err := c.collection.FindOne(ctx, filter, opts).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one failed: %w", err)
	}
	return result, nil
}

// InsertOne inserts a document and returns the inserted ID as a string.
func (c *Collection) InsertOne(ctx context.Context, document map[string]any) (string, error) {
	result, err := c.collection.InsertOne(ctx, document)
	if err != nil {
		return "", fmt.Errorf("insert failed: %w", err)
	}
	return fmt.Sprintf("%v", result.InsertedID), nil
}

// UpdateOne applies a $set update to the first document matching the filter.
func (c *Collection) UpdateOne(ctx context.Context, filter, update map[string]any) (*docdb.UpdateResult, error) {
	result, err := c.collection.UpdateOne(ctx, filter, bson.M{"$set": update})
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return &docdb.UpdateResult{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}, nil
}

// DeleteOne removes the first document matching the filter.
func (c *Collection) DeleteOne(ctx context.Context, filter map[string]any) (*docdb.DeleteResult, error) {
	result, err := c.collection.DeleteOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("delete failed: %w", err)
	}
	return &docdb.DeleteResult{DeletedCount: result.DeletedCount}, nil
}

// CountDocuments counts documents matching the filter.
func (c *Collection) CountDocuments(ctx context.Context, filter map[string]any) (int64, error) {
	if filter == nil {
		filter = map[string]any{}
	}
	count, err := c.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return count, nil
}

// Aggregate runs an aggregation pipeline and returns all results.
func (c *Collection) Aggregate(ctx context.Context, pipeline []map[string]any) ([]map[string]any, error) {
	stages := make([]any, len(pipeline))
	for i, stage := range pipeline {
		stages[i] = stage
	}

	cursor, err := c.collection.Aggregate(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	results := []map[string]any{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation results: %w", err)
	}
	return results, nil
}

// Stats returns $collStats storage and count output for the collection.
func (c *Collection) Stats(ctx context.Context) (map[string]any, error) {
	pipeline := []any{
		bson.M{"$collStats": bson.M{
			"storageStats": bson.M{},
			"count":        bson.M{},
		}},
	}

	cursor, err := c.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("collStats failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []map[string]any
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode collStats: %w", err)
	}
	if len(results) == 0 {
		return map[string]any{}, nil
	}

	// Flatten the nested storageStats sub-document so callers see one flat
	// statistics document regardless of backend.
	doc := normalizeDoc(results[0])
	if nested, ok := doc["storageStats"].(map[string]any); ok {
		merged := make(map[string]any, len(nested)+1)
		for k, v := range nested {
			merged[k] = v
		}
		if count, found := doc["count"]; found {
			merged["count"] = count
		}
		doc = merged
	}
	return doc, nil
}

// ListIndexes returns the index documents of the collection.
func (c *Collection) ListIndexes(ctx context.Context) ([]map[string]any, error) {
	cursor, err := c.collection.Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	results := []map[string]any{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode indexes: %w", err)
	}
	for i, doc := range results {
		results[i] = normalizeDoc(doc)
	}
	return results, nil
}

// CreateIndex builds an index and returns its name.
func (c *Collection) CreateIndex(ctx context.Context, keys []models.IndexKey, name string, unique bool) (string, error) {
	keyDoc := bson.D{}
	for _, key := range keys {
		keyDoc = append(keyDoc, bson.E{Key: key.Field, Value: normalizeDirection(key.Direction)})
	}

	opts := options.Index().SetUnique(unique)
	if name != "" {
		opts = opts.SetName(name)
	}

	created, err := c.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keyDoc,
		Options: opts,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create index: %w", err)
	}
	return created, nil
}

// DropIndex removes the named index.
func (c *Collection) DropIndex(ctx context.Context, name string) error {
	if _, err := c.collection.Indexes().DropOne(ctx, name); err != nil {
		return fmt.Errorf("failed to drop index: %w", err)
	}
	return nil
}

// normalizeDirection converts JSON-decoded numeric directions (float64) to
// the int the driver expects; string kinds pass through unchanged.
func normalizeDirection(direction any) any {
	switch d := direction.(type) {
	case float64:
		return int(d)
	case int64:
		return int(d)
	default:
		return d
	}
}
