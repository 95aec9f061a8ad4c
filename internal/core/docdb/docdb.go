// Package docdb defines the document database interfaces consumed by the
// connection registry and the tool catalogue. Implementations live under
// internal/infrastructure/docdb.
package docdb

import (
	"context"

	"github.com/mongobridge/tool-service/internal/domain/models"
)

// Dialer establishes a client for the given connection URI. The registry
// owns the only Dialer in the process; tests inject fakes through it.
type Dialer func(ctx context.Context, uri string, maxPoolSize uint64) (Client, error)

// Client is a live connection to a document database server.
type Client interface {
	// Ping issues a lightweight liveness probe.
	Ping(ctx context.Context) error

	// ListDatabaseNames lists every database on the server, including
	// system databases.
	ListDatabaseNames(ctx context.Context) ([]string, error)

	// Database returns a handle to the named database. The database does
	// not have to exist.
	Database(name string) Database

	// DropDatabase removes the named database entirely.
	DropDatabase(ctx context.Context, name string) error

	// RenameCollection renames a collection within a database.
	RenameCollection(ctx context.Context, database, oldName, newName string) error

	// ServerStatus runs the serverStatus command.
	ServerStatus(ctx context.Context) (map[string]any, error)

	// AdminStats runs dbStats against the admin database.
	AdminStats(ctx context.Context) (map[string]any, error)

	// Close releases the connection. Idempotent.
	Close(ctx context.Context) error
}

// Database is a handle to one database.
type Database interface {
	// ListCollectionNames lists the collections in the database.
	ListCollectionNames(ctx context.Context) ([]string, error)

	// CreateCollection explicitly creates a collection.
	CreateCollection(ctx context.Context, name string) error

	// DropCollection removes a collection.
	DropCollection(ctx context.Context, name string) error

	// Stats runs the dbStats command for this database.
	Stats(ctx context.Context) (map[string]any, error)

	// Validate runs the validate command against a collection and returns
	// the filtered result (ok, ns, valid, warnings, errors).
	Validate(ctx context.Context, collection string) (map[string]any, error)

	// Collection returns a handle to the named collection.
	Collection(name string) Collection
}

// UpdateResult reports the outcome of an update.
type UpdateResult struct {
	MatchedCount  int64 `json:"matched_count"`
	ModifiedCount int64 `json:"modified_count"`
}

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	DeletedCount int64 `json:"deleted_count"`
}

// Collection is a handle to one collection.
type Collection interface {
	// Find returns up to limit documents matching the filter, with the
	// _id field stripped.
	Find(ctx context.Context, filter map[string]any, limit int64) ([]map[string]any, error)

	// FindOne returns the first document matching the filter with _id
	// stripped, or (nil, nil) when no document matches.
	FindOne(ctx context.Context, filter map[string]any) (map[string]any, error)

	// InsertOne inserts a document and returns the inserted ID rendered
	// as a string.
	InsertOne(ctx context.Context, document map[string]any) (string, error)

	// UpdateOne applies a $set update to the first document matching the
	// filter.
	UpdateOne(ctx context.Context, filter, update map[string]any) (*UpdateResult, error)

	// DeleteOne removes the first document matching the filter.
	DeleteOne(ctx context.Context, filter map[string]any) (*DeleteResult, error)

	// CountDocuments counts documents matching the filter.
	CountDocuments(ctx context.Context, filter map[string]any) (int64, error)

	// Aggregate runs an aggregation pipeline and returns all results.
	Aggregate(ctx context.Context, pipeline []map[string]any) ([]map[string]any, error)

	// Stats returns $collStats storage/count output for the collection.
	Stats(ctx context.Context) (map[string]any, error)

	// ListIndexes returns the index documents of the collection.
	ListIndexes(ctx context.Context) ([]map[string]any, error)

	// CreateIndex builds an index and returns its name. An empty name
	// lets the server pick one.
	CreateIndex(ctx context.Context, keys []models.IndexKey, name string, unique bool) (string, error)

	// DropIndex removes the named index.
	DropIndex(ctx context.Context, name string) error
}
