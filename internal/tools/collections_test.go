package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

func TestListCollections(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_list_collections", map[string]any{"database_name": "app"})
	requireSuccess(t, result)
	assert.Equal(t, 1, result["count"])
	assert.Contains(t, result["collections"], "users")
}

func TestListCollections_MissingDatabase(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_list_collections", map[string]any{"database_name": "nope"})
	requireErrorCode(t, result, domainerrors.ErrCodeDatabaseNotFound)
}

func TestCreateAndDropCollection(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_create_collection", map[string]any{
		"database_name":   "app",
		"collection_name": "orders",
	})
	requireSuccess(t, result)

	result = invoke(t, r, "mongodb_drop_collection", map[string]any{
		"database_name":   "app",
		"collection_name": "orders",
	})
	requireSuccess(t, result)

	// Dropping again reports the missing collection.
	result = invoke(t, r, "mongodb_drop_collection", map[string]any{
		"database_name":   "app",
		"collection_name": "orders",
	})
	requireErrorCode(t, result, domainerrors.ErrCodeCollectionNotFound)
}

func TestCreateCollection_SystemPrefixRejected(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_create_collection", map[string]any{
		"database_name":   "app",
		"collection_name": "system.secrets",
	})
	requireErrorCode(t, result, domainerrors.ErrCodeValidation)
}

func TestRenameCollection(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_rename_collection", map[string]any{
		"database_name":   "app",
		"collection_name": "users",
		"new_name":        "people",
	})
	requireSuccess(t, result)

	listed := invoke(t, r, "mongodb_list_collections", map[string]any{"database_name": "app"})
	assert.Contains(t, listed["collections"], "people")
	assert.NotContains(t, listed["collections"], "users")
}

func TestValidateCollection(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_validate_collection", map[string]any{
		"database_name":   "app",
		"collection_name": "users",
	})
	requireSuccess(t, result)

	validation, ok := result["validation"].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, true, validation["valid"])
}

func TestGetCollectionInfo_MissingCollectionIsNotFound(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	// A missing collection in an existing database reports the collection
	// kind, not a generic operation failure.
	result := invoke(t, r, "mongodb_get_collection_info", map[string]any{
		"database_name":   "app",
		"collection_name": "ghosts",
	})
	requireErrorCode(t, result, domainerrors.ErrCodeCollectionNotFound)

	result = invoke(t, r, "mongodb_get_collection_info", map[string]any{
		"database_name":   "ghosts",
		"collection_name": "users",
	})
	requireErrorCode(t, result, domainerrors.ErrCodeDatabaseNotFound)
}

func TestGetCollectionInfo(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_get_collection_info", map[string]any{
		"database_name":   "app",
		"collection_name": "users",
	})
	requireSuccess(t, result)
	assert.NotNil(t, result["collection"])
}

func TestCountDocuments_WithFilter(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_count_documents", map[string]any{
		"database_name":   "app",
		"collection_name": "users",
		"filter":          map[string]any{"role": "admin"},
	})
	requireSuccess(t, result)
	assert.Equal(t, int64(1), result["count"])
}

func TestAggregate(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_aggregate", map[string]any{
		"database_name":   "app",
		"collection_name": "users",
		"pipeline": []map[string]any{
			{"$match": map[string]any{"role": "viewer"}},
		},
	})
	requireSuccess(t, result)
	assert.Equal(t, 1, result["count"])
}

func TestAggregate_StageWithoutOperatorRejected(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_aggregate", map[string]any{
		"database_name":   "app",
		"collection_name": "users",
		"pipeline": []map[string]any{
			{"match": map[string]any{}},
		},
	})
	requireErrorCode(t, result, domainerrors.ErrCodeValidation)
}
