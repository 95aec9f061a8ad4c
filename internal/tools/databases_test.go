package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongobridge/tool-service/internal/core/docdb/docdbtest"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
)

func seededClient() *docdbtest.FakeClient {
	client := docdbtest.NewClient()
	client.Seed("app", "users",
		map[string]any{"name": "alice", "role": "admin"},
		map[string]any{"name": "bob", "role": "viewer"},
	)
	client.Seed("admin", "system.version")
	return client
}

func TestListDatabases_FiltersSystem(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_list_databases", nil)
	requireSuccess(t, result)
	assert.Equal(t, 1, result["count"])
}

func TestGetDatabaseInfo(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_get_database_info", map[string]any{"database_name": "app"})
	requireSuccess(t, result)
	assert.Contains(t, result["collections"], "users")
}

func TestGetDatabaseInfo_Missing(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_get_database_info", map[string]any{"database_name": "nope"})
	requireErrorCode(t, result, domainerrors.ErrCodeDatabaseNotFound)
}

func TestGetDatabaseInfo_InvalidName(t *testing.T) {
	client := seededClient()
	r, connections := newCatalogue(t, client)
	configure(t, connections)
	before := client.Ops()

	result := invoke(t, r, "mongodb_get_database_info", map[string]any{"database_name": "bad/name"})
	requireErrorCode(t, result, domainerrors.ErrCodeValidation)

	// Validation failed before any driver call.
	assert.Equal(t, before, client.Ops())
}

func TestCreateDatabase_CreatesInitialCollection(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_create_database", map[string]any{
		"database_name":      "reports",
		"initial_collection": "daily",
	})
	requireSuccess(t, result)

	listed := invoke(t, r, "mongodb_list_collections", map[string]any{"database_name": "reports"})
	requireSuccess(t, listed)
	assert.Contains(t, listed["collections"], "daily")
}

func TestCreateDatabase_DefaultInitialCollection(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_create_database", map[string]any{"database_name": "reports"})
	requireSuccess(t, result)

	listed := invoke(t, r, "mongodb_list_collections", map[string]any{"database_name": "reports"})
	requireSuccess(t, listed)
	assert.Contains(t, listed["collections"], "init")
}

func TestDropDatabase(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_drop_database", map[string]any{"database_name": "app"})
	requireSuccess(t, result)

	result = invoke(t, r, "mongodb_drop_database", map[string]any{"database_name": "app"})
	requireErrorCode(t, result, domainerrors.ErrCodeDatabaseNotFound)
}

func TestDropDatabase_ReservedNameRejected(t *testing.T) {
	r, connections := newCatalogue(t, seededClient())
	configure(t, connections)

	result := invoke(t, r, "mongodb_drop_database", map[string]any{"database_name": "admin"})
	requireErrorCode(t, result, domainerrors.ErrCodeValidation)

	require.Contains(t, invoke(t, r, "mongodb_list_databases", nil), "count")
}
