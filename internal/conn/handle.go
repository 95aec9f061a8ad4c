package conn

import (
	"context"
	"sort"
	"sync"

	"github.com/mongobridge/tool-service/internal/core/docdb"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/domain/models"
	"github.com/mongobridge/tool-service/internal/pkg/workpool"
)

// Handle wraps a live client with a bounded worker pool. Every blocking
// driver call goes through the pool so concurrent tool invocations cannot
// exceed the configured parallelism.
type Handle struct {
	client       docdb.Client
	pool         *workpool.Pool
	sanitizedURI string

	closeOnce sync.Once
	closeErr  error
}

// NewHandle creates a handle around an established client. poolSize bounds
// the number of driver calls in flight at once.
func NewHandle(client docdb.Client, poolSize int, sanitizedURI string) *Handle {
	return &Handle{
		client:       client,
		pool:         workpool.New(poolSize),
		sanitizedURI: sanitizedURI,
	}
}

// SanitizedURI returns the connection URI with the password masked. Safe to
// log and return to callers.
func (h *Handle) SanitizedURI() string {
	return h.sanitizedURI
}

// Run executes fn against the client through the worker pool.
func (h *Handle) Run(ctx context.Context, fn func(ctx context.Context, client docdb.Client) error) error {
	return h.pool.Submit(ctx, func(ctx context.Context) error {
		return fn(ctx, h.client)
	})
}

// Query executes a value-returning fn against the handle's client through
// its worker pool.
func Query[T any](ctx context.Context, h *Handle, fn func(ctx context.Context, client docdb.Client) (T, error)) (T, error) {
	return workpool.Run(ctx, h.pool, func(ctx context.Context) (T, error) {
		return fn(ctx, h.client)
	})
}

// Ping probes the server through the pool.
func (h *Handle) Ping(ctx context.Context) error {
	return h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
		return client.Ping(ctx)
	})
}

// Close drains the worker pool, then closes the client. Idempotent; repeat
// calls return the first result.
func (h *Handle) Close(ctx context.Context) error {
	h.closeOnce.Do(func() {
		h.pool.Close()
		h.closeErr = h.client.Close(ctx)
	})
	return h.closeErr
}

// UserDatabaseNames lists database names with the system databases
// filtered out.
func (h *Handle) UserDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
		return client.ListDatabaseNames(ctx)
	})
	if err != nil {
		return nil, err
	}
	user := make([]string, 0, len(names))
	for _, name := range names {
		if !models.IsSystemDatabase(name) {
			user = append(user, name)
		}
	}
	sort.Strings(user)
	return user, nil
}

// ListDatabases returns per-database statistics for every user database.
func (h *Handle) ListDatabases(ctx context.Context) ([]models.DatabaseInfo, error) {
	names, err := h.UserDatabaseNames(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]models.DatabaseInfo, 0, len(names))
	for _, name := range names {
		stats, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
			return client.Database(name).Stats(ctx)
		})
		if err != nil {
			// A database dropped between the listing and the stats call is
			// not an error for the listing as a whole.
			infos = append(infos, models.DatabaseInfo{Name: name})
			continue
		}
		infos = append(infos, parseDatabaseStats(name, stats))
	}
	return infos, nil
}

// DatabaseExists reports whether the named database exists (system
// databases included).
func (h *Handle) DatabaseExists(ctx context.Context, name string) (bool, error) {
	names, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
		return client.ListDatabaseNames(ctx)
	})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// DatabaseInfo returns statistics and collection names for one database.
// The database must exist.
func (h *Handle) DatabaseInfo(ctx context.Context, name string) (*models.DatabaseInfo, []string, error) {
	exists, err := h.DatabaseExists(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, domainerrors.NewDatabaseNotFoundError(name)
	}

	stats, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
		return client.Database(name).Stats(ctx)
	})
	if err != nil {
		return nil, nil, err
	}

	collections, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
		return client.Database(name).ListCollectionNames(ctx)
	})
	if err != nil {
		return nil, nil, err
	}

	info := parseDatabaseStats(name, stats)
	return &info, collections, nil
}

// CollectionExists reports whether the named collection exists in the
// database. The database itself must exist.
func (h *Handle) CollectionExists(ctx context.Context, database, collection string) (bool, error) {
	exists, err := h.DatabaseExists(ctx, database)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domainerrors.NewDatabaseNotFoundError(database)
	}

	names, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
		return client.Database(database).ListCollectionNames(ctx)
	})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == collection {
			return true, nil
		}
	}
	return false, nil
}

// CollectionInfo returns statistics and indexes for one collection. Both
// the database and the collection must exist; the two missing cases report
// distinct error codes.
func (h *Handle) CollectionInfo(ctx context.Context, database, collection string) (*models.CollectionInfo, error) {
	exists, err := h.CollectionExists(ctx, database, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domainerrors.NewCollectionNotFoundError(collection)
	}

	stats, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
		return client.Database(database).Collection(collection).Stats(ctx)
	})
	if err != nil {
		return nil, err
	}

	indexes, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]map[string]any, error) {
		return client.Database(database).Collection(collection).ListIndexes(ctx)
	})
	if err != nil {
		return nil, err
	}

	info := &models.CollectionInfo{
		Name:           collection,
		Count:          models.Num(stats, "count"),
		Size:           models.Num(stats, "size"),
		AvgObjSize:     models.Num(stats, "avgObjSize"),
		StorageSize:    models.Num(stats, "storageSize"),
		TotalIndexSize: models.Num(stats, "totalIndexSize"),
		Indexes:        parseIndexes(indexes),
	}
	return info, nil
}

// ServerStatus returns the parsed serverStatus output.
func (h *Handle) ServerStatus(ctx context.Context) (*models.ServerStatus, error) {
	raw, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
		return client.ServerStatus(ctx)
	})
	if err != nil {
		return nil, err
	}
	return parseServerStatus(raw), nil
}

// SystemStats aggregates per-database statistics across every user
// database, plus the admin database's own stats.
func (h *Handle) SystemStats(ctx context.Context) (*models.SystemStats, error) {
	infos, err := h.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.SystemStats{DatabasesCount: len(infos)}
	for _, info := range infos {
		stats.TotalCollections += info.Collections
		stats.TotalObjects += info.Objects
		stats.TotalSize += info.DataSize + info.IndexSize
	}

	// Admin stats are best-effort; restricted deployments refuse them.
	adminStats, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
		return client.AdminStats(ctx)
	})
	if err == nil {
		stats.AdminStats = adminStats
	}
	return stats, nil
}

// ServerSummary builds the coarse summary returned by configure and test:
// version, uptime, and database counts.
func (h *Handle) ServerSummary(ctx context.Context) (*models.ServerSummary, error) {
	status, err := h.ServerStatus(ctx)
	if err != nil {
		return nil, err
	}

	names, err := Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
		return client.ListDatabaseNames(ctx)
	})
	if err != nil {
		return nil, err
	}

	counts := models.DatabaseCounts{Total: len(names)}
	for _, name := range names {
		if models.IsSystemDatabase(name) {
			counts.System++
		} else {
			counts.User++
		}
	}

	return &models.ServerSummary{
		Version:     status.Version,
		Uptime:      status.Uptime,
		Connections: status.Connections,
		Memory:      status.Memory,
		Operations:  status.Operations,
		Databases:   counts,
	}, nil
}

func parseDatabaseStats(name string, stats map[string]any) models.DatabaseInfo {
	dataSize := models.Num(stats, "dataSize")
	indexSize := models.Num(stats, "indexSize")
	return models.DatabaseInfo{
		Name:        name,
		SizeOnDisk:  dataSize + indexSize,
		Collections: int(models.Num(stats, "collections")),
		Objects:     models.Num(stats, "objects"),
		AvgObjSize:  models.Num(stats, "avgObjSize"),
		DataSize:    dataSize,
		StorageSize: models.Num(stats, "storageSize"),
		Indexes:     models.Num(stats, "indexes"),
		IndexSize:   indexSize,
	}
}

func parseIndexes(docs []map[string]any) []models.IndexInfo {
	indexes := make([]models.IndexInfo, 0, len(docs))
	for _, doc := range docs {
		info := models.IndexInfo{}
		if name, ok := doc["name"].(string); ok {
			info.Name = name
		}
		if key, ok := doc["key"].(map[string]any); ok {
			info.Key = key
		}
		indexes = append(indexes, info)
	}
	return indexes
}

func parseServerStatus(raw map[string]any) *models.ServerStatus {
	status := &models.ServerStatus{Uptime: models.Num(raw, "uptime")}
	if version, ok := raw["version"].(string); ok {
		status.Version = version
	}
	status.Connections = subDoc(raw, "connections")
	status.Memory = subDoc(raw, "mem")
	status.Operations = subDoc(raw, "opcounters")
	status.Network = subDoc(raw, "network")
	return status
}

func subDoc(raw map[string]any, key string) map[string]any {
	if doc, ok := raw[key].(map[string]any); ok {
		return doc
	}
	return nil
}
