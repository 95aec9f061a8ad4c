// Package docdbtest provides an in-memory fake implementation of the
// docdb interfaces for tests that must not touch a real server.
package docdbtest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mongobridge/tool-service/internal/core/docdb"
	"github.com/mongobridge/tool-service/internal/domain/models"
)

// DefaultServerStatus is the serverStatus document a new FakeClient
// reports.
func DefaultServerStatus() map[string]any {
	return map[string]any{
		"version": "7.0.5",
		"uptime":  int64(86400),
		"connections": map[string]any{
			"current":   int32(5),
			"available": int32(95),
		},
		"mem": map[string]any{
			"resident": int64(1073741824),
			"virtual":  int64(2147483648),
		},
		"opcounters": map[string]any{
			"insert": int64(1600),
			"query":  int64(5000),
		},
		"network": map[string]any{
			"bytesIn":     int64(1048576),
			"bytesOut":    int64(2097152),
			"numRequests": int64(100),
		},
	}
}

// FakeClient is an in-memory docdb.Client. The zero value is not usable;
// construct it with NewClient.
type FakeClient struct {
	mu sync.Mutex

	databases map[string]*fakeDatabase

	// Status is the serverStatus document returned by ServerStatus.
	Status map[string]any

	// AdminStatsDoc is returned by AdminStats.
	AdminStatsDoc map[string]any

	// PingErr, when set, fails Ping.
	PingErr error

	// StatusErr, when set, fails ServerStatus only.
	StatusErr error

	// Err, when set, fails every data operation.
	Err error

	// Closed reports whether Close has been called.
	Closed bool

	// CloseErr, when set, is returned by Close (Closed is still set).
	CloseErr error

	// OpCount counts every operation that reached the fake, including
	// pings. Gating tests assert it stays zero.
	OpCount int
}

// NewClient creates an empty fake client with a default server status.
func NewClient() *FakeClient {
	return &FakeClient{
		databases:     make(map[string]*fakeDatabase),
		Status:        DefaultServerStatus(),
		AdminStatsDoc: map[string]any{"db": "admin", "ok": float64(1)},
	}
}

// Seed creates a database/collection pair with the given documents.
func (c *FakeClient) Seed(database, collection string, docs ...map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	db := c.database(database)
	db.collections[collection] = append(db.collections[collection], docs...)
}

// Ops returns the operation count.
func (c *FakeClient) Ops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.OpCount
}

func (c *FakeClient) database(name string) *fakeDatabase {
	db, ok := c.databases[name]
	if !ok {
		db = &fakeDatabase{
			client:      c,
			name:        name,
			collections: make(map[string][]map[string]any),
			indexes:     make(map[string][]map[string]any),
		}
		c.databases[name] = db
	}
	return db
}

func (c *FakeClient) op() error {
	c.OpCount++
	if c.Closed {
		return fmt.Errorf("client is closed")
	}
	return c.Err
}

// Ping implements docdb.Client.
func (c *FakeClient) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.op(); err != nil {
		return err
	}
	return c.PingErr
}

// ListDatabaseNames implements docdb.Client.
func (c *FakeClient) ListDatabaseNames(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.op(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.databases))
	for name, db := range c.databases {
		if len(db.collections) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Database implements docdb.Client.
func (c *FakeClient) Database(name string) docdb.Database {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.database(name)
}

// DropDatabase implements docdb.Client.
func (c *FakeClient) DropDatabase(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.op(); err != nil {
		return err
	}
	delete(c.databases, name)
	return nil
}

// RenameCollection implements docdb.Client.
func (c *FakeClient) RenameCollection(ctx context.Context, database, oldName, newName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.op(); err != nil {
		return err
	}
	db := c.database(database)
	docs, ok := db.collections[oldName]
	if !ok {
		return fmt.Errorf("source namespace does not exist")
	}
	db.collections[newName] = docs
	delete(db.collections, oldName)
	return nil
}

// ServerStatus implements docdb.Client.
func (c *FakeClient) ServerStatus(ctx context.Context) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.op(); err != nil {
		return nil, err
	}
	if c.StatusErr != nil {
		return nil, c.StatusErr
	}
	return c.Status, nil
}

// AdminStats implements docdb.Client.
func (c *FakeClient) AdminStats(ctx context.Context) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.op(); err != nil {
		return nil, err
	}
	return c.AdminStatsDoc, nil
}

// Close implements docdb.Client.
func (c *FakeClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Closed = true
	return c.CloseErr
}

type fakeDatabase struct {
	client      *FakeClient
	name        string
	collections map[string][]map[string]any
	indexes     map[string][]map[string]any
}

func (d *fakeDatabase) ListCollectionNames(ctx context.Context) ([]string, error) {
	d.client.mu.Lock()
	defer d.client.mu.Unlock()
	if err := d.client.op(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *fakeDatabase) CreateCollection(ctx context.Context, name string) error {
	d.client.mu.Lock()
	defer d.client.mu.Unlock()
	if err := d.client.op(); err != nil {
		return err
	}
	if _, exists := d.collections[name]; exists {
		return fmt.Errorf("collection '%s' already exists", name)
	}
	d.collections[name] = []map[string]any{}
	return nil
}

func (d *fakeDatabase) DropCollection(ctx context.Context, name string) error {
	d.client.mu.Lock()
	defer d.client.mu.Unlock()
	if err := d.client.op(); err != nil {
		return err
	}
	delete(d.collections, name)
	return nil
}

func (d *fakeDatabase) Stats(ctx context.Context) (map[string]any, error) {
	d.client.mu.Lock()
	defer d.client.mu.Unlock()
	if err := d.client.op(); err != nil {
		return nil, err
	}
	var objects int
	for _, docs := range d.collections {
		objects += len(docs)
	}
	return map[string]any{
		"db":          d.name,
		"collections": int32(len(d.collections)),
		"objects":     int64(objects),
		"dataSize":    int64(objects * 256),
		"storageSize": int64(objects * 512),
		"avgObjSize":  int64(256),
		"indexes":     int32(len(d.collections)),
		"indexSize":   int64(4096),
	}, nil
}

func (d *fakeDatabase) Validate(ctx context.Context, collection string) (map[string]any, error) {
	d.client.mu.Lock()
	defer d.client.mu.Unlock()
	if err := d.client.op(); err != nil {
		return nil, err
	}
	if _, ok := d.collections[collection]; !ok {
		return nil, fmt.Errorf("collection '%s.%s' does not exist", d.name, collection)
	}
	return map[string]any{
		"ok":    float64(1),
		"ns":    d.name + "." + collection,
		"valid": true,
	}, nil
}

func (d *fakeDatabase) Collection(name string) docdb.Collection {
	return &fakeCollection{db: d, name: name}
}

type fakeCollection struct {
	db   *fakeDatabase
	name string
}

func matches(doc, filter map[string]any) bool {
	for key, want := range filter {
		if fmt.Sprint(doc[key]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func withoutID(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

func (c *fakeCollection) Find(ctx context.Context, filter map[string]any, limit int64) ([]map[string]any, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return nil, err
	}
	var out []map[string]any
	for _, doc := range c.db.collections[c.name] {
		if matches(doc, filter) {
			out = append(out, withoutID(doc))
			if limit > 0 && int64(len(out)) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (c *fakeCollection) FindOne(ctx context.Context, filter map[string]any) (map[string]any, error) {
	docs, err := c.Find(ctx, filter, 1)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (c *fakeCollection) InsertOne(ctx context.Context, document map[string]any) (string, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return "", err
	}
	id := fmt.Sprintf("fake-id-%d", len(c.db.collections[c.name])+1)
	stored := make(map[string]any, len(document)+1)
	for k, v := range document {
		stored[k] = v
	}
	stored["_id"] = id
	c.db.collections[c.name] = append(c.db.collections[c.name], stored)
	return id, nil
}

func (c *fakeCollection) UpdateOne(ctx context.Context, filter, update map[string]any) (*docdb.UpdateResult, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return nil, err
	}
	for _, doc := range c.db.collections[c.name] {
		if matches(doc, filter) {
			modified := int64(0)
			for k, v := range update {
				if fmt.Sprint(doc[k]) != fmt.Sprint(v) {
					doc[k] = v
					modified = 1
				}
			}
			return &docdb.UpdateResult{MatchedCount: 1, ModifiedCount: modified}, nil
		}
	}
	return &docdb.UpdateResult{}, nil
}

func (c *fakeCollection) DeleteOne(ctx context.Context, filter map[string]any) (*docdb.DeleteResult, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return nil, err
	}
	docs := c.db.collections[c.name]
	for i, doc := range docs {
		if matches(doc, filter) {
			c.db.collections[c.name] = append(docs[:i], docs[i+1:]...)
			return &docdb.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &docdb.DeleteResult{}, nil
}

func (c *fakeCollection) CountDocuments(ctx context.Context, filter map[string]any) (int64, error) {
	docs, err := c.Find(ctx, filter, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (c *fakeCollection) Aggregate(ctx context.Context, pipeline []map[string]any) ([]map[string]any, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return nil, err
	}
	// Supports the $match-only pipelines the tests use.
	filter := map[string]any{}
	for _, stage := range pipeline {
		if m, ok := stage["$match"].(map[string]any); ok {
			filter = m
		}
	}
	var out []map[string]any
	for _, doc := range c.db.collections[c.name] {
		if matches(doc, filter) {
			out = append(out, withoutID(doc))
		}
	}
	return out, nil
}

func (c *fakeCollection) Stats(ctx context.Context) (map[string]any, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return nil, err
	}
	count := len(c.db.collections[c.name])
	return map[string]any{
		"count":          int64(count),
		"size":           int64(count * 256),
		"avgObjSize":     int64(256),
		"storageSize":    int64(count * 512),
		"totalIndexSize": int64(4096),
	}, nil
}

func (c *fakeCollection) ListIndexes(ctx context.Context) ([]map[string]any, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return nil, err
	}
	out := []map[string]any{{"name": "_id_", "key": map[string]any{"_id": int32(1)}}}
	out = append(out, c.db.indexes[c.name]...)
	return out, nil
}

func (c *fakeCollection) CreateIndex(ctx context.Context, keys []models.IndexKey, name string, unique bool) (string, error) {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return "", err
	}
	key := make(map[string]any, len(keys))
	for _, k := range keys {
		key[k.Field] = k.Direction
	}
	if name == "" {
		name = fmt.Sprintf("index_%d", len(c.db.indexes[c.name])+1)
	}
	c.db.indexes[c.name] = append(c.db.indexes[c.name], map[string]any{"name": name, "key": key, "unique": unique})
	return name, nil
}

func (c *fakeCollection) DropIndex(ctx context.Context, name string) error {
	c.db.client.mu.Lock()
	defer c.db.client.mu.Unlock()
	if err := c.db.client.op(); err != nil {
		return err
	}
	for i, idx := range c.db.indexes[c.name] {
		if idx["name"] == name {
			c.db.indexes[c.name] = append(c.db.indexes[c.name][:i], c.db.indexes[c.name][i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("index not found with name [%s]", name)
}
