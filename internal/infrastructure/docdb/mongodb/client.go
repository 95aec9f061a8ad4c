// Package mongodb provides the MongoDB implementation of the docdb
// interfaces.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mongobridge/tool-service/internal/core/docdb"
)

// Dial timeouts, fixed at client construction. There is no per-call
// caller-specified timeout; a blocking call runs to the driver's own
// timeout.
const (
	DefaultConnectTimeout         = 5 * time.Second
	DefaultServerSelectionTimeout = 5 * time.Second
	DefaultSocketTimeout          = 30 * time.Second
)

// DialConfig holds the driver timeouts applied to every new client.
type DialConfig struct {
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

// DefaultDialConfig returns the standard timeouts.
func DefaultDialConfig() DialConfig {
	return DialConfig{
		ConnectTimeout:         DefaultConnectTimeout,
		ServerSelectionTimeout: DefaultServerSelectionTimeout,
		SocketTimeout:          DefaultSocketTimeout,
	}
}

// NewDialer returns a docdb.Dialer that connects with the given timeouts
// and verifies the connection with a ping before handing it out.
func NewDialer(cfg DialConfig) docdb.Dialer {
	return func(ctx context.Context, uri string, maxPoolSize uint64) (docdb.Client, error) {
		clientOpts := options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(maxPoolSize).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
			SetSocketTimeout(cfg.SocketTimeout).
			SetRetryWrites(true).
			SetRetryReads(true)

		client, err := mongo.Connect(ctx, clientOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}

		// Verify connection
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ping mongodb: %w", err)
		}

		return &Client{client: client}, nil
	}
}

// Client implements the docdb.Client interface for MongoDB.
type Client struct {
	client *mongo.Client
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// ListDatabaseNames lists all database names on the server.
func (c *Client) ListDatabaseNames(ctx context.Context) ([]string, error) {
	names, err := c.client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return names, nil
}

// Database returns a handle to the named database.
func (c *Client) Database(name string) docdb.Database {
	return &Database{database: c.client.Database(name)}
}

// DropDatabase removes the named database.
func (c *Client) DropDatabase(ctx context.Context, name string) error {
	if err := c.client.Database(name).Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop database: %w", err)
	}
	return nil
}

// RenameCollection renames a collection via the admin renameCollection
// command.
func (c *Client) RenameCollection(ctx context.Context, database, oldName, newName string) error {
	cmd := bson.D{
		{Key: "renameCollection", Value: database + "." + oldName},
		{Key: "to", Value: database + "." + newName},
	}
	if err := c.client.Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("failed to rename collection: %w", err)
	}
	return nil
}

// ServerStatus runs the serverStatus command.
func (c *Client) ServerStatus(ctx context.Context) (map[string]any, error) {
	return c.runAdminCommand(ctx, bson.D{{Key: "serverStatus", Value: 1}})
}

// AdminStats runs dbStats against the admin database.
func (c *Client) AdminStats(ctx context.Context) (map[string]any, error) {
	return c.runAdminCommand(ctx, bson.D{{Key: "dbStats", Value: 1}})
}

func (c *Client) runAdminCommand(ctx context.Context, cmd bson.D) (map[string]any, error) {
	var result bson.M
	if err := c.client.Database("admin").RunCommand(ctx, cmd).Decode(&result); err != nil {
		return nil, fmt.Errorf("admin command failed: %w", err)
	}
	return normalizeDoc(result), nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
