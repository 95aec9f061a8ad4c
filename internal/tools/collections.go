package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mongobridge/tool-service/internal/conn"
	"github.com/mongobridge/tool-service/internal/core/docdb"
	domainerrors "github.com/mongobridge/tool-service/internal/domain/errors"
	"github.com/mongobridge/tool-service/internal/domain/validation"
)

type collectionParams struct {
	DatabaseName   string           `json:"database_name"`
	CollectionName string           `json:"collection_name"`
	NewName        string           `json:"new_name"`
	Filter         map[string]any   `json:"filter"`
	Pipeline       []map[string]any `json:"pipeline"`
}

func (p *collectionParams) validateNames() error {
	if err := validation.DatabaseName(p.DatabaseName); err != nil {
		return err
	}
	return validation.CollectionName(p.CollectionName)
}

// requireCollection fails with the precise not-found kind when the database
// or the collection is missing.
func requireCollection(ctx context.Context, h *conn.Handle, database, collection string) error {
	exists, err := h.CollectionExists(ctx, database, collection)
	if err != nil {
		return err
	}
	if !exists {
		return domainerrors.NewCollectionNotFoundError(collection)
	}
	return nil
}

// RegisterCollectionTools registers the collection-level tools.
func RegisterCollectionTools(r *Registry, connections *conn.Registry) error {
	toolset := []Tool{
		{
			Name:               "mongodb_list_collections",
			Description:        "List the collections in a database",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := validation.DatabaseName(p.DatabaseName); err != nil {
					return nil, err
				}
				exists, err := h.DatabaseExists(ctx, p.DatabaseName)
				if err != nil {
					return nil, domainerrors.NewOperationError("list_collections", err)
				}
				if !exists {
					return nil, domainerrors.NewDatabaseNotFoundError(p.DatabaseName)
				}
				names, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]string, error) {
					return client.Database(p.DatabaseName).ListCollectionNames(ctx)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("list_collections", err)
				}
				return map[string]any{"collections": names, "count": len(names)}, nil
			}),
		},
		{
			Name:               "mongodb_create_collection",
			Description:        "Create a collection in a database",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				err := h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
					return client.Database(p.DatabaseName).CreateCollection(ctx, p.CollectionName)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("create_collection", err)
				}
				return map[string]any{
					"message": fmt.Sprintf("collection '%s' created in database '%s'",
						p.CollectionName, p.DatabaseName),
				}, nil
			}),
		},
		{
			Name:               "mongodb_drop_collection",
			Description:        "Drop a collection from a database",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := requireCollection(ctx, h, p.DatabaseName, p.CollectionName); err != nil {
					return nil, err
				}
				err := h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
					return client.Database(p.DatabaseName).DropCollection(ctx, p.CollectionName)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("drop_collection", err)
				}
				return map[string]any{
					"message": fmt.Sprintf("collection '%s' dropped from database '%s'",
						p.CollectionName, p.DatabaseName),
				}, nil
			}),
		},
		{
			Name:               "mongodb_rename_collection",
			Description:        "Rename a collection within a database",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := validation.CollectionName(p.NewName); err != nil {
					return nil, err
				}
				if err := requireCollection(ctx, h, p.DatabaseName, p.CollectionName); err != nil {
					return nil, err
				}
				err := h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
					return client.RenameCollection(ctx, p.DatabaseName, p.CollectionName, p.NewName)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("rename_collection", err)
				}
				return map[string]any{
					"message": fmt.Sprintf("collection '%s' renamed to '%s'", p.CollectionName, p.NewName),
				}, nil
			}),
		},
		{
			Name:               "mongodb_validate_collection",
			Description:        "Run the validate command against a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := requireCollection(ctx, h, p.DatabaseName, p.CollectionName); err != nil {
					return nil, err
				}
				result, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (map[string]any, error) {
					return client.Database(p.DatabaseName).Validate(ctx, p.CollectionName)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("validate_collection", err)
				}
				return map[string]any{"validation": result}, nil
			}),
		},
		{
			Name:               "mongodb_get_collection_info",
			Description:        "Get statistics and indexes for a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				info, err := h.CollectionInfo(ctx, p.DatabaseName, p.CollectionName)
				if err != nil {
					if domainerrors.IsNotFound(err) {
						return nil, err
					}
					return nil, domainerrors.NewOperationError("get_collection_info", err)
				}
				return map[string]any{"collection": info}, nil
			}),
		},
		{
			Name:               "mongodb_count_documents",
			Description:        "Count the documents in a collection, optionally filtered",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				count, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) (int64, error) {
					return client.Database(p.DatabaseName).Collection(p.CollectionName).CountDocuments(ctx, p.Filter)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("count_documents", err)
				}
				return map[string]any{"count": count}, nil
			}),
		},
		{
			Name:               "mongodb_aggregate",
			Description:        "Run an aggregation pipeline against a collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p collectionParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := p.validateNames(); err != nil {
					return nil, err
				}
				if err := validation.Pipeline(p.Pipeline); err != nil {
					return nil, err
				}
				results, err := conn.Query(ctx, h, func(ctx context.Context, client docdb.Client) ([]map[string]any, error) {
					return client.Database(p.DatabaseName).Collection(p.CollectionName).Aggregate(ctx, p.Pipeline)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("aggregate", err)
				}
				return map[string]any{"results": results, "count": len(results)}, nil
			}),
		},
	}

	for _, tool := range toolset {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}
