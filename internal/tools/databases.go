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

type databaseParams struct {
	DatabaseName      string `json:"database_name"`
	InitialCollection string `json:"initial_collection"`
}

// RegisterDatabaseTools registers the database-level tools. All of them
// require an active connection.
func RegisterDatabaseTools(r *Registry, connections *conn.Registry) error {
	toolset := []Tool{
		{
			Name:               "mongodb_list_databases",
			Description:        "List all user databases with their statistics",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				infos, err := h.ListDatabases(ctx)
				if err != nil {
					return nil, domainerrors.NewOperationError("list_databases", err)
				}
				return map[string]any{"databases": infos, "count": len(infos)}, nil
			}),
		},
		{
			Name:               "mongodb_get_database_info",
			Description:        "Get statistics and collection names for a database",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p databaseParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := validation.DatabaseName(p.DatabaseName); err != nil {
					return nil, err
				}
				info, collections, err := h.DatabaseInfo(ctx, p.DatabaseName)
				if err != nil {
					if domainerrors.IsNotFound(err) {
						return nil, err
					}
					return nil, domainerrors.NewOperationError("get_database_info", err)
				}
				return map[string]any{"database": info, "collections": collections}, nil
			}),
		},
		{
			Name:               "mongodb_create_database",
			Description:        "Create a database by creating its first collection",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p databaseParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := validation.DatabaseName(p.DatabaseName); err != nil {
					return nil, err
				}
				// Databases come into existence with their first collection.
				if p.InitialCollection == "" {
					p.InitialCollection = "init"
				}
				if err := validation.CollectionName(p.InitialCollection); err != nil {
					return nil, err
				}
				err := h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
					return client.Database(p.DatabaseName).CreateCollection(ctx, p.InitialCollection)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("create_database", err)
				}
				return map[string]any{
					"message": fmt.Sprintf("database '%s' created with collection '%s'",
						p.DatabaseName, p.InitialCollection),
				}, nil
			}),
		},
		{
			Name:               "mongodb_drop_database",
			Description:        "Drop a database and all of its collections",
			RequiresConnection: true,
			Handler: Gated(connections, func(ctx context.Context, h *conn.Handle, params json.RawMessage) (map[string]any, error) {
				var p databaseParams
				if err := decodeParams(params, &p); err != nil {
					return nil, err
				}
				if err := validation.DatabaseName(p.DatabaseName); err != nil {
					return nil, err
				}
				exists, err := h.DatabaseExists(ctx, p.DatabaseName)
				if err != nil {
					return nil, domainerrors.NewOperationError("drop_database", err)
				}
				if !exists {
					return nil, domainerrors.NewDatabaseNotFoundError(p.DatabaseName)
				}
				err = h.Run(ctx, func(ctx context.Context, client docdb.Client) error {
					return client.DropDatabase(ctx, p.DatabaseName)
				})
				if err != nil {
					return nil, domainerrors.NewOperationError("drop_database", err)
				}
				return map[string]any{
					"message": fmt.Sprintf("database '%s' dropped", p.DatabaseName),
				}, nil
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
